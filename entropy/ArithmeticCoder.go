/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import (
	"fmt"

	"github.com/arnegard/comprs"
)

const (
	numBits      = comprs.NumBits
	fullRange    = uint64(1) << numBits
	halfRange    = fullRange / 2
	quarterRange = halfRange / 2
	stateMask    = fullRange - 1
	minimumRange = quarterRange + 2

	// maximumTotal bounds the total a FrequencyTable may report for the coder
	// to accept it. Resolved to the simple quarterRange+2 bound rather than
	// min(MaxUint/fullRange, minimumRange): at NumBits=32 against a uint64
	// accumulator the MaxUint bound never binds (see DESIGN.md).
	maximumTotal = minimumRange
)

// coderState holds the (low, high) interval shared by the narrowing and
// renormalization arithmetic common to the encoder and decoder. shift and
// underflow are supplied by the concrete side (encoder emits bits / consumes
// the pending-underflow counter; decoder shifts in fresh input bits).
type coderState struct {
	low, high  uint64
	shift      func(topBit uint64)
	underflow  func()
}

// update narrows [low, high] for the given symbol against table, then
// renormalizes via the E1/E2 (top-bit-equal) and E3 (underflow) rules. This
// is the one place the 64-bit multiply-divide narrowing arithmetic exists;
// ArithmeticEncoder and ArithmeticDecoder each drive it through their own
// shift/underflow hooks rather than duplicating the math.
func (this *coderState) update(table FrequencyTable, symbol int) error {
	total := table.Total()

	if uint64(total) > maximumTotal {
		return fmt.Errorf("%w: frequency table total %d exceeds maximum %d", comprs.ErrInvariant, total, maximumTotal)
	}

	rng := this.high - this.low + 1

	if rng < minimumRange || rng > fullRange {
		return fmt.Errorf("%w: coder range %d out of bounds", comprs.ErrInvariant, rng)
	}

	symLow := uint64(table.GetLow(symbol))
	symHigh := uint64(table.GetHigh(symbol))

	if symHigh <= symLow {
		return fmt.Errorf("%w: symbol %d has zero frequency", comprs.ErrInvariant, symbol)
	}

	totalU := uint64(total)
	newLow := this.low + symLow*rng/totalU
	newHigh := this.low + symHigh*rng/totalU - 1
	this.low = newLow
	this.high = newHigh

	for (this.low^this.high)&halfRange == 0 {
		this.shift(this.low >> (numBits - 1))
		this.low = (this.low << 1) & stateMask
		this.high = ((this.high << 1) & stateMask) | 1
	}

	for this.low&^this.high&quarterRange != 0 {
		this.underflow()
		this.low = (this.low << 1) ^ halfRange
		this.high = ((this.high ^ halfRange) << 1) | halfRange | 1
	}

	return nil
}

// ArithmeticEncoder narrows a [0, fullRange) interval symbol by symbol and
// emits the bits that become fixed, following the Nayuki/Witten-Neal-Cleary
// renormalization scheme (grounded on original_source's arithmetic_coder
// base/encoder, not on the teacher's unrelated Subbotin-style RangeCodec).
type ArithmeticEncoder struct {
	state             coderState
	bitstream         comprs.OutputBitStream
	pendingUnderflow  uint64
}

// NewArithmeticEncoder creates an encoder writing to the given bitstream.
func NewArithmeticEncoder(bs comprs.OutputBitStream) (*ArithmeticEncoder, error) {
	if bs == nil {
		return nil, fmt.Errorf("%w: nil output bitstream", comprs.ErrInvariant)
	}

	this := &ArithmeticEncoder{bitstream: bs}
	this.state.low = 0
	this.state.high = stateMask
	this.state.shift = this.onShift
	this.state.underflow = this.onUnderflow
	return this, nil
}

func (this *ArithmeticEncoder) onShift(topBit uint64) {
	this.bitstream.WriteBit(int(topBit))

	for ; this.pendingUnderflow > 0; this.pendingUnderflow-- {
		this.bitstream.WriteBit(int(1 - topBit))
	}
}

func (this *ArithmeticEncoder) onUnderflow() {
	this.pendingUnderflow++
}

// EncodeSymbol narrows the coder's interval for symbol against table.
func (this *ArithmeticEncoder) EncodeSymbol(table FrequencyTable, symbol int) error {
	return this.state.update(table, symbol)
}

// Finish flushes the coder: a single 1 bit followed by the pending
// underflow bits unambiguously resolves which half of the final interval
// was chosen; a zero byte follows, and the caller's BitStream.Close()
// pads/flushes the trailing byte so the decoder always has NumBits of
// (possibly zero) bits to prime with.
func (this *ArithmeticEncoder) Finish() {
	this.bitstream.WriteBit(1)

	for ; this.pendingUnderflow > 0; this.pendingUnderflow-- {
		this.bitstream.WriteBit(0)
	}

	this.bitstream.WriteBits(0, 8)
}

// BitStream returns the underlying bitstream.
func (this *ArithmeticEncoder) BitStream() comprs.OutputBitStream {
	return this.bitstream
}

// ArithmeticDecoder mirrors ArithmeticEncoder, maintaining a code register
// primed from the input bitstream and recovering the symbol sequence.
type ArithmeticDecoder struct {
	state     coderState
	bitstream comprs.InputBitStream
	code      uint64
}

// NewArithmeticDecoder creates a decoder reading from the given bitstream.
// It immediately primes the code register with NumBits bits.
func NewArithmeticDecoder(bs comprs.InputBitStream) (*ArithmeticDecoder, error) {
	if bs == nil {
		return nil, fmt.Errorf("%w: nil input bitstream", comprs.ErrInvariant)
	}

	this := &ArithmeticDecoder{bitstream: bs}
	this.state.low = 0
	this.state.high = stateMask
	this.state.shift = this.onShift
	this.state.underflow = this.onUnderflow

	for i := 0; i < numBits; i++ {
		this.code = (this.code << 1) | uint64(this.nextInputBit())
	}

	return this, nil
}

func (this *ArithmeticDecoder) nextInputBit() int {
	// BitReader.ReadBit returns 0 past end of stream rather than erroring,
	// which is exactly the "treat missing trailing bits as zero" contract
	// this decoder needs.
	return this.bitstream.ReadBit()
}

func (this *ArithmeticDecoder) onShift(uint64) {
	this.code = ((this.code << 1) & stateMask) | uint64(this.nextInputBit())
}

func (this *ArithmeticDecoder) onUnderflow() {
	this.code = (this.code & halfRange) | ((this.code << 1) & (stateMask >> 1)) | uint64(this.nextInputBit())
}

// DecodeSymbol reads the next symbol coded against table.
func (this *ArithmeticDecoder) DecodeSymbol(table FrequencyTable) (int, error) {
	total := table.Total()

	if uint64(total) > maximumTotal {
		return 0, fmt.Errorf("%w: frequency table total %d exceeds maximum %d", comprs.ErrInvariant, total, maximumTotal)
	}

	rng := this.state.high - this.state.low + 1
	totalU := uint64(total)
	offset := this.code - this.state.low
	value := ((offset+1)*totalU - 1) / rng

	if value >= totalU {
		return 0, fmt.Errorf("%w: decoded value %d out of range for total %d", comprs.ErrCorruptInput, value, total)
	}

	start, end := 0, table.SymbolLimit()

	for end-start > 1 {
		mid := (start + end) >> 1

		if uint64(table.GetLow(mid)) <= value {
			start = mid
		} else {
			end = mid
		}
	}

	symbol := start

	if err := this.state.update(table, symbol); err != nil {
		return 0, err
	}

	if this.code < this.state.low || this.code > this.state.high {
		return 0, fmt.Errorf("%w: decoder code register out of range", comprs.ErrInvariant)
	}

	return symbol, nil
}

// BitStream returns the underlying bitstream.
func (this *ArithmeticDecoder) BitStream() comprs.InputBitStream {
	return this.bitstream
}
