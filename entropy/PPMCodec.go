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

// wrapDecodeCorrupt wraps a description as a comprs.ErrCorruptInput.
func wrapDecodeCorrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", comprs.ErrCorruptInput, fmt.Sprintf(format, args...))
}

// PPMEncoder drives a PPMModel against an ArithmeticEncoder, implementing
// comprs.EntropyEncoder. Grounded on the teacher's NullEntropyCodec.go for
// the interface-compliance shape (constructor returning (*Type, error),
// BitStream()/Dispose()) and on FPAQCodec.go for the pattern of a codec
// driving a predictor symbol-by-symbol against a coder, generalized here
// from a binary predictor to the full 257-symbol PPM alphabet.
//
// One PPMEncoder instance codes exactly one block: Write encodes every byte
// of the block followed by the comprs.Escape end marker and flushes the
// coder, so Dispose has nothing left to do.
type PPMEncoder struct {
	model *PPMModel
	coder *ArithmeticEncoder
}

// NewPPMEncoder creates a PPM entropy encoder with the given context order,
// writing to the given bitstream.
func NewPPMEncoder(bs comprs.OutputBitStream, order int) (*PPMEncoder, error) {
	model, err := NewPPMModel(order)

	if err != nil {
		return nil, err
	}

	coder, err := NewArithmeticEncoder(bs)

	if err != nil {
		return nil, err
	}

	return &PPMEncoder{model: model, coder: coder}, nil
}

// Write encodes every byte of block, followed by the end-of-block marker,
// and flushes the underlying arithmetic coder.
func (this *PPMEncoder) Write(block []byte) (int, error) {
	for _, b := range block {
		if err := this.model.EncodeSymbol(this.coder, int(b)); err != nil {
			return 0, err
		}
	}

	if err := this.model.EncodeSymbol(this.coder, comprs.Escape); err != nil {
		return 0, err
	}

	this.coder.Finish()
	return len(block), nil
}

// BitStream returns the underlying bitstream.
func (this *PPMEncoder) BitStream() comprs.OutputBitStream {
	return this.coder.BitStream()
}

// Dispose is a no-op: Write already flushes this encoder's single block.
func (this *PPMEncoder) Dispose() {
}

// PPMDecoder mirrors PPMEncoder, implementing comprs.EntropyDecoder.
type PPMDecoder struct {
	model *PPMModel
	coder *ArithmeticDecoder
}

// NewPPMDecoder creates a PPM entropy decoder with the given context order,
// reading from the given bitstream.
func NewPPMDecoder(bs comprs.InputBitStream, order int) (*PPMDecoder, error) {
	model, err := NewPPMModel(order)

	if err != nil {
		return nil, err
	}

	coder, err := NewArithmeticDecoder(bs)

	if err != nil {
		return nil, err
	}

	return &PPMDecoder{model: model, coder: coder}, nil
}

// Read decodes len(block) bytes into block, then decodes and verifies the
// trailing end-of-block marker, returning comprs.ErrCorruptInput if it is
// missing (i.e. a byte symbol was decoded in its place, or the marker was
// decoded early while filling block).
func (this *PPMDecoder) Read(block []byte) (int, error) {
	for i := range block {
		sym, err := this.model.DecodeSymbol(this.coder)

		if err != nil {
			return 0, err
		}

		if sym >= comprs.Escape {
			return 0, wrapDecodeCorrupt("unexpected end-of-block marker at byte %d of %d", i, len(block))
		}

		block[i] = byte(sym)
	}

	sym, err := this.model.DecodeSymbol(this.coder)

	if err != nil {
		return 0, err
	}

	if sym != comprs.Escape {
		return 0, wrapDecodeCorrupt("missing end-of-block marker after %d bytes", len(block))
	}

	return len(block), nil
}

// BitStream returns the underlying bitstream.
func (this *PPMDecoder) BitStream() comprs.InputBitStream {
	return this.coder.BitStream()
}

// Dispose is a no-op: Read already consumes this decoder's single block
// including its end-of-block marker.
func (this *PPMDecoder) Dispose() {
}
