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

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/arnegard/comprs"
	"github.com/arnegard/comprs/bitstream"
	"github.com/arnegard/comprs/entropy"
	"github.com/arnegard/comprs/internal"
	"github.com/arnegard/comprs/transform"
)

// Codec drives the full BWT -> MTF -> PPM+AC pipeline end to end and is the
// type a host program constructs to call Encode/Decode. A Listener may be
// attached to observe stage boundaries (comprs.Event); by default no events
// are produced, matching the teacher's opt-in Listener pattern. Events are
// emitted for the BWT and entropy stages only: MTF runs inside the per-chunk
// entropy step, so EVT_BEFORE_MTF/EVT_AFTER_MTF are never emitted.
type Codec struct {
	listener comprs.Listener
}

// NewCodec creates a Codec with no attached listener.
func NewCodec() *Codec {
	return &Codec{}
}

// SetListener attaches (or, with nil, detaches) a diagnostic event listener.
func (this *Codec) SetListener(l comprs.Listener) {
	this.listener = l
}

func (this *Codec) notify(evtType int, chunkID int, size int64) {
	if this.listener == nil {
		return
	}

	this.listener.ProcessEvent(comprs.NewEvent(evtType, chunkID, size, time.Time{}))
}

// Encode applies BWT, then MTF, then PPM+arithmetic coding to data and
// returns the resulting self-describing byte stream (Sec.6.1, Sec.6.2).
// Internal invariant violations (comprs.ErrInvariant, SPEC_FULL.md Sec.7)
// are recovered here and returned as an error rather than propagating as a
// panic to the caller.
func (this *Codec) Encode(ctx context.Context, data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = comprs.WrapInvariant("recovered during encode: %v", e)
			} else {
				err = comprs.WrapInvariant("recovered during encode: %v", r)
			}
		}
	}()

	if data == nil {
		data = []byte{}
	}

	this.notify(comprs.EVT_ENCODE_START, -1, int64(len(data)))

	bwt, err := transform.NewBWT()

	if err != nil {
		return nil, err
	}

	this.notify(comprs.EVT_BEFORE_BWT, -1, int64(len(data)))
	bwtChunks, err := bwt.ForwardBlock(data)

	if err != nil {
		return nil, err
	}

	this.notify(comprs.EVT_AFTER_BWT, -1, int64(len(data)))

	if err := ctx.Err(); err != nil {
		return nil, comprs.WrapIO(err)
	}

	this.notify(comprs.EVT_BEFORE_ENTROPY, -1, int64(len(data)))

	coded := make([]encodedChunk, len(bwtChunks))
	errs := make([]error, len(bwtChunks))

	runParallelChunks(len(bwtChunks), func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = comprs.WrapIO(err)
			return
		}

		mtf, err := transform.NewMTF()

		if err != nil {
			errs[i] = err
			return
		}

		mtfOut := make([]byte, len(bwtChunks[i].Data))

		if _, _, err := mtf.Forward(bwtChunks[i].Data, mtfOut); err != nil {
			errs[i] = err
			return
		}

		buf := internal.NewBufferStream()
		bw, err := bitstream.NewBitWriter(buf)

		if err != nil {
			errs[i] = err
			return
		}

		enc, err := entropy.NewPPMEncoder(bw, comprs.Order)

		if err != nil {
			errs[i] = err
			return
		}

		if _, err := enc.Write(mtfOut); err != nil {
			errs[i] = err
			return
		}

		enc.Dispose()

		if err := bw.Close(); err != nil {
			errs[i] = comprs.WrapIO(err)
			return
		}

		coded[i] = encodedChunk{origLen: len(bwtChunks[i].Data), index: bwtChunks[i].Index, coded: buf.Bytes()}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	this.notify(comprs.EVT_AFTER_ENTROPY, -1, int64(len(data)))

	payload := &bytes.Buffer{}

	if err := writeChunks(payload, coded); err != nil {
		return nil, err
	}

	envelope := &Envelope{Stages: []uint32{StageBWT, StageMTF, StagePPM}, Payload: payload.Bytes()}
	result := &bytes.Buffer{}

	if err := envelope.Write(result); err != nil {
		return nil, err
	}

	this.notify(comprs.EVT_ENCODE_END, -1, int64(result.Len()))
	return result.Bytes(), nil
}

// Decode reverses Encode, applying PPM+arithmetic decoding, then MTF
// inverse, then BWT inverse. The envelope's stage list must be exactly the
// one Encode writes ([StageBWT, StageMTF, StagePPM]); any other list is
// rejected as comprs.ErrCorruptInput rather than dispatched stage by stage.
func (this *Codec) Decode(ctx context.Context, data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = comprs.WrapInvariant("recovered during decode: %v", e)
			} else {
				err = comprs.WrapInvariant("recovered during decode: %v", r)
			}
		}
	}()

	this.notify(comprs.EVT_DECODE_START, -1, int64(len(data)))

	envelope, err := ReadEnvelope(bytes.NewReader(data))

	if err != nil {
		// data is an in-memory slice, so a failed read means it ended early.
		if errors.Is(err, comprs.ErrIO) {
			err = comprs.WrapCorrupt("truncated envelope: %v", err)
		}

		return nil, err
	}

	if !stagesMatch(envelope.Stages, []uint32{StageBWT, StageMTF, StagePPM}) {
		return nil, comprs.WrapCorrupt("unsupported stage list %v", envelope.Stages)
	}

	chunks, err := readChunks(bytes.NewReader(envelope.Payload))

	if err != nil {
		if errors.Is(err, comprs.ErrIO) {
			err = comprs.WrapCorrupt("truncated payload: %v", err)
		}

		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, comprs.WrapIO(err)
	}

	this.notify(comprs.EVT_BEFORE_ENTROPY, -1, int64(len(envelope.Payload)))

	bwtChunks := make([]transform.Chunk, len(chunks))
	errs := make([]error, len(chunks))

	runParallelChunks(len(chunks), func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = comprs.WrapIO(err)
			return
		}

		br, err := bitstream.NewBitReader(internal.NewBufferStream(chunks[i].coded))

		if err != nil {
			errs[i] = err
			return
		}

		dec, err := entropy.NewPPMDecoder(br, comprs.Order)

		if err != nil {
			errs[i] = err
			return
		}

		mtfOut := make([]byte, chunks[i].origLen)

		if _, err := dec.Read(mtfOut); err != nil {
			errs[i] = err
			return
		}

		dec.Dispose()

		mtf, err := transform.NewMTF()

		if err != nil {
			errs[i] = err
			return
		}

		bwtData := make([]byte, len(mtfOut))

		if _, _, err := mtf.Inverse(mtfOut, bwtData); err != nil {
			errs[i] = err
			return
		}

		bwtChunks[i] = transform.Chunk{Data: bwtData, Index: chunks[i].index}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	this.notify(comprs.EVT_AFTER_ENTROPY, -1, 0)

	bwt, err := transform.NewBWT()

	if err != nil {
		return nil, err
	}

	this.notify(comprs.EVT_BEFORE_BWT, -1, 0)
	result, err := bwt.InverseBlock(bwtChunks)

	if err != nil {
		return nil, err
	}

	this.notify(comprs.EVT_AFTER_BWT, -1, int64(len(result)))
	this.notify(comprs.EVT_DECODE_END, -1, int64(len(result)))
	return result, nil
}

func stagesMatch(got, want []uint32) bool {
	if len(got) != len(want) {
		return false
	}

	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}

	return true
}

// runParallelChunks runs fn(i) for i in [0, n) across goroutines bounded by
// GOMAXPROCS, waiting for all to finish. Job sizing follows the same
// distribution internal.ComputeJobsPerTask uses elsewhere in the teacher's
// concurrency helpers, generalized here to the MTF/PPM per-chunk fan-out
// that complements transform.BWT's own chunk-level parallelism (Sec.5).
func runParallelChunks(n int, fn func(i int)) {
	if n == 0 {
		return
	}

	jobs := uint(runtime.GOMAXPROCS(0))

	if jobs > uint(n) {
		jobs = uint(n)
	}

	perTask, err := internal.ComputeJobsPerTask(make([]uint, jobs), uint(n), jobs)

	if err != nil {
		perTask = []uint{uint(n)}
	}

	var wg sync.WaitGroup
	idx := 0

	for _, count := range perTask {
		start := idx
		end := idx + int(count)
		idx = end

		wg.Add(1)

		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}
