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

// Package pipeline wires the transform and entropy stages into the
// top-level Encode/Decode operations and defines the wire envelope that
// records which stages were applied.
package pipeline

import (
	"encoding/binary"
	"io"

	"github.com/arnegard/comprs"
)

// Stage tags identify a pipeline stage in the envelope. StageRLE and StageST
// are reserved for the run-length and star-transform stages the teacher's
// transform package offers (RLT.go, TextCodec.go and friends); Encode never
// emits them and Decode rejects them, since no implementation of their
// inverse exists in this module (SPEC_FULL.md Sec.1 Non-goals, Sec.4.5).
const (
	StageBWT uint32 = iota
	StageMTF
	StagePPM
	StageRLE
	StageST
)

// Envelope binds the stage list applied by Encode to the resulting payload,
// so Decode checks from the data itself which stages were applied rather
// than relying on out-of-band configuration. Grounded on the teacher's io/CompressedStream.go framing
// philosophy (a header describing what was applied, read back to drive
// decompression), scaled down from kanzi's magic-number/version header to
// the small stage-tag list this pipeline needs.
type Envelope struct {
	Stages  []uint32
	Payload []byte
}

// Write serializes the envelope: stage-count, each stage tag, then the
// length-prefixed payload, all as little-endian integers (Sec.6.2).
func (this *Envelope) Write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(this.Stages))); err != nil {
		return comprs.WrapIO(err)
	}

	for _, s := range this.Stages {
		if err := binary.Write(w, binary.LittleEndian, s); err != nil {
			return comprs.WrapIO(err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(this.Payload))); err != nil {
		return comprs.WrapIO(err)
	}

	if _, err := w.Write(this.Payload); err != nil {
		return comprs.WrapIO(err)
	}

	return nil
}

// ReadEnvelope deserializes an Envelope previously written by Write,
// rejecting a reserved or unknown stage tag as corrupt input.
func ReadEnvelope(r io.Reader) (*Envelope, error) {
	var stageCount uint64

	if err := binary.Read(r, binary.LittleEndian, &stageCount); err != nil {
		return nil, comprs.WrapIO(err)
	}

	if stageCount > 1<<20 {
		return nil, comprs.WrapCorrupt("implausible stage count %d", stageCount)
	}

	stages := make([]uint32, stageCount)

	for i := range stages {
		if err := binary.Read(r, binary.LittleEndian, &stages[i]); err != nil {
			return nil, comprs.WrapIO(err)
		}

		if stages[i] == StageRLE || stages[i] == StageST {
			return nil, comprs.WrapCorrupt("stage tag %d is reserved and not implemented", stages[i])
		}

		if stages[i] > StageST {
			return nil, comprs.WrapCorrupt("unknown stage tag %d", stages[i])
		}
	}

	var payloadLen uint64

	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return nil, comprs.WrapIO(err)
	}

	if payloadLen > 1<<40 {
		return nil, comprs.WrapCorrupt("implausible payload length %d", payloadLen)
	}

	payload := make([]byte, payloadLen)

	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, comprs.WrapIO(err)
	}

	return &Envelope{Stages: stages, Payload: payload}, nil
}

// encodedChunk is one BWT+MTF+PPM-coded chunk as it appears in the payload:
// the original (pre-entropy-coding) chunk length, needed to size the PPM
// decode buffer, the BWT primary index, and the coded bytes themselves.
type encodedChunk struct {
	origLen int
	index   uint32
	coded   []byte
}

// writeChunks serializes a coded-chunk list: chunk-count, then per chunk its
// original length, its BWT primary index, and its length-prefixed coded
// bytes (Sec.6.2).
func writeChunks(w io.Writer, chunks []encodedChunk) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(chunks))); err != nil {
		return comprs.WrapIO(err)
	}

	for _, c := range chunks {
		if err := binary.Write(w, binary.LittleEndian, uint64(c.origLen)); err != nil {
			return comprs.WrapIO(err)
		}

		if err := binary.Write(w, binary.LittleEndian, c.index); err != nil {
			return comprs.WrapIO(err)
		}

		if err := binary.Write(w, binary.LittleEndian, uint64(len(c.coded))); err != nil {
			return comprs.WrapIO(err)
		}

		if _, err := w.Write(c.coded); err != nil {
			return comprs.WrapIO(err)
		}
	}

	return nil
}

func readChunks(r io.Reader) ([]encodedChunk, error) {
	var count uint64

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, comprs.WrapIO(err)
	}

	if count > 1<<20 {
		return nil, comprs.WrapCorrupt("implausible chunk count %d", count)
	}

	chunks := make([]encodedChunk, count)

	for i := range chunks {
		var origLen uint64

		if err := binary.Read(r, binary.LittleEndian, &origLen); err != nil {
			return nil, comprs.WrapIO(err)
		}

		if origLen > comprs.ChunkSize {
			return nil, comprs.WrapCorrupt("chunk %d original length %d exceeds ChunkSize", i, origLen)
		}

		var index uint32

		if err := binary.Read(r, binary.LittleEndian, &index); err != nil {
			return nil, comprs.WrapIO(err)
		}

		var codedLen uint64

		if err := binary.Read(r, binary.LittleEndian, &codedLen); err != nil {
			return nil, comprs.WrapIO(err)
		}

		// A coded chunk can never be dramatically larger than its raw form;
		// bound it generously to reject corrupt length fields early.
		if codedLen > 4*comprs.ChunkSize {
			return nil, comprs.WrapCorrupt("chunk %d coded length %d implausible", i, codedLen)
		}

		coded := make([]byte, codedLen)

		if _, err := io.ReadFull(r, coded); err != nil {
			return nil, comprs.WrapIO(err)
		}

		chunks[i] = encodedChunk{origLen: int(origLen), index: index, coded: coded}
	}

	return chunks, nil
}
