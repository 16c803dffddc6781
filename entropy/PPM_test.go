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
	"bytes"
	"testing"

	"github.com/arnegard/comprs"
	"github.com/arnegard/comprs/bitstream"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func roundTripPPM(t require.TestingT, order int, data []byte) []byte {
	buf := &bytes.Buffer{}
	bw, err := bitstream.NewBitWriter(buf)
	require.NoError(t, err)

	enc, err := NewPPMEncoder(bw, order)
	require.NoError(t, err)

	_, err = enc.Write(data)
	require.NoError(t, err)
	enc.Dispose()
	require.NoError(t, bw.Close())

	br, err := bitstream.NewBitReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	dec, err := NewPPMDecoder(br, order)
	require.NoError(t, err)

	out := make([]byte, len(data))
	_, err = dec.Read(out)
	require.NoError(t, err)
	dec.Dispose()
	return out
}

func TestPPMRoundTripFixtures(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x41},
		[]byte("bananaaa"),
		[]byte(".ANANAS."),
		bytes.Repeat([]byte("A"), 1024),
		[]byte("the quick brown fox jumps over the lazy dog"),
	}

	for _, c := range cases {
		// A nil block decodes into an empty, non-nil buffer.
		want := c

		if want == nil {
			want = []byte{}
		}

		out := roundTripPPM(t, comprs.Order, c)
		require.Equal(t, want, out)
	}
}

func TestPPMRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		out := roundTripPPM(rt, comprs.Order, data)
		require.Equal(rt, data, out)
	})
}

func TestPPMCompressesRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("A"), 1024)

	buf := &bytes.Buffer{}
	bw, err := bitstream.NewBitWriter(buf)
	require.NoError(t, err)

	enc, err := NewPPMEncoder(bw, comprs.Order)
	require.NoError(t, err)

	_, err = enc.Write(data)
	require.NoError(t, err)
	enc.Dispose()
	require.NoError(t, bw.Close())

	require.Less(t, buf.Len(), len(data))
}

func TestSimpleFrequencyTableInvariants(t *testing.T) {
	tbl, err := NewSimpleFrequencyTableOfSize(comprs.SymbolLimit)
	require.NoError(t, err)

	tbl.Set(comprs.Escape, 1)
	require.Equal(t, 1, tbl.Total())

	tbl.Increment(65)
	tbl.Increment(65)
	tbl.Increment(10)

	require.Equal(t, 2, tbl.Get(65))
	require.Equal(t, 1, tbl.Get(10))
	require.Equal(t, 4, tbl.Total())
	require.Equal(t, tbl.Total(), tbl.GetHigh(comprs.SymbolLimit-1))
	require.Equal(t, tbl.GetLow(65)+tbl.Get(65), tbl.GetHigh(65))
}

func TestFlatFrequencyTable(t *testing.T) {
	tbl, err := NewFlatFrequencyTable(comprs.SymbolLimit)
	require.NoError(t, err)

	require.Equal(t, comprs.SymbolLimit, tbl.Total())

	for s := 0; s < comprs.SymbolLimit; s++ {
		require.Equal(t, 1, tbl.Get(s))
		require.Equal(t, s, tbl.GetLow(s))
		require.Equal(t, s+1, tbl.GetHigh(s))
	}
}
