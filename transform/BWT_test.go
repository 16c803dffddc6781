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

package transform

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBWTForwardFixture(t *testing.T) {
	data, index, err := forwardChunk([]byte(".ANANAS."))
	require.NoError(t, err)
	require.Equal(t, []byte("S..NNAAA"), data)
	require.EqualValues(t, 1, index)
}

func TestBWTInverseFixture(t *testing.T) {
	out, err := inverseChunk([]byte("S..NNAAA"), 1)
	require.NoError(t, err)
	require.Equal(t, []byte(".ANANAS."), out)
}

func TestBWTChunkRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		encoded, index, err := forwardChunk(data)
		require.NoError(rt, err)

		decoded, err := inverseChunk(encoded, index)
		require.NoError(rt, err)
		require.Equal(rt, data, decoded)
	})
}

func TestBWTBlockRoundTrip(t *testing.T) {
	bwt, err := NewBWT()
	require.NoError(t, err)

	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 50000)
	chunks, err := bwt.ForwardBlock(data)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	decoded, err := bwt.InverseBlock(chunks)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestBWTEmptyAndSingleByte(t *testing.T) {
	bwt, err := NewBWT()
	require.NoError(t, err)

	chunks, err := bwt.ForwardBlock([]byte{})
	require.NoError(t, err)
	decoded, err := bwt.InverseBlock(chunks)
	require.NoError(t, err)
	require.Equal(t, []byte{}, decoded)

	chunks, err = bwt.ForwardBlock([]byte{0x41})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.EqualValues(t, 0, chunks[0].Index)
	decoded, err = bwt.InverseBlock(chunks)
	require.NoError(t, err)
	require.Equal(t, []byte{0x41}, decoded)
}

func TestBWTInverseRejectsBadIndex(t *testing.T) {
	_, err := inverseChunk([]byte("abc"), 5)
	require.Error(t, err)
}
