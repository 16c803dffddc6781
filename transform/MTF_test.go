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
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMTFForwardFixture(t *testing.T) {
	mtf, err := NewMTF()
	require.NoError(t, err)

	src := []byte("bananaaa")
	dst := make([]byte, len(src))
	_, _, err = mtf.Forward(src, dst)
	require.NoError(t, err)
	require.Equal(t, []byte{98, 98, 110, 1, 1, 1, 0, 0}, dst)
}

func TestMTFRoundTripFixture(t *testing.T) {
	mtf, err := NewMTF()
	require.NoError(t, err)

	src := []byte("bananaaa")
	encoded := make([]byte, len(src))
	_, _, err = mtf.Forward(src, encoded)
	require.NoError(t, err)

	decoded := make([]byte, len(src))
	_, _, err = mtf.Inverse(encoded, decoded)
	require.NoError(t, err)
	require.Equal(t, src, decoded)
}

func TestMTFRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mtf, err := NewMTF()
		require.NoError(rt, err)

		src := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		encoded := make([]byte, len(src))
		_, _, err = mtf.Forward(src, encoded)
		require.NoError(rt, err)

		decoded := make([]byte, len(src))
		_, _, err = mtf.Inverse(encoded, decoded)
		require.NoError(rt, err)
		require.Equal(rt, src, decoded)
	})
}

func TestMTFEmptyInput(t *testing.T) {
	mtf, err := NewMTF()
	require.NoError(t, err)

	dst := make([]byte, 0)
	n, m, err := mtf.Forward([]byte{}, dst)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
	require.EqualValues(t, 0, m)
}
