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
	"strings"
	"testing"

	"github.com/arnegard/comprs"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const loremIpsum = `Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam,
quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo
consequat. Duis aute irure dolor in reprehenderit in voluptate velit esse
cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat
non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.`

func TestCodecRoundTripEmpty(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()

	encoded, err := codec.Encode(ctx, nil)
	require.NoError(t, err)

	decoded, err := codec.Decode(ctx, encoded)
	require.NoError(t, err)
	require.Equal(t, []byte{}, decoded)
}

func TestCodecRoundTripSingleByte(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()

	encoded, err := codec.Encode(ctx, []byte{0x41})
	require.NoError(t, err)

	decoded, err := codec.Decode(ctx, encoded)
	require.NoError(t, err)
	require.Equal(t, []byte{0x41}, decoded)
}

func TestCodecRoundTripLoremIpsum(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()
	data := []byte(loremIpsum)

	encoded, err := codec.Encode(ctx, data)
	require.NoError(t, err)
	require.Less(t, len(encoded), len(data))

	decoded, err := codec.Decode(ctx, encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestCodecRoundTripRepetitiveInput(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()
	data := bytes.Repeat([]byte("A"), 1024)

	encoded, err := codec.Encode(ctx, data)
	require.NoError(t, err)
	require.Less(t, len(encoded), len(data))

	decoded, err := codec.Decode(ctx, encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestCodecRoundTripMultiChunk(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()
	data := []byte(strings.Repeat(loremIpsum, 5000))
	require.Greater(t, len(data), comprs.ChunkSize)

	encoded, err := codec.Encode(ctx, data)
	require.NoError(t, err)

	decoded, err := codec.Decode(ctx, encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestCodecRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		codec := NewCodec()
		ctx := context.Background()
		data := rapid.SliceOfN(rapid.Byte(), 0, 4096).Draw(rt, "data")

		encoded, err := codec.Encode(ctx, data)
		require.NoError(rt, err)

		decoded, err := codec.Decode(ctx, encoded)
		require.NoError(rt, err)
		require.Equal(rt, data, decoded)
	})
}

func TestDecodeRejectsCorruptEnvelope(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()

	_, err := codec.Decode(ctx, []byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}

func TestDecodeRejectsReservedStageTag(t *testing.T) {
	codec := NewCodec()
	ctx := context.Background()

	envelope := &Envelope{Stages: []uint32{StageRLE}, Payload: []byte{}}
	buf := &bytes.Buffer{}
	require.NoError(t, envelope.Write(buf))

	_, err := codec.Decode(ctx, buf.Bytes())
	require.Error(t, err)
}

type recordingListener struct {
	types []int
}

func (this *recordingListener) ProcessEvent(evt *comprs.Event) {
	this.types = append(this.types, evt.Type())
}

func TestCodecEmitsLifecycleEvents(t *testing.T) {
	codec := NewCodec()
	listener := &recordingListener{}
	codec.SetListener(listener)

	_, err := codec.Encode(context.Background(), []byte("hello world"))
	require.NoError(t, err)

	require.Contains(t, listener.types, comprs.EVT_ENCODE_START)
	require.Contains(t, listener.types, comprs.EVT_ENCODE_END)
}
