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

package comprs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewEventDefaultsTime(t *testing.T) {
	evt := NewEvent(EVT_BEFORE_BWT, 2, 1024, time.Time{})
	require.False(t, evt.Time().IsZero())
	require.Equal(t, EVT_BEFORE_BWT, evt.Type())
	require.Equal(t, 2, evt.ChunkID())
	require.EqualValues(t, 1024, evt.Size())
}

func TestEventStringContainsType(t *testing.T) {
	evt := NewEvent(EVT_AFTER_ENTROPY, -1, 0, time.Time{})
	require.Contains(t, evt.String(), "AFTER_ENTROPY")
}

func TestEventFromStringReturnsMessage(t *testing.T) {
	evt := NewEventFromString(EVT_ENCODE_START, -1, "starting", time.Time{})
	require.Equal(t, "starting", evt.String())
}

type captureListener struct {
	last *Event
}

func (this *captureListener) ProcessEvent(evt *Event) {
	this.last = evt
}

func TestListenerReceivesEvent(t *testing.T) {
	l := &captureListener{}
	var listener Listener = l
	listener.ProcessEvent(NewEvent(EVT_DECODE_END, -1, 42, time.Time{}))
	require.NotNil(t, l.last)
	require.EqualValues(t, 42, l.last.Size())
}
