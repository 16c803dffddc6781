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
	"fmt"
	"time"
)

const (
	EVT_ENCODE_START  = 0 // Encode call starts
	EVT_DECODE_START  = 1 // Decode call starts
	EVT_BEFORE_BWT    = 2 // BWT forward/inverse starts
	EVT_AFTER_BWT     = 3 // BWT forward/inverse ends
	EVT_BEFORE_MTF    = 4 // MTF forward/inverse starts
	EVT_AFTER_MTF     = 5 // MTF forward/inverse ends
	EVT_BEFORE_ENTROPY = 6 // PPM/arithmetic coding starts
	EVT_AFTER_ENTROPY  = 7 // PPM/arithmetic coding ends
	EVT_ENCODE_END    = 8 // Encode call ends
	EVT_DECODE_END    = 9 // Decode call ends
)

// Event is a pipeline-stage event, fired at stage boundaries so a host
// program can observe progress without the core printing anything itself.
type Event struct {
	eventType int
	chunkID   int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message.
func NewEventFromString(evtType, chunkID int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, chunkID: chunkID, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance carrying the byte count processed
// by the stage transition being reported.
func NewEvent(evtType, chunkID int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, chunkID: chunkID, size: size, eventTime: evtTime}
}

// Type returns the event type, one of the EVT_* constants.
func (this *Event) Type() int {
	return this.eventType
}

// ChunkID returns the index of the chunk this event relates to, or -1 if
// the event is not chunk-scoped.
func (this *Event) ChunkID() int {
	return this.chunkID
}

// Time returns the time the event was created.
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the byte count processed by the reported stage transition.
func (this *Event) Size() int64 {
	return this.size
}

// String returns a string representation of this event. If the event wraps
// a message, the message is returned; otherwise a string is built from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	t := ""
	id := ""

	if this.chunkID >= 0 {
		id = fmt.Sprintf(", \"chunk\": %d", this.chunkID)
	}

	switch this.eventType {
	case EVT_ENCODE_START:
		t = "ENCODE_START"
	case EVT_DECODE_START:
		t = "DECODE_START"
	case EVT_BEFORE_BWT:
		t = "BEFORE_BWT"
	case EVT_AFTER_BWT:
		t = "AFTER_BWT"
	case EVT_BEFORE_MTF:
		t = "BEFORE_MTF"
	case EVT_AFTER_MTF:
		t = "AFTER_MTF"
	case EVT_BEFORE_ENTROPY:
		t = "BEFORE_ENTROPY"
	case EVT_AFTER_ENTROPY:
		t = "AFTER_ENTROPY"
	case EVT_ENCODE_END:
		t = "ENCODE_END"
	case EVT_DECODE_END:
		t = "DECODE_END"
	}

	return fmt.Sprintf("{ \"type\":\"%s\"%s, \"size\":%d, \"time\":%d }", t, id, this.size,
		this.eventTime.UnixNano()/1000000)
}

// Listener is implemented by event processors attached to Encode/Decode.
type Listener interface {
	// ProcessEvent is called whenever the listener receives an event.
	ProcessEvent(evt *Event)
}
