/*
Copyright 2014-2026 The fvcodec Authors
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

package fvcodec

import (
	"fmt"
	"time"
)

const (
	EVT_HISTOGRAM_BUILT    = 0 // Symbol histogram computed
	EVT_HUFFMAN_TREE_BUILT = 1 // Huffman tree and code table ready
	EVT_DICTIONARY_BUILT   = 2 // LZW dictionary population ends
	EVT_DICTIONARY_FULL    = 3 // LZW dictionary reached its codeword capacity
	EVT_BEFORE_ENCODE      = 4 // Encoding starts
	EVT_AFTER_ENCODE       = 5 // Encoding ends
	EVT_BEFORE_DECODE      = 6 // Decoding starts
	EVT_AFTER_DECODE       = 7 // Decoding ends
	EVT_INFO               = 8 // Free form message
)

// Event a codec event. Size is a count whose unit depends on the event
// type (symbols, codewords or bits).
type Event struct {
	eventType int
	id        int
	size      int64
	err       error
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType, id int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance with size info
func NewEvent(evtType, id int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, size: size, eventTime: evtTime}
}

// NewErrorEvent creates an Event carrying a non fatal condition
func NewErrorEvent(evtType, id int, size int64, err error, evtTime time.Time) *Event {
	evt := NewEvent(evtType, id, size, evtTime)
	evt.err = err
	return evt
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// ID returns the id info
func (this *Event) ID() int {
	return this.id
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// Err returns the condition reported by the event, if any
func (this *Event) Err() error {
	return this.err
}

// TypeName returns a printable name for the event type
func (this *Event) TypeName() string {
	switch this.eventType {
	case EVT_HISTOGRAM_BUILT:
		return "HISTOGRAM_BUILT"

	case EVT_HUFFMAN_TREE_BUILT:
		return "HUFFMAN_TREE_BUILT"

	case EVT_DICTIONARY_BUILT:
		return "DICTIONARY_BUILT"

	case EVT_DICTIONARY_FULL:
		return "DICTIONARY_FULL"

	case EVT_BEFORE_ENCODE:
		return "BEFORE_ENCODE"

	case EVT_AFTER_ENCODE:
		return "AFTER_ENCODE"

	case EVT_BEFORE_DECODE:
		return "BEFORE_DECODE"

	case EVT_AFTER_DECODE:
		return "AFTER_DECODE"

	case EVT_INFO:
		return "INFO"
	}

	return "UNKNOWN"
}

// String returns a string representation of this event.
// If the event wraps a message, the message is returned.
// Otherwise a string is built from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	id := ""
	e := ""

	if this.id >= 0 {
		id = fmt.Sprintf(", \"id\": %d", this.id)
	}

	if this.err != nil {
		e = fmt.Sprintf(", \"error\": %q", this.err.Error())
	}

	return fmt.Sprintf("{ \"type\":\"%s\"%s, \"size\":%d, \"time\":%d%s }", this.TypeName(), id,
		this.size, this.eventTime.UnixNano()/1000000, e)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}

// NotifyListeners sends the event to every listener. A panicking listener
// does not interrupt the codec.
func NotifyListeners(listeners []Listener, evt *Event) {
	defer func() {
		//nolint
		if r := recover(); r != nil {
			//lint:ignore SA9003
			// Ignore panics in listeners
		}
	}()

	for _, l := range listeners {
		l.ProcessEvent(evt)
	}
}
