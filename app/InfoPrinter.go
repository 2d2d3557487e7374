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

package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	fvcodec "github.com/signalcontent/fvcodec"
)

// An implementation of Listener to display codec information (verbose option
// of the StreamCompressor/StreamDecompressor)

type phaseKey struct {
	phase int
	id    int
}

// InfoPrinter writes the events received from the codecs
type InfoPrinter struct {
	writer  io.Writer
	level   uint
	lock    sync.Mutex
	pending map[phaseKey]*fvcodec.Event
}

// NewInfoPrinter creates a new instance of InfoPrinter.
// Level 2 prints the histogram, tree and dictionary events, level 3 prints
// every event with the duration of the encoding and decoding phases.
func NewInfoPrinter(infoLevel uint, writer io.Writer) (*InfoPrinter, error) {
	if writer == nil {
		return nil, errors.New("Invalid null writer parameter")
	}

	this := &InfoPrinter{}
	this.level = infoLevel
	this.writer = writer
	this.pending = make(map[phaseKey]*fvcodec.Event)
	return this, nil
}

// ProcessEvent receives an event and writes a log record to the internal writer
func (this *InfoPrinter) ProcessEvent(evt *fvcodec.Event) {
	if this.level < 2 {
		return
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	switch evt.Type() {
	case fvcodec.EVT_BEFORE_ENCODE, fvcodec.EVT_BEFORE_DECODE:
		this.pending[phaseKey{evt.Type(), evt.ID()}] = evt

		if this.level >= 3 {
			fmt.Fprintln(this.writer, evt)
		}

	case fvcodec.EVT_AFTER_ENCODE, fvcodec.EVT_AFTER_DECODE:
		// The matching BEFORE event type precedes the AFTER one
		key := phaseKey{evt.Type() - 1, evt.ID()}
		before, found := this.pending[key]
		delete(this.pending, key)

		if this.level < 3 {
			return
		}

		if found {
			durationMS := evt.Time().Sub(before.Time()).Nanoseconds() / int64(time.Millisecond)
			fmt.Fprintf(this.writer, "%s [%d ms] (%d => %d)\n", evt, durationMS, before.Size(), evt.Size())
		} else {
			fmt.Fprintln(this.writer, evt)
		}

	case fvcodec.EVT_DICTIONARY_FULL:
		fmt.Fprintf(this.writer, "Warning: %v\n", evt.Err())

	default:
		fmt.Fprintln(this.writer, evt)
	}
}
