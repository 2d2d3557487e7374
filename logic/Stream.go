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

package logic

import (
	"bufio"
	"io"
	"strings"
)

// Stream is an ordered FIFO sequence of samples. Operations that take a
// *Stream by ownership (segmentation, dictionary population) drain it.
type Stream struct {
	samples []Sample
	head    int
}

// NewStream creates a stream holding a copy of the provided samples
func NewStream(samples ...Sample) *Stream {
	this := &Stream{}
	this.samples = append(make([]Sample, 0, len(samples)), samples...)
	return this
}

// Push appends samples at the back of the stream
func (this *Stream) Push(samples ...Sample) {
	this.samples = append(this.samples, samples...)
}

// Pop removes and returns the sample at the front of the stream.
// The boolean is false if the stream is empty.
func (this *Stream) Pop() (Sample, bool) {
	if this.head >= len(this.samples) {
		return ZERO, false
	}

	s := this.samples[this.head]
	this.head++

	// Reclaim the consumed prefix once it dominates the backing array
	if this.head > 1024 && this.head > len(this.samples)/2 {
		this.samples = append(this.samples[:0], this.samples[this.head:]...)
		this.head = 0
	}

	return s, true
}

// Len returns the number of samples left in the stream
func (this *Stream) Len() int {
	return len(this.samples) - this.head
}

// Samples returns a copy of the samples left in the stream
func (this *Stream) Samples() []Sample {
	return append([]Sample(nil), this.samples[this.head:]...)
}

// Drain transfers the content of the stream to the caller and leaves the
// stream empty.
func (this *Stream) Drain() []Sample {
	res := this.samples[this.head:]
	this.samples = nil
	this.head = 0
	return res
}

// String returns the samples as display characters
func (this *Stream) String() string {
	var sb strings.Builder
	sb.Grow(this.Len())

	for _, s := range this.samples[this.head:] {
		sb.WriteByte(ToChar(s))
	}

	return sb.String()
}

// ParseStream parses a text made of sample characters.
// See ReadStream for the accepted syntax.
func ParseStream(text string) (*Stream, error) {
	return ReadStream(strings.NewReader(text))
}

// ReadStream reads samples written as '0', '1', 'X' or 'Z' characters.
// Whitespace and '_' separators are skipped, '#' starts a comment that runs
// to the end of the line.
func ReadStream(r io.Reader) (*Stream, error) {
	this := NewStream()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		for _, c := range line {
			if c == '#' {
				break
			}

			if c == ' ' || c == '\t' || c == '\r' || c == '_' {
				continue
			}

			s, err := FromChar(c)

			if err != nil {
				return nil, err
			}

			this.samples = append(this.samples, s)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return this, nil
}
