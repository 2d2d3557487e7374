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

package internal

import (
	"bytes"
	"errors"
)

// BufferStream a closable read/write stream of bytes backed by a bytes.Buffer.
// It lets the bitstreams write to and read from memory.
type BufferStream struct {
	buf    *bytes.Buffer
	closed bool
}

// NewBufferStream creates a new instance of BufferStream, optionally
// holding initial data to read
func NewBufferStream(args ...[]byte) *BufferStream {
	this := &BufferStream{}

	if len(args) == 1 {
		this.buf = bytes.NewBuffer(args[0])
	} else {
		this.buf = new(bytes.Buffer)
	}

	return this
}

// Write returns an error if the stream is closed, otherwise appends the data
func (this *BufferStream) Write(b []byte) (int, error) {
	if this.closed {
		return 0, errors.New("Stream closed")
	}

	return this.buf.Write(b)
}

// Read returns an error if the stream is closed, otherwise reads the next
// unread bytes. Returns (0, io.EOF) when no more data remains.
func (this *BufferStream) Read(b []byte) (int, error) {
	if this.closed {
		return 0, errors.New("Stream closed")
	}

	return this.buf.Read(b)
}

// Close makes the stream unavailable for future reads or writes.
// The content remains accessible through Bytes.
func (this *BufferStream) Close() error {
	this.closed = true
	return nil
}

// Len returns the number of unread bytes
func (this *BufferStream) Len() int {
	return this.buf.Len()
}

// Bytes returns the unread bytes
func (this *BufferStream) Bytes() []byte {
	return this.buf.Bytes()
}
