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

package bitstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultInputBitStream is the default implementation of InputBitStream
type DefaultInputBitStream struct {
	closed      bool
	read        int64
	position    int  // index of current byte in buffer
	availBits   uint // bits not consumed in current
	is          io.Reader
	buffer      []byte
	maxPosition int
	current     uint64 // cached bits
}

// NewDefaultInputBitStream creates a bitstream for reading, using the provided stream as
// the underlying I/O object.
func NewDefaultInputBitStream(stream io.Reader, bufferSize uint) (*DefaultInputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null input stream parameter")
	}

	if bufferSize < 1024 {
		return nil, errors.New("Invalid buffer size parameter (must be at least 1024 bytes)")
	}

	if bufferSize > 1<<29 {
		return nil, errors.New("Invalid buffer size parameter (must be at most 536870912 bytes)")
	}

	if bufferSize&7 != 0 {
		return nil, errors.New("Invalid buffer size (must be a multiple of 8)")
	}

	this := new(DefaultInputBitStream)
	this.buffer = make([]byte, bufferSize)
	this.is = stream
	this.maxPosition = -1
	return this, nil
}

// ReadBit returns the next bit. Panics if the stream is closed or exhausted.
func (this *DefaultInputBitStream) ReadBit() int {
	if this.availBits == 0 {
		this.pullCurrent() // Panic if stream is closed
	}

	this.availBits--
	return int(this.current>>this.availBits) & 1
}

// ReadBits reads 'count' bits from the stream and returns them as an uint64.
// It panics if the count is outside of the [1..64] range or the stream is closed.
func (this *DefaultInputBitStream) ReadBits(count uint) uint64 {
	if count == 0 || count > 64 {
		panic(fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count))
	}

	if count <= this.availBits {
		// Enough spots available in 'current'
		this.availBits -= count
		return (this.current >> this.availBits) & (0xFFFFFFFFFFFFFFFF >> (64 - count))
	}

	// Not enough spots available in 'current': drain it and pull more
	res := uint64(0)

	for count > this.availBits {
		if this.availBits > 0 {
			res = (res << this.availBits) | (this.current & (0xFFFFFFFFFFFFFFFF >> (64 - this.availBits)))
			count -= this.availBits
			this.availBits = 0
		}

		this.pullCurrent()
	}

	this.availBits -= count
	return (res << count) | ((this.current >> this.availBits) & (0xFFFFFFFFFFFFFFFF >> (64 - count)))
}

// ReadBools reads 'count' bits, one boolean per bit (1 is true)
func (this *DefaultInputBitStream) ReadBools(count int) []bool {
	res := make([]bool, count)

	for i := range res {
		res[i] = this.ReadBit() == 1
	}

	return res
}

func (this *DefaultInputBitStream) readFromInputStream(count int) (int, error) {
	if this.closed {
		return 0, errors.New("Stream closed")
	}

	this.read += int64((this.maxPosition + 1) << 3)
	size, err := io.ReadAtLeast(this.is, this.buffer[0:count], 1)
	this.position = 0

	if size <= 0 {
		this.maxPosition = -1

		if err == nil || err == io.EOF {
			err = errors.New("No more data to read in the bitstream")
		}

		return 0, err
	}

	this.maxPosition = size - 1
	return size, nil
}

// Pull 64 bits of current value from buffer.
func (this *DefaultInputBitStream) pullCurrent() {
	if this.position > this.maxPosition {
		if _, err := this.readFromInputStream(len(this.buffer)); err != nil {
			panic(err)
		}
	}

	if this.position+7 > this.maxPosition {
		// End of buffer: take the bytes left
		shift := uint(this.maxPosition-this.position) << 3
		this.availBits = shift + 8
		val := uint64(0)

		for this.position <= this.maxPosition {
			val |= uint64(this.buffer[this.position]) << shift
			this.position++
			shift -= 8
		}

		this.current = val
	} else {
		this.current = binary.BigEndian.Uint64(this.buffer[this.position : this.position+8])
		this.availBits = 64
		this.position += 8
	}
}

// Close prevents further reads (beyond the available bits)
func (this *DefaultInputBitStream) Close() error {
	if this.closed {
		return nil
	}

	this.closed = true
	this.read -= int64(this.availBits) // can be negative
	this.availBits = 0
	this.maxPosition = -1
	return nil
}

// Read returns the number of bits read so far
func (this *DefaultInputBitStream) Read() uint64 {
	if this.closed {
		return uint64(this.read)
	}

	return uint64(this.read + int64(this.position)<<3 - int64(this.availBits))
}

// Closed says whether this stream can be read from
func (this *DefaultInputBitStream) Closed() bool {
	return this.closed
}
