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
	fvcodec "github.com/signalcontent/fvcodec"
)

// WriteVarInt writes the value 7 bits at a time, low bits first, with the
// high bit of each byte set when more bytes follow. Returns the number of
// bytes written.
func WriteVarInt(bs fvcodec.OutputBitStream, value uint32) int {
	res := 1

	for value >= 128 {
		bs.WriteBits(uint64(0x80|(value&0x7F)), 8)
		value >>= 7
		res++
	}

	bs.WriteBits(uint64(value), 8)
	return res
}

// ReadVarInt reads a value written by WriteVarInt
func ReadVarInt(bs fvcodec.InputBitStream) uint32 {
	res := uint32(0)

	for shift := uint(0); shift < 35; shift += 7 {
		value := uint32(bs.ReadBits(8))
		res |= (value & 0x7F) << shift

		if value < 128 {
			break
		}
	}

	return res
}
