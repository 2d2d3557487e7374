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

// Package fvcodec defines the top level errors and interfaces used by the
// four-valued signal compression toolkit.
//
// The implementations live in sub-folders: logic (four-valued samples and
// streams), frame (segmentation and symbol extraction), entropy (Shannon
// entropy and the Huffman codec), transform (the LZW codec), bitstream and io
// (packing codes and shipping them with their tables).
package fvcodec

import "errors"

const (
	ERR_MISSING_PARAM  = 1
	ERR_FRAME_SIZE     = 2
	ERR_SYMBOL_WIDTH   = 3
	ERR_INVALID_CODEC  = 4
	ERR_CREATE_CODEC   = 5
	ERR_OPEN_FILE      = 6
	ERR_READ_FILE      = 7
	ERR_WRITE_FILE     = 8
	ERR_CREATE_FILE    = 9
	ERR_OVERWRITE_FILE = 10
	ERR_PROCESS_STREAM = 11
	ERR_INVALID_FILE   = 12
	ERR_INVALID_PARAM  = 13
	ERR_INVALID_CONFIG = 14
	ERR_UNKNOWN        = 127
)

const (
	MIN_SYMBOL_BITS = 1
	MAX_SYMBOL_BITS = 32 // symbols are packed into an uint32

	// Upper bound of the samples a decoder accepts to rebuild in one call
	MAX_DECODED_SAMPLES = 1 << 30
)

var (
	// ErrFrameSizeMismatch is returned when a stream length is not a multiple
	// of the frame size or when a frame does not have the expected length.
	ErrFrameSizeMismatch = errors.New("frame size mismatch")

	// ErrInvalidSymbolWidth is returned for symbol widths outside [1..32].
	ErrInvalidSymbolWidth = errors.New("invalid symbol width")

	// ErrDictionaryNotPopulated is returned when the LZW codec is used before
	// the initial 256 mappings exist.
	ErrDictionaryNotPopulated = errors.New("dictionary not populated")

	// ErrUnterminatedCode is returned when a Huffman bit sequence does not end
	// on a symbol boundary.
	ErrUnterminatedCode = errors.New("unterminated code")

	// ErrDictionaryCapacityExhausted is informational: it is attached to the
	// event sent when the LZW dictionary stops growing and never returned.
	ErrDictionaryCapacityExhausted = errors.New("dictionary capacity exhausted")

	ErrNoSymbols         = errors.New("no symbol to encode")
	ErrUnknownSymbol     = errors.New("symbol missing from code table")
	ErrUnknownCodeword   = errors.New("codeword missing from dictionary")
	ErrAlreadyPopulated  = errors.New("dictionary already populated")
	ErrInvalidCodeTable  = errors.New("invalid code table")
	ErrInvalidDictionary = errors.New("invalid dictionary")
	ErrInvalidSample     = errors.New("invalid four-valued sample")
	ErrInvalidContainer  = errors.New("invalid container")
)

// InputBitStream is a bitstream reader
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream. Panics if closed or EOS is reached.
	ReadBit() int

	// ReadBits reads 'length' (in [1..64]) bits from the bitstream.
	// Returns the bits read as an uint64.
	// Panics if closed or EOS is reached.
	ReadBits(length uint) uint64

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// Read returns the number of bits read
	Read() uint64
}

// OutputBitStream is a bitstream writer
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	// Panics if closed or an IO error is received.
	WriteBit(bit int)

	// WriteBits writes the least significant bits of 'bits' to the bitstream.
	// Length is the number of bits to write (in [1..64]).
	// Returns the number of bits written.
	// Panics if closed or an IO error is received.
	WriteBits(bits uint64, length uint) uint

	// Close makes the bitstream unavailable for further writes.
	Close() error

	// Written returns the number of bits written
	Written() uint64
}
