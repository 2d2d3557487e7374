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

package io

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dchest/siphash"
	"github.com/klauspost/compress/zstd"
	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/bitstream"
	"github.com/signalcontent/fvcodec/internal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Layout of a container (big endian):
// - header, 26 bytes: magic (32 bits), codec kind (8), symbol width (8),
//   frame size (32), frame or codeword count (32), payload size in bits (64),
//   size of the compressed table section in bytes (32)
// - table section: code table or dictionary, zstd compressed
// - payload: Huffman bits or 12-bit codewords, padded to a byte
// - trailer: siphash-2-4 of everything above (64 bits)

const (
	_CONTAINER_MAGIC          = 0x46564301 // "FVC\x01"
	_CONTAINER_HEADER_SIZE    = 26
	_CONTAINER_TRAILER_SIZE   = 8
	_CONTAINER_BUFFER_SIZE    = 64 * 1024
	_CONTAINER_MAX_TABLE_SIZE = 64 << 20
	_SIPHASH_K0               = uint64(0x4656432D7369702D)
	_SIPHASH_K1               = uint64(0x666F75722D76616C)
)

// Codec kinds
const (
	CODEC_HUFFMAN   = 1
	CODEC_LZW_BYTES = 2
	CODEC_LZW_BITS  = 3
)

type containerHeader struct {
	kind        uint8
	symbolBits  uint8
	frameSize   uint32
	count       uint32
	payloadBits uint64
	tableSize   uint32
}

func invalid(format string, args ...any) error {
	return &IOError{msg: fmt.Sprintf(format, args...), code: fvcodec.ERR_INVALID_FILE, err: fvcodec.ErrInvalidContainer}
}

// Run 'write' against a bitstream backed by memory and return the bytes
// written, last byte padded.
func packBits(write func(obs *bitstream.DefaultOutputBitStream)) (res []byte, err error) {
	bs := internal.NewBufferStream()
	obs, err := bitstream.NewDefaultOutputBitStream(bs, _CONTAINER_BUFFER_SIZE)

	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &IOError{msg: fmt.Sprintf("Cannot write bitstream: %v", r), code: fvcodec.ERR_WRITE_FILE}
		}
	}()

	write(obs)

	if err = obs.Close(); err != nil {
		return nil, err
	}

	return bs.Bytes(), nil
}

// Run 'read' against a bitstream over 'data'. Reading past the end of the
// data is reported as an invalid container.
func unpackBits(data []byte, what string, read func(ibs *bitstream.DefaultInputBitStream) error) (err error) {
	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream(data), _CONTAINER_BUFFER_SIZE)

	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = invalid("Cannot read %s: %v", what, r)
		}
	}()

	if err = read(ibs); err != nil {
		return err
	}

	return ibs.Close()
}

func writeContainer(w io.Writer, hdr containerHeader, table, payload []byte) error {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))

	if err != nil {
		return &IOError{msg: "Cannot create table compressor", code: fvcodec.ERR_CREATE_CODEC, err: err}
	}

	ztable := enc.EncodeAll(table, nil)

	if err = enc.Close(); err != nil {
		return &IOError{msg: "Cannot compress table", code: fvcodec.ERR_PROCESS_STREAM, err: err}
	}

	hdr.tableSize = uint32(len(ztable))

	header, err := packBits(func(obs *bitstream.DefaultOutputBitStream) {
		obs.WriteBits(_CONTAINER_MAGIC, 32)
		obs.WriteBits(uint64(hdr.kind), 8)
		obs.WriteBits(uint64(hdr.symbolBits), 8)
		obs.WriteBits(uint64(hdr.frameSize), 32)
		obs.WriteBits(uint64(hdr.count), 32)
		obs.WriteBits(hdr.payloadBits, 64)
		obs.WriteBits(uint64(hdr.tableSize), 32)
	})

	if err != nil {
		return err
	}

	data := make([]byte, 0, len(header)+len(ztable)+len(payload)+_CONTAINER_TRAILER_SIZE)
	data = append(data, header...)
	data = append(data, ztable...)
	data = append(data, payload...)
	data = binary.BigEndian.AppendUint64(data, siphash.Hash(_SIPHASH_K0, _SIPHASH_K1, data))

	if _, err = w.Write(data); err != nil {
		return &IOError{msg: "Cannot write container", code: fvcodec.ERR_WRITE_FILE, err: err}
	}

	return nil
}

// Read and check a whole container. Return the header, the decompressed
// table section and the payload.
func readContainer(r io.Reader, kinds ...uint8) (containerHeader, []byte, []byte, error) {
	var hdr containerHeader
	data, err := io.ReadAll(r)

	if err != nil {
		return hdr, nil, nil, &IOError{msg: "Cannot read container", code: fvcodec.ERR_READ_FILE, err: err}
	}

	if len(data) < _CONTAINER_HEADER_SIZE+_CONTAINER_TRAILER_SIZE {
		return hdr, nil, nil, invalid("Truncated container (%d bytes)", len(data))
	}

	end := len(data) - _CONTAINER_TRAILER_SIZE

	if siphash.Hash(_SIPHASH_K0, _SIPHASH_K1, data[:end]) != binary.BigEndian.Uint64(data[end:]) {
		return hdr, nil, nil, invalid("Checksum mismatch")
	}

	err = unpackBits(data[:_CONTAINER_HEADER_SIZE], "header", func(ibs *bitstream.DefaultInputBitStream) error {
		if magic := ibs.ReadBits(32); magic != _CONTAINER_MAGIC {
			return invalid("Invalid stream type: %#x", magic)
		}

		hdr.kind = uint8(ibs.ReadBits(8))
		hdr.symbolBits = uint8(ibs.ReadBits(8))
		hdr.frameSize = uint32(ibs.ReadBits(32))
		hdr.count = uint32(ibs.ReadBits(32))
		hdr.payloadBits = ibs.ReadBits(64)
		hdr.tableSize = uint32(ibs.ReadBits(32))
		return nil
	})

	if err != nil {
		return hdr, nil, nil, err
	}

	if !slices.Contains(kinds, hdr.kind) {
		return hdr, nil, nil, invalid("Unexpected codec kind %d", hdr.kind)
	}

	payloadStart := uint64(_CONTAINER_HEADER_SIZE) + uint64(hdr.tableSize)

	if payloadStart > uint64(end) || uint64(end)-payloadStart != (hdr.payloadBits+7)>>3 {
		return hdr, nil, nil, invalid("Inconsistent section sizes (table %d bytes, payload %d bits, container %d bytes)",
			hdr.tableSize, hdr.payloadBits, len(data))
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(_CONTAINER_MAX_TABLE_SIZE))

	if err != nil {
		return hdr, nil, nil, &IOError{msg: "Cannot create table decompressor", code: fvcodec.ERR_CREATE_CODEC, err: err}
	}

	defer dec.Close()
	table, err := dec.DecodeAll(data[_CONTAINER_HEADER_SIZE:payloadStart], nil)

	if err != nil {
		return hdr, nil, nil, invalid("Cannot decompress table: %v", err)
	}

	return hdr, table, data[payloadStart:end], nil
}

func sortedKeys[K uint16 | uint32, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// ContainerKind returns the codec kind of a container without checking it
func ContainerKind(data []byte) (int, error) {
	if len(data) < _CONTAINER_HEADER_SIZE || binary.BigEndian.Uint32(data) != _CONTAINER_MAGIC {
		return 0, invalid("Invalid stream type")
	}

	return int(data[4]), nil
}
