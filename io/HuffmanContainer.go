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
	"io"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/bitstream"
	"github.com/signalcontent/fvcodec/entropy"
)

// HuffmanContainer is the content of a Huffman container: a decoder
// rebuilt from the shipped code table and the encoded bits.
type HuffmanContainer struct {
	Codec      *entropy.HuffmanCodec
	Bits       []bool
	FrameCount int
}

// WriteHuffman writes the code table of 'codec' and the bits it encoded from
// 'frameCount' frames.
func WriteHuffman(w io.Writer, codec *entropy.HuffmanCodec, bits []bool, frameCount int) error {
	if frameCount < 0 || uint64(frameCount) > 0xFFFFFFFF {
		return &IOError{msg: "Invalid frame count", code: fvcodec.ERR_INVALID_PARAM}
	}

	codes := codec.CodeTable()

	table, err := packBits(func(obs *bitstream.DefaultOutputBitStream) {
		bitstream.WriteVarInt(obs, uint32(len(codes)))

		for _, s := range sortedKeys(codes) {
			bitstream.WriteVarInt(obs, s)
			bitstream.WriteVarInt(obs, uint32(len(codes[s])))
			obs.WriteBools(codes[s])
		}
	})

	if err != nil {
		return err
	}

	payload, err := packBits(func(obs *bitstream.DefaultOutputBitStream) {
		obs.WriteBools(bits)
	})

	if err != nil {
		return err
	}

	hdr := containerHeader{
		kind:        CODEC_HUFFMAN,
		symbolBits:  uint8(codec.SymbolBits()),
		frameSize:   uint32(codec.FrameSize()),
		count:       uint32(frameCount),
		payloadBits: uint64(len(bits)),
	}

	return writeContainer(w, hdr, table, payload)
}

// ReadHuffman reads a container written by WriteHuffman
func ReadHuffman(r io.Reader) (*HuffmanContainer, error) {
	hdr, table, payload, err := readContainer(r, CODEC_HUFFMAN)

	if err != nil {
		return nil, err
	}

	if hdr.frameSize == 0 || uint64(hdr.count)*uint64(hdr.frameSize) > fvcodec.MAX_DECODED_SAMPLES {
		return nil, invalid("Invalid frame count %d for frames of size %d", hdr.count, hdr.frameSize)
	}

	codes := make(map[uint32][]bool)

	err = unpackBits(table, "code table", func(ibs *bitstream.DefaultInputBitStream) error {
		n := bitstream.ReadVarInt(ibs)

		for i := uint32(0); i < n; i++ {
			s := bitstream.ReadVarInt(ibs)
			length := bitstream.ReadVarInt(ibs)

			if uint64(length) > uint64(len(table))*8 {
				return invalid("Invalid code length %d for symbol %d", length, s)
			}

			if _, ok := codes[s]; ok {
				return invalid("Duplicate symbol %d in code table", s)
			}

			codes[s] = ibs.ReadBools(int(length))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	codec, err := entropy.NewHuffmanDecoder(codes, int(hdr.frameSize), int(hdr.symbolBits))

	if err != nil {
		return nil, invalid("Invalid code table: %v", err)
	}

	res := &HuffmanContainer{Codec: codec, FrameCount: int(hdr.count)}

	err = unpackBits(payload, "payload", func(ibs *bitstream.DefaultInputBitStream) error {
		res.Bits = ibs.ReadBools(int(hdr.payloadBits))
		return nil
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}
