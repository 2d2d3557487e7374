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
	"github.com/signalcontent/fvcodec/logic"
	"github.com/signalcontent/fvcodec/transform"
)

// LZWMode selects the dictionary of an LZW codec
type LZWMode int

const (
	LZW_MODE_BYTES LZWMode = iota // byte dictionary: Encode / Decode
	LZW_MODE_BITS                 // bit dictionary: EncodeBits / DecodeBits
)

// LZWContainer is the content of an LZW container: a decoder rebuilt from
// the shipped dictionary and the codewords.
type LZWContainer struct {
	Codec     *transform.LZWCodec
	Codewords []uint16
	Mode      LZWMode
}

// Decode expands the codewords with the dictionary matching the mode
func (this *LZWContainer) Decode() (*logic.Stream, error) {
	if this.Mode == LZW_MODE_BITS {
		return this.Codec.DecodeBits(this.Codewords)
	}

	return this.Codec.Decode(this.Codewords)
}

// WriteLZW writes the dictionary of 'codec' selected by 'mode' and the
// codewords it produced. Only the codewords above 255 are shipped.
func WriteLZW(w io.Writer, codec *transform.LZWCodec, codewords []uint16, mode LZWMode) error {
	var strs map[uint16][]byte
	kind := uint8(CODEC_LZW_BYTES)

	switch mode {
	case LZW_MODE_BYTES:
		strs = codec.Dictionary()
	case LZW_MODE_BITS:
		kind = CODEC_LZW_BITS

		if dict := codec.BitDictionary(); dict != nil {
			strs = make(map[uint16][]byte, len(dict))

			for cw, bits := range dict {
				strs[cw] = make([]byte, len(bits))

				for i, b := range bits {
					if b {
						strs[cw][i] = 1
					}
				}
			}
		}
	default:
		return &IOError{msg: "Invalid LZW mode", code: fvcodec.ERR_INVALID_PARAM}
	}

	if strs == nil {
		return &IOError{msg: "Cannot write LZW dictionary", code: fvcodec.ERR_PROCESS_STREAM, err: fvcodec.ErrDictionaryNotPopulated}
	}

	for _, cw := range codewords {
		if int(cw) >= len(strs) {
			return &IOError{msg: "Cannot write LZW codewords", code: fvcodec.ERR_PROCESS_STREAM, err: fvcodec.ErrUnknownCodeword}
		}
	}

	table, err := packBits(func(obs *bitstream.DefaultOutputBitStream) {
		bitstream.WriteVarInt(obs, uint32(len(strs)))

		for cw := transform.LZW_FIRST_CODEWORD; cw < len(strs); cw++ {
			str := strs[uint16(cw)]
			bitstream.WriteVarInt(obs, uint32(len(str)))

			for _, sym := range str {
				if kind == CODEC_LZW_BITS {
					obs.WriteBit(int(sym))
				} else {
					obs.WriteBits(uint64(sym), 8)
				}
			}
		}
	})

	if err != nil {
		return err
	}

	payload, err := packBits(func(obs *bitstream.DefaultOutputBitStream) {
		for _, cw := range codewords {
			obs.WriteBits(uint64(cw), transform.LZW_CODEWORD_BITS)
		}
	})

	if err != nil {
		return err
	}

	hdr := containerHeader{
		kind:        kind,
		symbolBits:  transform.LZW_SYMBOL_BITS,
		count:       uint32(len(codewords)),
		payloadBits: uint64(len(codewords)) * transform.LZW_CODEWORD_BITS,
	}

	return writeContainer(w, hdr, table, payload)
}

// ReadLZW reads a container written by WriteLZW
func ReadLZW(r io.Reader) (*LZWContainer, error) {
	hdr, table, payload, err := readContainer(r, CODEC_LZW_BYTES, CODEC_LZW_BITS)

	if err != nil {
		return nil, err
	}

	if hdr.payloadBits != uint64(hdr.count)*transform.LZW_CODEWORD_BITS {
		return nil, invalid("Invalid payload size %d for %d codewords", hdr.payloadBits, hdr.count)
	}

	bits := hdr.kind == CODEC_LZW_BITS
	byteDict := make(map[uint16][]byte)
	bitDict := make(map[uint16][]bool)

	for cw := 0; cw < transform.LZW_FIRST_CODEWORD; cw++ {
		if bits {
			bitDict[uint16(cw)] = []bool{cw&0x80 != 0, cw&0x40 != 0, cw&0x20 != 0, cw&0x10 != 0,
				cw&0x08 != 0, cw&0x04 != 0, cw&0x02 != 0, cw&0x01 != 0}
		} else {
			byteDict[uint16(cw)] = []byte{byte(cw)}
		}
	}

	err = unpackBits(table, "dictionary", func(ibs *bitstream.DefaultInputBitStream) error {
		n := bitstream.ReadVarInt(ibs)

		if n < transform.LZW_FIRST_CODEWORD || n > transform.LZW_MAX_CODEWORDS {
			return invalid("Invalid dictionary size %d", n)
		}

		for cw := uint32(transform.LZW_FIRST_CODEWORD); cw < n; cw++ {
			length := bitstream.ReadVarInt(ibs)

			if uint64(length) > uint64(len(table))*8 {
				return invalid("Invalid string length %d for codeword %d", length, cw)
			}

			if bits {
				bitDict[uint16(cw)] = ibs.ReadBools(int(length))
				continue
			}

			str := make([]byte, length)

			for i := range str {
				str[i] = byte(ibs.ReadBits(8))
			}

			byteDict[uint16(cw)] = str
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	res := &LZWContainer{Mode: LZW_MODE_BYTES}

	if bits {
		res.Mode = LZW_MODE_BITS
		res.Codec, err = transform.NewLZWBitDecoder(bitDict)
	} else {
		res.Codec, err = transform.NewLZWDecoder(byteDict)
	}

	if err != nil {
		return nil, invalid("Invalid dictionary: %v", err)
	}

	err = unpackBits(payload, "codewords", func(ibs *bitstream.DefaultInputBitStream) error {
		res.Codewords = make([]uint16, hdr.count)

		for i := range res.Codewords {
			res.Codewords[i] = uint16(ibs.ReadBits(transform.LZW_CODEWORD_BITS))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}
