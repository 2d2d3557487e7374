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

package transform

import (
	"fmt"
	"time"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/logic"
)

const (
	LZW_SYMBOL_BITS    = 8
	LZW_CODEWORD_BITS  = 12
	LZW_MAX_CODEWORDS  = 1 << LZW_CODEWORD_BITS
	LZW_FIRST_CODEWORD = 1 << LZW_SYMBOL_BITS

	// Event ids of the two dictionaries
	LZW_BYTE_TRIE = 0
	LZW_BIT_TRIE  = 1
)

// LZWCodec is a two pass dictionary codec over four-valued sample streams.
// The dictionary is grown once by PopulateDictionary, then frozen. It is
// made of two tries built from the same samples: one over bytes (8 samples
// packed most significant first) and one over single samples. X and Z
// samples are read as 0.
// Decoding is a direct lookup of the codeword strings, so the dictionary
// must be shipped along with the codewords (see Dictionary and
// NewLZWDecoder). It is not re-derived from the codeword sequence.
type LZWCodec struct {
	byteTrie  *lzwTrie
	bitTrie   *lzwTrie
	listeners []fvcodec.Listener
}

// NewLZWCodec creates a codec with an empty dictionary
func NewLZWCodec(listeners ...fvcodec.Listener) *LZWCodec {
	return &LZWCodec{listeners: listeners}
}

// NewLZWDecoder creates a codec from a byte dictionary returned by
// Dictionary(). The codewords must be dense, from 0 to len(dict)-1, with
// at most 4096 entries and the reserved single byte strings under 0..255.
// The bit dictionary of the resulting codec is empty.
func NewLZWDecoder(dict map[uint16][]byte, listeners ...fvcodec.Listener) (*LZWCodec, error) {
	trie, err := rebuildLZWTrie(256, dict)

	if err != nil {
		return nil, err
	}

	return &LZWCodec{byteTrie: trie, listeners: listeners}, nil
}

// NewLZWBitDecoder creates a codec from a bit dictionary returned by
// BitDictionary(). The byte dictionary of the resulting codec is empty.
func NewLZWBitDecoder(dict map[uint16][]bool, listeners ...fvcodec.Listener) (*LZWCodec, error) {
	bytes := make(map[uint16][]byte, len(dict))

	for cw, bits := range dict {
		str := make([]byte, len(bits))

		for i, b := range bits {
			if b {
				str[i] = 1
			}
		}

		bytes[cw] = str
	}

	trie, err := rebuildLZWTrie(2, bytes)

	if err != nil {
		return nil, err
	}

	return &LZWCodec{bitTrie: trie, listeners: listeners}, nil
}

// PopulateDictionary grows both dictionaries from the samples of 's' and
// drains it. It can be called only once. A trailing group of less than 8
// samples does not add any entry to the byte dictionary.
func (this *LZWCodec) PopulateDictionary(s *logic.Stream) error {
	if this.byteTrie != nil || this.bitTrie != nil {
		return fmt.Errorf("LZW codec: %w", fvcodec.ErrAlreadyPopulated)
	}

	samples := s.Drain()
	this.byteTrie = newLZWTrie(256)
	this.bitTrie = newLZWTrie(2)

	if this.byteTrie.populate(toBytes(samples, false)) {
		this.notifyFull(LZW_BYTE_TRIE)
	}

	if this.bitTrie.populate(toBits(samples)) {
		this.notifyFull(LZW_BIT_TRIE)
	}

	this.notify(fvcodec.EVT_DICTIONARY_BUILT, LZW_BYTE_TRIE, int64(this.byteTrie.size()))
	this.notify(fvcodec.EVT_DICTIONARY_BUILT, LZW_BIT_TRIE, int64(this.bitTrie.size()))
	return nil
}

// Pack the samples in bytes, first sample in the most significant bit.
// A trailing group of less than 8 samples is either dropped or padded with
// zeros in its low bits.
func toBytes(samples []logic.Sample, pad bool) []byte {
	res := make([]byte, 0, len(samples)/LZW_SYMBOL_BITS+1)
	n := len(samples) & -LZW_SYMBOL_BITS

	for i := 0; i < n; i += LZW_SYMBOL_BITS {
		res = append(res, byte(logic.PackMSBFirst(samples[i:i+LZW_SYMBOL_BITS])))
	}

	if pad && n < len(samples) {
		tail := samples[n:]
		res = append(res, byte(logic.PackMSBFirst(tail)<<uint(LZW_SYMBOL_BITS-len(tail))))
	}

	return res
}

func toBits(samples []logic.Sample) []byte {
	res := make([]byte, len(samples))

	for i, s := range samples {
		if logic.ToBool(s) {
			res[i] = 1
		}
	}

	return res
}

// Encode returns the codewords of the longest dictionary matches of the
// bytes of 's', in order. The stream is left untouched. A trailing group of
// less than 8 samples is padded with ZERO samples.
func (this *LZWCodec) Encode(s *logic.Stream) ([]uint16, error) {
	if this.byteTrie == nil {
		return nil, fmt.Errorf("LZW codec: %w", fvcodec.ErrDictionaryNotPopulated)
	}

	this.notify(fvcodec.EVT_BEFORE_ENCODE, LZW_BYTE_TRIE, int64(s.Len()))
	res := this.byteTrie.encode(toBytes(s.Samples(), true))
	this.notify(fvcodec.EVT_AFTER_ENCODE, LZW_BYTE_TRIE, int64(len(res)))
	return res, nil
}

// Decode expands each codeword to its byte string and each byte to 8
// samples, most significant bit first.
func (this *LZWCodec) Decode(codewords []uint16) (*logic.Stream, error) {
	if this.byteTrie == nil {
		return nil, fmt.Errorf("LZW codec: %w", fvcodec.ErrDictionaryNotPopulated)
	}

	this.notify(fvcodec.EVT_BEFORE_DECODE, LZW_BYTE_TRIE, int64(len(codewords)))
	bytes, err := this.byteTrie.decode(codewords)

	if err != nil {
		return nil, fmt.Errorf("LZW codec: %w", err)
	}

	res := logic.NewStream()

	for _, b := range bytes {
		res.Push(logic.UnpackMSBFirst(uint32(b), LZW_SYMBOL_BITS)...)
	}

	this.notify(fvcodec.EVT_AFTER_DECODE, LZW_BYTE_TRIE, int64(res.Len()))
	return res, nil
}

// EncodeBits is the bit dictionary variant of Encode. If the input ends
// inside one of the reserved 8 bit strings, the string is completed with
// ZERO samples.
func (this *LZWCodec) EncodeBits(s *logic.Stream) ([]uint16, error) {
	if this.bitTrie == nil {
		return nil, fmt.Errorf("LZW codec: %w", fvcodec.ErrDictionaryNotPopulated)
	}

	this.notify(fvcodec.EVT_BEFORE_ENCODE, LZW_BIT_TRIE, int64(s.Len()))
	res := this.bitTrie.encode(toBits(s.Samples()))
	this.notify(fvcodec.EVT_AFTER_ENCODE, LZW_BIT_TRIE, int64(len(res)))
	return res, nil
}

// DecodeBits is the bit dictionary variant of Decode
func (this *LZWCodec) DecodeBits(codewords []uint16) (*logic.Stream, error) {
	if this.bitTrie == nil {
		return nil, fmt.Errorf("LZW codec: %w", fvcodec.ErrDictionaryNotPopulated)
	}

	this.notify(fvcodec.EVT_BEFORE_DECODE, LZW_BIT_TRIE, int64(len(codewords)))
	bits, err := this.bitTrie.decode(codewords)

	if err != nil {
		return nil, fmt.Errorf("LZW codec: %w", err)
	}

	res := logic.NewStream()

	for _, b := range bits {
		res.Push(logic.FromBool(b == 1))
	}

	this.notify(fvcodec.EVT_AFTER_DECODE, LZW_BIT_TRIE, int64(res.Len()))
	return res, nil
}

// Size returns the number of codewords of the byte dictionary, reserved
// codewords included (0 if not populated).
func (this *LZWCodec) Size() int {
	if this.byteTrie == nil {
		return 0
	}

	return this.byteTrie.size()
}

// BitSize returns the number of codewords of the bit dictionary
func (this *LZWCodec) BitSize() int {
	if this.bitTrie == nil {
		return 0
	}

	return this.bitTrie.size()
}

// Exhausted returns true if the byte dictionary issued all 4096 codewords
func (this *LZWCodec) Exhausted() bool {
	return this.byteTrie != nil && this.byteTrie.exhausted
}

// BitExhausted returns true if the bit dictionary issued all 4096 codewords
func (this *LZWCodec) BitExhausted() bool {
	return this.bitTrie != nil && this.bitTrie.exhausted
}

// Dictionary returns a copy of the codeword to byte string mapping
func (this *LZWCodec) Dictionary() map[uint16][]byte {
	if this.byteTrie == nil {
		return nil
	}

	res := make(map[uint16][]byte, this.byteTrie.size())

	for cw, str := range this.byteTrie.strings {
		res[uint16(cw)] = append([]byte(nil), str...)
	}

	return res
}

// BitDictionary returns a copy of the codeword to bit string mapping
func (this *LZWCodec) BitDictionary() map[uint16][]bool {
	if this.bitTrie == nil {
		return nil
	}

	res := make(map[uint16][]bool, this.bitTrie.size())

	for cw, str := range this.bitTrie.strings {
		bits := make([]bool, len(str))

		for i, b := range str {
			bits[i] = b == 1
		}

		res[uint16(cw)] = bits
	}

	return res
}

func (this *LZWCodec) notify(evtType, id int, size int64) {
	if len(this.listeners) == 0 {
		return
	}

	fvcodec.NotifyListeners(this.listeners, fvcodec.NewEvent(evtType, id, size, time.Now()))
}

func (this *LZWCodec) notifyFull(id int) {
	if len(this.listeners) == 0 {
		return
	}

	err := fmt.Errorf("LZW codec: %w after %d codewords", fvcodec.ErrDictionaryCapacityExhausted, LZW_MAX_CODEWORDS)
	fvcodec.NotifyListeners(this.listeners, fvcodec.NewErrorEvent(fvcodec.EVT_DICTIONARY_FULL, id, LZW_MAX_CODEWORDS, err, time.Now()))
}
