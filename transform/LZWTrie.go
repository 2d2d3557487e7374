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

	fvcodec "github.com/signalcontent/fvcodec"
)

const _LZW_NO_CODEWORD = -1

// Trie of symbol strings. Nodes are indexes, node 0 is the root. Edges are
// kept in a map keyed by (node << 8) | symbol, so the alphabet is limited
// to 256 symbols. Each node but the root carries the codeword of the string
// spelled by the path from the root.
type lzwTrie struct {
	alphabet  int
	codewords []int32
	edges     map[uint32]int32
	strings   [][]byte
	exhausted bool
}

// Build a trie with the reserved codewords 0..255. With an alphabet of 256
// symbols, each reserved codeword is a single edge under the root. With a
// binary alphabet, they are the leaves of a full tree of depth 8 (first bit
// at the top) and the inner nodes of that tree have no codeword.
func newLZWTrie(alphabet int) *lzwTrie {
	this := &lzwTrie{alphabet: alphabet}
	this.codewords = make([]int32, 1, 2*LZW_MAX_CODEWORDS)
	this.codewords[0] = _LZW_NO_CODEWORD
	this.edges = make(map[uint32]int32, 2*LZW_MAX_CODEWORDS)
	this.strings = make([][]byte, LZW_FIRST_CODEWORD, LZW_MAX_CODEWORDS)

	for i := 0; i < LZW_FIRST_CODEWORD; i++ {
		if alphabet == 256 {
			this.strings[i] = []byte{byte(i)}
		} else {
			this.strings[i] = byteToBits(byte(i))
		}

		node := int32(0)
		str := this.strings[i]

		for j, sym := range str {
			next, ok := this.child(node, sym)

			if !ok {
				next = this.addNode(node, sym, _LZW_NO_CODEWORD)
			}

			if j == len(str)-1 {
				this.codewords[next] = int32(i)
			}

			node = next
		}
	}

	return this
}

func byteToBits(b byte) []byte {
	res := make([]byte, 8)

	for i := range res {
		res[i] = (b >> uint(7-i)) & 1
	}

	return res
}

func (this *lzwTrie) child(node int32, sym byte) (int32, bool) {
	next, ok := this.edges[uint32(node)<<8|uint32(sym)]
	return next, ok
}

func (this *lzwTrie) addNode(node int32, sym byte, codeword int32) int32 {
	next := int32(len(this.codewords))
	this.codewords = append(this.codewords, codeword)
	this.edges[uint32(node)<<8|uint32(sym)] = next
	return next
}

// Number of codewords issued, reserved ones included
func (this *lzwTrie) size() int {
	return len(this.strings)
}

// Map 'str' (the path to 'node' followed by 'sym') to the next codeword.
// Return false once the codeword space is exhausted.
func (this *lzwTrie) add(node int32, sym byte, str []byte) bool {
	if len(this.strings) >= LZW_MAX_CODEWORDS {
		this.exhausted = true
		return false
	}

	cw := int32(len(this.strings))
	this.addNode(node, sym, cw)
	this.strings = append(this.strings, append([]byte(nil), str...))

	if len(this.strings) == LZW_MAX_CODEWORDS {
		this.exhausted = true
	}

	return true
}

// Grow the trie from 'symbols'. Return true if the codeword space got
// exhausted during this call.
func (this *lzwTrie) populate(symbols []byte) bool {
	wasExhausted := this.exhausted
	node := int32(0)
	str := make([]byte, 0, 64)

	for _, sym := range symbols {
		str = append(str, sym)

		if next, ok := this.child(node, sym); ok {
			node = next
			continue
		}

		if !this.exhausted {
			this.add(node, sym, str)
		}

		node = 0
		str = str[:0]
	}

	return !wasExhausted && this.exhausted
}

// Longest match encoding. The symbol that ends a match starts the next one.
// At the end of input, a walk stopped on a node without codeword is extended
// with symbol 0 until a codeword is found.
func (this *lzwTrie) encode(symbols []byte) []uint16 {
	res := make([]uint16, 0, len(symbols)/2+1)
	node := int32(0)

	for i := 0; i < len(symbols); {
		if next, ok := this.child(node, symbols[i]); ok {
			node = next
			i++
			continue
		}

		// Every symbol has an edge from the root
		res = append(res, uint16(this.codewords[node]))
		node = 0
	}

	for node != 0 && this.codewords[node] == _LZW_NO_CODEWORD {
		node, _ = this.child(node, 0)
	}

	if node != 0 {
		res = append(res, uint16(this.codewords[node]))
	}

	return res
}

func (this *lzwTrie) decode(codewords []uint16) ([]byte, error) {
	res := make([]byte, 0, 2*len(codewords))

	for i, cw := range codewords {
		if int(cw) >= len(this.strings) {
			return nil, fmt.Errorf("%w: %d at index %d (dictionary size %d)",
				fvcodec.ErrUnknownCodeword, cw, i, len(this.strings))
		}

		res = append(res, this.strings[cw]...)
	}

	return res, nil
}

// Rebuild a trie from a shipped dictionary: the codewords must be dense,
// the reserved ones must match, and every other string must extend the
// string of an existing codeword by one symbol.
func rebuildLZWTrie(alphabet int, dict map[uint16][]byte) (*lzwTrie, error) {
	if len(dict) < LZW_FIRST_CODEWORD || len(dict) > LZW_MAX_CODEWORDS {
		return nil, fmt.Errorf("%w: %d codewords", fvcodec.ErrInvalidDictionary, len(dict))
	}

	this := newLZWTrie(alphabet)

	for cw := 0; cw < len(dict); cw++ {
		str, ok := dict[uint16(cw)]

		if !ok {
			return nil, fmt.Errorf("%w: missing codeword %d", fvcodec.ErrInvalidDictionary, cw)
		}

		if cw < LZW_FIRST_CODEWORD {
			if string(str) != string(this.strings[cw]) {
				return nil, fmt.Errorf("%w: reserved codeword %d remapped", fvcodec.ErrInvalidDictionary, cw)
			}

			continue
		}

		if len(str) == 0 {
			return nil, fmt.Errorf("%w: empty string for codeword %d", fvcodec.ErrInvalidDictionary, cw)
		}

		node := int32(0)

		for _, sym := range str[:len(str)-1] {
			next, ok := this.child(node, sym)

			if !ok {
				return nil, fmt.Errorf("%w: codeword %d has no prefix in the dictionary", fvcodec.ErrInvalidDictionary, cw)
			}

			node = next
		}

		last := str[len(str)-1]

		if int(last) >= this.alphabet {
			return nil, fmt.Errorf("%w: invalid symbol %d in codeword %d", fvcodec.ErrInvalidDictionary, last, cw)
		}

		if _, ok := this.child(node, last); ok {
			return nil, fmt.Errorf("%w: duplicate string for codeword %d", fvcodec.ErrInvalidDictionary, cw)
		}

		this.add(node, last, str)
	}

	return this, nil
}
