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

package entropy

import (
	"fmt"
	"time"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/frame"
	"github.com/signalcontent/fvcodec/internal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const _HUF_NO_NODE = -1

// Nodes live in an arena owned by the codec and refer to each other by index.
// The parent index is only kept for bookkeeping.
type huffmanNode struct {
	frequency uint64
	symbol    uint32
	left      int32
	right     int32
	parent    int32
	leaf      bool
}

// Priority queue entry. Equal frequencies are ordered by 'seq', the rank of
// insertion in the queue, so ties are broken first in, first out.
type queuedNode struct {
	index int32
	seq   int
}

// HuffmanCodec is a static Huffman codec over fixed width symbols extracted
// from frames. The tree is built once from the frames given at construction
// and is immutable afterwards.
type HuffmanCodec struct {
	frameSize  int
	symbolBits int
	nodes      []huffmanNode
	root       int32
	codes      map[uint32][]bool
	freqs      map[uint32]uint64
	listeners  []fvcodec.Listener
}

// NewHuffmanCodec builds the histogram of the symbols of 'frames', then the
// Huffman tree and the code table. All frames must have the same length and
// 'symbolBits' must be in [1..32].
func NewHuffmanCodec(frames []frame.Frame, symbolBits int, listeners ...fvcodec.Listener) (*HuffmanCodec, error) {
	if err := frame.CheckSymbolWidth(symbolBits); err != nil {
		return nil, err
	}

	frameSize, err := frame.CheckFrames(frames)

	if err != nil {
		return nil, err
	}

	freqs := make(map[uint32]uint64)
	var symbols []uint32

	for _, f := range frames {
		symbols = frame.AppendSymbols(symbols[:0], f, symbolBits)

		for _, s := range symbols {
			freqs[s]++
		}
	}

	if len(freqs) == 0 {
		return nil, fmt.Errorf("Huffman codec: %w (%d frames of size %d)", fvcodec.ErrNoSymbols, len(frames), frameSize)
	}

	this := &HuffmanCodec{}
	this.frameSize = frameSize
	this.symbolBits = symbolBits
	this.freqs = freqs
	this.listeners = listeners
	this.notify(fvcodec.EVT_HISTOGRAM_BUILT, int64(len(freqs)))
	this.buildTree()
	this.codes = make(map[uint32][]bool, len(freqs))
	this.buildCodeTable(this.root, make([]bool, 0, 32))
	this.notify(fvcodec.EVT_HUFFMAN_TREE_BUILT, int64(len(this.nodes)))
	return this, nil
}

// NewHuffmanDecoder rebuilds a codec from a code table shipped by another
// codec (see CodeTable). The table must describe a prefix code. The
// resulting codec can encode and decode but has no frequency information.
func NewHuffmanDecoder(table map[uint32][]bool, frameSize, symbolBits int, listeners ...fvcodec.Listener) (*HuffmanCodec, error) {
	if err := frame.CheckSymbolWidth(symbolBits); err != nil {
		return nil, err
	}

	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %d", fvcodec.ErrFrameSizeMismatch, frameSize)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty table", fvcodec.ErrInvalidCodeTable)
	}

	this := &HuffmanCodec{}
	this.frameSize = frameSize
	this.symbolBits = symbolBits
	this.listeners = listeners
	this.freqs = make(map[uint32]uint64)
	this.codes = make(map[uint32][]bool, len(table))
	this.nodes = []huffmanNode{{left: _HUF_NO_NODE, right: _HUF_NO_NODE, parent: _HUF_NO_NODE}}
	this.root = 0
	symbols := maps.Keys(table)
	slices.Sort(symbols)

	for _, s := range symbols {
		if symbolBits < 32 && s>>uint(symbolBits) != 0 {
			return nil, fmt.Errorf("%w: symbol %d does not fit in %d bits", fvcodec.ErrInvalidCodeTable, s, symbolBits)
		}

		if err := this.insertCode(s, table[s], len(table)); err != nil {
			return nil, err
		}

		this.codes[s] = append([]bool(nil), table[s]...)
	}

	this.notify(fvcodec.EVT_HUFFMAN_TREE_BUILT, int64(len(this.nodes)))
	return this, nil
}

func (this *HuffmanCodec) insertCode(symbol uint32, code []bool, tableSize int) error {
	if len(code) == 0 && tableSize > 1 {
		return fmt.Errorf("%w: empty code for symbol %d among %d symbols", fvcodec.ErrInvalidCodeTable, symbol, tableSize)
	}

	node := this.root

	for _, bit := range code {
		if this.nodes[node].leaf {
			return fmt.Errorf("%w: code of symbol %d extends another code", fvcodec.ErrInvalidCodeTable, symbol)
		}

		next := this.nodes[node].left

		if bit {
			next = this.nodes[node].right
		}

		if next == _HUF_NO_NODE {
			next = int32(len(this.nodes))
			this.nodes = append(this.nodes, huffmanNode{left: _HUF_NO_NODE, right: _HUF_NO_NODE, parent: node})

			if bit {
				this.nodes[node].right = next
			} else {
				this.nodes[node].left = next
			}
		}

		node = next
	}

	n := &this.nodes[node]

	if n.leaf || n.left != _HUF_NO_NODE || n.right != _HUF_NO_NODE {
		return fmt.Errorf("%w: code of symbol %d is a prefix of another code", fvcodec.ErrInvalidCodeTable, symbol)
	}

	n.leaf = true
	n.symbol = symbol
	return nil
}

func (this *HuffmanCodec) buildTree() {
	symbols := maps.Keys(this.freqs)
	slices.Sort(symbols)
	this.nodes = make([]huffmanNode, 0, 2*len(symbols)-1)
	queue := make([]queuedNode, 0, len(symbols))
	seq := 0

	less := func(x, y queuedNode) bool {
		fx := this.nodes[x.index].frequency
		fy := this.nodes[y.index].frequency

		if fx != fy {
			return fx < fy
		}

		return x.seq < y.seq
	}

	// Leaves are queued by increasing symbol value
	for _, s := range symbols {
		this.nodes = append(this.nodes, huffmanNode{frequency: this.freqs[s], symbol: s, leaf: true,
			left: _HUF_NO_NODE, right: _HUF_NO_NODE, parent: _HUF_NO_NODE})
		queue = append(queue, queuedNode{index: int32(len(this.nodes) - 1), seq: seq})
		seq++
	}

	internal.OrderSlice(queue, less)

	for len(queue) > 1 {
		n1 := internal.PopSlice(&queue, less)
		n2 := internal.PopSlice(&queue, less)
		parent := int32(len(this.nodes))
		this.nodes = append(this.nodes, huffmanNode{
			frequency: this.nodes[n1.index].frequency + this.nodes[n2.index].frequency,
			left:      n1.index,
			right:     n2.index,
			parent:    _HUF_NO_NODE,
		})
		this.nodes[n1.index].parent = parent
		this.nodes[n2.index].parent = parent
		internal.PushSlice(&queue, queuedNode{index: parent, seq: seq}, less)
		seq++
	}

	this.root = queue[0].index
}

// Depth first: 0 (false) to the left, 1 (true) to the right
func (this *HuffmanCodec) buildCodeTable(node int32, code []bool) {
	n := &this.nodes[node]

	if n.leaf {
		this.codes[n.symbol] = append(make([]bool, 0, len(code)), code...)
		return
	}

	this.buildCodeTable(n.left, append(code, false))
	this.buildCodeTable(n.right, append(code, true))
}

// Encode concatenates the codes of the symbols of each frame, in frame and
// symbol order. Every frame must have the size of the frames used to build
// the codec.
func (this *HuffmanCodec) Encode(frames []frame.Frame) ([]bool, error) {
	this.notify(fvcodec.EVT_BEFORE_ENCODE, int64(len(frames)))
	var res []bool
	var symbols []uint32

	for i, f := range frames {
		if len(f) != this.frameSize {
			return nil, fmt.Errorf("Huffman codec: %w: frame %d has %d samples, expected %d",
				fvcodec.ErrFrameSizeMismatch, i, len(f), this.frameSize)
		}

		symbols = frame.AppendSymbols(symbols[:0], f, this.symbolBits)

		for _, s := range symbols {
			code, ok := this.codes[s]

			if !ok {
				return nil, fmt.Errorf("Huffman codec: %w: %d (frame %d)", fvcodec.ErrUnknownSymbol, s, i)
			}

			res = append(res, code...)
		}
	}

	this.notify(fvcodec.EVT_AFTER_ENCODE, int64(len(res)))
	return res, nil
}

// Decode walks the tree from the root, one bit per step, and emits a symbol
// whenever a leaf is reached. The bits must end on a symbol boundary.
// A code with a single symbol has no bits to walk: use DecodeCount.
func (this *HuffmanCodec) Decode(bits []bool) ([]uint32, error) {
	if this.nodes[this.root].leaf {
		if len(bits) != 0 {
			return nil, fmt.Errorf("Huffman codec: %w: single symbol code cannot delimit %d bits",
				fvcodec.ErrUnterminatedCode, len(bits))
		}

		return []uint32{}, nil
	}

	this.notify(fvcodec.EVT_BEFORE_DECODE, int64(len(bits)))
	res, _, err := this.decode(bits, -1)

	if err != nil {
		return nil, err
	}

	this.notify(fvcodec.EVT_AFTER_DECODE, int64(len(res)))
	return res, nil
}

// DecodeCount decodes exactly 'count' symbols. With a single symbol code
// (empty code) the symbol is emitted 'count' times and no bit is expected.
func (this *HuffmanCodec) DecodeCount(bits []bool, count int) ([]uint32, error) {
	if count < 0 || count > fvcodec.MAX_DECODED_SAMPLES {
		return nil, fmt.Errorf("Huffman codec: invalid symbol count %d", count)
	}

	if root := &this.nodes[this.root]; root.leaf {
		if len(bits) != 0 {
			return nil, fmt.Errorf("Huffman codec: %w: single symbol code cannot delimit %d bits",
				fvcodec.ErrUnterminatedCode, len(bits))
		}

		res := make([]uint32, count)

		for i := range res {
			res[i] = root.symbol
		}

		return res, nil
	}

	// Every code is at least one bit long
	if count > len(bits) {
		return nil, fmt.Errorf("Huffman codec: %w: %d bits cannot hold %d symbols",
			fvcodec.ErrUnterminatedCode, len(bits), count)
	}

	this.notify(fvcodec.EVT_BEFORE_DECODE, int64(len(bits)))
	res, consumed, err := this.decode(bits, count)

	if err != nil {
		return nil, err
	}

	if len(res) != count {
		return nil, fmt.Errorf("Huffman codec: %w: decoded %d symbols, expected %d",
			fvcodec.ErrUnterminatedCode, len(res), count)
	}

	if consumed != len(bits) {
		return nil, fmt.Errorf("Huffman codec: %w: %d trailing bits after %d symbols",
			fvcodec.ErrUnterminatedCode, len(bits)-consumed, count)
	}

	this.notify(fvcodec.EVT_AFTER_DECODE, int64(len(res)))
	return res, nil
}

// DecodeFrames decodes 'frameCount' frames worth of symbols and unpacks them
// into frames. Unknown (X) and high impedance (Z) samples of the encoded
// frames come back as ZERO.
func (this *HuffmanCodec) DecodeFrames(bits []bool, frameCount int) ([]frame.Frame, error) {
	if frameCount < 0 || frameCount > fvcodec.MAX_DECODED_SAMPLES/this.frameSize {
		return nil, fmt.Errorf("Huffman codec: invalid frame count %d for frames of size %d", frameCount, this.frameSize)
	}

	spf := frame.SymbolsPerFrame(this.frameSize, this.symbolBits)
	symbols, err := this.DecodeCount(bits, frameCount*spf)

	if err != nil {
		return nil, err
	}

	frames := make([]frame.Frame, frameCount)

	for i := range frames {
		if frames[i], err = frame.FromSymbols(symbols[i*spf:(i+1)*spf], this.frameSize, this.symbolBits); err != nil {
			return nil, err
		}
	}

	return frames, nil
}

// Walk the tree, stop after 'max' symbols if max >= 0. Return the symbols
// and the number of bits consumed.
func (this *HuffmanCodec) decode(bits []bool, max int) ([]uint32, int, error) {
	res := make([]uint32, 0, len(bits)/2+1)
	node := this.root
	i := 0

	for ; i < len(bits) && (max < 0 || len(res) < max); i++ {
		if bits[i] {
			node = this.nodes[node].right
		} else {
			node = this.nodes[node].left
		}

		if node == _HUF_NO_NODE {
			return nil, i, fmt.Errorf("Huffman codec: %w: bit %d matches no code", fvcodec.ErrUnterminatedCode, i)
		}

		if this.nodes[node].leaf {
			res = append(res, this.nodes[node].symbol)
			node = this.root
		}
	}

	if node != this.root {
		return nil, i, fmt.Errorf("Huffman codec: %w: bits did not end on a leaf", fvcodec.ErrUnterminatedCode)
	}

	return res, i, nil
}

// CodeTable returns a copy of the symbol to code mapping
func (this *HuffmanCodec) CodeTable() map[uint32][]bool {
	res := make(map[uint32][]bool, len(this.codes))

	for s, c := range this.codes {
		res[s] = append([]bool(nil), c...)
	}

	return res
}

// Code returns the code of a symbol
func (this *HuffmanCodec) Code(symbol uint32) ([]bool, error) {
	c, ok := this.codes[symbol]

	if !ok {
		return nil, fmt.Errorf("%w: %d", fvcodec.ErrUnknownSymbol, symbol)
	}

	return append([]bool(nil), c...), nil
}

// FrameSize returns the size of the frames handled by the codec
func (this *HuffmanCodec) FrameSize() int {
	return this.frameSize
}

// SymbolBits returns the width of the symbols
func (this *HuffmanCodec) SymbolBits() int {
	return this.symbolBits
}

// Frequency returns the number of occurrences of the symbol in the frames
// used to build the codec (0 for a codec built from a code table).
func (this *HuffmanCodec) Frequency(symbol uint32) uint64 {
	return this.freqs[symbol]
}

// AverageCodeLength returns the mean code length in bits per symbol,
// weighted by the symbol frequencies. Compare with the entropy of the same
// frames to measure the redundancy of the code.
func (this *HuffmanCodec) AverageCodeLength() float64 {
	total := uint64(0)
	bits := uint64(0)

	for s, f := range this.freqs {
		total += f
		bits += f * uint64(len(this.codes[s]))
	}

	if total == 0 {
		return 0
	}

	return float64(bits) / float64(total)
}

func (this *HuffmanCodec) notify(evtType int, size int64) {
	if len(this.listeners) == 0 {
		return
	}

	fvcodec.NotifyListeners(this.listeners, fvcodec.NewEvent(evtType, -1, size, time.Now()))
}
