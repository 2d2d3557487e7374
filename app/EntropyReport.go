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

package main

import (
	"fmt"
	"io"

	"github.com/signalcontent/fvcodec/entropy"
	"github.com/signalcontent/fvcodec/frame"
	"github.com/signalcontent/fvcodec/logic"
	"github.com/signalcontent/fvcodec/transform"
	"golang.org/x/exp/slices"
)

var _REPORT_SYMBOL_BITS = []int{1, 2, 4, 8, 16, 32}

// WriteEntropyReport predicts the compression of the stream: entropy of the
// samples, then for each symbol width the entropy of the symbols of the
// frames and the size of the Huffman encoding, and the size of the LZW
// encodings. The stream is left untouched.
func WriteEntropyReport(w io.Writer, s *logic.Stream, cfg *Config) error {
	acc := entropy.NewShannonAccumulator[logic.Sample]()

	for _, v := range s.Samples() {
		acc.AddSample(v)
	}

	fmt.Fprintf(w, "Samples: %d\n", acc.Total())

	for _, vc := range entropy.SortedCounts(acc) {
		fmt.Fprintf(w, "  %s: %d (%.3f bits)\n", vc.Value, vc.Count, acc.WordEntropy(vc.Value))
	}

	fmt.Fprintf(w, "Sample entropy: %.4f bits per sample\n", acc.Entropy())

	if s.Len() == 0 {
		return nil
	}

	frames, err := frame.Segment(logic.NewStream(s.Samples()...), cfg.FrameSize)

	if err != nil {
		fmt.Fprintf(w, "Huffman: %v\n", err)
	} else {
		widths := append([]int{cfg.SymbolBits}, _REPORT_SYMBOL_BITS...)
		slices.Sort(widths)
		widths = slices.Compact(widths)
		fmt.Fprintf(w, "Frames: %d of %d samples\n", len(frames), cfg.FrameSize)

		for _, bits := range widths {
			if bits > cfg.FrameSize && bits != cfg.SymbolBits {
				continue
			}

			h, err := entropy.FrameEntropy(frames, bits)

			if err != nil {
				return err
			}

			codec, err := entropy.NewHuffmanCodec(frames, bits)

			if err != nil {
				return err
			}

			symbols := len(frames) * frame.SymbolsPerFrame(cfg.FrameSize, bits)
			avg := codec.AverageCodeLength()
			fmt.Fprintf(w, "  %2d bit symbols: entropy %.4f, Huffman %.4f bits per symbol, %d symbols => %d bytes\n",
				bits, h, avg, symbols, (uint64(avg*float64(symbols)+0.5)+7)/8)
		}
	}

	codec := transform.NewLZWCodec()

	if err := codec.PopulateDictionary(logic.NewStream(s.Samples()...)); err != nil {
		return err
	}

	codewords, err := codec.Encode(s)

	if err != nil {
		return err
	}

	bitCodewords, err := codec.EncodeBits(s)

	if err != nil {
		return err
	}

	fmt.Fprintf(w, "LZW: %d codewords (dictionary %d) => %d bytes\n", len(codewords), codec.Size(),
		(len(codewords)*transform.LZW_CODEWORD_BITS+7)/8)
	fmt.Fprintf(w, "LZW bits: %d codewords (dictionary %d) => %d bytes\n", len(bitCodewords), codec.BitSize(),
		(len(bitCodewords)*transform.LZW_CODEWORD_BITS+7)/8)
	return nil
}
