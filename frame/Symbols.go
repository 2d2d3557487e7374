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

package frame

import (
	"fmt"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/logic"
)

// CheckSymbolWidth validates a symbol width (in bits)
func CheckSymbolWidth(symbolBits int) error {
	if symbolBits < fvcodec.MIN_SYMBOL_BITS || symbolBits > fvcodec.MAX_SYMBOL_BITS {
		return fmt.Errorf("%w: %d (must be in [%d..%d])", fvcodec.ErrInvalidSymbolWidth,
			symbolBits, fvcodec.MIN_SYMBOL_BITS, fvcodec.MAX_SYMBOL_BITS)
	}

	return nil
}

// SymbolsPerFrame returns ceil(frameSize/symbolBits)
func SymbolsPerFrame(frameSize, symbolBits int) int {
	return (frameSize + symbolBits - 1) / symbolBits
}

// SymbolWidths returns the width of each symbol of a frame. The last one is
// narrower when the frame size is not a multiple of the symbol width.
func SymbolWidths(frameSize, symbolBits int) []int {
	res := make([]int, SymbolsPerFrame(frameSize, symbolBits))

	for i := range res {
		res[i] = symbolBits

		if left := frameSize - i*symbolBits; left < symbolBits {
			res[i] = left
		}
	}

	return res
}

// Symbols packs consecutive runs of 'symbolBits' samples of the frame, MSB
// first. X and Z are packed as 0.
func Symbols(f Frame, symbolBits int) []uint32 {
	return AppendSymbols(nil, f, symbolBits)
}

// AppendSymbols appends the symbols of the frame to dst
func AppendSymbols(dst []uint32, f Frame, symbolBits int) []uint32 {
	for bit := 0; bit < len(f); bit += symbolBits {
		end := bit + symbolBits

		if end > len(f) {
			end = len(f)
		}

		dst = append(dst, logic.PackMSBFirst(f[bit:end]))
	}

	return dst
}

// FromSymbols rebuilds a frame from its symbols. Unknown (X) and high
// impedance (Z) samples of the original frame come back as ZERO.
func FromSymbols(symbols []uint32, frameSize, symbolBits int) (Frame, error) {
	widths := SymbolWidths(frameSize, symbolBits)

	if len(symbols) != len(widths) {
		return nil, fmt.Errorf("%w: got %d symbols, expected %d for frame size %d",
			fvcodec.ErrFrameSizeMismatch, len(symbols), len(widths), frameSize)
	}

	res := make(Frame, 0, frameSize)

	for i, w := range widths {
		res = append(res, logic.UnpackMSBFirst(symbols[i], w)...)
	}

	return res, nil
}
