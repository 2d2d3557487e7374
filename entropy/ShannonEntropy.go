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

// Package entropy provides the Shannon entropy estimator used to predict
// compressibility and the static Huffman codec over frame symbols.
package entropy

import (
	"math"

	"github.com/signalcontent/fvcodec/frame"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ShannonAccumulator maintains a histogram of observed values and computes
// their empirical Shannon entropy. Adding samples is order independent.
type ShannonAccumulator[T comparable] struct {
	counts map[T]uint64
	total  uint64
}

// NewShannonAccumulator creates an empty accumulator
func NewShannonAccumulator[T comparable]() *ShannonAccumulator[T] {
	return &ShannonAccumulator[T]{counts: make(map[T]uint64)}
}

// AddSample records one observation of 'value'
func (this *ShannonAccumulator[T]) AddSample(value T) {
	this.counts[value]++
	this.total++
}

// Total returns the number of observations
func (this *ShannonAccumulator[T]) Total() uint64 {
	return this.total
}

// Count returns the number of observations of 'value'
func (this *ShannonAccumulator[T]) Count(value T) uint64 {
	return this.counts[value]
}

// Distinct returns the number of distinct values observed
func (this *ShannonAccumulator[T]) Distinct() int {
	return len(this.counts)
}

// Entropy returns the entropy in bits per sample, 0 if nothing was observed.
func (this *ShannonAccumulator[T]) Entropy() float64 {
	if this.total == 0 {
		return 0
	}

	res := 0.0

	for _, c := range this.counts {
		res += wordEntropy(float64(c) / float64(this.total))
	}

	return res
}

// WordEntropy returns the contribution -p*log2(p) of one value to the entropy
func (this *ShannonAccumulator[T]) WordEntropy(value T) float64 {
	c := this.counts[value]

	if this.total == 0 || c == 0 {
		return 0
	}

	return wordEntropy(float64(c) / float64(this.total))
}

func wordEntropy(p float64) float64 {
	return -p * math.Log2(p)
}

// BinaryEntropy returns H(p) = -p*log2(p) - (1-p)*log2(1-p) for a two
// outcome event observed with probability p.
func BinaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}

	return wordEntropy(p) + wordEntropy(1-p)
}

// ValueCount is one histogram entry
type ValueCount[T any] struct {
	Value T
	Count uint64
}

// SortedCounts lists the histogram in increasing value order
func SortedCounts[T constraints.Ordered](acc *ShannonAccumulator[T]) []ValueCount[T] {
	keys := maps.Keys(acc.counts)
	slices.Sort(keys)
	res := make([]ValueCount[T], len(keys))

	for i, k := range keys {
		res[i] = ValueCount[T]{Value: k, Count: acc.counts[k]}
	}

	return res
}

// FrameEntropy returns the entropy (bits per symbol) of the symbols
// extracted from the frames, an estimate of the best achievable average
// code length before choosing a codec.
func FrameEntropy(frames []frame.Frame, symbolBits int) (float64, error) {
	if err := frame.CheckSymbolWidth(symbolBits); err != nil {
		return 0, err
	}

	if _, err := frame.CheckFrames(frames); err != nil {
		return 0, err
	}

	acc := NewShannonAccumulator[uint32]()
	var symbols []uint32

	for _, f := range frames {
		symbols = frame.AppendSymbols(symbols[:0], f, symbolBits)

		for _, s := range symbols {
			acc.AddSample(s)
		}
	}

	return acc.Entropy(), nil
}
