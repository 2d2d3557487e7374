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
	"math"
	"testing"

	"github.com/signalcontent/fvcodec/frame"
	"github.com/signalcontent/fvcodec/logic"
)

func TestEntropyBoundaries(t *testing.T) {
	acc := NewShannonAccumulator[int]()

	if e := acc.Entropy(); e != 0 {
		t.Errorf("empty accumulator: got %v, expected 0", e)
	}

	for _, k := range []int{1, 7, 1000} {
		acc := NewShannonAccumulator[string]()

		for i := 0; i < k; i++ {
			acc.AddSample("same")
		}

		if e := acc.Entropy(); e != 0 {
			t.Errorf("single value repeated %d times: got %v, expected 0", k, e)
		}
	}

	for k := 0; k <= 12; k++ {
		acc := NewShannonAccumulator[uint32]()

		for rep := 0; rep < 3; rep++ {
			for v := 0; v < 1<<uint(k); v++ {
				acc.AddSample(uint32(v))
			}
		}

		if e := acc.Entropy(); e != float64(k) {
			t.Errorf("uniform over 2^%d values: got %v, expected %d", k, e, k)
		}

		if acc.Distinct() != 1<<uint(k) || acc.Total() != uint64(3<<uint(k)) {
			t.Errorf("unexpected histogram size %d / %d", acc.Distinct(), acc.Total())
		}
	}
}

func TestWordEntropy(t *testing.T) {
	acc := NewShannonAccumulator[logic.Sample]()

	if acc.WordEntropy(logic.ONE) != 0 {
		t.Errorf("empty accumulator must report 0")
	}

	acc.AddSample(logic.ONE)
	acc.AddSample(logic.ZERO)
	acc.AddSample(logic.ZERO)
	acc.AddSample(logic.X)

	if acc.Count(logic.ZERO) != 2 {
		t.Errorf("Count(ZERO): got %d, expected 2", acc.Count(logic.ZERO))
	}

	if got := acc.WordEntropy(logic.ZERO); got != 0.5 {
		t.Errorf("WordEntropy(ZERO): got %v, expected 0.5", got)
	}

	if got := acc.WordEntropy(logic.Z); got != 0 {
		t.Errorf("WordEntropy of an unseen value: got %v, expected 0", got)
	}

	sum := acc.WordEntropy(logic.ZERO) + acc.WordEntropy(logic.ONE) + acc.WordEntropy(logic.X)

	if math.Abs(sum-acc.Entropy()) > 1e-12 || math.Abs(sum-1.5) > 1e-12 {
		t.Errorf("word entropies must add up to the entropy: %v vs %v", sum, acc.Entropy())
	}
}

func TestBinaryEntropy(t *testing.T) {
	if BinaryEntropy(0.5) != 1 {
		t.Errorf("H(0.5): got %v, expected 1", BinaryEntropy(0.5))
	}

	for _, p := range []float64{-1, 0, 1, 2} {
		if BinaryEntropy(p) != 0 {
			t.Errorf("H(%v): got %v, expected 0", p, BinaryEntropy(p))
		}
	}

	for _, p := range []float64{0.01, 0.1, 0.3} {
		if math.Abs(BinaryEntropy(p)-BinaryEntropy(1-p)) > 1e-12 {
			t.Errorf("H(%v) != H(%v)", p, 1-p)
		}

		if BinaryEntropy(p) >= 1 || BinaryEntropy(p) <= 0 {
			t.Errorf("H(%v) out of range: %v", p, BinaryEntropy(p))
		}
	}
}

func TestSortedCounts(t *testing.T) {
	acc := NewShannonAccumulator[int]()

	for _, v := range []int{5, -1, 5, 3, 5} {
		acc.AddSample(v)
	}

	counts := SortedCounts(acc)
	expected := []ValueCount[int]{{-1, 1}, {3, 1}, {5, 3}}

	if len(counts) != len(expected) {
		t.Fatalf("got %v, expected %v", counts, expected)
	}

	for i := range counts {
		if counts[i] != expected[i] {
			t.Errorf("got %v, expected %v", counts, expected)
		}
	}
}

func TestFrameEntropy(t *testing.T) {
	frames := framesOf(t, "00011011", "00011011")

	e, err := FrameEntropy(frames, 2)

	if err != nil {
		t.Fatalf("FrameEntropy: %v", err)
	}

	if e != 2 {
		t.Errorf("got %v, expected 2", e)
	}

	if e, _ := FrameEntropy(frames, 8); e != 0 {
		t.Errorf("identical frames as 8-bit symbols: got %v, expected 0", e)
	}

	if _, err := FrameEntropy(frames, 0); err == nil {
		t.Errorf("a zero symbol width must be rejected")
	}
}

func framesOf(t *testing.T, texts ...string) []frame.Frame {
	t.Helper()
	frames := make([]frame.Frame, len(texts))

	for i, text := range texts {
		s, err := logic.ParseStream(text)

		if err != nil {
			t.Fatalf("ParseStream(%q): %v", text, err)
		}

		frames[i] = frame.Frame(s.Samples())
	}

	return frames
}
