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

package benchmark

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/signalcontent/fvcodec/entropy"
	"github.com/signalcontent/fvcodec/frame"
	kio "github.com/signalcontent/fvcodec/io"
	"github.com/signalcontent/fvcodec/logic"
	"github.com/signalcontent/fvcodec/transform"
)

// Trace-like content: runs of identical samples with a few X and Z
func makeSamples(seed int64, size int) []logic.Sample {
	repeats := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3}
	rnd := rand.New(rand.NewSource(seed))
	res := make([]logic.Sample, size)
	idx := 0

	for i := 0; i < size; {
		v := logic.Sample(rnd.Intn(2))

		if rnd.Intn(16) == 0 {
			v = logic.Sample(2 + rnd.Intn(2))
		}

		for j := 0; j < repeats[idx] && i < size; j++ {
			res[i] = v
			i++
		}

		idx = (idx + 1) & 0x0F
	}

	return res
}

func BenchmarkHuffman(b *testing.B) {
	for _, symbolBits := range []int{4, 8, 16} {
		b.Run(fmt.Sprintf("bits=%d", symbolBits), func(b *testing.B) {
			samples := makeSamples(int64(symbolBits), 64*1024)
			b.SetBytes(int64(len(samples)))

			for ii := 0; ii < b.N; ii++ {
				frames, _ := frame.Segment(logic.NewStream(samples...), 64)
				codec, err := entropy.NewHuffmanCodec(frames, symbolBits)

				if err != nil {
					b.Fatalf("An error occurred during tree creation: %v", err)
				}

				bits, err := codec.Encode(frames)

				if err != nil {
					b.Fatalf("An error occurred during encoding: %v", err)
				}

				if _, err = codec.DecodeFrames(bits, len(frames)); err != nil {
					b.Fatalf("An error occurred during decoding: %v", err)
				}
			}
		})
	}
}

func BenchmarkLZW(b *testing.B) {
	samples := makeSamples(1, 64*1024)
	b.SetBytes(int64(len(samples)))

	for ii := 0; ii < b.N; ii++ {
		codec := transform.NewLZWCodec()

		if err := codec.PopulateDictionary(logic.NewStream(samples...)); err != nil {
			b.Fatalf("An error occurred during population: %v", err)
		}

		s := logic.NewStream(samples...)
		codewords, err := codec.Encode(s)

		if err != nil {
			b.Fatalf("An error occurred during encoding: %v", err)
		}

		if _, err = codec.Decode(codewords); err != nil {
			b.Fatalf("An error occurred during decoding: %v", err)
		}

		if codewords, err = codec.EncodeBits(s); err != nil {
			b.Fatalf("An error occurred during encoding: %v", err)
		}

		if _, err = codec.DecodeBits(codewords); err != nil {
			b.Fatalf("An error occurred during decoding: %v", err)
		}
	}
}

func BenchmarkEntropy(b *testing.B) {
	samples := makeSamples(2, 64*1024)
	frames, _ := frame.Segment(logic.NewStream(samples...), 64)
	b.SetBytes(int64(len(samples)))

	for ii := 0; ii < b.N; ii++ {
		if _, err := entropy.FrameEntropy(frames, 8); err != nil {
			b.Fatalf("An error occurred: %v", err)
		}
	}
}

func BenchmarkContainer(b *testing.B) {
	samples := makeSamples(3, 64*1024)
	frames, _ := frame.Segment(logic.NewStream(samples...), 64)
	codec, _ := entropy.NewHuffmanCodec(frames, 8)
	bits, _ := codec.Encode(frames)
	var buf bytes.Buffer
	b.SetBytes(int64(len(bits) / 8))

	for ii := 0; ii < b.N; ii++ {
		buf.Reset()

		if err := kio.WriteHuffman(&buf, codec, bits, len(frames)); err != nil {
			b.Fatalf("An error occurred during write: %v", err)
		}

		if _, err := kio.ReadHuffman(&buf); err != nil {
			b.Fatalf("An error occurred during read: %v", err)
		}
	}
}
