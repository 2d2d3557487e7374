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

package logic

import (
	"errors"
	"strings"
	"testing"

	fvcodec "github.com/signalcontent/fvcodec"
)

func TestBoolConversions(t *testing.T) {
	if FromBool(true) != ONE || FromBool(false) != ZERO {
		t.Errorf("FromBool: unexpected mapping")
	}

	expected := map[Sample]bool{ZERO: false, ONE: true, X: false, Z: false}

	for s, b := range expected {
		if ToBool(s) != b {
			t.Errorf("ToBool(%v): got %v, expected %v", s, !b, b)
		}
	}
}

func TestChars(t *testing.T) {
	for i, c := range []byte("01XZ") {
		s := Sample(i)

		if ToChar(s) != c {
			t.Errorf("ToChar(%d): got %q, expected %q", i, ToChar(s), c)
		}

		back, err := FromChar(c)

		if err != nil || back != s {
			t.Errorf("FromChar(%q): got %v, %v", c, back, err)
		}
	}

	if s, err := FromChar('z'); err != nil || s != Z {
		t.Errorf("FromChar('z'): got %v, %v", s, err)
	}

	if _, err := FromChar('2'); !errors.Is(err, fvcodec.ErrInvalidSample) {
		t.Errorf("FromChar('2'): expected ErrInvalidSample, got %v", err)
	}
}

func TestPackMSBFirst(t *testing.T) {
	tests := []struct {
		text string
		want uint32
	}{
		{"", 0},
		{"1", 1},
		{"10", 2},
		{"11111111", 255},
		{"1X1Z", 10},
		{"01000001", 0x41},
		{strings.Repeat("1", 32), 0xFFFFFFFF},
	}

	for _, tt := range tests {
		s, err := ParseStream(tt.text)

		if err != nil {
			t.Fatalf("ParseStream(%q): %v", tt.text, err)
		}

		if got := PackMSBFirst(s.Samples()); got != tt.want {
			t.Errorf("PackMSBFirst(%q): got %d, expected %d", tt.text, got, tt.want)
		}
	}
}

func TestUnpackMSBFirst(t *testing.T) {
	for width := 1; width <= 32; width++ {
		for _, v := range []uint32{0, 1, 0x5A5A5A5A, 0xFFFFFFFF} {
			v &= uint32((uint64(1) << uint(width)) - 1)
			samples := UnpackMSBFirst(v, width)

			if len(samples) != width {
				t.Fatalf("UnpackMSBFirst: got %d samples, expected %d", len(samples), width)
			}

			if got := PackMSBFirst(samples); got != v {
				t.Errorf("width %d: got %x, expected %x", width, got, v)
			}
		}
	}

	if got := NewStream(UnpackMSBFirst(0x41, 8)...).String(); got != "01000001" {
		t.Errorf("UnpackMSBFirst(0x41, 8): got %s", got)
	}
}

func TestStream(t *testing.T) {
	s := NewStream(ONE, ZERO)
	s.Push(X, Z)

	if s.Len() != 4 || s.String() != "10XZ" {
		t.Fatalf("unexpected stream: %v (len %d)", s, s.Len())
	}

	if v, ok := s.Pop(); !ok || v != ONE {
		t.Errorf("Pop: got %v, %v", v, ok)
	}

	if s.Len() != 3 {
		t.Errorf("Len after Pop: got %d, expected 3", s.Len())
	}

	samples := s.Drain()

	if len(samples) != 3 || samples[0] != ZERO || samples[2] != Z {
		t.Errorf("Drain: got %v", samples)
	}

	if s.Len() != 0 {
		t.Errorf("Drain must empty the stream, %d samples left", s.Len())
	}

	if _, ok := s.Pop(); ok {
		t.Errorf("Pop on an empty stream must fail")
	}
}

func TestStreamLongPop(t *testing.T) {
	s := NewStream()

	for i := 0; i < 5000; i++ {
		s.Push(FromBool(i%3 == 0))
	}

	for i := 0; i < 5000; i++ {
		v, ok := s.Pop()

		if !ok || v != FromBool(i%3 == 0) {
			t.Fatalf("Pop %d: got %v, %v", i, v, ok)
		}
	}
}

func TestReadStream(t *testing.T) {
	text := "# memory image\n0101_XXZZ\n  11 00 # trailing comment\r\n"
	s, err := ParseStream(text)

	if err != nil {
		t.Fatalf("ParseStream: %v", err)
	}

	if s.String() != "0101XXZZ1100" {
		t.Errorf("got %s", s.String())
	}

	again, err := ParseStream(s.String())

	if err != nil || again.String() != s.String() {
		t.Errorf("round trip failed: %v, %v", again, err)
	}

	if _, err := ParseStream("01a"); !errors.Is(err, fvcodec.ErrInvalidSample) {
		t.Errorf("expected ErrInvalidSample, got %v", err)
	}
}
