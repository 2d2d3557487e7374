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

package internal

import (
	"io"
	"math/rand"
	"sort"
	"testing"
)

func TestHeapOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	less := func(x, y int) bool { return x < y }

	for n := 0; n < 100; n++ {
		values := make([]int, n)
		var h []int

		for i := range values {
			values[i] = rnd.Intn(50)
			PushSlice(&h, values[i], less)
		}

		sort.Ints(values)

		for i := range values {
			if got := PopSlice(&h, less); got != values[i] {
				t.Fatalf("n=%d: pop %d got %d, expected %d", n, i, got, values[i])
			}
		}

		if len(h) != 0 {
			t.Errorf("heap not empty after %d pops", n)
		}
	}
}

func TestOrderSlice(t *testing.T) {
	x := []int{9, 3, 7, 1, 8, 2, 6}
	less := func(x, y int) bool { return x < y }
	OrderSlice(x, less)
	prev := -1

	for len(x) > 0 {
		v := PopSlice(&x, less)

		if v < prev {
			t.Fatalf("got %d after %d", v, prev)
		}

		prev = v
	}
}

func TestBufferStream(t *testing.T) {
	bs := NewBufferStream()

	if _, err := bs.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 2)

	if n, err := bs.Read(buf); n != 2 || err != nil || buf[0] != 1 {
		t.Errorf("Read: got %d, %v, %v", n, err, buf)
	}

	if bs.Len() != 1 || bs.Bytes()[0] != 3 {
		t.Errorf("unexpected remaining bytes %v", bs.Bytes())
	}

	bs.Close()

	if _, err := bs.Write([]byte{4}); err == nil {
		t.Errorf("Write after Close must fail")
	}

	rs := NewBufferStream([]byte{7})

	if n, _ := rs.Read(buf); n != 1 || buf[0] != 7 {
		t.Errorf("Read: got %d, %v", n, buf)
	}

	if _, err := rs.Read(buf); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}
