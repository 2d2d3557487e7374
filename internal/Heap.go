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

// PushSlice adds item to x while preserving the min-heap invariant
// determined by the provided comparison function.
func PushSlice[T any](x *[]T, item T, less func(x, y T) bool) {
	*x = append(*x, item)
	siftUp(*x, len(*x)-1, less)
}

// PopSlice removes the "smallest" element from x and restores the heap
// invariant.
func PopSlice[T any](x *[]T, less func(x, y T) bool) T {
	ret := (*x)[0]
	(*x)[0], *x = (*x)[len(*x)-1], (*x)[:len(*x)-1]

	if len(*x) > 0 {
		siftDown(*x, 0, less)
	}

	return ret
}

// OrderSlice shuffles x into min-heap ordering
func OrderSlice[T any](x []T, less func(x, y T) bool) {
	for i := len(x)/2 - 1; i >= 0; i-- {
		siftDown(x, i, less)
	}
}

func siftUp[T any](x []T, index int, less func(x, y T) bool) {
	for index > 0 {
		p := (index - 1) / 2

		if !less(x[index], x[p]) {
			break
		}

		x[p], x[index] = x[index], x[p]
		index = p
	}
}

func siftDown[T any](x []T, index int, less func(x, y T) bool) {
	for {
		left := (index * 2) + 1

		if left >= len(x) {
			break
		}

		c := left

		if right := left + 1; right < len(x) && less(x[right], x[left]) {
			c = right
		}

		if !less(x[c], x[index]) {
			break
		}

		x[index], x[c] = x[c], x[index]
		index = c
	}
}
