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

// Package logic provides the four-valued sample model used to describe
// digital signal traces, and the Stream container holding them.
package logic

import (
	"fmt"

	fvcodec "github.com/signalcontent/fvcodec"
)

// Sample is one four-valued logic level.
type Sample byte

const (
	ZERO Sample = 0
	ONE  Sample = 1
	X    Sample = 2 // unknown / don't care
	Z    Sample = 3 // high impedance
)

var _SAMPLE_CHARS = [4]byte{'0', '1', 'X', 'Z'}

// FromBool returns ONE for true and ZERO for false
func FromBool(bit bool) Sample {
	if bit {
		return ONE
	}

	return ZERO
}

// ToBool returns true only for ONE. X and Z are read as a logical zero.
func ToBool(s Sample) bool {
	return s == ONE
}

// ToChar returns the display character of the sample
func ToChar(s Sample) byte {
	return _SAMPLE_CHARS[s&3]
}

// String returns the display character of the sample as a string
func (s Sample) String() string {
	return string(ToChar(s))
}

// FromChar parses a display character (case insensitive for X and Z)
func FromChar(c byte) (Sample, error) {
	switch c {
	case '0':
		return ZERO, nil
	case '1':
		return ONE, nil
	case 'x', 'X':
		return X, nil
	case 'z', 'Z':
		return Z, nil
	}

	return ZERO, fmt.Errorf("%w: %q", fvcodec.ErrInvalidSample, c)
}

// PackMSBFirst packs the samples into an integer, first sample in the most
// significant position. Anything but ONE is packed as 0. Only the last 32
// samples contribute to the result.
func PackMSBFirst(samples []Sample) uint32 {
	res := uint32(0)

	for _, s := range samples {
		res <<= 1

		if s == ONE {
			res |= 1
		}
	}

	return res
}

// UnpackMSBFirst returns the 'width' low bits of value as samples, most
// significant bit first.
func UnpackMSBFirst(value uint32, width int) []Sample {
	res := make([]Sample, width)

	for i := range res {
		shift := width - 1 - i

		if shift < 32 && (value>>uint(shift))&1 == 1 {
			res[i] = ONE
		}
	}

	return res
}
