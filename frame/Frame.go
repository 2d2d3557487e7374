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

// Package frame groups a flat sample stream into fixed size frames and
// extracts fixed width integer symbols from them.
package frame

import (
	"fmt"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/logic"
)

// Frame is a fixed length run of samples, highest order sample first.
type Frame []logic.Sample

// String returns the samples of the frame as display characters
func (this Frame) String() string {
	buf := make([]byte, len(this))

	for i, s := range this {
		buf[i] = logic.ToChar(s)
	}

	return string(buf)
}

// Segment splits the stream into frames of 'frameSize' samples.
// The stream length must be a multiple of the frame size, otherwise
// ErrFrameSizeMismatch is returned and the stream is left untouched.
// On success the stream is drained: its samples now belong to the frames.
func Segment(s *logic.Stream, frameSize int) ([]Frame, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %d", fvcodec.ErrFrameSizeMismatch, frameSize)
	}

	if s.Len()%frameSize != 0 {
		return nil, fmt.Errorf("%w: stream length %d is not a multiple of frame size %d",
			fvcodec.ErrFrameSizeMismatch, s.Len(), frameSize)
	}

	samples := s.Drain()
	frames := make([]Frame, len(samples)/frameSize)

	for i := range frames {
		frames[i] = Frame(samples[i*frameSize : (i+1)*frameSize : (i+1)*frameSize])
	}

	return frames, nil
}

// Flatten concatenates the frames into a new stream
func Flatten(frames []Frame) *logic.Stream {
	n := 0

	for _, f := range frames {
		n += len(f)
	}

	samples := make([]logic.Sample, 0, n)

	for _, f := range frames {
		samples = append(samples, f...)
	}

	return logic.NewStream(samples...)
}

// CheckFrames returns the common length of the frames or ErrFrameSizeMismatch
// if some frames differ in length.
func CheckFrames(frames []Frame) (int, error) {
	if len(frames) == 0 {
		return 0, nil
	}

	size := len(frames[0])

	for i, f := range frames {
		if len(f) != size {
			return 0, fmt.Errorf("%w: frame %d has %d samples, expected %d",
				fvcodec.ErrFrameSizeMismatch, i, len(f), size)
		}
	}

	return size, nil
}
