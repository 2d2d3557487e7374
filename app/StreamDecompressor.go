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
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/frame"
	kio "github.com/signalcontent/fvcodec/io"
	"github.com/signalcontent/fvcodec/logic"
)

const _DECOMP_LINE_LENGTH = 64

// StreamDecompressor reads a container and writes the decoded samples as
// text, one line per 64 samples.
type StreamDecompressor struct {
	cfg       *Config
	overwrite bool
	listeners []fvcodec.Listener
}

// NewStreamDecompressor creates a new instance of StreamDecompressor
func NewStreamDecompressor(cfg *Config, overwrite bool) *StreamDecompressor {
	this := &StreamDecompressor{cfg: cfg, overwrite: overwrite}
	this.listeners = make([]fvcodec.Listener, 0)
	return this
}

// AddListener adds an event listener to this decompressor.
// Returns true if the listener has been added.
func (this *StreamDecompressor) AddListener(bl fvcodec.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// Decompress returns the exit code and the number of samples written
func (this *StreamDecompressor) Decompress() (int, uint64) {
	verbose := this.cfg.Verbosity()
	before := time.Now()
	data, code, err := readBytes(this.cfg.Input)

	if err != nil {
		fmt.Printf("Cannot read input %s: %v\n", this.cfg.Input, err)
		return code, 0
	}

	this.info(fmt.Sprintf("Decompressing %s to %s: %d bytes", this.cfg.Input, this.cfg.OutputName(false), len(data)))
	s, err := this.decode(data)

	if err != nil {
		fmt.Printf("Decompression failed: %v\n", err)
		return fvcodec.ERR_INVALID_FILE, 0
	}

	outputName := this.cfg.OutputName(false)
	w, code, err := createOutput(outputName, this.overwrite)

	if err != nil {
		fmt.Printf("Cannot create output %s: %v\n", outputName, err)
		return code, 0
	}

	if strings.ToUpper(outputName) == _CFG_STDOUT {
		verbose = 0
	}

	written := uint64(s.Len())

	if err = writeSamples(w, s); err != nil {
		w.Close()
		fmt.Printf("Cannot write output %s: %v\n", outputName, err)
		return fvcodec.ERR_WRITE_FILE, 0
	}

	if err = w.Close(); err != nil {
		fmt.Printf("Cannot close output %s: %v\n", outputName, err)
		return fvcodec.ERR_WRITE_FILE, 0
	}

	if verbose >= 1 {
		elapsed := time.Since(before).Milliseconds()
		log.Println(fmt.Sprintf("Decompressing %s: %d bytes => %d samples in %d ms",
			this.cfg.Input, len(data), written, elapsed), true)
	}

	return 0, written
}

func (this *StreamDecompressor) decode(data []byte) (*logic.Stream, error) {
	kind, err := kio.ContainerKind(data)

	if err != nil {
		return nil, err
	}

	if kind != kio.CODEC_HUFFMAN {
		c, err := kio.ReadLZW(bytes.NewReader(data))

		if err != nil {
			return nil, err
		}

		this.notify(fvcodec.EVT_BEFORE_DECODE, len(c.Codewords))
		s, err := c.Decode()

		if err == nil {
			this.notify(fvcodec.EVT_AFTER_DECODE, s.Len())
		}

		return s, err
	}

	c, err := kio.ReadHuffman(bytes.NewReader(data))

	if err != nil {
		return nil, err
	}

	this.notify(fvcodec.EVT_BEFORE_DECODE, len(c.Bits))
	frames, err := c.Codec.DecodeFrames(c.Bits, c.FrameCount)

	if err != nil {
		return nil, err
	}

	s := frame.Flatten(frames)
	this.notify(fvcodec.EVT_AFTER_DECODE, s.Len())
	return s, nil
}

func (this *StreamDecompressor) notify(evtType, size int) {
	fvcodec.NotifyListeners(this.listeners, fvcodec.NewEvent(evtType, 0, int64(size), time.Now()))
}

func (this *StreamDecompressor) info(msg string) {
	fvcodec.NotifyListeners(this.listeners, fvcodec.NewEventFromString(fvcodec.EVT_INFO, -1, msg, time.Time{}))
}

func readBytes(name string) ([]byte, int, error) {
	var r io.Reader = os.Stdin

	if strings.ToUpper(name) != _CFG_STDIN {
		f, err := os.Open(name)

		if err != nil {
			return nil, fvcodec.ERR_OPEN_FILE, err
		}

		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)

	if err != nil {
		return nil, fvcodec.ERR_READ_FILE, err
	}

	return data, 0, nil
}

func writeSamples(w io.Writer, s *logic.Stream) error {
	text := s.String()

	for len(text) > 0 {
		n := _DECOMP_LINE_LENGTH

		if n > len(text) {
			n = len(text)
		}

		if _, err := io.WriteString(w, text[:n]+"\n"); err != nil {
			return err
		}

		text = text[n:]
	}

	return nil
}
