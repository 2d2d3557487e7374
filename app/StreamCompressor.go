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
	"github.com/signalcontent/fvcodec/entropy"
	"github.com/signalcontent/fvcodec/frame"
	kio "github.com/signalcontent/fvcodec/io"
	"github.com/signalcontent/fvcodec/logic"
	"github.com/signalcontent/fvcodec/transform"
)

// StreamCompressor reads a four-valued sample stream written as text and
// writes it compressed to a container.
type StreamCompressor struct {
	cfg       *Config
	overwrite bool
	listeners []fvcodec.Listener
}

// NewStreamCompressor creates a new instance of StreamCompressor
func NewStreamCompressor(cfg *Config, overwrite bool) *StreamCompressor {
	this := &StreamCompressor{cfg: cfg, overwrite: overwrite}
	this.listeners = make([]fvcodec.Listener, 0)
	return this
}

// AddListener adds an event listener to this compressor.
// Returns true if the listener has been added.
func (this *StreamCompressor) AddListener(bl fvcodec.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// Compress reads the input, encodes it with the configured codec and writes
// the container. Returns the exit code and the number of bytes written.
func (this *StreamCompressor) Compress() (int, uint64) {
	verbose := this.cfg.Verbosity()
	before := time.Now()
	s, code, err := readSamples(this.cfg.Input)

	if err != nil {
		fmt.Printf("Cannot read input %s: %v\n", this.cfg.Input, err)
		return code, 0
	}

	read := s.Len()
	outputName := this.cfg.OutputName(true)
	this.info(fmt.Sprintf("Compressing %s to %s: %d samples, codec %s, frame size %d, symbol width %d",
		this.cfg.Input, outputName, read, this.cfg.Codec, this.cfg.FrameSize, this.cfg.SymbolBits))

	// The output is only created once the whole container is ready
	var container bytes.Buffer

	if code, err = this.encode(s, &container); err != nil {
		fmt.Printf("Compression failed: %v\n", err)
		return code, 0
	}

	w, code, err := createOutput(outputName, this.overwrite)

	if err != nil {
		fmt.Printf("Cannot create output %s: %v\n", outputName, err)
		return code, 0
	}

	counter := &countingWriter{w: w}

	if strings.ToUpper(outputName) == _CFG_STDOUT {
		verbose = 0
	}

	if _, err = container.WriteTo(counter); err != nil {
		w.Close()
		fmt.Printf("Cannot write output %s: %v\n", outputName, err)
		return fvcodec.ERR_WRITE_FILE, counter.written
	}

	if err = w.Close(); err != nil {
		fmt.Printf("Cannot close output %s: %v\n", outputName, err)
		return fvcodec.ERR_WRITE_FILE, counter.written
	}

	if verbose >= 1 {
		elapsed := time.Since(before).Milliseconds()
		msg := fmt.Sprintf("Compressing %s: %d samples => %d bytes in %d ms (codec %s)",
			this.cfg.Input, read, counter.written, elapsed, this.cfg.Codec)

		if read > 0 {
			msg += fmt.Sprintf(", %.3f bits per sample", float64(counter.written*8)/float64(read))
		}

		log.Println(msg, true)
	}

	return 0, counter.written
}

func (this *StreamCompressor) encode(s *logic.Stream, w io.Writer) (int, error) {
	switch this.cfg.Codec {
	case "HUFFMAN":
		frames, err := frame.Segment(s, this.cfg.FrameSize)

		if err != nil {
			return fvcodec.ERR_FRAME_SIZE, err
		}

		codec, err := entropy.NewHuffmanCodec(frames, this.cfg.SymbolBits, this.listeners...)

		if err != nil {
			return fvcodec.ERR_CREATE_CODEC, err
		}

		bits, err := codec.Encode(frames)

		if err != nil {
			return fvcodec.ERR_PROCESS_STREAM, err
		}

		if err = kio.WriteHuffman(w, codec, bits, len(frames)); err != nil {
			return fvcodec.ERR_WRITE_FILE, err
		}

	case "LZW", "LZW_BITS":
		codec := transform.NewLZWCodec(this.listeners...)

		if err := codec.PopulateDictionary(logic.NewStream(s.Samples()...)); err != nil {
			return fvcodec.ERR_CREATE_CODEC, err
		}

		var codewords []uint16
		var err error
		mode := kio.LZW_MODE_BYTES

		if this.cfg.Codec == "LZW_BITS" {
			mode = kio.LZW_MODE_BITS
			codewords, err = codec.EncodeBits(s)
		} else {
			codewords, err = codec.Encode(s)
		}

		if err != nil {
			return fvcodec.ERR_PROCESS_STREAM, err
		}

		if err = kio.WriteLZW(w, codec, codewords, mode); err != nil {
			return fvcodec.ERR_WRITE_FILE, err
		}

	default:
		return fvcodec.ERR_INVALID_CODEC, fmt.Errorf("unknown codec %q", this.cfg.Codec)
	}

	return 0, nil
}

func (this *StreamCompressor) info(msg string) {
	fvcodec.NotifyListeners(this.listeners, fvcodec.NewEventFromString(fvcodec.EVT_INFO, -1, msg, time.Time{}))
}

func readSamples(name string) (*logic.Stream, int, error) {
	var r io.Reader = os.Stdin

	if strings.ToUpper(name) != _CFG_STDIN {
		f, err := os.Open(name)

		if err != nil {
			return nil, fvcodec.ERR_OPEN_FILE, err
		}

		defer f.Close()
		r = f
	}

	s, err := logic.ReadStream(r)

	if err != nil {
		return nil, fvcodec.ERR_READ_FILE, err
	}

	return s, 0, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func createOutput(name string, overwrite bool) (io.WriteCloser, int, error) {
	if strings.ToUpper(name) == _CFG_STDOUT {
		return nopCloser{os.Stdout}, 0, nil
	}

	if strings.ToUpper(name) == _CFG_NONE {
		return nopCloser{io.Discard}, 0, nil
	}

	if _, err := os.Stat(name); err == nil && !overwrite {
		return nil, fvcodec.ERR_OVERWRITE_FILE, fmt.Errorf("file exists, use -f to overwrite")
	}

	f, err := os.Create(name)

	if err != nil {
		return nil, fvcodec.ERR_CREATE_FILE, err
	}

	return f, 0, nil
}

type countingWriter struct {
	w       io.Writer
	written uint64
}

func (this *countingWriter) Write(b []byte) (int, error) {
	n, err := this.w.Write(b)
	this.written += uint64(n)
	return n, err
}
