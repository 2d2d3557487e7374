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
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fvcodec "github.com/signalcontent/fvcodec"
	"github.com/signalcontent/fvcodec/logic"
)

func TestProcessCommandLine(t *testing.T) {
	argsMap := make(map[string]any)
	args := []string{"fvc", "-c", "--input=trace.txt", "-o", "trace.bin", "--frame=32", "-s", "4",
		"--codec=lzw_bits", "-v", "2", "-y", "cfg.yaml", "-f"}

	if code := processCommandLine(args, argsMap); code != 0 {
		t.Fatalf("processCommandLine returned %d", code)
	}

	expected := map[string]any{
		"mode":       "c",
		"inputName":  "trace.txt",
		"outputName": "trace.bin",
		"frameSize":  32,
		"symbolBits": 4,
		"codec":      "LZW_BITS",
		"verbose":    2,
		"config":     "cfg.yaml",
		"overwrite":  true,
	}

	for k, v := range expected {
		if argsMap[k] != v {
			t.Errorf("%s: got %v, expected %v", k, argsMap[k], v)
		}
	}

	if len(argsMap) != len(expected) {
		t.Errorf("unexpected arguments: %v", argsMap)
	}
}

func TestProcessCommandLineErrors(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{[]string{"fvc", "-c", "-d"}, fvcodec.ERR_INVALID_PARAM},
		{[]string{"fvc", "-e", "--compress"}, fvcodec.ERR_INVALID_PARAM},
		{[]string{"fvc", "-i", "x.txt"}, fvcodec.ERR_MISSING_PARAM},
		{[]string{"fvc", "-c", "--frame=0"}, fvcodec.ERR_FRAME_SIZE},
		{[]string{"fvc", "-c", "-b", "abc"}, fvcodec.ERR_FRAME_SIZE},
		{[]string{"fvc", "-c", "--symbol=33"}, fvcodec.ERR_SYMBOL_WIDTH},
		{[]string{"fvc", "-c", "--codec="}, fvcodec.ERR_INVALID_CODEC},
		{[]string{"fvc", "-c", "--verbose=9"}, fvcodec.ERR_INVALID_PARAM},
	}

	for _, test := range tests {
		argsMap := make(map[string]any)

		if code := processCommandLine(test.args, argsMap); code != test.code {
			t.Errorf("%v: got code %d, expected %d", test.args, code, test.code)
		}
	}

	// Help only
	argsMap := make(map[string]any)

	if code := processCommandLine([]string{"fvc", "-h"}, argsMap); code != 0 || argsMap["mode"] != nil {
		t.Errorf("help: got code %d and mode %v", code, argsMap["mode"])
	}
}

func TestConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("frameSize: 16\nsymbolBits: 4\ncodec: lzw\nverbose: 0\ninput: in.txt\n"))

	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.FrameSize != 16 || cfg.SymbolBits != 4 || cfg.Codec != "lzw" || cfg.Verbosity() != 0 || cfg.Input != "in.txt" {
		t.Errorf("unexpected configuration %+v", cfg)
	}

	if _, err := ParseConfig([]byte("frameSize: 16\nblockSize: 4\n")); err == nil {
		t.Errorf("unknown keys must be rejected")
	}

	if _, err := ParseConfig([]byte("frameSize: sixteen\n")); err == nil {
		t.Errorf("invalid values must be rejected")
	}
}

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "fvc.yaml")

	if err := os.WriteFile(name, []byte("frameSize: 16\nsymbolBits: 4\ncodec: lzw\ninput: in.txt\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// The command line overrides the file
	cfg, code, err := NewConfig(map[string]any{"config": name, "symbolBits": 2, "outputName": "out.fvc"})

	if err != nil {
		t.Fatalf("NewConfig: %v (code %d)", err, code)
	}

	if cfg.FrameSize != 16 || cfg.SymbolBits != 2 || cfg.Codec != "LZW" || cfg.Input != "in.txt" ||
		cfg.OutputName(true) != "out.fvc" || cfg.Verbosity() != _CFG_DEFAULT_VERBOSE {
		t.Errorf("unexpected configuration %+v", cfg)
	}

	// Defaults
	cfg, _, err = NewConfig(map[string]any{})

	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.FrameSize != _CFG_DEFAULT_FRAME_SIZE || cfg.SymbolBits != _CFG_DEFAULT_SYMBOL_BITS ||
		cfg.Codec != _CFG_DEFAULT_CODEC || cfg.OutputName(true) != _CFG_STDOUT {
		t.Errorf("unexpected default configuration %+v", cfg)
	}

	if _, code, err = NewConfig(map[string]any{"codec": "RLE"}); err == nil || code != fvcodec.ERR_INVALID_CODEC {
		t.Errorf("expected ERR_INVALID_CODEC, got %d (%v)", code, err)
	}

	if _, code, err = NewConfig(map[string]any{"symbolBits": 40}); !errors.Is(err, fvcodec.ErrInvalidSymbolWidth) || code != fvcodec.ERR_SYMBOL_WIDTH {
		t.Errorf("expected ERR_SYMBOL_WIDTH, got %d (%v)", code, err)
	}

	if _, code, err = NewConfig(map[string]any{"config": filepath.Join(dir, "missing.yaml")}); err == nil || code != fvcodec.ERR_INVALID_CONFIG {
		t.Errorf("expected ERR_INVALID_CONFIG, got %d (%v)", code, err)
	}

	cfg = &Config{Input: "trace.txt.fvc"}

	if cfg.OutputName(false) != "trace.txt" {
		t.Errorf("unexpected decompressed name %s", cfg.OutputName(false))
	}
}

func writeTrace(t *testing.T, name string, n int) []logic.Sample {
	rnd := rand.New(rand.NewSource(int64(n)))
	samples := make([]logic.Sample, n)
	var sb strings.Builder
	sb.WriteString("# test trace\n")

	for i := range samples {
		if i > 0 && rnd.Intn(3) != 0 {
			samples[i] = samples[i-1]
		} else {
			samples[i] = logic.Sample(rnd.Intn(4))
		}

		sb.WriteByte(logic.ToChar(samples[i]))

		if i%32 == 31 {
			sb.WriteByte('\n')
		}
	}

	if err := os.WriteFile(name, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return samples
}

func TestCompressDecompress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trace.txt")
	samples := writeTrace(t, input, 1600)
	verbose := 0

	for _, codec := range _CODECS {
		cfg := &Config{FrameSize: 16, SymbolBits: 5, Codec: codec, Verbose: &verbose, Input: input}
		sc := NewStreamCompressor(cfg, true)

		if code, written := sc.Compress(); code != 0 || written == 0 {
			t.Fatalf("%s: Compress returned %d (%d bytes)", codec, code, written)
		}

		// The output exists: no overwrite without force
		if code, _ := NewStreamCompressor(cfg, false).Compress(); code != fvcodec.ERR_OVERWRITE_FILE {
			t.Errorf("%s: expected ERR_OVERWRITE_FILE, got %d", codec, code)
		}

		output := filepath.Join(dir, "trace."+codec+".txt")
		dcfg := &Config{Verbose: &verbose, Input: input + _CFG_EXTENSION, Output: output}
		sd := NewStreamDecompressor(dcfg, true)

		if code, _ := sd.Decompress(); code != 0 {
			t.Fatalf("%s: Decompress returned %d", codec, code)
		}

		f, err := os.Open(output)

		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		s, err := logic.ReadStream(f)
		f.Close()

		if err != nil {
			t.Fatalf("ReadStream: %v", err)
		}

		decoded := s.Samples()

		if len(decoded) < len(samples) {
			t.Fatalf("%s: %d samples decoded, expected %d", codec, len(decoded), len(samples))
		}

		for i := range samples {
			if decoded[i] != logic.FromBool(logic.ToBool(samples[i])) {
				t.Fatalf("%s: sample %d differs", codec, i)
			}
		}
	}
}

func TestCompressFrameMismatch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "odd.txt")
	writeTrace(t, input, 100)
	verbose := 0
	cfg := &Config{FrameSize: 16, SymbolBits: 8, Codec: "HUFFMAN", Verbose: &verbose, Input: input}

	if code, written := NewStreamCompressor(cfg, false).Compress(); code != fvcodec.ERR_FRAME_SIZE || written != 0 {
		t.Errorf("expected ERR_FRAME_SIZE, got %d (%d bytes)", code, written)
	}

	// No output is left behind by a failed run
	if _, err := os.Stat(input + _CFG_EXTENSION); !os.IsNotExist(err) {
		t.Fatalf("unexpected output after a failed compression: %v", err)
	}

	cfg.FrameSize = 20

	if code, written := NewStreamCompressor(cfg, false).Compress(); code != 0 || written == 0 {
		t.Errorf("Compress returned %d (%d bytes)", code, written)
	}
}

type eventCounter struct {
	counts map[int]int
}

func (this *eventCounter) ProcessEvent(evt *fvcodec.Event) {
	this.counts[evt.Type()]++
}

func TestListenersAndInfoPrinter(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trace.txt")
	writeTrace(t, input, 640)
	verbose := 0
	var buf bytes.Buffer
	printer, _ := NewInfoPrinter(3, &buf)
	counter := &eventCounter{counts: map[int]int{}}
	cfg := &Config{FrameSize: 64, SymbolBits: 8, Codec: "HUFFMAN", Verbose: &verbose, Input: input, Output: _CFG_NONE}
	sc := NewStreamCompressor(cfg, false)
	sc.AddListener(printer)
	sc.AddListener(counter)

	if sc.AddListener(nil) {
		t.Errorf("a nil listener must be rejected")
	}

	if code, _ := sc.Compress(); code != 0 {
		t.Fatalf("Compress returned %d", code)
	}

	for _, evt := range []int{fvcodec.EVT_INFO, fvcodec.EVT_HISTOGRAM_BUILT, fvcodec.EVT_HUFFMAN_TREE_BUILT,
		fvcodec.EVT_BEFORE_ENCODE, fvcodec.EVT_AFTER_ENCODE} {
		if counter.counts[evt] != 1 {
			t.Errorf("event %d received %d times", evt, counter.counts[evt])
		}
	}

	if !strings.Contains(buf.String(), "640 samples, codec HUFFMAN, frame size 64, symbol width 8") {
		t.Errorf("missing configuration in printer output: %s", buf.String())
	}

	if !strings.Contains(buf.String(), "AFTER_ENCODE") || !strings.Contains(buf.String(), "ms]") {
		t.Errorf("unexpected printer output: %s", buf.String())
	}

	if _, err := NewInfoPrinter(1, nil); err == nil {
		t.Errorf("a nil writer must be rejected")
	}
}

func TestEntropyReport(t *testing.T) {
	s, _ := logic.ParseStream(strings.Repeat("00001111", 32) + strings.Repeat("XZ01", 16))
	var buf bytes.Buffer
	cfg := &Config{FrameSize: 8, SymbolBits: 8}

	if err := WriteEntropyReport(&buf, s, cfg); err != nil {
		t.Fatalf("WriteEntropyReport: %v", err)
	}

	report := buf.String()

	for _, expected := range []string{"Samples: 320", "Frames: 40 of 8 samples", " 8 bit symbols", "LZW:", "LZW bits:"} {
		if !strings.Contains(report, expected) {
			t.Errorf("missing %q in report:\n%s", expected, report)
		}
	}

	if strings.Contains(report, "16 bit symbols") {
		t.Errorf("symbols wider than a frame must be skipped:\n%s", report)
	}

	if s.Len() != 320 {
		t.Errorf("the report consumed the stream")
	}
}
