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
	"errors"
	"fmt"
	"os"
	"strings"

	fvcodec "github.com/signalcontent/fvcodec"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"
)

const (
	_CFG_DEFAULT_FRAME_SIZE  = 64
	_CFG_DEFAULT_SYMBOL_BITS = 8
	_CFG_DEFAULT_CODEC       = "HUFFMAN"
	_CFG_DEFAULT_VERBOSE     = 1
	_CFG_MAX_VERBOSE         = 3
	_CFG_STDIN               = "STDIN"
	_CFG_STDOUT              = "STDOUT"
	_CFG_NONE                = "NONE"
	_CFG_EXTENSION           = ".fvc"
)

var _CODECS = []string{"HUFFMAN", "LZW", "LZW_BITS"}

// Config holds the parameters of a run. A YAML file can provide any of the
// fields, the command line overrides them.
type Config struct {
	FrameSize  int    `json:"frameSize,omitempty"`
	SymbolBits int    `json:"symbolBits,omitempty"`
	Codec      string `json:"codec,omitempty"`
	Verbose    *int   `json:"verbose,omitempty"`
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
}

// LoadConfig parses a YAML configuration file. Unknown keys are rejected.
func LoadConfig(fileName string) (*Config, error) {
	buf, err := os.ReadFile(fileName)

	if err != nil {
		return nil, err
	}

	return ParseConfig(buf)
}

// ParseConfig parses a YAML configuration
func ParseConfig(buf []byte) (*Config, error) {
	cfg := &Config{}

	if err := yaml.UnmarshalStrict(buf, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NewConfig merges the defaults, the configuration file named by the
// "config" argument (if any) and the command line arguments, then checks
// the result.
func NewConfig(argsMap map[string]any) (*Config, int, error) {
	cfg := &Config{}

	if name, prst := argsMap["config"]; prst == true {
		var err error

		if cfg, err = LoadConfig(name.(string)); err != nil {
			return nil, fvcodec.ERR_INVALID_CONFIG, err
		}

		delete(argsMap, "config")
	}

	if v, prst := argsMap["frameSize"]; prst == true {
		cfg.FrameSize = v.(int)
		delete(argsMap, "frameSize")
	}

	if v, prst := argsMap["symbolBits"]; prst == true {
		cfg.SymbolBits = v.(int)
		delete(argsMap, "symbolBits")
	}

	if v, prst := argsMap["codec"]; prst == true {
		cfg.Codec = v.(string)
		delete(argsMap, "codec")
	}

	if v, prst := argsMap["verbose"]; prst == true {
		verbose := v.(int)
		cfg.Verbose = &verbose
		delete(argsMap, "verbose")
	}

	if v, prst := argsMap["inputName"]; prst == true {
		cfg.Input = v.(string)
		delete(argsMap, "inputName")
	}

	if v, prst := argsMap["outputName"]; prst == true {
		cfg.Output = v.(string)
		delete(argsMap, "outputName")
	}

	cfg.setDefaults()

	if code, err := cfg.Validate(); err != nil {
		return nil, code, err
	}

	return cfg, 0, nil
}

func (this *Config) setDefaults() {
	if this.FrameSize == 0 {
		this.FrameSize = _CFG_DEFAULT_FRAME_SIZE
	}

	if this.SymbolBits == 0 {
		this.SymbolBits = _CFG_DEFAULT_SYMBOL_BITS
	}

	if this.Codec == "" {
		this.Codec = _CFG_DEFAULT_CODEC
	}

	this.Codec = strings.ToUpper(this.Codec)

	if this.Verbose == nil {
		verbose := _CFG_DEFAULT_VERBOSE
		this.Verbose = &verbose
	}

	if this.Input == "" {
		this.Input = _CFG_STDIN
	}
}

// Validate checks the parameters and returns the matching exit code on error
func (this *Config) Validate() (int, error) {
	if this.FrameSize <= 0 {
		return fvcodec.ERR_FRAME_SIZE, fmt.Errorf("invalid frame size: %d", this.FrameSize)
	}

	if this.SymbolBits < fvcodec.MIN_SYMBOL_BITS || this.SymbolBits > fvcodec.MAX_SYMBOL_BITS {
		return fvcodec.ERR_SYMBOL_WIDTH, fmt.Errorf("%w: %d (must be in [%d..%d])", fvcodec.ErrInvalidSymbolWidth,
			this.SymbolBits, fvcodec.MIN_SYMBOL_BITS, fvcodec.MAX_SYMBOL_BITS)
	}

	if !slices.Contains(_CODECS, this.Codec) {
		return fvcodec.ERR_INVALID_CODEC, fmt.Errorf("unknown codec %q (expected one of %s)", this.Codec, strings.Join(_CODECS, ", "))
	}

	if this.Verbose != nil && (*this.Verbose < 0 || *this.Verbose > _CFG_MAX_VERBOSE) {
		return fvcodec.ERR_INVALID_PARAM, fmt.Errorf("invalid verbosity level: %d", *this.Verbose)
	}

	if this.Input == "" {
		return fvcodec.ERR_MISSING_PARAM, errors.New("missing input name")
	}

	return 0, nil
}

// Verbosity returns the verbosity level
func (this *Config) Verbosity() int {
	if this.Verbose == nil {
		return _CFG_DEFAULT_VERBOSE
	}

	return *this.Verbose
}

// OutputName returns the output name, derived from the input name when
// none was provided.
func (this *Config) OutputName(compress bool) string {
	if this.Output != "" {
		return this.Output
	}

	if strings.ToUpper(this.Input) == _CFG_STDIN {
		return _CFG_STDOUT
	}

	if compress {
		return this.Input + _CFG_EXTENSION
	}

	if strings.HasSuffix(this.Input, _CFG_EXTENSION) {
		return strings.TrimSuffix(this.Input, _CFG_EXTENSION)
	}

	return this.Input + ".out"
}
