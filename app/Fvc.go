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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	fvcodec "github.com/signalcontent/fvcodec"
)

const (
	//_ARG_IDX_COMPRESS   = 0
	//_ARG_IDX_DECOMPRESS = 1
	_ARG_IDX_INPUT   = 2
	_ARG_IDX_OUTPUT  = 3
	_ARG_IDX_FRAME   = 4
	_ARG_IDX_SYMBOL  = 5
	_ARG_IDX_CODEC   = 6
	_ARG_IDX_VERBOSE = 7
	_ARG_IDX_CONFIG  = 8
	_FVC_VERSION     = "1.0"
	_APP_HEADER      = "fvc " + _FVC_VERSION + " four-valued signal compressor"
	_ARG_INPUT       = "--input="
	_ARG_OUTPUT      = "--output="
	_ARG_FRAME       = "--frame="
	_ARG_SYMBOL      = "--symbol="
	_ARG_CODEC       = "--codec="
	_ARG_VERBOSE     = "--verbose="
	_ARG_CONFIG      = "--config="
	_ARG_COMPRESS    = "--compress"
	_ARG_DECOMPRESS  = "--decompress"
	_ARG_ENTROPY     = "--entropy"
	_ARG_FORCE       = "--force"
)

var (
	_CMD_LINE_ARGS = []string{
		"-c", "-d", "-i", "-o", "-b", "-s", "-t", "-v", "-y", "-e", "-f", "-h",
	}

	mutex sync.Mutex
	log   = Printer{os: bufio.NewWriter(os.Stdout)}
)

func main() {
	argsMap := make(map[string]any)

	if status := processCommandLine(os.Args, argsMap); status != 0 {
		os.Exit(status)
	}

	// Help mode only ?
	if argsMap["mode"] == nil {
		os.Exit(0)
	}

	mode := argsMap["mode"].(string)
	delete(argsMap, "mode")
	overwrite := argsMap["overwrite"] != nil
	delete(argsMap, "overwrite")
	cfg, status, err := NewConfig(argsMap)

	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(status)
	}

	os.Exit(run(mode, cfg, overwrite))
}

func run(mode string, cfg *Config, overwrite bool) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("An unexpected error occurred: %v\n", r)
			code = fvcodec.ERR_UNKNOWN
		}
	}()

	verbose := cfg.Verbosity()

	if verbose >= 1 {
		log.Println(_APP_HEADER+"\n", true)
	}

	var printer fvcodec.Listener

	if verbose >= 2 {
		printer, _ = NewInfoPrinter(uint(verbose), os.Stdout)
	}

	switch mode {
	case "c":
		sc := NewStreamCompressor(cfg, overwrite)
		sc.AddListener(printer)
		code, _ = sc.Compress()

	case "d":
		sd := NewStreamDecompressor(cfg, overwrite)
		sd.AddListener(printer)
		code, _ = sd.Decompress()

	case "e":
		s, status, err := readSamples(cfg.Input)

		if err != nil {
			fmt.Printf("Cannot read input %s: %v\n", cfg.Input, err)
			return status
		}

		if err = WriteEntropyReport(os.Stdout, s, cfg); err != nil {
			fmt.Printf("Entropy report failed: %v\n", err)
			return fvcodec.ERR_PROCESS_STREAM
		}

	default:
		println("Missing arguments: try --help or -h")
		code = fvcodec.ERR_MISSING_PARAM
	}

	return code
}

func processCommandLine(args []string, argsMap map[string]any) int {
	verbose := -1
	frameSize := -1
	symbolBits := -1
	inputName := ""
	outputName := ""
	codec := ""
	configName := ""
	overwrite := false
	ctx := -1
	mode := " "
	warningNoValOpt := "Warning: ignoring option [%s] with no value."
	warningDupOpt := "Warning: ignoring duplicate %s (%s)"
	warningInvalidOpt := "Invalid %s provided on command line: %s"

	if len(args) == 1 {
		printHelp()
		return 0
	}

	for i, arg := range args {
		if i == 0 {
			continue
		}

		arg = strings.TrimSpace(arg)

		if arg == "--help" || arg == "-h" {
			printHelp()
			return 0
		}

		newMode := ""

		if arg == _ARG_COMPRESS || arg == "-c" {
			newMode = "c"
		} else if arg == _ARG_DECOMPRESS || arg == "-d" {
			newMode = "d"
		} else if arg == _ARG_ENTROPY || arg == "-e" {
			newMode = "e"
		}

		if newMode != "" {
			if ctx != -1 {
				log.Println(fmt.Sprintf(warningNoValOpt, _CMD_LINE_ARGS[ctx]), verbose != 0)
			}

			if mode != " " && mode != newMode {
				fmt.Println("Only one of the compression, decompression and entropy options can be provided.")
				return fvcodec.ERR_INVALID_PARAM
			}

			mode = newMode
			ctx = -1
			continue
		}

		if arg == _ARG_FORCE || arg == "-f" {
			if ctx != -1 {
				log.Println(fmt.Sprintf(warningNoValOpt, _CMD_LINE_ARGS[ctx]), verbose != 0)
			}

			overwrite = true
			ctx = -1
			continue
		}

		if ctx == -1 {
			idx := -1

			for i, v := range _CMD_LINE_ARGS {
				if arg == v {
					idx = i
					break
				}
			}

			if idx != -1 {
				ctx = idx
				continue
			}
		}

		if strings.HasPrefix(arg, _ARG_INPUT) || ctx == _ARG_IDX_INPUT {
			name := strings.TrimPrefix(arg, _ARG_INPUT)

			if inputName != "" {
				log.Println(fmt.Sprintf(warningDupOpt, "input name", name), verbose != 0)
			} else {
				inputName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_OUTPUT) || ctx == _ARG_IDX_OUTPUT {
			name := strings.TrimPrefix(arg, _ARG_OUTPUT)

			if outputName != "" {
				log.Println(fmt.Sprintf(warningDupOpt, "output name", name), verbose != 0)
			} else {
				outputName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_CONFIG) || ctx == _ARG_IDX_CONFIG {
			name := strings.TrimPrefix(arg, _ARG_CONFIG)

			if configName != "" {
				log.Println(fmt.Sprintf(warningDupOpt, "configuration file", name), verbose != 0)
			} else {
				configName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_CODEC) || ctx == _ARG_IDX_CODEC {
			name := strings.ToUpper(strings.TrimPrefix(arg, _ARG_CODEC))

			if codec != "" {
				log.Println(fmt.Sprintf(warningDupOpt, "codec", name), verbose != 0)
				ctx = -1
				continue
			}

			if len(name) == 0 {
				fmt.Println(fmt.Sprintf(warningInvalidOpt, "codec", "[]"))
				return fvcodec.ERR_INVALID_CODEC
			}

			codec = name
			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_FRAME) || ctx == _ARG_IDX_FRAME {
			str := strings.TrimSpace(strings.TrimPrefix(arg, _ARG_FRAME))

			if frameSize != -1 {
				log.Println(fmt.Sprintf(warningDupOpt, "frame size", str), verbose != 0)
				ctx = -1
				continue
			}

			var err error

			if frameSize, err = strconv.Atoi(str); err != nil || frameSize <= 0 {
				fmt.Println(fmt.Sprintf(warningInvalidOpt, "frame size", str))
				return fvcodec.ERR_FRAME_SIZE
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_SYMBOL) || ctx == _ARG_IDX_SYMBOL {
			str := strings.TrimSpace(strings.TrimPrefix(arg, _ARG_SYMBOL))

			if symbolBits != -1 {
				log.Println(fmt.Sprintf(warningDupOpt, "symbol width", str), verbose != 0)
				ctx = -1
				continue
			}

			var err error

			if symbolBits, err = strconv.Atoi(str); err != nil ||
				symbolBits < fvcodec.MIN_SYMBOL_BITS || symbolBits > fvcodec.MAX_SYMBOL_BITS {
				fmt.Println(fmt.Sprintf(warningInvalidOpt, "symbol width", str))
				return fvcodec.ERR_SYMBOL_WIDTH
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_VERBOSE) || ctx == _ARG_IDX_VERBOSE {
			str := strings.TrimSpace(strings.TrimPrefix(arg, _ARG_VERBOSE))

			if verbose != -1 {
				log.Println(fmt.Sprintf(warningDupOpt, "verbosity level", str), verbose != 0)
				ctx = -1
				continue
			}

			var err error

			if verbose, err = strconv.Atoi(str); err != nil || verbose < 0 || verbose > _CFG_MAX_VERBOSE {
				fmt.Println(fmt.Sprintf(warningInvalidOpt, "verbosity level", str))
				return fvcodec.ERR_INVALID_PARAM
			}

			ctx = -1
			continue
		}

		log.Println("Warning: ignoring unknown option ["+arg+"]", verbose != 0)
		ctx = -1
	}

	if ctx != -1 {
		log.Println(fmt.Sprintf(warningNoValOpt, _CMD_LINE_ARGS[ctx]), verbose != 0)
	}

	if mode == " " {
		fmt.Println("Missing mode: one of -c, -d or -e must be provided.")
		return fvcodec.ERR_MISSING_PARAM
	}

	argsMap["mode"] = mode

	if overwrite == true {
		argsMap["overwrite"] = true
	}

	if verbose != -1 {
		argsMap["verbose"] = verbose
	}

	if frameSize != -1 {
		argsMap["frameSize"] = frameSize
	}

	if symbolBits != -1 {
		argsMap["symbolBits"] = symbolBits
	}

	if len(codec) > 0 {
		argsMap["codec"] = codec
	}

	if len(inputName) > 0 {
		argsMap["inputName"] = inputName
	}

	if len(outputName) > 0 {
		argsMap["outputName"] = outputName
	}

	if len(configName) > 0 {
		argsMap["config"] = configName
	}

	return 0
}

func printHelp() {
	log.Println("", true)
	log.Println(_APP_HEADER, true)
	log.Println("", true)
	log.Println("   -h, --help", true)
	log.Println("        Display this message\n", true)
	log.Println("   -c, --compress", true)
	log.Println("        Compress mode", true)
	log.Println("", true)
	log.Println("   -d, --decompress", true)
	log.Println("        Decompress mode", true)
	log.Println("", true)
	log.Println("   -e, --entropy", true)
	log.Println("        Print the entropy of the input and the predicted codec sizes\n", true)
	log.Println("   -i, --input=<inputName>", true)
	log.Println("        Name of the input file or 'stdin' (default). The input of the", true)
	log.Println("        compressor is text made of '0', '1', 'X' and 'Z' characters.\n", true)
	log.Println("   -o, --output=<outputName>", true)
	log.Println("        Optional name of the output file (defaults to <inputName.fvc> when", true)
	log.Println("        compressing) or 'none' or 'stdout'.\n", true)
	log.Println("   -b, --frame=<size>", true)
	log.Println(fmt.Sprintf("        Number of samples per frame (default %d).", _CFG_DEFAULT_FRAME_SIZE), true)
	log.Println("        The input length must be a multiple of the frame size (Huffman).\n", true)
	log.Println("   -s, --symbol=<bits>", true)
	log.Println(fmt.Sprintf("        Width of the Huffman symbols in [%d..%d] (default %d)\n",
		fvcodec.MIN_SYMBOL_BITS, fvcodec.MAX_SYMBOL_BITS, _CFG_DEFAULT_SYMBOL_BITS), true)
	log.Println("   -t, --codec=<name>", true)
	log.Println("        Codec: "+strings.Join(_CODECS, ", ")+" (default "+_CFG_DEFAULT_CODEC+")\n", true)
	log.Println("   -v, --verbose=<level>", true)
	log.Println("        0=silent, 1=default, 2=codec events, 3=every event with timings\n", true)
	log.Println("   -y, --config=<fileName>", true)
	log.Println("        YAML file providing frameSize, symbolBits, codec, verbose, input", true)
	log.Println("        and output. Command line options take precedence.\n", true)
	log.Println("   -f, --force", true)
	log.Println("        Overwrite the output file if it already exists\n", true)
	log.Println("EG. fvc -c -i trace.txt -b 64 -s 8 -t huffman", true)
	log.Println("EG. fvc -d -i trace.txt.fvc -o trace.out -v 2", true)
	log.Println("EG. fvc -e --input=trace.txt --frame=32", true)
}

// Printer a buffered printer (required in concurrent code)
type Printer struct {
	os *bufio.Writer
}

// Println concurrently safe version (order wise) of Println
func (this *Printer) Println(msg string, printFlag bool) {
	if printFlag == true {
		mutex.Lock()

		// Best effort, ignore error
		if w, _ := this.os.Write([]byte(msg + "\n")); w > 0 {
			_ = this.os.Flush()
		}

		mutex.Unlock()
	}
}
