/*
Copyright 2011-2026 Frederic Langlet
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
	"runtime"
	"strconv"
	"strings"
	"sync"

	hzip "github.com/flanglet/hzip-go"
)

const (
	//_ARG_IDX_COMPRESS   = 0
	//_ARG_IDX_DECOMPRESS = 1
	_ARG_IDX_INPUT   = 2
	_ARG_IDX_OUTPUT  = 3
	_ARG_IDX_JOBS    = 4
	_ARG_IDX_VERBOSE = 5
	_HZIP_VERSION    = "1.0"
	_APP_HEADER      = "Hzip " + _HZIP_VERSION + " (c) Frederic Langlet"
	_ARG_INPUT       = "--input="
	_ARG_OUTPUT      = "--output="
	_ARG_COMPRESS    = "--compress"
	_ARG_DECOMPRESS  = "--decompress"
	_ARG_TABLE       = "--table"
	_ARG_JSON        = "--json"
	_ARG_VERBOSE     = "--verbose="
	_ARG_JOBS        = "--jobs="
	_ARG_FORCE       = "--force"
	_ARG_CHECKSUM    = "--checksum"
	_MAX_JOBS        = 64
)

var (
	_CMD_LINE_ARGS = []string{
		"-c", "-d", "-i", "-o", "-j", "-v", "-t", "-x", "-f", "-h",
	}

	mutex sync.Mutex
	log   = Printer{os: bufio.NewWriter(os.Stdout)}
)

func main() {
	argsMap := make(map[string]any)

	if status := processCommandLine(os.Args, argsMap); status != 0 {
		// Command line processing error ?
		if status < 0 {
			os.Exit(0)
		}

		os.Exit(status)
	}

	// Help mode only ?
	if argsMap["mode"] == nil {
		os.Exit(0)
	}

	mode := argsMap["mode"].(string)
	delete(argsMap, "mode")
	status := 1

	switch mode {
	case "c":
		status = compress(argsMap)
	case "d":
		status = decompress(argsMap)
	case "t":
		status = printTable(argsMap)
	default:
		println("Missing arguments: try --help or -h")
	}

	os.Exit(status)
}

func compress(argsMap map[string]any) (code int) {
	runtime.GOMAXPROCS(runtime.NumCPU())

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("An unexpected error occurred during compression: %v\n", r)
			code = hzip.ERR_UNKNOWN
		}
	}()

	fc, err := NewFileCompressor(argsMap)

	if err != nil {
		fmt.Printf("Failed to create file compressor: %v\n", err)
		return hzip.ERR_CREATE_COMPRESSOR
	}

	code, _ = fc.Compress()
	return code
}

func decompress(argsMap map[string]any) (code int) {
	runtime.GOMAXPROCS(runtime.NumCPU())

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("An unexpected error occurred during decompression: %v\n", r)
			code = hzip.ERR_UNKNOWN
		}
	}()

	fd, err := NewFileDecompressor(argsMap)

	if err != nil {
		fmt.Printf("Failed to create file decompressor: %v\n", err)
		return hzip.ERR_CREATE_DECOMPRESSOR
	}

	code, _ = fd.Decompress()
	return code
}

func printTable(argsMap map[string]any) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("An unexpected error occurred while building the table: %v\n", r)
			code = hzip.ERR_UNKNOWN
		}
	}()

	tp, err := NewTablePrinter(argsMap)

	if err != nil {
		fmt.Printf("Failed to create table printer: %v\n", err)
		return hzip.ERR_INVALID_PARAM
	}

	return tp.Print()
}

func optionValue(arg, prefix string) string {
	if strings.HasPrefix(arg, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(arg, prefix))
	}

	return strings.TrimSpace(arg)
}

func processCommandLine(args []string, argsMap map[string]any) int {
	verbose := 1
	overwrite := false
	checksum := false
	jsonOutput := false
	noDotFiles := false
	noLinks := false
	remove := false
	inputName := ""
	outputName := ""
	tasks := -1
	ctx := -1
	mode := " "
	showHeader := true

	// Extract verbosity, output and mode first
	for i, arg := range args {
		if i == 0 {
			continue
		}

		arg = strings.TrimSpace(arg)

		if strings.HasPrefix(arg, _ARG_OUTPUT) || arg == "-o" {
			ctx = _ARG_IDX_OUTPUT
			continue
		}

		if strings.HasPrefix(arg, _ARG_INPUT) || arg == "-i" {
			ctx = _ARG_IDX_INPUT
			continue
		}

		if strings.HasPrefix(arg, _ARG_VERBOSE) || arg == "-v" {
			ctx = _ARG_IDX_VERBOSE
			continue
		}

		newMode := ""

		switch arg {
		case _ARG_COMPRESS, "-c":
			newMode = "c"
		case _ARG_DECOMPRESS, "-d", "-u":
			newMode = "d"
		case _ARG_TABLE, "-t":
			newMode = "t"
		}

		if newMode != "" {
			if mode != " " && mode != newMode {
				fmt.Println("Only one of the compress, decompress and table options can be provided.")
				return hzip.ERR_INVALID_PARAM
			}

			mode = newMode
			continue
		}

		if strings.HasPrefix(arg, _ARG_VERBOSE) || ctx == _ARG_IDX_VERBOSE {
			var err error
			verboseLevel := optionValue(arg, _ARG_VERBOSE)

			if verbose, err = strconv.Atoi(verboseLevel); err != nil || verbose < 0 || verbose > 5 {
				fmt.Printf("Invalid verbosity level provided on command line: %v\n", arg)
				return hzip.ERR_INVALID_PARAM
			}
		} else if ctx == _ARG_IDX_OUTPUT {
			outputName = strings.TrimSpace(arg)
		} else if ctx == _ARG_IDX_INPUT {
			inputName = strings.TrimSpace(arg)
		}

		ctx = -1
	}

	// Overwrite verbosity if the output goes to stdout
	if len(inputName) == 0 && len(outputName) == 0 {
		verbose = 0
	} else if strings.ToUpper(outputName) == "STDOUT" || mode == "t" {
		verbose = 0
	}

	if verbose >= 1 {
		log.Println("\n"+_APP_HEADER+"\n", true)
		showHeader = false
	}

	inputName = ""
	outputName = ""
	ctx = -1
	warningNoValOpt := "Warning: ignoring option [%s] with no value."
	warningCompressOpt := "Warning: ignoring option [%s]. Only applicable in compress mode."
	warningTableOpt := "Warning: ignoring option [%s]. Only applicable in table mode."
	warningDupOpt := "Warning: ignoring duplicate %s (%s)"
	warningInvalidOpt := "Invalid %s provided on command line: %s"

	if len(args) == 1 {
		printHelp(mode, showHeader)
		return 0
	}

	for i, arg := range args {
		if i == 0 {
			continue
		}

		arg = strings.TrimSpace(arg)

		if arg == "--help" || arg == "-h" {
			printHelp(mode, showHeader)
			return 0
		}

		// Options without value
		flag := true

		switch arg {
		case _ARG_COMPRESS, "-c", _ARG_DECOMPRESS, "-d", "-u", _ARG_TABLE, "-t":
		case _ARG_FORCE, "-f":
			overwrite = true
		case _ARG_CHECKSUM, "-x":
			checksum = true
		case "--rm":
			remove = true
		case _ARG_JSON:
			if mode != "t" {
				log.Println(fmt.Sprintf(warningTableOpt, arg), verbose > 0)
			} else {
				jsonOutput = true
			}
		case "--no-dot-file":
			if mode != "c" {
				log.Println(fmt.Sprintf(warningCompressOpt, arg), verbose > 0)
			} else {
				noDotFiles = true
			}
		case "--no-link":
			if mode != "c" {
				log.Println(fmt.Sprintf(warningCompressOpt, arg), verbose > 0)
			} else {
				noLinks = true
			}
		default:
			flag = false
		}

		if flag == true {
			if ctx != -1 {
				log.Println(fmt.Sprintf(warningNoValOpt, _CMD_LINE_ARGS[ctx]), verbose > 0)
			}

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

		if strings.HasPrefix(arg, _ARG_OUTPUT) || ctx == _ARG_IDX_OUTPUT {
			name := optionValue(arg, _ARG_OUTPUT)

			if outputName != "" {
				log.Println(fmt.Sprintf(warningDupOpt, "output name", name), verbose > 0)
			} else {
				outputName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_INPUT) || ctx == _ARG_IDX_INPUT {
			name := optionValue(arg, _ARG_INPUT)

			if inputName != "" {
				log.Println(fmt.Sprintf(warningDupOpt, "input name", name), verbose > 0)
			} else {
				inputName = name
			}

			ctx = -1
			continue
		}

		if strings.HasPrefix(arg, _ARG_JOBS) || ctx == _ARG_IDX_JOBS {
			var err error
			strTasks := optionValue(arg, _ARG_JOBS)

			if tasks != -1 {
				log.Println(fmt.Sprintf(warningDupOpt, "jobs", strTasks), verbose > 0)
				ctx = -1
				continue
			}

			if tasks, err = strconv.Atoi(strTasks); err != nil || tasks < 0 {
				fmt.Println(fmt.Sprintf(warningInvalidOpt, "number of jobs", strTasks))
				return hzip.ERR_INVALID_PARAM
			}

			ctx = -1
			continue
		}

		if !strings.HasPrefix(arg, _ARG_VERBOSE) && ctx == -1 {
			log.Println("Warning: ignoring unknown option ["+arg+"]", verbose > 0)
		}

		ctx = -1
	}

	if ctx != -1 {
		log.Println(fmt.Sprintf(warningNoValOpt, _CMD_LINE_ARGS[ctx]), verbose > 0)
	}

	if mode == " " {
		printHelp(mode, showHeader)
		return 0
	}

	argsMap["verbosity"] = uint(verbose)
	argsMap["mode"] = mode
	argsMap["inputName"] = inputName
	argsMap["outputName"] = outputName

	if overwrite == true {
		argsMap["overwrite"] = true
	}

	if checksum == true {
		argsMap["checksum"] = true
	}

	if jsonOutput == true {
		argsMap["json"] = true
	}

	if remove == true {
		argsMap["remove"] = true
	}

	if noDotFiles == true {
		argsMap["noDotFiles"] = true
	}

	if noLinks == true {
		argsMap["noLinks"] = true
	}

	if tasks >= 0 {
		if tasks == 0 {
			tasks = min(runtime.NumCPU(), _MAX_JOBS)
		}

		argsMap["jobs"] = uint(min(tasks, _MAX_JOBS))
	}

	return 0
}

func printHelp(mode string, showHeader bool) {
	if showHeader == true {
		log.Println("", true)
		log.Println(_APP_HEADER, true)
	}

	log.Println("", true)
	log.Println("   -h, --help", true)
	log.Println("        Display this message\n", true)

	if mode != "c" && mode != "d" && mode != "t" {
		log.Println("   -c, --compress", true)
		log.Println("        Compress mode", true)
		log.Println("", true)
		log.Println("   -d, -u, --decompress", true)
		log.Println("        Decompress mode", true)
		log.Println("", true)
		log.Println("   -t, --table", true)
		log.Println("        Print the encoding table of the input (symbol, count, code)", true)
		log.Println("", true)
	}

	log.Println("   -i, --input=<inputName>", true)
	log.Println("        Mandatory name of the input file or directory or 'stdin'", true)
	log.Println("        When the source is a directory, all files in it will be processed.", true)
	msg := fmt.Sprintf("        Provide %c. at the end of the directory name to avoid recursion.", os.PathSeparator)
	log.Println(msg, true)
	msg = fmt.Sprintf("        (EG: myDir%c. => no recursion)\n", os.PathSeparator)
	log.Println(msg, true)
	log.Println("   -o, --output=<outputName>", true)

	if mode == "c" {
		log.Println("        Optional name of the output file or directory (defaults to", true)
		log.Println("        <inputName.hz>) or 'none' or 'stdout'. 'stdout' is not valid", true)
		log.Println("        when several files are processed.\n", true)
	} else if mode == "d" {
		log.Println("        Optional name of the output file or directory (defaults to", true)
		log.Println("        <inputName> without '.hz' or <inputName.out>) or 'none' or 'stdout'.", true)
		log.Println("        'stdout' is not valid when several files are processed.\n", true)
	} else {
		log.Println("        optional name of the output file or 'none' or 'stdout'.\n", true)
	}

	if mode == "c" || mode == "d" {
		log.Println("   -x, --checksum", true)
		log.Println("        Report a 64 bit hash of the uncompressed data\n", true)
	}

	if mode == "t" {
		log.Println("   --json", true)
		log.Println("        Print the table as a JSON array\n", true)
	}

	log.Println("   -j, --jobs=<jobs>", true)
	log.Println("        Maximum number of files processed concurrently", true)
	log.Println("        If 0 is provided, use all available cores (maximum is 64).", true)
	log.Println("        (default is half of available cores).\n", true)
	log.Println("   -v, --verbose=<level>", true)
	log.Println("        Set the verbosity level [0..5]", true)
	log.Println("        0=silent, 1=default, 2=display details, 3=display per file events,", true)
	log.Println("        4=display timings, 5=display all events", true)
	log.Println("        Verbosity is reduced to 0 when the output is 'stdout'\n", true)
	log.Println("   -f, --force", true)
	log.Println("        Overwrite the output file if it already exists\n", true)
	log.Println("   --rm", true)
	log.Println("        Remove the input file after successful (de)compression.\n", true)

	if mode == "c" {
		log.Println("   --no-link", true)
		log.Println("        Skip links\n", true)
		log.Println("   --no-dot-file", true)
		log.Println("        Skip dot files\n", true)
		log.Println("", true)
		log.Println("EG. Hzip -c -i foo.txt -o none -v 3\n", true)
		log.Println("EG. Hzip --compress --input=foo.txt --output=foo.hz --force --jobs=4\n", true)
	}

	if mode == "d" {
		log.Println("", true)
		log.Println("EG. Hzip -d -i foo.hz -f -v 2 -j 2\n", true)
	}

	if mode == "t" {
		log.Println("", true)
		log.Println("EG. Hzip -t -i foo.txt --json\n", true)
	}
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

// Write makes the printer usable as an io.Writer (e.g. by InfoPrinter)
func (this *Printer) Write(buf []byte) (int, error) {
	mutex.Lock()
	defer mutex.Unlock()
	n, err := this.os.Write(buf)

	if err != nil {
		return n, err
	}

	return n, this.os.Flush()
}
