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
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/internal"
	kio "github.com/flanglet/hzip-go/io"
)

const (
	_COPY_BUFFER_SIZE = 1 << 16
)

// FileCompressor compresses one file, stdin or all the files of a directory.
// Each file is compressed independently, several files may be compressed
// concurrently.
type FileCompressor struct {
	verbosity    uint
	overwrite    bool
	checksum     bool
	removeSource bool
	noDotFiles   bool
	noLinks      bool
	inputName    string
	outputName   string
	jobs         int
	listeners    []hzip.Listener
}

// NewFileCompressor creates a new instance of FileCompressor given
// a map of argument name/value pairs.
func NewFileCompressor(argsMap map[string]any) (*FileCompressor, error) {
	this := &FileCompressor{}
	this.verbosity = argsMap["verbosity"].(uint)
	this.inputName = argsMap["inputName"].(string)
	this.outputName = argsMap["outputName"].(string)
	this.jobs = max(runtime.NumCPU()/2, 1)

	if len(this.inputName) == 0 {
		this.inputName = _STDIN
	}

	// Compressed data goes to stdout
	if strings.ToUpper(this.inputName) == _STDIN && this.outputName == "" {
		this.verbosity = 0
	}

	if v, prst := argsMap["overwrite"]; prst {
		this.overwrite = v.(bool)
	}

	if v, prst := argsMap["checksum"]; prst {
		this.checksum = v.(bool)
	}

	if v, prst := argsMap["remove"]; prst {
		this.removeSource = v.(bool)
	}

	if v, prst := argsMap["noDotFiles"]; prst {
		this.noDotFiles = v.(bool)
	}

	if v, prst := argsMap["noLinks"]; prst {
		this.noLinks = v.(bool)
	}

	if v, prst := argsMap["jobs"]; prst {
		this.jobs = int(v.(uint))
	}

	this.listeners = make([]hzip.Listener, 0)

	if this.verbosity > 2 {
		if listener, err := NewInfoPrinter(this.verbosity, COMPRESSION, &log); err == nil {
			this.AddListener(listener)
		}
	}

	return this, nil
}

// AddListener adds an event listener to this compressor.
// Returns true if the listener has been added.
func (this *FileCompressor) AddListener(bl hzip.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener from this compressor.
// Returns true if the listener has been removed.
func (this *FileCompressor) RemoveListener(bl hzip.Listener) bool {
	if bl == nil {
		return false
	}

	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

// Compress is the main compression method.
// Returns the error code if an error occurred or 0 and the total number
// of bytes written.
func (this *FileCompressor) Compress() (int, uint64) {
	before := time.Now()
	files, root, err := listInputs(this.inputName, this.noLinks, this.noDotFiles)

	if err != nil {
		fmt.Printf("Cannot access input file '%s': %v\n", this.inputName, err)
		return hzip.ERR_OPEN_FILE, 0
	}

	if len(files) == 0 {
		fmt.Println("Cannot find any file to compress")
		return hzip.ERR_OPEN_FILE, 0
	}

	if len(files) > 1 && strings.ToUpper(this.outputName) == _STDOUT {
		fmt.Println("Cannot compress several files to 'stdout'")
		return hzip.ERR_INVALID_PARAM, 0
	}

	if len(files) > 1 {
		log.Println(fmt.Sprintf("%d files to compress\n", len(files)), this.verbosity > 0)
	}

	var read, written atomic.Uint64

	err = runTasks(this.jobs, len(files), func(idx int) error {
		output := outputFor(files[idx], root, this.outputName, internal.CompressedName)
		r, w, err := this.compressFile(idx, files[idx].FullPath, output)
		read.Add(r)
		written.Add(w)
		return err
	})

	if err != nil {
		fmt.Println(err.Error())
		return errorCode(err, hzip.ERR_UNKNOWN), written.Load()
	}

	if len(files) > 1 {
		delta := time.Since(before).Milliseconds()
		log.Println("", this.verbosity > 0)
		log.Println(fmt.Sprintf("Total compression time: %d ms", delta), this.verbosity > 0)
		log.Println(fmt.Sprintf("Total output size: %d byte%s", written.Load(), plural(written.Load())), this.verbosity > 0)

		if read.Load() > 0 {
			r := float64(written.Load()) / float64(read.Load())
			log.Println(fmt.Sprintf("Compression ratio: %f", r), this.verbosity > 0)
		}
	}

	return 0, written.Load()
}

func (this *FileCompressor) compressFile(idx int, inputName, outputName string) (uint64, uint64, error) {
	before := time.Now()
	log.Println(fmt.Sprintf("Input file name: '%s'", inputName), this.verbosity > 1)
	log.Println(fmt.Sprintf("Output file name: '%s'", outputName), this.verbosity > 1)
	input, err := openInput(inputName)

	if err != nil {
		return 0, 0, err
	}

	defer input.Close()
	output, err := openOutput(outputName, inputName, this.overwrite)

	if err != nil {
		return 0, 0, err
	}

	bw := bufio.NewWriterSize(output, _COPY_BUFFER_SIZE)
	ctx := map[string]any{"checksum": this.checksum, "id": idx}
	w, err := kio.NewWriter(bw, ctx)

	if err != nil {
		output.Close()
		return 0, 0, newTaskError(hzip.ERR_CREATE_COMPRESSOR, "Cannot create compressed stream: %v", err)
	}

	for _, bl := range this.listeners {
		w.AddListener(bl)
	}

	read, err := io.CopyBuffer(w, input, make([]byte, _COPY_BUFFER_SIZE))

	if err != nil {
		output.Close()
		return uint64(read), 0, newTaskError(errorCode(err, hzip.ERR_READ_FILE), "Failed to read '%s': %v", inputName, err)
	}

	if err = w.Close(); err != nil {
		output.Close()
		return uint64(read), 0, newTaskError(errorCode(err, hzip.ERR_WRITE_FILE), "Failed to compress '%s': %v", inputName, err)
	}

	if err = bw.Flush(); err == nil {
		err = output.Close()
	}

	if err != nil {
		return uint64(read), 0, newTaskError(hzip.ERR_WRITE_FILE, "Failed to write '%s': %v", outputName, err)
	}

	written := w.GetWritten()
	delta := time.Since(before).Milliseconds()

	if this.verbosity > 1 {
		log.Println(fmt.Sprintf("Compressing:       %d ms", delta), true)
		log.Println(fmt.Sprintf("Input size:        %d", read), true)
		log.Println(fmt.Sprintf("Output size:       %d", written), true)

		if read > 0 {
			log.Println(fmt.Sprintf("Compression ratio: %f", float64(written)/float64(read)), true)
		}

		if this.checksum == true {
			log.Println(fmt.Sprintf("Checksum:          %016x", w.Checksum()), true)
		}

		log.Println("", true)
	} else {
		msg := fmt.Sprintf("Compressing %s: %d => %d in %d ms", inputName, read, written, delta)
		log.Println(msg, this.verbosity == 1)
	}

	if this.removeSource == true && inputName != _STDIN {
		if err := os.Remove(inputName); err != nil {
			log.Println(fmt.Sprintf("Warning: cannot remove '%s': %v", inputName, err), this.verbosity > 0)
		}
	}

	return uint64(read), written, nil
}

func plural(n uint64) string {
	if n > 1 {
		return "s"
	}

	return ""
}
