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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/internal"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	_STDIN  = "STDIN"
	_STDOUT = "STDOUT"
	_NONE   = "NONE"
)

// taskError an error with the exit code of the failed task
type taskError struct {
	msg  string
	code int
}

func (this *taskError) Error() string {
	return this.msg
}

func (this *taskError) ErrorCode() int {
	return this.code
}

func newTaskError(code int, format string, args ...any) *taskError {
	return &taskError{msg: fmt.Sprintf(format, args...), code: code}
}

// runTasks calls task(i) for i in [0..count) with at most 'jobs' calls
// running concurrently. Tasks not started yet when one fails are skipped.
// Returns the first error.
func runTasks(jobs, count int, task func(idx int) error) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(jobs, 1))

	for i := 0; i < count; i++ {
		idx := i

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			return task(idx)
		})
	}

	return g.Wait()
}

// listInputs returns the files to process and the directory they were found
// in (empty if the input is a single file or stdin).
func listInputs(inputName string, ignoreLinks, ignoreDotFiles bool) ([]internal.FileData, string, error) {
	if strings.ToUpper(inputName) == _STDIN {
		return []internal.FileData{{FullPath: _STDIN, Name: _STDIN}}, "", nil
	}

	isRecursive := true
	target := inputName
	suffix := string([]byte{os.PathSeparator, '.'})

	if len(target) > 2 && strings.HasSuffix(target, suffix) {
		target = target[0 : len(target)-1]
		isRecursive = false
	}

	files, err := internal.CreateFileList(target, nil, isRecursive, ignoreLinks, ignoreDotFiles)

	if err != nil {
		return nil, "", err
	}

	internal.SortFiles(files, true)
	root := ""

	if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		root = target
	}

	return files, root, nil
}

// outputFor returns the output name of 'file'. 'root' is the input directory
// (empty for a single input file) and 'defaultName' derives an output name
// from an input name.
func outputFor(file internal.FileData, root, outputName string, defaultName func(string) string) string {
	switch strings.ToUpper(outputName) {
	case _NONE:
		return _NONE
	case _STDOUT:
		return _STDOUT
	}

	if file.FullPath == _STDIN {
		if outputName == "" {
			return _STDOUT
		}

		return outputName
	}

	if outputName == "" {
		return defaultName(file.FullPath)
	}

	fi, err := os.Stat(outputName)
	isDir := err == nil && fi.IsDir()

	if root == "" && isDir == false {
		return outputName
	}

	rel := file.Name

	if root != "" {
		if r, err := filepath.Rel(root, file.FullPath); err == nil {
			rel = r
		}
	}

	return defaultName(filepath.Join(outputName, rel))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func openInput(name string) (io.ReadCloser, error) {
	if name == _STDIN {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(name)

	if err != nil {
		return nil, newTaskError(hzip.ERR_OPEN_FILE, "Cannot open input file '%s': %v", name, err)
	}

	return f, nil
}

func openOutput(name, inputName string, overwrite bool) (io.WriteCloser, error) {
	switch name {
	case _NONE:
		return nopWriteCloser{io.Discard}, nil
	case _STDOUT:
		return nopWriteCloser{os.Stdout}, nil
	}

	if name == inputName {
		return nil, newTaskError(hzip.ERR_CREATE_FILE, "The input and output files must be different")
	}

	if internal.IsReservedName(filepath.Base(name)) {
		return nil, newTaskError(hzip.ERR_CREATE_FILE, "The output file name '%s' is reserved", name)
	}

	if fi, err := os.Stat(name); err == nil {
		if fi.IsDir() {
			return nil, newTaskError(hzip.ERR_OUTPUT_IS_DIR, "The output file '%s' is a directory", name)
		}

		if overwrite == false {
			return nil, newTaskError(hzip.ERR_OVERWRITE_FILE,
				"File '%s' exists and the 'force' command line option has not been provided", name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, newTaskError(hzip.ERR_CREATE_FILE, "Cannot create output directory for '%s': %v", name, err)
	}

	f, err := os.Create(name)

	if err != nil {
		return nil, newTaskError(hzip.ERR_CREATE_FILE, "Cannot open output file '%s' for writing: %v", name, err)
	}

	return f, nil
}

// errorCode returns the exit code matching the error
func errorCode(err error, defaultCode int) int {
	var coded interface{ ErrorCode() int }

	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}

	if code := hzip.ErrorCode(err); code != hzip.ERR_UNKNOWN {
		return code
	}

	return defaultCode
}
