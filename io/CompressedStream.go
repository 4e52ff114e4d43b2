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

// Package io provides the implementations of a Writer and a Reader
// used to respectively losslessly compress and decompress data with a
// static Huffman code.
package io

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/bitstream"
	"github.com/flanglet/hzip-go/entropy"
)

// Encoding needs two passes over the data (symbol counts, then codewords),
// so the Writer keeps everything written until Close.
// Decoding is done on the fly.
//
// Recognized context keys:
//   "checksum" (bool): compute a 64 bit hash of the uncompressed data and
//                      report it in the end event (not stored in the stream)
//   "id" (int):        identifier reported in events

const (
	_STREAM_DEFAULT_BUFFER_SIZE = 256 * 1024
	_INITIAL_BUFFER_SIZE        = 64 * 1024
)

// IOError an extended error containing a message, a code value and
// optionally the error that caused it
type IOError struct {
	msg  string
	code int
	err  error
}

// Error returns the underlying error
func (this IOError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code value associated with the error
func (this IOError) ErrorCode() int {
	return this.code
}

// Unwrap returns the cause of the error (may be nil)
func (this IOError) Unwrap() error {
	return this.err
}

// newIOError uses the code of the codec error if any, 'code' otherwise
func newIOError(err error, code int) *IOError {
	if c := hzip.ErrorCode(err); c != hzip.ERR_UNKNOWN {
		code = c
	}

	return &IOError{msg: err.Error(), code: code, err: err}
}

type streamParams struct {
	checksum bool
	id       int
}

func parseContext(ctx map[string]any) (streamParams, error) {
	params := streamParams{id: -1}

	if ctx == nil {
		return params, nil
	}

	if val, containsKey := ctx["checksum"]; containsKey {
		b, ok := val.(bool)

		if ok == false {
			return params, &IOError{msg: "Invalid checksum parameter (must be a bool)", code: hzip.ERR_INVALID_PARAM}
		}

		params.checksum = b
	}

	if val, containsKey := ctx["id"]; containsKey {
		id, ok := val.(int)

		if ok == false {
			return params, &IOError{msg: "Invalid id parameter (must be an int)", code: hzip.ERR_INVALID_PARAM}
		}

		params.id = id
	}

	return params, nil
}

// Writer a Writer that writes compressed data
// to an OutputBitStream.
type Writer struct {
	obs       hzip.OutputBitStream
	buffer    []byte
	closed    int32
	hash      uint64
	params    streamParams
	listeners []hzip.Listener
}

// NewWriter creates a new instance of Writer using a map of parameters
// (possibly nil) and a writer. The compressed data is written to 'os'
// when the Writer is closed.
func NewWriter(os io.Writer, ctx map[string]any) (*Writer, error) {
	if os == nil {
		return nil, &IOError{msg: "Invalid null writer parameter", code: hzip.ERR_INVALID_PARAM}
	}

	obs, err := bitstream.NewDefaultOutputBitStream(os, _STREAM_DEFAULT_BUFFER_SIZE)

	if err != nil {
		errMsg := fmt.Sprintf("Cannot create output bit stream: %v", err)
		return nil, &IOError{msg: errMsg, code: hzip.ERR_CREATE_BITSTREAM, err: err}
	}

	return NewWriterWithBitStream(obs, ctx)
}

// NewWriterWithBitStream creates a new instance of Writer using a map of
// parameters (possibly nil) and a custom output bitstream.
func NewWriterWithBitStream(obs hzip.OutputBitStream, ctx map[string]any) (*Writer, error) {
	if obs == nil {
		return nil, &IOError{msg: "Invalid null output bitstream parameter", code: hzip.ERR_INVALID_PARAM}
	}

	params, err := parseContext(ctx)

	if err != nil {
		return nil, err
	}

	this := &Writer{}
	this.obs = obs
	this.params = params
	this.buffer = make([]byte, 0, _INITIAL_BUFFER_SIZE)
	this.listeners = make([]hzip.Listener, 0)
	return this, nil
}

// AddListener adds an event listener to this writer.
// Returns true if the listener has been added.
func (this *Writer) AddListener(bl hzip.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener from this writer.
// Returns true if the listener has been removed.
func (this *Writer) RemoveListener(bl hzip.Listener) bool {
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

// Write buffers the provided data. Nothing reaches the underlying writer
// before Close.
func (this *Writer) Write(block []byte) (int, error) {
	if atomic.LoadInt32(&this.closed) == 1 {
		return 0, &IOError{msg: "Stream closed", code: hzip.ERR_WRITE_FILE}
	}

	this.buffer = append(this.buffer, block...)
	return len(block), nil
}

// Close encodes the buffered data, flushes the bitstream and releases
// resources. The underlying writer is not closed. Idempotent.
func (this *Writer) Close() error {
	if atomic.SwapInt32(&this.closed, 1) == 1 {
		return nil
	}

	id := this.params.id
	size := int64(len(this.buffer))

	if len(this.listeners) > 0 {
		evt := hzip.NewEvent(hzip.EVT_COMPRESSION_START, id, size, 0, hzip.EVT_HASH_NONE, time.Time{})
		notifyListeners(this.listeners, evt)
	}

	hash := uint64(0)
	hashType := hzip.EVT_HASH_NONE

	if this.params.checksum == true {
		hash = xxhash.Sum64(this.buffer)
		hashType = hzip.EVT_HASH_64BITS
		this.hash = hash
	}

	if len(this.listeners) > 0 {
		evt := hzip.NewEvent(hzip.EVT_BEFORE_ENTROPY, id, size, hash, hashType, time.Time{})
		notifyListeners(this.listeners, evt)
	}

	ec, err := entropy.NewHuffmanEncoder(this.obs)

	if err != nil {
		return &IOError{msg: err.Error(), code: hzip.ERR_CREATE_COMPRESSOR, err: err}
	}

	defer ec.Dispose()

	if _, err = ec.Write(this.buffer); err != nil {
		return newIOError(err, hzip.ERR_WRITE_FILE)
	}

	if err = this.obs.Close(); err != nil {
		return newIOError(err, hzip.ERR_WRITE_FILE)
	}

	if len(this.listeners) > 0 {
		header := int64(entropy.HeaderSize(ec.Tree()))
		evt := hzip.NewEvent(hzip.EVT_AFTER_HEADER, id, header, 0, hzip.EVT_HASH_NONE, time.Time{})
		notifyListeners(this.listeners, evt)
		evt = hzip.NewEvent(hzip.EVT_AFTER_ENTROPY, id, int64(this.GetWritten()), hash, hashType, time.Time{})
		notifyListeners(this.listeners, evt)
		evt = hzip.NewEvent(hzip.EVT_COMPRESSION_END, id, int64(this.GetWritten()), hash, hashType, time.Time{})
		notifyListeners(this.listeners, evt)
	}

	// Release resources
	this.buffer = make([]byte, 0)
	return nil
}

// Checksum returns the hash of the data written (0 before Close or if
// the checksum is disabled)
func (this *Writer) Checksum() uint64 {
	return this.hash
}

// GetWritten returns the number of bytes written so far
func (this *Writer) GetWritten() uint64 {
	return (this.obs.Written() + 7) >> 3
}

func notifyListeners(listeners []hzip.Listener, evt *hzip.Event) {
	defer func() {
		//nolint
		if r := recover(); r != nil {
			//lint:ignore SA9003
			// Ignore panics in listeners
		}
	}()

	for _, bl := range listeners {
		bl.ProcessEvent(evt)
	}
}

// Reader a Reader that reads compressed data
// from an InputBitStream.
type Reader struct {
	ibs         hzip.InputBitStream
	decoder     *entropy.HuffmanDecoder
	hasher      *xxhash.Digest
	closed      int32
	initialized int32
	ended       bool
	header      bool
	decoded     int64
	params      streamParams
	listeners   []hzip.Listener
}

// NewReader creates a new instance of Reader using a map of parameters
// (possibly nil) and a reader.
func NewReader(is io.Reader, ctx map[string]any) (*Reader, error) {
	if is == nil {
		return nil, &IOError{msg: "Invalid null reader parameter", code: hzip.ERR_INVALID_PARAM}
	}

	ibs, err := bitstream.NewDefaultInputBitStream(is, _STREAM_DEFAULT_BUFFER_SIZE)

	if err != nil {
		errMsg := fmt.Sprintf("Cannot create input bit stream: %v", err)
		return nil, &IOError{msg: errMsg, code: hzip.ERR_CREATE_BITSTREAM, err: err}
	}

	return NewReaderWithBitStream(ibs, ctx)
}

// NewReaderWithBitStream creates a new instance of Reader using a map of
// parameters (possibly nil) and a custom input bitstream.
func NewReaderWithBitStream(ibs hzip.InputBitStream, ctx map[string]any) (*Reader, error) {
	if ibs == nil {
		return nil, &IOError{msg: "Invalid null input bitstream parameter", code: hzip.ERR_INVALID_PARAM}
	}

	params, err := parseContext(ctx)

	if err != nil {
		return nil, err
	}

	this := &Reader{}
	this.ibs = ibs
	this.params = params

	if this.decoder, err = entropy.NewHuffmanDecoder(ibs); err != nil {
		return nil, &IOError{msg: err.Error(), code: hzip.ERR_CREATE_DECOMPRESSOR, err: err}
	}

	if params.checksum == true {
		this.hasher = xxhash.New()
	}

	this.listeners = make([]hzip.Listener, 0)
	return this, nil
}

// AddListener adds an event listener to this reader.
// Returns true if the listener has been added.
func (this *Reader) AddListener(bl hzip.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener from this reader.
// Returns true if the listener has been removed.
func (this *Reader) RemoveListener(bl hzip.Listener) bool {
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

// Read reads up to len(block) bytes and copies them into block.
// Returns the number of bytes read (0 <= n <= len(block)) and any error encountered.
// io.EOF is returned when the end of stream is reached.
func (this *Reader) Read(block []byte) (int, error) {
	if atomic.LoadInt32(&this.closed) == 1 {
		return 0, &IOError{msg: "Stream closed", code: hzip.ERR_READ_FILE}
	}

	if atomic.SwapInt32(&this.initialized, 1) == 0 && len(this.listeners) > 0 {
		evt := hzip.NewEvent(hzip.EVT_DECOMPRESSION_START, this.params.id, 0, 0, hzip.EVT_HASH_NONE, time.Time{})
		notifyListeners(this.listeners, evt)
	}

	n, err := this.decoder.Read(block)

	if n > 0 {
		this.decoded += int64(n)

		if this.hasher != nil {
			this.hasher.Write(block[:n])
		}
	}

	if this.header == false && this.decoder.Tree() != nil {
		this.header = true

		if len(this.listeners) > 0 {
			bits := int64(entropy.HeaderSize(this.decoder.Tree()))
			evt := hzip.NewEvent(hzip.EVT_AFTER_HEADER, this.params.id, bits, 0, hzip.EVT_HASH_NONE, time.Time{})
			notifyListeners(this.listeners, evt)
		}
	}

	if err == io.EOF {
		this.end()
		return n, io.EOF
	}

	if err != nil {
		return n, newIOError(err, hzip.ERR_READ_FILE)
	}

	return n, nil
}

func (this *Reader) end() {
	if this.ended == true {
		return
	}

	this.ended = true

	if len(this.listeners) == 0 {
		return
	}

	hash := uint64(0)
	hashType := hzip.EVT_HASH_NONE

	if this.hasher != nil {
		hash = this.hasher.Sum64()
		hashType = hzip.EVT_HASH_64BITS
	}

	evt := hzip.NewEvent(hzip.EVT_AFTER_ENTROPY, this.params.id, int64(this.GetRead()), hash, hashType, time.Time{})
	notifyListeners(this.listeners, evt)
	evt = hzip.NewEvent(hzip.EVT_DECOMPRESSION_END, this.params.id, this.decoded, hash, hashType, time.Time{})
	notifyListeners(this.listeners, evt)
}

// Checksum returns the hash of the data decoded so far (0 if the
// checksum is disabled)
func (this *Reader) Checksum() uint64 {
	if this.hasher == nil {
		return 0
	}

	return this.hasher.Sum64()
}

// Close makes the bitstream unavailable for further reads. Idempotent.
func (this *Reader) Close() error {
	if atomic.SwapInt32(&this.closed, 1) == 1 {
		return nil
	}

	this.decoder.Dispose()
	return this.ibs.Close()
}

// GetRead returns the number of bytes read so far
func (this *Reader) GetRead() uint64 {
	return (this.ibs.Read() + 7) >> 3
}

// Compress reads all the data from 'src' and writes its compressed form to
// 'dst'. Returns the number of bytes written to 'dst'.
func Compress(dst io.Writer, src io.Reader) (int64, error) {
	w, err := NewWriter(dst, nil)

	if err != nil {
		return 0, err
	}

	if _, err = io.Copy(w, src); err != nil {
		return 0, &IOError{msg: err.Error(), code: hzip.ERR_READ_FILE, err: err}
	}

	if err = w.Close(); err != nil {
		return int64(w.GetWritten()), err
	}

	return int64(w.GetWritten()), nil
}

// Decompress reads compressed data from 'src' and writes the decoded data
// to 'dst'. Returns the number of bytes written to 'dst'.
func Decompress(dst io.Writer, src io.Reader) (int64, error) {
	r, err := NewReader(src, nil)

	if err != nil {
		return 0, err
	}

	defer r.Close()
	return io.Copy(dst, r)
}
