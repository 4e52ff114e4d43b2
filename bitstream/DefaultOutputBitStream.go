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

package bitstream

import (
	"bufio"
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// DefaultOutputBitStream is the default implementation of OutputBitStream
type DefaultOutputBitStream struct {
	closed bool
	buffer *bufio.Writer
	writer *bitio.CountWriter
}

// NewDefaultOutputBitStream creates a bitstream for writing, using the provided stream as
// the underlying I/O object.
func NewDefaultOutputBitStream(stream io.Writer, bufferSize uint) (*DefaultOutputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null output stream parameter")
	}

	if bufferSize < 1024 {
		return nil, errors.New("Invalid buffer size parameter (must be at least 1024 bytes)")
	}

	if bufferSize > 1<<29 {
		return nil, errors.New("Invalid buffer size parameter (must be at most 536870912 bytes)")
	}

	this := new(DefaultOutputBitStream)
	this.buffer = bufio.NewWriterSize(stream, int(bufferSize))
	this.writer = bitio.NewCountWriter(this.buffer)
	return this, nil
}

// WriteBit writes the least significant bit of the input integer
func (this *DefaultOutputBitStream) WriteBit(bit int) error {
	if this.closed {
		return errors.New("Stream closed")
	}

	if err := this.writer.WriteBool(bit&1 == 1); err != nil {
		return errors.Wrap(err, "Cannot write to bitstream")
	}

	return nil
}

// WriteBits writes the least significant bits of 'value' to the bitstream.
// Count is the number of bits to write (in [1..64]).
func (this *DefaultOutputBitStream) WriteBits(value uint64, count uint) error {
	if count == 0 || count > 64 {
		return fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count)
	}

	if this.closed {
		return errors.New("Stream closed")
	}

	if err := this.writer.WriteBits(value, uint8(count)); err != nil {
		return errors.Wrap(err, "Cannot write to bitstream")
	}

	return nil
}

// WriteByte writes 8 bits
func (this *DefaultOutputBitStream) WriteByte(b byte) error {
	return this.WriteBits(uint64(b), 8)
}

// Flush pads the current byte with zero bits and pushes all pending
// bytes to the underlying stream.
func (this *DefaultOutputBitStream) Flush() error {
	if this.closed {
		return errors.New("Stream closed")
	}

	if _, err := this.writer.Align(); err != nil {
		return errors.Wrap(err, "Cannot write to bitstream")
	}

	if err := this.buffer.Flush(); err != nil {
		return errors.Wrap(err, "Cannot write to bitstream")
	}

	return nil
}

// Close flushes the bitstream and makes it unavailable for further writes.
// The underlying stream is not closed.
func (this *DefaultOutputBitStream) Close() error {
	if this.closed {
		return nil
	}

	err := this.Flush()
	this.closed = true
	return err
}

// Written returns the number of bits written
func (this *DefaultOutputBitStream) Written() uint64 {
	return uint64(this.writer.BitsCount)
}

// Closed says whether this stream can be written to
func (this *DefaultOutputBitStream) Closed() bool {
	return this.closed
}
