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

	hzip "github.com/flanglet/hzip-go"
	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// DefaultInputBitStream is the default implementation of InputBitStream
type DefaultInputBitStream struct {
	closed  bool
	reader  *bitio.CountReader
	pending int // pushed back bit or -1
}

// NewDefaultInputBitStream creates a bitstream for reading, using the provided stream as
// the underlying I/O object.
func NewDefaultInputBitStream(stream io.Reader, bufferSize uint) (*DefaultInputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null input stream parameter")
	}

	if bufferSize < 1024 {
		return nil, errors.New("Invalid buffer size parameter (must be at least 1024 bytes)")
	}

	if bufferSize > 1<<29 {
		return nil, errors.New("Invalid buffer size parameter (must be at most 536870912 bytes)")
	}

	this := new(DefaultInputBitStream)
	this.reader = bitio.NewCountReader(bufio.NewReaderSize(stream, int(bufferSize)))
	this.pending = -1
	return this, nil
}

// ReadBit returns the next bit
func (this *DefaultInputBitStream) ReadBit() (int, error) {
	if this.closed {
		return 0, errors.New("Stream closed")
	}

	if this.pending >= 0 {
		bit := this.pending
		this.pending = -1
		return bit, nil
	}

	b, err := this.reader.ReadBool()

	if err != nil {
		return 0, readError(err)
	}

	if b {
		return 1, nil
	}

	return 0, nil
}

// PeekBit returns the next bit without consuming it
func (this *DefaultInputBitStream) PeekBit() (int, error) {
	bit, err := this.ReadBit()

	if err != nil {
		return 0, err
	}

	this.pending = bit
	return bit, nil
}

// UnreadBit pushes 'bit' back into the bitstream. Only one bit can be pending.
func (this *DefaultInputBitStream) UnreadBit(bit int) error {
	if this.closed {
		return errors.New("Stream closed")
	}

	if bit != 0 && bit != 1 {
		return fmt.Errorf("Invalid bit value: %d (must be 0 or 1)", bit)
	}

	if this.pending >= 0 {
		return errors.New("Cannot push back more than one bit")
	}

	this.pending = bit
	return nil
}

// ReadBits reads 'count' bits from the stream and returns them as an uint64.
// Fails if the count is outside of the [1..64] range or the stream is closed.
func (this *DefaultInputBitStream) ReadBits(count uint) (uint64, error) {
	if count == 0 || count > 64 {
		return 0, fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count)
	}

	if this.closed {
		return 0, errors.New("Stream closed")
	}

	var res uint64

	if this.pending >= 0 {
		res = uint64(this.pending)
		this.pending = -1
		count--

		if count == 0 {
			return res, nil
		}
	}

	bits, err := this.reader.ReadBits(uint8(count))

	if err != nil {
		return 0, readError(err)
	}

	return (res << count) | bits, nil
}

// ReadByte reads the next 8 bits
func (this *DefaultInputBitStream) ReadByte() (byte, error) {
	val, err := this.ReadBits(8)
	return byte(val), err
}

// AtEnd returns true when no more bit can be read
func (this *DefaultInputBitStream) AtEnd() (bool, error) {
	if this.closed {
		return true, errors.New("Stream closed")
	}

	if this.pending >= 0 {
		return false, nil
	}

	if _, err := this.PeekBit(); err != nil {
		if errors.Is(err, hzip.ErrEndOfInput) {
			return true, nil
		}

		return false, err
	}

	return false, nil
}

// Close makes the bitstream unavailable for further reads.
// The underlying stream is not closed.
func (this *DefaultInputBitStream) Close() error {
	this.closed = true
	this.pending = -1
	return nil
}

// Read returns the number of bits read
func (this *DefaultInputBitStream) Read() uint64 {
	n := uint64(this.reader.BitsCount)

	if this.pending >= 0 {
		n--
	}

	return n
}

// Closed says whether this stream can be read from
func (this *DefaultInputBitStream) Closed() bool {
	return this.closed
}

func readError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return hzip.ErrEndOfInput
	}

	return errors.Wrap(err, "Cannot read from bitstream")
}
