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
	"fmt"
	"io"

	hzip "github.com/flanglet/hzip-go"
	"github.com/pkg/errors"
)

// DebugInputBitStream is an implementation of InputBitStream used for debugging.
// Peeked bits are not traced, only consumed ones.
type DebugInputBitStream struct {
	delegate  hzip.InputBitStream
	out       io.Writer
	mark      bool
	hexa      bool
	current   byte
	width     int
	lineIndex int
}

// NewDebugInputBitStream creates a DebugInputBitStream wrapped around 'ibs'.
// All calls are delegated to the 'ibs' InputBitStream and read bits are logged
// to the provided io.Writer.
func NewDebugInputBitStream(ibs hzip.InputBitStream, writer io.Writer) (*DebugInputBitStream, error) {
	if ibs == nil {
		return nil, errors.New("The delegate cannot be null")
	}

	if writer == nil {
		return nil, errors.New("The writer cannot be null")
	}

	this := new(DebugInputBitStream)
	this.delegate = ibs
	this.out = writer
	this.width = 80
	return this, nil
}

// ReadBit returns the next bit in the bitstream.
// Calls ReadBit() on the underlying bitstream delegate.
func (this *DebugInputBitStream) ReadBit() (int, error) {
	res, err := this.delegate.ReadBit()

	if err != nil {
		return res, err
	}

	this.trace(uint64(res), 1)
	return res, nil
}

// PeekBit calls PeekBit() on the underlying bitstream delegate.
func (this *DebugInputBitStream) PeekBit() (int, error) {
	return this.delegate.PeekBit()
}

// UnreadBit pushes a bit back. The bit has already been traced and will
// be traced again when read.
func (this *DebugInputBitStream) UnreadBit(bit int) error {
	return this.delegate.UnreadBit(bit)
}

// ReadBits reads 'length' (in [1..64]) bits from the bitstream.
// Calls ReadBits() on the underlying bitstream delegate.
func (this *DebugInputBitStream) ReadBits(length uint) (uint64, error) {
	res, err := this.delegate.ReadBits(length)

	if err != nil {
		return res, err
	}

	this.trace(res, length)
	return res, nil
}

// ReadByte reads the next 8 bits
func (this *DebugInputBitStream) ReadByte() (byte, error) {
	res, err := this.ReadBits(8)
	return byte(res), err
}

func (this *DebugInputBitStream) trace(bits uint64, length uint) {
	for i := uint(1); i <= length; i++ {
		bit := (bits >> (length - i)) & 1
		this.current <<= 1
		this.current |= byte(bit)
		this.lineIndex++

		if bit == 1 {
			fmt.Fprintf(this.out, "1")
		} else {
			fmt.Fprintf(this.out, "0")
		}

		if this.mark == true && i == length {
			fmt.Fprintf(this.out, "r")
		}

		if this.width > 7 && this.lineIndex%this.width == 0 {
			if this.hexa == true {
				this.printByte(this.current)
			}

			fmt.Fprintf(this.out, "\n")
			this.lineIndex = 0
		} else if this.lineIndex&7 == 0 {
			if this.hexa == true {
				this.printByte(this.current)
			} else {
				fmt.Fprintf(this.out, " ")
			}
		}
	}
}

func (this *DebugInputBitStream) printByte(val byte) {
	fmt.Fprintf(this.out, " [%02X] ", val)
}

// AtEnd calls AtEnd() on the underlying bitstream delegate.
func (this *DebugInputBitStream) AtEnd() (bool, error) {
	return this.delegate.AtEnd()
}

// Close makes the bitstream unavailable for further reads.
// Calls Close() on the underlying bitstream delegate.
func (this *DebugInputBitStream) Close() error {
	return this.delegate.Close()
}

// Read returns the number of bits read
// Calls Read() on the underlying bitstream delegate.
func (this *DebugInputBitStream) Read() uint64 {
	return this.delegate.Read()
}

// Mark sets the internal mark state. When true, displays 'r'
// after each bit or bit sequence read from the bitstream delegate.
func (this *DebugInputBitStream) Mark(mark bool) {
	this.mark = mark
}

// ShowByte sets the internal show byte state. When true, displays
// the hexadecimal value after the bits.
func (this *DebugInputBitStream) ShowByte(show bool) {
	this.hexa = show
}

// SetWidth sets the number of bits displayed per line (values below 8 disable
// line breaks).
func (this *DebugInputBitStream) SetWidth(width int) {
	this.width = width
}
