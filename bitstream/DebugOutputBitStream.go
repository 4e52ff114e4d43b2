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

// DebugOutputBitStream is an implementation of OutputBitStream used for debugging.
type DebugOutputBitStream struct {
	delegate  hzip.OutputBitStream
	out       io.Writer
	mark      bool
	hexa      bool
	current   byte
	width     int
	lineIndex int
}

// NewDebugOutputBitStream creates a DebugOutputBitStream wrapped around 'obs'.
// All calls are delegated to the 'obs' OutputBitStream and written bits are logged
// to the provided io.Writer.
func NewDebugOutputBitStream(obs hzip.OutputBitStream, writer io.Writer) (*DebugOutputBitStream, error) {
	if obs == nil {
		return nil, errors.New("The delegate cannot be null")
	}

	if writer == nil {
		return nil, errors.New("The writer cannot be null")
	}

	this := &DebugOutputBitStream{}
	this.delegate = obs
	this.out = writer
	this.width = 80
	return this, nil
}

// WriteBit writes the least significant bit of the input integer.
// Calls WriteBit() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) WriteBit(bit int) error {
	if err := this.delegate.WriteBit(bit); err != nil {
		return err
	}

	this.trace(uint64(bit&1), 1)
	return nil
}

// WriteBits writes the least significant bits of 'bits' to the bitstream.
// Length is the number of bits to write (in [1..64]).
// Calls WriteBits() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) WriteBits(bits uint64, length uint) error {
	if err := this.delegate.WriteBits(bits, length); err != nil {
		return err
	}

	this.trace(bits, length)
	return nil
}

// WriteByte writes 8 bits
func (this *DebugOutputBitStream) WriteByte(b byte) error {
	return this.WriteBits(uint64(b), 8)
}

func (this *DebugOutputBitStream) trace(bits uint64, length uint) {
	for i := uint(1); i <= length; i++ {
		bit := (bits >> (length - i)) & 1
		this.current <<= 1
		this.current |= byte(bit)
		this.lineIndex++
		fmt.Fprintf(this.out, "%d", bit)

		if this.mark == true && i == length {
			fmt.Fprintf(this.out, "w")
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

func (this *DebugOutputBitStream) printByte(val byte) {
	fmt.Fprintf(this.out, " [%02X] ", val)
}

// Flush calls Flush() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) Flush() error {
	return this.delegate.Flush()
}

// Close makes the bitstream unavailable for further writes.
// Calls Close() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) Close() error {
	return this.delegate.Close()
}

// Written returns the number of bits written
// Calls Written() on the underlying bitstream delegate.
func (this *DebugOutputBitStream) Written() uint64 {
	return this.delegate.Written()
}

// Mark sets the internal mark state. When true, displays 'w'
// after each bit or bit sequence written to the bitstream delegate.
func (this *DebugOutputBitStream) Mark(mark bool) {
	this.mark = mark
}

// ShowByte sets the internal show byte state. When true, displays
// the hexadecimal value after the bits.
func (this *DebugOutputBitStream) ShowByte(show bool) {
	this.hexa = show
}

// SetWidth sets the number of bits displayed per line (values below 8 disable
// line breaks).
func (this *DebugOutputBitStream) SetWidth(width int) {
	this.width = width
}
