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
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"testing"

	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/internal"
	"github.com/pkg/errors"
)

const (
	_SUCCESS = "Success"
	_FAILURE = "Failure"
	_READ    = "Read: "
)

func TestBitStreamAligned(b *testing.T) {
	if err := testCorrectnessAligned(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestBitStreamMisaligned(b *testing.T) {
	if err := testCorrectnessMisaligned(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestBitStreamPeek(b *testing.T) {
	if err := testPeekUnread(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestBitStreamEndOfInput(b *testing.T) {
	if err := testEndOfInput(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestBitStreamPadding(b *testing.T) {
	if err := testPadding(); err != nil {
		b.Errorf(err.Error())
	}
}

func testCorrectnessAligned() error {
	fmt.Printf("Correctness Test - write long - byte aligned\n")
	values := make([]int, 100)

	// Check correctness of Read() and Written()
	for t := 1; t <= 32; t++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)
		obs.WriteBits(0x0123456789ABCDEF, uint(t))
		obs.Close()

		if obs.Written() != uint64((t+7)&-8) {
			return fmt.Errorf("Invalid number of bits written: %v", obs.Written())
		}

		ibs, _ := NewDefaultInputBitStream(bs, 16384)

		if _, err := ibs.ReadBits(uint(t)); err != nil {
			return err
		}

		if ibs.Read() != uint64(t) {
			return errors.New("Invalid number of bits read")
		}

		ibs.Close()
	}

	for test := 1; test <= 10; test++ {
		bs := internal.NewBufferStream(make([]byte, 0, 16384))
		obs, _ := NewDefaultOutputBitStream(bs, 16384)
		dbgobs, _ := NewDebugOutputBitStream(obs, os.Stdout)
		dbgobs.ShowByte(true)
		dbgobs.Mark(true)

		for i := range values {
			if test < 5 {
				values[i] = rand.Intn(test*1000 + 100)
			} else {
				values[i] = rand.Intn(1 << 31)
			}
		}

		for i := range values {
			if err := dbgobs.WriteBits(uint64(values[i]), 32); err != nil {
				return err
			}
		}

		// Close first to force flush
		dbgobs.Close()
		println()

		ibs, _ := NewDefaultInputBitStream(bs, 16384)
		dbgibs, _ := NewDebugInputBitStream(ibs, os.Stdout)
		dbgibs.ShowByte(true)
		dbgibs.Mark(true)
		fmt.Println(_READ)
		ok := true

		for i := range values {
			x, err := dbgibs.ReadBits(32)

			if err != nil {
				return err
			}

			if int(x) != values[i] {
				ok = false
			}
		}

		dbgibs.Close()
		println()
		fmt.Printf("Bits written: %v\n", dbgobs.Written())
		fmt.Printf("Bits read: %v\n", dbgibs.Read())

		if ok {
			fmt.Println(_SUCCESS)
		} else {
			fmt.Println(_FAILURE)
			return fmt.Errorf("Bits written: %v, bits read: %v", dbgobs.Written(), dbgibs.Read())
		}
	}

	return error(nil)
}

func testCorrectnessMisaligned() error {
	fmt.Printf("Correctness Test - write long - not byte aligned\n")
	values := make([]int, 100)

	for test := 1; test <= 10; test++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)

		for i := range values {
			if test < 5 {
				values[i] = rand.Intn(test*1000 + 100)
			} else {
				values[i] = rand.Intn(1 << 31)
			}

			mask := (1 << (1 + uint(i%30))) - 1
			values[i] &= mask

			if err := obs.WriteBits(uint64(values[i]), 1+uint(i%30)); err != nil {
				return err
			}
		}

		obs.Close()
		ibs, _ := NewDefaultInputBitStream(bs, 16384)

		for i := range values {
			x, err := ibs.ReadBits(1 + uint(i%30))

			if err != nil {
				return err
			}

			if int(x) != values[i] {
				fmt.Println(_FAILURE)
				return fmt.Errorf("Value #%d: expected %v, got %v", i, values[i], x)
			}
		}

		ibs.Close()
		fmt.Println(_SUCCESS)
	}

	return error(nil)
}

func testPeekUnread() error {
	fmt.Printf("Correctness Test - peek and unread\n")
	ibs, _ := NewDefaultInputBitStream(bytes.NewReader([]byte{0xA5}), 1024)

	for i := 0; i < 3; i++ {
		bit, err := ibs.PeekBit()

		if err != nil {
			return err
		}

		if bit != 1 {
			return fmt.Errorf("Peek #%d: expected 1, got %d", i, bit)
		}
	}

	if ibs.Read() != 0 {
		return fmt.Errorf("Peeking consumed bits: %d", ibs.Read())
	}

	bit, _ := ibs.ReadBit()

	if err := ibs.UnreadBit(bit); err != nil {
		return err
	}

	if err := ibs.UnreadBit(bit); err == nil {
		return errors.New("Second pushback should have failed")
	}

	// 1 (pushed back) + 7 remaining bits
	val, err := ibs.ReadBits(8)

	if err != nil {
		return err
	}

	if val != 0xA5 {
		return fmt.Errorf("Expected 0xA5, got 0x%02X", val)
	}

	end, err := ibs.AtEnd()

	if err != nil {
		return err
	}

	if end == false {
		return errors.New("Bitstream should be at end")
	}

	return nil
}

func testEndOfInput() error {
	fmt.Printf("Correctness Test - end of input\n")
	ibs, _ := NewDefaultInputBitStream(bytes.NewReader([]byte{0xFF, 0x00}), 1024)

	if _, err := ibs.ReadBits(12); err != nil {
		return err
	}

	if _, err := ibs.ReadByte(); errors.Is(err, hzip.ErrEndOfInput) == false {
		return fmt.Errorf("Expected end of input, got %v", err)
	}

	empty, _ := NewDefaultInputBitStream(bytes.NewReader([]byte{}), 1024)

	if end, _ := empty.AtEnd(); end == false {
		return errors.New("Empty bitstream should be at end")
	}

	if _, err := empty.ReadBit(); errors.Is(err, hzip.ErrEndOfInput) == false {
		return fmt.Errorf("Expected end of input, got %v", err)
	}

	return nil
}

func testPadding() error {
	fmt.Printf("Correctness Test - MSB first and zero padding\n")
	var buf bytes.Buffer
	obs, _ := NewDefaultOutputBitStream(&buf, 1024)
	obs.WriteBit(1)
	obs.WriteBit(0)
	obs.WriteBits(0x5, 3)

	if buf.Len() != 0 {
		return errors.New("Bits reached the stream before flush")
	}

	if err := obs.Close(); err != nil {
		return err
	}

	if bytes.Equal(buf.Bytes(), []byte{0xA8}) == false {
		return fmt.Errorf("Expected [A8], got %X", buf.Bytes())
	}

	if obs.Written() != 8 {
		return fmt.Errorf("Expected 8 bits written, got %d", obs.Written())
	}

	if err := obs.WriteBit(1); err == nil {
		return errors.New("Writing to a closed bitstream should fail")
	}

	return nil
}
