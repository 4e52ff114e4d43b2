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

package entropy

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"os"
	"testing"

	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/bitstream"
	"github.com/flanglet/hzip-go/internal"
	"github.com/pkg/errors"
)

func TestHuffman(b *testing.T) {
	if err := testHuffmanCorrectness(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestHuffmanArtifacts(b *testing.T) {
	if err := testHuffmanArtifacts(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestHuffmanDeterminism(b *testing.T) {
	if err := testHuffmanDeterminism(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestHuffmanTruncation(b *testing.T) {
	if err := testHuffmanTruncation(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestHuffmanCorruptHeader(b *testing.T) {
	if err := testHuffmanCorruptHeader(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestHuffmanSingleUse(b *testing.T) {
	var buf bytes.Buffer
	obs, _ := bitstream.NewDefaultOutputBitStream(&buf, 1024)
	ec, _ := NewHuffmanEncoder(obs)

	if _, err := ec.Write([]byte("abc")); err != nil {
		b.Errorf(err.Error())
	}

	if _, err := ec.Write([]byte("abc")); err == nil {
		b.Errorf("A second write should fail")
	}
}

func encode(values []byte) ([]byte, error) {
	bs := internal.NewBufferStream()
	obs, _ := bitstream.NewDefaultOutputBitStream(bs, 16384)
	ec, err := NewHuffmanEncoder(obs)

	if err != nil {
		return nil, err
	}

	if _, err = ec.Write(values); err != nil {
		return nil, err
	}

	ec.Dispose()

	if err = obs.Close(); err != nil {
		return nil, err
	}

	return bs.Bytes(), nil
}

func decode(artifact []byte) ([]byte, error) {
	ibs, _ := bitstream.NewDefaultInputBitStream(bytes.NewReader(artifact), 16384)
	ed, err := NewHuffmanDecoder(ibs)

	if err != nil {
		return nil, err
	}

	defer ed.Dispose()
	return io.ReadAll(ed)
}

func testHuffmanCorrectness() error {
	fmt.Println()
	fmt.Printf("=== Testing HUFFMAN ===\n")
	r := rand.New(rand.NewSource(12345))

	for ii := 0; ii < 20; ii++ {
		fmt.Printf("\n\nTest %v", ii)
		var values []byte

		if ii == 0 {
			values = []byte{}
		} else if ii == 1 {
			values = make([]byte, 32)

			for i := range values {
				values[i] = byte(2) // all identical
			}
		} else if ii == 2 {
			values = []byte{0x3d, 0x4d, 0x54, 0x47, 0x5a, 0x36, 0x39, 0x26, 0x72, 0x6f, 0x6c, 0x65, 0x3d, 0x70, 0x72, 0x65}
		} else if ii == 3 {
			values = []byte{0, 0, 32, 15, -4 & 0xFF, 16, 0, 16, 0, 7, -1 & 0xFF, -4 & 0xFF, -32 & 0xFF, 0, 31, -1 & 0xFF}
		} else if ii == 4 {
			values = make([]byte, 100) // only NUL bytes
		} else if ii == 5 {
			values = make([]byte, 32)

			for i := range values {
				values[i] = byte(2 + (i & 1)) // 2 symbols
			}
		} else if ii == 6 {
			values = make([]byte, 1024)

			for i := range values {
				values[i] = byte(i) // all byte values
			}
		} else {
			values = make([]byte, 256*ii)

			for i := range values {
				values[i] = byte(64 + 4*ii + r.Intn(8*ii+1))
			}
		}

		fmt.Printf("\nEncoded: \n")
		bs := internal.NewBufferStream()
		obs, _ := bitstream.NewDefaultOutputBitStream(bs, 16384)
		dbgbs, _ := bitstream.NewDebugOutputBitStream(obs, os.Stdout)
		dbgbs.ShowByte(true)
		ec, err := NewHuffmanEncoder(dbgbs)

		if err != nil {
			return err
		}

		if _, err := ec.Write(values); err != nil {
			fmt.Printf("Error during encoding: %s", err)
			return err
		}

		ec.Dispose()
		dbgbs.Close()
		println()

		ibs, _ := bitstream.NewDefaultInputBitStream(bs, 16384)
		ed, err := NewHuffmanDecoder(ibs)

		if err != nil {
			return err
		}

		values2, err := io.ReadAll(ed)

		if err != nil {
			fmt.Printf("Error during decoding: %s", err)
			return err
		}

		ed.Dispose()

		if bytes.Equal(values, values2) == true {
			fmt.Printf("\nIdentical")
		} else {
			fmt.Printf("\n! *** Different *** !")
			return errors.New("Input and inverse are different")
		}

		if ibs.Read() > dbgbs.Written() {
			return fmt.Errorf("Decoder read %d bits, encoder wrote %d", ibs.Read(), dbgbs.Written())
		}

		ibs.Close()
		println()
	}

	return error(nil)
}

func testHuffmanArtifacts() error {
	tests := []struct {
		input    []byte
		expected []byte
	}{
		{[]byte{}, []byte{0x00, 0x60}},
		{[]byte("aab"), []byte{0x30, 0x98, 0x80, 0x1E, 0x58}},
		{[]byte{0}, []byte{0x00, 0x00, 0x1D}},
	}

	for _, t := range tests {
		res, err := encode(t.input)

		if err != nil {
			return err
		}

		if bytes.Equal(res, t.expected) == false {
			return fmt.Errorf("Encoding %q: expected %X, got %X", t.input, t.expected, res)
		}

		dec, err := decode(res)

		if err != nil {
			return err
		}

		if bytes.Equal(dec, t.input) == false {
			return fmt.Errorf("Decoding %X: expected %q, got %q", res, t.input, dec)
		}
	}

	// No data at all decodes to nothing
	dec, err := decode([]byte{})

	if err != nil {
		return err
	}

	if len(dec) != 0 {
		return fmt.Errorf("Empty artifact decoded to %d bytes", len(dec))
	}

	return nil
}

func testHuffmanDeterminism() error {
	r := rand.New(rand.NewSource(987))

	for ii := 0; ii < 10; ii++ {
		values := make([]byte, 500+r.Intn(5000))

		for i := range values {
			values[i] = byte(r.Intn(ii*25 + 1))
		}

		res1, err := encode(values)

		if err != nil {
			return err
		}

		res2, err := encode(bytes.Clone(values))

		if err != nil {
			return err
		}

		if bytes.Equal(res1, res2) == false {
			return fmt.Errorf("Test %d: two encodings of the same data differ", ii)
		}
	}

	return nil
}

func testHuffmanTruncation() error {
	r := rand.New(rand.NewSource(4242))
	inputs := [][]byte{{}, {0}, []byte("aab"), make([]byte, 300)}

	for i := range inputs[3] {
		inputs[3][i] = byte(r.Intn(40))
	}

	for _, input := range inputs {
		artifact, err := encode(input)

		if err != nil {
			return err
		}

		for k := 1; k < len(artifact); k++ {
			_, err := decode(artifact[:k])

			if errors.Is(err, hzip.ErrCorruptHeader) == false && errors.Is(err, hzip.ErrTruncatedPayload) == false {
				return fmt.Errorf("Truncation to %d/%d bytes: unexpected result %v", k, len(artifact), err)
			}
		}
	}

	return nil
}

func testHuffmanCorruptHeader() error {
	tests := []struct {
		artifact []byte
		expected error
	}{
		// merge marker on an empty stack
		{[]byte{0x80}, hzip.ErrCorruptHeader},
		// single leaf 'a' followed by the terminator
		{[]byte{0x30, 0xC0}, hzip.ErrCorruptHeader},
		// leaf 'a' twice
		{[]byte{0x30, 0x98, 0x40}, hzip.ErrInvalidSymbol},
	}

	for _, t := range tests {
		_, err := decode(t.artifact)

		if errors.Is(err, t.expected) == false {
			return fmt.Errorf("Decoding %X: expected %v, got %v", t.artifact, t.expected, err)
		}

		if hzip.ErrorCode(err) != hzip.ErrorCode(t.expected) {
			return fmt.Errorf("Decoding %X: wrong error code %d", t.artifact, hzip.ErrorCode(err))
		}
	}

	return nil
}
