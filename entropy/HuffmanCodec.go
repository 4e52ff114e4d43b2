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
	"io"

	hzip "github.com/flanglet/hzip-go"
	"github.com/pkg/errors"
)

const (
	_HUF_STATE_HEADER  = 0 // Tree not read yet
	_HUF_STATE_PAYLOAD = 1 // Decoding codewords
	_HUF_STATE_DONE    = 2 // END decoded or empty input
)

// HuffmanEncoder is a static Huffman encoder. The whole block is scanned
// once to count symbols, then the tree is written to the bitstream followed
// by the codewords of the block and the codeword of the END symbol.
// An encoder produces exactly one artifact.
type HuffmanEncoder struct {
	bitstream hzip.OutputBitStream
	root      *Node
	codes     CodeTable
	packed    [hzip.ALPHABET_SIZE]uint64
	written   bool
}

// NewHuffmanEncoder creates an instance of HuffmanEncoder writing to 'bs'
func NewHuffmanEncoder(bs hzip.OutputBitStream) (*HuffmanEncoder, error) {
	if bs == nil {
		return nil, errors.New("Huffman codec: Invalid null bitstream parameter")
	}

	this := &HuffmanEncoder{}
	this.bitstream = bs
	return this, nil
}

// Write encodes the block (header, payload, END codeword) and flushes the
// bitstream. Returns the number of bytes encoded.
func (this *HuffmanEncoder) Write(block []byte) (int, error) {
	if this.written == true {
		return 0, errors.New("Huffman codec: the encoder has already been used")
	}

	this.written = true
	root, err := BuildTree(ComputeFrequencies(block))

	if err != nil {
		return 0, err
	}

	this.root = root
	this.codes = DeriveCodes(root)

	for s := range this.codes {
		if this.codes[s] != nil {
			this.packed[s], _ = this.codes[s].Pack()
		}
	}

	if err = WriteTree(this.bitstream, root); err != nil {
		return 0, errors.Wrap(err, "Huffman codec: cannot write header")
	}

	for i := range block {
		if err = this.writeCode(hzip.Symbol(block[i])); err != nil {
			return i, err
		}
	}

	if err = this.writeCode(hzip.END_SYMBOL); err != nil {
		return len(block), err
	}

	return len(block), this.bitstream.Flush()
}

func (this *HuffmanEncoder) writeCode(s hzip.Symbol) error {
	code := this.codes[s]

	switch {
	case len(code) == 0:
		return nil

	case len(code) <= 64:
		return this.bitstream.WriteBits(this.packed[s], uint(len(code)))

	default:
		for _, b := range code {
			if err := this.bitstream.WriteBit(int(b)); err != nil {
				return err
			}
		}

		return nil
	}
}

// Tree returns the tree built by the last call to Write (nil before)
func (this *HuffmanEncoder) Tree() *Node {
	return this.root
}

// BitStream returns the underlying bitstream
func (this *HuffmanEncoder) BitStream() hzip.OutputBitStream {
	return this.bitstream
}

// Dispose this implementation does nothing
func (this *HuffmanEncoder) Dispose() {
}

// HuffmanDecoder decodes data produced by HuffmanEncoder. It moves from the
// header state (tree not read) to the payload state and stops for good once
// the END symbol has been decoded or an error occurred.
type HuffmanDecoder struct {
	bitstream hzip.InputBitStream
	root      *Node
	state     int
	err       error
}

// NewHuffmanDecoder creates an instance of HuffmanDecoder reading from 'bs'
func NewHuffmanDecoder(bs hzip.InputBitStream) (*HuffmanDecoder, error) {
	if bs == nil {
		return nil, errors.New("Huffman codec: Invalid null bitstream parameter")
	}

	this := &HuffmanDecoder{}
	this.bitstream = bs
	this.state = _HUF_STATE_HEADER
	return this, nil
}

// Read decodes bytes into the provided block. Returns io.EOF once the END
// symbol has been decoded. An empty bitstream decodes to no data.
// Bytes decoded before an error are returned along with it.
func (this *HuffmanDecoder) Read(block []byte) (int, error) {
	if this.err != nil {
		return 0, this.err
	}

	if this.state == _HUF_STATE_DONE {
		return 0, io.EOF
	}

	if len(block) == 0 {
		return 0, nil
	}

	if this.state == _HUF_STATE_HEADER {
		if err := this.readHeader(); err != nil {
			return 0, this.fail(err)
		}

		if this.state == _HUF_STATE_DONE {
			return 0, io.EOF
		}
	}

	n := 0

	for n < len(block) {
		node := this.root

		for node.IsLeaf() == false {
			bit, err := this.bitstream.ReadBit()

			if err != nil {
				if errors.Is(err, hzip.ErrEndOfInput) {
					err = errors.Wrapf(hzip.ErrTruncatedPayload, "input ended after %d bits", this.bitstream.Read())
				}

				return n, this.fail(err)
			}

			if bit == 0 {
				node = node.left
			} else {
				node = node.right
			}
		}

		if node.symbol == hzip.END_SYMBOL {
			this.state = _HUF_STATE_DONE
			return n, io.EOF
		}

		block[n] = byte(node.symbol)
		n++
	}

	return n, nil
}

func (this *HuffmanDecoder) readHeader() error {
	end, err := this.bitstream.AtEnd()

	if err != nil {
		return err
	}

	if end == true {
		this.state = _HUF_STATE_DONE
		return nil
	}

	root, err := ReadTree(this.bitstream)

	if err != nil {
		return err
	}

	this.root = root

	if root.IsLeaf() {
		// Only END can stand alone
		if root.symbol != hzip.END_SYMBOL {
			return errors.Wrapf(hzip.ErrCorruptHeader, "single leaf tree with symbol %d", root.symbol)
		}

		this.state = _HUF_STATE_DONE
		return nil
	}

	this.state = _HUF_STATE_PAYLOAD
	return nil
}

func (this *HuffmanDecoder) fail(err error) error {
	this.err = err
	this.state = _HUF_STATE_DONE
	return err
}

// Tree returns the tree read from the header (nil before the first Read)
func (this *HuffmanDecoder) Tree() *Node {
	return this.root
}

// BitStream returns the underlying bitstream
func (this *HuffmanDecoder) BitStream() hzip.InputBitStream {
	return this.bitstream
}

// Dispose this implementation does nothing
func (this *HuffmanDecoder) Dispose() {
}
