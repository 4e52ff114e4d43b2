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

// Package hzip defines the top level types and interfaces used by the hzip
// Huffman compressor/decompressor.
//
// The implementations of these interfaces are available in sub-folders:
// bitstream contains the bit level readers and writers, entropy contains
// the Huffman codec and io contains the Writer and Reader used to compress
// and decompress byte streams.
package hzip

const (
	ERR_MISSING_PARAM       = 1
	ERR_INVALID_PARAM       = 2
	ERR_CREATE_COMPRESSOR   = 3
	ERR_CREATE_DECOMPRESSOR = 4
	ERR_OUTPUT_IS_DIR       = 5
	ERR_OVERWRITE_FILE      = 6
	ERR_CREATE_FILE         = 7
	ERR_CREATE_BITSTREAM    = 8
	ERR_OPEN_FILE           = 9
	ERR_READ_FILE           = 10
	ERR_WRITE_FILE          = 11
	ERR_END_OF_INPUT        = 12
	ERR_CORRUPT_HEADER      = 13
	ERR_TRUNCATED_PAYLOAD   = 14
	ERR_INVALID_SYMBOL      = 15
	ERR_CRC_CHECK           = 16
	ERR_UNKNOWN             = 127
)

// Symbol is a member of the coding alphabet: a byte value in [0..255]
// or END_SYMBOL.
type Symbol int

const (
	// END_SYMBOL marks the logical end of the decoded data. It is not a byte
	// value and appears exactly once in every encoded stream.
	END_SYMBOL Symbol = 256

	// ALPHABET_SIZE is the number of symbols (256 byte values + END_SYMBOL)
	ALPHABET_SIZE = 257
)

// IsByte returns true if the symbol is a literal byte value
func (this Symbol) IsByte() bool {
	return this >= 0 && this < END_SYMBOL
}

// InputBitStream is a bitstream reader. Bits are read MSB first.
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream.
	// Returns ErrEndOfInput if no bit remains.
	ReadBit() (int, error)

	// PeekBit returns the next bit in the bitstream without consuming it.
	PeekBit() (int, error)

	// UnreadBit pushes one bit back into the bitstream. The next read returns
	// it. At most one bit can be pushed back between two reads.
	UnreadBit(bit int) error

	// ReadBits reads 'count' (in [1..64]) bits from the bitstream.
	// Returns the bits read as an uint64.
	ReadBits(count uint) (uint64, error)

	// ReadByte reads the next 8 bits as a byte. Fails with ErrEndOfInput
	// if less than 8 bits remain.
	ReadByte() (byte, error)

	// AtEnd returns true when no more bit can be read
	AtEnd() (bool, error)

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// Read returns the number of bits read
	Read() uint64
}

// OutputBitStream is a bitstream writer. Bits are written MSB first.
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	WriteBit(bit int) error

	// WriteBits writes the least significant bits of 'value' to the bitstream.
	// Count is the number of bits to write (in [1..64]).
	WriteBits(value uint64, count uint) error

	// WriteByte writes 8 bits
	WriteByte(b byte) error

	// Flush pads the last partial byte with zero bits and writes it to the
	// underlying stream.
	Flush() error

	// Close flushes the bitstream and makes it unavailable for further writes.
	Close() error

	// Written returns the number of bits written
	Written() uint64
}

// EntropyEncoder entropy encodes data to a bitstream
type EntropyEncoder interface {
	// Write encodes the data provided into the bitstream. Return the number of bytes
	// read from the provided block.
	Write(block []byte) (int, error)

	// BitStream returns the underlying bitstream
	BitStream() OutputBitStream

	// Dispose must be called before getting rid of the entropy encoder
	// Trying to encode after a call to dispose gives undefined behavior
	Dispose()
}

// EntropyDecoder entropy decodes data from a bitstream
type EntropyDecoder interface {
	// Read decodes data from the bitstream and return it in the provided buffer.
	// Return the number of bytes decoded. Returns io.EOF once the end of the
	// encoded data has been reached.
	Read(block []byte) (int, error)

	// BitStream returns the underlying bitstream
	BitStream() InputBitStream

	// Dispose must be called before getting rid of the entropy decoder
	// Trying to decode after a call to dispose gives undefined behavior
	Dispose()
}
