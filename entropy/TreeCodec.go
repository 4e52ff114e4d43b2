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
	hzip "github.com/flanglet/hzip-go"
	"github.com/pkg/errors"
)

// Serialized tree layout (postorder, MSB first):
//   internal node: 1
//   leaf:          0 + 8 bits symbol value
//                  0 + 8 zero bits + 0 for byte 0
//                  0 + 8 zero bits + 1 for END
// followed by a single 1 bit closing the header.

// WriteTree serializes the tree in postorder followed by the header terminator
func WriteTree(obs hzip.OutputBitStream, root *Node) error {
	if obs == nil {
		return errors.New("Huffman codec: Invalid null bitstream parameter")
	}

	if root == nil {
		return errors.New("Huffman codec: Invalid null tree parameter")
	}

	if err := writeNode(obs, root); err != nil {
		return err
	}

	return obs.WriteBit(1)
}

func writeNode(obs hzip.OutputBitStream, n *Node) error {
	if n.IsLeaf() == false {
		if err := writeNode(obs, n.left); err != nil {
			return err
		}

		if err := writeNode(obs, n.right); err != nil {
			return err
		}

		return obs.WriteBit(1)
	}

	if n.symbol == 0 || n.symbol == hzip.END_SYMBOL {
		// 0 + 00000000 + disambiguation bit
		if err := obs.WriteBits(0, 9); err != nil {
			return err
		}

		if n.symbol == hzip.END_SYMBOL {
			return obs.WriteBit(1)
		}

		return obs.WriteBit(0)
	}

	return obs.WriteBits(uint64(n.symbol), 9)
}

// ReadTree rebuilds a tree written by WriteTree. On success, the bitstream
// is positioned on the first bit following the header terminator.
func ReadTree(ibs hzip.InputBitStream) (*Node, error) {
	if ibs == nil {
		return nil, errors.New("Huffman codec: Invalid null bitstream parameter")
	}

	var seen [hzip.ALPHABET_SIZE]bool
	stack := make([]*Node, 0, 64)

	for {
		marker, err := ibs.ReadBit()

		if err != nil {
			return nil, headerError(err, len(stack))
		}

		if marker == 1 {
			if len(stack) == 1 {
				if seen[hzip.END_SYMBOL] == false {
					return nil, errors.Wrap(hzip.ErrCorruptHeader, "no END symbol in tree")
				}

				return stack[0], nil
			}

			if len(stack) == 0 {
				return nil, errors.Wrap(hzip.ErrCorruptHeader, "merge marker on empty stack")
			}

			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, NewInternal(left, right))
			continue
		}

		val, err := ibs.ReadBits(8)

		if err != nil {
			return nil, headerError(err, len(stack))
		}

		symbol := hzip.Symbol(val)

		if val == 0 {
			bit, err := ibs.ReadBit()

			if err != nil {
				return nil, headerError(err, len(stack))
			}

			if bit == 1 {
				symbol = hzip.END_SYMBOL
			}
		}

		if seen[symbol] == true {
			return nil, errors.Wrapf(hzip.ErrInvalidSymbol, "symbol %d appears twice in tree", symbol)
		}

		seen[symbol] = true
		stack = append(stack, NewLeaf(symbol, 0))
	}
}

func headerError(err error, depth int) error {
	if errors.Is(err, hzip.ErrEndOfInput) {
		return errors.Wrapf(hzip.ErrCorruptHeader, "header ended with %d node(s) on the stack", depth)
	}

	return err
}

// HeaderSize returns the size in bits of the serialized tree (terminator included)
func HeaderSize(root *Node) uint {
	if root == nil {
		return 0
	}

	return nodeSize(root) + 1
}

func nodeSize(n *Node) uint {
	if n.IsLeaf() == false {
		return nodeSize(n.left) + nodeSize(n.right) + 1
	}

	if n.symbol == 0 || n.symbol == hzip.END_SYMBOL {
		return 10
	}

	return 9
}
