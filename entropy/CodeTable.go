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
	"sort"
	"strings"

	hzip "github.com/flanglet/hzip-go"
)

// Codeword is the path from the root to a leaf: 0 for left, 1 for right
type Codeword []byte

// String returns the codeword as a string of '0' and '1'
func (this Codeword) String() string {
	var sb strings.Builder
	sb.Grow(len(this))

	for _, b := range this {
		sb.WriteByte('0' + b)
	}

	return sb.String()
}

// Pack returns the codeword as the low bits of an uint64 (MSB first).
// Returns false if the codeword is longer than 64 bits.
func (this Codeword) Pack() (uint64, bool) {
	if len(this) > 64 {
		return 0, false
	}

	val := uint64(0)

	for _, b := range this {
		val = (val << 1) | uint64(b)
	}

	return val, true
}

// CodeTable maps each symbol to its codeword (nil for absent symbols)
type CodeTable [hzip.ALPHABET_SIZE]Codeword

// DeriveCodes walks the tree depth first and assigns each leaf the path
// leading to it. A tree made of a single leaf gives an empty codeword.
func DeriveCodes(root *Node) CodeTable {
	var codes CodeTable

	if root == nil {
		return codes
	}

	type item struct {
		node   *Node
		prefix Codeword
	}

	stack := []item{{node: root, prefix: Codeword{}}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.node.IsLeaf() {
			codes[it.node.symbol] = it.prefix
			continue
		}

		left := make(Codeword, len(it.prefix)+1)
		copy(left, it.prefix)
		right := make(Codeword, len(it.prefix)+1)
		copy(right, it.prefix)
		right[len(it.prefix)] = 1
		stack = append(stack, item{it.node.right, right}, item{it.node.left, left})
	}

	return codes
}

// Leaves returns the leaves of the tree sorted with the provided comparator
func Leaves(root *Node, cmp Comparator) []*Node {
	res := make([]*Node, 0, hzip.ALPHABET_SIZE)

	if root == nil {
		return res
	}

	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsLeaf() {
			res = append(res, n)
		} else {
			stack = append(stack, n.right, n.left)
		}
	}

	sort.Slice(res, func(i, j int) bool { return cmp(res[i], res[j]) < 0 })
	return res
}
