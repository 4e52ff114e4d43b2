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
	"slices"
	"sort"

	hzip "github.com/flanglet/hzip-go"
	"github.com/pkg/errors"
)

// Node is a node of a Huffman tree: either a leaf holding a symbol or an
// internal node with exactly two children. Nodes are immutable.
type Node struct {
	symbol hzip.Symbol
	key    hzip.Symbol
	weight uint64
	left   *Node
	right  *Node
}

// NewLeaf creates a leaf node for 'symbol' with the given weight
func NewLeaf(symbol hzip.Symbol, weight uint64) *Node {
	return &Node{symbol: symbol, key: symbol, weight: weight}
}

// NewInternal creates an internal node. Its weight is the sum of the weights
// of the children and its key the smallest key of the children.
func NewInternal(left, right *Node) *Node {
	key := left.key

	if right.key < key {
		key = right.key
	}

	return &Node{symbol: -1, key: key, weight: left.weight + right.weight,
		left: left, right: right}
}

// IsLeaf returns true if the node has no children
func (this *Node) IsLeaf() bool {
	return this.left == nil
}

// Symbol returns the symbol of a leaf (-1 for an internal node)
func (this *Node) Symbol() hzip.Symbol {
	return this.symbol
}

// Key returns the tie-break key of the node
func (this *Node) Key() hzip.Symbol {
	return this.key
}

// Weight returns the weight of the node
func (this *Node) Weight() uint64 {
	return this.weight
}

// Left returns the left child (nil for a leaf)
func (this *Node) Left() *Node {
	return this.left
}

// Right returns the right child (nil for a leaf)
func (this *Node) Right() *Node {
	return this.right
}

// Comparator orders two nodes: negative if a comes first, positive if b
// comes first, 0 if they are equivalent.
type Comparator func(a, b *Node) int

// ByWeight orders by ascending weight, then ascending key
func ByWeight(a, b *Node) int {
	if a.weight != b.weight {
		if a.weight < b.weight {
			return -1
		}

		return 1
	}

	return int(a.key) - int(b.key)
}

// BySymbol orders by ascending key
func BySymbol(a, b *Node) int {
	return int(a.key) - int(b.key)
}

// nodeQueue keeps nodes sorted according to a comparator. The minimum is
// removed first.
type nodeQueue struct {
	nodes []*Node
	cmp   Comparator
}

func newNodeQueue(cmp Comparator, capacity int) *nodeQueue {
	return &nodeQueue{nodes: make([]*Node, 0, capacity), cmp: cmp}
}

func (this *nodeQueue) push(n *Node) {
	idx := sort.Search(len(this.nodes), func(i int) bool {
		return this.cmp(this.nodes[i], n) > 0
	})

	this.nodes = slices.Insert(this.nodes, idx, n)
}

func (this *nodeQueue) pop() *Node {
	n := this.nodes[0]
	this.nodes = this.nodes[1:]
	return n
}

func (this *nodeQueue) len() int {
	return len(this.nodes)
}

// BuildTree builds the Huffman tree of the symbols with a non zero count.
// The two smallest nodes (by weight then key) are merged until one node
// remains. Identical tables always give identical trees.
func BuildTree(freqs FrequencyTable) (*Node, error) {
	queue := newNodeQueue(ByWeight, hzip.ALPHABET_SIZE)

	for s := range freqs {
		if freqs[s] > 0 {
			queue.push(NewLeaf(hzip.Symbol(s), freqs[s]))
		}
	}

	if queue.len() == 0 {
		return nil, errors.New("Huffman codec: cannot build a tree from an empty frequency table")
	}

	for queue.len() > 1 {
		a := queue.pop()
		b := queue.pop()
		queue.push(NewInternal(a, b))
	}

	return queue.pop(), nil
}
