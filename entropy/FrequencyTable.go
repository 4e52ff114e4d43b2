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
)

// FrequencyTable holds the number of occurrences of each symbol of the
// alphabet in one block of data.
type FrequencyTable [hzip.ALPHABET_SIZE]uint64

// ComputeFrequencies counts the byte values of the block in a single pass.
// The END symbol always gets a count of 1.
func ComputeFrequencies(block []byte) FrequencyTable {
	var freqs FrequencyTable
	var f0, f1, f2, f3 [256]uint64
	end4 := len(block) & -4

	for i := 0; i < end4; i += 4 {
		f0[block[i]]++
		f1[block[i+1]]++
		f2[block[i+2]]++
		f3[block[i+3]]++
	}

	for i := end4; i < len(block); i++ {
		f0[block[i]]++
	}

	for i := range f0 {
		freqs[i] = f0[i] + f1[i] + f2[i] + f3[i]
	}

	freqs[hzip.END_SYMBOL] = 1
	return freqs
}

// Symbols returns the number of symbols with a non zero count
func (this *FrequencyTable) Symbols() int {
	n := 0

	for _, f := range this {
		if f != 0 {
			n++
		}
	}

	return n
}

// Total returns the sum of all counts
func (this *FrequencyTable) Total() uint64 {
	sum := uint64(0)

	for _, f := range this {
		sum += f
	}

	return sum
}
