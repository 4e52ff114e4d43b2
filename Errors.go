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

package hzip

import (
	"github.com/pkg/errors"
)

var (
	// ErrEndOfInput is returned when more bits were required than the source holds
	ErrEndOfInput = errors.New("end of input")

	// ErrCorruptHeader is returned when the serialized tree does not reduce to
	// exactly one node or underflows the decoding stack
	ErrCorruptHeader = errors.New("corrupt header")

	// ErrTruncatedPayload is returned when the payload ends before the END symbol
	ErrTruncatedPayload = errors.New("truncated payload")

	// ErrInvalidSymbol is returned when a leaf of the serialized tree does not
	// describe a valid symbol
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// ErrorCode returns the ERR_xxx value matching the error (ERR_UNKNOWN if the
// error is not a codec error, 0 if err is nil).
func ErrorCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrCorruptHeader):
		return ERR_CORRUPT_HEADER
	case errors.Is(err, ErrTruncatedPayload):
		return ERR_TRUNCATED_PAYLOAD
	case errors.Is(err, ErrInvalidSymbol):
		return ERR_INVALID_SYMBOL
	case errors.Is(err, ErrEndOfInput):
		return ERR_END_OF_INPUT
	default:
		return ERR_UNKNOWN
	}
}
