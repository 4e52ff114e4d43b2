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
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const (
	EVT_COMPRESSION_START   = 0 // Compression starts
	EVT_DECOMPRESSION_START = 1 // Decompression starts
	EVT_BEFORE_ENTROPY      = 2 // Frequency scan done, tree about to be built/read
	EVT_AFTER_HEADER        = 3 // Tree header written/read (size in bits)
	EVT_AFTER_ENTROPY       = 4 // Payload encoded/decoded
	EVT_COMPRESSION_END     = 5 // Compression ends
	EVT_DECOMPRESSION_END   = 6 // Decompression ends

	EVT_HASH_NONE   = 0
	EVT_HASH_64BITS = 64
)

// Event a compression/decompression event
type Event struct {
	eventType int
	id        int
	size      int64
	hash      uint64
	hashType  int
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType, id int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, size: 0, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance with size and hash info
// Returns nil if the hashType is not in { EVT_HASH_NONE, EVT_HASH_64BITS }
func NewEvent(evtType, id int, size int64, hash uint64, hashType int, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	if hashType != EVT_HASH_NONE && hashType != EVT_HASH_64BITS {
		return nil
	}

	return &Event{eventType: evtType, id: id, size: size, hash: hash,
		hashType: hashType, eventTime: evtTime}
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// ID returns the id info
func (this *Event) ID() int {
	return this.id
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// Hash returns the hash info
func (this *Event) Hash() uint64 {
	return this.hash
}

// HashType returns EVT_HASH_NONE or EVT_HASH_64BITS
func (this *Event) HashType() int {
	return this.hashType
}

// TypeName returns the name of the event type
func (this *Event) TypeName() string {
	switch this.eventType {
	case EVT_COMPRESSION_START:
		return "COMPRESSION_START"

	case EVT_DECOMPRESSION_START:
		return "DECOMPRESSION_START"

	case EVT_BEFORE_ENTROPY:
		return "BEFORE_ENTROPY"

	case EVT_AFTER_HEADER:
		return "AFTER_HEADER"

	case EVT_AFTER_ENTROPY:
		return "AFTER_ENTROPY"

	case EVT_COMPRESSION_END:
		return "COMPRESSION_END"

	case EVT_DECOMPRESSION_END:
		return "DECOMPRESSION_END"
	}

	return "UNKNOWN"
}

type eventRecord struct {
	Type string `json:"type"`
	ID   *int   `json:"id,omitempty"`
	Size int64  `json:"size"`
	Time int64  `json:"time"`
	Hash string `json:"hash,omitempty"`
}

// MarshalJSON returns the JSON representation of the event fields
func (this *Event) MarshalJSON() ([]byte, error) {
	rec := eventRecord{Type: this.TypeName(), Size: this.size,
		Time: this.eventTime.UnixNano() / 1000000}

	if this.id >= 0 {
		id := this.id
		rec.ID = &id
	}

	if this.hashType != EVT_HASH_NONE {
		rec.Hash = fmt.Sprintf("%016x", this.hash)
	}

	return json.Marshal(rec)
}

// String returns a string representation of this event.
// If the event wraps a message, the the message is returned.
// Otherwise a JSON string is built from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	buf, err := this.MarshalJSON()

	if err != nil {
		return fmt.Sprintf("{ \"type\":\"%s\" }", this.TypeName())
	}

	return string(buf)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}
