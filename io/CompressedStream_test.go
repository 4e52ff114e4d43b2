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

package io

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"
	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/internal"
	"github.com/pkg/errors"
)

type eventRecorder struct {
	events []*hzip.Event
}

func (this *eventRecorder) ProcessEvent(evt *hzip.Event) {
	this.events = append(this.events, evt)
}

func (this *eventRecorder) find(evtType int) *hzip.Event {
	for _, e := range this.events {
		if e.Type() == evtType {
			return e
		}
	}

	return nil
}

func TestCompressedStream(b *testing.T) {
	if err := testCorrectness(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestCompressHelpers(b *testing.T) {
	if err := testHelpers(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestStreamEvents(b *testing.T) {
	if err := testEvents(); err != nil {
		b.Errorf(err.Error())
	}
}

func TestStreamErrors(b *testing.T) {
	if err := testErrors(); err != nil {
		b.Errorf(err.Error())
	}
}

func testCorrectness() error {
	r := rand.New(rand.NewSource(2024))

	for test := 0; test < 12; test++ {
		length := 0

		if test > 0 {
			length = 1 << uint(test+4)
		}

		values := make([]byte, length)

		for i := range values {
			values[i] = byte(r.Intn(16 * (test + 1)))
		}

		bs := internal.NewBufferStream()
		w, err := NewWriter(bs, map[string]any{"checksum": true})

		if err != nil {
			return err
		}

		// Write in several chunks
		for off := 0; off < len(values); off += 1000 {
			end := min(off+1000, len(values))

			if _, err = w.Write(values[off:end]); err != nil {
				return err
			}
		}

		if err = w.Close(); err != nil {
			return err
		}

		compressed := uint64(bs.Len())

		if compressed != w.GetWritten() {
			return fmt.Errorf("Written: %d, reported: %d", compressed, w.GetWritten())
		}

		rd, err := NewReader(bs, nil)

		if err != nil {
			return err
		}

		// Small reads to exercise partial decoding
		res := make([]byte, 0, len(values))
		buf := make([]byte, 37)

		for {
			n, err := rd.Read(buf)
			res = append(res, buf[:n]...)

			if err == io.EOF {
				break
			}

			if err != nil {
				return err
			}
		}

		rd.Close()

		if bytes.Equal(res, values) == false {
			return fmt.Errorf("Test %d: input and inverse are different", test)
		}

		fmt.Printf("Test %d: %d => %d bytes\n", test, len(values), compressed)
	}

	return nil
}

func testHelpers() error {
	values := []byte("the quick brown fox jumps over the lazy dog")
	var compressed, decompressed bytes.Buffer
	n, err := Compress(&compressed, bytes.NewReader(values))

	if err != nil {
		return err
	}

	if n != int64(compressed.Len()) {
		return fmt.Errorf("Compress returned %d, %d bytes written", n, compressed.Len())
	}

	if n, err = Decompress(&decompressed, &compressed); err != nil {
		return err
	}

	if n != int64(len(values)) || bytes.Equal(decompressed.Bytes(), values) == false {
		return fmt.Errorf("Decompress returned %d bytes: %q", n, decompressed.Bytes())
	}

	compressed.Reset()

	if _, err = Compress(&compressed, bytes.NewReader(nil)); err != nil {
		return err
	}

	if bytes.Equal(compressed.Bytes(), []byte{0x00, 0x60}) == false {
		return fmt.Errorf("Empty input: unexpected output %X", compressed.Bytes())
	}

	return nil
}

func testEvents() error {
	values := bytes.Repeat([]byte("abcdefgh"), 500)
	var compressed bytes.Buffer
	w, _ := NewWriter(&compressed, map[string]any{"checksum": true, "id": 3})
	wrec := &eventRecorder{}
	w.AddListener(wrec)
	w.Write(values)

	if err := w.Close(); err != nil {
		return err
	}

	end := wrec.find(hzip.EVT_COMPRESSION_END)

	if end == nil || end.ID() != 3 || end.Hash() != xxhash.Sum64(values) {
		return errors.New("Missing or invalid compression end event")
	}

	if end.Size() != int64(compressed.Len()) {
		return fmt.Errorf("End event size %d, %d bytes written", end.Size(), compressed.Len())
	}

	if hdr := wrec.find(hzip.EVT_AFTER_HEADER); hdr == nil || hdr.Size() <= 0 {
		return errors.New("Missing header event")
	}

	rd, _ := NewReader(&compressed, map[string]any{"checksum": true})
	rrec := &eventRecorder{}
	rd.AddListener(rrec)

	if _, err := io.ReadAll(rd); err != nil {
		return err
	}

	end = rrec.find(hzip.EVT_DECOMPRESSION_END)

	if end == nil || end.Hash() != xxhash.Sum64(values) || end.Size() != int64(len(values)) {
		return errors.New("Missing or invalid decompression end event")
	}

	if rd.Checksum() != xxhash.Sum64(values) {
		return fmt.Errorf("Invalid checksum: %016x", rd.Checksum())
	}

	if rd.RemoveListener(rrec) == false || len(rd.listeners) != 0 {
		return errors.New("Cannot remove listener")
	}

	return nil
}

func testErrors() error {
	var compressed bytes.Buffer

	if _, err := Compress(&compressed, bytes.NewReader([]byte("some data to truncate"))); err != nil {
		return err
	}

	truncated := compressed.Bytes()[:compressed.Len()-1]
	_, err := Decompress(io.Discard, bytes.NewReader(truncated))

	if errors.Is(err, hzip.ErrTruncatedPayload) == false {
		return fmt.Errorf("Expected a truncated payload error, got %v", err)
	}

	var ioErr *IOError

	if errors.As(err, &ioErr) == false || ioErr.ErrorCode() != hzip.ERR_TRUNCATED_PAYLOAD {
		return fmt.Errorf("Expected an IOError with code %d, got %v", hzip.ERR_TRUNCATED_PAYLOAD, err)
	}

	w, _ := NewWriter(io.Discard, nil)
	w.Close()

	if _, err = w.Write([]byte{1}); err == nil {
		return errors.New("Writing to a closed stream should fail")
	}

	if _, err = NewWriter(io.Discard, map[string]any{"checksum": "yes"}); err == nil {
		return errors.New("Invalid context parameter should be rejected")
	}

	return nil
}
