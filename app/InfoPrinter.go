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

package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	hzip "github.com/flanglet/hzip-go"
	"github.com/pkg/errors"
)

// An implementation of Listener to display per file information (verbose
// option of the FileCompressor/FileDecompressor)

const (
	// COMPRESSION event type
	COMPRESSION = 0
	// DECOMPRESSION event type
	DECOMPRESSION = 1
)

type fileInfo struct {
	start      time.Time
	inputSize  int64
	headerBits int64
}

// InfoPrinter contains all the data required to print one event
type InfoPrinter struct {
	writer   io.Writer
	infoType uint
	level    uint
	infos    map[int]fileInfo
	lock     sync.Mutex
	start    int
	end      int
}

// NewInfoPrinter creates a new instance of InfoPrinter
func NewInfoPrinter(infoLevel, infoType uint, writer io.Writer) (*InfoPrinter, error) {
	if writer == nil {
		return nil, errors.New("invalid null writer parameter")
	}

	this := &InfoPrinter{}
	this.infoType = infoType & 1
	this.level = infoLevel
	this.writer = writer
	this.infos = make(map[int]fileInfo)

	if this.infoType == COMPRESSION {
		this.start = hzip.EVT_COMPRESSION_START
		this.end = hzip.EVT_COMPRESSION_END
	} else {
		this.start = hzip.EVT_DECOMPRESSION_START
		this.end = hzip.EVT_DECOMPRESSION_END
	}

	return this, nil
}

// ProcessEvent receives an event and writes a log record to the internal writer
func (this *InfoPrinter) ProcessEvent(evt *hzip.Event) {
	if this.level >= 5 {
		fmt.Fprintln(this.writer, evt)
	}

	this.lock.Lock()
	defer this.lock.Unlock()
	info := this.infos[evt.ID()]

	switch evt.Type() {
	case this.start:
		info = fileInfo{start: evt.Time(), inputSize: evt.Size()}

	case hzip.EVT_AFTER_HEADER:
		info.headerBits = evt.Size()

	case this.end:
		delete(this.infos, evt.ID())

		if this.level < 3 {
			return
		}

		var msg string

		if this.infoType == COMPRESSION {
			msg = fmt.Sprintf("File %d: %d => %d bytes (header: %d bits)", evt.ID(),
				info.inputSize, evt.Size(), info.headerBits)
		} else {
			msg = fmt.Sprintf("File %d: %d bytes decoded (header: %d bits)", evt.ID(),
				evt.Size(), info.headerBits)
		}

		if this.level >= 4 && info.start.IsZero() == false {
			msg += fmt.Sprintf(" [%d ms]", evt.Time().Sub(info.start).Milliseconds())
		}

		if evt.HashType() != hzip.EVT_HASH_NONE {
			msg += fmt.Sprintf(" [%016x]", evt.Hash())
		}

		fmt.Fprintln(this.writer, msg)
		return
	}

	this.infos[evt.ID()] = info
}
