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
	"bytes"
	"strings"
	"testing"

	hzip "github.com/flanglet/hzip-go"
	json "github.com/goccy/go-json"
)

func TestSymbolName(t *testing.T) {
	tests := map[hzip.Symbol]string{
		'a':             " a ",
		' ':             "   ",
		'~':             " ~ ",
		0:               "x00",
		'\n':            "x0A",
		127:             "x7F",
		255:             "xFF",
		hzip.END_SYMBOL: "EOF",
	}

	for s, expected := range tests {
		if SymbolName(s) != expected {
			t.Errorf("Symbol %d: expected '%s', got '%s'", s, expected, SymbolName(s))
		}
	}
}

func TestTable(t *testing.T) {
	rows, err := BuildTable([]byte("aab"))

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	if err = WriteTable(&buf, rows); err != nil {
		t.Fatal(err)
	}

	expected := strings.Join([]string{
		" a      2 0",
		" b      1 10",
		"EOF     1 11",
	}, "\n") + "\n"

	if buf.String() != expected {
		t.Errorf("Unexpected table:\n%s", buf.String())
	}

	buf.Reset()

	if err = WriteTableJSON(&buf, rows); err != nil {
		t.Fatal(err)
	}

	var decoded []TableRow

	if err = json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}

	if len(decoded) != 3 || decoded[2].Symbol != "EOF" || decoded[1].Code != "10" {
		t.Errorf("Unexpected JSON table: %s", buf.String())
	}
}

func TestTableEmptyInput(t *testing.T) {
	rows, err := BuildTable(nil)

	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 1 || rows[0].Symbol != "EOF" || rows[0].Code != "" {
		t.Errorf("Unexpected rows for empty input: %v", rows)
	}
}
