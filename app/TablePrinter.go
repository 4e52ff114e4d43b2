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
	"bufio"
	"fmt"
	"io"
	"strings"

	hzip "github.com/flanglet/hzip-go"
	"github.com/flanglet/hzip-go/entropy"
	json "github.com/goccy/go-json"
)

// TableRow one line of the encoding table
type TableRow struct {
	Symbol string `json:"symbol"`
	Count  uint64 `json:"count"`
	Code   string `json:"code"`
}

// TablePrinter prints the Huffman encoding table of one input (file or stdin)
type TablePrinter struct {
	inputName  string
	outputName string
	jsonOutput bool
	overwrite  bool
}

// NewTablePrinter creates a new instance of TablePrinter given
// a map of argument name/value pairs.
func NewTablePrinter(argsMap map[string]any) (*TablePrinter, error) {
	this := &TablePrinter{}
	this.inputName = argsMap["inputName"].(string)
	this.outputName = argsMap["outputName"].(string)

	if len(this.inputName) == 0 {
		this.inputName = _STDIN
	}

	if len(this.outputName) == 0 {
		this.outputName = _STDOUT
	}

	if v, prst := argsMap["json"]; prst {
		this.jsonOutput = v.(bool)
	}

	if v, prst := argsMap["overwrite"]; prst {
		this.overwrite = v.(bool)
	}

	return this, nil
}

// Print reads the input, builds the table and writes it to the output.
// Returns 0 or the error code.
func (this *TablePrinter) Print() int {
	inputName := this.inputName

	if strings.ToUpper(inputName) == _STDIN {
		inputName = _STDIN
	}

	input, err := openInput(inputName)

	if err != nil {
		fmt.Println(err.Error())
		return errorCode(err, hzip.ERR_OPEN_FILE)
	}

	defer input.Close()
	data, err := io.ReadAll(input)

	if err != nil {
		fmt.Printf("Failed to read '%s': %v\n", inputName, err)
		return hzip.ERR_READ_FILE
	}

	rows, err := BuildTable(data)

	if err != nil {
		fmt.Println(err.Error())
		return hzip.ERR_UNKNOWN
	}

	outputName := this.outputName

	switch strings.ToUpper(outputName) {
	case _STDOUT, _NONE:
		outputName = strings.ToUpper(outputName)
	}

	output, err := openOutput(outputName, inputName, this.overwrite)

	if err != nil {
		fmt.Println(err.Error())
		return errorCode(err, hzip.ERR_CREATE_FILE)
	}

	bw := bufio.NewWriter(output)

	if this.jsonOutput == true {
		err = WriteTableJSON(bw, rows)
	} else {
		err = WriteTable(bw, rows)
	}

	if err == nil {
		err = bw.Flush()
	}

	if cerr := output.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		fmt.Printf("Failed to write table: %v\n", err)
		return hzip.ERR_WRITE_FILE
	}

	return 0
}

// BuildTable returns one row per symbol present in the data (END included),
// sorted by symbol.
func BuildTable(data []byte) ([]TableRow, error) {
	freqs := entropy.ComputeFrequencies(data)
	root, err := entropy.BuildTree(freqs)

	if err != nil {
		return nil, err
	}

	codes := entropy.DeriveCodes(root)
	leaves := entropy.Leaves(root, entropy.BySymbol)
	rows := make([]TableRow, len(leaves))

	for i, leaf := range leaves {
		s := leaf.Symbol()
		rows[i] = TableRow{Symbol: SymbolName(s), Count: freqs[s], Code: codes[s].String()}
	}

	return rows, nil
}

// SymbolName returns a 3 character representation of the symbol: the
// character between spaces if printable, EOF for the END symbol, the
// hexadecimal value otherwise.
func SymbolName(s hzip.Symbol) string {
	if s == hzip.END_SYMBOL {
		return "EOF"
	}

	if s >= 32 && s < 127 {
		return " " + string(rune(s)) + " "
	}

	return fmt.Sprintf("x%02X", int(s))
}

// WriteTable writes the rows as text, one symbol per line
func WriteTable(w io.Writer, rows []TableRow) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%3s %5d %s\n", r.Symbol, r.Count, r.Code); err != nil {
			return err
		}
	}

	return nil
}

// WriteTableJSON writes the rows as an indented JSON array
func WriteTableJSON(w io.Writer, rows []TableRow) error {
	buf, err := json.MarshalIndent(rows, "", "  ")

	if err != nil {
		return err
	}

	buf = append(buf, '\n')
	_, err = w.Write(buf)
	return err
}
