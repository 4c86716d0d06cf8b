package frame

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCSV decodes a CSV table with a header row from r.
// ReadCSV does not close r.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("decode csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("decode csv header: %w", err)
	}
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("decode csv: duplicate column %q", name)
		}
		seen[name] = true
	}

	cols := make(map[string][]any, len(header))
	for _, name := range header {
		cols[name] = []any{}
	}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv line %d: %w", line, err)
		}
		for i, name := range header {
			cols[name] = append(cols[name], parseCell(record[i]))
		}
	}
	return NewTable(cols, header)
}

func parseCell(s string) any {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// ReadJSON decodes a table from r. The input is either an array of records
// or an object mapping column names to arrays of equal length.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	switch tok {
	case json.Delim('['):
		return readRecords(dec)
	case json.Delim('{'):
		return readColumns(dec)
	}
	return nil, fmt.Errorf("decode json: expected an array of records or an object of columns")
}

func readRecords(dec *json.Decoder) (*Table, error) {
	var (
		order []string
		cols  = make(map[string][]any)
		rows  int
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", rows, err)
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("decode record %d: not an object", rows)
		}
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, fmt.Errorf("decode record %d: %w", rows, err)
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("decode record %d field %q: %w", rows, key, err)
			}
			col, ok := cols[key]
			if !ok {
				// Earlier rows lack this key.
				col = make([]any, rows)
				order = append(order, key)
			}
			for len(col) < rows {
				col = append(col, nil)
			}
			cols[key] = append(col, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", rows, err)
		}
		rows++
		for _, name := range order {
			for len(cols[name]) < rows {
				cols[name] = append(cols[name], nil)
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return NewTable(cols, orderOrEmpty(order))
}

func readColumns(dec *json.Decoder) (*Table, error) {
	var order []string
	cols := make(map[string][]any)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		var values []any
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("decode column %q: %w", key, err)
		}
		if _, dup := cols[key]; !dup {
			order = append(order, key)
		}
		cols[key] = values
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return NewTable(cols, orderOrEmpty(order))
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// orderOrEmpty keeps NewTable from sorting an empty table's columns.
func orderOrEmpty(order []string) []string {
	if order == nil {
		return []string{}
	}
	return order
}

// ImportFile reads a table from a .csv or .json file.
func ImportFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	}
	return nil, fmt.Errorf("unsupported data file %s: want .csv or .json", path)
}
