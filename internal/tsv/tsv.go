// Package tsv reads tab-delimited extracts with a header row.
package tsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Row is one data row keyed by header name. Line is the 1-based line in the
// file where the row starts.
type Row struct {
	Line   int
	Fields map[string]string
}

func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("tsv: %s: %w", path, err)
	}
	return rows, nil
}

// Read parses r. Header names are trimmed. Short rows leave the missing
// columns empty; cells beyond the header are dropped. A header name repeated
// after trimming keeps the rightmost cell.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	header = names

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				fields[name] = rec[i]
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	return rows, nil
}

// Glob lists the *.txt extracts in dir in lexical order.
func Glob(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
