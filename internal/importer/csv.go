// Package importer reads contact spreadsheet exports into ordered rows.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lebrazwesh/roadbook/internal/domain"
)

// ReadCSV parses a CSV export into rows, preserving header order. The first
// record is the header; short records are padded with empty values and long
// records are truncated to the header width. Rows whose cells are all blank
// are skipped, matching how spreadsheet exports pad trailing lines.
func ReadCSV(r io.Reader, delimiter rune) ([]domain.ContactRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []domain.ContactRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(domain.ContactRow, 0, len(header))
		blank := true
		for i, name := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			row = append(row, domain.Column{Name: name, Value: value})
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
}

// ReadCSVFile opens and parses a CSV file.
func ReadCSVFile(path string, delimiter rune) ([]domain.ContactRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
