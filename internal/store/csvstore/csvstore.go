// Package csvstore persists rate observations, PIK elections and payments in
// flat CSV files. Files are append-only; a missing file reads as an empty
// snapshot so a fresh data directory works without setup.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	ratesFile     = "sofr_rates.csv"
	electionsFile = "pik_elections.csv"
	paymentsFile  = "payments.csv"

	dateFormat = "2006-01-02"
)

// Store reads and appends the three CSV tables under one data directory.
type Store struct {
	dir string
	log *logrus.Logger
}

// NewStore initializes a CSV store rooted at dir.
func NewStore(dir string, log *logrus.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// readAll returns the rows of a CSV file without its header, or nil if the
// file does not exist yet.
func (s *Store) readAll(name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// appendRow appends one record, writing the header first when the file is new
// or empty.
func (s *Store) appendRow(name string, header, row []string) error {
	path := filepath.Join(s.dir, name)

	info, err := os.Stat(path)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if isNew {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", name, err)
		}
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", name, err)
	}
	writer.Flush()
	return writer.Error()
}
