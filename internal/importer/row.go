package importer

import (
	"fmt"
	"strconv"
)

// Row is one raw record from a delimited source file. Fields are addressed
// by 1-based column position to match the fixed column layout of the two
// source file families.
type Row []string

// String returns the field at the 1-based column position.
func (r Row) String(col int) (string, error) {
	if col < 1 || col > len(r) {
		return "", fmt.Errorf("column %d out of range (row has %d columns)", col, len(r))
	}
	return r[col-1], nil
}

// Float returns the field at the 1-based column position parsed as a float.
func (r Row) Float(col int) (float64, error) {
	s, err := r.String(col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", col, err)
	}
	return f, nil
}

// Int returns the field at the 1-based column position parsed as an int.
func (r Row) Int(col int) (int, error) {
	s, err := r.String(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", col, err)
	}
	return n, nil
}
