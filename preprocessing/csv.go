package preprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrMissingColumn reports a source table without a required column.
var ErrMissingColumn = errors.New("missing required column")

// ErrDuplicateID reports two rows sharing an identifier.
var ErrDuplicateID = errors.New("duplicate identifier")

// ErrInvalidID reports an identifier that cannot appear in a pipe's
// connected-manholes pair.
var ErrInvalidID = errors.New("invalid identifier")

// table is a CSV body with a trimmed header index.
type table struct {
	r      *csv.Reader
	header map[string]int
}

func newTable(src io.Reader, name string) (*table, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	return &table{r: r, header: headerIndex(header)}, nil
}

// column returns the index of the first present alias.
func (t *table) column(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := t.header[a]; ok {
			return i, true
		}
	}
	return 0, false
}

// require resolves every alias group or fails with ErrMissingColumn.
func (t *table) require(name string, groups ...[]string) ([]int, error) {
	idx := make([]int, len(groups))
	for g, aliases := range groups {
		i, ok := t.column(aliases...)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", name, ErrMissingColumn, aliases[0])
		}
		idx[g] = i
	}
	return idx, nil
}

// each calls fn for every data row.
func (t *table) each(name string, fn func(row []string) error) error {
	line := 1
	for {
		row, err := t.r.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read %s row %d: %w", name, line, err)
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s row %d: %w", name, line, err)
		}
	}
}

func headerIndex(hdr []string) map[string]int {
	m := make(map[string]int, len(hdr))
	for i, k := range hdr {
		k = strings.TrimSpace(strings.TrimPrefix(k, "\ufeff"))
		if _, dup := m[k]; !dup {
			m[k] = i
		}
	}
	return m
}

// cell returns row[i] trimmed, or "" when i is out of range or negative.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// coerceInt parses integral or decimal text, folding anything invalid to 0.
func coerceInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// coerceFloat parses decimal text, returning fallback when invalid.
func coerceFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}
