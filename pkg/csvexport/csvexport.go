// Package csvexport renders entity rows as RFC-4180 CSV with
// per-export header remapping and field deny-lists.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// Row is one record keyed by column name.
type Row map[string]any

// Options shapes one export.
type Options struct {
	// Columns fixes the column order; columns absent from a row render
	// empty. Required: map iteration order is not a contract.
	Columns []string
	// Headers remaps column names to friendly labels. Unmapped columns
	// keep their name.
	Headers map[string]string
	// Deny lists columns that never reach the file even when named in
	// Columns (internal keys, photo blobs).
	Deny []string
	// Filter drops rows returning false; nil keeps everything.
	Filter func(Row) bool
}

func (o Options) denied(col string) bool {
	for _, d := range o.Deny {
		if d == col {
			return true
		}
	}
	return false
}

// Write streams rows as CSV. The header line is always written, even
// for zero rows.
func Write(w io.Writer, rows []Row, opts Options) error {
	if len(opts.Columns) == 0 {
		return fmt.Errorf("csvexport: no columns selected")
	}
	cols := make([]string, 0, len(opts.Columns))
	for _, c := range opts.Columns {
		if !opts.denied(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return fmt.Errorf("csvexport: every column is denied")
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		if label, ok := opts.Headers[c]; ok {
			header[i] = label
		} else {
			header[i] = c
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(cols))
	for _, row := range rows {
		if opts.Filter != nil && !opts.Filter(row) {
			continue
		}
		for i, c := range cols {
			record[i] = format(row[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// DateKeyRange builds a Filter keeping rows whose integer column is
// inside [from, to]. Rows without the column are dropped.
func DateKeyRange(column string, from, to int) func(Row) bool {
	return func(r Row) bool {
		v, ok := r[column]
		if !ok {
			return false
		}
		var key int
		switch t := v.(type) {
		case int:
			key = t
		case int64:
			key = int(t)
		default:
			return false
		}
		return key >= from && key <= to
	}
}
