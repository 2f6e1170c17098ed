// internal/vocab/parse.go
//
// CSV → []Record.
//
// The published sheet is exported as plain CSV. Rows are mapped positionally
// onto Columns. A malformed document (unterminated quote, stray quote in an
// unquoted field) fails the whole parse; we never return a partial row set.

package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError reports CSV text the reader could not tokenise.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("vocab: parse csv at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("vocab: parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseOptions tweaks how the sheet export is read.
type ParseOptions struct {
	// SkipHeader drops the first row (sheets that carry a title row).
	SkipHeader bool
}

// ParseCSV reads every row of r. It does not filter; see Load for the
// parse+filter pipeline.
func ParseCSV(r io.Reader, opts ParseOptions) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // sheets trim empty trailing cells

	var out []Record
	first := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Line: pe.StartLine, Err: pe.Err}
			}
			return nil, &ParseError{Err: err}
		}
		if first {
			first = false
			if opts.SkipHeader {
				continue
			}
		}
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Load parses CSV text and drops invalid rows.
func Load(text string, opts ParseOptions) ([]Record, error) {
	rows, err := ParseCSV(strings.NewReader(text), opts)
	if err != nil {
		return nil, err
	}
	return Filter(rows), nil
}
