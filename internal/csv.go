package internal

import (
	"encoding/csv"
	"io"
	"iter"
)

// CSVRecord carries either a parsed value or the error that produced it;
// iteration continues so callers decide whether a bad row is fatal.
type CSVRecord[T any] struct {
	Value T
	Error error
}

// ParseCSV streams records from a CSV source through the given mapper. When
// hasHeader is true the first row is captured and passed to the mapper with
// every record.
func ParseCSV[T any](reader io.Reader, hasHeader bool, fromCSV func(record, headers []string) (T, error)) iter.Seq[CSVRecord[T]] {
	return func(yield func(CSVRecord[T]) bool) {
		r := csv.NewReader(reader)

		var headers []string
		if hasHeader {
			row, err := r.Read()
			if err != nil {
				var zero T
				yield(CSVRecord[T]{Value: zero, Error: err})
				return
			}
			headers = row
		}

		for {
			row, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var zero T
				if !yield(CSVRecord[T]{Value: zero, Error: err}) {
					return
				}
				continue
			}
			value, err := fromCSV(row, headers)
			if !yield(CSVRecord[T]{Value: value, Error: err}) {
				return
			}
		}
	}
}
