package parser

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rxtech-lab/argo-advisor/pkg/errors"
)

const maxLineSize = 1024 * 1024

// Record is one line of input split into fields.
type Record struct {
	// Line is the 1-based line number of the record.
	Line   int
	Fields []string
}

// Reader splits comma-separated input into records, one per non-blank line.
// Field counts are not enforced here; ParseRecord decides whether a record is
// well formed.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Reader{scanner: scanner}
}

// All yields every record in input order. Each line is split on its own, so
// a syntax error is yielded as a MalformedRecord for that line and reading
// continues. A failure of the underlying reader is yielded once and ends the
// iteration.
func (r *Reader) All() func(yield func(Record, error) bool) {
	return func(yield func(Record, error) bool) {
		line := 0

		for r.scanner.Scan() {
			line++

			text := r.scanner.Text()
			if strings.TrimSpace(text) == "" {
				continue
			}

			fields, err := splitLine(text)
			if err != nil {
				if !yield(Record{Line: line}, errors.Wrapf(errors.ErrCodeMalformedRecord, err, "unreadable record on line %d", line)) {
					return
				}

				continue
			}

			if !yield(Record{Line: line, Fields: fields}, nil) {
				return
			}
		}

		if err := r.scanner.Err(); err != nil {
			yield(Record{Line: line + 1}, errors.Wrap(errors.ErrCodeSourceUnavailable, "failed to read input", err))
		}
	}
}

func splitLine(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return cr.Read()
}
