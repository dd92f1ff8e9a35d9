package retrosheet

import (
	"errors"
	"fmt"
	"io"
)

// LineError ties a record failure to its 1-based line number.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ReadEvents tokenizes every line of r and applies it to asm. Record-level
// failures are passed to onError and do not stop the scan; only read errors
// are returned. ReadEvents does not flush asm.
func ReadEvents(r io.Reader, asm *Assembler, onError func(*LineError)) error {
	scanner := newLineScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if scanner.TooLong() {
			if onError != nil {
				onError(&LineError{Line: lineNo, Err: ErrLineTooLong})
			}
			continue
		}
		rec, err := ParseRecord(DecodeLine(scanner.Text()))
		if errors.Is(err, ErrEmptyRecord) {
			continue
		}
		if err == nil {
			err = asm.Apply(rec)
		}
		if err != nil && onError != nil {
			onError(&LineError{Line: lineNo, Err: err})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event file: %w", err)
	}
	return nil
}
