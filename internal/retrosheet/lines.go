package retrosheet

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// MaxLineBytes bounds one input line. Longer lines are skipped, not fatal.
const MaxLineBytes = 1 << 20

// ErrLineTooLong reports a line longer than MaxLineBytes.
var ErrLineTooLong = errors.New("line too long")

// lineScanner yields lines like bufio.Scanner but survives oversized lines:
// the rest of such a line is discarded and Scan reports it via TooLong.
type lineScanner struct {
	r       *bufio.Reader
	text    string
	tooLong bool
	done    bool
	err     error
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{r: bufio.NewReaderSize(r, MaxLineBytes)}
}

// Scan advances to the next line and reports whether there is one.
func (s *lineScanner) Scan() bool {
	s.text, s.tooLong = "", false
	if s.done {
		return false
	}

	chunk, err := s.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		s.tooLong = true
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = s.r.ReadSlice('\n')
		}
		s.finish(err)
		return s.err == nil
	}

	s.finish(err)
	if s.err != nil || (s.done && len(chunk) == 0) {
		return false
	}
	s.text = strings.TrimRight(string(chunk), "\r\n")
	return true
}

func (s *lineScanner) finish(err error) {
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.done = true
	default:
		s.done = true
		s.err = err
	}
}

// Text returns the current line without its terminator.
func (s *lineScanner) Text() string {
	return s.text
}

// TooLong reports whether the current line exceeded MaxLineBytes.
func (s *lineScanner) TooLong() bool {
	return s.tooLong
}

// Err returns the first read error other than io.EOF.
func (s *lineScanner) Err() error {
	return s.err
}
