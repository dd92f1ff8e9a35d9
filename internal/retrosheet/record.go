package retrosheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RecordType enumerates the record tags understood by the Assembler.
type RecordType int

const (
	RecordUnknown RecordType = iota
	RecordID
	RecordVersion
	RecordInfo
	RecordStart
	RecordSub
	RecordPlay
	RecordComment
	RecordBattingAdj
	RecordPitchingAdj
	RecordLineupAdj
	RecordData
)

var recordTags = map[string]RecordType{
	"id":      RecordID,
	"version": RecordVersion,
	"info":    RecordInfo,
	"start":   RecordStart,
	"sub":     RecordSub,
	"play":    RecordPlay,
	"com":     RecordComment,
	"badj":    RecordBattingAdj,
	"padj":    RecordPitchingAdj,
	"ladj":    RecordLineupAdj,
	"data":    RecordData,
}

// String returns the tag as it appears in event files.
func (t RecordType) String() string {
	for tag, rt := range recordTags {
		if rt == t {
			return tag
		}
	}
	return "unknown"
}

// LookupRecordType maps a tag to its RecordType, RecordUnknown if unrecognized.
func LookupRecordType(tag string) RecordType {
	if rt, ok := recordTags[tag]; ok {
		return rt
	}
	return RecordUnknown
}

// Record is one tokenized event-file line. Fields[0] is the tag.
type Record struct {
	Type   RecordType
	Tag    string
	Fields []string
}

// Field returns the i-th field or "" when the record is shorter.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// ErrEmptyRecord is returned for blank lines.
var ErrEmptyRecord = errors.New("empty record")

// MalformedRecordError reports a line whose quoting could not be tokenized.
type MalformedRecordError struct {
	Line string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// ErrUnterminatedQuote is wrapped by MalformedRecordError when a quoted
// field runs to the end of the line without a closing quote.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// ParseRecord splits one physical line into a Record. Double-quoted fields
// may contain commas. Quoting is lenient: a bare quote inside an unquoted
// field, or text after a closing quote, is kept literally. Only an
// unterminated quoted field is malformed.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Record{}, ErrEmptyRecord
	}
	if hasUnterminatedQuote(line) {
		return Record{}, &MalformedRecordError{Line: line, Err: ErrUnterminatedQuote}
	}

	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	fields, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, ErrEmptyRecord
		}
		return Record{}, &MalformedRecordError{Line: line, Err: err}
	}

	tag := strings.TrimSpace(fields[0])
	return Record{
		Type:   LookupRecordType(tag),
		Tag:    tag,
		Fields: fields,
	}, nil
}

// hasUnterminatedQuote walks line field by field the way a lazy csv reader
// does and reports a quoted field that never sees a closing quote. A doubled
// quote is an escape, not a close.
func hasUnterminatedQuote(line string) bool {
	pos := 0
	for pos <= len(line) {
		if pos == len(line) || line[pos] != '"' {
			next := strings.IndexByte(line[pos:], ',')
			if next < 0 {
				return false
			}
			pos += next + 1
			continue
		}

		closed := false
		i := pos + 1
		for i < len(line) {
			if line[i] != '"' {
				i++
				continue
			}
			if i+1 < len(line) && line[i+1] == '"' {
				i += 2
				continue
			}
			closed = true
			if i+1 == len(line) {
				return false
			}
			if line[i+1] == ',' {
				break
			}
			// Literal quote; csv keeps reading the field.
			i++
		}
		if !closed {
			return true
		}
		if i >= len(line) {
			return false
		}
		pos = i + 2
	}
	return false
}
