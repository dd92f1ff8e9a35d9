package retrosheet

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeLine returns line as UTF-8. Older extracts are ISO-8859-1, so any
// line that is not already valid UTF-8 is decoded as Latin-1.
func DecodeLine(line string) string {
	if utf8.ValidString(line) {
		return line
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(line)
	if err != nil {
		return string([]rune(line))
	}
	return decoded
}
