package retrosheet

import "strings"

// PlayDetails is the play-description field split into its parts.
//
// A description reads code[/modifier][.advances]; both separators are
// optional and only their first occurrence splits.
type PlayDetails struct {
	Raw           string `json:"raw"`
	Code          string `json:"code"`
	Modifier      string `json:"modifier"`
	BasesAdvanced string `json:"basesAdvanced"`
}

// ParsePlay splits a raw play description, e.g. "HR/9.3-H;2-H;1-H".
func ParsePlay(raw string) PlayDetails {
	details := PlayDetails{Raw: raw}

	code, rest, ok := strings.Cut(raw, "/")
	details.Code = code
	if !ok {
		return details
	}

	details.Modifier, details.BasesAdvanced, _ = strings.Cut(rest, ".")
	return details
}

// String rebuilds the description from its parts. The separators are
// restored only where the raw field carried them, so the result equals Raw.
func (d PlayDetails) String() string {
	hasSlash := strings.Contains(d.Raw, "/")
	hasDot := hasSlash && strings.Contains(d.Raw[strings.Index(d.Raw, "/")+1:], ".")

	var b strings.Builder
	b.WriteString(d.Code)
	if hasSlash {
		b.WriteByte('/')
		b.WriteString(d.Modifier)
	}
	if hasDot {
		b.WriteByte('.')
		b.WriteString(d.BasesAdvanced)
	}
	return b.String()
}

// Count is the ball/strike count on the batter when the play happened.
type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
}

// ParseCount reads a two-digit count field. Anything else, including the
// "??" placeholder used for unknown counts, yields nil.
func ParseCount(field string) *Count {
	if len(field) != 2 || !isDigit(field[0]) || !isDigit(field[1]) {
		return nil
	}
	return &Count{
		Balls:   int(field[0] - '0'),
		Strikes: int(field[1] - '0'),
	}
}

// ParsePitches returns each pitch code of a pitch-sequence field.
func ParsePitches(field string) []string {
	pitches := make([]string, 0, len(field))
	for _, r := range field {
		pitches = append(pitches, string(r))
	}
	return pitches
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
