package retrosheet

import (
	"errors"
	"fmt"
	"io"
)

// Team is one line of a TEAMyyyy file.
type Team struct {
	ID       string `json:"id"`
	TeamCode string `json:"teamcode"`
	Year     string `json:"year"`
	League   string `json:"league"`
	Place    string `json:"place"`
	Team     string `json:"team"`
}

// TeamKey is the document key of a team season.
func TeamKey(code, year string) string {
	return code + year
}

// ParseTeams reads a team file for year. Lines that are not exactly four
// columns are skipped; skipped reports how many.
func ParseTeams(r io.Reader, year string) (teams []Team, skipped int, err error) {
	scanner := newLineScanner(r)
	for scanner.Scan() {
		if scanner.TooLong() {
			skipped++
			continue
		}
		rec, err := ParseRecord(DecodeLine(scanner.Text()))
		if errors.Is(err, ErrEmptyRecord) {
			continue
		}
		if err != nil || len(rec.Fields) != 4 {
			skipped++
			continue
		}

		code := rec.Fields[0]
		teams = append(teams, Team{
			ID:       TeamKey(code, year),
			TeamCode: code,
			Year:     year,
			League:   rec.Fields[1],
			Place:    rec.Fields[2],
			Team:     rec.Fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return teams, skipped, fmt.Errorf("read team file: %w", err)
	}
	return teams, skipped, nil
}
