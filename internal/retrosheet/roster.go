package retrosheet

import (
	"errors"
	"fmt"
	"io"
)

// RosterEntry is one player line of a TTTyyyy.ROS file.
type RosterEntry struct {
	ID       string `json:"id"`
	Team     string `json:"team"`
	Year     string `json:"year"`
	PlayerID string `json:"playerId"`
	Last     string `json:"last"`
	First    string `json:"first"`
	Bats     string `json:"bats"`
	Throws   string `json:"throws"`
	Position string `json:"position"`
}

// RosterKey is the document key of a roster entry.
func RosterKey(team, year, playerID string) string {
	return team + ":" + year + ":" + playerID
}

// ParseRoster reads a roster file for year. The team column of each line,
// not the file name, decides the team in the key.
func ParseRoster(r io.Reader, year string) (entries []RosterEntry, skipped int, err error) {
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
		if err != nil || len(rec.Fields) != 7 {
			skipped++
			continue
		}

		f := rec.Fields
		entries = append(entries, RosterEntry{
			ID:       RosterKey(f[5], year, f[0]),
			Team:     f[5],
			Year:     year,
			PlayerID: f[0],
			Last:     f[1],
			First:    f[2],
			Bats:     f[3],
			Throws:   f[4],
			Position: f[6],
		})
	}
	if err := scanner.Err(); err != nil {
		return entries, skipped, fmt.Errorf("read roster file: %w", err)
	}
	return entries, skipped, nil
}
