package retrosheet

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidGameID is returned when an id record does not match HHHYYYYMMDDS.
var ErrInvalidGameID = errors.New("invalid game id")

var gameIDPattern = regexp.MustCompile(`^(\w{3})(\d{4})(\d{2})(\d{2})(\d)$`)

// Game is one reconstructed game, stored as a document keyed by ID.
type Game struct {
	ID              string            `json:"id"`
	Home            string            `json:"home"`
	Year            string            `json:"year"`
	Month           string            `json:"month"`
	Day             string            `json:"day"`
	Seq             string            `json:"seq"`
	FormatVersion   string            `json:"formatVersion,omitempty"`
	Info            map[string]string `json:"info"`
	StartingLineups Lineups           `json:"startingLineups"`
	Events          []Event           `json:"events"`
	EarnedRunData   []EarnedRun       `json:"earnedRunData"`
}

// Lineups holds the starting lineup of each side.
type Lineups struct {
	Home []LineupEntry `json:"home"`
	Away []LineupEntry `json:"away"`
}

// LineupEntry is one starter's batting slot and fielding position.
type LineupEntry struct {
	PlayerID     string `json:"playerId"`
	BattingOrder string `json:"battingOrder"`
	Position     string `json:"position"`
}

// EarnedRun is one "data,er" line.
type EarnedRun struct {
	PlayerID   string `json:"playerId"`
	EarnedRuns string `json:"earnedRuns"`
}

// GameID holds the components of a game identifier.
type GameID struct {
	Home  string
	Year  string
	Month string
	Day   string
	Seq   string
}

// ParseGameID splits an identifier such as "SFN200904070".
func ParseGameID(id string) (GameID, error) {
	m := gameIDPattern.FindStringSubmatch(id)
	if m == nil {
		return GameID{}, fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	return GameID{Home: m[1], Year: m[2], Month: m[3], Day: m[4], Seq: m[5]}, nil
}

// NewGame returns an empty game for id with every collection initialized.
func NewGame(id string) (*Game, error) {
	parts, err := ParseGameID(id)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:    id,
		Home:  parts.Home,
		Year:  parts.Year,
		Month: parts.Month,
		Day:   parts.Day,
		Seq:   parts.Seq,
		Info:  map[string]string{},
		StartingLineups: Lineups{
			Home: []LineupEntry{},
			Away: []LineupEntry{},
		},
		Events:        []Event{},
		EarnedRunData: []EarnedRun{},
	}, nil
}

// Plays returns the play events in order.
func (g *Game) Plays() []*PlayEvent {
	var plays []*PlayEvent
	for _, ev := range g.Events {
		if p, ok := ev.(*PlayEvent); ok {
			plays = append(plays, p)
		}
	}
	return plays
}

func (g *Game) lastComment() *CommentEvent {
	if len(g.Events) == 0 {
		return nil
	}
	c, _ := g.Events[len(g.Events)-1].(*CommentEvent)
	return c
}
