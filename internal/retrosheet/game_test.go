package retrosheet_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/fortuna/retroload/internal/retrosheet"
)

func TestParseGameID(t *testing.T) {
	cases := []struct {
		id   string
		want retrosheet.GameID
	}{
		{"SFN200904070", retrosheet.GameID{Home: "SFN", Year: "2009", Month: "04", Day: "07", Seq: "0"}},
		{"ANA201007281", retrosheet.GameID{Home: "ANA", Year: "2010", Month: "07", Day: "28", Seq: "1"}},
		{"NY1191205302", retrosheet.GameID{Home: "NY1", Year: "1912", Month: "05", Day: "30", Seq: "2"}},
	}
	for _, tc := range cases {
		got, err := retrosheet.ParseGameID(tc.id)
		if err != nil {
			t.Fatalf("ParseGameID(%q): %v", tc.id, err)
		}
		if got != tc.want {
			t.Fatalf("ParseGameID(%q) = %+v, want %+v", tc.id, got, tc.want)
		}
		if got.Home+got.Year+got.Month+got.Day+got.Seq != tc.id {
			t.Fatalf("components of %q do not rebuild the id", tc.id)
		}
	}
}

func TestParseGameIDRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "SF200904070", "SFN20090407", "SFN2009040701", "SFN2009O4070", " SFN200904070"} {
		if _, err := retrosheet.ParseGameID(id); !errors.Is(err, retrosheet.ErrInvalidGameID) {
			t.Fatalf("ParseGameID(%q) error = %v, want ErrInvalidGameID", id, err)
		}
	}
}

func TestNewGameInitializesCollections(t *testing.T) {
	game, err := retrosheet.NewGame("SFN200904070")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if game.Info == nil || game.StartingLineups.Home == nil || game.StartingLineups.Away == nil ||
		game.Events == nil || game.EarnedRunData == nil {
		t.Fatalf("expected every collection initialized: %+v", game)
	}
}

func TestGameJSONShape(t *testing.T) {
	game, err := retrosheet.NewGame("SFN200904070")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	game.Events = append(game.Events,
		&retrosheet.PlayEvent{
			Inning:        1,
			Half:          retrosheet.HalfTop,
			PlayerID:      "bondb001",
			PitchSequence: []string{"C"},
			Details:       retrosheet.ParsePlay("K"),
		},
		&retrosheet.CommentEvent{Lines: []string{"one"}},
		&retrosheet.LineupAdjustmentEvent{FirstField: "0", SecondField: "9"},
	)

	data, err := json.Marshal(game)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var doc struct {
		ID            string           `json:"id"`
		FormatVersion *string          `json:"formatVersion"`
		Events        []map[string]any `json:"events"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.ID != "SFN200904070" {
		t.Fatalf("unexpected id %q", doc.ID)
	}
	if doc.FormatVersion != nil {
		t.Fatalf("expected formatVersion omitted, got %q", *doc.FormatVersion)
	}
	if len(doc.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(doc.Events))
	}

	play := doc.Events[0]
	if play["type"] != "play" || play["half"] != "top" || play["playerId"] != "bondb001" {
		t.Fatalf("unexpected play document: %v", play)
	}
	if _, ok := play["countOnBatter"]; ok {
		t.Fatalf("expected unknown count omitted: %v", play)
	}
	if doc.Events[1]["type"] != "comment" {
		t.Fatalf("unexpected comment document: %v", doc.Events[1])
	}
	ladj := doc.Events[2]
	if ladj["type"] != "lineupAdjustment" || ladj["firstField"] != "0" || ladj["secondField"] != "9" {
		t.Fatalf("unexpected ladj document: %v", ladj)
	}
}
