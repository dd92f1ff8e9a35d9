package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
	"github.com/fortuna/retroload/internal/store/repository"
	"github.com/fortuna/retroload/internal/testsupport"
)

func seed(t *testing.T) *store.Database {
	t.Helper()
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	for _, id := range []string{"SFN200904070", "SFN200904080", "SFN201004050", "MIL200904070"} {
		game, err := retrosheet.NewGame(id)
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		testsupport.MustInsert(t, db, store.CollectionGames, game.ID, game)
	}
	for _, team := range []retrosheet.Team{
		{ID: "SFN2009", TeamCode: "SFN", Year: "2009", League: "N", Place: "San Francisco", Team: "Giants"},
		{ID: "MIL2009", TeamCode: "MIL", Year: "2009", League: "N", Place: "Milwaukee", Team: "Brewers"},
		{ID: "SFN2010", TeamCode: "SFN", Year: "2010", League: "N", Place: "San Francisco", Team: "Giants"},
	} {
		testsupport.MustInsert(t, db, store.CollectionTeams, team.ID, team)
	}
	for _, entry := range []retrosheet.RosterEntry{
		{ID: retrosheet.RosterKey("SFN", "2009", "sandp001"), Team: "SFN", Year: "2009", PlayerID: "sandp001"},
		{ID: retrosheet.RosterKey("SFN", "2009", "lincl001"), Team: "SFN", Year: "2009", PlayerID: "lincl001"},
		{ID: retrosheet.RosterKey("SFN", "2010", "poseb001"), Team: "SFN", Year: "2010", PlayerID: "poseb001"},
	} {
		testsupport.MustInsert(t, db, store.CollectionRosters, entry.ID, entry)
	}
	return db
}

func TestGameRepository(t *testing.T) {
	db := seed(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	doc, err := repo.GetByID(ctx, "SFN200904070")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	var game struct {
		ID   string `json:"id"`
		Home string `json:"home"`
	}
	if err := json.Unmarshal(doc, &game); err != nil || game.Home != "SFN" {
		t.Fatalf("unexpected game %s (%v)", doc, err)
	}

	if _, err := repo.GetByID(ctx, "BOS200904070"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	docs, err := repo.ListByHomeSeason(ctx, "SFN", "2009", 0)
	if err != nil {
		t.Fatalf("ListByHomeSeason: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 SFN 2009 games, got %d", len(docs))
	}

	docs, err = repo.ListByHomeSeason(ctx, "SFN", "", 1)
	if err != nil || len(docs) != 1 {
		t.Fatalf("expected limit to apply, got %d docs (%v)", len(docs), err)
	}
}

func TestTeamRepository(t *testing.T) {
	db := seed(t)
	repo := repository.NewTeamRepository(db)
	ctx := context.Background()

	teams, err := repo.ListByYear(ctx, "2009")
	if err != nil {
		t.Fatalf("ListByYear: %v", err)
	}
	if len(teams) != 2 || teams[0].TeamCode != "MIL" || teams[1].TeamCode != "SFN" {
		t.Fatalf("unexpected teams %+v", teams)
	}

	team, err := repo.GetByCode(ctx, "SFN", "2010")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if team.Year != "2010" || team.Team != "Giants" {
		t.Fatalf("unexpected team %+v", team)
	}
}

func TestRosterRepository(t *testing.T) {
	db := seed(t)
	repo := repository.NewRosterRepository(db)

	entries, err := repo.ListByTeamSeason(context.Background(), "SFN", "2009")
	if err != nil {
		t.Fatalf("ListByTeamSeason: %v", err)
	}
	if len(entries) != 2 || entries[0].PlayerID != "lincl001" || entries[1].PlayerID != "sandp001" {
		t.Fatalf("unexpected roster %+v", entries)
	}
}
