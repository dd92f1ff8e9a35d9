package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
)

// RosterRepository handles roster document access
type RosterRepository struct {
	db *store.Database
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *store.Database) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListByTeamSeason returns the roster of team for year ordered by player id.
func (r *RosterRepository) ListByTeamSeason(ctx context.Context, team, year string) ([]retrosheet.RosterEntry, error) {
	prefix := retrosheet.RosterKey(team, year, "")
	docs, err := r.db.List(ctx, store.CollectionRosters, store.Filter{Prefix: prefix})
	if err != nil {
		return nil, fmt.Errorf("list roster %s %s: %w", team, year, err)
	}
	return decodeAll[retrosheet.RosterEntry](docs)
}
