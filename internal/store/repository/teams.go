package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
)

// TeamRepository handles team document access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// ListByYear returns every team of one season ordered by team code.
func (r *TeamRepository) ListByYear(ctx context.Context, year string) ([]retrosheet.Team, error) {
	docs, err := r.db.List(ctx, store.CollectionTeams, store.Filter{Suffix: year})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return decodeAll[retrosheet.Team](docs)
}

// GetByCode finds one team season.
func (r *TeamRepository) GetByCode(ctx context.Context, code, year string) (*retrosheet.Team, error) {
	doc, err := r.db.Get(ctx, store.CollectionTeams, retrosheet.TeamKey(code, year))
	if err != nil {
		return nil, fmt.Errorf("get team %s %s: %w", code, year, err)
	}
	var team retrosheet.Team
	if err := json.Unmarshal(doc, &team); err != nil {
		return nil, fmt.Errorf("decoding team: %w", err)
	}
	return &team, nil
}

func decodeAll[T any](docs []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
