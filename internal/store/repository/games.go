package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fortuna/retroload/internal/store"
)

// DefaultGameLimit caps game listings when the caller gives no limit.
const DefaultGameLimit = 100

// GameRepository handles game document access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// GetByID returns the stored game document. Missing games wrap
// store.ErrNotFound.
func (r *GameRepository) GetByID(ctx context.Context, gameID string) (json.RawMessage, error) {
	doc, err := r.db.Get(ctx, store.CollectionGames, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return doc, nil
}

// ListByHomeSeason returns games hosted by home, optionally narrowed to one
// season. Game ids begin with the home code and year, so both filters are
// id prefixes.
func (r *GameRepository) ListByHomeSeason(ctx context.Context, home, year string, limit int) ([]json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultGameLimit
	}
	prefix := home
	if home != "" {
		prefix += year
	}
	docs, err := r.db.List(ctx, store.CollectionGames, store.Filter{Prefix: prefix, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return docs, nil
}
