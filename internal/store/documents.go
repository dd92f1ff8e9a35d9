package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names a document table.
type Collection string

const (
	CollectionGames   Collection = "games"
	CollectionTeams   Collection = "teams"
	CollectionRosters Collection = "rosters"
)

// Collections returns every collection the store manages.
func Collections() []Collection {
	return []Collection{CollectionGames, CollectionTeams, CollectionRosters}
}

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// InsertOutcome classifies an insert attempt.
type InsertOutcome int

const (
	InsertOK InsertOutcome = iota
	InsertDuplicate
	InsertFailed
)

func (o InsertOutcome) String() string {
	switch o {
	case InsertOK:
		return "ok"
	case InsertDuplicate:
		return "duplicate"
	default:
		return "failed"
	}
}

// InsertResult reports the fate of one document. Err is nil only for
// InsertOK.
type InsertResult struct {
	Collection Collection
	ID         string
	Outcome    InsertOutcome
	Err        error
}

// OK reports whether the document was stored.
func (r InsertResult) OK() bool {
	return r.Outcome == InsertOK
}

// Insert stores doc under id. The store is insert-only: an existing id is
// never overwritten and yields InsertDuplicate.
func (db *Database) Insert(ctx context.Context, c Collection, id string, doc any) InsertResult {
	result := InsertResult{Collection: c, ID: id}
	if id == "" {
		result.Outcome = InsertFailed
		result.Err = errors.New("insert: empty document id")
		return result
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		result.Outcome = InsertFailed
		result.Err = fmt.Errorf("marshal %s document %s: %w", c, id, err)
		return result
	}

	if _, err := db.conn.ExecContext(ctx, db.dialect.insertQuery(c), id, string(payload)); err != nil {
		result.Err = fmt.Errorf("insert %s document %s: %w", c, id, err)
		if db.dialect.isDuplicate(err) {
			result.Outcome = InsertDuplicate
		} else {
			result.Outcome = InsertFailed
		}
		return result
	}

	result.Outcome = InsertOK
	return result
}

// Get returns the raw JSON document stored under id.
func (db *Database) Get(ctx context.Context, c Collection, id string) (json.RawMessage, error) {
	query := fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", c)

	var doc []byte
	err := db.conn.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, c, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s document: %w", c, err)
	}
	return json.RawMessage(doc), nil
}

// Filter narrows List to ids with the given prefix and/or suffix.
type Filter struct {
	Prefix string
	Suffix string
	Limit  int
}

// List returns documents of c matching filter, ordered by id. Placeholders
// are numbered in order of appearance so both drivers bind them the same way.
func (db *Database) List(ctx context.Context, c Collection, filter Filter) ([]json.RawMessage, error) {
	query := fmt.Sprintf("SELECT doc FROM %s WHERE 1=1", c)
	var args []any
	if filter.Prefix != "" {
		args = append(args, filter.Prefix, len(filter.Prefix))
		query += fmt.Sprintf(" AND CAST($%d AS TEXT) = substr(id, 1, CAST($%d AS INTEGER))", len(args)-1, len(args))
	}
	if filter.Suffix != "" {
		args = append(args, filter.Suffix, len(filter.Suffix))
		query += fmt.Sprintf(" AND CAST($%d AS TEXT) = substr(id, length(id) - CAST($%d AS INTEGER) + 1)", len(args)-1, len(args))
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s documents: %w", c, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning %s document: %w", c, err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	return docs, rows.Err()
}

// Count returns the number of documents in c.
func (db *Database) Count(ctx context.Context, c Collection) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", c)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s documents: %w", c, err)
	}
	return n, nil
}
