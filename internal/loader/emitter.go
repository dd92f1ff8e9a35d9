package loader

import (
	"context"
	"log/slog"

	"github.com/fortuna/retroload/internal/publisher"
	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
)

// Emitter writes finalized games to the games collection.
type Emitter struct {
	writer    DocumentWriter
	publisher Publisher
	logger    *slog.Logger
	runID     string
	source    string
}

// NewEmitter returns an emitter for one load run. pub may be nil.
func NewEmitter(writer DocumentWriter, pub Publisher, runID string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Emitter{writer: writer, publisher: pub, logger: logger, runID: runID}
}

// ForFile returns a copy of e that tags notifications with the source file.
func (e *Emitter) ForFile(name string) *Emitter {
	cpy := *e
	cpy.source = name
	cpy.logger = e.logger.With("file", name)
	return &cpy
}

// Emit stores game under its id. Non-OK results are logged and returned;
// the caller decides whether to continue. A stored game is announced to the
// publisher, whose failures are logged only.
func (e *Emitter) Emit(ctx context.Context, game *retrosheet.Game) store.InsertResult {
	res := e.writer.Insert(ctx, store.CollectionGames, game.ID, game)
	switch res.Outcome {
	case store.InsertOK:
		e.logger.Debug("game stored", "game_id", game.ID, "events", len(game.Events))
	case store.InsertDuplicate:
		e.logger.Warn("game already stored", "game_id", game.ID)
		return res
	default:
		e.logger.Warn("game insert failed", "game_id", game.ID, "error", res.Err)
		return res
	}

	if e.publisher == nil {
		return res
	}
	evt := publisher.GameLoaded{
		ID:         game.ID,
		Home:       game.Home,
		Year:       game.Year,
		Events:     len(game.Events),
		RunID:      e.runID,
		SourceFile: e.source,
	}
	if err := e.publisher.PublishGameLoaded(ctx, evt); err != nil {
		e.logger.Warn("game notification failed", "game_id", game.ID, "error", err)
	}
	return res
}
