// Package loader walks a Retrosheet extract directory and writes its teams,
// rosters and games into the document store.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
)

// Options tunes a Loader. Zero values are usable.
type Options struct {
	RunID     string
	Publisher Publisher
	Reporter  Reporter
	Logger    *slog.Logger
}

// Loader processes extract directories sequentially, one file at a time.
type Loader struct {
	writer   DocumentWriter
	emitter  *Emitter
	reporter Reporter
	logger   *slog.Logger
	runID    string
}

// New returns a loader writing to writer.
func New(writer DocumentWriter, opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	logger = logger.With("run_id", runID)
	return &Loader{
		writer:   writer,
		emitter:  NewEmitter(writer, opts.Publisher, runID, logger),
		reporter: reporter,
		logger:   logger,
		runID:    runID,
	}
}

// RunID identifies this loader's run in logs and notifications.
func (l *Loader) RunID() string {
	return l.runID
}

type job struct {
	kind FileKind
	path string
}

// ProcessDirectory loads every team, roster and event file in dir, in that
// order and lexically within each kind. Per-file and per-record problems are
// logged and counted; only an unreadable directory or a cancelled context
// stops the batch, which then ends after the file in progress.
func (l *Loader) ProcessDirectory(ctx context.Context, dir string) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: l.runID, Dir: dir}

	jobs, err := collectJobs(dir)
	if err != nil {
		return summary, err
	}
	l.reporter.OnLoadStart(dir, l.runID, len(jobs))
	l.logger.Info("load started", "dir", dir, "files", len(jobs))

	for idx, j := range jobs {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		name := filepath.Base(j.path)
		l.reporter.OnFileStart(j.kind, name, idx, len(jobs))

		var fileErr error
		switch j.kind {
		case FileTeams:
			fileErr = l.loadTeams(ctx, j.path, &summary)
		case FileRosters:
			fileErr = l.loadRoster(ctx, j.path, &summary)
		case FileEvents:
			fileErr = l.loadEvents(ctx, j.path, &summary)
		}
		if fileErr != nil {
			summary.FilesSkipped++
			l.logger.Warn("skipping file", "file", name, "error", fileErr)
			l.reporter.OnFileSkipped(name, fileErr)
			continue
		}
		summary.Files++
	}

	summary.Duration = time.Since(start)
	l.logger.Info("load complete",
		"files", summary.Files,
		"files_skipped", summary.FilesSkipped,
		"games", summary.Games.Stored,
		"duplicates", summary.Games.Duplicates+summary.Teams.Duplicates+summary.Rosters.Duplicates,
		"failed", summary.Games.Failed+summary.Teams.Failed+summary.Rosters.Failed,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	l.reporter.OnLoadComplete(summary)
	return summary, nil
}

func collectJobs(dir string) ([]job, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat extract dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("extract dir %s is not a directory", dir)
	}

	classes := []struct {
		kind FileKind
		glob string
	}{
		{FileTeams, retrosheet.TeamFileGlob},
		{FileRosters, retrosheet.RosterFileGlob},
		{FileEvents, retrosheet.EventFileGlob},
	}

	seen := make(map[string]struct{})
	var jobs []job
	for _, class := range classes {
		// Glob returns matches in lexical order.
		matches, err := filepath.Glob(filepath.Join(dir, class.glob))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", class.glob, err)
		}
		for _, path := range matches {
			if _, dup := seen[path]; dup {
				continue
			}
			if fi, err := os.Stat(path); err != nil || fi.IsDir() {
				continue
			}
			seen[path] = struct{}{}
			jobs = append(jobs, job{kind: class.kind, path: path})
		}
	}
	return jobs, nil
}

func (l *Loader) insert(ctx context.Context, c store.Collection, id string, doc any, summary *Summary) {
	res := l.writer.Insert(ctx, c, id, doc)
	l.record(res, summary)
	switch res.Outcome {
	case store.InsertOK:
	case store.InsertDuplicate:
		l.logger.Warn("document already stored", "collection", c, "id", id)
	default:
		l.logger.Warn("document insert failed", "collection", c, "id", id, "error", res.Err)
	}
}

func (l *Loader) record(res store.InsertResult, summary *Summary) {
	summary.counts(res.Collection).add(res)
	l.reporter.OnDocument(res)
}

func (l *Loader) loadTeams(ctx context.Context, path string, summary *Summary) error {
	meta, err := retrosheet.ParseTeamFileName(path)
	if err != nil {
		return err
	}
	teams, skipped, err := parseFile(path, func(r io.Reader) ([]retrosheet.Team, int, error) {
		return retrosheet.ParseTeams(r, meta.Year)
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		l.logger.Warn("skipped malformed team lines", "file", filepath.Base(path), "lines", skipped)
	}
	summary.SkippedLines += skipped

	for _, team := range teams {
		l.insert(ctx, store.CollectionTeams, team.ID, team, summary)
	}
	l.logger.Debug("team file loaded", "file", filepath.Base(path), "year", meta.Year, "teams", len(teams))
	return nil
}

func (l *Loader) loadRoster(ctx context.Context, path string, summary *Summary) error {
	meta, err := retrosheet.ParseRosterFileName(path)
	if err != nil {
		return err
	}
	entries, skipped, err := parseFile(path, func(r io.Reader) ([]retrosheet.RosterEntry, int, error) {
		return retrosheet.ParseRoster(r, meta.Year)
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		l.logger.Warn("skipped malformed roster lines", "file", filepath.Base(path), "lines", skipped)
	}
	summary.SkippedLines += skipped

	for _, entry := range entries {
		l.insert(ctx, store.CollectionRosters, entry.ID, entry, summary)
	}
	l.logger.Debug("roster file loaded", "file", filepath.Base(path), "team", meta.Team, "year", meta.Year, "players", len(entries))
	return nil
}

func (l *Loader) loadEvents(ctx context.Context, path string, summary *Summary) error {
	meta, err := retrosheet.ParseEventFileName(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open event file: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	logger := l.logger.With("file", name)
	emitter := l.emitter.ForFile(name)
	asm := retrosheet.NewAssembler(func(game *retrosheet.Game) {
		l.record(emitter.Emit(ctx, game), summary)
	}, logger)

	readErr := retrosheet.ReadEvents(f, asm, func(lineErr *retrosheet.LineError) {
		summary.RecordErrors++
		if errors.Is(lineErr, retrosheet.ErrUnsupportedRecord) {
			return
		}
		logger.Warn("skipping record", "line", lineErr.Line, "error", lineErr.Err)
	})
	// The last game of a file has no following id record.
	asm.Flush()

	stats := asm.Stats()
	summary.Substitutions += stats.Substitutions
	logger.Debug("event file loaded", "team", meta.Team, "year", meta.Year,
		"games", stats.Games, "records", stats.Applied, "rejected", stats.Rejected)
	return readErr
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, int, error)) ([]T, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return parse(f)
}
