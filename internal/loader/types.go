package loader

import (
	"context"
	"time"

	"github.com/fortuna/retroload/internal/publisher"
	"github.com/fortuna/retroload/internal/store"
)

// FileKind classifies the files of an extract directory.
type FileKind string

const (
	FileTeams   FileKind = "teams"
	FileRosters FileKind = "rosters"
	FileEvents  FileKind = "events"
)

// DocumentWriter is the insert-only surface of the document store.
type DocumentWriter interface {
	Insert(ctx context.Context, c store.Collection, id string, doc any) store.InsertResult
}

// Publisher receives a notification for every newly stored game.
type Publisher interface {
	PublishGameLoaded(ctx context.Context, evt publisher.GameLoaded) error
}

// Reporter receives lifecycle callbacks from the loader.
type Reporter interface {
	OnLoadStart(dir, runID string, files int)
	OnFileStart(kind FileKind, name string, index, total int)
	OnFileSkipped(name string, err error)
	OnDocument(result store.InsertResult)
	OnLoadComplete(summary Summary)
}

// Counts tallies insert outcomes for one collection.
type Counts struct {
	Stored     int
	Duplicates int
	Failed     int
}

func (c *Counts) add(res store.InsertResult) {
	switch res.Outcome {
	case store.InsertOK:
		c.Stored++
	case store.InsertDuplicate:
		c.Duplicates++
	default:
		c.Failed++
	}
}

// Summary describes a finished directory load.
type Summary struct {
	RunID         string
	Dir           string
	Files         int
	FilesSkipped  int
	Games         Counts
	Teams         Counts
	Rosters       Counts
	RecordErrors  int
	SkippedLines  int
	Substitutions int
	Duration      time.Duration
}

func (s *Summary) counts(c store.Collection) *Counts {
	switch c {
	case store.CollectionTeams:
		return &s.Teams
	case store.CollectionRosters:
		return &s.Rosters
	default:
		return &s.Games
	}
}

type nopReporter struct{}

func (nopReporter) OnLoadStart(string, string, int)        {}
func (nopReporter) OnFileStart(FileKind, string, int, int) {}
func (nopReporter) OnFileSkipped(string, error)            {}
func (nopReporter) OnDocument(store.InsertResult)          {}
func (nopReporter) OnLoadComplete(Summary)                 {}
