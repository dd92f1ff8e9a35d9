package loader_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fortuna/retroload/internal/loader"
	"github.com/fortuna/retroload/internal/publisher"
	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
	"github.com/fortuna/retroload/internal/testsupport"
)

type memoryWriter struct {
	mu   sync.Mutex
	docs map[store.Collection]map[string]any
	fail map[string]bool
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{docs: make(map[store.Collection]map[string]any), fail: make(map[string]bool)}
}

func (w *memoryWriter) Insert(_ context.Context, c store.Collection, id string, doc any) store.InsertResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	res := store.InsertResult{Collection: c, ID: id}
	if w.fail[id] {
		res.Outcome = store.InsertFailed
		res.Err = errors.New("boom")
		return res
	}
	if w.docs[c] == nil {
		w.docs[c] = make(map[string]any)
	}
	if _, ok := w.docs[c][id]; ok {
		res.Outcome = store.InsertDuplicate
		res.Err = errors.New("duplicate")
		return res
	}
	w.docs[c][id] = doc
	return res
}

type capturePublisher struct {
	events []publisher.GameLoaded
	err    error
}

func (p *capturePublisher) PublishGameLoaded(_ context.Context, evt publisher.GameLoaded) error {
	p.events = append(p.events, evt)
	return p.err
}

type captureReporter struct {
	started   bool
	files     []string
	skipped   []string
	documents int
	completed *loader.Summary
}

func (r *captureReporter) OnLoadStart(string, string, int) { r.started = true }
func (r *captureReporter) OnFileStart(_ loader.FileKind, name string, _, _ int) {
	r.files = append(r.files, name)
}
func (r *captureReporter) OnFileSkipped(name string, _ error)    { r.skipped = append(r.skipped, name) }
func (r *captureReporter) OnDocument(store.InsertResult)         { r.documents++ }
func (r *captureReporter) OnLoadComplete(summary loader.Summary) { r.completed = &summary }

func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testsupport.WriteExtract(t, dir, testsupport.SampleExtract())
	return dir
}

func TestProcessDirectoryLoadsEverything(t *testing.T) {
	dir := sampleDir(t)
	writer := newMemoryWriter()
	pub := &capturePublisher{}
	rep := &captureReporter{}

	l := loader.New(writer, loader.Options{RunID: "run-1", Publisher: pub, Reporter: rep})
	summary, err := l.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}

	if summary.Files != 3 || summary.FilesSkipped != 0 {
		t.Fatalf("unexpected file counts %+v", summary)
	}
	if summary.Teams.Stored != 2 || summary.Rosters.Stored != 2 || summary.Games.Stored != 2 {
		t.Fatalf("unexpected stored counts %+v", summary)
	}
	if summary.RecordErrors != 0 || summary.SkippedLines != 0 {
		t.Fatalf("unexpected error counts %+v", summary)
	}
	if summary.Substitutions != 1 {
		t.Fatalf("expected one substitution, got %d", summary.Substitutions)
	}

	wantOrder := []string{"TEAM2009", "SFN2009.ROS", "2009SFN.EVN"}
	if len(rep.files) != len(wantOrder) {
		t.Fatalf("unexpected files %v", rep.files)
	}
	for i, name := range wantOrder {
		if rep.files[i] != name {
			t.Fatalf("file %d: expected %s, got %s", i, name, rep.files[i])
		}
	}
	if !rep.started || rep.completed == nil || rep.documents != 6 {
		t.Fatalf("reporter not driven: %+v", rep)
	}

	game, ok := writer.docs[store.CollectionGames][testsupport.SampleGameOne].(*retrosheet.Game)
	if !ok {
		t.Fatalf("game %s not stored", testsupport.SampleGameOne)
	}
	if len(game.Events) != 4 || len(game.EarnedRunData) != 1 {
		t.Fatalf("unexpected game content: %d events, %d earned runs", len(game.Events), len(game.EarnedRunData))
	}
	if _, ok := writer.docs[store.CollectionGames][testsupport.SampleGameTwo]; !ok {
		t.Fatal("last game of the file was not flushed")
	}
	if _, ok := writer.docs[store.CollectionTeams]["SFN2009"]; !ok {
		t.Fatal("team SFN2009 not stored")
	}
	if _, ok := writer.docs[store.CollectionRosters]["SFN:2009:lincl001"]; !ok {
		t.Fatal("roster entry not stored")
	}

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(pub.events))
	}
	if evt := pub.events[0]; evt.ID != testsupport.SampleGameOne || evt.RunID != "run-1" || evt.SourceFile != "2009SFN.EVN" || evt.Events != 4 {
		t.Fatalf("unexpected notification %+v", evt)
	}
}

func TestProcessDirectoryDuplicatesAndFailures(t *testing.T) {
	dir := sampleDir(t)
	writer := newMemoryWriter()
	writer.fail[testsupport.SampleGameTwo] = true
	pub := &capturePublisher{err: errors.New("redis down")}

	l := loader.New(writer, loader.Options{Publisher: pub})
	if l.RunID() == "" {
		t.Fatal("expected generated run id")
	}
	first, err := l.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Games.Stored != 1 || first.Games.Failed != 1 {
		t.Fatalf("unexpected first load %+v", first.Games)
	}
	if len(pub.events) != 1 {
		t.Fatalf("failed inserts must not notify, got %d events", len(pub.events))
	}

	second, err := l.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.Games.Duplicates != 1 || second.Teams.Duplicates != 2 || second.Rosters.Duplicates != 2 {
		t.Fatalf("expected duplicates on reload, got %+v", second)
	}
	if second.Games.Stored != 0 || len(pub.events) != 1 {
		t.Fatalf("duplicates must not be stored or announced: %+v", second)
	}
}

func TestProcessDirectorySkipsBadFiles(t *testing.T) {
	dir := sampleDir(t)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.EVN"), "id,SFN200904090\n")
	testsupport.WriteFile(t, filepath.Join(dir, "2009SFN.EVA"), "id,BAD\nplay,1,0,x,00,X,S8\nid,SFN200904100\nbogus,1\n")
	rep := &captureReporter{}

	summary, err := loader.New(newMemoryWriter(), loader.Options{Reporter: rep}).ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if summary.FilesSkipped != 1 || len(rep.skipped) != 1 || rep.skipped[0] != "notes.EVN" {
		t.Fatalf("expected notes.EVN skipped, got %+v / %v", summary, rep.skipped)
	}
	// 2009SFN.EVA sorts before 2009SFN.EVN and contributes one game.
	if summary.Games.Stored != 3 {
		t.Fatalf("expected 3 games, got %d", summary.Games.Stored)
	}
	if summary.RecordErrors != 2 {
		t.Fatalf("expected invalid id and unknown tag errors, got %d", summary.RecordErrors)
	}
}

func TestProcessDirectoryHonorsCancellation(t *testing.T) {
	dir := sampleDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := loader.New(newMemoryWriter(), loader.Options{}).ProcessDirectory(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Files != 0 {
		t.Fatalf("expected no files processed, got %d", summary.Files)
	}
}

func TestProcessDirectoryMissingDir(t *testing.T) {
	_, err := loader.New(newMemoryWriter(), loader.Options{}).ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestProcessDirectoryIntoSQLite(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExtract())
	db := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	summary, err := loader.New(db, loader.Options{}).ProcessDirectory(ctx, cfg.Load.Dir)
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if summary.Games.Stored != 2 {
		t.Fatalf("expected 2 games, got %+v", summary.Games)
	}

	raw, err := db.Get(ctx, store.CollectionGames, testsupport.SampleGameOne)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for _, want := range []string{`"type":"play"`, `"type":"comment"`, `"type":"battingAdjustment"`, `"lines":["first line","second line"]`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("stored game missing %s: %s", want, raw)
		}
	}

	again, err := loader.New(db, loader.Options{}).ProcessDirectory(ctx, cfg.Load.Dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Games.Duplicates != 2 || again.Games.Stored != 0 {
		t.Fatalf("expected duplicates on reload, got %+v", again.Games)
	}
}
