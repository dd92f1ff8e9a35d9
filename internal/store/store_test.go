package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fortuna/retroload/internal/store"
	"github.com/fortuna/retroload/internal/testsupport"
)

type doc struct {
	ID   string `json:"id"`
	Home string `json:"home"`
}

func TestInsertAndGet(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	res := db.Insert(ctx, store.CollectionGames, "SFN200904070", doc{ID: "SFN200904070", Home: "SFN"})
	if !res.OK() || res.Err != nil {
		t.Fatalf("insert: %s %v", res.Outcome, res.Err)
	}

	raw, err := db.Get(ctx, store.CollectionGames, "SFN200904070")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var got doc
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Home != "SFN" {
		t.Fatalf("unexpected document %+v", got)
	}
}

func TestInsertDuplicateKeepsOriginal(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustInsert(t, db, store.CollectionTeams, "SFN2009", doc{ID: "SFN2009", Home: "first"})

	res := db.Insert(ctx, store.CollectionTeams, "SFN2009", doc{ID: "SFN2009", Home: "second"})
	if res.Outcome != store.InsertDuplicate {
		t.Fatalf("expected duplicate, got %s (%v)", res.Outcome, res.Err)
	}
	if res.Err == nil {
		t.Fatal("expected duplicate to carry an error")
	}

	raw, err := db.Get(ctx, store.CollectionTeams, "SFN2009")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var got doc
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Home != "first" {
		t.Fatalf("duplicate overwrote document: %+v", got)
	}
}

func TestInsertEmptyIDFails(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	res := db.Insert(context.Background(), store.CollectionRosters, "", doc{})
	if res.Outcome != store.InsertFailed || res.Err == nil {
		t.Fatalf("expected failure, got %+v", res)
	}
}

func TestInsertUnmarshalableFails(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	res := db.Insert(context.Background(), store.CollectionGames, "X", make(chan int))
	if res.Outcome != store.InsertFailed {
		t.Fatalf("expected failure, got %s", res.Outcome)
	}
}

func TestGetMissing(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := db.Get(context.Background(), store.CollectionGames, "NOPE")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, id := range []string{"SFN2009", "MIL2009", "SFN2010", "NYA2009"} {
		testsupport.MustInsert(t, db, store.CollectionTeams, id, doc{ID: id})
	}

	cases := []struct {
		name   string
		filter store.Filter
		want   []string
	}{
		{"all", store.Filter{}, []string{"MIL2009", "NYA2009", "SFN2009", "SFN2010"}},
		{"prefix", store.Filter{Prefix: "SFN"}, []string{"SFN2009", "SFN2010"}},
		{"suffix", store.Filter{Suffix: "2009"}, []string{"MIL2009", "NYA2009", "SFN2009"}},
		{"both", store.Filter{Prefix: "SFN", Suffix: "2010"}, []string{"SFN2010"}},
		{"limit", store.Filter{Suffix: "2009", Limit: 2}, []string{"MIL2009", "NYA2009"}},
		{"no match", store.Filter{Prefix: "BOS"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs, err := db.List(ctx, store.CollectionTeams, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(docs) != len(tc.want) {
				t.Fatalf("expected %d docs, got %d", len(tc.want), len(docs))
			}
			for i, raw := range docs {
				var got doc
				if err := json.Unmarshal(raw, &got); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if got.ID != tc.want[i] {
					t.Fatalf("doc %d: expected %s, got %s", i, tc.want[i], got.ID)
				}
			}
		})
	}
}

func TestResetAndCount(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.MustInsert(t, db, store.CollectionGames, "A", doc{ID: "A"})
	testsupport.MustInsert(t, db, store.CollectionGames, "B", doc{ID: "B"})

	n, err := db.Count(ctx, store.CollectionGames)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}

	if err := db.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for _, c := range store.Collections() {
		n, err := db.Count(ctx, c)
		if err != nil || n != 0 {
			t.Fatalf("%s after reset: %d, %v", c, n, err)
		}
	}

	testsupport.MustInsert(t, db, store.CollectionGames, "A", doc{ID: "A"})
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := store.NewDatabase(context.Background(), "mongo", "x"); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestHealthCheck(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if db.Driver() != "sqlite" {
		t.Fatalf("unexpected driver %q", db.Driver())
	}
}
