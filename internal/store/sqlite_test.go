package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rcliao/simdeck/internal/load"
	"github.com/rcliao/simdeck/internal/model"
)

const testDeck = `RUNSPEC
DIMENS
 3 3 2 /
OIL
WATER
METRIC
START
 1 JAN 2010 /
GRID
DX
 18*50 /
DY
 18*50 /
DZ
 18*5 /
TOPS
 9*1000 /
PERMX
 18*200 /
PERMY
 18*200 /
PORO
 18*0.25 /
PROPS
SOLUTION
SCHEDULE
WELSPECS
 'P1' 'G1' 2 2 1* 'OIL' /
/
COMPDAT
 'P1' 2* 1 2 'OPEN' /
/
WCONPROD
 'P1' 'OPEN' 'ORAT' 800 4* 150 /
/
FOOBAR
 1 2 3 /
TSTEP
 10 /
WELOPEN
 'P1' 'SHUT' /
/
TSTEP
 10 /
GRUPTREE
 'G1' 'PLAT' /
/
TSTEP
 10 /
`

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func loadDeck(t *testing.T, text string) (*load.Result, error) {
	t.Helper()
	fs := memfs.New()
	if err := util.WriteFile(fs, "/case/TEST.DATA", []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return load.File("/case/TEST.DATA", load.Options{FS: fs})
}

func saveDeck(t *testing.T, s *SQLiteStore, text string) *model.Run {
	t.Helper()
	res, err := loadDeck(t, text)
	run, serr := s.SaveRun(context.Background(), RunParams{
		Path:     res.Path,
		Checksum: res.Checksum,
		Deck:     res.Deck,
		Schedule: res.Schedule,
		Messages: res.Messages,
		Err:      err,
	})
	if serr != nil {
		t.Fatalf("save run: %v", serr)
	}
	return run
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run := saveDeck(t, s, testDeck)
	if run.ID == "" || run.Status != model.RunOK {
		t.Fatalf("run = %+v", run)
	}
	if run.Steps != 4 || run.Wells != 1 {
		t.Errorf("steps %d wells %d", run.Steps, run.Wells)
	}
	if run.Warnings == 0 {
		t.Error("expected the unknown keyword warning to be counted")
	}
	if run.Start == nil || run.Start.Year() != 2010 {
		t.Errorf("start = %v", run.Start)
	}

	got, err := s.GetRun(ctx, "")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got.ID != run.ID || got.Checksum != run.Checksum || got.Keywords != run.Keywords {
		t.Errorf("stored run = %+v, want %+v", got, run)
	}

	diags, err := s.Diagnostics(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range diags {
		if d.Code == "UNKNOWN_KEYWORD" && d.Severity == "warning" {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestWellVersions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run := saveDeck(t, s, testDeck)

	hist, err := s.WellHistory(ctx, WellParams{RunID: run.ID, Well: "P1", History: true})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(hist))
	}
	latest, first := hist[0], hist[1]
	if latest.Version != 2 || latest.Step != 1 || latest.State.Status != "SHUT" {
		t.Errorf("latest = %+v", latest)
	}
	if latest.Supersedes != first.ID {
		t.Errorf("supersedes = %q, want %q", latest.Supersedes, first.ID)
	}
	if first.State.Status != "OPEN" || first.State.Control != "ORAT" || first.State.OpenCompletions != 2 {
		t.Errorf("first = %+v", first.State)
	}
	if v := first.State.Targets["BHP"]; v != 150e5 {
		t.Errorf("BHP target = %v", v)
	}

	tests := []struct {
		step    int
		version int
	}{{0, 1}, {1, 2}, {3, 2}, {-1, 2}}
	for _, tt := range tests {
		got, err := s.WellHistory(ctx, WellParams{Well: "P1", Step: tt.step})
		if err != nil {
			t.Fatalf("step %d: %v", tt.step, err)
		}
		if len(got) != 1 || got[0].Version != tt.version {
			t.Errorf("step %d: got %+v, want version %d", tt.step, got, tt.version)
		}
	}

	if _, err := s.WellHistory(ctx, WellParams{Well: "NOPE", Step: -1}); err == nil {
		t.Error("expected an error for an unknown well")
	}
}

func TestGroupEdges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run := saveDeck(t, s, testDeck)

	tests := []struct {
		step int
		want []model.GroupEdge
	}{
		{0, []model.GroupEdge{{RunID: run.ID, Step: 0, Child: "G1", Parent: "FIELD"}}},
		{1, []model.GroupEdge{{RunID: run.ID, Step: 0, Child: "G1", Parent: "FIELD"}}},
		{2, []model.GroupEdge{
			{RunID: run.ID, Step: 2, Child: "PLAT", Parent: "FIELD"},
			{RunID: run.ID, Step: 2, Child: "G1", Parent: "PLAT"},
		}},
		{-1, []model.GroupEdge{
			{RunID: run.ID, Step: 2, Child: "PLAT", Parent: "FIELD"},
			{RunID: run.ID, Step: 2, Child: "G1", Parent: "PLAT"},
		}},
	}
	for _, tt := range tests {
		got, err := s.GroupEdges(ctx, run.ID, tt.step)
		if err != nil {
			t.Fatalf("step %d: %v", tt.step, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("step %d: got %+v", tt.step, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("step %d edge %d = %+v, want %+v", tt.step, i, got[i], tt.want[i])
			}
		}
	}
}

func TestFailedRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saveDeck(t, s, testDeck)
	failed := saveDeck(t, s, "RUNSPEC\nDIMENS\n 3 3 2 /\nSCHEDULE\nTSTEP\n 1 /\n")
	if failed.Status != model.RunFailed || failed.Error == "" {
		t.Fatalf("run = %+v", failed)
	}

	runs, err := s.ListRuns(ctx, ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != failed.ID {
		t.Fatalf("expected the failed run first, got %+v", runs)
	}

	st, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalRuns != 2 || st.FailedRuns != 1 || len(st.Decks) != 1 || st.Decks[0].Runs != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestDeleteRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older := saveDeck(t, s, testDeck)
	newer := saveDeck(t, s, testDeck)

	if err := s.DeleteRun(ctx, DeleteParams{RunID: newer.ID}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := s.GetRun(ctx, newer.ID); err == nil {
		t.Error("expected error after soft delete")
	}
	latest, err := s.GetRun(ctx, "")
	if err != nil || latest.ID != older.ID {
		t.Fatalf("latest = %+v, err %v", latest, err)
	}

	if err := s.DeleteRun(ctx, DeleteParams{RunID: older.ID, Hard: true}); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	results, err := s.Search(ctx, SearchParams{Query: "P1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no hits after delete, got %d", len(results))
	}
	st, _ := s.Stats(ctx, "")
	if st.TotalRuns != 1 || st.ActiveRuns != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestExportRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run := saveDeck(t, s, testDeck)

	exp, err := s.ExportRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(exp.Keywords) != run.Keywords {
		t.Errorf("keywords = %d, want %d", len(exp.Keywords), run.Keywords)
	}
	if len(exp.Wells) != 2 || len(exp.GroupEdges) != 3 || len(exp.Diagnostics) == 0 {
		t.Errorf("export = %d wells, %d edges, %d diagnostics",
			len(exp.Wells), len(exp.GroupEdges), len(exp.Diagnostics))
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		t.Error("expected db file to be created")
	}
}
