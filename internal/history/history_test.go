package history

import (
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func sampleRun(age time.Duration) Run {
	start := time.Now().Add(-age)
	return Run{
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Sources:    120,
		Releases:   25,
		Entries:    25,
		Output:     "github.xml",
	}
}

func TestRecordAssignsID(t *testing.T) {
	db, _ := testDB(t)

	id, err := db.Record(sampleRun(time.Minute))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected a UUID, got %q", id)
	}

	runs, err := db.Recent(5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != id || runs[0].Sources != 120 || runs[0].Entries != 25 {
		t.Errorf("unexpected run %+v", runs[0])
	}
	if !runs[0].OK() {
		t.Error("expected successful run")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	db, _ := testDB(t)

	old := sampleRun(48 * time.Hour)
	old.ID = "old"
	failed := sampleRun(time.Hour)
	failed.ID = "new"
	failed.Err = "listing failed"

	for _, r := range []Run{old, failed} {
		if _, err := db.Record(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	runs, err := db.Recent(0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" {
		t.Errorf("expected newest first, got %s", runs[0].ID)
	}
	if runs[0].OK() {
		t.Error("expected failed run to report !OK")
	}
}

func TestPrune(t *testing.T) {
	db, _ := testDB(t)

	for _, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour, 90 * 24 * time.Hour} {
		if _, err := db.Record(sampleRun(age)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	deleted, err := db.Prune(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 pruned, got %d", deleted)
	}

	runs, err := db.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 remaining run, got %d", len(runs))
	}
}

func TestPruneNothing(t *testing.T) {
	db, _ := testDB(t)
	deleted, err := db.Prune(time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	db, path := testDB(t)
	for i := 0; i < 3; i++ {
		if _, err := db.Record(sampleRun(time.Duration(i) * time.Hour)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	count, size, err := db.Stats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 runs, got %d", count)
	}
	if size <= 0 {
		t.Errorf("expected positive db size, got %d", size)
	}
}
