package benchmarks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRunStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	started := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	record := RunRecord{
		ID:            uuid.NewString(),
		Benchmark:     "learn",
		Seed:          42,
		StartedAt:     started,
		FinishedAt:    started.Add(time.Minute),
		NumOperators:  3,
		NumInventions: 1,
		Summary:       "test run",
	}
	if err := store.SaveRun(record); err != nil {
		t.Fatalf("saving run: %v", err)
	}
	if err := store.SaveRun(RunRecord{
		ID: uuid.NewString(), Benchmark: "invent", Seed: 7,
		StartedAt: started, FinishedAt: started,
	}); err != nil {
		t.Fatalf("saving second run: %v", err)
	}

	runs, err := store.Runs("learn")
	if err != nil {
		t.Fatalf("reading runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 learn run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != record.ID || got.Seed != 42 || got.NumOperators != 3 ||
		got.NumInventions != 1 || got.Summary != "test run" {
		t.Errorf("round-tripped record differs: %+v", got)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := GetRootCommand()
	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"learn", "invent", "interactive"} {
		if !names[want] {
			t.Errorf("missing subcommand %s", want)
		}
	}
}
