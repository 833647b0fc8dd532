package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/config"
	"github.com/anagarval/minerva/internal/db"
)

func newTestRepo(t *testing.T) block.Repository {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// run executes a single command on a fresh command tree, so flag state
// never leaks between invocations.
func run(t *testing.T, repo block.Repository, args ...string) error {
	t.Helper()
	app := NewApp(repo, config.Default())
	app.root.SetArgs(args)
	return app.Execute()
}

func TestAddCreatesBacklogBlock(t *testing.T) {
	repo := newTestRepo(t)

	err := run(t, repo, "add", "Derivatives worksheet", "--subject=Math", "--duration=90")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	blocks, err := repo.ListBlocks(context.Background())
	if err != nil {
		t.Fatalf("listing blocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Title != "Derivatives worksheet" || b.Subject != "Math" || b.DurationMinutes != 90 {
		t.Errorf("unexpected block: %+v", b)
	}
	if b.IsScheduled() {
		t.Error("block should be in the backlog")
	}
	if b.Color != block.SubjectColor("Math") {
		t.Errorf("color = %q, want subject color", b.Color)
	}
}

func TestAddSchedulesAndPins(t *testing.T) {
	repo := newTestRepo(t)

	err := run(t, repo, "add", "Mock exam", "--subject=History",
		"--date=tomorrow", "--at=16:00", "--duration=60")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	blocks, err := repo.ListBlocks(context.Background())
	if err != nil {
		t.Fatalf("listing blocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if !b.IsScheduled() {
		t.Fatal("block should be scheduled")
	}
	if b.StartHour() != 16 {
		t.Errorf("start hour = %v, want 16", b.StartHour())
	}
	if !b.Pinned {
		t.Error("hand-placed block should be pinned")
	}
}

func TestAddRejectsOffGridStart(t *testing.T) {
	repo := newTestRepo(t)

	err := run(t, repo, "add", "Essay", "--date=tomorrow", "--at=16:20")
	if err == nil {
		t.Fatal("expected error for a start time off the quarter-hour grid")
	}
}

func TestCompleteTogglesBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b, err := block.New("Math", "Algebra", 60, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatal(err)
	}

	if err := run(t, repo, "complete", "1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Error("block should be completed")
	}

	if err := run(t, repo, "complete", "1", "--undo"); err != nil {
		t.Fatalf("complete --undo: %v", err)
	}
	got, err = repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Error("block should be reopened")
	}
}

func TestCompleteUnknownBlock(t *testing.T) {
	repo := newTestRepo(t)

	err := run(t, repo, "complete", "999")
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestRemoveDeletesBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b, err := block.New("Math", "Algebra", 60, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatal(err)
	}

	if err := run(t, repo, "remove", "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	blocks, err := repo.ListBlocks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 0 {
		t.Errorf("got %d blocks, want 0", len(blocks))
	}
}

func TestWindowsAddValidates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := run(t, repo, "windows", "add", "Sleep",
		"--start=22:30", "--end=07:00", "--days=daily")
	if err != nil {
		t.Fatalf("windows add: %v", err)
	}

	windows, err := repo.ListWindows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if w.StartHour != 22.5 || w.EndHour != 7 || len(w.Days) != 7 {
		t.Errorf("unexpected window: %+v", w)
	}

	// Overlapping window on a shared day is rejected ordered-last.
	err = run(t, repo, "windows", "add", "Late class",
		"--start=23:00", "--end=23:45", "--days=mon")
	if !errors.Is(err, block.ErrWindowOverlap) {
		t.Errorf("expected ErrWindowOverlap, got %v", err)
	}
}

func TestWindowsRemove(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := run(t, repo, "windows", "add", "Training",
		"--start=17:00", "--end=19:00", "--days=tue,thu"); err != nil {
		t.Fatalf("windows add: %v", err)
	}
	if err := run(t, repo, "windows", "remove", "1"); err != nil {
		t.Fatalf("windows remove: %v", err)
	}

	windows, err := repo.ListWindows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 0 {
		t.Errorf("got %d windows, want 0", len(windows))
	}
}

func TestPlanSchedulesBacklog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, title := range []string{"Algebra", "Essay"} {
		b, err := block.New("Math", title, 60, 50, 50)
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.CreateBlock(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	// Default config has no LLM provider, so the local planner answers.
	if err := run(t, repo, "plan", "--yes"); err != nil {
		t.Fatalf("plan: %v", err)
	}

	blocks, err := repo.ListBlocks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range blocks {
		if !b.IsScheduled() {
			t.Errorf("block %q left unscheduled", b.Title)
		}
		if b.Pinned {
			t.Errorf("auto-scheduled block %q should not be pinned", b.Title)
		}
	}
}

func TestPlanDryRunSavesNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b, err := block.New("Math", "Algebra", 60, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateBlock(ctx, b); err != nil {
		t.Fatal(err)
	}

	if err := run(t, repo, "plan", "--dry-run"); err != nil {
		t.Fatalf("plan --dry-run: %v", err)
	}

	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsScheduled() {
		t.Error("dry run must not schedule anything")
	}
}

func TestPlanEmptyBacklog(t *testing.T) {
	repo := newTestRepo(t)

	if err := run(t, repo, "plan", "--yes"); err != nil {
		t.Fatalf("plan on empty backlog should not error: %v", err)
	}
}
