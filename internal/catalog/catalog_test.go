package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/entrypoint"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func entry(file, name, typ string, line int) entrypoint.EntryPoint {
	return entrypoint.EntryPoint{
		File:        file,
		Name:        name,
		Type:        typ,
		DisplayName: name,
		Span:        ast.Span{File: file, Line: line, Column: 1},
	}
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)

	eps := []entrypoint.EntryPoint{
		entry("a.dng", "intro", config.QuestConfigTypeName, 3),
		entry("a.dng", "cellar", config.DungeonConfigTypeName, 9),
		entry("b.dng", "finale", config.QuestConfigTypeName, 1),
	}
	eps[0].DisplayName = "The Beginning"

	scan, err := c.Record(ctx, "quests", eps)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if scan.EntryPoints != 3 || scan.Root != "quests" {
		t.Errorf("scan = %+v", scan)
	}

	got, err := c.List(ctx, "quests", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff(eps, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	quests, err := c.List(ctx, "quests", config.QuestConfigTypeName)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]entrypoint.EntryPoint{eps[0], eps[2]}, quests); diff != "" {
		t.Errorf("filtered List mismatch (-want +got):\n%s", diff)
	}
}

func TestLatestScanWins(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	first, err := c.Record(ctx, "quests", []entrypoint.EntryPoint{entry("a.dng", "old", config.QuestConfigTypeName, 1)})
	if err != nil {
		t.Fatal(err)
	}
	// Same timestamp: ordering must not depend on the clock.
	second, err := c.Record(ctx, "quests", []entrypoint.EntryPoint{entry("a.dng", "new", config.QuestConfigTypeName, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Record(ctx, "other", nil); err != nil {
		t.Fatal(err)
	}

	latest, err := c.Latest(ctx, "quests")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if diff := cmp.Diff(second, latest); diff != "" {
		t.Errorf("Latest mismatch (-want +got):\n%s", diff)
	}
	if first.ID == second.ID {
		t.Error("scans share an id")
	}

	got, err := c.List(ctx, "quests", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "new" {
		t.Errorf("List = %+v", got)
	}

	scans, err := c.Scans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var roots []string
	for _, s := range scans {
		roots = append(roots, s.Root)
	}
	if diff := cmp.Diff([]string{"other", "quests", "quests"}, roots); diff != "" {
		t.Errorf("Scans mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownRoot(t *testing.T) {
	c := openTest(t)
	if _, err := c.List(context.Background(), "nowhere", ""); !errors.Is(err, ErrNoScan) {
		t.Errorf("List error = %v, want ErrNoScan", err)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	for range 3 {
		if _, err := c.Record(ctx, "quests", []entrypoint.EntryPoint{entry("a.dng", "q", config.QuestConfigTypeName, 1)}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Record(ctx, "other", nil); err != nil {
		t.Fatal(err)
	}

	n, err := c.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d scans, want 2", n)
	}
	scans, err := c.Scans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(scans) != 2 {
		t.Errorf("%d scans left, want 2", len(scans))
	}
	var orphans int
	if err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entry_points WHERE scan_id NOT IN (SELECT id FROM scans)").Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Errorf("%d entry points outlived their scan", orphans)
	}
}

func TestReopenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	scan, err := c.Record(ctx, "quests", []entrypoint.EntryPoint{entry("a.dng", "q", config.QuestConfigTypeName, 2)})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c, err = Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	latest, err := c.Latest(ctx, "quests")
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != scan.ID {
		t.Errorf("reopened catalog has scan %s, want %s", latest.ID, scan.ID)
	}
}
