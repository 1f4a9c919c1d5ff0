package entrypoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
)

func writeSource(t *testing.T, dir, name string, defs ...*ast.Node) string {
	t.Helper()
	src, err := ast.Encode(ast.NewProgram(defs...))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindInTree(t *testing.T) {
	root := ast.NewProgram(
		ast.ObjectDef(config.QuestConfigTypeName, "intro",
			ast.Prop(config.NameMemberName, ast.Str("The Beginning"))),
		ast.ObjectDef(config.SingleChoiceTaskTypeName, "q1"),
		ast.ObjectDef(config.DungeonConfigTypeName, "cellar",
			ast.Prop(config.NameMemberName, ast.Ident("some_variable"))),
		ast.Graph("flow"),
	)
	got := FindInTree("main.dng", root)
	want := []EntryPoint{
		{File: "main.dng", Name: "intro", Type: config.QuestConfigTypeName, DisplayName: "The Beginning"},
		{File: "main.dng", Name: "cellar", Type: config.DungeonConfigTypeName, DisplayName: "cellar"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(EntryPoint{}, "Span")); diff != "" {
		t.Errorf("FindInTree mismatch (-want +got):\n%s", diff)
	}
	if got := FindInTree("empty.dng", nil); got != nil {
		t.Errorf("nil tree gave %v", got)
	}
}

func TestFinderFind(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.dng",
		ast.ObjectDef(config.QuestConfigTypeName, "first"),
		ast.ObjectDef(config.QuestConfigTypeName, "second"),
	)
	b := writeSource(t, dir, "nested/b.dng",
		ast.ObjectDef(config.DungeonConfigTypeName, "deep"),
	)
	writeSource(t, dir, "nested/c.dng",
		ast.ObjectDef(config.SingleChoiceTaskTypeName, "no_entry"),
	)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFinder(nil)
	f.Workers = 2
	got, err := f.Find(context.Background(), dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []EntryPoint{
		{File: a, Name: "first", Type: config.QuestConfigTypeName, DisplayName: "first"},
		{File: a, Name: "second", Type: config.QuestConfigTypeName, DisplayName: "second"},
		{File: b, Name: "deep", Type: config.DungeonConfigTypeName, DisplayName: "deep"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(EntryPoint{}, "Span")); diff != "" {
		t.Errorf("Find mismatch (-want +got):\n%s", diff)
	}
}

func TestFinderSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.dng")
	if err := os.WriteFile(path, []byte("kind: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewFinder(nil).Find(context.Background(), path)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("broken file produced %v", got)
	}
}

func TestFinderMissingPath(t *testing.T) {
	_, err := NewFinder(nil).Find(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestFinderCancelled(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.dng", ast.ObjectDef(config.QuestConfigTypeName, "q"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFinder(nil).Find(ctx, dir); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}
