package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveLibraryPath(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain", "tasks.dng", filepath.Join(root, "tasks.dng"), false},
		{"nested", "quests/intro", filepath.Join(root, "quests", "intro.dng"), false},
		{"inner dotdot stays inside", "quests/../tasks.dng", filepath.Join(root, "tasks.dng"), false},
		{"escapes", "../secret.dng", "", true},
		{"escapes deeply", "quests/../../secret.dng", "", true},
		{"absolute outside", "/etc/passwd", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLibraryPath(root, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ResolveLibraryPath("", "x.dng"); err == nil {
		t.Error("empty root accepted")
	}
}

func TestCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.dng", "a.dng.yaml", "notes.txt", filepath.Join("sub", "c.dng")} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := CollectSourceFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.dng.yaml"),
		filepath.Join(root, "b.dng"),
		filepath.Join(root, "sub", "c.dng"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if ExtractFileName(got[0]) != "a" {
		t.Errorf("ExtractFileName(%q) = %q", got[0], ExtractFileName(got[0]))
	}
}
