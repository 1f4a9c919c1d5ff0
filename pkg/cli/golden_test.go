package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGolden runs every testdata/golden source through each command that
// has a <name>.<command>.want file and compares stdout.
func TestGolden(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("testdata", "golden"))
	if err != nil {
		t.Fatal(err)
	}
	wants, err := filepath.Glob(filepath.Join(dir, "*.want"))
	if err != nil {
		t.Fatal(err)
	}
	if len(wants) == 0 {
		t.Skip("No .want files found")
	}

	for _, wantFile := range wants {
		base := strings.TrimSuffix(filepath.Base(wantFile), ".want")
		name, command, ok := strings.Cut(base, ".")
		if !ok {
			t.Fatalf("%s: want files are named <source>.<command>.want", wantFile)
		}

		t.Run(base, func(t *testing.T) {
			source := filepath.Join(dir, name+".dng")
			wantBytes, err := os.ReadFile(wantFile)
			if err != nil {
				t.Fatalf("Failed to read .want file: %v", err)
			}
			want := strings.TrimSpace(string(wantBytes))

			res := execute(t, command, source)
			if res.code != ExitOK {
				t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
			}
			got := strings.TrimSpace(strings.ReplaceAll(res.stdout, dir+string(filepath.Separator), ""))
			if got != want {
				t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}
