package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// project creates a directory with a questlang.yaml and the given sources.
func project(t *testing.T, files map[string]*ast.Node) string {
	t.Helper()
	dir := t.TempDir()
	conf := "log_level: error\ncolor: never\n"
	if err := os.WriteFile(filepath.Join(dir, config.ProjectFileName), []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, root := range files {
		src, err := ast.Encode(root)
		if err != nil {
			t.Fatalf("Encode %s: %v", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New(&stdout, &stderr)
	app.LookupEnv = func(string) (string, bool) { return "", false }
	code := app.Run(context.Background(), args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func questSource() *ast.Node {
	return ast.NewProgram(
		ast.ObjectDef(config.QuestConfigTypeName, "intro",
			ast.Prop("quest_desc", ast.Str("the first steps")),
			ast.Prop("quest_points", ast.Int(7)),
		),
		ast.ObjectDef(config.DungeonConfigTypeName, "cellar"),
	)
}

func TestRun(t *testing.T) {
	dir := project(t, map[string]*ast.Node{"main.dng": questSource()})

	res := execute(t, "run", filepath.Join(dir, "main.dng"))
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	for _, want := range []string{"name: intro", "quest_desc: the first steps", "quest_points: 7"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output lacks %q:\n%s", want, res.stdout)
		}
	}

	res = execute(t, "run", filepath.Join(dir, "main.dng"), "-entry", "cellar")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "name: cellar") || strings.Contains(res.stdout, "quest_desc") {
		t.Errorf("dungeon output:\n%s", res.stdout)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	dir := project(t, map[string]*ast.Node{
		"broken.dng": ast.NewProgram(
			ast.ObjectDef(config.QuestConfigTypeName, "intro",
				ast.Prop("quest_desc", ast.Ident("nowhere"))),
		),
	})
	res := execute(t, "run", filepath.Join(dir, "broken.dng"))
	if res.code != ExitError {
		t.Fatalf("exit %d, want %d", res.code, ExitError)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want nothing", res.stdout)
	}
	if !strings.Contains(res.stderr, "A001") || !strings.Contains(res.stderr, "nowhere") {
		t.Errorf("stderr:\n%s", res.stderr)
	}
	if strings.Contains(res.stderr, "\x1b[") {
		t.Errorf("colored output with color: never:\n%q", res.stderr)
	}
}

func TestCheck(t *testing.T) {
	dir := project(t, map[string]*ast.Node{
		"good.dng": questSource(),
		"bad.dng": ast.NewProgram(
			ast.ObjectDef(config.QuestConfigTypeName, "intro",
				ast.Prop("no_such_property", ast.Int(1))),
		),
	})

	res := execute(t, "check", filepath.Join(dir, "good.dng"))
	if res.code != ExitOK || !strings.Contains(res.stdout, "ok") {
		t.Errorf("good file: exit %d\n%s%s", res.code, res.stdout, res.stderr)
	}

	res = execute(t, "check", filepath.Join(dir, "good.dng"), filepath.Join(dir, "bad.dng"))
	if res.code != ExitError {
		t.Errorf("exit %d, want %d", res.code, ExitError)
	}
	if !strings.Contains(res.stderr, "no_such_property") {
		t.Errorf("stderr:\n%s", res.stderr)
	}
}

func TestFind(t *testing.T) {
	dir := project(t, map[string]*ast.Node{
		"main.dng":       questSource(),
		"extra/side.dng": ast.NewProgram(ast.ObjectDef(config.SingleChoiceTaskTypeName, "q")),
	})

	res := execute(t, "find", dir)
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), res.stdout)
	}
	if !strings.Contains(lines[0], "\tquest_config\tintro\t") || !strings.Contains(lines[1], "\tdungeon_config\tcellar\t") {
		t.Errorf("output:\n%s", res.stdout)
	}

	res = execute(t, "find", "-format", "yaml", dir)
	if res.code != ExitOK || !strings.Contains(res.stdout, "display_name: intro") {
		t.Errorf("yaml output: exit %d\n%s", res.code, res.stdout)
	}

	if res := execute(t, "find", "-format", "xml", dir); res.code != ExitUsage {
		t.Errorf("unknown format exit %d", res.code)
	}
}

func TestIndex(t *testing.T) {
	dir := project(t, map[string]*ast.Node{"main.dng": questSource()})
	db := filepath.Join(t.TempDir(), "catalog.sqlite")

	res := execute(t, "index", "-db", db, dir)
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "2 entry points") {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = execute(t, "index", "-db", db, "-list", dir)
	if res.code != ExitOK {
		t.Fatalf("list exit %d, stderr:\n%s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "intro") || !strings.Contains(res.stdout, "cellar") {
		t.Errorf("listing:\n%s", res.stdout)
	}

	other := t.TempDir()
	if res := execute(t, "index", "-db", db, "-list", other); res.code != ExitError {
		t.Errorf("unindexed root exit %d", res.code)
	}
}

func TestFmt(t *testing.T) {
	dir := project(t, map[string]*ast.Node{"main.dng": questSource()})
	if err := os.WriteFile(filepath.Join(dir, "broken.dng"), []byte("kind: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := execute(t, "fmt", filepath.Join(dir, "main.dng"))
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr:\n%s", res.code, res.stderr)
	}
	want := `quest_config intro {
    quest_desc: "the first steps",
    quest_points: 7
}

dungeon_config cellar {}
`
	if res.stdout != want {
		t.Errorf("fmt output:\n%s\nwant:\n%s", res.stdout, want)
	}

	res = execute(t, "fmt", filepath.Join(dir, "broken.dng"))
	if res.code != ExitError || !strings.Contains(res.stderr, "P001") {
		t.Errorf("broken file: exit %d\n%s", res.code, res.stderr)
	}
}

func TestUsage(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{nil, ExitUsage},
		{[]string{"help"}, ExitOK},
		{[]string{"launch"}, ExitUsage},
		{[]string{"run"}, ExitUsage},
		{[]string{"run", "-bogus", "x.dng"}, ExitUsage},
		{[]string{"check"}, ExitUsage},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if res := execute(t, tt.args...); res.code != tt.code {
				t.Errorf("exit %d, want %d", res.code, tt.code)
			}
		})
	}
}

func TestParseIntersperse(t *testing.T) {
	var entry string
	var c common
	fs := New(&bytes.Buffer{}, &bytes.Buffer{}).newFlagSet("run")
	c.register(fs)
	fs.StringVar(&entry, "entry", "", "")
	got, err := parse(fs, []string{"-v", "a.dng", "-entry", "x", "b.dng"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "a.dng,b.dng" || entry != "x" || !c.verbose {
		t.Errorf("positional %v entry %q verbose %v", got, entry, c.verbose)
	}
}

func TestColorEnabled(t *testing.T) {
	app := New(&bytes.Buffer{}, &bytes.Buffer{})
	app.LookupEnv = func(string) (string, bool) { return "", false }
	if !app.colorEnabled("always") || app.colorEnabled("never") {
		t.Error("explicit modes ignored")
	}
	if app.colorEnabled("auto") {
		t.Error("buffer treated as terminal")
	}
	app.Stderr = os.Stderr
	app.LookupEnv = func(k string) (string, bool) { return "1", k == "NO_COLOR" }
	if app.colorEnabled("auto") {
		t.Error("NO_COLOR ignored")
	}
}
