// Package cli implements the questlang command: running quest sources,
// checking them, and listing or indexing their entry points.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/questlang/internal/analyzer"
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/catalog"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/entrypoint"
	"github.com/funvibe/questlang/internal/environment"
	"github.com/funvibe/questlang/internal/evaluator"
	"github.com/funvibe/questlang/internal/pipeline"
	"github.com/funvibe/questlang/internal/prettyprinter"
	"github.com/funvibe/questlang/pkg/host"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usage = `Usage: questlang <command> [flags] <args>

Commands:
  run <file>        interpret a file and print its configuration as YAML
  check <file>...   report analysis diagnostics
  find <path>...    list quest_config and dungeon_config definitions
  index <path>...   store the entry points of paths in the catalog
  fmt <file>...     print files in source form
  help              show this message

Common flags:
  -config <file>    questlang.yaml to use instead of searching for one
  -v                debug logging
`

// App holds the streams a command writes to. The zero value is not usable;
// see New.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// LookupEnv reads the process environment; tests replace it.
	LookupEnv func(string) (string, bool)
}

func New(stdout, stderr io.Writer) *App {
	return &App{Stdout: stdout, Stderr: stderr, LookupEnv: os.LookupEnv}
}

// Main runs the command line of the current process.
func Main() int {
	return New(os.Stdout, os.Stderr).Run(context.Background(), os.Args[1:])
}

// Run dispatches args[0] to its command and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.Stderr, usage)
		return ExitUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "run":
		return a.runCommand(rest)
	case "check":
		return a.checkCommand(rest)
	case "find":
		return a.findCommand(ctx, rest)
	case "index":
		return a.indexCommand(ctx, rest)
	case "fmt":
		return a.fmtCommand(rest)
	case "help", "-help", "--help", "-h":
		fmt.Fprint(a.Stdout, usage)
		return ExitOK
	default:
		fmt.Fprintf(a.Stderr, "unknown command %q\n\n%s", cmd, usage)
		return ExitUsage
	}
}

// common holds the flags every command accepts.
type common struct {
	configPath string
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to "+config.ProjectFileName)
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
}

// session is the per-command state derived from the common flags.
type session struct {
	project *config.Project
	logger  *slog.Logger
	color   bool
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

// parse accepts flags before and after positional arguments.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (a *App) open(c common, start string) (*session, error) {
	project, err := loadProject(c.configPath, start)
	if err != nil {
		return nil, err
	}
	level := project.SlogLevel()
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(a.Stderr, &slog.HandlerOptions{Level: level}))
	return &session{project: project, logger: logger, color: a.colorEnabled(project.Color)}, nil
}

// loadProject reads configPath, or the questlang.yaml found above start, or
// falls back to defaults rooted at start.
func loadProject(configPath, start string) (*config.Project, error) {
	if configPath != "" {
		return config.LoadProject(configPath)
	}
	dir := start
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		dir = filepath.Dir(start)
	}
	found, err := config.FindProject(dir)
	if err != nil {
		return nil, err
	}
	if found == "" {
		return config.DefaultProject(dir), nil
	}
	return config.LoadProject(found)
}

func (a *App) colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := a.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := a.Stderr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

func (a *App) printDiagnostics(s *session, errs []*diagnostics.DiagnosticError) {
	for _, err := range errs {
		if s.color {
			fmt.Fprintf(a.Stderr, "%s%serror%s %s\n", ansiBold, ansiRed, ansiReset, err.Error())
			continue
		}
		fmt.Fprintf(a.Stderr, "error %s\n", err.Error())
	}
}

func fileError(code diagnostics.ErrorCode, path string, err error) []*diagnostics.DiagnosticError {
	d := diagnostics.NewError(code, ast.Span{}, err.Error())
	d.File = path
	return []*diagnostics.DiagnosticError{d}
}

func (a *App) runCommand(args []string) int {
	var (
		c     common
		entry string
	)
	fs := a.newFlagSet("run")
	c.register(fs)
	fs.StringVar(&entry, "entry", "", "entry point definition; the first quest_config or dungeon_config by default")
	positional, err := parse(fs, args)
	if err != nil {
		return ExitUsage
	}
	if len(positional) != 1 {
		fmt.Fprintln(a.Stderr, "run takes exactly one file")
		return ExitUsage
	}
	path, err := filepath.Abs(positional[0])
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}

	s, err := a.open(c, path)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}
	out, errs := a.interpret(s, path, entry)
	if len(errs) > 0 {
		a.printDiagnostics(s, errs)
		return ExitError
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error encoding result: %s\n", err)
		return ExitError
	}
	a.Stdout.Write(data)
	return ExitOK
}

// interpret runs the whole pipeline over one file. Print output of the
// program goes to stderr so stdout carries only the YAML document.
func (a *App) interpret(s *session, path, entry string) (any, []*diagnostics.DiagnosticError) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError(diagnostics.ErrI003, path, err)
	}
	env, inst, err := host.NewGameEnvironment(s.project)
	if err != nil {
		return nil, fileError(diagnostics.ErrR005, path, err)
	}

	pctx := pipeline.NewPipelineContext(src)
	pctx.FilePath = path
	pctx.Env = env
	pctx.EntryPoint = entry
	pctx.Logger = s.logger

	eval := &evaluator.EvaluatorProcessor{Instantiator: inst, Out: a.Stderr, Seed: s.project.Seed}
	result := pipeline.New(
		&pipeline.ParseProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		eval,
	).Run(pctx)
	return result.Result, result.Errors
}

func (a *App) checkCommand(args []string) int {
	var c common
	fs := a.newFlagSet("check")
	c.register(fs)
	positional, err := parse(fs, args)
	if err != nil {
		return ExitUsage
	}
	if len(positional) == 0 {
		fmt.Fprintln(a.Stderr, "check takes at least one file")
		return ExitUsage
	}

	code := ExitOK
	for _, arg := range positional {
		path, err := filepath.Abs(arg)
		if err != nil {
			fmt.Fprintf(a.Stderr, "error %s\n", err)
			code = ExitError
			continue
		}
		s, err := a.open(c, path)
		if err != nil {
			fmt.Fprintf(a.Stderr, "error %s\n", err)
			code = ExitError
			continue
		}
		errs := a.analyze(s, path)
		if len(errs) > 0 {
			a.printDiagnostics(s, errs)
			code = ExitError
			continue
		}
		fmt.Fprintf(a.Stdout, "%s: ok\n", arg)
	}
	return code
}

func (a *App) analyze(s *session, path string) []*diagnostics.DiagnosticError {
	src, err := os.ReadFile(path)
	if err != nil {
		return fileError(diagnostics.ErrI003, path, err)
	}
	env, _, err := host.NewGameEnvironment(s.project)
	if err != nil {
		return fileError(diagnostics.ErrR005, path, err)
	}
	pctx := pipeline.NewPipelineContext(src)
	pctx.FilePath = path
	pctx.Env = env
	pctx.Logger = s.logger
	return pipeline.New(&pipeline.ParseProcessor{}, &analyzer.SemanticAnalyzerProcessor{}).Run(pctx).Errors
}

func (a *App) findCommand(ctx context.Context, args []string) int {
	var (
		c      common
		format string
	)
	fs := a.newFlagSet("find")
	c.register(fs)
	fs.StringVar(&format, "format", "text", "output format: text or yaml")
	positional, err := parse(fs, args)
	if err != nil {
		return ExitUsage
	}
	if len(positional) == 0 {
		positional = []string{"."}
	}
	s, err := a.open(c, positional[0])
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}

	finder := entrypoint.NewFinder(nil)
	finder.Logger = s.logger
	eps, err := finder.Find(ctx, positional...)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}
	if err := a.writeEntryPoints(format, eps); err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitUsage
	}
	return ExitOK
}

func (a *App) writeEntryPoints(format string, eps []entrypoint.EntryPoint) error {
	switch format {
	case "text":
		for _, ep := range eps {
			fmt.Fprintf(a.Stdout, "%s:%d\t%s\t%s\t%s\n", ep.File, ep.Span.Line, ep.Type, ep.Name, ep.DisplayName)
		}
		return nil
	case "yaml":
		if eps == nil {
			eps = []entrypoint.EntryPoint{}
		}
		data, err := yaml.Marshal(eps)
		if err != nil {
			return err
		}
		_, err = a.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func (a *App) indexCommand(ctx context.Context, args []string) int {
	var (
		c    common
		db   string
		keep int
		list bool
	)
	fs := a.newFlagSet("index")
	c.register(fs)
	fs.StringVar(&db, "db", "", "catalog database; the project catalog by default")
	fs.IntVar(&keep, "keep", 0, "prune all but the newest n scans of each root")
	fs.BoolVar(&list, "list", false, "print the latest indexed entry points instead of scanning")
	positional, err := parse(fs, args)
	if err != nil {
		return ExitUsage
	}
	if len(positional) == 0 {
		positional = []string{"."}
	}
	s, err := a.open(c, positional[0])
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}
	if db == "" {
		db = s.project.CatalogPath()
	}
	root, err := indexRoot(positional)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}

	cat, err := catalog.Open(ctx, db, s.logger)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}
	defer cat.Close()

	if list {
		eps, err := cat.List(ctx, root, "")
		if errors.Is(err, catalog.ErrNoScan) {
			fmt.Fprintf(a.Stderr, "%s has not been indexed\n", root)
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(a.Stderr, "error %s\n", err)
			return ExitError
		}
		if err := a.writeEntryPoints("text", eps); err != nil {
			fmt.Fprintf(a.Stderr, "error %s\n", err)
			return ExitError
		}
		return ExitOK
	}

	finder := entrypoint.NewFinder(nil)
	finder.Logger = s.logger
	eps, err := finder.Find(ctx, positional...)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}
	scan, err := cat.Record(ctx, root, eps)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error %s\n", err)
		return ExitError
	}
	if keep > 0 {
		n, err := cat.Prune(ctx, keep)
		if err != nil {
			fmt.Fprintf(a.Stderr, "error %s\n", err)
			return ExitError
		}
		s.logger.Debug("pruned scans", "count", n)
	}
	fmt.Fprintf(a.Stdout, "scan %s: %d entry points in %s\n", scan.ID, scan.EntryPoints, db)
	return ExitOK
}

// indexRoot is the catalog key of a set of scanned paths.
func indexRoot(paths []string) (string, error) {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		abs = append(abs, a)
	}
	return strings.Join(abs, string(filepath.ListSeparator)), nil
}

func (a *App) fmtCommand(args []string) int {
	var (
		c     common
		width int
	)
	fs := a.newFlagSet("fmt")
	c.register(fs)
	fs.IntVar(&width, "width", 100, "line width lists are wrapped at; 0 never wraps")
	positional, err := parse(fs, args)
	if err != nil {
		return ExitUsage
	}
	if len(positional) == 0 {
		fmt.Fprintln(a.Stderr, "fmt takes at least one file")
		return ExitUsage
	}

	code := ExitOK
	for _, path := range positional {
		s, err := a.open(c, path)
		if err != nil {
			fmt.Fprintf(a.Stderr, "error %s\n", err)
			code = ExitError
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			a.printDiagnostics(s, fileError(diagnostics.ErrI003, path, err))
			code = ExitError
			continue
		}
		pctx := pipeline.NewPipelineContext(src)
		pctx.FilePath = path
		pctx.Env = environment.New(s.project.LibraryPath(), nil)
		pctx.Logger = s.logger
		pctx = pipeline.New(&pipeline.ParseProcessor{}).Run(pctx)
		if pctx.HasErrors() {
			a.printDiagnostics(s, pctx.Errors)
			code = ExitError
			continue
		}
		p := prettyprinter.NewCodePrinterWithWidth(width)
		p.Node(pctx.AstRoot)
		if len(positional) > 1 {
			fmt.Fprintf(a.Stdout, "// %s\n", path)
		}
		fmt.Fprint(a.Stdout, p.String())
	}
	return code
}
