package entrypoint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/utils"
)

// EntryPoint is a top-level definition a quest can be run from.
type EntryPoint struct {
	File string `yaml:"file"`
	// Name is the identifier of the definition.
	Name string `yaml:"name"`
	// Type is quest_config or dungeon_config.
	Type string `yaml:"type"`
	// DisplayName is the literal `name` property, or Name when there is
	// none.
	DisplayName string   `yaml:"display_name"`
	Span        ast.Span `yaml:"-"`
}

func (ep EntryPoint) String() string {
	return fmt.Sprintf("%s:%s (%s)", ep.File, ep.Name, ep.Type)
}

// Finder lists the entry points of source files without analyzing them:
// only the type identifier of each object definition is inspected.
type Finder struct {
	Parser ast.Parser
	// Workers bounds the files parsed at once; zero uses GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

func NewFinder(parser ast.Parser) *Finder {
	if parser == nil {
		parser = ast.YAMLParser{}
	}
	return &Finder{Parser: parser, Logger: slog.New(slog.DiscardHandler)}
}

// Find parses every source file under paths concurrently and returns the
// entry points in file order, then definition order. Files with syntax
// errors contribute the definitions that parsed; unreadable files fail the
// whole search.
func (f *Finder) Find(ctx context.Context, paths ...string) ([]EntryPoint, error) {
	files, err := utils.CollectSourceFiles(paths...)
	if err != nil {
		return nil, fmt.Errorf("collecting sources: %w", err)
	}

	results := make([][]EntryPoint, len(files))
	g, ctx := errgroup.WithContext(ctx)
	workers := f.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			eps, err := f.findInFile(path)
			if err != nil {
				return err
			}
			results[i] = eps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []EntryPoint
	for _, eps := range results {
		out = append(out, eps...)
	}
	f.logger().Debug("entry points found", "files", len(files), "entry_points", len(out))
	return out, nil
}

func (f *Finder) findInFile(path string) ([]EntryPoint, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root, errs := f.Parser.Parse(path, src)
	if len(errs) > 0 {
		f.logger().Warn("source has syntax errors", "file", path, "errors", len(errs))
	}
	return FindInTree(path, root), nil
}

func (f *Finder) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}

// FindInTree returns the entry points among the top-level definitions of
// root.
func FindInTree(path string, root *ast.Node) []EntryPoint {
	if root == nil {
		return nil
	}
	var out []EntryPoint
	for _, def := range root.Children {
		if def == nil || def.Kind != ast.KindObjectDefinition || def.HasErrors() {
			continue
		}
		typeID := def.TypeSpecifier()
		if typeID == nil || !slices.Contains(config.EntryPointTypeNames, typeID.Name) {
			continue
		}
		typeName := typeID.Name
		ep := EntryPoint{
			File:        path,
			Name:        def.IdName(),
			Type:        typeName,
			DisplayName: def.IdName(),
			Span:        def.SourceSpan(),
		}
		if name, ok := literalProperty(def, config.NameMemberName); ok {
			ep.DisplayName = name
		}
		out = append(out, ep)
	}
	return out
}

func literalProperty(def *ast.Node, name string) (string, bool) {
	for _, prop := range def.Properties() {
		if prop == nil || prop.IdName() != name {
			continue
		}
		expr := prop.Expr()
		if expr == nil || expr.Kind != ast.KindStringLiteral {
			return "", false
		}
		s, ok := expr.Value.(string)
		return s, ok
	}
	return "", false
}
