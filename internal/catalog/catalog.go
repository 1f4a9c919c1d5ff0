// Package catalog keeps an SQLite index of the entry points found in quest
// sources. Every indexing run is stored as a scan; queries read the most
// recent scan of a root.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/questlang/internal/entrypoint"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	root        TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	entry_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entry_points (
	scan_id      TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	file         TEXT NOT NULL,
	name         TEXT NOT NULL,
	type         TEXT NOT NULL,
	display_name TEXT NOT NULL,
	line         INTEGER NOT NULL,
	col          INTEGER NOT NULL,
	PRIMARY KEY (scan_id, position)
);
CREATE INDEX IF NOT EXISTS entry_points_type ON entry_points(type);
`

// ErrNoScan is returned when a root has never been indexed.
var ErrNoScan = errors.New("catalog: no scan recorded")

// Scan describes one indexing run.
type Scan struct {
	ID          uuid.UUID `yaml:"id"`
	Root        string    `yaml:"root"`
	CreatedAt   time.Time `yaml:"created_at"`
	EntryPoints int       `yaml:"entry_points"`
}

type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the catalog at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return &Catalog{db: db, logger: logger, now: time.Now}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores eps as a new scan of root.
func (c *Catalog) Record(ctx context.Context, root string, eps []entrypoint.EntryPoint) (Scan, error) {
	scan := Scan{
		ID:          uuid.New(),
		Root:        root,
		CreatedAt:   c.now().UTC().Truncate(time.Millisecond),
		EntryPoints: len(eps),
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Scan{}, fmt.Errorf("recording scan: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO scans (id, root, created_at, entry_count) VALUES (?, ?, ?, ?)",
		scan.ID.String(), root, scan.CreatedAt.UnixMilli(), len(eps)); err != nil {
		return Scan{}, fmt.Errorf("recording scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO entry_points (scan_id, position, file, name, type, display_name, line, col) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return Scan{}, fmt.Errorf("recording scan: %w", err)
	}
	defer stmt.Close()
	for i, ep := range eps {
		if _, err := stmt.ExecContext(ctx, scan.ID.String(), i, ep.File, ep.Name, ep.Type, ep.DisplayName, ep.Span.Line, ep.Span.Column); err != nil {
			return Scan{}, fmt.Errorf("recording entry point %s: %w", ep, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Scan{}, fmt.Errorf("recording scan: %w", err)
	}
	c.logger.Debug("scan recorded", "scan_id", scan.ID, "root", root, "entry_points", len(eps))
	return scan, nil
}

// Latest returns the most recent scan of root.
func (c *Catalog) Latest(ctx context.Context, root string) (Scan, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT id, root, created_at, entry_count FROM scans WHERE root = ? ORDER BY seq DESC LIMIT 1", root)
	scan, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Scan{}, fmt.Errorf("%w for %s", ErrNoScan, root)
	}
	return scan, err
}

// Scans returns every recorded scan, newest first.
func (c *Catalog) Scans(ctx context.Context) ([]Scan, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, root, created_at, entry_count FROM scans ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

// List returns the entry points of the latest scan of root in the order
// they were recorded. A non-empty typeName keeps only that type.
func (c *Catalog) List(ctx context.Context, root, typeName string) ([]entrypoint.EntryPoint, error) {
	scan, err := c.Latest(ctx, root)
	if err != nil {
		return nil, err
	}
	query := "SELECT file, name, type, display_name, line, col FROM entry_points WHERE scan_id = ?"
	args := []any{scan.ID.String()}
	if typeName != "" {
		query += " AND type = ?"
		args = append(args, typeName)
	}
	query += " ORDER BY position"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entry points: %w", err)
	}
	defer rows.Close()

	var out []entrypoint.EntryPoint
	for rows.Next() {
		var ep entrypoint.EntryPoint
		if err := rows.Scan(&ep.File, &ep.Name, &ep.Type, &ep.DisplayName, &ep.Span.Line, &ep.Span.Column); err != nil {
			return nil, fmt.Errorf("listing entry points: %w", err)
		}
		ep.Span.File = ep.File
		out = append(out, ep)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep scans of every root.
func (c *Catalog) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
DELETE FROM scans WHERE seq IN (
	SELECT seq FROM (
		SELECT seq, ROW_NUMBER() OVER (PARTITION BY root ORDER BY seq DESC) AS age FROM scans
	) WHERE age > ?
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning scans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning scans: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(r rowScanner) (Scan, error) {
	var (
		id      string
		scan    Scan
		created int64
	)
	if err := r.Scan(&id, &scan.Root, &created, &scan.EntryPoints); err != nil {
		return Scan{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Scan{}, fmt.Errorf("scan id %q: %w", id, err)
	}
	scan.ID = parsed
	scan.CreatedAt = time.UnixMilli(created).UTC()
	return scan, nil
}
