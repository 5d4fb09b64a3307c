package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

const snapshotAttempts = 3

// ErrVersionRace is returned when the database kept changing underneath every
// snapshot attempt.
var ErrVersionRace = errors.New("document changed during snapshot")

const schema = `
CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS segments (name TEXT NOT NULL, start_addr INTEGER NOT NULL, end_addr INTEGER NOT NULL, kind INTEGER NOT NULL, data BLOB);
CREATE TABLE IF NOT EXISTS symbols (name TEXT NOT NULL, address INTEGER NOT NULL, kind INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS xrefs (src INTEGER NOT NULL, dst INTEGER NOT NULL, kind INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS items (address INTEGER NOT NULL, size INTEGER NOT NULL, kind INTEGER NOT NULL, text TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS blocks (function INTEGER NOT NULL, start_addr INTEGER NOT NULL, end_addr INTEGER NOT NULL, succs TEXT NOT NULL DEFAULT '');
`

// SQLite reads an analysis database written by an external engine. The
// engine bumps meta.version on every commit.
type SQLite struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	cached  *Snapshot
	version uint64
}

// OpenSQLite opens path read-only.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	s := &SQLite{db: db, path: path}
	if _, err := s.readVersion(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Version returns the committed version, or the last one seen when the
// database cannot be read right now.
func (s *SQLite) Version() uint64 {
	v, err := s.readVersion(context.Background())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.version
	}
	s.version = v
	return v
}

func (s *SQLite) readVersion(ctx context.Context) (uint64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return uint64(v), nil
}

// Snapshot loads every table in parallel. The version is read before and
// after the load; if it moved the load is retried.
func (s *SQLite) Snapshot(ctx context.Context) (*Snapshot, error) {
	for attempt := 0; attempt < snapshotAttempts; attempt++ {
		before, err := s.readVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
		}
		s.mu.Lock()
		if s.cached != nil && s.cached.Version() == before {
			snap := s.cached
			s.mu.Unlock()
			return snap, nil
		}
		s.mu.Unlock()

		contents, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		after, err := s.readVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
		}
		if after != before {
			continue
		}
		snap, err := NewSnapshot(before, contents)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = snap
		s.version = before
		s.mu.Unlock()
		return snap, nil
	}
	return nil, ErrVersionRace
}

func (s *SQLite) load(ctx context.Context) (Contents, error) {
	var c Contents
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { c.Segments, err = s.loadSegments(ctx); return })
	g.Go(func() (err error) { c.Symbols, err = s.loadSymbols(ctx); return })
	g.Go(func() (err error) { c.XRefs, err = s.loadXRefs(ctx); return })
	g.Go(func() (err error) { c.Items, err = s.loadItems(ctx); return })
	g.Go(func() (err error) { c.Blocks, err = s.loadBlocks(ctx); return })
	if err := g.Wait(); err != nil {
		return Contents{}, err
	}
	return c, nil
}

func (s *SQLite) loadSegments(ctx context.Context) ([]Segment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, start_addr, end_addr, kind, data FROM segments ORDER BY start_addr`)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()
	var out []Segment
	for rows.Next() {
		var seg Segment
		var start, end int64
		if err := rows.Scan(&seg.Name, &start, &end, &seg.Kind, &seg.Data); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		seg.Start, seg.End = Address(start), Address(end)
		out = append(out, seg)
	}
	return out, rows.Err()
}

func (s *SQLite) loadSymbols(ctx context.Context) ([]Symbol, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, address, kind FROM symbols ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()
	var out []Symbol
	for rows.Next() {
		var sym Symbol
		var addr int64
		if err := rows.Scan(&sym.Name, &addr, &sym.Kind); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		sym.Address = Address(addr)
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (s *SQLite) loadXRefs(ctx context.Context) ([]XRef, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT src, dst, kind FROM xrefs`)
	if err != nil {
		return nil, fmt.Errorf("query xrefs: %w", err)
	}
	defer rows.Close()
	var out []XRef
	for rows.Next() {
		var x XRef
		var from, to int64
		if err := rows.Scan(&from, &to, &x.Kind); err != nil {
			return nil, fmt.Errorf("scan xref: %w", err)
		}
		x.From, x.To = Address(from), Address(to)
		out = append(out, x)
	}
	return out, rows.Err()
}

func (s *SQLite) loadItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT address, size, kind, text FROM items ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		var addr int64
		if err := rows.Scan(&addr, &it.Size, &it.Kind, &it.Text); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Address = Address(addr)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLite) loadBlocks(ctx context.Context) ([]Block, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT function, start_addr, end_addr, succs FROM blocks ORDER BY start_addr`)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()
	var out []Block
	for rows.Next() {
		var fn, start, end int64
		var succs string
		if err := rows.Scan(&fn, &start, &end, &succs); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		b := Block{Function: Address(fn), Start: Address(start), End: Address(end)}
		if b.Succs, err = parseSuccs(succs); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.Start, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func parseSuccs(s string) ([]Address, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Address, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, Address(v))
	}
	return out, nil
}

func formatSuccs(succs []Address) string {
	parts := make([]string, len(succs))
	for i, a := range succs {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, ",")
}

// CreateSchema creates the analysis tables on db.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// WriteSQLite replaces the contents of the database at path (creating it if
// needed) and records version in the meta table, all in one transaction.
func WriteSQLite(ctx context.Context, path string, version uint64, c Contents) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()
	if err := CreateSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"segments", "symbols", "xrefs", "items", "blocks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, seg := range c.Segments {
		if _, err := tx.ExecContext(ctx, `INSERT INTO segments VALUES (?, ?, ?, ?, ?)`,
			seg.Name, int64(seg.Start), int64(seg.End), int(seg.Kind), seg.Data); err != nil {
			return fmt.Errorf("insert segment %q: %w", seg.Name, err)
		}
	}
	for _, sym := range c.Symbols {
		if _, err := tx.ExecContext(ctx, `INSERT INTO symbols VALUES (?, ?, ?)`,
			sym.Name, int64(sym.Address), int(sym.Kind)); err != nil {
			return fmt.Errorf("insert symbol %q: %w", sym.Name, err)
		}
	}
	for _, x := range c.XRefs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO xrefs VALUES (?, ?, ?)`,
			int64(x.From), int64(x.To), int(x.Kind)); err != nil {
			return fmt.Errorf("insert xref: %w", err)
		}
	}
	for _, it := range c.Items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items VALUES (?, ?, ?, ?)`,
			int64(it.Address), int64(it.Size), int(it.Kind), it.Text); err != nil {
			return fmt.Errorf("insert item %s: %w", it.Address, err)
		}
	}
	for _, b := range c.Blocks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO blocks VALUES (?, ?, ?, ?)`,
			int64(b.Function), int64(b.Start), int64(b.End), formatSuccs(b.Succs)); err != nil {
			return fmt.Errorf("insert block %s: %w", b.Start, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('version', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		int64(version)); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	return tx.Commit()
}
