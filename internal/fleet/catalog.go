// SPDX-License-Identifier: MPL-2.0

package fleet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wows-briefing/briefing/pkg/agenda"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS ships (
	id TEXT PRIMARY KEY,
	idx TEXT,
	name TEXT NOT NULL,
	species TEXT NOT NULL,
	tier INTEGER NOT NULL,
	nation TEXT NOT NULL,
	features JSON NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_ships_idx ON ships(idx);
`

const upsertShip = `
INSERT INTO ships (id, idx, name, species, tier, nation, features)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	idx = excluded.idx,
	name = excluded.name,
	species = excluded.species,
	tier = excluded.tier,
	nation = excluded.nation,
	features = excluded.features
`

const selectShip = `SELECT id, COALESCE(idx, ''), name, species, tier, nation, features FROM ships`

// Catalog is a ShipResolver backed by a sqlite database.
type Catalog struct {
	db *sql.DB
}

// catalogFile is the import format: either a bare list of ships or a
// document with a `ships` key.
type catalogFile struct {
	Ships []ShipInfo `json:"ships" yaml:"ships"`
}

// OpenCatalog opens (creating if needed) the catalog database at path.
func OpenCatalog(ctx context.Context, path string) (*Catalog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, catalogSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put inserts or replaces ships in one transaction.
func (c *Catalog) Put(ctx context.Context, ships ...ShipInfo) (err error) {
	for _, s := range ships {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertShip)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range ships {
		features := s.Features
		if features == nil {
			features = []string{}
		}
		raw, err := json.Marshal(features)
		if err != nil {
			return fmt.Errorf("encode features of %s: %w", s.ID, err)
		}
		var index any
		if s.Index != "" {
			index = s.Index
		}
		if _, err := stmt.ExecContext(ctx, s.ID, index, s.Name, s.Species, s.Tier, s.Nation, string(raw)); err != nil {
			return fmt.Errorf("store ship %s: %w", s.ID, err)
		}
	}
	return tx.Commit()
}

// Resolve looks designator up by ID, then by game-params index.
func (c *Catalog) Resolve(ctx context.Context, designator string) (agenda.Ship, error) {
	info, err := c.Get(ctx, designator)
	if err != nil {
		return nil, err
	}
	return NewShip(info), nil
}

// Get returns the record designator names.
func (c *Catalog) Get(ctx context.Context, designator string) (ShipInfo, error) {
	row := c.db.QueryRowContext(ctx,
		selectShip+` WHERE id = ? OR idx = ? ORDER BY id = ? DESC LIMIT 1`,
		designator, designator, designator)
	info, err := scanShip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ShipInfo{}, &ShipNotFoundError{Designator: designator}
	}
	if err != nil {
		return ShipInfo{}, fmt.Errorf("resolve ship %s: %w", designator, err)
	}
	return info, nil
}

// List returns every ship ordered by tier then name.
func (c *Catalog) List(ctx context.Context) ([]ShipInfo, error) {
	rows, err := c.db.QueryContext(ctx, selectShip+` ORDER BY tier, name`)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	defer rows.Close()

	var ships []ShipInfo
	for rows.Next() {
		info, err := scanShip(rows)
		if err != nil {
			return nil, err
		}
		ships = append(ships, info)
	}
	return ships, rows.Err()
}

// Import reads a JSON or YAML ship list from path and stores it. It returns
// the number of ships imported.
func (c *Catalog) Import(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog file: %w", err)
	}
	ships, err := decodeCatalog(filepath.Ext(path), data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Put(ctx, ships...); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return len(ships), nil
}

func decodeCatalog(ext string, data []byte) ([]ShipInfo, error) {
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
		var ships []ShipInfo
		if err := json.Unmarshal(data, &ships); err == nil {
			return ships, nil
		}
		var file catalogFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return file.Ships, nil
	case ".yaml", ".yml":
		var ships []ShipInfo
		if err := yaml.Unmarshal(data, &ships); err == nil {
			return ships, nil
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return file.Ships, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShip(row rowScanner) (ShipInfo, error) {
	var (
		info     ShipInfo
		features string
	)
	if err := row.Scan(&info.ID, &info.Index, &info.Name, &info.Species, &info.Tier, &info.Nation, &features); err != nil {
		return ShipInfo{}, err
	}
	if err := json.Unmarshal([]byte(features), &info.Features); err != nil {
		return ShipInfo{}, fmt.Errorf("decode features of %s: %w", info.ID, err)
	}
	return info, nil
}
