// Package store persists geometries in a SQLite database keyed by content.
//
// Every geometry is stored as extended WKB next to its BLAKE3 fingerprint,
// and the fingerprint column is unique: storing the same geometry twice
// returns the first row's id instead of inserting a duplicate.
//
// Two SQLite drivers are supported through build tags. The default build
// uses the pure Go modernc.org/sqlite driver; building with
// -tags cgo_sqlite switches to mattn/go-sqlite3.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
)

const schema = `
CREATE TABLE IF NOT EXISTS geometries (
	id          TEXT PRIMARY KEY,
	tag         TEXT NOT NULL,
	srid        INTEGER NOT NULL,
	is_empty    INTEGER NOT NULL,
	fingerprint TEXT NOT NULL UNIQUE,
	ewkb        BLOB NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_geometries_tag ON geometries(tag);
`

// Entry describes one stored geometry without decoding it.
type Entry struct {
	ID          string
	Tag         string
	SRID        int
	IsEmpty     bool
	Fingerprint string
	Size        int
	CreatedAt   string
}

// Export pairs a stored geometry's id with its encoded bytes.
type Export struct {
	ID   string
	Data []byte
}

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// DriverType returns "purego" or "cgo" depending on the build.
func DriverType() string {
	return driverType
}

// DriverPackage returns the import path of the active SQLite driver.
func DriverPackage() string {
	return driverPackage
}

// Open opens (or creates) the store at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a geometry and returns its id. When a geometry with the same
// fingerprint is already stored, the existing id is returned and the second
// return value is true.
func (s *Store) Put(g geom.Geometry) (string, bool, error) {
	fingerprint, err := geomio.Fingerprint(g)
	if err != nil {
		return "", false, err
	}

	var existing string
	err = s.db.QueryRow(`SELECT id FROM geometries WHERE fingerprint = ?`, fingerprint).Scan(&existing)
	if err == nil {
		return existing, true, nil
	}
	if err != sql.ErrNoRows {
		return "", false, fmt.Errorf("failed to look up fingerprint: %w", err)
	}

	data, err := geomio.Encode(g, "ewkb")
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	empty := 0
	if g.IsEmpty() {
		empty = 1
	}
	_, err = s.db.Exec(
		`INSERT INTO geometries (id, tag, srid, is_empty, fingerprint, ewkb, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, g.GeomType().String(), g.SRID(), empty, fingerprint, data,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to insert geometry: %w", err)
	}
	return id, false, nil
}

// Get decodes the stored geometry with the given id.
func (s *Store) Get(id string) (geom.Geometry, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT ewkb FROM geometries WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("geometry %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry: %w", err)
	}
	return geomio.DecodeFormat(data, "ewkb")
}

// List returns all stored entries in insertion order.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, tag, srid, is_empty, fingerprint, length(ewkb), created_at
		 FROM geometries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list geometries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var empty int
		if err := rows.Scan(&e.ID, &e.Tag, &e.SRID, &empty, &e.Fingerprint, &e.Size, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.IsEmpty = empty != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the geometry with the given id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM geometries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete geometry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("geometry %s not found", id)
	}
	return nil
}

// ExportAll re-encodes every stored geometry in the requested format.
func (s *Store) ExportAll(format string, args ...string) ([]Export, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	exports := make([]Export, 0, len(entries))
	for _, e := range entries {
		g, err := s.Get(e.ID)
		if err != nil {
			return nil, err
		}
		data, err := geomio.Encode(g, format, args...)
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{ID: e.ID, Data: data})
	}
	return exports, nil
}
