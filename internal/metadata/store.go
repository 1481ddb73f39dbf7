// Package metadata keeps the per-file slicer metadata in a local SQLite
// database, and ties slicer detection and parsing together into a scanner.
package metadata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"contrast/internal/errors"
	"contrast/internal/log"
	"contrast/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS gcode_metadata (
	filename       TEXT PRIMARY KEY,
	slicer         TEXT NOT NULL DEFAULT '',
	slicer_version TEXT NOT NULL DEFAULT '',
	size           INTEGER NOT NULL DEFAULT 0,
	modified       INTEGER NOT NULL DEFAULT 0,
	scanned_at     INTEGER NOT NULL DEFAULT 0,
	options        TEXT NOT NULL DEFAULT ''
);`

// Store is the SQLite-backed metadata storage. Records are keyed by the
// file's base name, matching how gcode files are addressed over the API.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the metadata database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata database: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous pragma: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create metadata schema: %w", err)
	}

	log.LogWithFields(log.F("path", path)).Debug("Metadata database opened")
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get retrieves the metadata record for a gcode file. The filename may carry
// a path; only the base name is used.
func (s *Store) Get(filename string) (*types.Metadata, error) {
	name := filepath.Base(filename)

	row := s.db.QueryRow(
		`SELECT filename, slicer, slicer_version, size, modified, scanned_at, options
		 FROM gcode_metadata WHERE filename = ?`, name)

	var md types.Metadata
	var modified, scannedAt int64
	var options string
	err := row.Scan(&md.Filename, &md.Slicer, &md.SlicerVersion, &md.Size, &modified, &scannedAt, &options)
	if err == sql.ErrNoRows {
		return nil, errors.NewMetadataError("no metadata found for gcode file", name, errors.MetadataNotFound, nil)
	}
	if err != nil {
		return nil, errors.NewMetadataError("failed to read metadata", name, errors.DatabaseOperationFailed, err)
	}

	md.Modified = time.Unix(modified, 0).UTC()
	md.ScannedAt = time.Unix(scannedAt, 0).UTC()

	if options != "" {
		opts, err := types.OptionsFromJSON(options)
		if err != nil {
			return nil, errors.NewMetadataError("failed to decode stored options", name, errors.DatabaseOperationFailed, err)
		}
		md.Options = opts
	}

	return &md, nil
}

// Insert stores a metadata record, replacing any previous record for the same
// filename.
func (s *Store) Insert(md *types.Metadata) error {
	name := filepath.Base(md.Filename)

	options := ""
	if md.Options != nil {
		encoded, err := md.Options.ToJSON()
		if err != nil {
			return errors.NewMetadataError("failed to encode options", name, errors.DatabaseOperationFailed, err)
		}
		options = encoded
	}

	_, err := s.db.Exec(
		`INSERT INTO gcode_metadata (filename, slicer, slicer_version, size, modified, scanned_at, options)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(filename) DO UPDATE SET
			slicer = excluded.slicer,
			slicer_version = excluded.slicer_version,
			size = excluded.size,
			modified = excluded.modified,
			scanned_at = excluded.scanned_at,
			options = excluded.options`,
		name, md.Slicer, md.SlicerVersion, md.Size, md.Modified.Unix(), md.ScannedAt.Unix(), options)
	if err != nil {
		return errors.NewMetadataError("failed to store metadata", name, errors.DatabaseOperationFailed, err)
	}

	return nil
}

// UpdateOptions merges new options into the stored record for a file.
func (s *Store) UpdateOptions(filename string, opts types.Options) (*types.Metadata, error) {
	md, err := s.Get(filename)
	if err != nil {
		return nil, err
	}

	md.Options = opts
	md.ScannedAt = time.Now().UTC()
	if err := s.Insert(md); err != nil {
		return nil, err
	}
	return md, nil
}

// Delete removes the record for a gcode file.
func (s *Store) Delete(filename string) error {
	name := filepath.Base(filename)
	_, err := s.db.Exec(`DELETE FROM gcode_metadata WHERE filename = ?`, name)
	if err != nil {
		return errors.NewMetadataError("failed to delete metadata", name, errors.DatabaseOperationFailed, err)
	}
	return nil
}

// List returns the stored records, without their options payloads, ordered by
// filename.
func (s *Store) List() ([]types.Metadata, error) {
	rows, err := s.db.Query(
		`SELECT filename, slicer, slicer_version, size, modified, scanned_at
		 FROM gcode_metadata ORDER BY filename`)
	if err != nil {
		return nil, errors.NewMetadataError("failed to list metadata", "", errors.DatabaseOperationFailed, err)
	}
	defer rows.Close()

	var records []types.Metadata
	for rows.Next() {
		var md types.Metadata
		var modified, scannedAt int64
		if err := rows.Scan(&md.Filename, &md.Slicer, &md.SlicerVersion, &md.Size, &modified, &scannedAt); err != nil {
			return nil, errors.NewMetadataError("failed to scan metadata row", "", errors.DatabaseOperationFailed, err)
		}
		md.Modified = time.Unix(modified, 0).UTC()
		md.ScannedAt = time.Unix(scannedAt, 0).UTC()
		records = append(records, md)
	}

	return records, rows.Err()
}
