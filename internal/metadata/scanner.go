package metadata

import (
	"os"
	"path/filepath"
	"time"

	"contrast/internal/config"
	"contrast/internal/errors"
	"contrast/internal/log"
	"contrast/internal/slicer"
	"contrast/pkg/types"
)

// Scanner detects the slicer that produced a gcode file, parses its settings
// footer and records the result in the metadata store.
type Scanner struct {
	store  *Store
	dirs   []string
	params slicer.Params
}

// NewScanner builds a scanner from the configured gcode directories and parse
// tunables.
func NewScanner(store *Store, cfg *config.Config) *Scanner {
	return &Scanner{
		store: store,
		dirs:  cfg.Gcodes.Dirs,
		params: slicer.Params{
			BufferSize: cfg.Scan.BufferSize,
			RawValues:  cfg.Scan.RawValues,
			Ignore:     cfg.IgnoreGlobs(),
		},
	}
}

// Resolve locates a gcode file. Absolute or relative paths that exist are
// used as-is; otherwise the base name is searched in the configured gcode
// directories.
func (s *Scanner) Resolve(filename string) (string, error) {
	if info, err := os.Stat(filename); err == nil && info.Mode().IsRegular() {
		return filename, nil
	}

	name := filepath.Base(filename)
	for _, dir := range s.dirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", errors.NewFileError("gcode file not found", name, errors.FileNotFound, nil)
}

// Scan parses a gcode file and returns its metadata. With save enabled the
// record is written to the store, replacing any previous scan of the file.
func (s *Scanner) Scan(filename string, save bool) (*types.Metadata, error) {
	path, err := s.Resolve(filename)
	if err != nil {
		return nil, err
	}

	id, err := slicer.Detect(path)
	if err != nil {
		return nil, err
	}

	parser, err := slicer.New(id.Name, path, s.params)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	opts, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewFileError("failed to stat gcode file", path, errors.FileOperationFailed, err)
	}

	md := &types.Metadata{
		Filename:      filepath.Base(path),
		Slicer:        id.Name,
		SlicerVersion: id.Version,
		Size:          info.Size(),
		Modified:      info.ModTime().UTC(),
		ScannedAt:     time.Now().UTC(),
		Options:       opts,
	}

	if save {
		if err := s.store.Insert(md); err != nil {
			return nil, err
		}
	}

	log.LogWithFields(
		log.F("file", md.Filename),
		log.F("slicer", id.Name),
		log.F("options", len(opts)),
		log.F("took", time.Since(started).Round(time.Millisecond).String()),
	).Info("Parsed gcode settings")

	return md, nil
}

// Parser rebuilds a slicer adapter preloaded with a stored record's options,
// so alias lookups work without touching the original file.
func (s *Scanner) Parser(md *types.Metadata) (slicer.Slicer, error) {
	parser, err := slicer.New(md.Slicer, md.Filename, s.params)
	if err != nil {
		return nil, err
	}
	parser.SetOptions(md.Options)
	return parser, nil
}

// Store exposes the underlying metadata store.
func (s *Scanner) Store() *Store {
	return s.store
}
