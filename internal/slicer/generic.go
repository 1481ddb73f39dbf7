package slicer

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"contrast/internal/errors"
	"contrast/internal/log"
	"contrast/pkg/types"
)

const defaultBufferSize = 8192

// Block markers used by PrusaSlicer and most of its derivatives.
var (
	prusaStartPattern = regexp.MustCompile(`^;.*_config = begin$`)
	prusaEndPattern   = regexp.MustCompile(`^;.*_config = end$`)
	genericLinePat    = regexp.MustCompile(`^[\s;]*([a-zA-Z0-9_\s-]+) = (.+)$`)
)

// Generic parses a PrusaSlicer-style settings footer: a block of `; key =
// value` lines bracketed by begin/end marker comments, read from the bottom of
// the file up. Concrete adapters specialize the markers, the line shape and
// the alias tables.
type Generic struct {
	name         string
	path         string
	startPattern *regexp.Regexp // marks the block start in file order
	endPattern   *regexp.Regexp // marks the block end in file order
	linePattern  *regexp.Regexp
	aliases      map[string]string
	modifiers    map[AliasKey]Modifier
	params       Params
	options      types.Options
}

// NewGeneric creates the base adapter with PrusaSlicer-compatible defaults.
func NewGeneric(path string, params Params) *Generic {
	return &Generic{
		name:         "Generic",
		path:         path,
		startPattern: prusaStartPattern,
		endPattern:   prusaEndPattern,
		linePattern:  genericLinePat,
		params:       params,
	}
}

func (g *Generic) Name() string {
	return g.name
}

func (g *Generic) File() string {
	return filepath.Base(g.path)
}

func (g *Generic) Options() types.Options {
	return g.options
}

func (g *Generic) SetOptions(opts types.Options) {
	g.options = opts
}

// Parse reads the settings footer in reverse. Because the file is read bottom
// up, the end marker is encountered first and opens the block; the start
// marker closes it.
func (g *Generic) Parse() (types.Options, error) {
	file, err := os.Open(g.path)
	if err != nil {
		return nil, errors.NewFileError("failed to open gcode file", g.path, errors.FileNotFound, err)
	}
	defer file.Close()

	bufSize := g.params.BufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}

	scanner, err := NewReverseScanner(file, bufSize)
	if err != nil {
		return nil, errors.NewFileError("failed to read gcode file", g.path, errors.FileOperationFailed, err)
	}

	opts := types.Options{}
	inBlock := false

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if g.startPattern.MatchString(strings.TrimSpace(line)) {
			if !inBlock {
				return nil, errors.NewSlicerError("settings start marker without an end marker", g.name, errors.ParseFailed, nil)
			}
			break
		}

		if g.endPattern.MatchString(strings.TrimSpace(line)) {
			if inBlock {
				return nil, errors.NewSlicerError("settings end marker seen twice", g.name, errors.ParseFailed, nil)
			}
			inBlock = true
			continue
		}

		if !inBlock {
			continue
		}

		name, value, ok := g.parseLine(line)
		if !ok {
			continue
		}

		if g.ignored(name) {
			log.LogWithFields(log.F("option", name)).Debug("Skipping ignored option")
			continue
		}

		opts[name] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.NewFileError("failed while reading gcode file", g.path, errors.FileOperationFailed, err)
	}

	if len(opts) == 0 {
		return nil, errors.NewSlicerError("no slicer options found", g.name, errors.NoOptionsFound, nil)
	}

	g.options = opts
	return opts, nil
}

func (g *Generic) parseLine(line string) (string, any, bool) {
	if line == "" {
		return "", nil, false
	}

	m := g.linePattern.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}

	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", nil, false
	}

	if g.params.RawValues {
		return name, m[2], true
	}
	return name, Cast(m[2]), true
}

func (g *Generic) ignored(name string) bool {
	for _, pattern := range g.params.Ignore {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

// Option resolves a name against the held options. When aliases are enabled
// and the name is unknown locally, the alias table maps the foreign name to
// this slicer's own option, and a registered modifier adjusts the value so
// both sides compare in the same unit and sign.
func (g *Generic) Option(name string, aliases bool) (types.Option, bool) {
	if value, ok := g.options[name]; ok {
		return types.Option{Name: name, Value: value}, true
	}

	if !aliases {
		return types.Option{}, false
	}

	local, ok := g.aliases[name]
	if !ok {
		return types.Option{}, false
	}

	value, ok := g.options[local]
	if !ok {
		return types.Option{}, false
	}

	if modifier, ok := g.modifiers[AliasKey{Foreign: name, Local: local}]; ok && modifier != nil {
		value = modifier(value)
	}

	return types.Option{Name: local, Value: value}, true
}
