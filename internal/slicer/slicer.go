// Package slicer extracts the embedded settings block from sliced gcode
// files. Each supported slicer gets an adapter that knows where the block
// lives, how its lines are shaped, and which option names other slicers use
// for the same setting.
package slicer

import (
	"github.com/gobwas/glob"

	"contrast/internal/errors"
	"contrast/pkg/types"
)

// Slicer is a per-file settings parser for one slicer flavor.
type Slicer interface {
	// Name is the slicer's display name, e.g. "PrusaSlicer".
	Name() string
	// File is the path of the gcode file this parser reads.
	File() string
	// Parse extracts the settings block and keeps the result in the parser.
	Parse() (types.Options, error)
	// Options returns the currently held options, parsed or preloaded.
	Options() types.Options
	// SetOptions preloads options, e.g. from the metadata store, so alias
	// lookups work without re-reading the file.
	SetOptions(opts types.Options)
	// Option resolves an option by name. With aliases enabled a foreign
	// option name is translated through the alias table and its value run
	// through the matching modifier.
	Option(name string, aliases bool) (types.Option, bool)
}

// Modifier adjusts a value when it is read through an option alias, e.g.
// flipping the sign or converting between percent and ratio forms.
type Modifier func(value any) any

// AliasKey identifies a modifier: the foreign option name being asked for and
// the local option name it is aliased to.
type AliasKey struct {
	Foreign string
	Local   string
}

// Params carries the parse tunables shared by all adapters.
type Params struct {
	BufferSize int         // Reverse reader chunk size; 8192 when zero
	RawValues  bool        // Keep values as strings instead of casting
	Ignore     []glob.Glob // Option names matching any glob are dropped
}

type constructor func(path string, params Params) Slicer

// The registry maps the slicer names found in gcode headers to adapter
// constructors. SuperSlicer and legacy Slic3r variants share the PrusaSlicer
// block format.
var registry = map[string]constructor{
	"PrusaSlicer": NewPrusa,
	"SuperSlicer": NewPrusa,
	"Slic3r":      NewPrusa,
	"OrcaSlicer":  NewOrca,
	"BambuStudio": NewBambu,
	"Cura":        NewCura,
}

// New builds the adapter for a slicer by name. Unknown names are an error,
// matching the behavior of looking up a parser that was never registered.
func New(name, path string, params Params) (Slicer, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.NewSlicerError("no settings parser for slicer", name, errors.UnknownSlicer, nil)
	}
	return ctor(path, params), nil
}

// Supported lists the slicer names with a registered adapter.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
