package slicer

import "regexp"

var (
	orcaStartPattern = regexp.MustCompile(`^; CONFIG_BLOCK_START$`)
	orcaEndPattern   = regexp.MustCompile(`^; CONFIG_BLOCK_END$`)
)

// NewOrca creates the adapter for OrcaSlicer. Orca forked the Bambu settings
// block, so it shares the CONFIG_BLOCK markers and the Bambu-to-Prusa option
// names.
func NewOrca(path string, params Params) Slicer {
	g := NewGeneric(path, params)
	g.name = "OrcaSlicer"
	g.startPattern = orcaStartPattern
	g.endPattern = orcaEndPattern
	g.linePattern = prusaLinePattern
	g.aliases = bambuAliases
	g.modifiers = nil
	return g
}
