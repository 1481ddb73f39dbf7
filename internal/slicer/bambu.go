package slicer

// bambuAliases maps PrusaSlicer-era option names to the names BambuStudio
// writes, taken from BambuStudio's own legacy-config handler.
var bambuAliases = map[string]string{
	"enable_wipe_tower":                   "enable_prime_tower",
	"wipe_tower_width":                    "prime_tower_width",
	"bottom_solid_infill_flow_ratio":      "initial_layer_flow_ratio",
	"wiping_volume":                       "prime_volume",
	"wipe_tower_brim_width":               "prime_tower_brim_width",
	"tool_change_gcode":                   "change_filament_gcode",
	"bridge_fan_speed":                    "overhang_fan_speed",
	"infill_extruder":                     "sparse_infill_filament",
	"solid_infill_extruder":               "solid_infill_filament",
	"perimeter_extruder":                  "wall_filament",
	"support_material_extruder":           "support_filament",
	"support_material_interface_extruder": "support_interface_filament",
}

// NewBambu creates the adapter for BambuStudio, which brackets its settings
// footer with the same CONFIG_BLOCK markers Orca inherited.
func NewBambu(path string, params Params) Slicer {
	g := NewGeneric(path, params)
	g.name = "BambuStudio"
	g.startPattern = orcaStartPattern
	g.endPattern = orcaEndPattern
	g.linePattern = prusaLinePattern
	g.aliases = bambuAliases
	g.modifiers = nil
	return g
}
