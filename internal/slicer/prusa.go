package slicer

import "regexp"

var prusaLinePattern = regexp.MustCompile(`^; ([a-zA-Z0-9_-]+) = (.+)`)

// prusaAliases maps option names used by other slicers (and legacy
// PrusaSlicer/SuperSlicer versions) to the names current PrusaSlicer writes.
// Collected from the slicers' own legacy-config handlers and the
// SuperSlicer-to-Orca conversion tables.
var prusaAliases = map[string]string{
	"enable_arc_fitting":                       "arc_fitting",
	"bottom_layer_speed_ratio":                 "bottom_layer_speed",
	"first_layer_height_ratio":                 "first_layer_height",
	"initial_layer_print_height":               "first_layer_height",
	"bottom_layer_speed":                       "first_layer_speed",
	"skirt_height":                             "draft_shield",
	"octoprint_host":                           "print_host",
	"octoprint_cafile":                         "printhost_cafile",
	"octoprint_apikey":                         "printhost_apikey",
	"preset_name":                              "preset_names",
	"extrusion_spacing":                        "extrusion_width",
	"perimeter_extrusion_spacing":              "perimeter_extrusion_width",
	"inner_wall_line_width":                    "perimeter_extrusion_width",
	"external_perimeter_extrusion_spacing":     "external_perimeter_extrusion_width",
	"infill_extrusion_spacing":                 "infill_extrusion_width",
	"solid_infill_extrusion_spacing":           "solid_infill_extrusion_width",
	"internal_solid_infill_line_width":         "solid_infill_extrusion_width",
	"top_infill_extrusion_spacing":             "top_infill_extrusion_width",
	"fill_top_flow_ratio":                      "top_infill_extrusion_width",
	"top_solid_infill_flow_ratio":              "top_infill_extrusion_width",
	"bed_size":                                 "bed_shape",
	"first_layer_size_compensation":            "elefant_foot_compensation",
	"xy_offset_layer_0":                        "elefant_foot_compensation",
	"print_machine_envelope":                   "machine_limits_usage",
	"sla_archive_format":                       "output_format",
	"support_material_solid_first_layer":       "raft_first_layer_density",
	"bottom_shell_layers":                      "bottom_solid_layers",
	"bottom_shell_thickness":                   "bottom_solid_min_thickness",
	"bridge_no_support":                        "dont_support_bridges",
	"brim_object_gap":                          "brim_separation",
	"brim_gap":                                 "brim_separation",
	"detect_overhang_wall":                     "overhangs",
	"detect_thin_wall":                         "thin_walls",
	"enable_overhang_speed":                    "enable_dynamic_overhang_speeds",
	"enable_prime_tower":                       "wipe_tower",
	"filter_out_gap_fill":                      "gap_fill_enabled",
	"gap_fill_min_length":                      "gap_fill_enabled",
	"emit_machine_limits_to_gcode":             "machine_limits_usage",
	"infill_direction":                         "fill_angle",
	"infill_wall_overlap":                      "infill_overlap",
	"is_infill_first":                          "infill_first",
	"line_width":                               "extrusion_width",
	"print_flow_ratio":                         "extrusion_multiplier",
	"initial_layer_acceleration":               "first_layer_acceleration",
	"first_layer_extrusion_spacing":            "first_layer_extrusion_width",
	"internal_solid_infill_acceleration":       "solid_infill_acceleration",
	"ironing_flow":                             "ironing_flowrate",
	"spiral_mode":                              "spiral_vase",
	"solid_infill_filament":                    "solid_infill_extruder",
	"support_filament":                         "support_material_extruder",
	"sparse_infill_filament":                   "infill_extruder",
	"wall_filament":                            "perimeter_extruder",
	"support_interface_filament":               "support_material_interface_extruder",
	"max_travel_detour_distance":               "avoid_crossing_perimeters_max_detour",
	"minimum_sparse_infill_area":               "solid_infill_below_area",
	"extra_perimeters_overhangs":               "extra_perimeters_on_overhangs",
	"inner_wall_acceleration":                  "perimeter_acceleration",
	"outer_wall_acceleration":                  "external_perimeter_acceleration",
	"outer_wall_line_width":                    "external_perimeter_extrusion_width",
	"prime_tower_brim_width":                   "wipe_tower_brim_width",
	"prime_tower_width":                        "wipe_tower_width",
	"reduce_crossing_wall":                     "avoid_crossing_perimeters",
	"reduce_infill_retraction":                 "only_retract_when_crossing_perimeters",
	"skirt_loops":                              "skirts",
	"sparse_infill_acceleration":               "infill_acceleration",
	"sparse_infill_density":                    "fill_density",
	"sparse_infill_line_width":                 "infill_extrusion_width",
	"enable_support":                           "support_material",
	"support_angle":                            "support_material_angle",
	"enforce_support_layers":                   "support_material_enforce_layers",
	"support_base_pattern_spacing":             "support_material_spacing",
	"support_top_z_distance":                   "support_material_contact_distance",
	"support_bottom_z_distance":                "support_material_bottom_contact_distance",
	"support_interface_bottom_layers":          "support_material_bottom_interface_layers",
	"support_interface_loop_pattern":           "support_material_interface_contact_loops",
	"support_interface_spacing":                "support_material_interface_spacing",
	"support_interface_top_layers":             "support_material_interface_layers",
	"support_line_width":                       "support_material_extrusion_width",
	"support_on_build_plate_only":              "support_material_buildplate_only",
	"support_threshold_angle":                  "support_material_threshold",
	"top_shell_thickness":                      "top_solid_min_thickness",
	"top_surface_acceleration":                 "top_solid_infill_acceleration",
	"top_surface_line_width":                   "top_infill_extrusion_width",
	"min_width_top_surface":                    "top_infill_extrusion_width",
	"tree_support_branch_angle":                "support_tree_angle",
	"tree_support_angle_slow":                  "support_tree_angle_slow",
	"tree_support_branch_diameter":             "support_tree_branch_diameter",
	"tree_support_branch_diameter_double_wall": "support_tree_branch_diameter_angle",
	"tree_support_tip_diameter":                "support_tree_tip_diameter",
	"tree_support_top_rate":                    "support_tree_top_rate",
	"wall_generator":                           "perimeter_generator",
	"wall_loops":                               "perimeters",
	"xy_inner_size_compensation":               "xy_size_compensation",
	"sparse_infill_pattern":                    "fill_pattern",
	"solid_fill_pattern":                       "fill_pattern",
	"internal_solid_infill_pattern":            "fill_pattern",
	"filename_format":                          "output_filename_format",
	"support_base_pattern":                     "support_material_pattern",
	"top_surface_pattern":                      "top_fill_pattern",
	"support_object_xy_distance":               "support_material_xy_spacing",
	"fuzzy_skin_point_distance":                "fuzzy_skin_point_dist",
	"bottom_surface_pattern":                   "bottom_fill_pattern",
	"bridge_flow":                              "bridge_flow_ratio",
	"first_layer_flow_ratio":                   "first_layer_extrusion_width",
	"bottom_solid_infill_flow_ratio":           "first_layer_extrusion_width",
	"infill_combination":                       "infill_every_layers",
	"print_sequence":                           "complete_objects",
	"support_style":                            "support_material_style",
	"disable_m73":                              "remaining_times",
	// Filament
	"cool_plate_temp":                     "bed_temperature",
	"hot_plate_temp":                      "bed_temperature",
	"textured_plate_temp":                 "bed_temperature",
	"eng_plate_temp":                      "bed_temperature",
	"overhang_fan_speed":                  "bridge_fan_speed",
	"close_fan_the_first_x_layers":        "disable_fan_first_layers",
	"filament_end_gcode":                  "end_filament_gcode",
	"filament_flow_ratio":                 "extrusion_multiplier",
	"reduce_fan_stop_start_freq":          "fan_always_on",
	"fan_cooling_layer_time":              "fan_below_layer_time",
	"default_filament_colour":             "filament_colour",
	"filament_deretraction_speed":         "filament_deretract_speed",
	"filament_retraction_minimum_travel":  "filament_retract_before_travel",
	"filament_retract_when_changing_layer": "filament_retract_layer_change",
	"filament_retraction_length":          "filament_retract_length",
	"filament_z_hop":                      "filament_retract_lift",
	"filament_retraction_speed":           "filament_retract_speed",
	"hot_plate_temp_initial_layer":        "first_layer_bed_temperature",
	"cool_plate_temp_initial_layer":       "first_layer_bed_temperature",
	"eng_plate_temp_initial_layer":        "first_layer_bed_temperature",
	"textured_plate_temp_initial_layer":   "first_layer_bed_temperature",
	"nozzle_temperature_initial_layer":    "first_layer_temperature",
	"fan_max_speed":                       "max_fan_speed",
	"fan_min_speed":                       "min_fan_speed",
	"slow_down_min_speed":                 "min_print_speed",
	"slow_down_layer_time":                "slowdown_below_layer_time",
	"filament_start_gcode":                "start_filament_gcode",
	"nozzle_temperature":                  "temperature",
	// Printer
	"before_layer_change_gcode":  "before_layer_gcode",
	"change_filament_gcode":      "toolchange_gcode",
	"deretraction_speed":         "deretract_speed",
	"layer_change_gcode":         "layer_gcode",
	"change_extrusion_role_gcode": "toolchange_gcode",
	"feature_gcode":              "toolchange_gcode",
	"machine_end_gcode":          "end_gcode",
	"machine_pause_gcode":        "pause_print_gcode",
	"machine_start_gcode":        "start_gcode",
	"printable_area":             "bed_shape",
	"printable_height":           "max_print_height",
	"retract_when_changing_layer": "retract_layer_change",
	"retraction_length":          "retract_length",
	"z_hop":                      "retract_lift",
	"retraction_hop_enabled":     "retract_lift",
	"retraction_hop":             "retract_lift",
	"retraction_minimum_travel":  "retract_before_travel",
	"retraction_speed":           "retract_speed",
	"skin_overlap":               "infill_overlap",
	"skirt_minimal_length":       "min_skirt_length",
	"skirt_brim_minimal_length":  "min_skirt_length",
	"speed_support_infill":       "support_material_speed",
	"speed_support_lines":        "support_material_speed",
	"speed_support_roof":         "support_material_interface_speed",
	"speed_support_interface":    "support_material_interface_speed",
	"support_interface_extruder_nr": "support_material_interface_extruder",
	"support_roof_extruder_nr":      "support_material_interface_extruder",
	"support_roof_line_distance":    "support_material_contact_distance",
	"support_interface_line_distance": "support_material_interface_spacing",
	"support_roof_line_width":       "support_material_extrusion_width",
	"support_interface_line_width":  "support_material_extrusion_width",
	"support_roof_pattern":          "top_fill_pattern",
	"support_interface_pattern":     "support_material_interface_pattern",
}

// Options that express the same setting with the opposite sign, or as a gap
// rather than a compensation, get their values flipped when compared through
// the alias.
var prusaModifiers = map[AliasKey]Modifier{
	{Foreign: "first_layer_size_compensation", Local: "elefant_foot_compensation"}: InvertNumber,
	{Foreign: "xy_offset_layer_0", Local: "elefant_foot_compensation"}:             InvertNumber,
	{Foreign: "brim_gap", Local: "brim_separation"}:                                InvertNumber,
}

// NewPrusa creates the adapter for PrusaSlicer, SuperSlicer and legacy Slic3r
// footers.
func NewPrusa(path string, params Params) Slicer {
	g := NewGeneric(path, params)
	g.name = "PrusaSlicer"
	g.linePattern = prusaLinePattern
	g.aliases = prusaAliases
	g.modifiers = prusaModifiers
	return g
}
