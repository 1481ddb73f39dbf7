package slicer

import (
	"encoding/json"
	"os"
	"strings"

	"contrast/internal/errors"
	"contrast/pkg/types"
)

const (
	curaEndMarker     = ";End of Gcode"
	curaSettingPrefix = ";SETTING_"
)

// curaAliases maps other slicers' option names to Cura's fdmprinter setting
// keys.
var curaAliases = map[string]string{
	"retraction_length":             "retract_length",
	"retract_length":                "retraction_amount",
	"retract_speed":                 "retraction_speed",
	"infill_speed":                  "speed_print",
	"travel_speed":                  "speed_travel",
	"line_width":                    "extrusion_width",
	"material_print_speed":          "max_print_speed",
	"speed_print_layer_0":           "speed_layer_0",
	"initial_layer_speed":           "speed_layer_0",
	"first_layer_speed":             "speed_layer_0",
	"elefant_foot_compensation":     "xy_offset_layer_0",
	"first_layer_size_compensation": "xy_offset_layer_0",
	"first_layer_temperature":       "material_print_temperature_layer_0",
	"overhang_fan_speed":            "bridge_fan_speed",
	"sparse_infill_density":         "infill_sparse_density",
	"brim_separation":               "brim_gap",
}

// Cura's horizontal expansion and brim gap run the opposite way from the
// compensation values most slicers use.
var curaModifiers = map[AliasKey]Modifier{
	{Foreign: "elefant_foot_compensation", Local: "xy_offset_layer_0"}:     InvertNumber,
	{Foreign: "first_layer_size_compensation", Local: "xy_offset_layer_0"}: InvertNumber,
	{Foreign: "brim_separation", Local: "brim_gap"}:                        InvertNumber,
}

// Cura parses the `;SETTING_n` JSON fragments Cura appends after the end of
// the gcode. The fragments concatenate into one JSON object whose values are
// INI-style profile texts with literal `\n` separators.
type Cura struct {
	Generic
}

// NewCura creates the adapter for Ultimaker Cura.
func NewCura(path string, params Params) Slicer {
	g := NewGeneric(path, params)
	g.name = "Cura"
	g.aliases = curaAliases
	g.modifiers = curaModifiers
	return &Cura{Generic: *g}
}

// Parse collects the ;SETTING_ lines from the bottom of the file, decodes the
// JSON they form, and extracts `key = value` pairs from the embedded profile
// texts.
func (c *Cura) Parse() (types.Options, error) {
	raw, err := c.collectFragments()
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, errors.NewSlicerError("no slicer options found", c.name, errors.NoOptionsFound, nil)
	}

	sections, err := decodeCuraSections(raw)
	if err != nil {
		return nil, errors.NewSlicerError("failed to decode settings JSON", c.name, errors.ParseFailed, err)
	}

	opts := types.Options{}
	// Profile texts embed literal backslash-n separators between lines.
	for _, line := range strings.Split(strings.Join(sections, ""), `\n`) {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, " = ")
		if idx <= 0 {
			continue
		}
		name := line[:idx]
		value := line[idx+3:]
		if c.ignored(name) {
			continue
		}
		if c.params.RawValues {
			opts[name] = value
		} else {
			opts[name] = Cast(value)
		}
	}

	if len(opts) == 0 {
		return nil, errors.NewSlicerError("no slicer options found", c.name, errors.NoOptionsFound, nil)
	}

	c.options = opts
	return opts, nil
}

// collectFragments walks the file tail upward gathering the payload of each
// contiguous ;SETTING_ line, restoring file order.
func (c *Cura) collectFragments() (string, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return "", errors.NewFileError("failed to open gcode file", c.path, errors.FileNotFound, err)
	}
	defer file.Close()

	bufSize := c.params.BufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}

	scanner, err := NewReverseScanner(file, bufSize)
	if err != nil {
		return "", errors.NewFileError("failed to read gcode file", c.path, errors.FileOperationFailed, err)
	}

	var fragments []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == curaEndMarker {
			break
		}
		if !strings.HasPrefix(line, curaSettingPrefix) {
			break
		}
		payload := strings.TrimPrefix(line, curaSettingPrefix)
		// Skip the settings format version digit after the prefix.
		if idx := strings.Index(payload, " "); idx >= 0 {
			payload = payload[idx+1:]
		} else {
			continue
		}
		fragments = append([]string{payload}, fragments...)
	}
	if err := scanner.Err(); err != nil {
		return "", errors.NewFileError("failed while reading gcode file", c.path, errors.FileOperationFailed, err)
	}

	return strings.Join(fragments, ""), nil
}

// decodeCuraSections returns the profile texts of the settings object in file
// order; values are either strings or arrays of strings (per-extruder).
func decodeCuraSections(raw string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var sections []string
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, err
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		switch v := value.(type) {
		case string:
			sections = append(sections, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					sections = append(sections, s)
				}
			}
		}
	}

	return sections, nil
}
