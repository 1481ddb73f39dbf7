package types

import (
	"encoding/json"
	"sort"
)

// Options holds the slicer settings extracted from a gcode file, keyed by the
// option name the slicer wrote. Values are the cast forms produced by the
// parser: bool, int64, float64, string or nil.
type Options map[string]any

// Names returns the option names in sorted order.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of the options map.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for name, value := range o {
		out[name] = value
	}
	return out
}

// ToJSON serializes the options for storage or display.
func (o Options) ToJSON() (string, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// OptionsFromJSON deserializes a stored options blob. Numeric values are
// restored to int64 or float64 so they compare equal to freshly parsed ones.
func OptionsFromJSON(data string) (Options, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, err
	}
	opts := make(Options, len(raw))
	for name, value := range raw {
		opts[name] = decodeValue(value)
	}
	return opts, nil
}

func decodeValue(raw json.RawMessage) any {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i
		}
		if f, err := num.Float64(); err == nil {
			return f
		}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// ValueEqual compares two option values, treating numerically equal values as
// the same even when one side is an int64 and the other a float64.
func ValueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
