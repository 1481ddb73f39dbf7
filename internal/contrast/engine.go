// Package contrast compares the slicer settings of two gcode files. It
// offers a raw per-side diff, a categorized summary, and an itemized view
// that resolves option-name differences between slicers through alias tables.
package contrast

import (
	"sort"

	"contrast/internal/slicer"
	"contrast/pkg/types"
)

// DiffResult holds the options that differ between two files: each side's
// differing entries plus the union of their names.
type DiffResult struct {
	Left     map[string]any `json:"left"`
	Right    map[string]any `json:"right"`
	OptNames []string       `json:"opt_names"`
}

// Summary buckets a comparison into added (left only), removed (right only),
// modified (shared with differing values, name to [left, right]) and same.
type Summary struct {
	Added    []string          `json:"added"`
	Removed  []string          `json:"removed"`
	Modified map[string][2]any `json:"modified"`
	Same     []string          `json:"same"`
}

// Itemized maps each differing option name to a small record with "left",
// "right" and, when the right side knows the option under another name,
// "right_opt" keys.
type Itemized map[string]map[string]any

// Diff returns the entries of each side whose (name, value) pair is absent
// from the other side, with the combined option names sorted.
func Diff(left, right types.Options) DiffResult {
	result := DiffResult{
		Left:  map[string]any{},
		Right: map[string]any{},
	}

	for name, value := range left {
		if other, ok := right[name]; !ok || !types.ValueEqual(value, other) {
			result.Left[name] = value
		}
	}
	for name, value := range right {
		if other, ok := left[name]; !ok || !types.ValueEqual(value, other) {
			result.Right[name] = value
		}
	}

	names := make(map[string]struct{}, len(result.Left)+len(result.Right))
	for name := range result.Left {
		names[name] = struct{}{}
	}
	for name := range result.Right {
		names[name] = struct{}{}
	}
	result.OptNames = sortedKeys(names)

	return result
}

// Summarize categorizes the two option sets by name and value.
func Summarize(left, right types.Options) Summary {
	summary := Summary{
		Added:    []string{},
		Removed:  []string{},
		Modified: map[string][2]any{},
		Same:     []string{},
	}

	for name, value := range left {
		other, ok := right[name]
		switch {
		case !ok:
			summary.Added = append(summary.Added, name)
		case types.ValueEqual(value, other):
			summary.Same = append(summary.Same, name)
		default:
			summary.Modified[name] = [2]any{value, other}
		}
	}
	for name := range right {
		if _, ok := left[name]; !ok {
			summary.Removed = append(summary.Removed, name)
		}
	}

	sort.Strings(summary.Added)
	sort.Strings(summary.Removed)
	sort.Strings(summary.Same)

	return summary
}

// ItemizedDiff walks the left side's options and resolves each against the
// right slicer. With compat enabled the right side's alias table translates
// option names the slicers disagree on, and modifiers bring the values into
// the same unit and sign before comparing. Options whose values match are
// dropped. With includeAll, left options the right side has no counterpart
// for appear with a null "right_opt", and right options never matched from
// the left appear with a null "left".
func ItemizedDiff(left types.Options, right slicer.Slicer, compat, includeAll bool) Itemized {
	results := Itemized{}
	consumed := map[string]struct{}{}

	for _, name := range left.Names() {
		value := left[name]

		opt, ok := right.Option(name, compat)
		if !ok {
			if includeAll {
				results[name] = map[string]any{"left": value, "right_opt": nil}
			}
			continue
		}
		consumed[opt.Name] = struct{}{}

		if types.ValueEqual(value, opt.Value) {
			continue
		}

		entry := map[string]any{"left": value, "right": opt.Value}
		if opt.Name != name {
			entry["right_opt"] = opt.Name
		}
		results[name] = entry
	}

	if includeAll {
		for name, value := range right.Options() {
			if _, ok := consumed[name]; ok {
				continue
			}
			results[name] = map[string]any{"left": nil, "right": value}
		}
	}

	return results
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
