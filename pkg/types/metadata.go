package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata is the per-file record kept for every scanned gcode file.
type Metadata struct {
	Filename      string    `json:"filename"`
	Slicer        string    `json:"slicer"`
	SlicerVersion string    `json:"slicer_version"`
	Size          int64     `json:"size"`
	Modified      time.Time `json:"modified"`
	ScannedAt     time.Time `json:"scanned_at"`
	Options       Options   `json:"slicer_options,omitempty"`
}

// HasOptions reports whether a settings block was extracted for this file.
func (m *Metadata) HasOptions() bool {
	return len(m.Options) > 0
}

// ToJSON converts the metadata record to a JSON string.
func (m *Metadata) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// String returns a human-readable representation.
func (m *Metadata) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:    %s\n", m.Filename))
	sb.WriteString(fmt.Sprintf("Slicer:  %s %s\n", m.Slicer, m.SlicerVersion))
	sb.WriteString(fmt.Sprintf("Size:    %d bytes\n", m.Size))
	sb.WriteString(fmt.Sprintf("Options: %d\n", len(m.Options)))
	return sb.String()
}

// Option is a resolved slicer option, possibly reached through an alias. Name
// is the name the owning slicer uses, which may differ from the name asked for.
type Option struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}
