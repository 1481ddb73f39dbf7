package slicer

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"contrast/internal/errors"
)

// Identity holds the slicer name and version pulled from a gcode header.
type Identity struct {
	Name    string
	Version string
}

// detectHeadLines bounds how far into the file the header scan looks. Every
// supported slicer writes its signature comment within the first few lines.
const detectHeadLines = 100

type signature struct {
	name    string
	pattern *regexp.Regexp
}

// Signature comments as the slicers actually write them, e.g.
//
//	; generated by PrusaSlicer 2.7.1+linux-x64-GTK3 on 2024-02-10 ...
//	; generated by SuperSlicer 2.5.59 on ...
//	; generated by OrcaSlicer 1.9.0 on ...
//	; BambuStudio 01.08.00.57
//	;Generated with Cura_SteamEngine 5.4.0
var signatures = []signature{
	{"PrusaSlicer", regexp.MustCompile(`generated by PrusaSlicer ([^\s]+)`)},
	{"SuperSlicer", regexp.MustCompile(`generated by SuperSlicer ([^\s]+)`)},
	{"OrcaSlicer", regexp.MustCompile(`generated by OrcaSlicer ([^\s]+)`)},
	{"BambuStudio", regexp.MustCompile(`BambuStudio ([^\s]+)`)},
	{"Cura", regexp.MustCompile(`Cura_SteamEngine ([^\s]+)`)},
	{"Slic3r", regexp.MustCompile(`generated by Slic3r ([^\s]+)`)},
}

// Detect reads the head of a gcode file and identifies the slicer that
// produced it.
func Detect(path string) (Identity, error) {
	file, err := os.Open(path)
	if err != nil {
		return Identity{}, errors.NewFileError("failed to open gcode file", path, errors.FileNotFound, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for count := 0; count < detectHeadLines && scanner.Scan(); count++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line != "" && !strings.HasPrefix(line, ";") {
			// Past the comment header; the signature won't show up later.
			continue
		}
		for _, sig := range signatures {
			if m := sig.pattern.FindStringSubmatch(line); m != nil {
				return Identity{Name: sig.name, Version: m[1]}, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Identity{}, errors.NewFileError("failed to read gcode file", path, errors.FileOperationFailed, err)
	}

	return Identity{}, errors.NewSlicerError("no settings parser for slicer", "unknown", errors.UnknownSlicer, nil)
}
