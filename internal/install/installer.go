// Package install places the plugin component files into a Moonraker
// installation and makes sure the configuration section the component needs
// is present in moonraker.conf.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"contrast/internal/errors"
	"contrast/internal/log"
)

// ComponentsSubdir is where Moonraker expects server components to live,
// relative to the installation base directory.
const ComponentsSubdir = "moonraker/components"

// Installer copies component files into a Moonraker installation and ensures
// the configuration section exists. Both precondition checks run before any
// mutation happens; the copy itself is a plain overwrite with no rollback.
type Installer struct {
	ConfigFile string // Moonraker configuration file, must exist
	InstallDir string // Moonraker installation base directory, must exist
	SourceDir  string // Local directory holding the component files
	Section    string // Section name ensured in the config file, e.g. "slicer"
}

// New creates an installer for the given target paths.
func New(configFile, installDir, sourceDir, section string) *Installer {
	return &Installer{
		ConfigFile: configFile,
		InstallDir: installDir,
		SourceDir:  sourceDir,
		Section:    section,
	}
}

// Run performs the installation: precondition checks in order, the idempotent
// section append, then the recursive component copy.
func (i *Installer) Run() error {
	if err := i.checkPreconditions(); err != nil {
		return err
	}

	if err := i.EnsureSection(); err != nil {
		return err
	}

	target := filepath.Join(i.InstallDir, filepath.FromSlash(ComponentsSubdir))
	if err := copyTree(i.SourceDir, target); err != nil {
		return errors.Wrapf(err, "failed to copy components to %s", target)
	}

	log.LogWithFields(log.F("target", target)).Info("Component files installed")
	return nil
}

// checkPreconditions verifies the config file and the installation directory
// exist, in that order. The copy step must not run when either is missing.
func (i *Installer) checkPreconditions() error {
	info, err := os.Stat(i.ConfigFile)
	if err != nil || info.IsDir() {
		return errors.NewFileError("moonraker config file not found", i.ConfigFile, errors.FileNotFound, nil)
	}

	info, err = os.Stat(i.InstallDir)
	if err != nil || !info.IsDir() {
		return errors.NewFileError("moonraker installation directory not found", i.InstallDir, errors.FileNotFound, nil)
	}

	return nil
}

// EnsureSection appends a blank line and the section marker to the config file
// unless a line equal to the marker is already present. Re-running on a file
// that already carries the marker leaves it byte-identical.
func (i *Installer) EnsureSection() error {
	marker := fmt.Sprintf("[%s]", i.Section)

	data, err := os.ReadFile(i.ConfigFile)
	if err != nil {
		return errors.NewFileError("failed to read moonraker config", i.ConfigFile, errors.FileOperationFailed, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimRight(line, "\r") == marker {
			log.LogWithFields(log.F("section", i.Section)).Debug("Config section already present")
			return nil
		}
	}

	f, err := os.OpenFile(i.ConfigFile, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.NewFileError("failed to open moonraker config for append", i.ConfigFile, errors.FileOperationFailed, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n%s\n", marker); err != nil {
		return errors.NewFileError("failed to append config section", i.ConfigFile, errors.FileOperationFailed, err)
	}

	log.LogWithFields(log.F("section", i.Section), log.F("file", i.ConfigFile)).Info("Added config section")
	return nil
}

// copyTree recursively copies src into dst, overwriting files of the same
// name. Directories are created as needed; symlinks and special files are
// skipped.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.NewFileError("component source directory not found", src, errors.FileNotFound, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("component source is not a directory", src, errors.InvalidPath, nil)
	}

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
