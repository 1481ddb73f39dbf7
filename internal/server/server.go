// Package server exposes the scan and comparison operations over HTTP,
// mirroring the endpoint layout printer frontends already speak.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contrast/internal/config"
	"contrast/internal/contrast"
	"contrast/internal/errors"
	"contrast/internal/log"
	"contrast/internal/metadata"
)

// Server serves the slicer settings API.
type Server struct {
	cfg     *config.Config
	scanner *metadata.Scanner
	http    *http.Server
}

// New creates a server bound to the configured listen address.
func New(cfg *config.Config, scanner *metadata.Scanner) *Server {
	s := &Server{cfg: cfg, scanner: scanner}
	s.http = &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/server/files/slicer/configscan", s.handleConfigScan)
	mux.HandleFunc("/server/files/slicer/configdata", s.handleConfigData)
	mux.HandleFunc("/server/files/slicer/compare", s.handleCompare)
	mux.HandleFunc("/server/files/slicer/compare/summarize", s.handleSummarize)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.LogWithFields(log.F("address", s.http.Addr)).Info("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// handleConfigScan parses a gcode file's settings block on demand. With
// save=true (the default) the result replaces the stored record.
func (s *Server) handleConfigScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename parameter is required")
		return
	}
	save := queryBool(r, "save", true)

	started := time.Now()
	md, err := s.scanner.Scan(filename, save)
	if err != nil {
		scansTotal.WithLabelValues("unknown", "error").Inc()
		writeScanError(w, filename, err)
		return
	}
	scanDuration.Observe(time.Since(started).Seconds())
	scansTotal.WithLabelValues(md.Slicer, "ok").Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"filename":       md.Filename,
		"slicer":         md.Slicer,
		"slicer_version": md.SlicerVersion,
		"slicer_options": md.Options,
	})
}

// handleConfigData returns the stored settings for a file without touching
// the file itself.
func (s *Server) handleConfigData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename parameter is required")
		return
	}

	md, err := s.scanner.Store().Get(filename)
	if err != nil {
		if errors.IsMetadataNotFound(err) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("No metadata found for gcode file %s", filename))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slicer":         md.Slicer,
		"slicer_version": md.SlicerVersion,
		"slicer_options": md.Options,
	})
}

// handleCompare diffs the stored options of two files. format=itemized
// switches to the per-option view with alias resolution; the default returns
// both records plus the raw diff.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	left := r.URL.Query().Get("left")
	right := r.URL.Query().Get("right")
	if left == "" || right == "" {
		writeError(w, http.StatusBadRequest, "left and right parameters are required")
		return
	}
	format := r.URL.Query().Get("format")
	compat := queryBool(r, "compatibility", true)
	includeAll := queryBool(r, "all", true)

	mdLeft, err := s.scanner.Store().Get(left)
	if err != nil || !mdLeft.HasOptions() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No metadata found for left file %s", left))
		return
	}
	mdRight, err := s.scanner.Store().Get(right)
	if err != nil || !mdRight.HasOptions() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No slicer_options found in metadata for right file %s", right))
		return
	}

	if format == "itemized" {
		parser, err := s.scanner.Parser(mdRight)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		comparesTotal.WithLabelValues("itemized").Inc()
		writeJSON(w, http.StatusOK, contrast.ItemizedDiff(mdLeft.Options, parser, compat, includeAll))
		return
	}

	comparesTotal.WithLabelValues("diff").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": map[string]any{"left": mdLeft, "right": mdRight},
		"diff":     contrast.Diff(mdLeft.Options, mdRight.Options),
	})
}

// handleSummarize buckets the comparison into added, removed, modified and
// same. When the left file has no stored options and scan=true (the default)
// it is scanned first; the right file must already have a record.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	left := r.URL.Query().Get("left")
	right := r.URL.Query().Get("right")
	if left == "" || right == "" {
		writeError(w, http.StatusBadRequest, "left and right parameters are required")
		return
	}
	forceScan := queryBool(r, "scan", true)

	mdLeft, err := s.scanner.Store().Get(left)
	if err != nil || !mdLeft.HasOptions() {
		if !forceScan {
			writeError(w, http.StatusNotFound, fmt.Sprintf("No slicer_options found for left file %s", left))
			return
		}
		mdLeft, err = s.scanner.Scan(left, true)
		if err != nil {
			writeScanError(w, left, err)
			return
		}
	}

	mdRight, err := s.scanner.Store().Get(right)
	if err != nil || !mdRight.HasOptions() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No slicer_options found in metadata for right file %s", right))
		return
	}

	comparesTotal.WithLabelValues("summarize").Inc()
	writeJSON(w, http.StatusOK, contrast.Summarize(mdLeft.Options, mdRight.Options))
}

func writeScanError(w http.ResponseWriter, filename string, err error) {
	switch {
	case errors.IsFileNotFound(err):
		writeError(w, http.StatusNotFound, fmt.Sprintf("Gcode file %s not found", filename))
	case errors.IsUnknownSlicer(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.IsNoOptions(err):
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("No slicer options found in %s", filename))
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func queryBool(r *http.Request, name string, fallback bool) bool {
	value := r.URL.Query().Get(name)
	switch value {
	case "":
		return fallback
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
