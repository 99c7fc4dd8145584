// Package driver wires the metadata facade and emitter together: it opens
// the cache on the caller's file paths, enumerates namespaces and types in
// sorted order, drives the two-pass emit for every projectable type, and
// finally regenerates the module index (spec §4.G "Driver").
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tswinrt/tswinrt/internal/emit"
	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
)

// Options configures a Run beyond the fixed output-layout rule (spec §6
// "CLI"): working-directory-relative output under <cwd>/<assembly-name>/.
type Options struct {
	Policy policy.Options
	Now    time.Time
}

// Summary reports what one Run produced, for the caller to print.
type Summary struct {
	OutDir       string
	FilesWritten int
	Skipped      []string
	Warnings     []string
}

// Run loads every .winmd in paths, projects every type eligible under opts,
// and writes one file per type plus the module index, rooted at
// <cwd>/<assembly-name>.
func Run(paths []string, opts Options) (Summary, error) {
	var sum Summary

	if len(paths) == 0 {
		return sum, fmt.Errorf("driver: no metadata files given")
	}

	cache, err := metadata.Load(paths)
	if err != nil {
		return sum, err
	}
	defer cache.Close()

	cwd, err := os.Getwd()
	if err != nil {
		return sum, fmt.Errorf("driver: %w", err)
	}

	outDir := filepath.Join(cwd, cache.AssemblyName())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return sum, fmt.Errorf("driver: creating %s: %w", outDir, err)
	}
	sum.OutDir = outDir

	namespaces := make(map[string]bool, len(cache.Namespaces()))
	for _, ns := range cache.Namespaces() {
		namespaces[ns] = true
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	res, err := emit.WriteFiles(cache, opts.Policy, namespaces, outDir, now)
	if err != nil {
		return sum, err
	}
	sum.FilesWritten = res.FilesWritten
	sum.Skipped = res.Skipped
	sum.Warnings = res.Warnings

	if err := emit.WriteIndex(cache, opts.Policy, namespaces, outDir, now); err != nil {
		return sum, fmt.Errorf("driver: writing index: %w", err)
	}

	return sum, nil
}
