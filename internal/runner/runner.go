// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner drives the preprocessor over a source file or a whole source tree,
// mirroring the tree into a destination directory.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/EngFlow/condpp/internal/collections"
	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/directive"
	"github.com/EngFlow/condpp/internal/engine"
	"github.com/EngFlow/condpp/internal/macros"
	"github.com/bmatcuk/doublestar/v4"
)

// Config describes one run.
type Config struct {
	Source     string // Source file or directory
	Dest       string // Destination directory
	GlobalFile string // Global definitions file, processed before anything else; may be empty
	Export     bool   // Export mode; preserve mode otherwise
	Comment    string // Comment marker, "#" when empty
	MaxDepth   int    // Nesting limit, 0 for unlimited

	// Slash-separated doublestar patterns matched against paths relative to Source when it
	// is a directory. A file is processed if it matches any Include pattern (or Include is
	// empty) and no Exclude pattern.
	Include []string
	Exclude []string

	// KeepGoing continues with the remaining files after a file fails; all failures are
	// returned together.
	KeepGoing bool

	Logger *log.Logger
}

// job is one source file and the path its output is written to.
type job struct {
	rel string // Path relative to the source root, slash-separated
	src string
	dst string
}

// Run processes the configured source into the destination. The global definitions file
// is processed first and its output written into the destination root; if it does not
// exist it is skipped. The context is checked between files.
func Run(ctx context.Context, cfg Config) error {
	r, err := newRun(cfg)
	if err != nil {
		return err
	}
	p, err := engine.NewProcessor(macros.NewStore(), engine.Options{
		Mode:       cfg.mode(),
		Comment:    cfg.Comment,
		SourceBase: r.base,
		DestBase:   r.dest,
		MaxDepth:   cfg.MaxDepth,
		Logger:     r.logger,
	})
	if err != nil {
		return err
	}

	if global, ok := r.globalFile(); ok {
		r.logger.Printf("using global file %s", global)
		if err := p.ProcessFile(global, filepath.Join(r.dest, filepath.Base(global))); err != nil {
			return fmt.Errorf("global file: %w", err)
		}
	}

	jobs, err := r.collect()
	if err != nil {
		return err
	}
	err = r.each(ctx, jobs, func(j job) error { return p.ProcessFile(j.src, j.dst) })
	r.logger.Printf("processed %d file(s) into %s", len(p.Processed()), r.dest)
	return err
}

// Check runs only the syntax validation over the configured source, including the global
// definitions file. Nothing is written.
func Check(ctx context.Context, cfg Config) error {
	r, err := newRun(cfg)
	if err != nil {
		return err
	}
	comment := cfg.Comment
	if comment == "" {
		comment = directive.DefaultMarker
	}
	classifier, err := directive.New(comment)
	if err != nil {
		return err
	}

	jobs, err := r.collect()
	if err != nil {
		return err
	}
	if global, ok := r.globalFile(); ok {
		jobs = slices.Insert(jobs, 0, job{rel: filepath.Base(global), src: global})
	}
	err = r.each(ctx, jobs, func(j job) error { return engine.ValidateFile(j.src, classifier) })
	if err == nil {
		r.logger.Printf("syntax check done: %d file(s)", len(jobs))
	}
	return err
}

// run holds the resolved paths and filters of one Run or Check.
type run struct {
	cfg     Config
	source  string // Absolute source file or directory
	isDir   bool
	base    string // Directory include paths are resolved against
	dest    string // Absolute destination directory
	include []string
	exclude []string
	logger  *log.Logger
}

func newRun(cfg Config) (*run, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	source, err := filepath.Abs(cfg.Source)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: source %s", diag.ErrNotFound, source)
		}
		return nil, err
	}
	dest, err := filepath.Abs(cfg.Dest)
	if err != nil {
		return nil, err
	}
	include, err := validatedPatterns(cfg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := validatedPatterns(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	r := &run{
		cfg:     cfg,
		source:  source,
		isDir:   info.IsDir(),
		base:    source,
		dest:    dest,
		include: include,
		exclude: exclude,
		logger:  logger,
	}
	if !r.isDir {
		r.base = filepath.Dir(source)
	} else if dest == source {
		return nil, fmt.Errorf("destination %s must differ from the source directory", dest)
	}
	return r, nil
}

func validatedPatterns(patterns []string) ([]string, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return patterns, nil
}

func (c Config) mode() engine.Mode {
	if c.Export {
		return engine.Export
	}
	return engine.Preserve
}

// globalFile returns the absolute path of the global definitions file, if one is
// configured and exists.
func (r *run) globalFile() (string, bool) {
	if r.cfg.GlobalFile == "" {
		return "", false
	}
	global, err := filepath.Abs(r.cfg.GlobalFile)
	if err != nil {
		r.logger.Printf("skipping global file %s: %v", r.cfg.GlobalFile, err)
		return "", false
	}
	if _, err := os.Stat(global); err != nil {
		r.logger.Printf("skipping missing global file %s", global)
		return "", false
	}
	return global, true
}

// collect lists the source files to process, sorted by path. The destination directory is
// never descended into, so that the default destination below the source tree is not
// processed again on the next run.
func (r *run) collect() ([]job, error) {
	if !r.isDir {
		name := filepath.Base(r.source)
		return []job{{rel: name, src: r.source, dst: filepath.Join(r.dest, name)}}, nil
	}

	var jobs []job
	err := filepath.WalkDir(r.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == r.dest {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(r.source, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{rel: filepath.ToSlash(rel), src: path, dst: filepath.Join(r.dest, rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collections.FilterSlice(jobs, r.selected), nil
}

// selected applies the include and exclude patterns.
func (r *run) selected(j job) bool {
	matches := func(pattern string) bool { return doublestar.MatchUnvalidated(pattern, j.rel) }
	if len(r.include) > 0 && !slices.ContainsFunc(r.include, matches) {
		return false
	}
	return !slices.ContainsFunc(r.exclude, matches)
}

// each calls fn for every job, stopping at the first failure unless KeepGoing is set.
func (r *run) each(ctx context.Context, jobs []job, fn func(job) error) error {
	var errs []error
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := fn(j); err != nil {
			if !r.cfg.KeepGoing {
				return err
			}
			r.logger.Printf("failed %s: %v", j.rel, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
