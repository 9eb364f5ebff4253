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

// Package engine runs the preprocessor over source files: a validation pass over the whole
// file followed by a streaming transformation of its lines into the output.
package engine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/EngFlow/condpp/internal/collections"
	"github.com/EngFlow/condpp/internal/diag"
	"github.com/EngFlow/condpp/internal/directive"
	"github.com/EngFlow/condpp/internal/expr"
	"github.com/EngFlow/condpp/internal/macros"
)

// Processor transforms source files against a macro store. Files processed by the same
// Processor share its store, so global definitions made by one file are visible to the
// files processed after it, and each file is processed at most once.
//
// A Processor is not safe for concurrent use.
type Processor struct {
	opts       Options
	store      *macros.Store
	classifier *directive.Classifier
	logger     *log.Logger

	namespace  string                   // Absolute path of the file being processed
	namespaces collections.Stack[string] // Namespaces of the files that include it
	processed  collections.Set[string]
	depth      int
}

func NewProcessor(store *macros.Store, opts Options) (*Processor, error) {
	if store == nil {
		return nil, errors.New("engine: nil macro store")
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("engine: negative nesting limit %d", opts.MaxDepth)
	}
	if opts.Comment == "" {
		opts.Comment = directive.DefaultMarker
	}
	classifier, err := directive.New(opts.Comment)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Processor{
		opts:       opts,
		store:      store,
		classifier: classifier,
		logger:     logger,
		processed:  make(collections.Set[string]),
	}, nil
}

func (p *Processor) Store() *macros.Store { return p.store }

func (p *Processor) Classifier() *directive.Classifier { return p.classifier }

// Processed returns the absolute paths of the files processed so far, sorted.
func (p *Processor) Processed() []string {
	return p.processed.SortedValues(strings.Compare)
}

// ProcessFile validates the file at src and, if it is well-formed, writes its transformed
// contents to dst. Parent directories of dst are created as needed. The output is written
// to a temporary file next to dst and renamed into place, so a failing file never leaves a
// partial output behind.
//
// Processing a file that was already processed, or is being processed further up the
// include chain, is a no-op.
func (p *Processor) ProcessFile(src, dst string) (err error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if p.processed.Contains(abs) {
		p.logger.Printf("skipping %s: already processed", abs)
		return nil
	}
	if err := ValidateFile(abs, p.classifier); err != nil {
		return err
	}
	p.processed.Add(abs)
	p.namespace = abs
	p.logger.Printf("processing src=%s dest=%s", abs, dst)

	in, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	out, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(out.Name())
		}
	}()

	if err := p.transform(in, out, abs); err != nil {
		return err
	}
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), dst)
}

// Process validates and transforms a source that does not come from a file. name is used
// both in error messages and as the namespace of local definitions.
func (p *Processor) Process(r io.Reader, w io.Writer, name string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := Validate(bytes.NewReader(data), name, p.classifier); err != nil {
		return err
	}
	p.namespace = name
	return p.transform(bytes.NewReader(data), w, name)
}

func (p *Processor) transform(r io.Reader, w io.Writer, file string) error {
	ps := &pass{p: p, in: newLineReader(r), out: bufio.NewWriter(w), file: file}
	if err := ps.run(); err != nil {
		return err
	}
	return ps.out.Flush()
}

// enter records one more level of nesting, failing once the configured limit is reached.
func (p *Processor) enter() error {
	if p.opts.MaxDepth > 0 && p.depth >= p.opts.MaxDepth {
		return fmt.Errorf("%w: more than %d nested conditionals and includes", diag.ErrLimit, p.opts.MaxDepth)
	}
	p.depth++
	return nil
}

func (p *Processor) leave() { p.depth-- }

// pass is the transformation of a single file.
type pass struct {
	p    *Processor
	in   *lineReader
	out  *bufio.Writer
	file string
}

func (ps *pass) run() error {
	for {
		line, ok := ps.in.next()
		if !ok {
			return ps.in.err()
		}
		if err := ps.dispatch(line); err != nil {
			return err
		}
	}
}

func (ps *pass) fail(err, fallback error, line string) error {
	return diag.At(err, fallback, ps.file, ps.in.number, line)
}

func (ps *pass) write(line string) error {
	_, err := ps.out.WriteString(line)
	return err
}

// echo writes a directive line in preserve mode only.
func (ps *pass) echo(line string) error {
	if ps.p.opts.Mode != Preserve {
		return nil
	}
	return ps.write(line)
}

// suppress writes a line of an untaken block: commented out in preserve mode, dropped in
// export mode.
func (ps *pass) suppress(line string) error {
	if ps.p.opts.Mode != Preserve {
		return nil
	}
	return ps.write(ps.p.opts.Comment + " " + line)
}

// dispatch handles one line outside of any untaken block.
func (ps *pass) dispatch(line string) error {
	d, err := ps.p.classifier.Classify(line)
	if err != nil {
		return ps.fail(err, diag.ErrSyntax, line)
	}
	switch d.Kind {
	case directive.PlainText:
		return ps.write(line)
	case directive.LocalDefine:
		ps.p.store.SetLocal(ps.p.namespace, d.Name, d.Value)
		return ps.echo(line)
	case directive.GlobalDefine:
		ps.p.store.SetGlobal(d.Name, d.Value)
		return ps.echo(line)
	case directive.IfDef, directive.IfNDef:
		return ps.conditional(d, line)
	case directive.Output, directive.OutputGlobal:
		return ps.output(d, line)
	case directive.Include:
		if err := ps.write(line); err != nil {
			return err
		}
		return ps.fail(ps.p.include(d.Path), diag.ErrNotFound, line)
	case directive.Else, directive.Endif:
		return ps.fail(fmt.Errorf("unexpected %v", d.Kind), diag.ErrSyntax, line)
	case directive.Unknown:
		return ps.fail(errors.New("unrecognized directive"), diag.ErrSyntax, line)
	default:
		return ps.fail(fmt.Errorf("unhandled %v", d.Kind), diag.ErrSyntax, line)
	}
}

// conditional evaluates an #ifdef / #ifndef and consumes the block it opens, up to and
// including the matching #endif.
func (ps *pass) conditional(d directive.Directive, line string) error {
	if err := ps.echo(line); err != nil {
		return err
	}
	if err := ps.p.enter(); err != nil {
		return ps.fail(err, diag.ErrLimit, line)
	}
	defer ps.p.leave()

	cond, err := expr.Parse(d.Expr)
	if err != nil {
		return ps.fail(err, diag.ErrSyntax, line)
	}
	taken, err := cond.Eval(ps.p.store.In(ps.p.namespace))
	if err != nil {
		return ps.fail(err, diag.ErrSyntax, line)
	}
	if d.Kind == directive.IfNDef {
		taken = !taken
	}

	end, endLine, err := ps.block(taken, true)
	if err != nil {
		return err
	}
	if end == directive.Else {
		if err := ps.echo(endLine); err != nil {
			return err
		}
		if _, endLine, err = ps.block(!taken, false); err != nil {
			return err
		}
	}
	return ps.echo(endLine)
}

// block consumes the lines of one branch of a conditional. Lines of an active branch are
// dispatched; lines of an inactive one are suppressed while nested conditionals are only
// counted. It returns the kind and text of the line that ends the branch: #else (only when
// elseAllowed) or #endif.
func (ps *pass) block(active, elseAllowed bool) (directive.Kind, string, error) {
	nested := 0
	for {
		line, ok := ps.in.next()
		if !ok {
			if err := ps.in.err(); err != nil {
				return 0, "", err
			}
			return 0, "", &diag.Error{Kind: diag.ErrSyntax, File: ps.file, Line: ps.in.number + 1, Err: errors.New("expected #endif")}
		}
		d, err := ps.p.classifier.Classify(line)
		if err != nil {
			return 0, "", ps.fail(err, diag.ErrSyntax, line)
		}

		if nested == 0 {
			switch {
			case d.Kind == directive.Endif:
				return d.Kind, line, nil
			case d.Kind == directive.Else && elseAllowed:
				return d.Kind, line, nil
			case d.Kind == directive.Else:
				return 0, "", ps.fail(errors.New("second #else for the same conditional"), diag.ErrSyntax, line)
			}
		}

		if active {
			if err := ps.dispatch(line); err != nil {
				return 0, "", err
			}
			continue
		}
		switch d.Kind {
		case directive.IfDef, directive.IfNDef:
			nested++
		case directive.Endif:
			nested--
		}
		if err := ps.suppress(line); err != nil {
			return 0, "", err
		}
	}
}

// output interpolates the value of a macro into an `#<<` line.
func (ps *pass) output(d directive.Directive, line string) error {
	var (
		value macros.Value
		err   error
		text  string
	)
	if d.Kind == directive.OutputGlobal {
		value, err = ps.p.store.Global(d.Name)
		text = "GLOBAL " + d.Name + " == " + value.String()
	} else {
		value, err = ps.p.store.Resolve(ps.p.namespace, d.Name)
		text = d.Name + " == " + value.String()
	}
	if err != nil {
		return ps.fail(err, diag.ErrLookup, line)
	}
	return ps.write(line[:d.Begin] + text + line[d.End:])
}
