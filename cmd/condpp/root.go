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

package main

import (
	"fmt"
	"io"
	"log"

	"github.com/EngFlow/condpp/internal/config"
	"github.com/EngFlow/condpp/internal/runner"
	"github.com/spf13/cobra"
)

type buildInfo struct {
	version, commit, date string
}

func (b buildInfo) String() string {
	if b.version == "dev" {
		return fmt.Sprintf("%s (%s)", b.version, b.commit)
	}
	return b.version
}

// flags are shared by the root command and the check subcommand.
type flags struct {
	source    string
	dest      string
	global    string
	comment   string
	export    bool
	include   []string
	exclude   []string
	keepGoing bool
	maxDepth  int
	verbose   bool
}

func (f *flags) runnerConfig(stderr io.Writer) runner.Config {
	logger := log.New(io.Discard, "", 0)
	if f.verbose {
		logger = log.New(stderr, "condpp: ", log.LstdFlags)
	}
	return runner.Config{
		Source:     f.source,
		Dest:       f.dest,
		GlobalFile: f.global,
		Export:     f.export,
		Comment:    f.comment,
		MaxDepth:   f.maxDepth,
		Include:    f.include,
		Exclude:    f.exclude,
		KeepGoing:  f.keepGoing,
		Logger:     logger,
	}
}

func newRootCmd(defaults *config.Config, info buildInfo) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "condpp",
		Short: "Conditional-compilation preprocessor for text files",
		Long: `condpp evaluates directives embedded in comments of any text file and writes the
result into a destination tree mirroring the source.

Directives, shown with the default comment marker "#":
  # #define NAME value           local to the file (true, 3, 1.5 or "text")
  # #define global NAME value    visible to every file
  # #ifdef EXPR / # #ifndef EXPR / # #else / # #endif
  # #<< NAME                     replaced by "NAME == value"
  # #include "path"              processes path relative to the source root

The global definitions file is processed before anything else. In export mode untaken
blocks and directives are removed; otherwise they are kept as comments.`,
		Args:         cobra.NoArgs,
		Version:      info.String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runner.Run(cmd.Context(), f.runnerConfig(cmd.ErrOrStderr()))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.source, "source", "s", defaults.Source, "Source file or directory")
	pf.StringVarP(&f.dest, "dest", "d", defaults.Dest, "Destination directory")
	pf.StringVarP(&f.global, "init", "i", defaults.Global, "Global definitions file, processed first")
	pf.StringVarP(&f.comment, "comment", "m", defaults.Comment, "Comment marker directives are prefixed with")
	pf.StringSliceVar(&f.include, "include", nil, "Only process files matching these globs (relative to the source directory)")
	pf.StringSliceVar(&f.exclude, "exclude", nil, "Skip files matching these globs (relative to the source directory)")
	pf.BoolVar(&f.keepGoing, "keep-going", false, "Continue with the remaining files after a failure")
	pf.IntVar(&f.maxDepth, "max-depth", defaults.MaxDepth, "Maximum nesting of conditionals and includes, 0 for unlimited")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")
	root.Flags().BoolVarP(&f.export, "export", "e", defaults.Export, "Remove untaken blocks and directives instead of commenting them out")

	root.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Only validate the directives of the source files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runner.Check(cmd.Context(), f.runnerConfig(cmd.ErrOrStderr()))
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "condpp %s\n", info)
				fmt.Fprintf(out, "  Version: %s\n", info.version)
				fmt.Fprintf(out, "  Commit:  %s\n", info.commit)
				fmt.Fprintf(out, "  Date:    %s\n", info.date)
			},
		},
	)
	return root
}
