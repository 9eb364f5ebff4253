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

// Package config resolves the defaults of the command line from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultDestDir    = "done"
	DefaultGlobalFile = "global.def"
	DefaultComment    = "#"
	DefaultMaxDepth   = 256
)

// Config holds the settings flags default to.
type Config struct {
	Source   string
	Dest     string
	Global   string
	Comment  string
	Export   bool
	MaxDepth int
}

// Load reads the given dotenv files (".env" when none is given; missing files are ignored)
// into the environment and resolves the CONDPP_* variables. Variables already present in
// the environment win over dotenv files. Unset values default to the working directory as
// source, "done" below it as destination and "global.def" in it as global definitions file.
func Load(dotenv ...string) (*Config, error) {
	_ = godotenv.Load(dotenv...)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	export, err := parseBool("CONDPP_EXPORT")
	if err != nil {
		return nil, err
	}
	maxDepth, err := parseInt("CONDPP_MAX_DEPTH", DefaultMaxDepth)
	if err != nil {
		return nil, err
	}

	return &Config{
		Source:   firstNonEmpty(env("CONDPP_SOURCE"), cwd),
		Dest:     firstNonEmpty(env("CONDPP_DEST"), filepath.Join(cwd, DefaultDestDir)),
		Global:   firstNonEmpty(env("CONDPP_GLOBAL"), filepath.Join(cwd, DefaultGlobalFile)),
		Comment:  firstNonEmpty(env("CONDPP_COMMENT"), DefaultComment),
		Export:   export,
		MaxDepth: maxDepth,
	}, nil
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func parseBool(key string) (bool, error) {
	raw := env(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := env(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, v)
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
