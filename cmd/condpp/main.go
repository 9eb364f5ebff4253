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

// Command condpp preprocesses text files with conditional-compilation directives embedded in
// comments, writing the results into a mirrored destination tree.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/EngFlow/condpp/internal/config"
)

// Version information, injected with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	defaults, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = newRootCmd(defaults, buildInfo{version: version, commit: commit, date: date}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
