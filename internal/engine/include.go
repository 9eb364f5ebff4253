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

package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/EngFlow/condpp/internal/diag"
)

// include processes the file named by an #include directive. The path is resolved against
// the source base directory, never against the including file, and the output goes to the
// same relative path under the destination base directory. While the included file is
// processed its own path is the namespace of local definitions; the namespace of the
// including file is restored afterwards.
func (p *Processor) include(path string) error {
	src, err := filepath.Abs(filepath.Join(p.opts.SourceBase, path))
	if err != nil {
		return err
	}
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: include target %s", diag.ErrNotFound, src)
		}
		return err
	}
	if p.processed.Contains(src) {
		p.logger.Printf("skipping include %s: already processed", src)
		return nil
	}

	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	pushed := p.namespace != ""
	if pushed {
		p.namespaces.Push(p.namespace)
	}
	defer func() {
		p.namespace = ""
		if pushed {
			p.namespace, _ = p.namespaces.Pop()
		}
	}()
	return p.ProcessFile(src, filepath.Join(p.opts.DestBase, path))
}
