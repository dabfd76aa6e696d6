/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package pbxpatch

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// NormalizePaths rewrites the path field of the file reference records whose
// display name appears in fixes, leaving every other record untouched. The
// match is anchored to a well-formed single-line PBXFileReference record
// (`/* name */ = {isa = PBXFileReference; ... };`) so an unrelated occurrence
// of the same text elsewhere in the file is never rewritten. The pass is
// idempotent: applying the same mapping twice changes nothing further.
func NormalizePaths(text string, fixes map[string]string) (string, int) {
	names := make([]string, 0, len(fixes))
	for name := range fixes {
		names = append(names, name)
	}
	sort.Strings(names)

	rewritten := 0
	for _, name := range names {
		corrected := quoteIfNeeded(fixes[name])
		pattern := regexp.MustCompile(
			`(/\* ` + regexp.QuoteMeta(name) + ` \*/ = \{isa = PBXFileReference;[^}\n]*?path = )("(?:[^"\\]|\\.)*"|[^;]*)(;)`)
		text = pattern.ReplaceAllStringFunc(text, func(record string) string {
			parts := pattern.FindStringSubmatch(record)
			if parts[2] == corrected {
				return record
			}
			rewritten++
			return parts[1] + corrected + parts[3]
		})
	}
	return text, rewritten
}

// FixPaths applies a display-name to corrected-path mapping to the manifest
// on disk, with the same backup and atomic-commit discipline as Apply.
func (p *Patcher) FixPaths(fixes map[string]string) (*Result, error) {
	result := &Result{}
	text, err := os.ReadFile(p.projectPath)
	if err != nil {
		return result, fmt.Errorf("read manifest: %w", err)
	}
	p.state = stateLoaded

	guard, err := acquireBackup(p.projectPath)
	if err != nil {
		p.state = stateFailed
		return result, err
	}
	result.BackupPath = guard.Path()
	p.logger.Info("backup created", zap.String("path", guard.Path()))

	normalized, n := NormalizePaths(string(text), fixes)
	p.state = stateMutated
	result.PathsRewritten = n

	if err := writeAtomic(p.projectPath, []byte(normalized), guard.mode); err != nil {
		return result, p.rollback(guard, result, fmt.Errorf("commit manifest: %w", err))
	}
	p.state = stateCommitted
	p.logger.Info("paths normalized", zap.Int("rewritten", n))
	return result, nil
}
