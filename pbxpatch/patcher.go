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
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileAddition is one source file to declare in the manifest.
type FileAddition struct {
	// SourcePath is the on-disk location of the file; it is existence-checked
	// before anything is mutated. Its final segment becomes the display name.
	SourcePath string
	// GroupPath is the logical group the file belongs under, e.g. "Core/MCP".
	// Missing groups along the path are created top-down.
	GroupPath string
}

func (a FileAddition) displayName() string {
	return filepath.Base(a.SourcePath)
}

func (a FileAddition) storedPath() string {
	return path.Join(filepath.ToSlash(a.GroupPath), a.displayName())
}

// Result reports what a patch operation did.
type Result struct {
	FilesAdded     int
	PathsRewritten int
	GroupsCreated  []string
	BackupPath     string
	RolledBack     bool
}

type patchState int

const (
	stateLoaded patchState = iota
	stateValidated
	stateMutated
	stateCommitted
	stateFailed
	stateRolledBack
)

// Patcher applies additive change-sets to one project.pbxproj manifest. It is
// not safe for concurrent use and assumes it is the only writer of the file.
type Patcher struct {
	projectPath string
	rootGroup   string
	logger      *zap.Logger
	state       patchState
}

type PatcherOption func(*Patcher)

// WithRootGroup names the existing group that newly created top-level groups
// are attached to (typically the application's main group).
func WithRootGroup(name string) PatcherOption {
	return func(p *Patcher) { p.rootGroup = name }
}

func WithLogger(logger *zap.Logger) PatcherOption {
	return func(p *Patcher) { p.logger = logger }
}

func NewPatcher(projectPath string, options ...PatcherOption) *Patcher {
	p := &Patcher{
		projectPath: projectPath,
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Apply inserts declarations for the given files into the manifest, creating
// missing groups along the way. On any failure after the backup is taken the
// manifest is restored byte for byte and Result.RolledBack is set; the Result
// is returned alongside the error so callers can report what happened.
func (p *Patcher) Apply(additions []FileAddition) (*Result, error) {
	result := &Result{}

	text, err := os.ReadFile(p.projectPath)
	if err != nil {
		return result, fmt.Errorf("read manifest: %w", err)
	}
	p.state = stateLoaded

	// Source-file existence is checked before the backup is even taken:
	// a bad input list must not leave any trace on disk.
	if err := checkSourceFiles(additions); err != nil {
		p.state = stateFailed
		return result, err
	}

	guard, err := acquireBackup(p.projectPath)
	if err != nil {
		p.state = stateFailed
		return result, err
	}
	result.BackupPath = guard.Path()
	p.logger.Info("backup created", zap.String("path", guard.Path()))

	mutated, err := p.run(string(text), additions, result)
	if err != nil {
		return result, p.rollback(guard, result, err)
	}

	if err := writeAtomic(p.projectPath, []byte(mutated), guard.mode); err != nil {
		return result, p.rollback(guard, result, fmt.Errorf("commit manifest: %w", err))
	}
	p.state = stateCommitted
	p.logger.Info("manifest patched",
		zap.Int("files_added", result.FilesAdded),
		zap.Strings("groups_created", result.GroupsCreated))
	return result, nil
}

// Preview runs the same validation and mutation as Apply but writes nothing
// and takes no backup. It returns the original and the would-be text.
func (p *Patcher) Preview(additions []FileAddition) (before, after string, result *Result, err error) {
	result = &Result{}
	text, err := os.ReadFile(p.projectPath)
	if err != nil {
		return "", "", result, fmt.Errorf("read manifest: %w", err)
	}
	p.state = stateLoaded
	if err := checkSourceFiles(additions); err != nil {
		p.state = stateFailed
		return "", "", result, err
	}
	before = string(text)
	after, err = p.run(before, additions, result)
	if err != nil {
		p.state = stateFailed
		return "", "", result, err
	}
	return before, after, result, nil
}

func (p *Patcher) rollback(guard *backupGuard, result *Result, cause error) error {
	p.state = stateFailed
	if err := guard.Restore(); err != nil {
		return fmt.Errorf("%w (restore from %s also failed: %v)", cause, guard.Path(), err)
	}
	p.state = stateRolledBack
	result.RolledBack = true
	p.logger.Warn("patch failed, manifest restored from backup",
		zap.String("backup", guard.Path()), zap.Error(cause))
	return cause
}

func checkSourceFiles(additions []FileAddition) error {
	for _, add := range additions {
		if _, err := os.Stat(add.SourcePath); err != nil {
			return &MissingSourceFileError{Path: add.SourcePath}
		}
	}
	return nil
}

// run validates the manifest structure and applies every addition to an
// in-memory copy of the text. The buffer is owned by this one call; nothing
// outside sees intermediate states.
func (p *Patcher) run(text string, additions []FileAddition, result *Result) (string, error) {
	if err := p.validateStructure(text, additions); err != nil {
		return "", err
	}
	p.state = stateValidated

	alloc := newIdentifierAllocator(text)
	// Groups created earlier in this operation, keyed by full logical path,
	// so two additions targeting the same new group share one record.
	created := make(map[string]string)

	buf := text
	for _, add := range additions {
		mutated, err := p.applyOne(buf, alloc, created, add, result)
		if err != nil {
			return "", fmt.Errorf("add %s: %w", add.displayName(), err)
		}
		buf = mutated
		result.FilesAdded++
	}
	p.state = stateMutated
	return buf, nil
}

func (p *Patcher) validateStructure(text string, additions []FileAddition) error {
	for _, section := range []string{sectionBuildFile, sectionFileReference, sectionGroup, sectionSourcesPhase} {
		if _, err := findSection(text, section); err != nil {
			return err
		}
	}
	if _, err := findBuildPhaseFiles(text, sectionSourcesPhase); err != nil {
		return err
	}
	refs, err := findSection(text, sectionFileReference)
	if err != nil {
		return err
	}
	// Stored paths must be unique against the manifest and within the batch
	// itself; the second occurrence in either case is rejected.
	seen := make(map[string]struct{}, len(additions))
	for _, add := range additions {
		stored := add.storedPath()
		if _, dup := seen[stored]; dup {
			return &DuplicateEntryError{Path: stored}
		}
		seen[stored] = struct{}{}
		needle := "path = " + quoteIfNeeded(stored) + ";"
		if strings.Contains(text[refs.start:refs.end], needle) {
			return &DuplicateEntryError{Path: stored}
		}
	}
	return nil
}

func (p *Patcher) applyOne(buf string, alloc *identifierAllocator, created map[string]string, add FileAddition, result *Result) (string, error) {
	name := add.displayName()

	fileRefID, err := alloc.Allocate()
	if err != nil {
		return "", err
	}
	buildFileID, err := alloc.Allocate()
	if err != nil {
		return "", err
	}

	buf, groupID, err := p.resolveGroup(buf, alloc, created, add.GroupPath, result)
	if err != nil {
		return "", err
	}

	// PBXBuildFile
	section, err := findSection(buf, sectionBuildFile)
	if err != nil {
		return "", err
	}
	buf = splice(buf, section.insertAt, buildFileLine(buildFileID, fileRefID, name))

	// PBXFileReference
	section, err = findSection(buf, sectionFileReference)
	if err != nil {
		return "", err
	}
	buf = splice(buf, section.insertAt, fileReferenceLine(fileRefID, name, add.storedPath(), detectFileType(name)))

	// Build phase membership
	files, err := findBuildPhaseFiles(buf, sectionSourcesPhase)
	if err != nil {
		return "", err
	}
	buf = splice(buf, files.close, membershipLine(buildFileID, name))

	// Group membership
	group, err := findGroupByID(buf, groupID)
	if err != nil {
		return "", err
	}
	children, err := findChildrenArray(buf, group.start)
	if err != nil {
		return "", err
	}
	buf = splice(buf, children.afterOpen, childLine(fileRefID, name))

	p.logger.Info("file added",
		zap.String("name", name),
		zap.String("group", add.GroupPath),
		zap.String("file_ref", fileRefID),
		zap.String("build_file", buildFileID))
	return buf, nil
}

// resolveGroup walks the logical group path left to right, reusing groups
// that exist in the manifest or were created earlier in this operation, and
// creating the rest top-down. A new top-level group is attached to the
// configured root group; a new nested group to its parent's children list,
// right after the opening parenthesis to keep diffs small.
func (p *Patcher) resolveGroup(buf string, alloc *identifierAllocator, created map[string]string, groupPath string, result *Result) (string, string, error) {
	segments := strings.Split(filepath.ToSlash(groupPath), "/")
	parentID := ""
	full := ""
	for i, segment := range segments {
		if segment == "" {
			return "", "", fmt.Errorf("empty segment in group path %q", groupPath)
		}
		full = path.Join(full, segment)

		if id, ok := created[full]; ok {
			parentID = id
			continue
		}
		if record, err := findGroupByName(buf, segment); err == nil {
			parentID = record.id
			continue
		}

		id, err := alloc.Allocate()
		if err != nil {
			return "", "", err
		}
		section, err := findSection(buf, sectionGroup)
		if err != nil {
			return "", "", err
		}
		buf = splice(buf, section.insertAt, groupBlock(id, segment, segment, nil))

		parent, err := p.parentRecord(buf, i, parentID)
		if err != nil {
			return "", "", err
		}
		children, err := findChildrenArray(buf, parent.start)
		if err != nil {
			return "", "", err
		}
		buf = splice(buf, children.afterOpen, childLine(id, segment))

		created[full] = id
		result.GroupsCreated = append(result.GroupsCreated, full)
		parentID = id
		p.logger.Info("group created", zap.String("path", full), zap.String("id", id))
	}
	return buf, parentID, nil
}

func (p *Patcher) parentRecord(buf string, depth int, parentID string) (groupRecord, error) {
	if depth == 0 {
		if p.rootGroup == "" {
			return groupRecord{}, &StructureNotFoundError{Marker: "root group (none configured)"}
		}
		return findGroupByName(buf, p.rootGroup)
	}
	return findGroupByID(buf, parentID)
}
