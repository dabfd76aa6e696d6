// Package plan loads the YAML change-set file consumed by the pbxpatch CLI.
// A plan names the manifest's root group, the source files to declare together
// with their logical group paths, and an optional display-name to path mapping
// for the fix-paths pass.
package plan

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Plan struct {
	// RootGroup is the existing group new top-level groups are attached to.
	RootGroup string `yaml:"root_group"`

	Files []FileEntry `yaml:"files"`

	// PathFixes maps a file reference's display name to its corrected
	// manifest-relative path.
	PathFixes map[string]string `yaml:"path_fixes"`
}

type FileEntry struct {
	// Path is the on-disk location of the source file.
	Path string `yaml:"path"`
	// Group is the logical group path inside the manifest, e.g. Core/MCP.
	Group string `yaml:"group"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &p, nil
}

func (p *Plan) Validate() error {
	for i, f := range p.Files {
		if f.Path == "" {
			return fmt.Errorf("files[%d]: path is required", i)
		}
		if f.Group == "" {
			return fmt.Errorf("files[%d] (%s): group is required", i, f.Path)
		}
		if strings.HasPrefix(f.Group, "/") || strings.HasSuffix(f.Group, "/") {
			return fmt.Errorf("files[%d] (%s): group must be a relative path like Core/MCP", i, f.Path)
		}
	}
	if len(p.Files) > 0 && p.RootGroup == "" {
		return fmt.Errorf("root_group is required when files are declared")
	}
	for name, fixed := range p.PathFixes {
		if name == "" || fixed == "" {
			return fmt.Errorf("path_fixes entries must map a display name to a path")
		}
	}
	return nil
}
