package pbxpatch

import (
	"fmt"
	"os"
	"path/filepath"
)

const BACKUP_SUFFIX = ".backup"

// backupGuard holds a sibling copy of the manifest taken before mutation.
// The backup is never deleted by this tool; it is left on disk for manual
// inspection after a successful run. Each run overwrites the previous backup,
// which assumes single-writer usage of the manifest.
type backupGuard struct {
	manifestPath string
	backupPath   string
	mode         os.FileMode
}

func acquireBackup(manifestPath string) (*backupGuard, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest for backup: %w", err)
	}
	info, err := os.Stat(manifestPath)
	if err != nil {
		return nil, err
	}
	backupPath := manifestPath + BACKUP_SUFFIX
	if err := os.WriteFile(backupPath, data, info.Mode()); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}
	return &backupGuard{
		manifestPath: manifestPath,
		backupPath:   backupPath,
		mode:         info.Mode(),
	}, nil
}

func (g *backupGuard) Path() string {
	return g.backupPath
}

// Restore copies the backup back over the manifest, byte for byte.
func (g *backupGuard) Restore() error {
	data, err := os.ReadFile(g.backupPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if err := writeAtomic(g.manifestPath, data, g.mode); err != nil {
		return fmt.Errorf("restore manifest: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temporary file in the target's directory and
// renames it over the target, so a reader never observes a partial write.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
