package pbxpatch

import (
	"errors"
	"fmt"
)

// ErrIdentifierSpaceExhausted is returned when the allocator could not find a
// free identifier within its retry bound. With 96 bits of entropy this should
// never trigger in practice.
var ErrIdentifierSpaceExhausted = errors.New("pbxpatch: identifier space exhausted")

// MissingSourceFileError reports an input source path that does not exist on
// disk. It is raised before the manifest is touched.
type MissingSourceFileError struct {
	Path string
}

func (e *MissingSourceFileError) Error() string {
	return fmt.Sprintf("pbxpatch: source file does not exist: %s", e.Path)
}

// StructureNotFoundError reports a section marker, group record or array
// literal that could not be located in the manifest text.
type StructureNotFoundError struct {
	Marker string
}

func (e *StructureNotFoundError) Error() string {
	return fmt.Sprintf("pbxpatch: structure not found in manifest: %s", e.Marker)
}

// DuplicateEntryError reports a file reference whose stored path is already
// declared in the manifest.
type DuplicateEntryError struct {
	Path string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("pbxpatch: file already referenced by manifest: %s", e.Path)
}
