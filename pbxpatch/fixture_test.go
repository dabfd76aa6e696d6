package pbxpatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// A trimmed but structurally faithful project.pbxproj: one root group
// (Warden) with an empty Preferences group and a Chat group, two declared
// source files, and one sources build phase.
const testManifest = `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {

/* Begin PBXBuildFile section */
		AA1000000000000000000001 /* AppMain.swift in Sources */ = {isa = PBXBuildFile; fileRef = AA2000000000000000000001 /* AppMain.swift */; };
		AA1000000000000000000002 /* ChatView.swift in Sources */ = {isa = PBXBuildFile; fileRef = AA2000000000000000000002 /* ChatView.swift */; };
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		AA2000000000000000000001 /* AppMain.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = AppMain.swift; sourceTree = "<group>"; };
		AA2000000000000000000002 /* ChatView.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = ChatView.swift; sourceTree = "<group>"; };
/* End PBXFileReference section */

/* Begin PBXGroup section */
		AA3000000000000000000001 /* Warden */ = {
			isa = PBXGroup;
			children = (
				AA2000000000000000000001 /* AppMain.swift */,
				AA3000000000000000000002 /* Preferences */,
				AA3000000000000000000003 /* Chat */,
			);
			path = Warden;
			sourceTree = "<group>";
		};
		AA3000000000000000000002 /* Preferences */ = {
			isa = PBXGroup;
			children = (
			);
			path = Preferences;
			sourceTree = "<group>";
		};
		AA3000000000000000000003 /* Chat */ = {
			isa = PBXGroup;
			children = (
				AA2000000000000000000002 /* ChatView.swift */,
			);
			path = Chat;
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXSourcesBuildPhase section */
		AA4000000000000000000001 /* Sources */ = {
			isa = PBXSourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
				AA1000000000000000000001 /* AppMain.swift in Sources */,
				AA1000000000000000000002 /* ChatView.swift in Sources */,
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXSourcesBuildPhase section */
	};
	rootObject = AA5000000000000000000001 /* Project object */;
}
`

// writeProject writes the fixture manifest into a temp dir and returns its path.
func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "project.pbxproj")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))
	return path
}

// touchSource creates an empty source file (with parents) and returns its path.
func touchSource(t *testing.T, dir, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("// stub\n"), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
