package pbxpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testBuildFileID = "BB1000000000000000000001"
	testFileRefID   = "BB2000000000000000000001"
	testGroupID     = "BB3000000000000000000001"
)

func TestBuildFileLine(t *testing.T) {
	got := buildFileLine(testBuildFileID, testFileRefID, "MCPManager.swift")
	want := "\t\tBB1000000000000000000001 /* MCPManager.swift in Sources */ = {isa = PBXBuildFile; fileRef = BB2000000000000000000001 /* MCPManager.swift */; };\n"
	assert.Equal(t, want, got)
}

func TestFileReferenceLine(t *testing.T) {
	got := fileReferenceLine(testFileRefID, "MCPManager.swift", "Core/MCP/MCPManager.swift", "sourcecode.swift")
	want := "\t\tBB2000000000000000000001 /* MCPManager.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = Core/MCP/MCPManager.swift; sourceTree = \"<group>\"; };\n"
	assert.Equal(t, want, got)
}

func TestFileReferenceLineQuotesPathWithSpaces(t *testing.T) {
	got := fileReferenceLine(testFileRefID, "Read Me.md", "Docs/Read Me.md", "text")
	assert.Contains(t, got, "path = \"Docs/Read Me.md\";")
}

func TestMembershipLine(t *testing.T) {
	got := membershipLine(testBuildFileID, "MCPManager.swift")
	assert.Equal(t, "\t\t\t\tBB1000000000000000000001 /* MCPManager.swift in Sources */,\n", got)
}

func TestGroupBlockEmpty(t *testing.T) {
	got := groupBlock(testGroupID, "MCP", "MCP", nil)
	want := "\t\tBB3000000000000000000001 /* MCP */ = {\n" +
		"\t\t\tisa = PBXGroup;\n" +
		"\t\t\tchildren = (\n" +
		"\t\t\t);\n" +
		"\t\t\tpath = MCP;\n" +
		"\t\t\tsourceTree = \"<group>\";\n" +
		"\t\t};\n"
	assert.Equal(t, want, got)
}

func TestGroupBlockWithChildren(t *testing.T) {
	got := groupBlock(testGroupID, "MCP", "MCP", []groupChild{
		{id: testFileRefID, comment: "MCPManager.swift"},
	})
	assert.Contains(t, got, "\t\t\t\tBB2000000000000000000001 /* MCPManager.swift */,\n")
}

func TestGroupBlockDeterministic(t *testing.T) {
	a := groupBlock(testGroupID, "MCP", "MCP", nil)
	b := groupBlock(testGroupID, "MCP", "MCP", nil)
	assert.Equal(t, a, b)
}

func TestQuoteIfNeeded(t *testing.T) {
	cases := map[string]string{
		"MCPManager.swift":  "MCPManager.swift",
		"Core/MCP":          "Core/MCP",
		"Embed Frameworks":  `"Embed Frameworks"`,
		"":                  `""`,
		`say "hi"`:          `"say \"hi\""`,
		"back\\slash":       `"back\\slash"`,
		"dash-separated":    `"dash-separated"`,
		"$(BUILT_PRODUCTS)": `"$(BUILT_PRODUCTS)"`,
	}
	for in, want := range cases {
		assert.Equal(t, want, quoteIfNeeded(in), "input %q", in)
	}
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, "sourcecode.swift", detectFileType("MCPManager.swift"))
	assert.Equal(t, "sourcecode.c.objc", detectFileType("Foo.m"))
	assert.Equal(t, "file.xib", detectFileType("Main.xib"))
	assert.Equal(t, DEFAULT_FILETYPE, detectFileType("Makefile"))
}
