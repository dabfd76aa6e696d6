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
	"path/filepath"
	"regexp"
	"strings"
)

// Section names as they appear in the Begin/End markers.
const (
	sectionBuildFile     = "PBXBuildFile"
	sectionFileReference = "PBXFileReference"
	sectionGroup         = "PBXGroup"
	sectionSourcesPhase  = "PBXSourcesBuildPhase"
)

// Sources is the build phase new files are compiled in.
const sourcesPhaseName = "Sources"

const (
	INDENT             = "\t"
	DEFAULT_SOURCETREE = "\"<group>\""
	DEFAULT_FILETYPE   = "unknown"
)

var FILETYPE_BY_EXTENSION = map[string]string{
	"a":           "archive.ar",
	"app":         "wrapper.application",
	"appex":       "wrapper.app-extension",
	"bundle":      "wrapper.plug-in",
	"dylib":       "compiled.mach-o.dylib",
	"framework":   "wrapper.framework",
	"h":           "sourcecode.c.h",
	"m":           "sourcecode.c.objc",
	"markdown":    "text",
	"pch":         "sourcecode.c.h",
	"plist":       "text.plist.xml",
	"sh":          "text.script.sh",
	"swift":       "sourcecode.swift",
	"xcassets":    "folder.assetcatalog",
	"xcconfig":    "text.xcconfig",
	"xcdatamodel": "wrapper.xcdatamodel",
	"xib":         "file.xib",
	"strings":     "text.plist.strings",
}

func detectFileType(name string) string {
	extension := strings.TrimPrefix(filepath.Ext(name), ".")
	filetype, found := FILETYPE_BY_EXTENSION[extension]
	if !found {
		return DEFAULT_FILETYPE
	}
	return filetype
}

var unquotedSafeRegex = regexp.MustCompile(`^[A-Za-z0-9$._/]+$`)

// quoteIfNeeded applies the manifest's quoting rule: values made of plain
// identifier/path characters are written bare, everything else (spaces,
// dashes, empty strings) is double-quoted with backslash escaping.
func quoteIfNeeded(value string) string {
	if value != "" && unquotedSafeRegex.MatchString(value) {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

// The builders below are pure: same inputs, byte-identical output. They
// render one record each, in the manifest's literal syntax, indented the way
// the format writes the corresponding section.

func buildFileLine(id, fileRefID, name string) string {
	return fmt.Sprintf("\t\t%s /* %s in %s */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };\n",
		id, name, sourcesPhaseName, fileRefID, name)
}

func fileReferenceLine(id, name, storedPath, fileType string) string {
	return fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; path = %s; sourceTree = %s; };\n",
		id, name, fileType, quoteIfNeeded(storedPath), DEFAULT_SOURCETREE)
}

func membershipLine(id, name string) string {
	return fmt.Sprintf("\t\t\t\t%s /* %s in %s */,\n", id, name, sourcesPhaseName)
}

// childLine renders one entry of a children = ( ... ) list.
func childLine(id, comment string) string {
	return fmt.Sprintf("\t\t\t\t%s /* %s */,\n", id, comment)
}

type groupChild struct {
	id      string
	comment string
}

func groupBlock(id, name, path string, children []groupChild) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t\t%s /* %s */ = {\n", id, name)
	b.WriteString("\t\t\tisa = PBXGroup;\n")
	b.WriteString("\t\t\tchildren = (\n")
	for _, child := range children {
		b.WriteString(childLine(child.id, child.comment))
	}
	b.WriteString("\t\t\t);\n")
	fmt.Fprintf(&b, "\t\t\tpath = %s;\n", quoteIfNeeded(path))
	fmt.Fprintf(&b, "\t\t\tsourceTree = %s;\n", DEFAULT_SOURCETREE)
	b.WriteString("\t\t};\n")
	return b.String()
}
