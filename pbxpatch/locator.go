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
	"regexp"
	"strings"
)

// The locator finds structure by substring search over the raw manifest text
// instead of parsing the grammar. Every lookup is narrowed to its enclosing
// /* Begin X section */ ... /* End X section */ region first so that array
// literals of the same shape elsewhere in the file cannot be matched by
// mistake.

// sectionSpan bounds one section of the manifest. insertAt is where new
// records for the section are spliced in, immediately before the End marker.
type sectionSpan struct {
	start    int
	end      int
	insertAt int
}

// arraySpan bounds one ( ... ) list. afterOpen is the offset of the first
// entry line, close the offset of the line holding the closing parenthesis.
type arraySpan struct {
	afterOpen int
	close     int
}

// groupRecord is the position of one named group declaration.
type groupRecord struct {
	id    string
	start int
}

func beginMarker(section string) string {
	return fmt.Sprintf("/* Begin %s section */", section)
}

func endMarker(section string) string {
	return fmt.Sprintf("/* End %s section */", section)
}

func findSection(text, section string) (sectionSpan, error) {
	begin := strings.Index(text, beginMarker(section))
	if begin < 0 {
		return sectionSpan{}, &StructureNotFoundError{Marker: beginMarker(section)}
	}
	end := strings.Index(text[begin:], endMarker(section))
	if end < 0 {
		return sectionSpan{}, &StructureNotFoundError{Marker: endMarker(section)}
	}
	end += begin
	return sectionSpan{start: begin, end: end, insertAt: end}, nil
}

// findGroupByName locates a PBXGroup declaration by its comment name, the way
// group records are commonly identified: `XXXX /* Name */ = {` followed by an
// `isa = PBXGroup;` field. The first match inside the PBXGroup section wins.
func findGroupByName(text, name string) (groupRecord, error) {
	span, err := findSection(text, sectionGroup)
	if err != nil {
		return groupRecord{}, err
	}
	pattern := regexp.MustCompile(`([A-F0-9]{24}) /\* ` + regexp.QuoteMeta(name) + ` \*/ = \{\n\s+isa = PBXGroup;`)
	loc := pattern.FindStringSubmatchIndex(text[span.start:span.end])
	if loc == nil {
		return groupRecord{}, &StructureNotFoundError{Marker: fmt.Sprintf("PBXGroup %q", name)}
	}
	return groupRecord{
		id:    text[span.start+loc[2] : span.start+loc[3]],
		start: span.start + loc[0],
	}, nil
}

// findGroupByID locates a PBXGroup declaration by identifier. The match is
// anchored to a record opening (`= {` at the declaration indent level): the
// same identifier also appears in its parent's children list, and a child
// entry line must never be taken for the declaration.
func findGroupByID(text, id string) (groupRecord, error) {
	span, err := findSection(text, sectionGroup)
	if err != nil {
		return groupRecord{}, err
	}
	pattern := regexp.MustCompile(`(?m)^\t\t` + id + ` /\* .* \*/ = \{`)
	loc := pattern.FindStringIndex(text[span.start:span.end])
	if loc == nil {
		return groupRecord{}, &StructureNotFoundError{Marker: fmt.Sprintf("PBXGroup %s", id)}
	}
	return groupRecord{id: id, start: span.start + loc[0]}, nil
}

// findChildrenArray locates the children = ( ... ) list of the group record
// beginning at start.
func findChildrenArray(text string, start int) (arraySpan, error) {
	span, err := findSection(text, sectionGroup)
	if err != nil {
		return arraySpan{}, err
	}
	return findArray(text, start, span.end, "children = (")
}

// findBuildPhaseFiles locates the files = ( ... ) membership list of the
// first build phase in the given phase section (one target per manifest is
// assumed, as in the projects this tool is aimed at).
func findBuildPhaseFiles(text, phaseSection string) (arraySpan, error) {
	span, err := findSection(text, phaseSection)
	if err != nil {
		return arraySpan{}, err
	}
	return findArray(text, span.start, span.end, "files = (")
}

// findArray scans forward from `from` for the given opening token and walks
// to its matching close parenthesis. The opening token must occur before
// `limit`, which keeps the search inside the previously bounded region.
func findArray(text string, from, limit int, open string) (arraySpan, error) {
	i := strings.Index(text[from:], open)
	if i < 0 || from+i >= limit {
		return arraySpan{}, &StructureNotFoundError{Marker: open}
	}
	openEnd := from + i + len(open)

	afterOpen := openEnd
	if nl := strings.IndexByte(text[openEnd:], '\n'); nl >= 0 {
		afterOpen = openEnd + nl + 1
	}

	depth := 1
	for j := openEnd; j < len(text); j++ {
		switch text[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				lineStart := strings.LastIndexByte(text[:j], '\n') + 1
				return arraySpan{afterOpen: afterOpen, close: lineStart}, nil
			}
		}
	}
	return arraySpan{}, &StructureNotFoundError{Marker: open + " ... )"}
}

// splice inserts the given text at offset, keeping everything else untouched.
func splice(text string, at int, insert string) string {
	return text[:at] + insert + text[at:]
}
