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
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
)

const (
	IDENTIFIER_LENGTH = 24
	maxAllocateTries  = 32
)

var identifierRegex = regexp.MustCompile(`\b[A-F0-9]{24}\b`)

// identifierAllocator hands out 24-character upper-hex identifiers that are
// unique across the whole manifest. The manifest text is scanned once up
// front for every existing identifier; each issued identifier is added to the
// same set so values allocated within one operation never collide with each
// other. A substring check against the original text backs up the set in case
// an identifier-shaped token escaped the scan.
type identifierAllocator struct {
	manifest string
	seen     map[string]struct{}
	newID    func() (string, error)
}

func newIdentifierAllocator(manifest string) *identifierAllocator {
	seen := make(map[string]struct{})
	for _, id := range identifierRegex.FindAllString(manifest, -1) {
		seen[id] = struct{}{}
	}
	return &identifierAllocator{
		manifest: manifest,
		seen:     seen,
		newID:    randomIdentifier,
	}
}

func randomIdentifier() (string, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.ReplaceAll(u.String(), "-", ""))[0:IDENTIFIER_LENGTH], nil
}

func (a *identifierAllocator) Allocate() (string, error) {
	for i := 0; i < maxAllocateTries; i++ {
		id, err := a.newID()
		if err != nil {
			return "", err
		}
		if _, found := a.seen[id]; found {
			continue
		}
		if strings.Contains(a.manifest, id) {
			continue
		}
		a.seen[id] = struct{}{}
		return id, nil
	}
	return "", ErrIdentifierSpaceExhausted
}
