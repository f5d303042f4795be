// Copyright (c) 2019 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package lbfactory

import (
	"strings"

	"github.com/pkg/errors"
)

// Domain is a parsed domain ID of the form "database", "database-prefix" or
// "database-schema-prefix". Inside each component a literal '-' is written
// as "?h" and a literal '?' as "??".
type Domain struct {
	Database string
	Schema   string
	Prefix   string
}

// ParseDomain splits a domain ID into its components.
func ParseDomain(id string) (Domain, error) {
	raw := strings.Split(id, "-")
	parts := make([]string, len(raw))
	for i, p := range raw {
		parts[i] = decodeDomainPart(p)
	}

	var d Domain
	switch len(parts) {
	case 1:
		d.Database = parts[0]
	case 2:
		d.Database, d.Prefix = parts[0], parts[1]
	case 3:
		d.Database, d.Schema, d.Prefix = parts[0], parts[1], parts[2]
	default:
		return Domain{}, errors.Errorf("domain %q has too many components", id)
	}
	return d, nil
}

// ID renders the domain back into its string form.
func (d Domain) ID() string {
	parts := []string{encodeDomainPart(d.Database)}
	if d.Schema != "" {
		parts = append(parts, encodeDomainPart(d.Schema))
	}
	if d.Prefix != "" || d.Schema != "" {
		parts = append(parts, encodeDomainPart(d.Prefix))
	}
	return strings.Join(parts, "-")
}

// DatabaseName returns the validated database component.
func (d Domain) DatabaseName() (DatabaseName, error) {
	return NormalizeDatabaseName(d.Database)
}

func (d Domain) String() string {
	return d.ID()
}

func encodeDomainPart(s string) string {
	s = strings.Replace(s, "?", "??", -1)
	return strings.Replace(s, "-", "?h", -1)
}

func decodeDomainPart(s string) string {
	if !strings.Contains(s, "?") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '?' && i+1 < len(s) {
			switch s[i+1] {
			case 'h':
				b.WriteByte('-')
				i++
				continue
			case '?':
				b.WriteByte('?')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
