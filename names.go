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
	"unicode"

	"github.com/pkg/errors"
)

const (
	maxDatabaseNameLen = 64
)

// IsValidDatabaseName checks that a database name is non-empty, no longer than
// 64 bytes and free of whitespace and control characters.
func IsValidDatabaseName(name string) error {
	if len(name) == 0 {
		return errors.Errorf("cannot be empty")
	}
	if len(name) > maxDatabaseNameLen {
		return errors.Errorf("too long: %v has length %d, max allowed is %d", name, len(name), maxDatabaseNameLen)
	}
	if strings.IndexFunc(name, isInvalidDatabaseRune) != -1 {
		return errors.Errorf("name must not contain whitespace or control characters. Actual='%s'", name)
	}
	return nil
}

func isInvalidDatabaseRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// NormalizeDatabaseName trims surrounding whitespace and validates the result.
// Case is preserved: database names are case sensitive on most backends.
func NormalizeDatabaseName(name string) (DatabaseName, error) {
	trimmed := strings.TrimSpace(name)
	if err := IsValidDatabaseName(trimmed); err != nil {
		return "", errors.Wrapf(err, "failed to normalize to a valid database name for %q", name)
	}
	return DatabaseName(trimmed), nil
}
