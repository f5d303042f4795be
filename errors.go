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
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the registry has no section for a database
type ErrNotFound struct {
	Database DatabaseName
}

// Error returns a description of the missing assignment
func (e *ErrNotFound) Error() string {
	if e.Database == "" {
		return "not found"
	}
	return fmt.Sprintf("no section assigned to database %q", string(e.Database))
}

// ErrLookupTransport is returned when the registry could not be asked or its
// answer could not be understood
type ErrLookupTransport struct {
	Database DatabaseName
	Err      error
}

// Error returns the underlying transport failure
func (e *ErrLookupTransport) Error() string {
	return fmt.Sprintf("registry lookup for database %q failed: %v", string(e.Database), e.Err)
}

// NewErrLookupTransport wraps err as a transport failure for db
func NewErrLookupTransport(db DatabaseName, err error) *ErrLookupTransport {
	return &ErrLookupTransport{Database: db, Err: err}
}

// ErrInjectionRejected is returned by a ShardMap that does not accept writes.
// Section is set when the table refused the section itself rather than the
// write, so the same answer will be refused again.
type ErrInjectionRejected struct {
	Database DatabaseName
	Section  ClusterID
	Reason   string
}

// Error explains why the write was refused
func (e *ErrInjectionRejected) Error() string {
	return fmt.Sprintf("section table rejected %q: %s", string(e.Database), e.Reason)
}

// ErrorIsNotFound checks if the error is an ErrNotFound (possibly wrapped)
func ErrorIsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*ErrNotFound)
	return ok
}

// ErrorIsTransport checks if the error is an ErrLookupTransport (possibly wrapped)
func ErrorIsTransport(err error) bool {
	_, ok := errors.Cause(err).(*ErrLookupTransport)
	return ok
}

// ErrorIsInjectionRejected checks if the error is an ErrInjectionRejected (possibly wrapped)
func ErrorIsInjectionRejected(err error) bool {
	_, ok := errors.Cause(err).(*ErrInjectionRejected)
	return ok
}

// ErrorIsUnknownSection checks if the error is an ErrInjectionRejected
// (possibly wrapped) naming a section the table does not route to
func ErrorIsUnknownSection(err error) bool {
	e, ok := errors.Cause(err).(*ErrInjectionRejected)
	return ok && e.Section != ""
}
