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

// Package base is the building block of registry decorators: it forwards
// every call to Next, so decorators only override what they change.
package base

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
)

// ErrNoNext is returned when a decorator has nothing to forward to
var ErrNoNext = errors.New("no next registry")

// Registry forwards to Next
type Registry struct {
	Next lbfactory.Registry
}

// NewRegistry creates a new base Registry
func NewRegistry(next lbfactory.Registry) *Registry {
	return &Registry{Next: next}
}

// Lookup calls next
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	if r.Next == nil {
		return lbfactory.Failed(db, ErrNoNext)
	}
	return r.Next.Lookup(ctx, db)
}

// Shutdown calls next
func (r *Registry) Shutdown() error {
	if r.Next == nil {
		return nil
	}
	return r.Next.Shutdown()
}
