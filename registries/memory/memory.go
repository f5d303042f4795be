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

// Package memory is a registry kept in process memory. It backs tests and
// deployments that push assignments from the outside instead of running a
// registry service.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
)

// Registry is an in-memory registry
type Registry struct {
	lock     sync.RWMutex
	sections map[lbfactory.DatabaseName]lbfactory.ClusterID
	failWith error
}

// NewRegistry returns a registry answering from sections
func NewRegistry(sections map[lbfactory.DatabaseName]lbfactory.ClusterID) *Registry {
	r := &Registry{sections: make(map[lbfactory.DatabaseName]lbfactory.ClusterID, len(sections))}
	for db, cluster := range sections {
		r.sections[db] = cluster
	}
	return r
}

// Assign records the section of db
func (r *Registry) Assign(ctx context.Context, db lbfactory.DatabaseName, cluster lbfactory.ClusterID) error {
	if cluster == "" {
		return errors.Errorf("cannot assign an empty section to %q", string(db))
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sections[db] = cluster
	return nil
}

// Unassign forgets db
func (r *Registry) Unassign(db lbfactory.DatabaseName) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.sections, db)
}

// FailWith makes every lookup fail with err until called with nil
func (r *Registry) FailWith(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.failWith = err
}

// Lookup returns the assigned section
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	if err := ctx.Err(); err != nil {
		return lbfactory.Failed(db, err)
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.failWith != nil {
		return lbfactory.Failed(db, r.failWith)
	}
	if cluster, ok := r.sections[db]; ok {
		return lbfactory.Found(cluster)
	}
	return lbfactory.NotFound(db)
}

// Shutdown drops every assignment
func (r *Registry) Shutdown() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sections = map[lbfactory.DatabaseName]lbfactory.ClusterID{}
	return nil
}

func init() {
	lbfactory.RegisterRegistry("memory", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		var cfg struct {
			Sections map[lbfactory.DatabaseName]lbfactory.ClusterID `yaml:"sections"`
		}
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		return NewRegistry(cfg.Sections), nil
	})
}
