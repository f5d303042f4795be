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

// Package fallback pairs an authoritative registry with a store that keeps
// a copy of every section it returns. When the authoritative registry cannot
// be reached, lookups are answered from the copy.
package fallback

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/metrics"
	"github.com/uber-go/lbfactory/registries/base"
)

// Store is a registry that can also be written to
type Store interface {
	lbfactory.Registry
	lbfactory.Assigner
}

// Registry reads from origin and falls back to a store on transport failures
type Registry struct {
	base.Registry
	fallback Store
	stats    metrics.Scope
	// Used primarily for testing so that nothing is called in a goroutine
	synchronous bool
}

// NewRegistry creates a fallback registry
func NewRegistry(origin lbfactory.Registry, fallback Store, scope metrics.Scope) *Registry {
	return &Registry{
		Registry: base.Registry{Next: origin},
		fallback: fallback,
		stats:    metrics.CheckIfNilStats(scope),
	}
}

// Lookup asks origin first. A found section is copied to the fallback store,
// a not found answer is returned as is, and any other failure is retried on
// the fallback. If the fallback has nothing either, the origin failure is
// returned.
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	source := r.Registry.Lookup(ctx, db)
	switch source.Status {
	case lbfactory.LookupFound:
		cluster := source.Cluster
		_ = r.cacheWrite(func() error {
			return r.fallback.Assign(context.Background(), db, cluster)
		})
		return source
	case lbfactory.LookupNotFound:
		return source
	}

	result := r.fallback.Lookup(ctx, db)
	r.logFallback(result.Status == lbfactory.LookupFound)
	if result.Status != lbfactory.LookupFound {
		return source
	}
	return result
}

// Shutdown shuts down origin and fallback
func (r *Registry) Shutdown() error {
	originErr := r.Registry.Shutdown()
	fallbackErr := r.fallback.Shutdown()
	if originErr != nil {
		return errors.Wrap(originErr, "failed to shut down origin registry")
	}
	return errors.Wrap(fallbackErr, "failed to shut down fallback registry")
}

func (r *Registry) cacheWrite(w func() error) error {
	if r.synchronous {
		return w()
	}
	go func() { _ = w() }()
	return nil
}

func (r *Registry) logFallback(ok bool) {
	s := r.stats.SubScope("fallback")
	if ok {
		s.Counter("success").Inc(1)
	} else {
		s.Counter("failure").Inc(1)
	}
}

type registryRef struct {
	Name    string                 `yaml:"name"`
	Options map[string]interface{} `yaml:"options"`
}

func init() {
	lbfactory.RegisterRegistry("fallback", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		var cfg struct {
			Origin   registryRef `yaml:"origin"`
			Fallback registryRef `yaml:"fallback"`
		}
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		origin, err := lbfactory.GetRegistry(cfg.Origin.Name, cfg.Origin.Options)
		if err != nil {
			return nil, errors.Wrap(err, "could not create origin registry")
		}
		fb, err := lbfactory.GetRegistry(cfg.Fallback.Name, cfg.Fallback.Options)
		if err != nil {
			_ = origin.Shutdown()
			return nil, errors.Wrap(err, "could not create fallback registry")
		}
		store, ok := fb.(Store)
		if !ok {
			_ = origin.Shutdown()
			_ = fb.Shutdown()
			return nil, errors.Errorf("registry %q cannot be used as a fallback store", cfg.Fallback.Name)
		}
		return NewRegistry(origin, store, nil), nil
	})
}
