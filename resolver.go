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
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory/metrics"
	"go.uber.org/zap"
)

// ResolutionSource says where a resolution was answered from
type ResolutionSource string

const (
	// SourceShardMap means the routing table already had the database
	SourceShardMap ResolutionSource = "shard_map"
	// SourceCache means the section came from the resolution cache
	SourceCache ResolutionSource = "cache"
	// SourceRegistry means the registry was asked
	SourceRegistry ResolutionSource = "registry"
)

// Resolution describes what ResolveCluster did. When Err is non-nil the
// routing table does not carry the database and the factory will use its
// default section.
type Resolution struct {
	Database DatabaseName
	Cluster  ClusterID
	Source   ResolutionSource
	Err      error
}

// Resolved reports whether the routing table now carries the database
func (r Resolution) Resolved() bool {
	return r.Err == nil && r.Cluster != ""
}

// Resolver makes sure a routing table knows the section of a database before
// a routing decision is made for it
type Resolver struct {
	table    ShardMap
	injector *Injector
	cache    *ResolutionCache
	registry Registry
	timeout  time.Duration
	logger   *zap.Logger
	stats    metrics.Scope
}

// NewResolver creates a resolver that extends table with answers from registry
func NewResolver(table ShardMap, registry Registry, opts ...Option) *Resolver {
	return newResolver(table, registry, newOptions(opts))
}

func newResolver(table ShardMap, registry Registry, o *options) *Resolver {
	if registry == nil {
		registry = noRegistry{}
	}
	return &Resolver{
		table:    table,
		injector: NewInjector(table),
		cache:    o.cache,
		registry: registry,
		timeout:  o.lookupTimeout,
		logger:   o.logger,
		stats:    o.stats.SubScope("resolver"),
	}
}

// Cache returns the resolution cache the resolver writes to
func (r *Resolver) Cache() *ResolutionCache {
	return r.cache
}

// ResolveCluster consults the routing table, then the cache, then the
// registry, and stops at the first that knows db. Failures are logged and
// reported in the returned Resolution, never as an error: the caller goes on
// to route with whatever the table holds.
func (r *Resolver) ResolveCluster(ctx context.Context, db DatabaseName) Resolution {
	if cluster, ok := r.table.Get(db); ok {
		r.stats.Counter("map_hit").Inc(1)
		return Resolution{Database: db, Cluster: cluster, Source: SourceShardMap}
	}

	if cluster, ok := r.cache.Load(db); ok {
		// the owner may have reset its table since this was first injected
		r.stats.Counter("cache_hit").Inc(1)
		res := Resolution{Database: db, Cluster: cluster, Source: SourceCache}
		if err := r.injector.Inject(db, cluster); err != nil {
			r.logInjectFailure(db, cluster, err)
			res.Err = err
		}
		return res
	}

	return r.resolveFromRegistry(ctx, db)
}

func (r *Resolver) resolveFromRegistry(ctx context.Context, db DatabaseName) Resolution {
	res := Resolution{Database: db, Source: SourceRegistry}

	lookup := r.lookup(ctx, db)
	if lookup.Status == LookupFound && lookup.Cluster == "" {
		lookup = Failed(db, errors.New("registry returned an empty section"))
	}

	switch lookup.Status {
	case LookupFound:
		r.stats.Counter("registry_found").Inc(1)
		cluster := lookup.Cluster
		if cached, ok := r.cache.Load(db); ok {
			cluster = cached
		}
		res.Cluster = cluster
		err := r.injector.Inject(db, cluster)
		if ErrorIsUnknownSection(err) {
			// refused every time, so not cached
			r.logInjectFailure(db, cluster, err)
			res.Err = err
			return res
		}
		res.Cluster = r.cache.Store(db, cluster)
		r.stats.Gauge("cache_size").Update(float64(r.cache.Len()))
		if err != nil {
			r.logInjectFailure(db, cluster, err)
			res.Err = err
			return res
		}
		r.logger.Debug("resolved section from registry",
			zap.String("database", string(db)),
			zap.String("section", string(cluster)))
	case LookupNotFound:
		r.stats.Counter("registry_not_found").Inc(1)
		res.Err = lookup.Err
		r.logger.Warn("no section assigned to database, using default section",
			zap.String("database", string(db)),
			zap.String("kind", "not_found"),
			zap.Error(lookup.Err))
	default:
		r.stats.Counter("registry_error").Inc(1)
		res.Err = lookup.Err
		if res.Err == nil {
			res.Err = NewErrLookupTransport(db, errors.Errorf("unknown lookup status %d", int(lookup.Status)))
		}
		r.logger.Warn("could not look up database section, using default section",
			zap.String("database", string(db)),
			zap.String("kind", "transport"),
			zap.Error(res.Err))
	}
	return res
}

func (r *Resolver) lookup(ctx context.Context, db DatabaseName) LookupResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		r.stats.Timer("registry_latency").Record(time.Since(start))
	}()

	// buffered so a registry that ignores ctx does not leak the goroutine
	done := make(chan LookupResult, 1)
	go func() {
		done <- r.registry.Lookup(ctx, db)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		return Failed(db, errors.Wrap(ctx.Err(), "registry lookup timed out"))
	}
}

func (r *Resolver) logInjectFailure(db DatabaseName, cluster ClusterID, err error) {
	r.stats.Counter("inject_error").Inc(1)
	r.logger.Warn("could not inject section into routing table, using default section",
		zap.String("database", string(db)),
		zap.String("section", string(cluster)),
		zap.String("kind", "injection"),
		zap.Error(err))
}

type noRegistry struct{}

func (noRegistry) Lookup(ctx context.Context, db DatabaseName) LookupResult {
	return NotFound(db)
}

func (noRegistry) Shutdown() error {
	return nil
}
