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
	"time"

	"github.com/uber-go/lbfactory/metrics"
	"go.uber.org/zap"
)

// DefaultLookupTimeout bounds a single registry lookup
const DefaultLookupTimeout = 2 * time.Second

type options struct {
	cache         *ResolutionCache
	logger        *zap.Logger
	stats         metrics.Scope
	lookupTimeout time.Duration
	localDomain   string
	static        map[DatabaseName]ClusterID
}

func newOptions(opts []Option) *options {
	o := &options{
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cache == nil {
		o.cache = NewResolutionCache()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.stats = metrics.CheckIfNilStats(o.stats)
	return o
}

// Option configures a Resolver or Facade
type Option func(*options)

// WithCache shares cache between resolvers. Every Facade in a process should
// be given the same cache.
func WithCache(cache *ResolutionCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithLogger sets the logger resolution failures are reported to
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the scope resolver metrics are emitted under
func WithMetrics(scope metrics.Scope) Option {
	return func(o *options) {
		o.stats = scope
	}
}

// WithLookupTimeout bounds each registry lookup. Non-positive values keep the
// default.
func WithLookupTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lookupTimeout = d
		}
	}
}

// WithLocalDomain sets the domain used when GetMainLB is called with an empty
// domain
func WithLocalDomain(domain string) Option {
	return func(o *options) {
		o.localDomain = domain
	}
}

// WithStaticSections seeds the table a Facade owns when the wrapped factory
// does not expose its own. It has no effect otherwise.
func WithStaticSections(sections map[DatabaseName]ClusterID) Option {
	return func(o *options) {
		o.static = sections
	}
}
