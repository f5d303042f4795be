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

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Facade wraps a Factory so that databases missing from its routing table are
// looked up in a registry before the factory picks a balancer for them.
//
// When the wrapped factory is a SectionTableProvider, resolved sections are
// injected into its own table and every call is delegated unchanged. When it
// only implements SectionFactory, the Facade keeps a table of its own and asks
// the factory for the resolved section's balancer directly.
type Facade struct {
	base        Factory
	sections    SectionFactory
	table       ShardMap
	resolver    *Resolver
	registry    Registry
	localDomain string
	logger      *zap.Logger
}

// localDomainProvider is implemented by factories that route the empty domain
// to a domain of their own
type localDomainProvider interface {
	LocalDomain() string
}

// NewFacade wraps base. Without WithLocalDomain, the empty domain resolves
// to base's local domain when base has one.
func NewFacade(base Factory, registry Registry, opts ...Option) (*Facade, error) {
	if base == nil {
		return nil, errors.New("cannot wrap a nil factory")
	}
	o := newOptions(opts)

	f := &Facade{
		base:        base,
		registry:    registry,
		localDomain: o.localDomain,
		logger:      o.logger,
	}
	if p, ok := base.(localDomainProvider); ok && f.localDomain == "" {
		f.localDomain = p.LocalDomain()
	}
	if p, ok := base.(SectionTableProvider); ok && p.SectionTable() != nil {
		f.table = p.SectionTable()
	} else if sf, ok := base.(SectionFactory); ok {
		f.sections = sf
		f.table = NewSectionTable(o.static)
	} else {
		return nil, errors.Errorf("factory %T exposes neither its section table nor per-section balancers", base)
	}
	f.resolver = newResolver(f.table, registry, o)
	return f, nil
}

// GetMainLB resolves the section of the domain's database and then returns
// the wrapped factory's balancer for it. Resolution failures are logged by
// the resolver and never returned; the factory falls back to its default
// section.
func (f *Facade) GetMainLB(ctx context.Context, domain string) (Balancer, error) {
	db, ok := f.databaseFor(domain)
	if !ok {
		return f.base.GetMainLB(ctx, domain)
	}

	res := f.resolver.ResolveCluster(ctx, db)
	if f.sections != nil && res.Resolved() {
		lb, err := f.sections.GetSectionLB(ctx, res.Cluster)
		if err == nil {
			return lb, nil
		}
		f.logger.Warn("no balancer for resolved section, using default section",
			zap.String("database", string(db)),
			zap.String("section", string(res.Cluster)),
			zap.Error(err))
	}
	return f.base.GetMainLB(ctx, domain)
}

// Resolve runs resolution for a domain without asking for a balancer
func (f *Facade) Resolve(ctx context.Context, domain string) (Resolution, error) {
	db, ok := f.databaseFor(domain)
	if !ok {
		return Resolution{}, errors.Errorf("domain %q does not name a database", domain)
	}
	return f.resolver.ResolveCluster(ctx, db), nil
}

// SectionTable returns the table resolved sections are injected into
func (f *Facade) SectionTable() ShardMap {
	return f.table
}

// Cache returns the resolution cache
func (f *Facade) Cache() *ResolutionCache {
	return f.resolver.Cache()
}

// Shutdown releases the registry
func (f *Facade) Shutdown() error {
	if f.registry == nil {
		return nil
	}
	return f.registry.Shutdown()
}

func (f *Facade) databaseFor(domain string) (DatabaseName, bool) {
	if domain == "" {
		domain = f.localDomain
	}
	if domain == "" {
		return "", false
	}
	d, err := ParseDomain(domain)
	if err != nil {
		f.logger.Debug("skipping section resolution", zap.String("domain", domain), zap.Error(err))
		return "", false
	}
	db, err := d.DatabaseName()
	if err != nil {
		f.logger.Debug("skipping section resolution", zap.String("domain", domain), zap.Error(err))
		return "", false
	}
	return db, true
}
