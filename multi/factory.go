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

// Package multi is a load balancer factory for databases spread over several
// sections. It routes with a static section table that others may extend at
// runtime through SectionTable.
package multi

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
)

// Factory hands out one LoadBalancer per section
type Factory struct {
	localDomain    string
	defaultSection lbfactory.ClusterID
	loads          map[lbfactory.ClusterID][]ServerLoad
	table          *lbfactory.SectionTable

	mu        sync.Mutex
	balancers map[lbfactory.ClusterID]*LoadBalancer
	seed      func() int64
}

// NewFactory validates cfg and returns a Factory
func NewFactory(cfg Config) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid section configuration")
	}
	f := &Factory{
		localDomain:    cfg.LocalDomain,
		defaultSection: cfg.DefaultSection,
		loads:          cfg.SectionLoads,
		balancers:      map[lbfactory.ClusterID]*LoadBalancer{},
		seed:           func() int64 { return time.Now().UnixNano() },
	}
	f.table = lbfactory.NewRestrictedSectionTable(cfg.SectionsByDB, f.HasSection)
	return f, nil
}

// HasSection reports whether the factory has servers for section
func (f *Factory) HasSection(section lbfactory.ClusterID) bool {
	_, ok := f.loads[section]
	return ok
}

// LocalDomain returns the domain used for empty domains
func (f *Factory) LocalDomain() string {
	return f.localDomain
}

// GetMainLB returns the balancer of the section hosting the domain's
// database, or of the default section when the database is unassigned
func (f *Factory) GetMainLB(ctx context.Context, domain string) (lbfactory.Balancer, error) {
	section, err := f.SectionFor(domain)
	if err != nil {
		return nil, err
	}
	return f.GetSectionLB(ctx, section)
}

// GetSectionLB returns the balancer of a section
func (f *Factory) GetSectionLB(ctx context.Context, section lbfactory.ClusterID) (lbfactory.Balancer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lb, ok := f.balancers[section]; ok {
		return lb, nil
	}
	loads, ok := f.loads[section]
	if !ok {
		return nil, errors.Errorf("no servers configured for section %q", string(section))
	}
	lb := newLoadBalancer(section, loads, f.seed())
	f.balancers[section] = lb
	return lb, nil
}

// SectionFor returns the section the domain's database is routed to
func (f *Factory) SectionFor(domain string) (lbfactory.ClusterID, error) {
	if domain == "" {
		domain = f.localDomain
	}
	d, err := lbfactory.ParseDomain(domain)
	if err != nil {
		return "", err
	}
	db, err := d.DatabaseName()
	if err != nil {
		return "", errors.Wrapf(err, "invalid domain %q", domain)
	}
	if section, ok := f.table.Get(db); ok {
		return section, nil
	}
	return f.defaultSection, nil
}

// SectionTable returns the live table the factory routes with
func (f *Factory) SectionTable() lbfactory.ShardMap {
	return f.table
}

// Table gives the owner access to Reset and Seal
func (f *Factory) Table() *lbfactory.SectionTable {
	return f.table
}

// DefaultSection returns the section unassigned databases go to
func (f *Factory) DefaultSection() lbfactory.ClusterID {
	return f.defaultSection
}
