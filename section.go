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

import "context"

// DefaultCluster is the section used for databases that have no assignment.
const DefaultCluster ClusterID = "DEFAULT"

// DatabaseName identifies a tenant's logical database.
type DatabaseName string

// ClusterID identifies a physical backend cluster, also known as a section.
type ClusterID string

// ShardMap is the live database to section table a Factory routes with.
// Implementations must be safe for concurrent use and a successful Set must be
// visible to every subsequent Get on the same instance.
type ShardMap interface {
	// Get returns the section assigned to db, if any.
	Get(db DatabaseName) (ClusterID, bool)
	// Set assigns db to cluster. It returns an ErrInjectionRejected when the
	// table no longer accepts writes.
	Set(db DatabaseName, cluster ClusterID) error
}

// Balancer is a load balancer for the servers of a single section.
type Balancer interface {
	// Section returns the section this balancer serves.
	Section() ClusterID
	// Servers returns the names of the servers in the section, primary first.
	Servers() []string
	// PrimaryServer returns the server that accepts writes.
	PrimaryServer() string
	// PickReplica chooses a server for reads.
	PickReplica(ctx context.Context) (string, error)
}

// Factory hands out the main load balancer for a domain.
type Factory interface {
	GetMainLB(ctx context.Context, domain string) (Balancer, error)
}

// SectionTableProvider is implemented by factories that let callers extend
// their routing table. The returned ShardMap must be the table the factory
// itself consults, not a copy.
type SectionTableProvider interface {
	SectionTable() ShardMap
}

// SectionFactory is implemented by factories that can hand out a balancer for
// an explicit section. It is used when the wrapped factory does not expose its
// routing table.
type SectionFactory interface {
	GetSectionLB(ctx context.Context, cluster ClusterID) (Balancer, error)
}
