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
	"sync"
)

// SectionTable is a ShardMap split into the static assignments loaded from
// configuration and the dynamic ones written at runtime. Static entries win
// over dynamic ones for the same database.
type SectionTable struct {
	mu      sync.RWMutex
	static  map[DatabaseName]ClusterID
	dynamic map[DatabaseName]ClusterID
	sealed  bool
	known   func(ClusterID) bool
}

// NewSectionTable returns a table seeded with static assignments. The map is
// copied.
func NewSectionTable(static map[DatabaseName]ClusterID) *SectionTable {
	s := make(map[DatabaseName]ClusterID, len(static))
	for db, cluster := range static {
		s[db] = cluster
	}
	return &SectionTable{
		static:  s,
		dynamic: map[DatabaseName]ClusterID{},
	}
}

// NewRestrictedSectionTable returns a table that only accepts writes for
// sections known reports true for
func NewRestrictedSectionTable(static map[DatabaseName]ClusterID, known func(ClusterID) bool) *SectionTable {
	t := NewSectionTable(static)
	t.known = known
	return t
}

// Get returns the section assigned to db
func (t *SectionTable) Get(db DatabaseName) (ClusterID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if cluster, ok := t.static[db]; ok {
		return cluster, true
	}
	cluster, ok := t.dynamic[db]
	return cluster, ok
}

// Set assigns db to cluster. Writes for statically assigned databases are
// ignored. A sealed table rejects every write, and a restricted table rejects
// writes naming a section it does not know.
func (t *SectionTable) Set(db DatabaseName, cluster ClusterID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sealed {
		return &ErrInjectionRejected{Database: db, Reason: "section table is sealed"}
	}
	if t.known != nil && !t.known(cluster) {
		return &ErrInjectionRejected{Database: db, Section: cluster, Reason: fmt.Sprintf("unknown section %q", string(cluster))}
	}
	if _, ok := t.static[db]; ok {
		return nil
	}
	t.dynamic[db] = cluster
	return nil
}

// Reset drops every dynamic assignment and reopens a sealed table
func (t *SectionTable) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dynamic = map[DatabaseName]ClusterID{}
	t.sealed = false
}

// Seal makes the table read-only until the next Reset
func (t *SectionTable) Seal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealed = true
}

// Len returns the number of assigned databases
func (t *SectionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.static)
	for db := range t.dynamic {
		if _, ok := t.static[db]; !ok {
			n++
		}
	}
	return n
}

// Snapshot copies all assignments
func (t *SectionTable) Snapshot() map[DatabaseName]ClusterID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[DatabaseName]ClusterID, len(t.static)+len(t.dynamic))
	for db, cluster := range t.dynamic {
		out[db] = cluster
	}
	for db, cluster := range t.static {
		out[db] = cluster
	}
	return out
}
