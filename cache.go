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
	"github.com/zhangyunhao116/skipmap"
)

// ResolutionCache remembers every section the registry has returned for the
// life of the process. Entries are never evicted, removed or overwritten, so
// the working set grows with the number of distinct databases served.
//
// A single cache is meant to be shared by every Facade in a process; pass it
// with WithCache.
type ResolutionCache struct {
	entries *skipmap.OrderedMap[string, ClusterID]
}

// NewResolutionCache returns an empty cache
func NewResolutionCache() *ResolutionCache {
	return &ResolutionCache{entries: skipmap.New[string, ClusterID]()}
}

// Load returns the cached section for db
func (c *ResolutionCache) Load(db DatabaseName) (ClusterID, bool) {
	return c.entries.Load(string(db))
}

// Store records cluster for db unless db is already cached. It returns the
// section that is cached after the call.
func (c *ResolutionCache) Store(db DatabaseName, cluster ClusterID) ClusterID {
	actual, _ := c.entries.LoadOrStore(string(db), cluster)
	return actual
}

// Len returns the number of cached databases
func (c *ResolutionCache) Len() int {
	return c.entries.Len()
}

// Snapshot copies the cache contents
func (c *ResolutionCache) Snapshot() map[DatabaseName]ClusterID {
	out := make(map[DatabaseName]ClusterID, c.entries.Len())
	c.entries.Range(func(db string, cluster ClusterID) bool {
		out[DatabaseName(db)] = cluster
		return true
	})
	return out
}
