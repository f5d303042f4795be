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
	"github.com/pkg/errors"
)

// Injector writes resolved sections into a factory's live routing table
type Injector struct {
	table ShardMap
}

// NewInjector returns an Injector writing into table
func NewInjector(table ShardMap) *Injector {
	return &Injector{table: table}
}

// Inject sets db -> cluster in the routing table. The write is visible to the
// table's readers as soon as Inject returns.
func (i *Injector) Inject(db DatabaseName, cluster ClusterID) error {
	if cluster == "" {
		return errors.Errorf("refusing to inject empty section for %q", string(db))
	}
	if current, ok := i.table.Get(db); ok && current == cluster {
		return nil
	}
	if err := i.table.Set(db, cluster); err != nil {
		return errors.Wrapf(err, "could not inject section %q for %q", string(cluster), string(db))
	}
	return nil
}
