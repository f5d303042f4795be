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

package multi

import (
	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
)

// ServerLoad is a server in a section and its share of read traffic
type ServerLoad struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

// Config describes the sections a Factory balances across.
// The first server listed for a section is its primary.
type Config struct {
	// LocalDomain is used when GetMainLB is called with an empty domain
	LocalDomain string
	// DefaultSection hosts every database without an assignment
	DefaultSection lbfactory.ClusterID
	// SectionsByDB is the static database to section assignment
	SectionsByDB map[lbfactory.DatabaseName]lbfactory.ClusterID
	// SectionLoads lists the servers of every section
	SectionLoads map[lbfactory.ClusterID][]ServerLoad
}

// Validate fills in the default section and checks every section has
// servers and every static assignment names a known section
func (c *Config) Validate() error {
	if c.DefaultSection == "" {
		c.DefaultSection = lbfactory.DefaultCluster
	}
	if len(c.SectionLoads) == 0 {
		return errors.New("section loads should not be empty")
	}
	if _, ok := c.SectionLoads[c.DefaultSection]; !ok {
		return errors.Errorf("default section %q has no servers", string(c.DefaultSection))
	}
	for section, loads := range c.SectionLoads {
		if len(loads) == 0 {
			return errors.Errorf("section %q has no servers", string(section))
		}
		for _, l := range loads {
			if l.Name == "" {
				return errors.Errorf("section %q lists a server without a name", string(section))
			}
			if l.Weight < 0 {
				return errors.Errorf("server %q in section %q has negative weight %d", l.Name, string(section), l.Weight)
			}
		}
	}
	for db, section := range c.SectionsByDB {
		if _, ok := c.SectionLoads[section]; !ok {
			return errors.Errorf("database %q is assigned to unknown section %q", string(db), string(section))
		}
	}
	return nil
}
