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

package config_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/config"
	_ "github.com/uber-go/lbfactory/registries/memory"
)

const testYAML = `
localDomain: metawiki
lookupTimeout: 500ms
sectionsByDB:
  enwiki: s1
sectionLoads:
  DEFAULT:
    db1: 0
    db2: 100
  s1:
    db3: 0
  cluster2:
    db4: 0
    db5: 10
registry:
  name: memory
  options:
    sections:
      wikidb_x: cluster2
admin:
  addr: "127.0.0.1:9999"
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "metawiki", cfg.LocalDomain)
	assert.Equal(t, "DEFAULT", cfg.DefaultSection)
	assert.Equal(t, 500*time.Millisecond, cfg.LookupTimeout)
	assert.Equal(t, "memory", cfg.Registry.Name)
	assert.Equal(t, "127.0.0.1:9999", cfg.Admin.Addr)

	fc, err := cfg.FactoryConfig()
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("s1"), fc.SectionsByDB["enwiki"])
	require.Len(t, fc.SectionLoads["DEFAULT"], 2)
	assert.Equal(t, "db1", fc.SectionLoads["DEFAULT"][0].Name)
	assert.Equal(t, 100, fc.SectionLoads["DEFAULT"][1].Weight)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("sectionLoads:\n  DEFAULT:\n    db1: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, lbfactory.DefaultLookupTimeout, cfg.LookupTimeout)
	assert.Equal(t, config.DefaultAdminAddr, cfg.Admin.Addr)

	reg, err := cfg.NewRegistry()
	assert.NoError(t, err)
	assert.Nil(t, reg)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{name: "unknown field", yaml: "sectionLoads:\n  DEFAULT:\n    db1: 0\nbogus: 1\n"},
		{name: "bad weight", yaml: "sectionLoads:\n  DEFAULT:\n    db1: heavy\n"},
		{name: "no default section", yaml: "sectionLoads:\n  s1:\n    db1: 0\n"},
		{name: "unknown section", yaml: "sectionsByDB:\n  enwiki: s9\nsectionLoads:\n  DEFAULT:\n    db1: 0\n"},
		{name: "no servers", yaml: "sectionLoads:\n  DEFAULT: {}\n"},
		{name: "negative timeout", yaml: "lookupTimeout: -1s\nsectionLoads:\n  DEFAULT:\n    db1: 0\n"},
		{name: "bad database", yaml: "sectionsByDB:\n  \"en wiki\": DEFAULT\nsectionLoads:\n  DEFAULT:\n    db1: 0\n"},
		{name: "not yaml", yaml: "{"},
	}
	for _, c := range cases {
		_, err := config.Parse([]byte(c.yaml))
		assert.Error(t, err, c.name)
	}
}

func TestOptions(t *testing.T) {
	cfg, err := config.Parse([]byte(testYAML),
		config.WithLocalDomain("enwiki"),
		config.WithLookupTimeout(time.Second),
		config.WithAdminAddr(":1234"),
		config.WithRegistry("memory", nil))
	require.NoError(t, err)
	assert.Equal(t, "enwiki", cfg.LocalDomain)
	assert.Equal(t, time.Second, cfg.LookupTimeout)
	assert.Equal(t, ":1234", cfg.Admin.Addr)
	assert.Nil(t, cfg.Registry.Options)

	_, err = config.Parse([]byte(testYAML), config.WithRegistry("", nil))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "lbfactory-config")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "sections.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(testYAML), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "metawiki", cfg.LocalDomain)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewFacade(t *testing.T) {
	cfg, err := config.Parse([]byte(testYAML))
	require.NoError(t, err)

	facade, base, err := cfg.NewFacade(nil, nil)
	require.NoError(t, err)
	defer func() { _ = facade.Shutdown() }()

	lb, err := facade.GetMainLB(context.TODO(), "wikidb_x")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), lb.Section())

	section, err := base.SectionFor("wikidb_x")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), section)

	lb, err = facade.GetMainLB(context.TODO(), "")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.DefaultCluster, lb.Section())

	cfg.Registry.Name = "no-such-registry"
	_, _, err = cfg.NewFacade(nil, nil)
	assert.Error(t, err)
}
