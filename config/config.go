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

// Package config reads the YAML file describing sections, their servers and
// the registry consulted for databases missing from the static assignment.
package config

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/metrics"
	"github.com/uber-go/lbfactory/multi"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// DefaultAdminAddr is where the admin API listens unless configured otherwise
const DefaultAdminAddr = ":8090"

// Config represents the settings of a section-aware load balancer factory
type Config struct {
	LocalDomain    string            `yaml:"localDomain"`
	DefaultSection string            `yaml:"defaultSection"`
	LookupTimeout  time.Duration     `yaml:"lookupTimeout"`
	SectionsByDB   map[string]string `yaml:"sectionsByDB"`

	// SectionLoads maps each section to its servers and their read weights.
	// Order matters: the first server of a section is its primary.
	SectionLoads map[string]yaml.MapSlice `yaml:"sectionLoads"`
	Registry     RegistryConfig           `yaml:"registry"`
	Admin        AdminConfig              `yaml:"admin"`
}

// RegistryConfig names a registered registry and the options it is created with
type RegistryConfig struct {
	Name    string                 `yaml:"name"`
	Options map[string]interface{} `yaml:"options"`
}

// AdminConfig holds the settings of the admin API
type AdminConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads and validates the config file at path
func Load(path string, opts ...Option) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %q", path)
	}
	return Parse(data, opts...)
}

// Parse decodes and validates a YAML config. Options are applied after
// decoding, so they take precedence over the file.
func Parse(data []byte, opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills in defaults and checks the config is usable
func (c *Config) Validate() error {
	if c.DefaultSection == "" {
		c.DefaultSection = string(lbfactory.DefaultCluster)
	}
	if c.LookupTimeout < 0 {
		return errors.Errorf("lookupTimeout must not be negative, got %v", c.LookupTimeout)
	}
	if c.LookupTimeout == 0 {
		c.LookupTimeout = lbfactory.DefaultLookupTimeout
	}
	if c.Admin.Addr == "" {
		c.Admin.Addr = DefaultAdminAddr
	}
	for db := range c.SectionsByDB {
		if err := lbfactory.IsValidDatabaseName(db); err != nil {
			return errors.Wrapf(err, "invalid database name in sectionsByDB")
		}
	}
	fc, err := c.FactoryConfig()
	if err != nil {
		return err
	}
	return errors.Wrap(fc.Validate(), "invalid section configuration")
}

// FactoryConfig converts the section layout for the multi factory
func (c *Config) FactoryConfig() (multi.Config, error) {
	fc := multi.Config{
		LocalDomain:    c.LocalDomain,
		DefaultSection: lbfactory.ClusterID(c.DefaultSection),
		SectionsByDB:   make(map[lbfactory.DatabaseName]lbfactory.ClusterID, len(c.SectionsByDB)),
		SectionLoads:   make(map[lbfactory.ClusterID][]multi.ServerLoad, len(c.SectionLoads)),
	}
	for db, section := range c.SectionsByDB {
		fc.SectionsByDB[lbfactory.DatabaseName(db)] = lbfactory.ClusterID(section)
	}
	for section, servers := range c.SectionLoads {
		loads := make([]multi.ServerLoad, 0, len(servers))
		for _, item := range servers {
			weight, ok := item.Value.(int)
			if !ok {
				return multi.Config{}, errors.Errorf("weight of server %v in section %q should be an integer, got %v", item.Key, section, item.Value)
			}
			loads = append(loads, multi.ServerLoad{Name: fmt.Sprint(item.Key), Weight: weight})
		}
		fc.SectionLoads[lbfactory.ClusterID(section)] = loads
	}
	return fc, nil
}

// NewRegistry creates the configured registry. It returns nil when none is
// configured, which makes every database outside sectionsByDB use the
// default section.
func (c *Config) NewRegistry() (lbfactory.Registry, error) {
	if c.Registry.Name == "" {
		return nil, nil
	}
	reg, err := lbfactory.GetRegistry(c.Registry.Name, c.Registry.Options)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create registry %q", c.Registry.Name)
	}
	return reg, nil
}

// NewFacade builds the multi factory and wraps it in a resolving Facade
func (c *Config) NewFacade(logger *zap.Logger, scope metrics.Scope) (*lbfactory.Facade, *multi.Factory, error) {
	fc, err := c.FactoryConfig()
	if err != nil {
		return nil, nil, err
	}
	base, err := multi.NewFactory(fc)
	if err != nil {
		return nil, nil, err
	}
	reg, err := c.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	facade, err := lbfactory.NewFacade(base, reg,
		lbfactory.WithLogger(logger),
		lbfactory.WithMetrics(scope),
		lbfactory.WithLookupTimeout(c.LookupTimeout),
		lbfactory.WithLocalDomain(c.LocalDomain))
	if err != nil {
		if reg != nil {
			_ = reg.Shutdown()
		}
		return nil, nil, err
	}
	return facade, base, nil
}
