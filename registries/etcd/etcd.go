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

// Package etcd looks up database sections stored in etcd, one key per
// database under a common root:
//
//	/lbfactory/sections/<database> = <section>
package etcd

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// DefaultRoot is the key prefix sections are stored under
const DefaultRoot = "/lbfactory/sections"

// Config holds the settings for an etcd Registry
type Config struct {
	Endpoints   []string      `yaml:"endpoints"`
	Root        string        `yaml:"root"`
	DialTimeout time.Duration `yaml:"dialTimeout"`
}

// Registry reads sections from etcd
type Registry struct {
	client *clientv3.Client
	kv     clientv3.KV
	root   string
}

// NewRegistry connects to the etcd cluster in cfg
func NewRegistry(cfg Config) (*Registry, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, errors.New("no etcd endpoints configured")
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create etcd client")
	}
	r := NewRegistryWithKV(c, cfg.Root)
	r.client = c
	return r, nil
}

// NewRegistryWithKV returns a Registry reading through kv
func NewRegistryWithKV(kv clientv3.KV, root string) *Registry {
	if root == "" {
		root = DefaultRoot
	}
	return &Registry{kv: kv, root: root}
}

// Key returns the etcd key holding the section of db
func (r *Registry) Key(db lbfactory.DatabaseName) string {
	return path.Join(r.root, string(db))
}

// Lookup reads the section of db
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	resp, err := r.kv.Get(ctx, r.Key(db))
	if err != nil {
		return lbfactory.Failed(db, errors.Wrap(err, "etcd get failed"))
	}
	if len(resp.Kvs) == 0 {
		return lbfactory.NotFound(db)
	}
	cluster := strings.TrimSpace(string(resp.Kvs[0].Value))
	if cluster == "" {
		return lbfactory.Failed(db, errors.Errorf("empty section stored under %q", r.Key(db)))
	}
	return lbfactory.Found(lbfactory.ClusterID(cluster))
}

// Assign stores the section of db
func (r *Registry) Assign(ctx context.Context, db lbfactory.DatabaseName, cluster lbfactory.ClusterID) error {
	_, err := r.kv.Put(ctx, r.Key(db), string(cluster))
	return errors.Wrapf(err, "could not assign %q to %q", string(db), string(cluster))
}

// Unassign deletes the section of db
func (r *Registry) Unassign(ctx context.Context, db lbfactory.DatabaseName) error {
	_, err := r.kv.Delete(ctx, r.Key(db))
	return errors.Wrapf(err, "could not unassign %q", string(db))
}

// Shutdown closes the etcd client
func (r *Registry) Shutdown() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func init() {
	lbfactory.RegisterRegistry("etcd", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		cfg := Config{Endpoints: []string{"localhost:2379"}}
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		return NewRegistry(cfg)
	})
}
