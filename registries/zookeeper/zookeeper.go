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

// Package zookeeper looks up database sections stored as znodes, one per
// database under a common root.
package zookeeper

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
)

// DefaultRoot is the znode sections are stored under
const DefaultRoot = "/lbfactory/sections"

// Conn is the part of *zk.Conn the registry uses
type Conn interface {
	Get(path string) ([]byte, *zk.Stat, error)
	Exists(path string) (bool, *zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	Set(path string, data []byte, version int32) (*zk.Stat, error)
	Delete(path string, version int32) error
	Close()
}

// Config holds the settings for a zookeeper Registry
type Config struct {
	Servers        []string      `yaml:"servers"`
	Root           string        `yaml:"root"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
}

// Registry reads sections from zookeeper
type Registry struct {
	conn Conn
	root string
}

// NewRegistry connects to the zookeeper ensemble in cfg
func NewRegistry(cfg Config) (*Registry, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("no zookeeper servers configured")
	}
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = 5 * time.Second
	}
	conn, _, err := zk.Connect(cfg.Servers, cfg.SessionTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "zk connect")
	}
	return NewRegistryWithConn(conn, cfg.Root), nil
}

// NewRegistryWithConn returns a Registry reading through conn
func NewRegistryWithConn(conn Conn, root string) *Registry {
	if root == "" {
		root = DefaultRoot
	}
	return &Registry{conn: conn, root: root}
}

// Path returns the znode holding the section of db
func (r *Registry) Path(db lbfactory.DatabaseName) string {
	return path.Join(r.root, string(db))
}

// Lookup reads the section of db. The zk client has no per-call deadline;
// callers bound the wait with ctx.
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	data, _, err := r.conn.Get(r.Path(db))
	if err == zk.ErrNoNode {
		return lbfactory.NotFound(db)
	}
	if err != nil {
		return lbfactory.Failed(db, errors.Wrap(err, "zk get"))
	}
	cluster := strings.TrimSpace(string(data))
	if cluster == "" {
		return lbfactory.Failed(db, errors.Errorf("empty section stored in %q", r.Path(db)))
	}
	return lbfactory.Found(lbfactory.ClusterID(cluster))
}

// Assign stores the section of db, creating parent znodes as needed
func (r *Registry) Assign(ctx context.Context, db lbfactory.DatabaseName, cluster lbfactory.ClusterID) error {
	if err := r.ensurePath(r.root); err != nil {
		return errors.Wrap(err, "ensure root path")
	}
	p := r.Path(db)
	_, err := r.conn.Create(p, []byte(cluster), 0, zk.WorldACL(zk.PermAll))
	if err == zk.ErrNodeExists {
		_, err = r.conn.Set(p, []byte(cluster), -1)
	}
	return errors.Wrapf(err, "could not assign %q to %q", string(db), string(cluster))
}

// Unassign deletes the znode of db
func (r *Registry) Unassign(db lbfactory.DatabaseName) error {
	err := r.conn.Delete(r.Path(db), -1)
	if err == zk.ErrNoNode {
		return nil
	}
	return errors.Wrapf(err, "could not unassign %q", string(db))
}

// Shutdown closes the zookeeper session
func (r *Registry) Shutdown() error {
	r.conn.Close()
	return nil
}

func (r *Registry) ensurePath(p string) error {
	cur := ""
	for _, part := range strings.Split(p, "/") {
		if part == "" {
			continue
		}
		cur = cur + "/" + part
		exists, _, err := r.conn.Exists(cur)
		if err != nil {
			return err
		}
		if !exists {
			_, err = r.conn.Create(cur, nil, 0, zk.WorldACL(zk.PermAll))
			if err != nil && err != zk.ErrNodeExists {
				return err
			}
		}
	}
	return nil
}

func init() {
	lbfactory.RegisterRegistry("zookeeper", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		cfg := Config{Servers: []string{"localhost:2181"}}
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		return NewRegistry(cfg)
	})
}
