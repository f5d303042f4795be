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

// Package redis looks up database sections stored as plain redis strings
// under "<prefix>,<database>".
package redis

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/metrics"
	"github.com/uber-go/lbfactory/testutil"
)

const (
	keySeparator = ","

	// RedisPort is the port redis listens on by default
	RedisPort = 6379

	// DefaultMaxActive caps the pool when maxActive is not configured
	DefaultMaxActive = 16
	// DefaultMaxIdle is used when maxIdle is not configured
	DefaultMaxIdle = 4
)

// SimpleRedis is a minimal interface to Redis commands
type SimpleRedis interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Del(key string) error
	Shutdown() error
}

// Config holds the settings for a redis Registry
type Config struct {
	// ServerSettings are the settings specific to redis server
	ServerSettings ServerConfig `yaml:"server"`
	// KeyPrefix is used as the prefix to construct redis keys
	KeyPrefix string `yaml:"keyPrefix"`
}

// ServerConfig holds the settings for redis
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxIdle is the maximum number of idle connections in the pool.
	MaxIdle int `yaml:"maxIdle"`
	// IdleTimeout directs to close connections after remaining idle for this duration.
	// If the value is zero, then idle connections are not closed.
	IdleTimeout time.Duration `yaml:"idleTimeout"`
	// Maximum number of connections allocated by the pool at a given time.
	// When zero, DefaultMaxActive is used.
	MaxActive int `yaml:"maxActive"`

	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
}

// WithDefaults fills unset limits. Dial, read and write timeouts default to
// the resolver's lookup timeout so a stalled server releases its connection
// about when the caller gives up on it.
func (c ServerConfig) WithDefaults() ServerConfig {
	if c.MaxActive <= 0 {
		c.MaxActive = DefaultMaxActive
	}
	if c.MaxIdle <= 0 {
		c.MaxIdle = DefaultMaxIdle
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = lbfactory.DefaultLookupTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = lbfactory.DefaultLookupTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = lbfactory.DefaultLookupTimeout
	}
	return c
}

// Registry reads sections out of redis
type Registry struct {
	client    SimpleRedis
	keyPrefix string
}

// NewRegistry initializes a redis Registry
func NewRegistry(config Config, scope metrics.Scope) *Registry {
	return NewRegistryWithClient(NewRedigoClient(config.ServerSettings, scope), config.KeyPrefix)
}

// NewRegistryWithClient returns a Registry reading through client
func NewRegistryWithClient(client SimpleRedis, keyPrefix string) *Registry {
	return &Registry{client: client, keyPrefix: keyPrefix}
}

// Key returns the redis key holding the section of db
func (r *Registry) Key(db lbfactory.DatabaseName) string {
	if r.keyPrefix == "" {
		return string(db)
	}
	return strings.Join([]string{r.keyPrefix, string(db)}, keySeparator)
}

// Lookup reads the section of db
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	value, err := r.client.Get(r.Key(db))
	if err != nil {
		if lbfactory.ErrorIsNotFound(err) {
			return lbfactory.NotFound(db)
		}
		return lbfactory.Failed(db, errors.Wrap(err, "redis GET failed"))
	}
	cluster := strings.TrimSpace(string(value))
	if cluster == "" {
		return lbfactory.Failed(db, errors.Errorf("empty section stored under %q", r.Key(db)))
	}
	return lbfactory.Found(lbfactory.ClusterID(cluster))
}

// Assign stores the section of db
func (r *Registry) Assign(ctx context.Context, db lbfactory.DatabaseName, cluster lbfactory.ClusterID) error {
	return errors.Wrapf(r.client.Set(r.Key(db), []byte(cluster)), "could not assign %q to %q", string(db), string(cluster))
}

// Shutdown closes the connection pool
func (r *Registry) Shutdown() error {
	return r.client.Shutdown()
}

// IsRunning reports whether a redis server listens on RedisPort locally
func IsRunning() bool {
	return testutil.IsRunningOnPort(RedisPort)
}

func init() {
	lbfactory.RegisterRegistry("redis", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		cfg := Config{ServerSettings: ServerConfig{Host: "localhost", Port: RedisPort}}
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		return NewRegistry(cfg, nil), nil
	})
}
