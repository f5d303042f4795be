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

package redis

import (
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/metrics"
)

// NewRedigoClient returns a redigo implementation of SimpleRedis
func NewRedigoClient(config ServerConfig, scope metrics.Scope) SimpleRedis {
	config = config.WithDefaults()
	c := &simpleRedis{config: config, stats: metrics.CheckIfNilStats(scope)}
	c.pool = &redis.Pool{
		MaxActive:   config.MaxActive,
		MaxIdle:     config.MaxIdle,
		IdleTimeout: config.IdleTimeout,
		Dial: func() (redis.Conn, error) {
			return redis.Dial(
				"tcp",
				c.getURL(),
				redis.DialConnectTimeout(config.ConnectTimeout),
				redis.DialReadTimeout(config.ReadTimeout),
				redis.DialWriteTimeout(config.WriteTimeout))
		},
		Wait: false,
	}
	return c
}

type simpleRedis struct {
	config ServerConfig
	pool   *redis.Pool
	stats  metrics.Scope
}

func (c *simpleRedis) getURL() string {
	return fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
}

// Get returns an ErrNotFound if the key does not exist
func (c *simpleRedis) Get(key string) ([]byte, error) {
	bytes, err := redis.Bytes(c.do("GET", key))
	if err == redis.ErrNil {
		err = &lbfactory.ErrNotFound{}
	}
	return bytes, err
}

func (c *simpleRedis) Set(key string, value []byte) error {
	_, err := c.do("SET", key, value)
	return err
}

func (c *simpleRedis) Del(key string) error {
	_, err := c.do("DEL", key)
	return err
}

// Shutdown closes the underlying connection pool to redis
func (c *simpleRedis) Shutdown() error {
	return c.pool.Close()
}

// do runs a command on a pooled connection and gives the connection back
func (c *simpleRedis) do(commandName string, args ...interface{}) (interface{}, error) {
	t := c.stats.SubScope("redis").SubScope("latency").Timer(commandName)
	start := time.Now()
	defer func() { t.Record(time.Since(start)) }()

	conn := c.pool.Get()
	defer func() { _ = conn.Close() }()
	return conn.Do(commandName, args...)
}
