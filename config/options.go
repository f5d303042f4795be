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

package config

import (
	"time"

	"github.com/pkg/errors"
)

// Option overrides a setting of a parsed Config
type Option func(cfg *Config) error

// WithLocalDomain sets the domain used for empty domain lookups
func WithLocalDomain(domain string) Option {
	return func(cfg *Config) error {
		cfg.LocalDomain = domain
		return nil
	}
}

// WithRegistry replaces the configured registry
func WithRegistry(name string, opts map[string]interface{}) Option {
	return func(cfg *Config) error {
		if name == "" {
			return errors.New("registry name should not be empty")
		}
		cfg.Registry = RegistryConfig{Name: name, Options: opts}
		return nil
	}
}

// WithLookupTimeout bounds registry lookups
func WithLookupTimeout(d time.Duration) Option {
	return func(cfg *Config) error {
		cfg.LookupTimeout = d
		return nil
	}
}

// WithAdminAddr sets the listen address of the admin API
func WithAdminAddr(addr string) Option {
	return func(cfg *Config) error {
		cfg.Admin.Addr = addr
		return nil
	}
}
