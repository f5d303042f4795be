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

package main

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/config"
	"github.com/uber-go/lbfactory/metrics"
	"github.com/uber-go/lbfactory/multi"
	"go.uber.org/zap"
)

type timeFlag time.Duration

func (t *timeFlag) setDuration(d time.Duration) {
	*t = timeFlag(d)
}

// Duration returns the flag value as a time.Duration
func (t timeFlag) Duration() time.Duration {
	return time.Duration(t)
}

// UnmarshalFlag satisfies the flag interface
func (t *timeFlag) UnmarshalFlag(value string) error {
	valueInt, err := strconv.Atoi(value)
	if err == nil {
		// We received a number without a unit, assume milliseconds.
		t.setDuration(time.Duration(valueInt) * time.Millisecond)
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}

	t.setDuration(d)
	return nil
}

func newLogger(opts GlobalOptions) (*zap.Logger, error) {
	if opts.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(opts GlobalOptions) (*config.Config, error) {
	var overrides []config.Option
	if opts.Registry != "" {
		overrides = append(overrides, config.WithRegistry(opts.Registry, nil))
	}
	if opts.Timeout.Duration() > 0 {
		overrides = append(overrides, config.WithLookupTimeout(opts.Timeout.Duration()))
	}
	cfg, err := config.Load(opts.Config, overrides...)
	if err != nil {
		return nil, errors.Wrap(err, "could not load configuration")
	}
	return cfg, nil
}

// environment is everything a command needs
type environment struct {
	facade *lbfactory.Facade
	base   *multi.Factory
	cfg    *config.Config
	logger *zap.Logger
}

// newEnvironment loads the configuration and builds the facade
func newEnvironment(opts GlobalOptions, scope metrics.Scope) (*environment, error) {
	logger, err := newLogger(opts)
	if err != nil {
		return nil, errors.Wrap(err, "could not create logger")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	facade, base, err := cfg.NewFacade(logger, scope)
	if err != nil {
		return nil, err
	}
	return &environment{facade: facade, base: base, cfg: cfg, logger: logger}, nil
}

func (e *environment) close() {
	_ = e.facade.Shutdown()
	_ = e.logger.Sync()
}
