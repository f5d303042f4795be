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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uber-go/lbfactory/internal/admin"
	"github.com/uber-go/lbfactory/metrics"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

// ServeCmd runs the admin API
type ServeCmd struct {
	Addr string `long:"addr" description:"Overrides the admin listen address of the config file."`
}

// waitForShutdown blocks until the process is asked to stop; tests replace it
var waitForShutdown = func(addr string) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	signal.Stop(ch)
}

// Execute serves until interrupted
func (c *ServeCmd) Execute(args []string) error {
	scope, closer := tally.NewRootScope(tally.ScopeOptions{Prefix: "lbfactory"}, time.Second)
	defer func() { _ = closer.Close() }()

	env, err := newEnvironment(options, metrics.NewTallyScope(scope))
	if err != nil {
		return err
	}
	defer env.close()
	logger := env.logger

	addr := env.cfg.Admin.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	server := admin.NewServer(env.facade, addr, logger)
	if err := server.Start(); err != nil {
		return err
	}

	waitForShutdown(server.Addr())
	logger.Info("shutting down admin server", zap.String("addr", server.Addr()))
	return server.Stop()
}
