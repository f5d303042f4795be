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

// Package yarpc asks a remote wiki directory service for database sections
// over YARPC with JSON encoding.
package yarpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	rpc "go.uber.org/yarpc"
	"go.uber.org/yarpc/api/transport"
	"go.uber.org/yarpc/encoding/json"
	"go.uber.org/yarpc/transport/http"
	"go.uber.org/yarpc/transport/tchannel"
	"go.uber.org/yarpc/yarpcerrors"
)

// LookupProcedure is the procedure answering section lookups
const LookupProcedure = "ConfigCentre::lookupWiki"

// Config contains the YARPC client parameters
type Config struct {
	Transport   string `yaml:"transport"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	CallerName  string `yaml:"callerName"`
	ServiceName string `yaml:"serviceName"`
}

// LookupRequest asks for the wiki stored in a database
type LookupRequest struct {
	Database string `json:"database"`
}

// Wiki is the part of a wiki record the registry cares about
type Wiki struct {
	Database string `json:"database"`
	Cluster  string `json:"cluster"`
}

// LookupResponse carries the wiki, or nil when there is none
type LookupResponse struct {
	Wiki *Wiki `json:"wiki"`
}

// Registry is a YARPC client of the wiki directory
type Registry struct {
	client     json.Client
	dispatcher *rpc.Dispatcher
}

// NewRegistryWithTransport creates a registry over a caller provided transport
func NewRegistryWithTransport(configProvider transport.ClientConfigProvider, serviceName string) *Registry {
	return &Registry{client: json.New(configProvider.ClientConfig(serviceName))}
}

// NewRegistry starts a dispatcher with a single outbound to the directory
func NewRegistry(cfg *Config) (*Registry, error) {
	ycfg := rpc.Config{Name: cfg.CallerName}

	// host and port are required
	if cfg.Host == "" {
		return nil, errors.New("invalid host")
	}
	if cfg.Port == "" {
		return nil, errors.New("invalid port")
	}
	if cfg.ServiceName == "" {
		return nil, errors.New("invalid service name")
	}
	hostPort := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	switch cfg.Transport {
	case "", "http":
		ts := http.NewTransport()
		ycfg.Outbounds = rpc.Outbounds{
			cfg.ServiceName: {
				Unary: ts.NewSingleOutbound("http://" + hostPort),
			},
		}
	case "tchannel":
		ts, err := tchannel.NewChannelTransport(tchannel.ServiceName(cfg.CallerName))
		if err != nil {
			return nil, err
		}
		ycfg.Outbounds = rpc.Outbounds{
			cfg.ServiceName: {
				Unary: ts.NewSingleOutbound(hostPort),
			},
		}
	default:
		return nil, errors.Errorf("invalid transport %q (http or tchannel)", cfg.Transport)
	}

	// NewDispatcher panics on invalid names, e.g. a caller name with spaces
	dispatcher := rpc.NewDispatcher(ycfg)
	if err := dispatcher.Start(); err != nil {
		return nil, errors.Wrap(err, "could not start yarpc dispatcher")
	}

	r := NewRegistryWithTransport(dispatcher, cfg.ServiceName)
	r.dispatcher = dispatcher
	return r, nil
}

// Lookup asks the directory for the wiki stored in db
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	var resp LookupResponse
	err := r.client.Call(ctx, LookupProcedure, &LookupRequest{Database: string(db)}, &resp)
	if err != nil {
		if yarpcerrors.FromError(err).Code() == yarpcerrors.CodeNotFound {
			return lbfactory.NotFound(db)
		}
		return lbfactory.Failed(db, errors.Wrap(err, "failed to look up wiki in yarpc registry"))
	}
	if resp.Wiki == nil {
		return lbfactory.NotFound(db)
	}
	cluster := strings.TrimSpace(resp.Wiki.Cluster)
	if cluster == "" {
		return lbfactory.Failed(db, errors.Errorf("wiki %q has no cluster", string(db)))
	}
	return lbfactory.Found(lbfactory.ClusterID(cluster))
}

// Shutdown stops the dispatcher if the registry started one
func (r *Registry) Shutdown() error {
	if r.dispatcher == nil {
		return nil
	}
	return r.dispatcher.Stop()
}

func init() {
	lbfactory.RegisterRegistry("yarpc", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		cfg := Config{Transport: "http", CallerName: "lbfactory", ServiceName: "configcentre"}
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		return NewRegistry(&cfg)
	})
}
