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

// Package admin serves a small read-only HTTP API for inspecting how
// databases are routed.
package admin

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	"go.uber.org/zap"
)

const (
	contentTypeJSON        = "application/json"
	defaultShutdownTimeout = 5 * time.Second
)

// Facade is what the admin API inspects
type Facade interface {
	GetMainLB(ctx context.Context, domain string) (lbfactory.Balancer, error)
	Resolve(ctx context.Context, domain string) (lbfactory.Resolution, error)
	SectionTable() lbfactory.ShardMap
	Cache() *lbfactory.ResolutionCache
}

type snapshotter interface {
	Snapshot() map[lbfactory.DatabaseName]lbfactory.ClusterID
}

// Server is the admin HTTP server
type Server struct {
	facade     Facade
	logger     *zap.Logger
	addr       string
	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a server that will listen on addr
func NewServer(facade Facade, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{facade: facade, addr: addr, logger: logger}
}

// Handler builds the chi router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/sections", s.handleSections)
	r.Get("/sections/{domain}", s.handleSection)
	r.Get("/cache", s.handleCache)
	return r
}

// Start listens and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("admin server error", zap.Error(err))
		}
	}()
	s.logger.Info("admin server started", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the address the server listens on once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	return errors.Wrap(s.httpServer.Shutdown(ctx), "failed to shutdown admin server")
}

// SectionResponse describes how a domain is routed
type SectionResponse struct {
	Domain   string   `json:"domain"`
	Database string   `json:"database"`
	Section  string   `json:"section"`
	Source   string   `json:"source"`
	Resolved bool     `json:"resolved"`
	Error    string   `json:"error,omitempty"`
	Primary  string   `json:"primary"`
	Servers  []string `json:"servers"`
}

// CacheResponse lists the resolution cache
type CacheResponse struct {
	Size    int               `json:"size"`
	Entries map[string]string `json:"entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	res, err := s.facade.Resolve(r.Context(), domain)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	lb, err := s.facade.GetMainLB(r.Context(), domain)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := SectionResponse{
		Domain:   domain,
		Database: string(res.Database),
		Section:  string(lb.Section()),
		Source:   string(res.Source),
		Resolved: res.Resolved(),
		Primary:  lb.PrimaryServer(),
		Servers:  lb.Servers(),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	table, ok := s.facade.SectionTable().(snapshotter)
	if !ok {
		s.writeError(w, http.StatusNotImplemented, errors.New("section table cannot be listed"))
		return
	}
	s.writeJSON(w, http.StatusOK, stringMap(table.Snapshot()))
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	snap := s.facade.Cache().Snapshot()
	s.writeJSON(w, http.StatusOK, CacheResponse{Size: len(snap), Entries: stringMap(snap)})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("could not write admin response", zap.Error(err))
	}
}

func stringMap(in map[lbfactory.DatabaseName]lbfactory.ClusterID) map[string]string {
	out := make(map[string]string, len(in))
	for db, cluster := range in {
		out[string(db)] = string(cluster)
	}
	return out
}
