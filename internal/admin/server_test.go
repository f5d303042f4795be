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

package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/multi"
	"github.com/uber-go/lbfactory/registries/memory"
)

func newTestFacade(t *testing.T) *lbfactory.Facade {
	base, err := multi.NewFactory(multi.Config{
		SectionsByDB: map[lbfactory.DatabaseName]lbfactory.ClusterID{"enwiki": "s1"},
		SectionLoads: map[lbfactory.ClusterID][]multi.ServerLoad{
			lbfactory.DefaultCluster: {{Name: "db1"}},
			"s1":                     {{Name: "db3"}},
			"cluster2":               {{Name: "db4"}, {Name: "db5", Weight: 1}},
		},
	})
	require.NoError(t, err)
	reg := memory.NewRegistry(map[lbfactory.DatabaseName]lbfactory.ClusterID{"wikidb_x": "cluster2"})
	f, err := lbfactory.NewFacade(base, reg)
	require.NoError(t, err)
	return f
}

func get(t *testing.T, h http.Handler, path string, out interface{}) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	h := NewServer(newTestFacade(t), "", nil).Handler()
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, h, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSection(t *testing.T) {
	h := NewServer(newTestFacade(t), "", nil).Handler()

	var resp SectionResponse
	assert.Equal(t, http.StatusOK, get(t, h, "/sections/wikidb_x", &resp))
	assert.Equal(t, "wikidb_x", resp.Database)
	assert.Equal(t, "cluster2", resp.Section)
	assert.Equal(t, "registry", resp.Source)
	assert.True(t, resp.Resolved)
	assert.Equal(t, "db4", resp.Primary)
	assert.Equal(t, []string{"db4", "db5"}, resp.Servers)

	resp = SectionResponse{}
	assert.Equal(t, http.StatusOK, get(t, h, "/sections/wikidb_y", &resp))
	assert.Equal(t, "DEFAULT", resp.Section)
	assert.False(t, resp.Resolved)
	assert.Contains(t, resp.Error, "no section assigned")

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/sections/a-b-c-d", &errBody))
	assert.Contains(t, errBody["error"], "does not name a database")
}

func TestSectionsAndCache(t *testing.T) {
	f := newTestFacade(t)
	h := NewServer(f, "", nil).Handler()

	var cache CacheResponse
	assert.Equal(t, http.StatusOK, get(t, h, "/cache", &cache))
	assert.Equal(t, 0, cache.Size)

	get(t, h, "/sections/wikidb_x", nil)

	assert.Equal(t, http.StatusOK, get(t, h, "/cache", &cache))
	assert.Equal(t, 1, cache.Size)
	assert.Equal(t, "cluster2", cache.Entries["wikidb_x"])

	var table map[string]string
	assert.Equal(t, http.StatusOK, get(t, h, "/sections", &table))
	assert.Equal(t, map[string]string{"enwiki": "s1", "wikidb_x": "cluster2"}, table)
}

func TestStartStop(t *testing.T) {
	s := NewServer(newTestFacade(t), "127.0.0.1:0", nil)
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, s.Stop())
	assert.NoError(t, NewServer(nil, "", nil).Stop())
}
