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

package kubernetes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/uber-go/lbfactory"
)

func sectionsConfigMap(data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: DefaultConfigMap, Namespace: "wikis"},
		Data:       data,
	}
}

func TestLookup(t *testing.T) {
	client := fake.NewSimpleClientset(sectionsConfigMap(map[string]string{
		"wikidb_x": "cluster2",
		"blank":    " ",
	}))
	r, err := NewRegistryWithClient(client, Config{Namespace: "wikis", SyncTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer func() { _ = r.Shutdown() }()
	ctx := context.TODO()

	assert.Equal(t, lbfactory.Found("cluster2"), r.Lookup(ctx, "wikidb_x"))
	assert.Equal(t, lbfactory.LookupNotFound, r.Lookup(ctx, "wikidb_y").Status)
	assert.Equal(t, lbfactory.LookupFailed, r.Lookup(ctx, "blank").Status)
}

func TestLookupFollowsUpdates(t *testing.T) {
	client := fake.NewSimpleClientset(sectionsConfigMap(map[string]string{}))
	r, err := NewRegistryWithClient(client, Config{Namespace: "wikis", SyncTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer func() { _ = r.Shutdown() }()
	ctx := context.TODO()

	assert.Equal(t, lbfactory.LookupNotFound, r.Lookup(ctx, "wikidb_x").Status)

	_, err = client.CoreV1().ConfigMaps("wikis").Update(ctx, sectionsConfigMap(map[string]string{"wikidb_x": "cluster2"}), metav1.UpdateOptions{})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return r.Lookup(ctx, "wikidb_x").Status == lbfactory.LookupFound
	}, 5*time.Second, 20*time.Millisecond)
}

func TestMissingConfigMap(t *testing.T) {
	client := fake.NewSimpleClientset()
	r, err := NewRegistryWithClient(client, Config{Namespace: "wikis", SyncTimeout: 5 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, lbfactory.LookupNotFound, r.Lookup(context.TODO(), "wikidb_x").Status)
	assert.NoError(t, r.Shutdown())
	assert.NoError(t, r.Shutdown())
}
