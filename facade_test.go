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

package lbfactory_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/mocks"
	"github.com/uber-go/lbfactory/multi"
)

type stubBalancer struct {
	section lbfactory.ClusterID
}

func (b stubBalancer) Section() lbfactory.ClusterID { return b.section }
func (b stubBalancer) Servers() []string            { return []string{"db1"} }
func (b stubBalancer) PrimaryServer() string        { return "db1" }
func (b stubBalancer) PickReplica(context.Context) (string, error) {
	return "db1", nil
}

// sectionedFactory implements Factory and SectionFactory but keeps its table
// to itself
type sectionedFactory struct {
	*mocks.MockFactory
	*mocks.MockSectionFactory
}

func newMultiFactory(t *testing.T) *multi.Factory {
	f, err := multi.NewFactory(multi.Config{
		LocalDomain:  "metawiki",
		SectionsByDB: map[lbfactory.DatabaseName]lbfactory.ClusterID{"enwiki": "s1"},
		SectionLoads: map[lbfactory.ClusterID][]multi.ServerLoad{
			lbfactory.DefaultCluster: {{Name: "db1"}, {Name: "db2", Weight: 100}},
			"s1":                     {{Name: "db3"}},
			"cluster2":               {{Name: "db4"}, {Name: "db5", Weight: 1}},
		},
	})
	require.NoError(t, err)
	return f
}

func TestNewFacade(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := lbfactory.NewFacade(nil, nil)
	assert.Error(t, err)

	_, err = lbfactory.NewFacade(mocks.NewMockFactory(ctrl), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exposes neither")

	base := newMultiFactory(t)
	f, err := lbfactory.NewFacade(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base.SectionTable(), f.SectionTable())
}

func TestFacadeRoutesResolvedDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_x")).Return(lbfactory.Found("cluster2")).Times(1)
	base := newMultiFactory(t)
	f, err := lbfactory.NewFacade(base, reg)
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "wikidb_x")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), lb.Section())
	assert.Equal(t, "db4", lb.PrimaryServer())

	// the wrapped factory sees the injected section without the facade
	section, err := base.SectionFor("wikidb_x")
	assert.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), section)

	lb, err = f.GetMainLB(ctx, "wikidb_x")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), lb.Section())
}

func TestFacadeUnknownDatabaseUsesDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_y")).Return(lbfactory.NotFound("wikidb_y"))
	logger, logs := newObservedLogger()
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg, lbfactory.WithLogger(logger))
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "wikidb_y")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.DefaultCluster, lb.Section())
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
	_, ok := f.SectionTable().Get("wikidb_y")
	assert.False(t, ok)
}

func TestFacadeRegistryFailureIsHidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(lbfactory.Failed("wikidb_z", errors.New("boom")))
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg)
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "wikidb_z")
	assert.NoError(t, err)
	assert.Equal(t, lbfactory.DefaultCluster, lb.Section())
}

func TestFacadeStaticAndLocalDomain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("metawiki")).Return(lbfactory.Found("s1"))
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg, lbfactory.WithLocalDomain("metawiki"))
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "enwiki-mw")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("s1"), lb.Section())

	lb, err = f.GetMainLB(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("s1"), lb.Section())
}

func TestFacadeInvalidDomain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg)
	require.NoError(t, err)

	_, err = f.GetMainLB(ctx, "a-b-c-d")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too many components")

	_, err = f.Resolve(ctx, "a-b-c-d")
	assert.Error(t, err)
}

func TestFacadeAdapterMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_x")).Return(lbfactory.Found("cluster2")).Times(1)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_y")).Return(lbfactory.NotFound("wikidb_y"))

	main := mocks.NewMockFactory(ctrl)
	sections := mocks.NewMockSectionFactory(ctrl)
	sections.EXPECT().GetSectionLB(gomock.Any(), lbfactory.ClusterID("cluster2")).Return(stubBalancer{section: "cluster2"}, nil).Times(2)
	sections.EXPECT().GetSectionLB(gomock.Any(), lbfactory.ClusterID("s1")).Return(stubBalancer{section: "s1"}, nil)
	main.EXPECT().GetMainLB(gomock.Any(), "wikidb_y").Return(stubBalancer{section: lbfactory.DefaultCluster}, nil)

	f, err := lbfactory.NewFacade(sectionedFactory{main, sections}, reg,
		lbfactory.WithStaticSections(map[lbfactory.DatabaseName]lbfactory.ClusterID{"enwiki": "s1"}))
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "wikidb_x")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), lb.Section())
	lb, err = f.GetMainLB(ctx, "wikidb_x")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("cluster2"), lb.Section())

	lb, err = f.GetMainLB(ctx, "enwiki")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("s1"), lb.Section())

	lb, err = f.GetMainLB(ctx, "wikidb_y")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.DefaultCluster, lb.Section())
}

func TestFacadeReturnsFactoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	main := mocks.NewMockFactory(ctrl)
	sections := mocks.NewMockSectionFactory(ctrl)
	main.EXPECT().GetMainLB(gomock.Any(), "nowiki").Return(nil, errors.New("pool exhausted"))

	f, err := lbfactory.NewFacade(sectionedFactory{main, sections}, nil)
	require.NoError(t, err)
	_, err = f.GetMainLB(ctx, "nowiki")
	assert.EqualError(t, err, "pool exhausted")
}

func TestFacadeResolveAndShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_x")).Return(lbfactory.Found("cluster2"))
	reg.EXPECT().Shutdown().Return(nil)
	cache := lbfactory.NewResolutionCache()
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg, lbfactory.WithCache(cache))
	require.NoError(t, err)

	res, err := f.Resolve(ctx, "wikidb_x-mw")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.SourceRegistry, res.Source)
	assert.Equal(t, lbfactory.DatabaseName("wikidb_x"), res.Database)
	assert.Equal(t, cache, f.Cache())
	assert.Equal(t, 1, cache.Len())

	assert.NoError(t, f.Shutdown())

	noReg, err := lbfactory.NewFacade(newMultiFactory(t), nil)
	require.NoError(t, err)
	assert.NoError(t, noReg.Shutdown())
}

func TestFacadeUnknownSectionUsesDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// not cached, so both requests ask again
	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_q")).Return(lbfactory.Found("cluster9")).Times(2)
	logger, logs := newObservedLogger()
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg, lbfactory.WithLogger(logger))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		lb, err := f.GetMainLB(ctx, "wikidb_q")
		require.NoError(t, err)
		assert.Equal(t, lbfactory.DefaultCluster, lb.Section())
	}
	_, ok := f.Cache().Load("wikidb_q")
	assert.False(t, ok)
	_, ok = f.SectionTable().Get("wikidb_q")
	assert.False(t, ok)
	assert.Equal(t, 2, logs.FilterField(zap.String("kind", "injection")).Len())
}

func TestFacadeAdapterModeMissingSection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("wikidb_q")).Return(lbfactory.Found("cluster9"))
	main := mocks.NewMockFactory(ctrl)
	sections := mocks.NewMockSectionFactory(ctrl)
	sections.EXPECT().GetSectionLB(gomock.Any(), lbfactory.ClusterID("cluster9")).Return(nil, errors.New("no servers"))
	main.EXPECT().GetMainLB(gomock.Any(), "wikidb_q").Return(stubBalancer{section: lbfactory.DefaultCluster}, nil)

	f, err := lbfactory.NewFacade(sectionedFactory{main, sections}, reg)
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "wikidb_q")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.DefaultCluster, lb.Section())
}

func TestFacadeLocalDomainFromFactory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("metawiki")).Return(lbfactory.Found("s1"))
	f, err := lbfactory.NewFacade(newMultiFactory(t), reg)
	require.NoError(t, err)

	lb, err := f.GetMainLB(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.ClusterID("s1"), lb.Section())

	res, err := f.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, lbfactory.SourceShardMap, res.Source)
}
