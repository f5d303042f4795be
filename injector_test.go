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
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/mocks"
)

func TestInjectorInject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	table := mocks.NewMockShardMap(ctrl)
	gomock.InOrder(
		table.EXPECT().Get(lbfactory.DatabaseName("enwiki")).Return(lbfactory.ClusterID(""), false),
		table.EXPECT().Set(lbfactory.DatabaseName("enwiki"), lbfactory.ClusterID("s1")).Return(nil),
	)
	assert.NoError(t, lbfactory.NewInjector(table).Inject("enwiki", "s1"))
}

func TestInjectorSkipsSameValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	table := mocks.NewMockShardMap(ctrl)
	table.EXPECT().Get(lbfactory.DatabaseName("enwiki")).Return(lbfactory.ClusterID("s1"), true)
	assert.NoError(t, lbfactory.NewInjector(table).Inject("enwiki", "s1"))
}

func TestInjectorErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	table := mocks.NewMockShardMap(ctrl)
	inj := lbfactory.NewInjector(table)
	assert.Error(t, inj.Inject("enwiki", ""))

	table.EXPECT().Get(gomock.Any()).Return(lbfactory.ClusterID(""), false)
	table.EXPECT().Set(gomock.Any(), gomock.Any()).Return(&lbfactory.ErrInjectionRejected{Database: "enwiki", Reason: "closed"})
	err := inj.Inject("enwiki", "s1")
	assert.True(t, lbfactory.ErrorIsInjectionRejected(err))
	assert.Contains(t, err.Error(), "could not inject section")

	table.EXPECT().Get(gomock.Any()).Return(lbfactory.ClusterID(""), false)
	table.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("read only"))
	assert.False(t, lbfactory.ErrorIsInjectionRejected(inj.Inject("enwiki", "s1")))
}
