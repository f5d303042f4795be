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

package base

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/uber-go/lbfactory"
	"github.com/uber-go/lbfactory/mocks"
)

func TestForwardsToNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := mocks.NewMockRegistry(ctrl)
	next.EXPECT().Lookup(gomock.Any(), lbfactory.DatabaseName("enwiki")).Return(lbfactory.Found("s1"))
	next.EXPECT().Shutdown().Return(errors.New("already closed"))

	r := NewRegistry(next)
	assert.Equal(t, lbfactory.Found("s1"), r.Lookup(context.TODO(), "enwiki"))
	assert.EqualError(t, r.Shutdown(), "already closed")
}

func TestNoNext(t *testing.T) {
	r := NewRegistry(nil)
	res := r.Lookup(context.TODO(), "enwiki")
	assert.True(t, lbfactory.ErrorIsTransport(res.Err))
	assert.Equal(t, ErrNoNext, errors.Cause(res.Err.(*lbfactory.ErrLookupTransport).Err))
	assert.NoError(t, r.Shutdown())
}
