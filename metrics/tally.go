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

package metrics

import (
	"time"

	"github.com/uber-go/tally"
)

// NewTallyScope adapts a tally scope
func NewTallyScope(scope tally.Scope) Scope {
	if scope == nil {
		return &NoopScope{}
	}
	return &tallyScope{scope: scope}
}

type tallyScope struct {
	scope tally.Scope
}

func (s *tallyScope) Counter(name string) Counter {
	return s.scope.Counter(name)
}

func (s *tallyScope) Gauge(name string) Gauge {
	return s.scope.Gauge(name)
}

func (s *tallyScope) Tagged(tags map[string]string) Scope {
	return &tallyScope{scope: s.scope.Tagged(tags)}
}

func (s *tallyScope) SubScope(name string) Scope {
	return &tallyScope{scope: s.scope.SubScope(name)}
}

func (s *tallyScope) Timer(name string) Timer {
	return tallyTimer{timer: s.scope.Timer(name)}
}

type tallyTimer struct {
	timer tally.Timer
}

func (t tallyTimer) Record(d time.Duration) {
	t.timer.Record(d)
}
