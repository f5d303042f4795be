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

package multi

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
)

// LoadBalancer spreads reads over the servers of one section by weight.
// Writes always go to the primary.
type LoadBalancer struct {
	section lbfactory.ClusterID
	loads   []ServerLoad
	total   int

	mu  sync.Mutex
	rnd *rand.Rand
}

func newLoadBalancer(section lbfactory.ClusterID, loads []ServerLoad, seed int64) *LoadBalancer {
	total := 0
	for _, l := range loads {
		total += l.Weight
	}
	cp := make([]ServerLoad, len(loads))
	copy(cp, loads)
	return &LoadBalancer{
		section: section,
		loads:   cp,
		total:   total,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

// Section returns the section this balancer serves
func (lb *LoadBalancer) Section() lbfactory.ClusterID {
	return lb.section
}

// Servers returns the server names, primary first
func (lb *LoadBalancer) Servers() []string {
	names := make([]string, len(lb.loads))
	for i, l := range lb.loads {
		names[i] = l.Name
	}
	return names
}

// PrimaryServer returns the server accepting writes
func (lb *LoadBalancer) PrimaryServer() string {
	return lb.loads[0].Name
}

// PickReplica chooses a read server at random, proportionally to weight.
// With no weighted servers the primary takes all reads.
func (lb *LoadBalancer) PickReplica(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "could not pick a replica")
	}
	if lb.total == 0 {
		return lb.PrimaryServer(), nil
	}

	lb.mu.Lock()
	r := lb.rnd.Intn(lb.total)
	lb.mu.Unlock()

	for _, l := range lb.loads {
		r -= l.Weight
		if r < 0 {
			return l.Name, nil
		}
	}
	return "", errors.Errorf("unexpected error in weighted selection for section %q", string(lb.section))
}
