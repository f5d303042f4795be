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

// Package lbfactory resolves the section (backend cluster) of tenant databases
// that are missing from a load balancer's static section map.
//
// Overview
//
// A multi-section load balancer routes every database to the section named in
// its section table, or to the default section when the database is unknown.
// New databases created at runtime are not in that table. lbfactory wraps the
// balancer factory with a Facade which, before every routing decision:
//
// • checks the live section table, and stops there if the database is known
//
// • checks a process-wide ResolutionCache of earlier registry answers
//
// • asks a Registry (redis, etcd, zookeeper, kubernetes, yarpc or memory)
//
// A found section is cached for the life of the process and injected into the
// balancer's own section table, so later lookups never reach the registry.
// Failures are logged and the request is routed to the default section.
//
// Registries
//
// Registries register themselves by name from their package init, so a binary
// chooses the ones it supports with blank imports and selects one at runtime
// with GetRegistry.
//
package lbfactory
