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

package lbfactory

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LookupStatus is the outcome of a registry lookup
type LookupStatus int

const (
	// LookupFound means the registry returned a section
	LookupFound LookupStatus = iota + 1

	// LookupNotFound means the registry has no section for the database
	LookupNotFound

	// LookupFailed means the registry could not be asked or answered nonsense
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LookupResult holds either a section or the reason there is none.
// Err is set whenever Status is not LookupFound.
type LookupResult struct {
	Status  LookupStatus
	Cluster ClusterID
	Err     error
}

// Found returns a successful lookup result
func Found(cluster ClusterID) LookupResult {
	return LookupResult{Status: LookupFound, Cluster: cluster}
}

// NotFound returns a lookup result for a database the registry does not know
func NotFound(db DatabaseName) LookupResult {
	return LookupResult{Status: LookupNotFound, Err: &ErrNotFound{Database: db}}
}

// Failed returns a lookup result for a registry that could not answer
func Failed(db DatabaseName, err error) LookupResult {
	return LookupResult{Status: LookupFailed, Err: NewErrLookupTransport(db, err)}
}

// ResultFromError classifies err into a lookup result. ErrNotFound
// (possibly wrapped) becomes LookupNotFound, anything else LookupFailed.
func ResultFromError(db DatabaseName, err error) LookupResult {
	if ErrorIsNotFound(err) {
		return LookupResult{Status: LookupNotFound, Err: err}
	}
	if ErrorIsTransport(err) {
		return LookupResult{Status: LookupFailed, Err: err}
	}
	return Failed(db, err)
}

// Registry is the external authority recording which section hosts a database
type Registry interface {
	// Lookup returns the section assigned to db. It must honour ctx deadlines.
	Lookup(ctx context.Context, db DatabaseName) LookupResult

	// Shutdown releases connections held by the registry
	Shutdown() error
}

// Assigner is implemented by registries that can record the section of a
// database
type Assigner interface {
	Assign(ctx context.Context, db DatabaseName, cluster ClusterID) error
}

// RegistryCreationFunc creates an instance of a registered registry
type RegistryCreationFunc func(opts map[string]interface{}) (Registry, error)

var registeredRegistries map[string]RegistryCreationFunc

func init() {
	registeredRegistries = map[string]RegistryCreationFunc{}
}

// RegisterRegistry registers a registry implementation given a name
func RegisterRegistry(name string, creationFunc RegistryCreationFunc) {
	registeredRegistries[name] = creationFunc
}

// GetRegistry creates a registry by name, along with some options
func GetRegistry(name string, opts map[string]interface{}) (Registry, error) {
	if creationFunc, ok := registeredRegistries[name]; ok {
		return creationFunc(opts)
	}
	return nil, errors.Errorf("No such registry %q", name)
}

// RegisteredRegistries returns the sorted names of all registered registries
func RegisteredRegistries() []string {
	names := make([]string, 0, len(registeredRegistries))
	for name := range registeredRegistries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeOptions fills out, a yaml-tagged struct, from the options a registry
// was created with
func DecodeOptions(opts map[string]interface{}, out interface{}) error {
	if len(opts) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(opts)
	if err != nil {
		return errors.Wrap(err, "could not encode registry options")
	}
	return errors.Wrap(yaml.UnmarshalStrict(raw, out), "invalid registry options")
}
