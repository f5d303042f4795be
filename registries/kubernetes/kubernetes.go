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

// Package kubernetes looks up database sections in a ConfigMap whose data maps
// database names to sections. The ConfigMap is watched with an informer, so
// lookups are served from a local cache that follows edits within seconds.
package kubernetes

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uber-go/lbfactory"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/kubernetes"
	corev1listers "k8s.io/client-go/listers/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/tools/clientcmd"
)

const (
	// DefaultConfigMap is the name of the ConfigMap holding sections
	DefaultConfigMap = "lbfactory-sections"
	// DefaultNamespace is used when none is configured
	DefaultNamespace = "default"
)

// Config holds the settings for a kubernetes Registry
type Config struct {
	// KubeConfig is the path of a kubeconfig file. When empty the in-cluster
	// configuration is used.
	KubeConfig  string        `yaml:"kubeconfig"`
	KubeContext string        `yaml:"context"`
	Namespace   string        `yaml:"namespace"`
	ConfigMap   string        `yaml:"configMap"`
	Resync      time.Duration `yaml:"resync"`
	SyncTimeout time.Duration `yaml:"syncTimeout"`
}

func (c *Config) setDefaults() {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.ConfigMap == "" {
		c.ConfigMap = DefaultConfigMap
	}
	if c.Resync == 0 {
		c.Resync = 10 * time.Minute
	}
	if c.SyncTimeout == 0 {
		c.SyncTimeout = 30 * time.Second
	}
}

// Registry answers lookups from a watched ConfigMap
type Registry struct {
	namespace string
	name      string
	lister    corev1listers.ConfigMapNamespaceLister
	synced    cache.InformerSynced
	factory   informers.SharedInformerFactory
	stopCh    chan struct{}
}

// NewRegistry connects to the cluster described by cfg
func NewRegistry(cfg Config) (*Registry, error) {
	restConfig, err := restConfigFor(cfg)
	if err != nil {
		return nil, err
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kubernetes client")
	}
	return NewRegistryWithClient(clientset, cfg)
}

// NewRegistryWithClient starts watching the configured ConfigMap through client
// and waits for the first list to arrive
func NewRegistryWithClient(client kubernetes.Interface, cfg Config) (*Registry, error) {
	cfg.setDefaults()
	factory := informers.NewSharedInformerFactoryWithOptions(client, cfg.Resync,
		informers.WithNamespace(cfg.Namespace),
		informers.WithTweakListOptions(func(o *metav1.ListOptions) {
			o.FieldSelector = fields.OneTermEqualSelector("metadata.name", cfg.ConfigMap).String()
		}))
	configMaps := factory.Core().V1().ConfigMaps()
	informer := configMaps.Informer()

	r := &Registry{
		namespace: cfg.Namespace,
		name:      cfg.ConfigMap,
		lister:    configMaps.Lister().ConfigMaps(cfg.Namespace),
		synced:    informer.HasSynced,
		factory:   factory,
		stopCh:    make(chan struct{}),
	}
	factory.Start(r.stopCh)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer cancel()
	if !cache.WaitForCacheSync(ctx.Done(), r.synced) {
		_ = r.Shutdown()
		return nil, errors.Errorf("timed out waiting for configmap %s/%s to sync", cfg.Namespace, cfg.ConfigMap)
	}
	return r, nil
}

// Lookup reads the section of db from the cached ConfigMap
func (r *Registry) Lookup(ctx context.Context, db lbfactory.DatabaseName) lbfactory.LookupResult {
	if !r.synced() {
		return lbfactory.Failed(db, errors.New("configmap informer has not synced"))
	}
	cm, err := r.lister.Get(r.name)
	if apierrors.IsNotFound(err) {
		return lbfactory.NotFound(db)
	}
	if err != nil {
		return lbfactory.Failed(db, errors.Wrapf(err, "could not read configmap %s/%s", r.namespace, r.name))
	}
	value, ok := cm.Data[string(db)]
	if !ok {
		return lbfactory.NotFound(db)
	}
	cluster := strings.TrimSpace(value)
	if cluster == "" {
		return lbfactory.Failed(db, errors.Errorf("empty section for %q in configmap %s/%s", string(db), r.namespace, r.name))
	}
	return lbfactory.Found(lbfactory.ClusterID(cluster))
}

// Shutdown stops the informer
func (r *Registry) Shutdown() error {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
		r.factory.Shutdown()
	}
	return nil
}

func restConfigFor(cfg Config) (*rest.Config, error) {
	kubeconfig := cfg.KubeConfig
	if kubeconfig == "" {
		if _, err := rest.InClusterConfig(); err != nil {
			if home := os.Getenv("HOME"); home != "" {
				kubeconfig = home + "/.kube/config"
			}
		}
	}

	if kubeconfig != "" {
		overrides := &clientcmd.ConfigOverrides{CurrentContext: cfg.KubeContext}
		restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
			overrides,
		).ClientConfig()
		if err == nil {
			return restConfig, nil
		}
	}

	restConfig, err := rest.InClusterConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build kubernetes config (tried kubeconfig and in-cluster)")
	}
	return restConfig, nil
}

func init() {
	lbfactory.RegisterRegistry("kubernetes", func(opts map[string]interface{}) (lbfactory.Registry, error) {
		var cfg Config
		if err := lbfactory.DecodeOptions(opts, &cfg); err != nil {
			return nil, err
		}
		return NewRegistry(cfg)
	})
}
