// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metastore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const defaultNamespace = "/kafquery/metastore"

// EtcdConfig defines how we connect to etcd for offset window metadata.
type EtcdConfig struct {
	Endpoints []string
	Username  string
	Password  string
	// Namespace is the key prefix all window records live under.
	Namespace string
	// Index is the logical namespace inside the store selected by the
	// connector configuration.
	Index          string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// WindowCacheSize bounds the decoded-window cache, counted in member
	// records. Zero disables caching.
	WindowCacheSize int
}

// EtcdClient reads offset windows from etcd. Window tags are stored as keys
// under "<namespace>/<index>/windows/" so an ascending range read returns
// them in the store's key order.
type EtcdClient struct {
	client  *clientv3.Client
	prefix  string
	timeout time.Duration
	cache   *WindowCache
}

// NewEtcdClient connects to etcd and returns a window reader for the
// configured index.
func NewEtcdClient(cfg EtcdConfig) (*EtcdClient, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, errors.New("etcd endpoints required")
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 3 * time.Second
	}
	namespace := strings.TrimSuffix(cfg.Namespace, "/")
	if namespace == "" {
		namespace = defaultNamespace
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect etcd: %w", err)
	}
	prefix := namespace
	if cfg.Index != "" {
		prefix = namespace + "/" + cfg.Index
	}
	var cache *WindowCache
	if cfg.WindowCacheSize > 0 {
		cache = NewWindowCache(cfg.WindowCacheSize)
	}
	return &EtcdClient{
		client:  cli,
		prefix:  prefix + "/windows/",
		timeout: cfg.RequestTimeout,
		cache:   cache,
	}, nil
}

// WindowKeys returns every window tag recorded for the topic, ascending by
// key. Tags start with "<topic>:" so a prefix range covers exactly one topic.
func (c *EtcdClient) WindowKeys(ctx context.Context, topic string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.client.Get(ctx, c.prefix+topic+":",
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend),
		clientv3.WithKeysOnly(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list windows for %s: %v", ErrStoreUnavailable, topic, err)
	}
	keys := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		keys = append(keys, strings.TrimPrefix(string(kv.Key), c.prefix))
	}
	return keys, nil
}

// Window resolves one tag into its decoded members. A tag that has vanished
// since WindowKeys decodes to an empty window; the store is allowed to be
// stale, not corrupt.
func (c *EtcdClient) Window(ctx context.Context, key string) (Window, error) {
	if c.cache != nil {
		if window, ok := c.cache.Get(key); ok {
			return window, nil
		}
	}
	ts, err := ParseWindowKeyTimestamp(key)
	if err != nil {
		return Window{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.client.Get(ctx, c.prefix+key)
	if err != nil {
		return Window{}, fmt.Errorf("%w: read window %s: %v", ErrStoreUnavailable, key, err)
	}
	if len(resp.Kvs) == 0 {
		return Window{Key: key, Timestamp: ts}, nil
	}
	members, err := ParseMembers(string(resp.Kvs[0].Value))
	if err != nil {
		return Window{}, err
	}
	window := Window{Key: key, Timestamp: ts, Members: members}
	if c.cache != nil {
		// Vanished tags decode to empty windows above and are never
		// cached; a later read should see the tag if it reappears.
		c.cache.Put(window)
	}
	return window, nil
}

// PutWindow records a member set under a window tag. The planner never
// writes; this is for the maintenance process and for tests.
func (c *EtcdClient) PutWindow(ctx context.Context, key string, members []Member) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err := c.client.Put(ctx, c.prefix+key, EncodeMembers(members))
	return err
}

// Close releases the underlying etcd connection.
func (c *EtcdClient) Close() error {
	return c.client.Close()
}
