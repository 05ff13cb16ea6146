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

// Package cluster holds the broker-facing capabilities the split planner
// composes: a pooled consumer connection per broker node, topic metadata
// queries, and boundary-offset queries against partition leaders.
package cluster

import (
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kversion"
)

// ConsumerManager pools one franz-go client per broker address. Clients are
// dialed lazily and shared across planning calls; kgo serializes concurrent
// requests on a shared client. Versions are capped at 0.10 so offset
// queries can use the old-style request that returns the full descending
// boundary list.
type ConsumerManager struct {
	mu      sync.Mutex
	clients map[string]*kgo.Client
	opts    []kgo.Opt
}

// NewConsumerManager builds an empty pool. Extra options are appended to
// every client the pool creates.
func NewConsumerManager(opts ...kgo.Opt) *ConsumerManager {
	return &ConsumerManager{
		clients: make(map[string]*kgo.Client),
		opts:    opts,
	}
}

// Client returns the pooled connection for a broker address, dialing it on
// first use.
func (m *ConsumerManager) Client(addr string) (*kgo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cl, ok := m.clients[addr]; ok {
		return cl, nil
	}
	opts := append([]kgo.Opt{
		kgo.SeedBrokers(addr),
		kgo.MaxVersions(kversion.V0_10_0()),
	}, m.opts...)
	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("connect broker %s: %w", addr, err)
	}
	m.clients[addr] = cl
	return cl, nil
}

// Close tears down every pooled client.
func (m *ConsumerManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for addr, cl := range m.clients {
		cl.Close()
		delete(m.clients, addr)
	}
}
