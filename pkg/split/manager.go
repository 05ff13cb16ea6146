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

// Package split plans the offset ranges a table scan over a partitioned
// topic must cover. Given a topic and a predicate over the partition
// columns, the manager discovers the current partition leaders, enumerates
// candidate offset ranges either live from the brokers or from the external
// metadata store, and returns the candidates that satisfy the predicate.
package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/novatechflow/kafquery/internal/metrics"
	"github.com/novatechflow/kafquery/pkg/metastore"
)

// ErrTopologyUnavailable is returned when no cluster node answers the
// topology query for a topic. It is fatal to the planning call; no partial
// result is returned.
var ErrTopologyUnavailable = errors.New("topic topology unavailable")

// Strategy selects how candidate offset ranges are discovered. It is fixed
// when the manager is built; there is no per-call switching.
type Strategy int

const (
	// StrategyLiveBroker enumerates boundary offsets from each partition leader.
	StrategyLiveBroker Strategy = iota
	// StrategyMetastore reads previously observed offset windows from the
	// external metadata store.
	StrategyMetastore
)

func (s Strategy) String() string {
	if s == StrategyMetastore {
		return "metastore"
	}
	return "live"
}

// TopologyClient answers topic metadata queries against the broker cluster.
// Implementations report every partition, with an empty leader for
// partitions that are mid-election.
type TopologyClient interface {
	PartitionLeaders(ctx context.Context, topic string) ([]PartitionLeader, error)
}

// BoundaryLister fetches the descending boundary-offset list for one
// partition from its leader. The returned list always has at least one
// element; a single element means the partition has no history.
type BoundaryLister interface {
	OffsetBoundaries(ctx context.Context, leader, topic string, partition int32) ([]int64, error)
}

// DefaultFetchConcurrency caps concurrent leader round trips on the live
// path when the config does not say otherwise.
const DefaultFetchConcurrency = 8

// Config carries the manager's construction-time settings.
type Config struct {
	Strategy Strategy
	// FetchConcurrency bounds the live path's per-partition fan-out.
	// Zero means DefaultFetchConcurrency.
	FetchConcurrency int
	Logger           *slog.Logger
}

// Manager produces the split list for a table scan. It holds no per-call
// state; a single manager is safe for concurrent planning calls.
type Manager struct {
	strategy         Strategy
	fetchConcurrency int
	topology         TopologyClient
	offsets          BoundaryLister
	store            metastore.Client
	logger           *slog.Logger
}

// NewManager wires a manager for the configured strategy. The live strategy
// needs a boundary lister, the metastore strategy a store client; the
// topology client is always required.
func NewManager(cfg Config, topology TopologyClient, offsets BoundaryLister, store metastore.Client) (*Manager, error) {
	if topology == nil {
		return nil, errors.New("topology client required")
	}
	switch cfg.Strategy {
	case StrategyLiveBroker:
		if offsets == nil {
			return nil, errors.New("boundary lister required for live planning")
		}
	case StrategyMetastore:
		if store == nil {
			return nil, errors.New("metastore client required for metastore planning")
		}
	default:
		return nil, fmt.Errorf("unknown strategy %d", cfg.Strategy)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fetchConcurrency := cfg.FetchConcurrency
	if fetchConcurrency <= 0 {
		fetchConcurrency = DefaultFetchConcurrency
	}
	return &Manager{
		strategy:         cfg.Strategy,
		fetchConcurrency: fetchConcurrency,
		topology:         topology,
		offsets:          offsets,
		store:            store,
		logger:           logger,
	}, nil
}

// Plan returns the partition column schema and the splits covering every row
// of the topic that satisfies the predicate. A nil predicate keeps every
// candidate. Partitions without a leader are skipped with a warning; the
// scan proceeds with what is available.
func (m *Manager) Plan(ctx context.Context, topic string, predicate Predicate) ([]Column, []Split, error) {
	start := time.Now()
	columns := PartitionColumns()

	partitions, err := m.topology.PartitionLeaders(ctx, topic)
	if err != nil {
		metrics.TopologyRequests.WithLabelValues("error").Inc()
		metrics.PlansTotal.WithLabelValues(m.strategy.String(), "error").Inc()
		return nil, nil, fmt.Errorf("%w: topic %s: %v", ErrTopologyUnavailable, topic, err)
	}
	metrics.TopologyRequests.WithLabelValues("ok").Inc()

	leaders := make(map[int32]string, len(partitions))
	for _, p := range partitions {
		if p.Leader == "" {
			// Leader election going on.
			m.logger.Warn("no leader for partition", "topic", topic, "partition", p.Partition)
			metrics.LeaderlessPartitions.Inc()
			continue
		}
		leaders[p.Partition] = p.Leader
	}

	var splits []Split
	if m.strategy == StrategyMetastore {
		splits, err = m.storePlan(ctx, topic, leaders, predicate)
	} else {
		splits, err = m.livePlan(ctx, topic, leaders, predicate)
	}
	if err != nil {
		metrics.PlansTotal.WithLabelValues(m.strategy.String(), "error").Inc()
		return nil, nil, err
	}

	metrics.PlansTotal.WithLabelValues(m.strategy.String(), "ok").Inc()
	metrics.SplitsPlanned.WithLabelValues(m.strategy.String()).Add(float64(len(splits)))
	metrics.PlanDuration.WithLabelValues(m.strategy.String()).Observe(float64(time.Since(start).Milliseconds()))
	return columns, splits, nil
}
