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

package split

import (
	"context"
	"errors"
	"fmt"

	"github.com/novatechflow/kafquery/internal/metrics"
	"github.com/novatechflow/kafquery/pkg/metastore"
)

// storePlan reads the topic's recorded offset windows from the metadata
// store instead of asking the brokers. Window ranges carry the timestamp
// embedded in their key and may overlap or leave gaps when the store is
// stale; that is accepted here, not corrected. A record that fails to parse
// aborts the call: wrong row coverage is worse than no result.
func (m *Manager) storePlan(ctx context.Context, topic string, leaders map[int32]string, predicate Predicate) ([]Split, error) {
	keys, err := m.store.WindowKeys(ctx, topic)
	if err != nil {
		metrics.StoreReads.WithLabelValues("keys", "error").Inc()
		return nil, fmt.Errorf("plan topic %s from store: %w", topic, err)
	}
	metrics.StoreReads.WithLabelValues("keys", "ok").Inc()
	if len(keys) < 2 {
		return nil, nil
	}

	var splits []Split
	// The lowest-ranked key is reserved by the store's write path and is
	// never consulted.
	for _, key := range keys[1:] {
		window, err := m.store.Window(ctx, key)
		if err != nil {
			if errors.Is(err, metastore.ErrCorruptRecord) {
				metrics.CorruptRecords.Inc()
			}
			metrics.StoreReads.WithLabelValues("window", "error").Inc()
			return nil, fmt.Errorf("plan topic %s from store: %w", topic, err)
		}
		metrics.StoreReads.WithLabelValues("window", "ok").Inc()

		for _, member := range window.Members {
			// A partition absent from the leader map passes through with
			// an empty leader; routing is the scan layer's problem.
			s := newSplit(member.Partition, leaders[member.Partition], member.Start, member.End, window.Timestamp)
			if predicate != nil && !predicate.Test(s.Values) {
				metrics.SplitsPruned.WithLabelValues("metastore").Inc()
				continue
			}
			splits = append(splits, s)
		}
	}
	return splits, nil
}
