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
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/novatechflow/kafquery/internal/metrics"
)

// livePlan asks each partition leader for its boundary-offset list and
// derives one candidate range per adjacent boundary pair. Partitions are
// independent, so the round trips fan out concurrently, bounded by the
// configured fetch concurrency.
func (m *Manager) livePlan(ctx context.Context, topic string, leaders map[int32]string, predicate Predicate) ([]Split, error) {
	ids := make([]int32, 0, len(leaders))
	for id := range leaders {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	g, ctx := errgroup.WithContext(ctx)
	if limit := min(m.fetchConcurrency, len(ids)); limit > 0 {
		g.SetLimit(limit)
	}
	perPartition := make([][]Split, len(ids))
	for i, id := range ids {
		leader := leaders[id]
		g.Go(func() error {
			boundaries, err := m.offsets.OffsetBoundaries(ctx, leader, topic, id)
			if err != nil {
				metrics.OffsetRequests.WithLabelValues("error").Inc()
				return fmt.Errorf("list offsets for %s/%d on %s: %w", topic, id, leader, err)
			}
			metrics.OffsetRequests.WithLabelValues("ok").Inc()
			perPartition[i] = boundaryCandidates(id, leader, boundaries, predicate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var splits []Split
	for _, part := range perPartition {
		splits = append(splits, part...)
	}
	return splits, nil
}

// boundaryCandidates pairs each boundary in the descending list with its
// immediate predecessor: one candidate [boundaries[i], boundaries[i-1]) per
// adjacent pair. The ranges are contiguous and non-overlapping, covering
// everything from the oldest available offset to the log end. A single
// boundary means no history and yields nothing. This path carries no
// timestamp information.
func boundaryCandidates(partition int32, leader string, boundaries []int64, predicate Predicate) []Split {
	var out []Split
	for i := 1; i < len(boundaries); i++ {
		s := newSplit(partition, leader, boundaries[i], boundaries[i-1], -1)
		if predicate != nil && !predicate.Test(s.Values) {
			metrics.SplitsPruned.WithLabelValues("live").Inc()
			continue
		}
		out = append(out, s)
	}
	return out
}
