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

package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "kafquery"

var (
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Total split planning calls by path and status.",
		},
		[]string{"path", "status"},
	)
	PlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_duration_ms",
			Help:      "Split planning duration in milliseconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)
	SplitsPlanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_planned_total",
			Help:      "Total splits that passed the predicate, by path.",
		},
		[]string{"path"},
	)
	SplitsPruned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_pruned_total",
			Help:      "Total candidate splits rejected by the predicate, by path.",
		},
		[]string{"path"},
	)
	LeaderlessPartitions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderless_partitions_total",
			Help:      "Total partitions skipped because no leader was available.",
		},
	)
	TopologyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topology_requests_total",
			Help:      "Total topic metadata requests by status.",
		},
		[]string{"status"},
	)
	OffsetRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offset_requests_total",
			Help:      "Total boundary offset requests by status.",
		},
		[]string{"status"},
	)
	StoreReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_reads_total",
			Help:      "Total metadata store reads by operation and status.",
		},
		[]string{"operation", "status"},
	)
	CorruptRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrupt_store_records_total",
			Help:      "Total metadata store records that failed to parse.",
		},
	)
	RowsUnparseable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_unparseable_total",
			Help:      "Total rows skipped because the message bytes did not decode.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PlansTotal,
		PlanDuration,
		SplitsPlanned,
		SplitsPruned,
		LeaderlessPartitions,
		TopologyRequests,
		OffsetRequests,
		StoreReads,
		CorruptRecords,
		RowsUnparseable,
	)
}
