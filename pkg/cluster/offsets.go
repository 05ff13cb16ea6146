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

package cluster

import (
	"context"
	"fmt"
	"math"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// Boundaries queries partition leaders for their boundary-offset lists. Only
// the v0 offsets API returns the old-style list of every segment boundary,
// which is why the consumer pool caps protocol versions.
type Boundaries struct {
	consumers *ConsumerManager
}

// NewBoundaries builds a boundary lister over the shared consumer pool.
func NewBoundaries(consumers *ConsumerManager) *Boundaries {
	return &Boundaries{consumers: consumers}
}

// OffsetBoundaries implements split.BoundaryLister. The returned list is
// descending, newest boundary first, and has at least one element: the log
// end offset of a partition with no history.
func (b *Boundaries) OffsetBoundaries(ctx context.Context, leader, topic string, partition int32) ([]int64, error) {
	cl, err := b.consumers.Client(leader)
	if err != nil {
		return nil, err
	}

	req := kmsg.NewPtrListOffsetsRequest()
	req.ReplicaID = -1
	reqTopic := kmsg.NewListOffsetsRequestTopic()
	reqTopic.Topic = topic
	reqPartition := kmsg.NewListOffsetsRequestTopicPartition()
	reqPartition.Partition = partition
	// Latest timestamp with an unbounded count reports every boundary the
	// broker still has, down to the oldest available offset.
	reqPartition.Timestamp = -1
	reqPartition.MaxNumOffsets = math.MaxInt32
	reqTopic.Partitions = append(reqTopic.Partitions, reqPartition)
	req.Topics = append(req.Topics, reqTopic)

	resp, err := cl.Request(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("offsets request for %s/%d: %w", topic, partition, err)
	}
	offsets, ok := resp.(*kmsg.ListOffsetsResponse)
	if !ok {
		return nil, fmt.Errorf("offsets request for %s/%d: unexpected response %T", topic, partition, resp)
	}
	return boundariesFromResponse(offsets, topic, partition)
}

func boundariesFromResponse(offsets *kmsg.ListOffsetsResponse, topic string, partition int32) ([]int64, error) {
	for _, respTopic := range offsets.Topics {
		if respTopic.Topic != topic {
			continue
		}
		for _, p := range respTopic.Partitions {
			if p.Partition != partition {
				continue
			}
			if err := kerr.ErrorForCode(p.ErrorCode); err != nil {
				return nil, fmt.Errorf("offsets for %s/%d: %w", topic, partition, err)
			}
			if len(p.OldStyleOffsets) == 0 {
				return nil, fmt.Errorf("offsets for %s/%d: empty boundary list", topic, partition)
			}
			return p.OldStyleOffsets, nil
		}
	}
	return nil, fmt.Errorf("offsets for %s/%d: partition missing from response", topic, partition)
}
