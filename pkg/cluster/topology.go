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
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"

	"github.com/novatechflow/kafquery/pkg/split"
)

// Topology answers topic metadata queries. Any configured node can answer,
// so each query goes to one picked at random; there is no fallback across
// the node list beyond the client's own connection handling.
type Topology struct {
	consumers *ConsumerManager
	nodes     []string
}

// NewTopology builds a topology client over the configured broker nodes.
func NewTopology(consumers *ConsumerManager, nodes []string) (*Topology, error) {
	if len(nodes) == 0 {
		return nil, errors.New("at least one broker node required")
	}
	return &Topology{consumers: consumers, nodes: nodes}, nil
}

// PartitionLeaders implements split.TopologyClient. Partitions whose leader
// is unknown or mid-election report an empty leader address.
func (t *Topology) PartitionLeaders(ctx context.Context, topic string) ([]split.PartitionLeader, error) {
	cl, err := t.consumers.Client(t.nodes[rand.IntN(len(t.nodes))])
	if err != nil {
		return nil, err
	}

	req := kmsg.NewPtrMetadataRequest()
	reqTopic := kmsg.NewMetadataRequestTopic()
	reqTopic.Topic = kmsg.StringPtr(topic)
	req.Topics = append(req.Topics, reqTopic)

	resp, err := cl.Request(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("metadata request for %s: %w", topic, err)
	}
	md, ok := resp.(*kmsg.MetadataResponse)
	if !ok {
		return nil, fmt.Errorf("metadata request for %s: unexpected response %T", topic, resp)
	}
	return partitionLeaders(md, topic)
}

// partitionLeaders flattens a metadata response into per-partition leader
// addresses.
func partitionLeaders(md *kmsg.MetadataResponse, topic string) ([]split.PartitionLeader, error) {
	addrs := make(map[int32]string, len(md.Brokers))
	for _, b := range md.Brokers {
		addrs[b.NodeID] = net.JoinHostPort(b.Host, strconv.Itoa(int(b.Port)))
	}

	var leaders []split.PartitionLeader
	for _, respTopic := range md.Topics {
		if err := kerr.ErrorForCode(respTopic.ErrorCode); err != nil {
			return nil, fmt.Errorf("metadata for topic %s: %w", topic, err)
		}
		for _, p := range respTopic.Partitions {
			// Leader -1 or an unknown node id maps to the empty address.
			leaders = append(leaders, split.PartitionLeader{
				Partition: p.Partition,
				Leader:    addrs[p.Leader],
			})
		}
	}
	return leaders, nil
}
