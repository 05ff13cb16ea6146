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
	"errors"
	"testing"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

func metadataResponse(topic string, brokers map[int32]string, partitions map[int32]int32) *kmsg.MetadataResponse {
	md := kmsg.NewPtrMetadataResponse()
	for id, host := range brokers {
		b := kmsg.NewMetadataResponseBroker()
		b.NodeID = id
		b.Host = host
		b.Port = 9092
		md.Brokers = append(md.Brokers, b)
	}
	respTopic := kmsg.NewMetadataResponseTopic()
	respTopic.Topic = kmsg.StringPtr(topic)
	for partition, leader := range partitions {
		p := kmsg.NewMetadataResponseTopicPartition()
		p.Partition = partition
		p.Leader = leader
		respTopic.Partitions = append(respTopic.Partitions, p)
	}
	md.Topics = append(md.Topics, respTopic)
	return md
}

func TestPartitionLeaders(t *testing.T) {
	md := metadataResponse("orders",
		map[int32]string{
			1: "node-a",
			2: "node-b",
		},
		map[int32]int32{
			0: 1,
			1: 2,
			2: -1, // mid-election
			3: 9,  // leader id not in the broker list
		},
	)

	leaders, err := partitionLeaders(md, "orders")
	if err != nil {
		t.Fatalf("partitionLeaders: %v", err)
	}
	if len(leaders) != 4 {
		t.Fatalf("got %d partitions, want 4", len(leaders))
	}
	byPartition := make(map[int32]string, len(leaders))
	for _, l := range leaders {
		byPartition[l.Partition] = l.Leader
	}
	if byPartition[0] != "node-a:9092" || byPartition[1] != "node-b:9092" {
		t.Fatalf("leader addresses wrong: %v", byPartition)
	}
	if byPartition[2] != "" || byPartition[3] != "" {
		t.Fatalf("unknown leaders should map to the empty address: %v", byPartition)
	}
}

func TestPartitionLeadersTopicError(t *testing.T) {
	md := kmsg.NewPtrMetadataResponse()
	respTopic := kmsg.NewMetadataResponseTopic()
	respTopic.Topic = kmsg.StringPtr("orders")
	respTopic.ErrorCode = kerr.UnknownTopicOrPartition.Code
	md.Topics = append(md.Topics, respTopic)

	if _, err := partitionLeaders(md, "orders"); !errors.Is(err, kerr.UnknownTopicOrPartition) {
		t.Fatalf("got %v, want UnknownTopicOrPartition", err)
	}
}

func TestNewTopologyRequiresNodes(t *testing.T) {
	if _, err := NewTopology(NewConsumerManager(), nil); err == nil {
		t.Fatalf("expected error for empty node list")
	}
}
