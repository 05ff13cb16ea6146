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

// Column names one of the synthesized partition columns every topic-backed
// table exposes. The set is fixed; users cannot define their own.
type Column string

const (
	// ColumnPartitionID is the broker-assigned partition id.
	ColumnPartitionID Column = "partition_id"
	// ColumnOffsetStart is the inclusive first offset of a split.
	ColumnOffsetStart Column = "offset_start"
	// ColumnOffsetEnd is the exclusive end offset of a split.
	ColumnOffsetEnd Column = "offset_end"
	// ColumnTimestamp is the window marker recorded by the metadata store,
	// or -1 when the source carries no timestamp information.
	ColumnTimestamp Column = "timestamp"
)

// PartitionColumns returns the partition column schema in its fixed order.
func PartitionColumns() []Column {
	return []Column{ColumnPartitionID, ColumnOffsetStart, ColumnOffsetEnd, ColumnTimestamp}
}

// NullableValue is a typed column value that may be null. All partition
// columns are 64-bit integers.
type NullableValue struct {
	Null  bool
	Int64 int64
}

// Int64Value wraps a non-null integer column value.
func Int64Value(v int64) NullableValue {
	return NullableValue{Int64: v}
}

// NullValue returns the null column value.
func NullValue() NullableValue {
	return NullableValue{Null: true}
}

// Predicate is the pushed-down constraint supplied by the host engine. Test
// must be pure and safe for concurrent use; it is called once per candidate
// split with all four partition columns bound.
type Predicate interface {
	Test(values map[Column]NullableValue) bool
}

// PredicateFunc adapts a plain function to the Predicate interface.
type PredicateFunc func(values map[Column]NullableValue) bool

// Test implements Predicate.
func (f PredicateFunc) Test(values map[Column]NullableValue) bool { return f(values) }

// PartitionLeader reports one partition from a topology query. Leader is the
// host:port of the current leader, or empty while an election is in flight.
type PartitionLeader struct {
	Partition int32
	Leader    string
}

// OffsetRange is a contiguous [Start, End) window of one partition, routed to
// the broker node that was leading the partition when the range was resolved.
// Timestamp is -1 when the source carries no window marker.
type OffsetRange struct {
	Partition int32
	Leader    string
	Start     int64
	End       int64
	Timestamp int64
}

// Split is the unit of scan work handed to one worker: an offset range plus
// the partition column bindings the predicate was tested against. Splits are
// immutable once built and carry no references back into broker or store
// state.
type Split struct {
	Range  OffsetRange
	Values map[Column]NullableValue
}

func newSplit(partition int32, leader string, start, end, timestamp int64) Split {
	return Split{
		Range: OffsetRange{
			Partition: partition,
			Leader:    leader,
			Start:     start,
			End:       end,
			Timestamp: timestamp,
		},
		Values: map[Column]NullableValue{
			ColumnPartitionID: Int64Value(int64(partition)),
			ColumnOffsetStart: Int64Value(start),
			ColumnOffsetEnd:   Int64Value(end),
			ColumnTimestamp:   Int64Value(timestamp),
		},
	}
}
