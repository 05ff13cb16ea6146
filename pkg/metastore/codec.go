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
	"fmt"
	"strconv"
	"strings"
)

// The store records are colon-delimited strings written by the maintenance
// process: window keys are "<topic>:<timestamp>" tags and members are
// "<partition>:<start>:<end>" triples. Every encode and decode of that
// format lives in this file so the rest of the planner never splits strings.

// WindowKey formats the tag under which a topic's offset window is filed.
func WindowKey(topic string, timestamp int64) string {
	return fmt.Sprintf("%s:%d", topic, timestamp)
}

// ParseWindowKeyTimestamp extracts the embedded timestamp, the second
// colon-delimited field of a window key tag.
func ParseWindowKeyTimestamp(key string) (int64, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: window key %q has no timestamp field", ErrCorruptRecord, key)
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: window key %q: timestamp %q is not numeric", ErrCorruptRecord, key, parts[1])
	}
	return ts, nil
}

// EncodeMember formats one partition/offset-range record.
func EncodeMember(m Member) string {
	return fmt.Sprintf("%d:%d:%d", m.Partition, m.Start, m.End)
}

// ParseMember decodes a "<partition>:<start>:<end>" triple.
func ParseMember(raw string) (Member, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return Member{}, fmt.Errorf("%w: member %q: want partition:start:end", ErrCorruptRecord, raw)
	}
	partition, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return Member{}, fmt.Errorf("%w: member %q: partition %q is not numeric", ErrCorruptRecord, raw, parts[0])
	}
	start, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Member{}, fmt.Errorf("%w: member %q: start %q is not numeric", ErrCorruptRecord, raw, parts[1])
	}
	end, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Member{}, fmt.Errorf("%w: member %q: end %q is not numeric", ErrCorruptRecord, raw, parts[2])
	}
	return Member{Partition: int32(partition), Start: start, End: end}, nil
}

// EncodeMembers joins a member set into the stored value, one record per line.
func EncodeMembers(members []Member) string {
	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = EncodeMember(m)
	}
	return strings.Join(lines, "\n")
}

// ParseMembers decodes a stored member set. Blank lines are ignored.
func ParseMembers(raw string) ([]Member, error) {
	var members []Member
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m, err := ParseMember(line)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}
