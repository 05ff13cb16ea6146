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
	"errors"
	"testing"
)

func TestWindowKeyTimestampRoundTrip(t *testing.T) {
	key := WindowKey("orders", 1700000000000)
	if key != "orders:1700000000000" {
		t.Fatalf("WindowKey = %q", key)
	}
	ts, err := ParseWindowKeyTimestamp(key)
	if err != nil {
		t.Fatalf("ParseWindowKeyTimestamp: %v", err)
	}
	if ts != 1700000000000 {
		t.Fatalf("timestamp = %d, want 1700000000000", ts)
	}
}

func TestParseWindowKeyTimestampCorrupt(t *testing.T) {
	for _, key := range []string{"orders", "orders:noon", ""} {
		if _, err := ParseWindowKeyTimestamp(key); !errors.Is(err, ErrCorruptRecord) {
			t.Fatalf("key %q: got %v, want ErrCorruptRecord", key, err)
		}
	}
}

func TestParseMember(t *testing.T) {
	m, err := ParseMember("3:100:250")
	if err != nil {
		t.Fatalf("ParseMember: %v", err)
	}
	if m.Partition != 3 || m.Start != 100 || m.End != 250 {
		t.Fatalf("member = %+v", m)
	}
	if got := EncodeMember(m); got != "3:100:250" {
		t.Fatalf("EncodeMember = %q", got)
	}
}

func TestParseMemberCorrupt(t *testing.T) {
	for _, raw := range []string{"3:100", "3:100:250:extra", "x:100:250", "3:low:250", "3:100:high", ""} {
		if _, err := ParseMember(raw); !errors.Is(err, ErrCorruptRecord) {
			t.Fatalf("member %q: got %v, want ErrCorruptRecord", raw, err)
		}
	}
}

func TestParseMembersIgnoresBlankLines(t *testing.T) {
	members, err := ParseMembers("0:0:50\n\n1:0:75\n")
	if err != nil {
		t.Fatalf("ParseMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if members[1].Partition != 1 || members[1].End != 75 {
		t.Fatalf("second member = %+v", members[1])
	}
}

func TestParseMembersEmpty(t *testing.T) {
	members, err := ParseMembers("")
	if err != nil {
		t.Fatalf("ParseMembers: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("got %d members from empty value, want 0", len(members))
	}
}
