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
	"context"
	"errors"
	"sort"
	"sync"
)

// Member is one partition/offset-range record filed under a window key.
// Offsets follow split semantics: Start inclusive, End exclusive.
type Member struct {
	Partition int32
	Start     int64
	End       int64
}

// Window is the decoded content of one window key: the tag itself, the
// timestamp embedded in it, and the member records filed under it.
type Window struct {
	Key       string
	Timestamp int64
	Members   []Member
}

// Client reads previously observed offset windows for a topic. WindowKeys
// returns every recorded tag in the store's key order, lowest rank first;
// the caller decides which of them to consult. Window resolves one tag into
// its decoded members and fails with ErrCorruptRecord when the stored data
// does not parse.
type Client interface {
	WindowKeys(ctx context.Context, topic string) ([]string, error)
	Window(ctx context.Context, key string) (Window, error)
	Close() error
}

var (
	// ErrStoreUnavailable is returned when the metadata store cannot be reached.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
	// ErrCorruptRecord is returned when a stored record fails to parse.
	// Callers must treat it as fatal; proceeding risks wrong row coverage.
	ErrCorruptRecord = errors.New("corrupt metadata store record")
)

// InMemoryClient is a Client backed by in-process state. Useful for early
// development and tests.
type InMemoryClient struct {
	mu      sync.RWMutex
	windows map[string]map[string]string // topic -> window key -> raw members
}

// NewInMemoryClient builds an empty in-memory store client.
func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{windows: make(map[string]map[string]string)}
}

// PutWindow records a raw member set under a window key, as the maintenance
// process would.
func (c *InMemoryClient) PutWindow(topic, key, rawMembers string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	topicWindows := c.windows[topic]
	if topicWindows == nil {
		topicWindows = make(map[string]string)
		c.windows[topic] = topicWindows
	}
	topicWindows[key] = rawMembers
}

// WindowKeys implements Client.
func (c *InMemoryClient) WindowKeys(ctx context.Context, topic string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.windows[topic]))
	for key := range c.windows[topic] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Window implements Client.
func (c *InMemoryClient) Window(ctx context.Context, key string) (Window, error) {
	select {
	case <-ctx.Done():
		return Window{}, ctx.Err()
	default:
	}
	ts, err := ParseWindowKeyTimestamp(key)
	if err != nil {
		return Window{}, err
	}
	c.mu.RLock()
	var raw string
	for _, topicWindows := range c.windows {
		if v, ok := topicWindows[key]; ok {
			raw = v
			break
		}
	}
	c.mu.RUnlock()
	members, err := ParseMembers(raw)
	if err != nil {
		return Window{}, err
	}
	return Window{Key: key, Timestamp: ts, Members: members}, nil
}

// Close implements Client.
func (c *InMemoryClient) Close() error { return nil }
