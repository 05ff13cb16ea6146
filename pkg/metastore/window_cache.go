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
	"container/list"
	"sync"
)

// WindowCache is an LRU cache of decoded windows keyed by window tag. The
// maintenance process never rewrites a tag once filed, so a cached window
// stays valid for the life of the process. Capacity counts member records,
// not windows, so one huge window cannot hide many small ones.
type WindowCache struct {
	mu       sync.Mutex
	capacity int
	size     int
	ll       *list.List
	items    map[string]*list.Element
}

type windowEntry struct {
	key    string
	window Window
}

// NewWindowCache creates a cache holding up to capacity member records.
func NewWindowCache(capacity int) *WindowCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &WindowCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached window for a tag if present.
func (c *WindowCache) Get(key string) (Window, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.ll.MoveToFront(elem)
		return elem.Value.(*windowEntry).window, true
	}
	return Window{}, false
}

// Put records a decoded window under its tag.
func (c *WindowCache) Put(window Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[window.Key]; ok {
		entry := elem.Value.(*windowEntry)
		c.size -= len(entry.window.Members)
		entry.window = window
		c.size += len(window.Members)
		c.ll.MoveToFront(elem)
		c.evictIfNeeded()
		return
	}
	elem := c.ll.PushFront(&windowEntry{key: window.Key, window: window})
	c.items[window.Key] = elem
	c.size += len(window.Members)
	c.evictIfNeeded()
}

func (c *WindowCache) evictIfNeeded() {
	for c.size > c.capacity && c.ll.Len() > 1 {
		elem := c.ll.Back()
		entry := elem.Value.(*windowEntry)
		delete(c.items, entry.key)
		c.ll.Remove(elem)
		c.size -= len(entry.window.Members)
	}
}
