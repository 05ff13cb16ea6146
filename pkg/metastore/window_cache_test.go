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

import "testing"

func testWindow(key string, members int) Window {
	w := Window{Key: key}
	for i := 0; i < members; i++ {
		w.Members = append(w.Members, Member{Partition: int32(i), Start: 0, End: 10})
	}
	return w
}

func TestWindowCacheEviction(t *testing.T) {
	cache := NewWindowCache(4)
	cache.Put(testWindow("orders:100", 2))
	if _, ok := cache.Get("orders:100"); !ok {
		t.Fatalf("expected cache hit")
	}
	cache.Put(testWindow("orders:200", 2))
	if cache.ll.Len() != 2 {
		t.Fatalf("expected two entries")
	}
	cache.Put(testWindow("orders:300", 2)) // should evict oldest

	if _, ok := cache.Get("orders:100"); ok {
		t.Fatalf("oldest entry should be evicted")
	}
	if _, ok := cache.Get("orders:300"); !ok {
		t.Fatalf("new entry missing")
	}
}

func TestWindowCacheOversizeWindowStays(t *testing.T) {
	cache := NewWindowCache(2)
	cache.Put(testWindow("orders:100", 5))
	if _, ok := cache.Get("orders:100"); !ok {
		t.Fatalf("a window larger than the capacity should still be held")
	}
}

func TestWindowCacheGetRefreshesRecency(t *testing.T) {
	cache := NewWindowCache(4)
	cache.Put(testWindow("orders:100", 2))
	cache.Put(testWindow("orders:200", 2))
	if _, ok := cache.Get("orders:100"); !ok {
		t.Fatalf("expected cache hit")
	}
	cache.Put(testWindow("orders:300", 2)) // evicts orders:200, not the refreshed entry

	if _, ok := cache.Get("orders:100"); !ok {
		t.Fatalf("recently used entry should survive eviction")
	}
	if _, ok := cache.Get("orders:200"); ok {
		t.Fatalf("least recently used entry should be evicted")
	}
}
