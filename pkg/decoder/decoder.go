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

// Package decoder maps schema identifiers to row decoders. The scan layer
// hands each split's messages through a registered decoder; everything else
// in the planner depends only on the registry's lookup-and-invoke contract.
package decoder

import (
	"fmt"
	"sync"
)

// Value is one decoded field. Present is false when the field path named a
// non-existent or unset singular field.
type Value struct {
	Present bool
	Value   any
}

// RowDecoder decodes raw message bytes and resolves '/'-delimited field
// paths into per-column values. Decode reports ok=false when the bytes do
// not parse as the decoder's message type; the caller skips that row and
// keeps scanning. A parse failure is never fatal to the scan.
type RowDecoder interface {
	Decode(data []byte, paths []string) (values []Value, ok bool)
}

// Registry holds the schema identifier to decoder mapping, populated at
// startup or on first use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]RowDecoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]RowDecoder)}
}

// Register binds a decoder to a schema identifier, replacing any previous
// binding.
func (r *Registry) Register(schema string, d RowDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[schema] = d
}

// Lookup returns the decoder bound to a schema identifier.
func (r *Registry) Lookup(schema string) (RowDecoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[schema]
	return d, ok
}

// Decode resolves the schema and decodes one row. An unknown schema is a
// configuration error and fails the call; unparseable bytes do not.
func (r *Registry) Decode(schema string, data []byte, paths []string) ([]Value, bool, error) {
	d, ok := r.Lookup(schema)
	if !ok {
		return nil, false, fmt.Errorf("no decoder registered for schema %q", schema)
	}
	values, ok := d.Decode(data, paths)
	return values, ok, nil
}
