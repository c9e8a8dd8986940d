// Copyright 2022 Sogang University
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

package btree

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// LessFunc determines how to order a type K.
//
// This must provide a strict weak ordering; if !less(a, b) && !less(b, a),
// we treat this to mean a == b.  Unlike the usual B-tree contract, equal keys
// may be held in the tree more than once.
type LessFunc[K any] func(a, b K) bool

// Less returns a default LessFunc that uses the '<' operator for types that
// support it.
func Less[K constraints.Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// Entry represents a single key-value pair in the tree.  Entries are immutable
// once created.
type Entry[K, V any] struct {
	key   K
	value V
}

// NewEntry creates a new entry with the given arguments.
func NewEntry[K, V any](key K, value V) Entry[K, V] {
	return Entry[K, V]{
		key:   key,
		value: value,
	}
}

// Key returns the key of the entry.
func (e Entry[K, V]) Key() K {
	return e.key
}

// Value returns the value of the entry.
func (e Entry[K, V]) Value() V {
	return e.value
}

func (e Entry[K, V]) String() string {
	return fmt.Sprintf("%v=%v", e.key, e.value)
}
