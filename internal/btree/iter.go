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

// Iterator walks the entries of a tree in ascending order.  It holds a
// snapshot of the tree taken when it was created, so entries set afterwards
// are not observed and the tree may be modified while the iterator is open.
type Iterator[K, V any] struct {
	stack []cursor[K, V]
	entry Entry[K, V]
}

type cursor[K, V any] struct {
	node  *node[K, V]
	index int
}

// Iter returns an iterator positioned before the first entry of the tree.
// Call Next to advance it.
//
// Creating an iterator freezes the current nodes of the tree; the first write
// to each of them afterwards copies it.
func (t *BTree[K, V]) Iter() *Iterator[K, V] {
	snapshot := t.Clone()
	it := &Iterator[K, V]{
		stack: make([]cursor[K, V], 0, t.Height()),
	}
	it.push(snapshot.root)
	return it
}

// push descends from n along the leftmost path, recording a cursor for every
// node visited.
func (it *Iterator[K, V]) push(n *node[K, V]) {
	for {
		it.stack = append(it.stack, cursor[K, V]{node: n})
		if n.leaf {
			return
		}
		n = n.children[0]
	}
}

// Next advances the iterator to the next entry, returning false once every
// entry has been visited.
func (it *Iterator[K, V]) Next() bool {
	for 0 < len(it.stack) {
		top := &it.stack[len(it.stack)-1]
		if top.index < len(top.node.entries) {
			n, index := top.node, top.index
			top.index++
			it.entry = n.entries[index]
			if !n.leaf {
				it.push(n.children[index+1])
			}
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	var zero Entry[K, V]
	it.entry = zero
	return false
}

// Entry returns the entry the iterator is positioned at.
func (it *Iterator[K, V]) Entry() Entry[K, V] {
	return it.entry
}
