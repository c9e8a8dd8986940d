// Adapted from https://github.com/google/btree/blob/v1.1.2/btree_generic.go
// Copyright 2022 Sogang University
// Copyright 2014 Google Inc.
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

// Package btree implements in-memory B-trees of arbitrary minimum degree.
//
// btree implements an in-memory B-tree for use as an ordered index from keys
// to values.  It is not meant for persistent storage solutions.
//
// A tree of minimum degree t holds between t-1 and 2t-1 entries in every node
// except the root, and every internal node has exactly one more child than it
// has entries.  Insertion descends from the root and splits any full node
// before entering it, so a promoted median always finds room in its parent and
// the tree only grows in height when the root itself is split.
//
// Unlike most ordered containers, the tree does not deduplicate keys: setting
// a key that is already present adds another entry with that key.  Get returns
// the shallowest matching entry met on the way down, which is not necessarily
// the most recently set one.
//
// Deletion is not supported; the set of nodes in a tree only ever grows.
package btree

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// DefaultDegree is the minimum degree used when none is configured.
const DefaultDegree = 32

var (
	// ErrInvalidDegree is returned when a tree is constructed with a minimum
	// degree below 2.
	ErrInvalidDegree = errors.New("btree: minimum degree must be at least 2")

	// ErrEmptyTree is returned by First and Last on a tree with no entries.
	ErrEmptyTree = errors.New("btree: empty tree")
)

// EntryIterator allows callers of Ascend* to iterate in-order over portions of
// the tree.  When this function returns false, iteration will stop and the
// associated Ascend* function will immediately return.
type EntryIterator[K, V any] func(Entry[K, V]) bool

// New creates a new B-tree with the given minimum degree, ordering keys with
// the '<' operator.
//
// New(2), for example, will create a 2-3-4 tree (each node contains 1-3 entries
// and 2-4 children).
func New[K constraints.Ordered, V any](degree int) (*BTree[K, V], error) {
	return NewFunc[K, V](degree, Less[K]())
}

// NewFunc creates a new B-tree with the given minimum degree that orders keys
// with the given function.
func NewFunc[K, V any](degree int, less LessFunc[K]) (*BTree[K, V], error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, degree)
	}
	cow := &copyOnWriteContext{degree: degree}
	return &BTree[K, V]{
		degree: degree,
		less:   less,
		root:   newNode[K, V](cow, true),
		cow:    cow,
	}, nil
}

// entries stores entries in a node.
type entries[K, V any] []Entry[K, V]

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (s *entries[K, V]) insertAt(index int, entry Entry[K, V]) {
	var zero Entry[K, V]
	*s = append(*s, zero)
	if index < len(*s) {
		copy((*s)[index+1:], (*s)[index:])
	}
	(*s)[index] = entry
}

// truncate truncates this instance at index so that it contains only the
// first index entries. index must be less than or equal to length.
func (s *entries[K, V]) truncate(index int) {
	var toClear entries[K, V]
	*s, toClear = (*s)[:index], (*s)[index:]
	var zero Entry[K, V]
	for i := 0; i < len(toClear); i++ {
		toClear[i] = zero
	}
}

// lowerBound returns the index of the first entry whose key is not less than
// the given key.
func (s entries[K, V]) lowerBound(key K, less LessFunc[K]) int {
	return sort.Search(len(s), func(i int) bool {
		return !less(s[i].key, key)
	})
}

// upperBound returns the index of the first entry whose key is greater than
// the given key.
func (s entries[K, V]) upperBound(key K, less LessFunc[K]) int {
	return sort.Search(len(s), func(i int) bool {
		return less(key, s[i].key)
	})
}

// children stores child nodes in a node.
type children[K, V any] []*node[K, V]

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (c *children[K, V]) insertAt(index int, n *node[K, V]) {
	*c = append(*c, nil)
	if index < len(*c) {
		copy((*c)[index+1:], (*c)[index:])
	}
	(*c)[index] = n
}

// truncate truncates this instance at index so that it contains only the
// first index children. index must be less than or equal to length.
func (c *children[K, V]) truncate(index int) {
	var toClear children[K, V]
	*c, toClear = (*c)[:index], (*c)[index:]
	for i := 0; i < len(toClear); i++ {
		toClear[i] = nil
	}
}

// node is a node in a tree.
//
// It must at all times maintain the invariant that either
//   - leaf is set and len(children) == 0
//   - leaf is unset and len(children) == len(entries) + 1
type node[K, V any] struct {
	entries  entries[K, V]
	children children[K, V]
	leaf     bool
	cow      *copyOnWriteContext
}

// newNode allocates a node owned by the given context with room for a full
// complement of entries and, unless it is a leaf, children.
func newNode[K, V any](c *copyOnWriteContext, leaf bool) *node[K, V] {
	n := &node[K, V]{
		entries: make(entries[K, V], 0, 2*c.degree-1),
		leaf:    leaf,
		cow:     c,
	}
	if !leaf {
		n.children = make(children[K, V], 0, 2*c.degree)
	}
	return n
}

func (n *node[K, V]) mutableFor(cow *copyOnWriteContext) *node[K, V] {
	if n.cow == cow {
		return n
	}
	out := newNode[K, V](cow, n.leaf)
	out.entries = append(out.entries, n.entries...)
	out.children = append(out.children, n.children...)
	return out
}

func (n *node[K, V]) mutableChild(i int) *node[K, V] {
	c := n.children[i].mutableFor(n.cow)
	n.children[i] = c
	return c
}

// split splits the given node at the given index.  The current node shrinks,
// and this function returns the entry that existed at that index and a new
// node containing all entries/children after it.
func (n *node[K, V]) split(i int) (Entry[K, V], *node[K, V]) {
	entry := n.entries[i]
	next := newNode[K, V](n.cow, n.leaf)
	next.entries = append(next.entries, n.entries[i+1:]...)
	n.entries.truncate(i)
	if !n.leaf {
		next.children = append(next.children, n.children[i+1:]...)
		n.children.truncate(i + 1)
	}
	return entry, next
}

// maybeSplitChild checks if a child should be split, and if so splits it.
// Returns whether or not a split occurred.
func (n *node[K, V]) maybeSplitChild(i, maxEntries int) bool {
	switch l := len(n.children[i].entries); {
	case l < maxEntries:
		return false
	case maxEntries < l:
		panic(fmt.Sprintf("btree: node holds %d entries, limit is %d", l, maxEntries))
	}
	first := n.mutableChild(i)
	entry, second := first.split(maxEntries / 2)
	n.entries.insertAt(i, entry)
	n.children.insertAt(i+1, second)
	return true
}

// insert inserts an entry into the subtree rooted at this node, making sure
// no nodes in the subtree exceed maxEntries entries.  Equal keys are placed
// after the ones already present.
func (n *node[K, V]) insert(entry Entry[K, V], maxEntries int, less LessFunc[K]) {
	i := n.entries.upperBound(entry.key, less)
	if n.leaf {
		n.entries.insertAt(i, entry)
		return
	}
	if n.maybeSplitChild(i, maxEntries) && !less(entry.key, n.entries[i].key) {
		i++ // we want second split node
	}
	n.mutableChild(i).insert(entry, maxEntries, less)
}

// get finds the given key in the subtree and returns the value of the
// shallowest matching entry.
func (n *node[K, V]) get(key K, less LessFunc[K]) (_ V, _ bool) {
	i := n.entries.lowerBound(key, less)
	if i < len(n.entries) && !less(key, n.entries[i].key) {
		return n.entries[i].value, true
	} else if !n.leaf {
		return n.children[i].get(key, less)
	}
	return
}

// first returns the first entry in the subtree.
func first[K, V any](n *node[K, V]) (_ Entry[K, V], found bool) {
	for !n.leaf {
		n = n.children[0]
	}
	if len(n.entries) == 0 {
		return
	}
	return n.entries[0], true
}

// last returns the last entry in the subtree.
func last[K, V any](n *node[K, V]) (_ Entry[K, V], found bool) {
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	if len(n.entries) == 0 {
		return
	}
	return n.entries[len(n.entries)-1], true
}

type optionalKey[K any] struct {
	key   K
	valid bool
}

func optional[K any](key K) optionalKey[K] {
	return optionalKey[K]{key: key, valid: true}
}

func empty[K any]() optionalKey[K] {
	return optionalKey[K]{}
}

// ascend calls iter in ascending order for every entry in the subtree whose
// key lies strictly between start and stop.  An invalid bound is unbounded.
// Subtrees that cannot hold such keys are not visited.  It returns false once
// iteration must stop.
func (n *node[K, V]) ascend(start, stop optionalKey[K], less LessFunc[K], iter EntryIterator[K, V]) bool {
	var index int
	if start.valid {
		index = n.entries.upperBound(start.key, less)
	}
	for i := index; i < len(n.entries); i++ {
		if !n.leaf {
			if !n.children[i].ascend(start, stop, less, iter) {
				return false
			}
		}
		if stop.valid && !less(n.entries[i].key, stop.key) {
			return false
		}
		if !iter(n.entries[i]) {
			return false
		}
	}
	if !n.leaf {
		return n.children[len(n.children)-1].ascend(start, stop, less, iter)
	}
	return true
}

// walk calls iter for every entry in the subtree whose key lies strictly
// between start and stop, visiting the entries of a node before its children.
func (n *node[K, V]) walk(start, stop optionalKey[K], less LessFunc[K], iter EntryIterator[K, V]) bool {
	lo, hi := 0, len(n.entries)
	if start.valid {
		lo = n.entries.upperBound(start.key, less)
	}
	if stop.valid {
		hi = n.entries.lowerBound(stop.key, less)
	}
	if hi < lo {
		return true
	}
	for _, entry := range n.entries[lo:hi] {
		if !iter(entry) {
			return false
		}
	}
	if n.leaf {
		return true
	}
	for i := lo; i <= hi; i++ {
		if !n.children[i].walk(start, stop, less, iter) {
			return false
		}
	}
	return true
}

// print writes the subtree in pre-order, indenting each node by its depth.
func (n *node[K, V]) print(w io.Writer, level int) {
	fmt.Fprintf(w, "%sNODE:%v\n", strings.Repeat("  ", level), n.entries)
	for _, c := range n.children {
		c.print(w, level+1)
	}
}

// BTree is a generic implementation of a B-tree.
//
// BTree stores key-value entries in an ordered structure, allowing easy
// insertion, lookup, and ordered iteration.
//
// BTree is not safe for concurrent use; callers that share a tree across
// goroutines must synchronize access themselves, or hand readers a Clone.
type BTree[K, V any] struct {
	degree int
	length int
	less   LessFunc[K]
	root   *node[K, V]
	cow    *copyOnWriteContext
}

// copyOnWriteContext pointers determine node ownership... a tree with a write
// context equivalent to a node's write context is allowed to modify that node.
// A tree whose write context does not match a node's is not allowed to modify
// it, and must create a new, writable copy (IE: it's a Clone).
//
// When doing any write operation, we maintain the invariant that the current
// node's context is equal to the context of the tree that requested the write.
// We do this by, before we descend into any node, creating a copy with the
// correct context if the contexts don't match.
type copyOnWriteContext struct {
	degree int
}

// Clone clones the tree, lazily.  Clone should not be called concurrently,
// but the original tree (t) and the new tree (t2) can be used concurrently
// once the Clone call completes.
//
// The internal tree structure of t is marked read-only and shared between t
// and t2.  Writes to both t and t2 use copy-on-write logic, creating new nodes
// whenever one of t's original nodes would have been modified.
func (t *BTree[K, V]) Clone() (t2 *BTree[K, V]) {
	// Create two entirely new copy-on-write contexts.
	// This operation effectively creates three trees:
	//   the original, shared nodes (old t.cow)
	//   the new t.cow nodes
	//   the new out.cow nodes
	cow1, cow2 := *t.cow, *t.cow
	out := *t
	t.cow = &cow1
	out.cow = &cow2
	return &out
}

// maxEntries returns the max number of entries to allow per node.
func (t *BTree[K, V]) maxEntries() int {
	return t.degree*2 - 1
}

// Set adds an entry with the given key and value to the tree.  An entry
// already holding an equal key is kept; the tree then holds both.
func (t *BTree[K, V]) Set(key K, value V) {
	t.root = t.root.mutableFor(t.cow)
	if t.maxEntries() <= len(t.root.entries) {
		entry, second := t.root.split(t.maxEntries() / 2)
		oldroot := t.root
		t.root = newNode[K, V](t.cow, false)
		t.root.entries = append(t.root.entries, entry)
		t.root.children = append(t.root.children, oldroot, second)
	}
	t.root.insert(NewEntry(key, value), t.maxEntries(), t.less)
	t.length++
}

// Get looks for the key in the tree, returning the value of the shallowest
// matching entry.  It returns (zeroValue, false) if unable to find that key.
func (t *BTree[K, V]) Get(key K) (V, bool) {
	return t.root.get(key, t.less)
}

// Has returns true if the given key is in the tree.
func (t *BTree[K, V]) Has(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// First returns the entry with the smallest key in the tree, or ErrEmptyTree
// if the tree is empty.
func (t *BTree[K, V]) First() (Entry[K, V], error) {
	entry, ok := first(t.root)
	if !ok {
		return entry, ErrEmptyTree
	}
	return entry, nil
}

// Last returns the entry with the largest key in the tree, or ErrEmptyTree if
// the tree is empty.
func (t *BTree[K, V]) Last() (Entry[K, V], error) {
	entry, ok := last(t.root)
	if !ok {
		return entry, ErrEmptyTree
	}
	return entry, nil
}

// Ascend calls the iterator for every entry in the tree in ascending order,
// until iterator returns false.  The tree must not be modified from within
// the iterator; use Iter to iterate over a snapshot instead.
func (t *BTree[K, V]) Ascend(iterator EntryIterator[K, V]) {
	t.root.ascend(empty[K](), empty[K](), t.less, iterator)
}

// AscendLessThan calls the iterator for every entry in the tree within the
// range [first, pivot), until iterator returns false.
func (t *BTree[K, V]) AscendLessThan(pivot K, iterator EntryIterator[K, V]) {
	t.root.ascend(empty[K](), optional(pivot), t.less, iterator)
}

// AscendGreaterThan calls the iterator for every entry in the tree within the
// range (pivot, last], until iterator returns false.
func (t *BTree[K, V]) AscendGreaterThan(pivot K, iterator EntryIterator[K, V]) {
	t.root.ascend(optional(pivot), empty[K](), t.less, iterator)
}

// AscendRange calls the iterator for every entry in the tree within the open
// range (greaterThan, lessThan), until iterator returns false.
func (t *BTree[K, V]) AscendRange(greaterThan, lessThan K, iterator EntryIterator[K, V]) {
	t.root.ascend(optional(greaterThan), optional(lessThan), t.less, iterator)
}

// collect gathers every entry passed to the returned iterator into out.
func collect[K, V any](out *[]Entry[K, V]) EntryIterator[K, V] {
	return func(entry Entry[K, V]) bool {
		*out = append(*out, entry)
		return true
	}
}

// Entries returns every entry in the tree in ascending order.  The returned
// slice is a snapshot; later calls to Set are not reflected in it.
func (t *BTree[K, V]) Entries() (out []Entry[K, V]) {
	out = make([]Entry[K, V], 0, t.length)
	t.Ascend(collect(&out))
	return
}

// LessThan returns every entry whose key is less than the given key, in
// ascending order.
func (t *BTree[K, V]) LessThan(key K) (out []Entry[K, V]) {
	t.AscendLessThan(key, collect(&out))
	return
}

// MoreThan returns every entry whose key is greater than the given key, in
// ascending order.
func (t *BTree[K, V]) MoreThan(key K) (out []Entry[K, V]) {
	t.AscendGreaterThan(key, collect(&out))
	return
}

// InRange returns every entry whose key lies strictly between lo and hi.  The
// bounds are swapped if lo is greater than hi.  If sorted is set, the entries
// are in ascending order; otherwise they are in the order the nodes holding
// them are visited, parents before their children.
func (t *BTree[K, V]) InRange(lo, hi K, sorted bool) (out []Entry[K, V]) {
	if t.less(hi, lo) {
		lo, hi = hi, lo
	}
	if !t.less(lo, hi) {
		return
	}
	if sorted {
		t.AscendRange(lo, hi, collect(&out))
	} else {
		t.root.walk(optional(lo), optional(hi), t.less, collect(&out))
	}
	return
}

// Len returns the number of entries currently in the tree.
func (t *BTree[K, V]) Len() int {
	return t.length
}

// Degree returns the minimum degree of the tree.
func (t *BTree[K, V]) Degree() int {
	return t.degree
}

// Height returns the number of levels in the tree; a tree whose root is a
// leaf has height 1.
func (t *BTree[K, V]) Height() (height int) {
	for n := t.root; ; n = n.children[0] {
		height++
		if n.leaf {
			return
		}
	}
}

// String renders the shape of the tree, one node per line in pre-order.
func (t *BTree[K, V]) String() string {
	var b strings.Builder
	t.root.print(&b, 0)
	return b.String()
}
