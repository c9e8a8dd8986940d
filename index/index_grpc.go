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

package index

import (
	"context"
	"errors"
	"sync"

	"github.com/9rum/kvtree/internal/btree"
	"github.com/golang/glog"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// indexServer implements the server API for Index service.
type indexServer struct {
	UnimplementedIndexServer
	mu   sync.RWMutex
	tree *btree.BTree[string, string]
}

// NewIndexServer creates a new index server that serves the given tree.  The
// server owns the tree from then on; it must not be used elsewhere.
func NewIndexServer(tree *btree.BTree[string, string]) IndexServer {
	return &indexServer{
		tree: tree,
	}
}

// Set adds an entry to the tree.
func (s *indexServer) Set(ctx context.Context, in *structpb.Struct) (*empty.Empty, error) {
	key, value, err := ParseEntryStruct(in)
	if err != nil {
		glog.Warningf("Set rejected: %v", err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	glog.V(1).Infof("Set called with key: %s", key)

	s.mu.Lock()
	s.tree.Set(key, value)
	s.mu.Unlock()

	return new(empty.Empty), nil
}

// Get looks for the given key.
func (s *indexServer) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	glog.V(1).Infof("Get called with key: %s", in.GetValue())

	s.mu.RLock()
	value, ok := s.tree.Get(in.GetValue())
	s.mu.RUnlock()

	if !ok {
		return nil, status.Errorf(codes.NotFound, "key %q not found", in.GetValue())
	}
	return wrapperspb.String(value), nil
}

// Contains reports whether the given key is in the tree.
func (s *indexServer) Contains(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	glog.V(1).Infof("Contains called with key: %s", in.GetValue())

	s.mu.RLock()
	defer s.mu.RUnlock()

	return wrapperspb.Bool(s.tree.Has(in.GetValue())), nil
}

// First returns the entry with the smallest key.
func (s *indexServer) First(ctx context.Context, in *empty.Empty) (*structpb.Struct, error) {
	glog.V(1).Info("First called")

	s.mu.RLock()
	entry, err := s.tree.First()
	s.mu.RUnlock()

	return entryOrStatus(entry, err)
}

// Last returns the entry with the largest key.
func (s *indexServer) Last(ctx context.Context, in *empty.Empty) (*structpb.Struct, error) {
	glog.V(1).Info("Last called")

	s.mu.RLock()
	entry, err := s.tree.Last()
	s.mu.RUnlock()

	return entryOrStatus(entry, err)
}

// entryOrStatus converts the result of First or Last.
func entryOrStatus(entry btree.Entry[string, string], err error) (*structpb.Struct, error) {
	switch {
	case errors.Is(err, btree.ErrEmptyTree):
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}
	return NewEntryStruct(entry.Key(), entry.Value()), nil
}

// LessThan returns the entries whose key is less than the given key.  A
// request without a key yields no entries.
func (s *indexServer) LessThan(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	key, ok := stringField(in, FieldKey)
	if !ok {
		return newEntryList(nil), nil
	}
	glog.V(1).Infof("LessThan called with key: %s", key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return newEntryList(s.tree.LessThan(key)), nil
}

// MoreThan returns the entries whose key is greater than the given key.  A
// request without a key yields no entries.
func (s *indexServer) MoreThan(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	key, ok := stringField(in, FieldKey)
	if !ok {
		return newEntryList(nil), nil
	}
	glog.V(1).Infof("MoreThan called with key: %s", key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return newEntryList(s.tree.MoreThan(key)), nil
}

// InRange returns the entries whose key lies strictly between the given
// bounds.  A request missing either bound yields no entries.
func (s *indexServer) InRange(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	lo, ok := stringField(in, FieldLo)
	if !ok {
		return newEntryList(nil), nil
	}
	hi, ok := stringField(in, FieldHi)
	if !ok {
		return newEntryList(nil), nil
	}
	sorted := in.GetFields()[FieldSorted].GetBoolValue()
	glog.V(1).Infof("InRange called with lo: %s hi: %s sorted: %t", lo, hi, sorted)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return newEntryList(s.tree.InRange(lo, hi, sorted)), nil
}

// Len returns the number of entries in the tree.
func (s *indexServer) Len(ctx context.Context, in *empty.Empty) (*wrapperspb.Int64Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return wrapperspb.Int64(int64(s.tree.Len())), nil
}

// Ascend streams every entry in ascending order.  The stream reflects the
// tree as it was when the call arrived; concurrent writes are not blocked
// while it is being sent.
func (s *indexServer) Ascend(in *empty.Empty, stream Index_AscendServer) error {
	glog.V(1).Info("Ascend called")

	// Iter freezes the current nodes, which is a write to the tree.
	s.mu.Lock()
	it := s.tree.Iter()
	s.mu.Unlock()

	for it.Next() {
		if err := stream.Context().Err(); err != nil {
			return status.FromContextError(err).Err()
		}
		entry := it.Entry()
		if err := stream.Send(NewEntryStruct(entry.Key(), entry.Value())); err != nil {
			return err
		}
	}
	return nil
}
