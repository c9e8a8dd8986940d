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

// The communicator package implements an intermediary to communicate with
// the index server.  It hides the wire messages of the Index service behind
// plain Go values: a missing key is an absent result rather than an error,
// and querying the ends of an empty index reports ErrEmptyTree.
package communicator

import (
	"context"
	"errors"
	"io"

	"github.com/9rum/kvtree/index"
	"github.com/9rum/kvtree/internal/btree"
	"github.com/golang/glog"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Entry is a key-value pair held by the index server.
type Entry = index.Entry

// ErrEmptyTree is returned by First and Last when the index holds no entries.
var ErrEmptyTree = btree.ErrEmptyTree

// Communicator talks to a single index server.
type Communicator struct {
	conn   *grpc.ClientConn
	client index.IndexClient
}

// Dial connects to the index server listening at target.
func Dial(ctx context.Context, target string, opts ...grpc.DialOption) (*Communicator, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.DialContext(ctx, target, opts...)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("connected to %s", target)
	return &Communicator{
		conn:   conn,
		client: index.NewIndexClient(conn),
	}, nil
}

// New creates a new communicator over an established client.
func New(client index.IndexClient) *Communicator {
	return &Communicator{client: client}
}

// Close closes the underlying connection, if the communicator dialed it.
func (c *Communicator) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Set adds an entry with the given key and value.
func (c *Communicator) Set(ctx context.Context, key, value string) error {
	_, err := c.client.Set(ctx, index.NewEntryStruct(key, value))
	return err
}

// Get looks for the given key, returning ("", false, nil) if it is absent.
func (c *Communicator) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, wrapperspb.String(key))
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return v.GetValue(), true, nil
}

// Contains reports whether the given key is present.
func (c *Communicator) Contains(ctx context.Context, key string) (bool, error) {
	v, err := c.client.Contains(ctx, wrapperspb.String(key))
	if err != nil {
		return false, err
	}
	return v.GetValue(), nil
}

// First returns the entry with the smallest key.
func (c *Communicator) First(ctx context.Context) (Entry, error) {
	return entry(c.client.First(ctx, new(empty.Empty)))
}

// Last returns the entry with the largest key.
func (c *Communicator) Last(ctx context.Context) (Entry, error) {
	return entry(c.client.Last(ctx, new(empty.Empty)))
}

// entry decodes the response of First or Last.
func entry(s *structpb.Struct, err error) (Entry, error) {
	if status.Code(err) == codes.FailedPrecondition {
		return Entry{}, ErrEmptyTree
	} else if err != nil {
		return Entry{}, err
	}
	key, value, err := index.ParseEntryStruct(s)
	if err != nil {
		return Entry{}, err
	}
	return index.NewEntry(key, value), nil
}

// LessThan returns the entries whose key is less than the given key.
func (c *Communicator) LessThan(ctx context.Context, key string) ([]Entry, error) {
	return entries(c.client.LessThan(ctx, index.NewKeyStruct(key)))
}

// MoreThan returns the entries whose key is greater than the given key.
func (c *Communicator) MoreThan(ctx context.Context, key string) ([]Entry, error) {
	return entries(c.client.MoreThan(ctx, index.NewKeyStruct(key)))
}

// InRange returns the entries whose key lies strictly between lo and hi.
func (c *Communicator) InRange(ctx context.Context, lo, hi string, sorted bool) ([]Entry, error) {
	return entries(c.client.InRange(ctx, index.NewRangeStruct(lo, hi, sorted)))
}

func entries(l *structpb.ListValue, err error) ([]Entry, error) {
	if err != nil {
		return nil, err
	}
	return index.ParseEntryList(l)
}

// Len returns the number of entries held by the server.
func (c *Communicator) Len(ctx context.Context) (int, error) {
	n, err := c.client.Len(ctx, new(empty.Empty))
	if err != nil {
		return 0, err
	}
	return int(n.GetValue()), nil
}

// Ascend calls fn for every entry in ascending order, until fn returns false.
func (c *Communicator) Ascend(ctx context.Context, fn func(Entry) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.Ascend(ctx, new(empty.Empty))
	if err != nil {
		return err
	}
	for {
		s, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		key, value, err := index.ParseEntryStruct(s)
		if err != nil {
			return err
		}
		if !fn(index.NewEntry(key, value)) {
			return nil
		}
	}
}

// Entries returns every entry in ascending order.
func (c *Communicator) Entries(ctx context.Context) (out []Entry, err error) {
	err = c.Ascend(ctx, func(entry Entry) bool {
		out = append(out, entry)
		return true
	})
	return
}
