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
	"fmt"
	"io"
	"math/rand"
	"net"
	"sort"
	"sync"
	"testing"

	"github.com/9rum/kvtree/internal/btree"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const bufSize = 1 << 20

// dial starts an in-process server over a fresh tree and returns a client
// connected to it.
func dial(t *testing.T, degree int) IndexClient {
	t.Helper()
	tree, err := btree.New[string, string](degree)
	require.NoError(t, err)

	lis := bufconn.Listen(bufSize)
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpc_recovery.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(grpc_recovery.StreamServerInterceptor()),
	)
	RegisterIndexServer(server, NewIndexServer(tree))
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewIndexClient(conn)
}

func keys(t *testing.T, l *structpb.ListValue) (out []string) {
	t.Helper()
	entries, err := ParseEntryList(l)
	require.NoError(t, err)
	for _, entry := range entries {
		out = append(out, entry.Key())
	}
	return
}

func TestIndexServer(t *testing.T) {
	const datasetSize = 1 << 8
	c := dial(t, 3)
	ctx := context.Background()

	for _, i := range rand.Perm(datasetSize) {
		_, err := c.Set(ctx, NewEntryStruct(fmt.Sprintf("%03d", i), fmt.Sprint(i)))
		require.NoError(t, err)
	}

	n, err := c.Len(ctx, new(emptypb.Empty))
	require.NoError(t, err)
	require.EqualValues(t, datasetSize, n.GetValue())

	v, err := c.Get(ctx, wrapperspb.String("042"))
	require.NoError(t, err)
	require.Equal(t, "42", v.GetValue())

	ok, err := c.Contains(ctx, wrapperspb.String("042"))
	require.NoError(t, err)
	require.True(t, ok.GetValue())
	ok, err = c.Contains(ctx, wrapperspb.String("zzz"))
	require.NoError(t, err)
	require.False(t, ok.GetValue())

	first, err := c.First(ctx, new(emptypb.Empty))
	require.NoError(t, err)
	key, value, err := ParseEntryStruct(first)
	require.NoError(t, err)
	require.Equal(t, "000", key)
	require.Equal(t, "0", value)

	last, err := c.Last(ctx, new(emptypb.Empty))
	require.NoError(t, err)
	key, _, err = ParseEntryStruct(last)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%03d", datasetSize-1), key)

	l, err := c.LessThan(ctx, NewKeyStruct("003"))
	require.NoError(t, err)
	require.Equal(t, []string{"000", "001", "002"}, keys(t, l))

	l, err = c.MoreThan(ctx, NewKeyStruct(fmt.Sprintf("%03d", datasetSize-3)))
	require.NoError(t, err)
	require.Equal(t, []string{fmt.Sprintf("%03d", datasetSize-2), fmt.Sprintf("%03d", datasetSize-1)}, keys(t, l))

	l, err = c.InRange(ctx, NewRangeStruct("100", "020", true))
	require.NoError(t, err)
	got := keys(t, l)
	require.Len(t, got, 79)
	require.Equal(t, "021", got[0])
	require.Equal(t, "099", got[len(got)-1])

	l, err = c.InRange(ctx, NewRangeStruct("020", "100", false))
	require.NoError(t, err)
	require.ElementsMatch(t, got, keys(t, l))
}

func TestIndexServerNotFound(t *testing.T) {
	c := dial(t, 2)
	ctx := context.Background()

	_, err := c.Get(ctx, wrapperspb.String("missing"))
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.First(ctx, new(emptypb.Empty))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	_, err = c.Last(ctx, new(emptypb.Empty))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = c.Set(ctx, NewKeyStruct("no value"))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestIndexServerAbsentArguments(t *testing.T) {
	c := dial(t, 2)
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		_, err := c.Set(ctx, NewEntryStruct(key, key))
		require.NoError(t, err)
	}

	l, err := c.LessThan(ctx, new(structpb.Struct))
	require.NoError(t, err)
	require.Empty(t, l.GetValues())

	l, err = c.MoreThan(ctx, new(structpb.Struct))
	require.NoError(t, err)
	require.Empty(t, l.GetValues())

	l, err = c.InRange(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldLo: structpb.NewStringValue("a"),
	}})
	require.NoError(t, err)
	require.Empty(t, l.GetValues())
}

func TestIndexServerDuplicates(t *testing.T) {
	c := dial(t, 2)
	ctx := context.Background()

	_, err := c.Set(ctx, NewEntryStruct("5", "a"))
	require.NoError(t, err)
	_, err = c.Set(ctx, NewEntryStruct("5", "b"))
	require.NoError(t, err)

	n, err := c.Len(ctx, new(emptypb.Empty))
	require.NoError(t, err)
	require.EqualValues(t, 2, n.GetValue())

	v, err := c.Get(ctx, wrapperspb.String("5"))
	require.NoError(t, err)
	require.Equal(t, "a", v.GetValue())
}

func TestIndexServerAscend(t *testing.T) {
	const (
		datasetSize = 1 << 10
		rounds      = 20
	)
	c := dial(t, 4)
	ctx := context.Background()

	for _, i := range rand.Perm(datasetSize) {
		_, err := c.Set(ctx, NewEntryStruct(fmt.Sprintf("%05d", 2*i), fmt.Sprint(i)))
		require.NoError(t, err)
	}

	// Keep writing odd keys while the streams below are being read.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, i := range rand.Perm(datasetSize) {
			select {
			case <-done:
				return
			default:
			}
			if _, err := c.Set(ctx, NewEntryStruct(fmt.Sprintf("%05d", 2*i+1), fmt.Sprint(i))); err != nil {
				t.Errorf("could not set: %v", err)
				return
			}
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	for r := 0; r < rounds; r++ {
		stream, err := c.Ascend(ctx, new(emptypb.Empty))
		require.NoError(t, err)
		var keys []string
		for {
			entry, err := stream.Recv()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			key, _, err := ParseEntryStruct(entry)
			require.NoError(t, err)
			keys = append(keys, key)
		}

		require.GreaterOrEqual(t, len(keys), datasetSize)
		require.LessOrEqual(t, len(keys), 2*datasetSize)
		require.True(t, sort.StringsAreSorted(keys), "round %d: keys out of order", r)
		even := 0
		for _, key := range keys {
			var n int
			_, err := fmt.Sscanf(key, "%d", &n)
			require.NoError(t, err)
			if n%2 == 0 {
				even++
			}
		}
		require.Equal(t, datasetSize, even, "round %d: preloaded entries lost", r)
	}
}
