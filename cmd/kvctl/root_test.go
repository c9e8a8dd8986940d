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

package main

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/9rum/kvtree/communicator"
	"github.com/9rum/kvtree/index"
	"github.com/9rum/kvtree/internal/btree"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// bufDial starts an in-process index server and returns a dialFunc that
// connects to it regardless of the address.
func bufDial(t *testing.T) dialFunc {
	t.Helper()
	tree, err := btree.New[string, string](2)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	index.RegisterIndexServer(server, index.NewIndexServer(tree))
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	return func(ctx context.Context, addr string) (*communicator.Communicator, error) {
		return communicator.Dial(ctx, addr, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	}
}

// execute runs kvctl with the given arguments and returns its output.
func execute(t *testing.T, dial dialFunc, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(dial)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--addr", "bufnet"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestKvctl(t *testing.T) {
	dial := bufDial(t)

	_, err := execute(t, dial, "first")
	require.EqualError(t, err, "the index is empty")

	for _, kv := range [][2]string{{"banana", "yellow"}, {"apple", "red"}, {"cherry", "red"}, {"date", "brown"}} {
		_, err := execute(t, dial, "set", kv[0], kv[1])
		require.NoError(t, err)
	}

	out, err := execute(t, dial, "get", "banana")
	require.NoError(t, err)
	require.Equal(t, "yellow\n", out)

	_, err = execute(t, dial, "get", "fig")
	require.EqualError(t, err, `key "fig" not found`)

	out, err = execute(t, dial, "first")
	require.NoError(t, err)
	require.Equal(t, "apple\tred\n", out)

	out, err = execute(t, dial, "last")
	require.NoError(t, err)
	require.Equal(t, "date\tbrown\n", out)

	out, err = execute(t, dial, "less", "cherry")
	require.NoError(t, err)
	require.Equal(t, "apple\tred\nbanana\tyellow\n", out)

	out, err = execute(t, dial, "more", "banana")
	require.NoError(t, err)
	require.Equal(t, "cherry\tred\ndate\tbrown\n", out)

	out, err = execute(t, dial, "range", "date", "apple", "--sorted")
	require.NoError(t, err)
	require.Equal(t, "banana\tyellow\ncherry\tred\n", out)

	out, err = execute(t, dial, "len")
	require.NoError(t, err)
	require.Equal(t, "4\n", out)

	out, err = execute(t, dial, "dump")
	require.NoError(t, err)
	require.Equal(t, "apple\tred\nbanana\tyellow\ncherry\tred\ndate\tbrown\n", out)

	_, err = execute(t, dial, "set", "only-key")
	require.Error(t, err)
}
