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

package data

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/9rum/kvtree/internal/btree"
	"github.com/stretchr/testify/require"
)

func newTree(t testing.TB) *btree.BTree[string, string] {
	t.Helper()
	tr, err := btree.New[string, string](7)
	require.NoError(t, err)
	return tr
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		sep  string
		want Pair
		err  error
	}{
		{"to8FmxljQF-WYyMugDwOk", "-", Pair{"to8FmxljQF", "WYyMugDwOk"}, nil},
		{"key-", "-", Pair{"key", ""}, nil},
		{"-value", "-", Pair{"", "value"}, nil},
		{"a-b-c", "-", Pair{"a", "b-c"}, nil},
		{"a::b", "::", Pair{"a", "b"}, nil},
		{"no separator", "-", Pair{}, ErrMalformedLine},
	}
	for _, tt := range tests {
		got, err := Parse(tt.line, tt.sep)
		if tt.err != nil {
			require.ErrorIs(t, err, tt.err, tt.line)
			continue
		}
		require.NoError(t, err, tt.line)
		require.Equal(t, tt.want, got, tt.line)
	}
}

func TestScan(t *testing.T) {
	var got []Pair
	err := Scan(strings.NewReader("b-2\n\na-1\r\n  \nc-3"), "-", func(pair Pair) {
		got = append(got, pair)
	})
	require.NoError(t, err)
	require.Equal(t, []Pair{{"b", "2"}, {"a", "1"}, {"c", "3"}}, got)
}

func TestScanMalformed(t *testing.T) {
	var got []Pair
	err := Scan(strings.NewReader("a-1\nb-2\nbroken\nc-3\n"), "-", func(pair Pair) {
		got = append(got, pair)
	})
	require.ErrorIs(t, err, ErrMalformedLine)
	require.Contains(t, err.Error(), "line 3")
	require.Equal(t, []Pair{{"a", "1"}, {"b", "2"}}, got)

	require.Error(t, Scan(strings.NewReader("a-1"), "", func(Pair) {}))
}

func TestLoad(t *testing.T) {
	const datasetSize = 1000
	var (
		b    strings.Builder
		keys = rand.Perm(datasetSize)
	)
	for _, key := range keys {
		fmt.Fprintf(&b, "%04d-v%d\n", key, key)
	}
	tr := newTree(t)
	n, err := Load(tr, strings.NewReader(b.String()), DefaultSeparator)
	require.NoError(t, err)
	require.Equal(t, datasetSize, n)
	require.Equal(t, datasetSize, tr.Len())

	for i, entry := range tr.Entries() {
		require.Equal(t, fmt.Sprintf("%04d", i), entry.Key())
		require.Equal(t, fmt.Sprintf("v%d", i), entry.Value())
	}
}

func TestLoadKeepsDuplicates(t *testing.T) {
	tr := newTree(t)
	n, err := Load(tr, strings.NewReader("k-a\nk-b\n"), DefaultSeparator)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, tr.Entries(), 2)
}

func TestLoadLongLine(t *testing.T) {
	tr := newTree(t)
	long := strings.Repeat("x", 1<<20)
	n, err := Load(tr, strings.NewReader("k-"+long+"\nj-short\n"), DefaultSeparator)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	value, ok := tr.Get("k")
	require.True(t, ok)
	require.Len(t, value, len(long))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strings.txt")
	require.NoError(t, os.WriteFile(path, []byte("dsag-1\n432kffds-2\nnmMADRnKXx-3\n"), 0o644))

	tr := newTree(t)
	n, err := LoadFile(tr, path, DefaultSeparator)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	first, err := tr.First()
	require.NoError(t, err)
	require.Equal(t, "432kffds", first.Key())
	last, err := tr.Last()
	require.NoError(t, err)
	require.Equal(t, "nmMADRnKXx", last.Key())
}

func TestLoadFileMissing(t *testing.T) {
	tr := newTree(t)
	n, err := LoadFile(tr, filepath.Join(t.TempDir(), "missing.txt"), DefaultSeparator)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Zero(t, n)
	require.Zero(t, tr.Len())
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte("a-1\nbroken\n"), 0o644))

	tr := newTree(t)
	n, err := LoadFile(tr, path, DefaultSeparator)
	require.ErrorIs(t, err, ErrMalformedLine)
	require.Equal(t, 1, n)
	require.True(t, tr.Has("a"))
}

const benchmarkDatasetSize = 10000

func BenchmarkLoad(b *testing.B) {
	b.StopTimer()
	var sb strings.Builder
	for _, key := range rand.Perm(benchmarkDatasetSize) {
		fmt.Fprintf(&sb, "%d-%d\n", key, key)
	}
	dataset := sb.String()
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Load(newTree(b), strings.NewReader(dataset), DefaultSeparator); err != nil {
			b.Fatal(err)
		}
	}
}
