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

// Package data provides primitives for bulk-loading a line-oriented dataset
// into an index.  Every line of the dataset holds one key and one value joined
// by a separator, e.g. "key-value"; the lines are inserted in the order they
// appear.
package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
)

// DefaultSeparator joins the key and value on a dataset line.
const DefaultSeparator = "-"

// MaxLineSize is the longest dataset line, in bytes, that Scan accepts.
const MaxLineSize = 16 << 20

// ErrMalformedLine is returned when a non-blank line does not contain the
// separator.
var ErrMalformedLine = errors.New("data: line without separator")

// Index represents the destination of a bulk load.
type Index interface {
	// Set adds an entry with the given key and value.
	Set(key, value string)
}

// Pair represents a single key-value pair read from the dataset.
type Pair struct {
	Key   string
	Value string
}

// Parse splits the given line at the first occurrence of sep.  Everything
// after it, including further separators, belongs to the value.
func Parse(line, sep string) (Pair, error) {
	key, value, found := strings.Cut(line, sep)
	if !found {
		return Pair{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return Pair{Key: key, Value: value}, nil
}

// Scan reads the dataset from r and calls fn for every pair in order.  Blank
// lines are skipped.  Scan stops at the first malformed line, after fn has
// seen every pair before it.
func Scan(r io.Reader, sep string, fn func(Pair)) error {
	if sep == "" {
		return errors.New("data: empty separator")
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		pair, err := Parse(line, sep)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineno, err)
		}
		fn(pair)
	}
	return scanner.Err()
}

// Load inserts every pair of the dataset read from r into index, returning
// the number of pairs inserted.
func Load(index Index, r io.Reader, sep string) (n int, err error) {
	err = Scan(r, sep, func(pair Pair) {
		index.Set(pair.Key, pair.Value)
		n++
		if glog.V(2) {
			glog.Infof("loaded %s%s%s", pair.Key, sep, pair.Value)
		}
	})
	return
}

// LoadFile inserts every pair of the dataset stored at path into index.  An
// unreadable file is reported rather than treated as an empty dataset.
func LoadFile(index Index, path, sep string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("data: open dataset: %w", err)
	}
	defer f.Close()

	n, err := Load(index, f, sep)
	if err != nil {
		return n, fmt.Errorf("data: load %s: %w", path, err)
	}
	glog.V(1).Infof("loaded %d pairs from %s", n, path)
	return n, nil
}
