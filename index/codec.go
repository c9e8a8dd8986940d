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
	"fmt"

	"github.com/9rum/kvtree/internal/btree"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names of the messages exchanged with the Index service.
const (
	FieldKey    = "key"
	FieldValue  = "value"
	FieldLo     = "lo"
	FieldHi     = "hi"
	FieldSorted = "sorted"
)

// NewEntryStruct encodes a key-value pair as {key, value}.
func NewEntryStruct(key, value string) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldKey:   structpb.NewStringValue(key),
			FieldValue: structpb.NewStringValue(value),
		},
	}
}

// NewKeyStruct encodes a single key argument as {key}.
func NewKeyStruct(key string) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldKey: structpb.NewStringValue(key),
		},
	}
}

// NewRangeStruct encodes the arguments of InRange as {lo, hi, sorted}.
func NewRangeStruct(lo, hi string, sorted bool) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldLo:     structpb.NewStringValue(lo),
			FieldHi:     structpb.NewStringValue(hi),
			FieldSorted: structpb.NewBoolValue(sorted),
		},
	}
}

// stringField returns the string held by the named field, reporting false if
// the field is absent or not a string.
func stringField(s *structpb.Struct, name string) (string, bool) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", false
	}
	kind, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return kind.StringValue, true
}

// ParseEntryStruct decodes a {key, value} message.
func ParseEntryStruct(s *structpb.Struct) (key, value string, err error) {
	var ok bool
	if key, ok = stringField(s, FieldKey); !ok {
		return "", "", fmt.Errorf("index: entry without %q", FieldKey)
	}
	if value, ok = stringField(s, FieldValue); !ok {
		return "", "", fmt.Errorf("index: entry without %q", FieldValue)
	}
	return
}

// Entry is a key-value pair exchanged with the Index service.
type Entry = btree.Entry[string, string]

// NewEntry creates a new entry with the given key and value.
func NewEntry(key, value string) Entry {
	return btree.NewEntry(key, value)
}

// newEntryList encodes the given entries as a list of {key, value} messages.
func newEntryList(entries []Entry) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(entries))
	for _, entry := range entries {
		values = append(values, structpb.NewStructValue(NewEntryStruct(entry.Key(), entry.Value())))
	}
	return &structpb.ListValue{Values: values}
}

// ParseEntryList decodes a list of {key, value} messages.
func ParseEntryList(l *structpb.ListValue) ([]Entry, error) {
	entries := make([]Entry, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		key, value, err := ParseEntryStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("index: element %d: %w", i, err)
		}
		entries = append(entries, NewEntry(key, value))
	}
	return entries, nil
}
