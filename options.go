// Copyright 2024 The Squash Authors
// SPDX-License-Identifier: MIT

package squash

import (
	"strconv"
	"strings"
)

// OptionType is the type of a single schema entry.
type OptionType int

const (
	OptionBool OptionType = iota
	OptionInt
	OptionSize
	OptionString
	OptionEnumString
)

// EnumValue is one (name, int value) pair of an ENUM_STRING option.
type EnumValue struct {
	Name  string
	Value int
}

// RangeConstraint bounds an INT or SIZE option. Modulus, when
// non-zero, requires (v-Min)%Modulus == 0. AllowZero admits 0 even
// when it falls outside [Min, Max].
type RangeConstraint struct {
	Min, Max  int64
	Modulus   int64
	AllowZero bool
}

func (r RangeConstraint) accepts(v int64) bool {
	if r.AllowZero && v == 0 {
		return true
	}
	if v < r.Min || v > r.Max {
		return false
	}
	if r.Modulus > 0 && (v-r.Min)%r.Modulus != 0 {
		return false
	}
	return true
}

// SchemaEntry describes one option a codec accepts.
type SchemaEntry struct {
	Name    string
	Type    OptionType
	Range   RangeConstraint // BOOL/STRING ignore this
	Enum    []EnumValue     // OptionEnumString and enumerated OptionInt
	Default Value
}

// Schema is a codec's ordered, finite list of option descriptors.
// Order defines each entry's index, which is the fast lookup path
// BackendVector implementations should prefer over by-name lookup.
type Schema struct {
	entries []SchemaEntry
	byName  map[string]int
}

// NewSchema builds a Schema from an ordered list of entries. Names are
// matched case-insensitively, so two entries differing only in case
// are rejected by panicking at registration time (a programming
// error, not a runtime condition a caller can trigger).
func NewSchema(entries ...SchemaEntry) *Schema {
	s := &Schema{entries: entries, byName: make(map[string]int, len(entries))}
	for i, e := range entries {
		key := strings.ToLower(e.Name)
		if _, dup := s.byName[key]; dup {
			panic("squash: duplicate option name in schema: " + e.Name)
		}
		s.byName[key] = i
	}
	return s
}

// Len returns the number of entries in the schema.
func (s *Schema) Len() int { return len(s.entries) }

// Entry returns the schema entry at index.
func (s *Schema) Entry(index int) SchemaEntry { return s.entries[index] }

// IndexOf resolves a case-insensitive option name to its schema index.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.byName[strings.ToLower(name)]
	return i, ok
}

// Value is a resolved option value of any schema type.
type Value struct {
	kind OptionType
	b    bool
	i    int64
	s    string
}

func BoolValue(v bool) Value         { return Value{kind: OptionBool, b: v} }
func IntValue(v int64) Value         { return Value{kind: OptionInt, i: v} }
func SizeValue(v int64) Value        { return Value{kind: OptionSize, i: v} }
func StringValue(v string) Value     { return Value{kind: OptionString, s: v} }
func EnumStringValue(v int64) Value  { return Value{kind: OptionEnumString, i: v} }

// Options is an immutable, codec-bound set of resolved option values.
// Create one with ParseOptions; every schema index always has a
// resolved value, either supplied by the caller or the schema default.
type Options struct {
	codec  string
	schema *Schema
	values []Value
}

// Codec returns the name of the codec this Options was bound to, used
// by back-ends to detect a caller passing the wrong codec's Options
// rather than exhibiting undefined behavior.
func (o *Options) Codec() string { return o.codec }

// ParseOptions resolves keys/values against schema and binds the
// result to codecName. Unknown keys yield BadParam; malformed values
// yield BadValue. Unspecified options resolve to their schema default.
func ParseOptions(codecName string, schema *Schema, keys, values []string) (*Options, Status) {
	if len(keys) != len(values) {
		return nil, BadParam
	}
	opts := &Options{
		codec:  codecName,
		schema: schema,
		values: make([]Value, schema.Len()),
	}
	for i := 0; i < schema.Len(); i++ {
		opts.values[i] = schema.entries[i].Default
	}
	for i, key := range keys {
		idx, ok := schema.IndexOf(key)
		if !ok {
			return nil, BadParam
		}
		v, status := parseValue(schema.entries[idx], values[i])
		if status != OK {
			return nil, status
		}
		opts.values[idx] = v
	}
	return opts, OK
}

func parseValue(entry SchemaEntry, raw string) (Value, Status) {
	switch entry.Type {
	case OptionBool:
		switch strings.ToLower(raw) {
		case "true":
			return BoolValue(true), OK
		case "false":
			return BoolValue(false), OK
		default:
			return Value{}, BadValue
		}
	case OptionInt, OptionSize:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, BadValue
		}
		if len(entry.Enum) > 0 {
			for _, e := range entry.Enum {
				if int64(e.Value) == n {
					if entry.Type == OptionSize {
						return SizeValue(n), OK
					}
					return IntValue(n), OK
				}
			}
			return Value{}, BadValue
		}
		if !entry.Range.accepts(n) {
			return Value{}, BadValue
		}
		if entry.Type == OptionSize {
			return SizeValue(n), OK
		}
		return IntValue(n), OK
	case OptionString:
		return StringValue(raw), OK
	case OptionEnumString:
		for _, e := range entry.Enum {
			if strings.EqualFold(e.Name, raw) {
				return EnumStringValue(int64(e.Value)), OK
			}
		}
		return Value{}, BadValue
	default:
		return Value{}, BadParam
	}
}

// verifyCodec returns BadParam if o was bound to a different codec
// than expected.
func (o *Options) verifyCodec(expected string) Status {
	if o == nil {
		return OK
	}
	if o.codec != expected {
		return BadParam
	}
	return OK
}

func (o *Options) GetBoolAt(index int) bool   { return o.values[index].b }
func (o *Options) GetIntAt(index int) int64   { return o.values[index].i }
func (o *Options) GetSizeAt(index int) int64  { return o.values[index].i }
func (o *Options) GetStringAt(index int) string {
	return o.values[index].s
}

// GetBool, GetInt, GetSize and GetString are the by-name lookup path,
// the slow path intended for parsers and tests rather than hot-path
// back-end code (which should use the *At accessors with a cached
// index).
func (o *Options) GetBool(name string) (bool, bool) {
	i, ok := o.schema.IndexOf(name)
	if !ok {
		return false, false
	}
	return o.GetBoolAt(i), true
}

func (o *Options) GetInt(name string) (int64, bool) {
	i, ok := o.schema.IndexOf(name)
	if !ok {
		return 0, false
	}
	return o.GetIntAt(i), true
}

func (o *Options) GetSize(name string) (int64, bool) {
	i, ok := o.schema.IndexOf(name)
	if !ok {
		return 0, false
	}
	return o.GetSizeAt(i), true
}

func (o *Options) GetString(name string) (string, bool) {
	i, ok := o.schema.IndexOf(name)
	if !ok {
		return "", false
	}
	return o.GetStringAt(i), true
}
