// Package ordered provides an insertion-order-preserving key/value map and a
// closed value union (scalar, list, nested map). PayPal's classic APIs are
// sensitive to field order in both the JSON and NVP wire formats, so a plain
// map[string]any cannot carry request payloads.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a closed union: a string scalar, a list of Values, or a nested
// Map. Numeric inputs are coerced to their string representation at
// construction time, matching the wire formats which carry everything as
// text.
type Value struct {
	kind   Kind
	scalar string
	list   []Value
	m      *Map
}

// String creates a scalar Value.
func String(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// Int creates a scalar Value from an integer.
func Int(i int) Value {
	return Value{kind: KindScalar, scalar: fmt.Sprintf("%d", i)}
}

// Stringer creates a scalar Value from any fmt.Stringer (decimal amounts,
// UUIDs, and so on).
func Stringer(s fmt.Stringer) Value {
	return Value{kind: KindScalar, scalar: s.String()}
}

// List creates a list Value.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: vs}
}

// Strings creates a list Value from string elements.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{kind: KindList, list: vs}
}

// Nested creates a Value holding a nested Map.
func Nested(m *Map) Value {
	return Value{kind: KindMap, m: m}
}

// Kind reports which variant the Value holds.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar string. It is only meaningful when Kind is
// KindScalar.
func (v Value) Scalar() string { return v.scalar }

// List returns the list elements. It is only meaningful when Kind is
// KindList.
func (v Value) List() []Value { return v.list }

// Map returns the nested Map. It is only meaningful when Kind is KindMap.
func (v Value) Map() *Map { return v.m }

// MarshalJSON emits the variant's natural JSON form: scalars as strings,
// lists as arrays, nested maps as order-preserving objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		return v.m.MarshalJSON()
	}
	return nil, fmt.Errorf("ordered: cannot marshal value of kind %s", v.kind)
}

// Pair is a single key/value entry.
type Pair struct {
	Key   string
	Value Value
}

// Map is a key-unique mapping that preserves insertion order. Overwriting an
// existing key replaces its value but keeps its original position.
//
// The zero value is not usable; construct with New or FromPairs.
type Map struct {
	pairs []Pair
	index map[string]int
}

// New returns an empty Map.
func New() *Map {
	return &Map{index: make(map[string]int)}
}

// FromPairs builds a Map from pairs in order. Duplicate keys follow Set
// semantics: last value wins, first position kept.
func FromPairs(pairs ...Pair) *Map {
	m := New()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set stores value under key. An existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.pairs[i].Value = v
		return
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: key, Value: v})
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.pairs[i].Value, true
}

// GetScalar returns the scalar string under key, or "" when the key is
// absent or holds a non-scalar.
func (m *Map) GetScalar(key string) string {
	v, ok := m.Get(key)
	if !ok || v.kind != KindScalar {
		return ""
	}
	return v.scalar
}

// GetList returns the list elements under key, or nil when the key is absent
// or holds a non-list.
func (m *Map) GetList(key string) []Value {
	v, ok := m.Get(key)
	if !ok || v.kind != KindList {
		return nil
	}
	return v.list
}

// Append adds an element to the list stored under key, creating the list at
// the current end of the map on first sight.
func (m *Map) Append(key string, v Value) {
	if i, ok := m.index[key]; ok {
		cur := m.pairs[i].Value
		cur.list = append(cur.list, v)
		cur.kind = KindList
		m.pairs[i].Value = cur
		return
	}
	m.Set(key, List(v))
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.pairs) }

// Pairs returns the entries in insertion order. The returned slice is the
// Map's backing storage; callers must not mutate it.
func (m *Map) Pairs() []Pair { return m.pairs }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}
	return keys
}

// MarshalJSON emits a JSON object with keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := p.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
