// Package values defines the generic value model shared by the YAML decoder and encoder.
//
// A Value is one of a closed set of variants:
//
//	Null | Bool | Int | Float | String | Timestamp | *List | *Map | Opaque
//
// Opaque marks a host value that has no defined textual form. It exists so that
// exhaustive switches over Kind have somewhere explicit to put unsupported data
// instead of silently falling through to a string rendering.
package values

import (
	"fmt"
	"time"

	"github.com/speakeasy-api/yamlcodec/sequencedmap"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTimestamp
	KindList
	KindMap
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsScalar reports whether values of this kind are leaves.
func (k Kind) IsScalar() bool {
	return k != KindList && k != KindMap
}

// Value is implemented by every variant of the generic value model.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Null is the absence of a value.
	Null struct{}
	// Bool is a boolean scalar.
	Bool bool
	// Int is a 64-bit signed integer scalar.
	Int int64
	// Float is a 64-bit floating point scalar, non-finite values included.
	Float float64
	// String is a text scalar.
	String string
	// Timestamp is a point in time.
	Timestamp time.Time
	// Opaque carries a host value of a runtime type with no scalar rendering.
	Opaque struct {
		Value any
	}
)

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

// Map is an ordered mapping from string keys to values.
type Map struct {
	Entries *sequencedmap.Map[string, Value]
}

func (Null) Kind() Kind      { return KindNull }
func (Bool) Kind() Kind      { return KindBool }
func (Int) Kind() Kind       { return KindInt }
func (Float) Kind() Kind     { return KindFloat }
func (String) Kind() Kind    { return KindString }
func (Timestamp) Kind() Kind { return KindTimestamp }
func (*List) Kind() Kind     { return KindList }
func (*Map) Kind() Kind      { return KindMap }
func (Opaque) Kind() Kind    { return KindOpaque }

func (Null) isValue()      {}
func (Bool) isValue()      {}
func (Int) isValue()       {}
func (Float) isValue()     {}
func (String) isValue()    {}
func (Timestamp) isValue() {}
func (*List) isValue()     {}
func (*Map) isValue()      {}
func (Opaque) isValue()    {}

// NewList creates a list holding the provided items.
func NewList(items ...Value) *List {
	if items == nil {
		items = []Value{}
	}
	return &List{Items: items}
}

// NewMap creates an empty map sized for capacity entries.
func NewMap(capacity int) *Map {
	return &Map{Entries: sequencedmap.NewWithCapacity[string, Value](capacity)}
}

// Len returns the number of items in the list. nil safe.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Len returns the number of entries in the map. nil safe.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.Entries.Len()
}

// Set adds or replaces the entry for key.
func (m *Map) Set(key string, v Value) {
	if m.Entries == nil {
		m.Entries = sequencedmap.New[string, Value]()
	}
	m.Entries.Set(key, v)
}

// Time returns the timestamp as a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// Native converts a scalar value to its Go representation:
// nil, bool, int64, float64, string or time.Time.
// Containers are converted recursively into []any and *sequencedmap.Map[string, any].
// Opaque values yield the host value they wrap.
func Native(v Value) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(v)
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	case String:
		return string(v)
	case Timestamp:
		return time.Time(v)
	case *List:
		if v == nil {
			return nil
		}
		out := make([]any, 0, v.Len())
		for _, item := range v.Items {
			out = append(out, Native(item))
		}
		return out
	case *Map:
		if v == nil {
			return nil
		}
		out := sequencedmap.NewWithCapacity[string, any](v.Len())
		for k, item := range v.Entries.All() {
			out.Set(k, Native(item))
		}
		return out
	case Opaque:
		return v.Value
	default:
		panic(fmt.Sprintf("values: unknown variant %T", v))
	}
}
