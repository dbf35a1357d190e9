package values

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrPairType reports a non-array element pushed into an object.
	ErrPairType = errors.New("object accepts only [key, value] pairs")
	// ErrPairLength reports an array of the wrong length pushed into an object.
	ErrPairLength = errors.New("object pair must have exactly 2 elements")
)

type Array struct {
	Items []Value
}

func NewArray(items ...Value) *Array {
	return &Array{Items: items}
}

func (a *Array) Kind() Kind { return ARRAY_KIND }
func (a *Array) String() string {
	parts := make([]string, len(a.Items))
	for i, item := range a.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*Array) value() {}

type objectEntry struct {
	key   Value
	value Value
}

// Object is an insertion-ordered mapping from Value keys to Values. It is
// built by pushing [key, value] pairs one at a time; a later push of an
// existing key replaces the value in place.
type Object struct {
	entries []objectEntry
}

func NewObject() *Object { return &Object{} }

func (o *Object) Kind() Kind { return OBJECT_KIND }

// String renders entries sorted by the key order relation, matching the
// original rendering even though storage is insertion-ordered.
func (o *Object) String() string {
	sorted := make([]objectEntry, len(o.entries))
	copy(sorted, o.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := Compare(sorted[i].key, sorted[j].key); c != 0 {
			return c < 0
		}
		return Compare(sorted[i].value, sorted[j].value) < 0
	})
	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = e.key.String() + ": " + e.value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (*Object) value() {}

// Push appends one [key, value] pair. A malformed element fails with
// ErrPairType or ErrPairLength without invalidating pairs already pushed.
func (o *Object) Push(v Value) error {
	pair, ok := v.(*Array)
	if !ok {
		return ErrPairType
	}
	if len(pair.Items) != 2 {
		return ErrPairLength
	}
	o.Set(pair.Items[0], pair.Items[1])
	return nil
}

func (o *Object) Set(key, value Value) {
	for i, e := range o.entries {
		if Equal(e.key, key) {
			o.entries[i].value = value
			return
		}
	}
	o.entries = append(o.entries, objectEntry{key: key, value: value})
}

func (o *Object) Get(key Value) (Value, bool) {
	for _, e := range o.entries {
		if Equal(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

func (o *Object) Len() int { return len(o.entries) }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []Value {
	keys := make([]Value, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.key
	}
	return keys
}

// Merge returns a new object with the receiver's entries updated by
// other's entries; other wins on key conflicts.
func (o *Object) Merge(other *Object) *Object {
	ret := NewObject()
	for _, e := range o.entries {
		ret.Set(e.key, e.value)
	}
	for _, e := range other.entries {
		ret.Set(e.key, e.value)
	}
	return ret
}
