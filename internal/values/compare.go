package values

import "sort"

// kindRank orders values across types:
// Exception < Null < Boolean < Number < String < Array < Object.
func kindRank(v Value) int {
	switch v.Kind() {
	case EXCEPTION_KIND:
		return 0
	case NULL_KIND:
		return 1
	case BOOLEAN_KIND:
		return 2
	case NUMBER_KIND:
		return 3
	case STRING_KIND:
		return 4
	case ARRAY_KIND:
		return 5
	default:
		return 6
	}
}

// Compare defines the total order over values. Within a type: exceptions
// order by kind name, booleans false before true, numbers numerically,
// strings and arrays lexicographically, objects by sorted key list then
// per-key values.
func Compare(a, b Value) int {
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a := a.(type) {
	case *Exception:
		return compareStrings(a.Name, b.(*Exception).Name)
	case Null:
		return 0
	case Boolean:
		bv := b.(Boolean)
		if a.Value == bv.Value {
			return 0
		}
		if !a.Value {
			return -1
		}
		return 1
	case Number:
		return a.Value.Cmp(b.(Number).Value)
	case String:
		return compareStrings(a.Value, b.(String).Value)
	case *Array:
		return compareItems(a.Items, b.(*Array).Items)
	case *Object:
		return compareObjects(a, b.(*Object))
	}
	return 0
}

func Equal(a, b Value) bool {
	// Object equality is order-insensitive, which Compare already encodes.
	return Compare(a, b) == 0
}

func compareStrings(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareItems(a, b []Value) int {
	for i := range a {
		if i >= len(b) {
			return 1
		}
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	if len(a) < len(b) {
		return -1
	}
	return 0
}

func compareObjects(a, b *Object) int {
	aKeys := sortedKeys(a)
	bKeys := sortedKeys(b)
	if c := compareItems(aKeys, bKeys); c != 0 {
		return c
	}
	for _, key := range aKeys {
		av, _ := a.Get(key)
		bv, _ := b.Get(key)
		if c := Compare(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

func sortedKeys(o *Object) []Value {
	keys := o.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return Compare(keys[i], keys[j]) < 0 })
	return keys
}
