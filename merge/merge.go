// Package merge combines two shapes into one that accepts everything either of them
// accepted. Merging is commutative, associative and idempotent, and never modifies
// its inputs.
package merge

import (
	"sort"

	"github.com/siegeai/shapeinfer/shape"
)

// Shape merges a and b. A nil shape behaves like shape.Unknown.
func Shape(a, b shape.Shape) shape.Shape {
	if isUnknown(a) && isUnknown(b) {
		return shape.Unknown{}
	}
	if isUnknown(b) {
		return a
	}
	if isUnknown(a) {
		return b
	}

	if a.Kind() == shape.KindUnion || b.Kind() == shape.KindUnion {
		return Union(alternatives(a), alternatives(b))
	}

	if !shape.Compatible(a, b) {
		return shape.NewUnion(a, b)
	}

	switch a.Kind() {
	case shape.KindObject:
		return Object(a.(*shape.Object), b.(*shape.Object))
	case shape.KindArray:
		return Array(a.(*shape.Array), b.(*shape.Array))
	default:
		// same scalar kind
		return a
	}
}

// All folds every shape together, left to right.
func All(ss ...shape.Shape) shape.Shape {
	var res shape.Shape = shape.Unknown{}
	for _, s := range ss {
		res = Shape(res, s)
	}
	return res
}

func isUnknown(s shape.Shape) bool {
	return s == nil || s.Kind() == shape.KindUnknown
}

func Array(a, b *shape.Array) *shape.Array {
	return shape.NewArray(Shape(a.Items(), b.Items()))
}

// Object merges the properties of a and b. Shared properties merge recursively and
// the rest carry over unchanged; see Required for the required set.
func Object(a, b *shape.Object) *shape.Object {
	props := Properties(a, b)
	return shape.NewObjectRequired(props, Required(a.Keys(), a.Required(), b.Keys(), b.Required()))
}

// Properties returns the union of the property names of a and b, merging the shapes
// of names present on both sides.
func Properties(a, b *shape.Object) map[string]shape.Shape {
	res := make(map[string]shape.Shape, max(a.Len(), b.Len()))

	for _, k := range a.Keys() {
		v, _ := a.Property(k)
		if w, in := b.Property(k); in {
			res[k] = Shape(v, w)
		} else {
			res[k] = v
		}
	}

	for _, k := range b.Keys() {
		if _, in := res[k]; in {
			continue
		}
		w, _ := b.Property(k)
		res[k] = w
	}

	return res
}

// Required narrows two required sets: a name stays required only when both sides
// have it as a property and both sides require it. The result is sorted.
func Required(aKeys, aRequired, bKeys, bRequired []string) []string {
	present := make(map[string]int, len(aKeys))
	for _, k := range aKeys {
		present[k] |= 1
	}
	for _, k := range bKeys {
		present[k] |= 2
	}

	keep := make(map[string]int, len(aRequired))
	for _, r := range aRequired {
		keep[r] |= 1
	}
	for _, r := range bRequired {
		keep[r] |= 2
	}

	res := make([]string, 0, min(len(aRequired), len(bRequired)))
	for k, v := range keep {
		if v == 3 && present[k] == 3 {
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return res
}

// Union merges two sets of alternatives. Each alternative of bs merges into the
// compatible alternative of as when there is one and is appended otherwise.
func Union(as, bs []shape.Shape) shape.Shape {
	res := make([]shape.Shape, 0, len(as)+len(bs))
	for _, a := range as {
		res = place(res, a)
	}
	for _, b := range bs {
		res = place(res, b)
	}
	return shape.NewUnion(res...)
}

func place(alts []shape.Shape, s shape.Shape) []shape.Shape {
	if isUnknown(s) {
		return alts
	}
	for i, a := range alts {
		if shape.Compatible(a, s) {
			alts[i] = Shape(a, s)
			return alts
		}
	}
	return append(alts, s)
}

func alternatives(s shape.Shape) []shape.Shape {
	if u, ok := s.(*shape.Union); ok {
		return u.Alternatives()
	}
	return []shape.Shape{s}
}
