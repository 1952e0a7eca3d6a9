// Package shape holds the mergeable description of the JSON values observed at one
// position of a document. A Shape is immutable once built.
package shape

import (
	"sort"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
	KindUnion
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindNull:    "null",
	KindBoolean: "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindUnion:   "union",
}

// String returns the JSON Schema type name for scalar, array and object kinds.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

func (k Kind) IsScalar() bool {
	return k == KindNull || k == KindBoolean || k == KindNumber || k == KindString
}

// Shape is one of Unknown, Scalar, *Array, *Object or *Union.
type Shape interface {
	Kind() Kind
	shape()
}

// Unknown is the shape of a position where nothing was observed yet.
type Unknown struct{}

func (Unknown) Kind() Kind { return KindUnknown }
func (Unknown) shape()     {}

// Scalar is the shape of null, boolean, number and string values.
type Scalar struct {
	kind Kind
}

var (
	Null    = Scalar{kind: KindNull}
	Boolean = Scalar{kind: KindBoolean}
	Number  = Scalar{kind: KindNumber}
	String  = Scalar{kind: KindString}
)

func (s Scalar) Kind() Kind { return s.kind }
func (Scalar) shape()       {}

type Array struct {
	items Shape
}

func NewArray(items Shape) *Array {
	if items == nil {
		items = Unknown{}
	}
	return &Array{items: items}
}

// Items returns the shape of every element seen so far, Unknown for an array that
// was always empty.
func (a *Array) Items() Shape {
	if a.items == nil {
		return Unknown{}
	}
	return a.items
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) shape()     {}

// Object maps property names to their shapes. Required holds the names present in
// every sample seen so far and is always a subset of the property names.
type Object struct {
	properties map[string]Shape
	required   map[string]struct{}
}

// NewObject builds an object shape where every property is required, which is how
// a single sample describes itself.
func NewObject(props map[string]Shape) *Object {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return NewObjectRequired(props, required)
}

// NewObjectRequired builds an object shape with an explicit required set. Names in
// required that are not properties are dropped.
func NewObjectRequired(props map[string]Shape, required []string) *Object {
	o := &Object{
		properties: make(map[string]Shape, len(props)),
		required:   make(map[string]struct{}, len(required)),
	}
	for k, v := range props {
		if v == nil {
			v = Unknown{}
		}
		o.properties[k] = v
	}
	for _, k := range required {
		if _, in := o.properties[k]; in {
			o.required[k] = struct{}{}
		}
	}
	return o
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) shape()     {}

func (o *Object) Len() int { return len(o.properties) }

// Property returns the shape of the named property.
func (o *Object) Property(name string) (Shape, bool) {
	s, ok := o.properties[name]
	return s, ok
}

func (o *Object) IsRequired(name string) bool {
	_, ok := o.required[name]
	return ok
}

// Keys returns the property names in lexical order.
func (o *Object) Keys() []string {
	return sortedKeys(o.properties)
}

// Required returns the required property names in lexical order.
func (o *Object) Required() []string {
	return sortedKeys(o.required)
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Union is a set of at least two mutually incompatible alternatives. Build it with
// NewUnion.
type Union struct {
	alternatives []Shape
}

func (*Union) Kind() Kind { return KindUnion }
func (*Union) shape()     {}

// Alternatives returns a copy of the alternatives ordered by TypeName.
func (u *Union) Alternatives() []Shape {
	res := make([]Shape, len(u.alternatives))
	copy(res, u.alternatives)
	return res
}

func (u *Union) Len() int { return len(u.alternatives) }

// NewUnion flattens nested unions, drops Unknown and structural duplicates, and
// collapses to the sole remaining alternative when there is only one. It does not
// merge compatible alternatives; callers that may pass two objects or two arrays
// should go through merge.Shape instead.
func NewUnion(alts ...Shape) Shape {
	flat := make([]Shape, 0, len(alts))
	for _, a := range alts {
		switch v := a.(type) {
		case nil, Unknown:
			continue
		case *Union:
			flat = append(flat, v.alternatives...)
		default:
			flat = append(flat, v)
		}
	}

	res := make([]Shape, 0, len(flat))
	for _, a := range flat {
		dup := false
		for _, b := range res {
			if Equal(a, b) {
				dup = true
				break
			}
		}
		if !dup {
			res = append(res, a)
		}
	}

	switch len(res) {
	case 0:
		return Unknown{}
	case 1:
		return res[0]
	}

	sort.SliceStable(res, func(i, j int) bool {
		return Less(res[i], res[j])
	})
	return &Union{alternatives: res}
}

// TypeName is the JSON Schema type keyword of s, or "" for Unknown and unions.
func TypeName(s Shape) string {
	k := s.Kind()
	if k == KindUnknown || k == KindUnion {
		return ""
	}
	return k.String()
}

// Compatible reports whether a and b describe the same top level variant and so
// merge into one shape rather than into separate union alternatives.
func Compatible(a, b Shape) bool {
	if a.Kind() == KindUnion && b.Kind() == KindUnion {
		return true
	}
	return a.Kind() == b.Kind()
}
