// Package apispec renders shapes as OpenAPI 3.0 schemas.
package apispec

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/siegeai/shapeinfer/shape"
)

const Version = "3.0.3"

// Schema converts s. OpenAPI 3.0 has no null type, so null becomes nullable on the
// remaining alternatives.
func Schema(s shape.Shape) *openapi3.Schema {
	switch v := s.(type) {
	case nil, shape.Unknown:
		return &openapi3.Schema{}
	case shape.Scalar:
		return newScalarSchema(v)
	case *shape.Array:
		return NewArraySchema(v)
	case *shape.Object:
		return NewObjectSchema(v)
	case *shape.Union:
		return NewUnionSchema(v)
	}

	panic("should be unreachable")
}

// Document wraps s into an otherwise empty OpenAPI document as components.schemas[name].
func Document(title, name string, s shape.Shape) *openapi3.T {
	return &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: title, Version: "0.0.1"},
		Paths:   openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: Schema(s).NewRef()},
		},
	}
}

func newScalarSchema(s shape.Scalar) *openapi3.Schema {
	switch s.Kind() {
	case shape.KindString:
		return &openapi3.Schema{Type: openapi3.TypeString}
	case shape.KindNumber:
		return &openapi3.Schema{Type: openapi3.TypeNumber}
	case shape.KindBoolean:
		return &openapi3.Schema{Type: openapi3.TypeBoolean}
	default:
		return &openapi3.Schema{Nullable: true}
	}
}

func NewArraySchema(a *shape.Array) *openapi3.Schema {
	res := &openapi3.Schema{Type: openapi3.TypeArray}
	if items := a.Items(); items.Kind() != shape.KindUnknown {
		res.Items = Schema(items).NewRef()
	}
	return res
}

func NewObjectSchema(o *shape.Object) *openapi3.Schema {
	res := &openapi3.Schema{Type: openapi3.TypeObject}
	if o.Len() == 0 {
		return res
	}

	res.Properties = make(openapi3.Schemas, o.Len())
	for _, k := range o.Keys() {
		p, _ := o.Property(k)
		res.Properties[k] = Schema(p).NewRef()
	}
	if r := o.Required(); len(r) > 0 {
		res.Required = r
	}
	return res
}

func NewUnionSchema(u *shape.Union) *openapi3.Schema {
	nullable := false
	rest := make([]shape.Shape, 0, u.Len())
	for _, a := range u.Alternatives() {
		if a.Kind() == shape.KindNull {
			nullable = true
			continue
		}
		rest = append(rest, a)
	}

	if len(rest) == 1 {
		res := Schema(rest[0])
		res.Nullable = res.Nullable || nullable
		return res
	}

	res := &openapi3.Schema{Nullable: nullable}
	for _, a := range rest {
		res.AnyOf = append(res.AnyOf, Schema(a).NewRef())
	}
	return res
}
