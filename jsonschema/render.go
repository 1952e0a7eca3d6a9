package jsonschema

import (
	"github.com/siegeai/shapeinfer/shape"
)

// Render turns s into a document carrying the draft-04 $schema identifier. An
// Unknown shape, meaning no samples at all, renders as a document that accepts
// anything.
func Render(s shape.Shape) *Document {
	d := render(s)
	d.Schema = Draft04
	return d
}

func render(s shape.Shape) *Document {
	switch v := s.(type) {
	case nil, shape.Unknown:
		return &Document{}
	case shape.Scalar:
		return &Document{Type: shape.TypeName(v)}
	case *shape.Array:
		return renderArray(v)
	case *shape.Object:
		return renderObject(v)
	case *shape.Union:
		return renderUnion(v)
	}

	panic("should be unreachable")
}

func renderArray(a *shape.Array) *Document {
	d := &Document{Type: shape.TypeName(a)}
	if items := a.Items(); items.Kind() != shape.KindUnknown {
		d.Items = render(items)
	}
	return d
}

func renderObject(o *shape.Object) *Document {
	d := &Document{Type: shape.TypeName(o)}
	if o.Len() == 0 {
		return d
	}

	d.Properties = make(map[string]*Document, o.Len())
	for _, k := range o.Keys() {
		p, _ := o.Property(k)
		d.Properties[k] = render(p)
	}
	if r := o.Required(); len(r) > 0 {
		d.Required = r
	}
	return d
}

func renderUnion(u *shape.Union) *Document {
	alts := u.Alternatives()
	d := &Document{AnyOf: make([]*Document, len(alts))}
	for i, a := range alts {
		d.AnyOf[i] = render(a)
	}
	return d
}
