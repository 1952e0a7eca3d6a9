// Package infer classifies sample JSON values into shapes and folds many samples
// into one.
package infer

import (
	"fmt"
	"io"

	"github.com/valyala/fastjson"

	"github.com/siegeai/shapeinfer/merge"
	"github.com/siegeai/shapeinfer/shape"
)

// ParseBytes classifies a single JSON document.
func ParseBytes(b []byte) (shape.Shape, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, fmt.Errorf("parse sample: %w", err)
	}
	return FastJSON(v), nil
}

// ParseSamples classifies every JSON document in b. Documents are separated by
// optional whitespace, so JSON Lines input works as is.
func ParseSamples(b []byte) ([]shape.Shape, error) {
	var sc fastjson.Scanner
	sc.InitBytes(b)

	var res []shape.Shape
	for sc.Next() {
		res = append(res, FastJSON(sc.Value()))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("parse sample %d: %w", len(res)+1, err)
	}
	return res, nil
}

// ReadSamples reads r to the end and classifies every JSON document in it.
func ReadSamples(r io.Reader) ([]shape.Shape, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return ParseSamples(b)
}

// FastJSON classifies v. Every key of an object is required, and the elements of an
// array are folded into a single items shape.
func FastJSON(v *fastjson.Value) shape.Shape {
	switch v.Type() {
	case fastjson.TypeObject:
		return parseFastJsonObject(v.GetObject())
	case fastjson.TypeArray:
		return parseFastJsonArray(v.GetArray())
	case fastjson.TypeString:
		return shape.String
	case fastjson.TypeNumber:
		return shape.Number
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return shape.Boolean
	case fastjson.TypeNull:
		return shape.Null
	}

	panic("should be unreachable")
}

func parseFastJsonObject(o *fastjson.Object) shape.Shape {
	ps := make(map[string]shape.Shape, o.Len())
	o.Visit(func(key []byte, v *fastjson.Value) {
		k := string(key)
		// a repeated key describes the same property twice
		ps[k] = merge.Shape(ps[k], FastJSON(v))
	})
	return shape.NewObject(ps)
}

func parseFastJsonArray(vs []*fastjson.Value) shape.Shape {
	var item shape.Shape = shape.Unknown{}
	for _, v := range vs {
		item = merge.Shape(item, FastJSON(v))
	}
	return shape.NewArray(item)
}
