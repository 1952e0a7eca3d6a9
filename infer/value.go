package infer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/siegeai/shapeinfer/merge"
	"github.com/siegeai/shapeinfer/shape"
)

// ErrUnsupportedValue is returned by Value for Go values with no JSON counterpart.
var ErrUnsupportedValue = errors.New("unsupported value")

// Value classifies an already decoded JSON value, as produced by encoding/json with
// or without UseNumber. Plain Go numbers of any width are accepted too.
func Value(v any) (shape.Shape, error) {
	switch x := v.(type) {
	case nil:
		return shape.Null, nil
	case bool:
		return shape.Boolean, nil
	case string:
		return shape.String, nil
	case float64:
		return finite(x, math.IsNaN(x) || math.IsInf(x, 0))
	case float32:
		f := float64(x)
		return finite(x, math.IsNaN(f) || math.IsInf(f, 0))
	case *big.Float:
		return finite(x, x != nil && x.IsInf())
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number, *big.Int:
		return shape.Number, nil
	case []any:
		return valueArray(x)
	case map[string]any:
		return valueObject(x)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// finite rejects NaN and infinities, which have no JSON encoding.
func finite(v any, bad bool) (shape.Shape, error) {
	if bad {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, v)
	}
	return shape.Number, nil
}

func valueArray(vs []any) (shape.Shape, error) {
	var item shape.Shape = shape.Unknown{}
	for i, v := range vs {
		s, err := Value(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		item = merge.Shape(item, s)
	}
	return shape.NewArray(item), nil
}

func valueObject(m map[string]any) (shape.Shape, error) {
	ps := make(map[string]shape.Shape, len(m))
	for k, v := range m {
		s, err := Value(v)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		ps[k] = s
	}
	return shape.NewObject(ps), nil
}
