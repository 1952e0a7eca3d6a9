package shape

import (
	"strconv"
	"strings"
)

// Equal reports whether a and b are structurally identical.
func Equal(a, b Shape) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Unknown, Scalar:
		return true
	case *Array:
		return Equal(x.Items(), b.(*Array).Items())
	case *Object:
		y := b.(*Object)
		if len(x.properties) != len(y.properties) || len(x.required) != len(y.required) {
			return false
		}
		for k, v := range x.properties {
			w, in := y.properties[k]
			if !in || !Equal(v, w) {
				return false
			}
		}
		for k := range x.required {
			if _, in := y.required[k]; !in {
				return false
			}
		}
		return true
	case *Union:
		y := b.(*Union)
		if len(x.alternatives) != len(y.alternatives) {
			return false
		}
		// both sides are kept in Less order by NewUnion
		for i := range x.alternatives {
			if !Equal(x.alternatives[i], y.alternatives[i]) {
				return false
			}
		}
		return true
	}

	panic("should be unreachable")
}

// Less orders shapes by type name first and then by their canonical key, giving a
// total order that does not depend on how a shape was built.
func Less(a, b Shape) bool {
	ta, tb := TypeName(a), TypeName(b)
	if ta != tb {
		return ta < tb
	}
	return Key(a) < Key(b)
}

// Key is a canonical string for s. Structurally equal shapes have equal keys.
func Key(s Shape) string {
	var sb strings.Builder
	writeKey(&sb, s)
	return sb.String()
}

func writeKey(sb *strings.Builder, s Shape) {
	switch v := s.(type) {
	case nil, Unknown:
		sb.WriteString("?")
	case Scalar:
		sb.WriteString(v.kind.String())
	case *Array:
		sb.WriteString("array[")
		writeKey(sb, v.Items())
		sb.WriteString("]")
	case *Object:
		sb.WriteString("object{")
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Quote(k))
			if v.IsRequired(k) {
				sb.WriteString("!")
			}
			sb.WriteString(":")
			writeKey(sb, v.properties[k])
		}
		sb.WriteString("}")
	case *Union:
		sb.WriteString("anyOf(")
		for i, a := range v.alternatives {
			if i > 0 {
				sb.WriteString("|")
			}
			writeKey(sb, a)
		}
		sb.WriteString(")")
	default:
		panic("should be unreachable")
	}
}
