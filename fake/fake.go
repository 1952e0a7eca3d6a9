// Package fake generates random JSON values for exercising inference.
package fake

import "math/rand"

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// JSON returns a random value of any JSON kind nested at most maxDepth levels. The
// result only holds nil, bool, float64, string, []any and map[string]any.
func JSON(r *rand.Rand, maxDepth int) any {
	return jsonRecursive(r, 0, maxDepth)
}

func jsonRecursive(r *rand.Rand, depth, maxDepth int) any {
	n := 6
	if depth+1 >= maxDepth {
		n = 4
	}
	switch r.Intn(n) {
	case 0:
		return nil
	case 1:
		return r.Intn(2) == 0
	case 2:
		return r.NormFloat64() * 1000
	case 3:
		return String(r, 1+r.Intn(12))
	case 4:
		return array(r, depth, maxDepth)
	default:
		return object(r, depth, maxDepth)
	}
}

// Object returns a random object nested at most maxDepth levels. Keys are drawn
// from a small alphabet so that objects generated from the same source overlap.
func Object(r *rand.Rand, maxDepth int) map[string]any {
	return object(r, 0, maxDepth)
}

func object(r *rand.Rand, depth, maxDepth int) map[string]any {
	nkeys := r.Intn(6)
	obj := make(map[string]any, nkeys)
	for i := 0; i < nkeys; i++ {
		key := string(letters[r.Intn(8)])
		obj[key] = jsonRecursive(r, depth+1, maxDepth)
	}
	return obj
}

func array(r *rand.Rand, depth, maxDepth int) []any {
	n := r.Intn(5)
	arr := make([]any, n)
	for i := range arr {
		arr[i] = jsonRecursive(r, depth+1, maxDepth)
	}
	return arr
}

func String(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}
