package infer

import (
	"sync"

	"github.com/siegeai/shapeinfer/merge"
	"github.com/siegeai/shapeinfer/shape"
)

// Fold merges every shape into one. With no shapes the result is shape.Unknown.
func Fold(ss []shape.Shape) shape.Shape {
	return merge.All(ss...)
}

// FoldParallel merges shapes as a tree reduction spread over at most workers
// goroutines. The result equals Fold(ss).
func FoldParallel(ss []shape.Shape, workers int) shape.Shape {
	if workers <= 1 || len(ss) < 2*workers {
		return Fold(ss)
	}

	chunk := (len(ss) + workers - 1) / workers
	parts := make([]shape.Shape, 0, workers)
	for lo := 0; lo < len(ss); lo += chunk {
		parts = append(parts, nil)
	}

	wg := &sync.WaitGroup{}
	for i := range parts {
		lo := i * chunk
		hi := min(lo+chunk, len(ss))
		wg.Add(1)
		go func(i int, part []shape.Shape) {
			defer wg.Done()
			parts[i] = Fold(part)
		}(i, ss[lo:hi])
	}
	wg.Wait()

	return Fold(parts)
}

// Values classifies and folds decoded JSON values.
func Values(vs ...any) (shape.Shape, error) {
	var res shape.Shape = shape.Unknown{}
	for _, v := range vs {
		s, err := Value(v)
		if err != nil {
			return nil, err
		}
		res = merge.Shape(res, s)
	}
	return res, nil
}
