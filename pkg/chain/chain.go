// Package chain implements ordered precedence: layered merges, first-wins fallbacks and
// prioritized shape-matching rules. Every precedence rule in formflow goes through it.
package chain

// Merge applies layers left to right; a key in a later layer overwrites earlier ones.
// Nil layers are skipped. The result is never nil.
func Merge[K comparable, V any](layers ...map[K]V) map[K]V {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(map[K]V, size)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// First returns the first candidate that is not the zero value.
func First[T comparable](candidates ...T) (T, bool) {
	var zero T
	for _, c := range candidates {
		if c != zero {
			return c, true
		}
	}
	return zero, false
}

// Result is the outcome of a Rule: either Matched with a value, or no match.
type Result[T any] struct {
	Value   T
	Matched bool
}

// Matched wraps v as a successful match.
func Matched[T any](v T) Result[T] {
	return Result[T]{Value: v, Matched: true}
}

// NoMatch reports that a rule does not apply.
func NoMatch[T any]() Result[T] {
	return Result[T]{}
}

// Rule inspects an input and either produces a value or declines.
type Rule[In, Out any] func(In) Result[Out]

// Try runs rules in order and returns the first match.
func Try[In, Out any](in In, rules ...Rule[In, Out]) Result[Out] {
	for _, rule := range rules {
		if res := rule(in); res.Matched {
			return res
		}
	}
	return NoMatch[Out]()
}
