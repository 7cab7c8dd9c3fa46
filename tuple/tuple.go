// Package tuple provides the fixed-arity, heterogeneously typed container
// types the Tuple type provider recognises. Go has no built-in anonymous
// tuple type, so this mirrors the ValueTuple<T1,T2,...> family the source
// domain uses: one generic struct per arity, fields in declaration order.
package tuple

// Of2 is a 2-element tuple.
type Of2[A, B any] struct {
	V0 A
	V1 B
}

// Of3 is a 3-element tuple.
type Of3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

// Of4 is a 4-element tuple.
type Of4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}
