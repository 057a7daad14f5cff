package util

import (
	"golang.org/x/exp/constraints"
)

// Clamp limits v to the closed range [lo, hi].
func Clamp[T constraints.Ordered](v T, lo T, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundDiv divides n by d rounding half away from zero, for non-negative operands.
func RoundDiv[T constraints.Unsigned](n T, d T) T {
	return (n + d/2) / d
}

// Fill sets every element of a to val.
func Fill[T any](a []T, val T) {
	for i := range a {
		a[i] = val
	}
}
