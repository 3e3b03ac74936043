// Package primes is the payload library wrapped by the release pipeline.
// It is intentionally trivial: the pipeline, not the math, is the point.
package primes

import "math"

// Version is the payload library version embedded in built artifacts.
const Version = "0.1.0"

// Add returns a + b.
func Add(a, b int) int {
	return a + b
}

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}

	limit := int(math.Sqrt(float64(n)))
	for i := 3; i <= limit; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// PrimesUpTo returns all primes p with 2 <= p <= n, in ascending order.
// For n < 2 it returns an empty slice.
func PrimesUpTo(n int) []int {
	out := make([]int, 0)
	for i := 2; i <= n; i++ {
		if IsPrime(i) {
			out = append(out, i)
		}
	}
	return out
}
