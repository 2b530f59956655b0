// Package util holds small helpers shared by the front-end passes.
package util

// IDGen hands out consecutive integers.
type IDGen func() int

// MakeIncreasingGen returns a generator yielding start, start+1, start+2, ...
func MakeIncreasingGen(start int) IDGen {
	next := start
	return func() int {
		current := next
		next++
		return current
	}
}
