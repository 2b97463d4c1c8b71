package memmap

import "golang.org/x/exp/constraints"

// Align rounds a up to the next multiple of b. b must be a power of two.
func Align[I constraints.Integer](a, b I) I {
	return (a + b - 1) &^ (b - 1)
}

func IsPowerOfTwo[I constraints.Integer](v I) bool {
	return v > 0 && v&(v-1) == 0
}
