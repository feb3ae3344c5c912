// Package position computes gap-based ordering keys for board stages.
//
// Keys are spaced integers rather than contiguous indexes, so inserting a
// stage between two neighbours needs no renumbering of the rest of the
// sequence. When repeated midpoint insertion exhausts the gap between two
// neighbours, Allocate reports ErrExhausted and the caller is expected to
// renumber the whole sequence (see Renumber) and retry once, inside the
// same transaction as the insert.
package position

import "errors"

const (
	// Base is the key assigned to the first stage of an empty sequence.
	Base int64 = 10
	// Step is the headroom left when appending or prepending.
	Step int64 = 10
	// Floor is the smallest key ever handed out.
	Floor int64 = 1
)

// ErrExhausted signals that no free key exists between the two neighbours.
var ErrExhausted = errors.New("position: gap between neighbours exhausted")

// Allocate returns an ordering key strictly between prev and next.
// A nil prev means "insert at the front", a nil next "append at the back".
func Allocate(prev, next *int64) (int64, error) {
	switch {
	case prev == nil && next == nil:
		return Base, nil
	case prev == nil:
		candidate := *next - Step
		if candidate < Floor {
			candidate = *next / 2
		}
		if candidate < Floor || candidate >= *next {
			return 0, ErrExhausted
		}
		return candidate, nil
	case next == nil:
		return *prev + Step, nil
	default:
		if *next <= *prev {
			return 0, ErrExhausted
		}
		mid := *prev + (*next-*prev)/2
		if mid == *prev || mid == *next {
			return 0, ErrExhausted
		}
		return mid, nil
	}
}

// Renumber returns n evenly spaced replacement keys (Base, 2*Base, ...)
// restoring full headroom between every pair of neighbours.
func Renumber(n int) []int64 {
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = Base * int64(i+1)
	}
	return keys
}
