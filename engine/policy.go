package engine

import "math/rand"

// Policy picks the catalogue position for a fresh start, when nothing
// usable was persisted.
type Policy int

const (
	// PolicyFixed always starts at the first entry.
	PolicyFixed Policy = iota
	// PolicyRandom starts somewhere different each run.
	PolicyRandom
)

// InitialIndex decides where the first activation should land: the
// persisted position when one exists and still fits the catalogue,
// otherwise the policy's pick. intn defaults to math/rand.
func InitialIndex(prefs Prefs, policy Policy, n int, intn func(int) int) int {
	if prefs != nil {
		if i, ok := prefs.ActiveIndex(); ok && i >= 0 && i < n {
			return i
		}
	}

	if policy == PolicyRandom {
		if intn == nil {
			intn = rand.Intn
		}
		return intn(n)
	}
	return 0
}
