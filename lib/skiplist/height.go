package skiplist

import (
	randv2 "math/rand/v2"
)

// HMax bounds every element's height. 32 levels comfortably covers any
// list this module is sized for (geometric(1/2) makes height > 32
// vanishingly unlikely long before n approaches 2^32).
const HMax = 32

// sampleHeight draws height from geometric(1/2): start at 1, keep
// climbing while a fair coin keeps coming up heads, capped at HMax.
// Grounded in the teacher's lib/list/x_skip_list_rand.go randomLevel,
// re-parameterized from its default P=1/4 to P=1/2 and driven by a
// per-instance seeded source instead of the global math/rand/v2 one, so
// a List's structure is reproducible across runs given the same seed.
func sampleHeight(rng *randv2.Rand) int {
	h := 1
	for h < HMax && rng.Uint64()&1 == 1 {
		h++
	}
	return h
}
