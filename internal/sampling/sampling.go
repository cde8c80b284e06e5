// Package sampling provides randomized selection primitives used to build
// quiz questions. All functions take an explicit Source so callers (and
// tests) control the random sequence.
package sampling

// Source yields uniform random integers in [0, n).
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Shuffle permutes s in place with a backward Fisher–Yates pass and
// returns it. Every permutation is equally likely for a uniform Source.
func Shuffle[T any](rng Source, s []T) []T {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
	return s
}

// Pick returns a uniformly random element of s. s must be non-empty.
func Pick[T any](rng Source, s []T) T {
	return s[rng.IntN(len(s))]
}

// Unique returns the distinct values of s in first-seen order.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SampleDistinct returns up to count distinct values of source, none of
// which equal any value in exclude. When fewer eligible values exist the
// result is silently shorter. source is not modified.
func SampleDistinct[T comparable](rng Source, source []T, count int, exclude ...T) []T {
	skip := make(map[T]struct{}, len(exclude))
	for _, v := range exclude {
		skip[v] = struct{}{}
	}

	pool := make([]T, 0, len(source))
	for _, v := range Unique(source) {
		if _, ok := skip[v]; ok {
			continue
		}
		pool = append(pool, v)
	}

	Shuffle(rng, pool)
	if count < 0 {
		count = 0
	}
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}
