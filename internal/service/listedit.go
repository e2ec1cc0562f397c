package service

import "slices"

// Embedded lists are kept most recent first. These helpers never modify
// their input so a failed write leaves the loaded aggregate untouched.

func prepend[S ~[]E, E any](s S, e E) S {
	out := make(S, 0, len(s)+1)
	out = append(out, e)
	return append(out, s...)
}

// removeAt drops the element at i, keeping the order of the rest.
func removeAt[S ~[]E, E any](s S, i int) S {
	return slices.Delete(slices.Clone(s), i, i+1)
}
