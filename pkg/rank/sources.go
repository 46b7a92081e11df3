package rank

import (
	"cmp"
	"slices"
)

// QualityHD is the only quality tier the hosting site distinguishes.
const QualityHD = "HD"

// Sources orders s in place: HD entries first, then by descending size.
// The sort is stable, so ties keep their input order.
func Sources[S ~[]E, E any](s S, quality, size func(E) string) {
	slices.SortStableFunc(s, func(a, b E) int {
		aHD, bHD := quality(a) == QualityHD, quality(b) == QualityHD
		if aHD != bHD {
			if aHD {
				return -1
			}
			return 1
		}
		return cmp.Compare(SizeToBytes(size(b)), SizeToBytes(size(a)))
	})
}
