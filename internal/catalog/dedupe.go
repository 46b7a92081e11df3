package catalog

import "slices"

// DedupeSeries drops repeated season links. A later entry replaces an
// earlier one with the same id and takes its place at the end.
func DedupeSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		out = slices.DeleteFunc(out, func(prev Series) bool { return prev.ID == s.ID })
		out = append(out, s)
	}
	return out
}

// DedupeEpisodes drops repeated episodes, matching by id or by season and
// episode number. A later entry replaces every earlier one it collides with.
func DedupeEpisodes(episodes []Episode) []Episode {
	out := make([]Episode, 0, len(episodes))
	for _, e := range episodes {
		out = slices.DeleteFunc(out, func(prev Episode) bool {
			return prev.ID == e.ID || (prev.Season == e.Season && prev.Episode == e.Episode)
		})
		out = append(out, e)
	}
	return out
}
