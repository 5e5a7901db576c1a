package release

import "sort"

// Select returns the limit newest records by PublishedAt. ISO-8601 strings
// sort chronologically as text; ties keep their input order.
func Select(records []Record, limit int) []Record {
	if limit <= 0 {
		return []Record{}
	}
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt > out[j].PublishedAt
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
