package trainlog

// Merge combines the local collection with records fetched from the
// remote. Identity decides equality, and on a collision the fetched
// record wins so remote comment edits propagate down. The result is in
// canonical order, unbounded: retention is the store's job, applied
// when the merged set is written back.
//
// Merging the same fetched set twice yields the same result.
func Merge(local, fetched []SessionRecord) []SessionRecord {
	merged := make(map[string]SessionRecord, len(local)+len(fetched))
	for _, rec := range local {
		merged[rec.IdentityKey()] = rec
	}
	for _, rec := range fetched {
		merged[rec.IdentityKey()] = rec
	}
	out := make([]SessionRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	return sortSessions(out)
}
