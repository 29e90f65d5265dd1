package ledger

import "github.com/Veraticus/muster/internal/model"

// MergeResult is the outcome of reconciling a batch into the record set.
type MergeResult struct {
	Records   []model.AttendanceRecord
	Added     int
	Updated   int
	Unchanged int
}

// Changed reports whether the merge altered the record set.
func (r MergeResult) Changed() bool {
	return r.Added > 0 || r.Updated > 0
}

// Merge reconciles incoming records into existing ones and returns the
// merged set. See Reconcile.
func Merge(existing, incoming []model.AttendanceRecord) []model.AttendanceRecord {
	return Reconcile(existing, incoming).Records
}

// Reconcile merges incoming records into existing ones by natural key.
//
// Existing order is preserved and unseen keys are appended in incoming
// order. A record whose key is already present replaces the holder in place,
// keeping the holder's id, but only when salary, day or OT hours differ;
// otherwise the holder is left untouched. When existing already holds a key
// more than once, the last holder wins. The key index is updated as the
// batch is applied, so a key repeated inside one batch never yields two rows.
func Reconcile(existing, incoming []model.AttendanceRecord) MergeResult {
	merged := make([]model.AttendanceRecord, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	result := MergeResult{Records: merged}
	if len(incoming) == 0 {
		return result
	}

	index := make(map[model.NaturalKey]int, len(merged))
	for i, r := range merged {
		index[r.Key()] = i
	}

	for _, next := range incoming {
		key := next.Key()
		pos, found := index[key]
		if !found {
			merged = append(merged, next)
			index[key] = len(merged) - 1
			result.Added++
			continue
		}

		held := merged[pos]
		if held.SameFigures(next) {
			result.Unchanged++
			continue
		}

		next.ID = held.ID
		merged[pos] = next
		result.Updated++
	}

	result.Records = merged
	return result
}
