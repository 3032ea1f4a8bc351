package domain

// EntryChange is one positional difference between two entry sequences.
// Old is nil for appended rows, New is nil for removed rows.
type EntryChange struct {
	Row int    `json:"row"`
	Old *Entry `json:"old,omitempty"`
	New *Entry `json:"new,omitempty"`
}

// Diff compares two entry sequences row by row.
// Rows are positional because the engine evaluates them top to bottom,
// so a moved row is reported as a change at both positions.
func Diff(oldEntries, newEntries []Entry) []EntryChange {
	var changes []EntryChange
	n := max(len(oldEntries), len(newEntries))
	for i := 0; i < n; i++ {
		var o, nw *Entry
		if i < len(oldEntries) {
			o = &oldEntries[i]
		}
		if i < len(newEntries) {
			nw = &newEntries[i]
		}
		if o != nil && nw != nil && o.Equal(*nw) {
			continue
		}
		changes = append(changes, EntryChange{Row: i, Old: o, New: nw})
	}
	return changes
}
