package attendance

// FindConflict returns the first record in existing whose stored window
// overlaps proposed. Records without both times are ignored. Callers skip the
// check entirely when the proposal has no window.
func FindConflict(existing []Record, proposed Window) (Record, bool) {
	for _, r := range existing {
		w, ok := r.Window()
		if !ok {
			continue
		}
		if proposed.Overlaps(w) {
			return r, true
		}
	}
	return Record{}, false
}
