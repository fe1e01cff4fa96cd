package timesheet

func findByKey(entries []Entry, k Key) (int, bool) {
	for i := range entries {
		if entries[i].Key() == k {
			return i, true
		}
	}
	return -1, false
}

// TrackChanges folds one edited entry into the change-set and returns the
// new set. originals is the baseline as fetched; changes is not modified.
//
// The candidate inherits the original's ID when it has none. It is upserted
// when it has no original or its hours or comments differ, and removed from
// the set when it matches the original again.
func TrackChanges(candidate Entry, originals []Entry, changes []Entry) []Entry {
	k := candidate.Key()
	orig, hasOrig := Entry{}, false
	if i, ok := findByKey(originals, k); ok {
		orig, hasOrig = originals[i], true
		if candidate.ID == "" {
			candidate.ID = orig.ID
		}
	}

	out := make([]Entry, 0, len(changes)+1)
	out = append(out, changes...)
	i, present := findByKey(out, k)

	if !hasOrig || candidate.Hours != orig.Hours || candidate.Comments != orig.Comments {
		if present {
			out[i] = candidate
		} else {
			out = append(out, candidate)
		}
		return out
	}

	if present {
		out = append(out[:i], out[i+1:]...)
	}
	return out
}

// ChangeSet tracks edits against a fixed baseline
type ChangeSet struct {
	originals []Entry
	changes   []Entry
}

// NewChangeSet returns an empty change-set over the given baseline
func NewChangeSet(originals []Entry) *ChangeSet {
	base := make([]Entry, len(originals))
	copy(base, originals)
	return &ChangeSet{originals: base}
}

// Track records an edit and returns the entry as stored (with ID linkage)
func (c *ChangeSet) Track(e Entry) Entry {
	c.changes = TrackChanges(e, c.originals, c.changes)
	if i, ok := findByKey(c.originals, e.Key()); ok && e.ID == "" {
		e.ID = c.originals[i].ID
	}
	return e
}

// Entries returns a copy of the pending changes in insertion order
func (c *ChangeSet) Entries() []Entry {
	out := make([]Entry, len(c.changes))
	copy(out, c.changes)
	return out
}

func (c *ChangeSet) Len() int { return len(c.changes) }

func (c *ChangeSet) Has(k Key) bool {
	_, ok := findByKey(c.changes, k)
	return ok
}

// Original returns the baseline entry for k, if any
func (c *ChangeSet) Original(k Key) (Entry, bool) {
	i, ok := findByKey(c.originals, k)
	if !ok {
		return Entry{}, false
	}
	return c.originals[i], true
}
