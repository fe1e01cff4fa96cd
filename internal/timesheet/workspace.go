package timesheet

import (
	"context"
	"errors"
	"sync"
)

// ErrStaleFetch is returned by Load when a newer Load started before this
// one finished; its response is dropped.
var ErrStaleFetch = errors.New("timesheet fetch superseded by a newer request")

// Source fetches and stores nested timesheet data for an employee
type Source interface {
	Fetch(ctx context.Context, start, end, employeeID string) ([]PackageGroup, error)
	Submit(ctx context.Context, payload []PackageGroup, employeeID string) error
}

// Workspace holds one employee's working set for a date range: the fetched
// baseline, the live entries being edited, and the pending change-set.
type Workspace struct {
	mu         sync.Mutex
	rng        Range
	baseline   []Entry
	entries    []Entry
	changes    *ChangeSet
	generation uint64
}

func NewWorkspace(r Range) *Workspace {
	return &Workspace{rng: r, changes: NewChangeSet(nil)}
}

func (w *Workspace) Range() Range {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rng
}

// Navigate shifts the range by its own span and returns it.
// The caller reloads afterwards.
func (w *Workspace) Navigate(dir Direction) Range {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rng = NavigateRange(dir, w.rng)
	return w.rng
}

// SetRange replaces the current range
func (w *Workspace) SetRange(r Range) {
	w.mu.Lock()
	w.rng = r
	w.mu.Unlock()
}

// Load fetches the current range and replaces the whole working set.
// If another Load begins while this one is in flight, the older response
// is discarded and ErrStaleFetch returned.
func (w *Workspace) Load(ctx context.Context, src Source, employeeID string) error {
	w.mu.Lock()
	w.generation++
	gen := w.generation
	r := w.rng
	w.mu.Unlock()

	groups, err := src.Fetch(ctx, r.Start, r.End, employeeID)
	if err != nil {
		return err
	}
	if err := Validate(groups); err != nil {
		return err
	}
	flat := Flatten(groups)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return ErrStaleFetch
	}
	w.baseline = flat
	w.entries = make([]Entry, len(flat))
	copy(w.entries, flat)
	w.changes = NewChangeSet(flat)
	return nil
}

// Edit replaces the live entry with the same key (appending when absent)
// and records the change.
func (w *Workspace) Edit(e Entry) Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	e = w.changes.Track(e)
	if i, ok := findByKey(w.entries, e.Key()); ok {
		w.entries[i] = e
	} else {
		w.entries = append(w.entries, e)
	}
	return e
}

// Entries returns a copy of the live entries
func (w *Workspace) Entries() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Changes returns a copy of the pending change-set
func (w *Workspace) Changes() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changes.Entries()
}

// Submit sends the pending changes and, on success, promotes them into the
// baseline so the change-set is empty again.
func (w *Workspace) Submit(ctx context.Context, src Source, employeeID string, status Status) (int, error) {
	w.mu.Lock()
	pending := w.changes.Entries()
	w.mu.Unlock()
	if len(pending) == 0 {
		return 0, nil
	}

	if err := src.Submit(ctx, PrepareSubmitData(pending, status), employeeID); err != nil {
		return 0, err
	}

	st := ResolveSubmitStatus(status)
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sent := range pending {
		// the stored record now matches what PrepareSubmitData sent
		e := sent
		e.Status = st
		e.LeaveReason = ""
		e.IsHoliday, e.IsVacation, e.IsWeekOff = false, false, false

		if i, ok := findByKey(w.baseline, e.Key()); ok {
			w.baseline[i] = e
		} else {
			w.baseline = append(w.baseline, e)
		}
		if i, ok := findByKey(w.entries, e.Key()); ok {
			if w.entries[i] == sent {
				w.entries[i] = e
			} else {
				w.entries[i].Status = st
			}
		}
	}
	// edits made while the request was in flight stay pending
	w.changes = NewChangeSet(w.baseline)
	for _, e := range w.entries {
		w.changes.Track(e)
	}
	return len(pending), nil
}
