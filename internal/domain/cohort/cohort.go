// Package cohort classifies user activity as new or returning against a
// scope-local first-click instant and composes per-project funnel rows.
package cohort

import (
	"errors"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

var (
	// ErrNilDataset indicates a caller bug: cohort computations require a
	// scoped dataset.
	ErrNilDataset = errors.New("cohort: nil dataset")
	// ErrInvalidRange indicates a caller bug: the range start is after
	// its end.
	ErrInvalidRange = errors.New("cohort: range start after end")
)

// IsNew reports whether the user's scope-local first click falls inside
// [from, to]. Users unknown to the scope are never new.
func IsNew(d *dataset.Dataset, userKey string, from, to time.Time) bool {
	first, ok := d.Index.FirstClickByUser[userKey]
	return ok && inRange(first, from, to)
}

// NewUsers counts users whose scope-local first click falls inside
// [from, to].
func NewUsers(d *dataset.Dataset, from, to time.Time) (int, error) {
	if d == nil {
		return 0, ErrNilDataset
	}
	if from.After(to) {
		return 0, ErrInvalidRange
	}
	count := 0
	for _, first := range d.Index.FirstClickByUser {
		if inRange(first, from, to) {
			count++
		}
	}
	return count, nil
}

// ActiveUsers counts users with at least one click inside [from, to],
// new or returning.
func ActiveUsers(d *dataset.Dataset, from, to time.Time) (int, error) {
	if d == nil {
		return 0, ErrNilDataset
	}
	if from.After(to) {
		return 0, ErrInvalidRange
	}
	active := make(map[string]bool)
	for _, click := range d.Clicks {
		if click.UserKey != "" && inRange(click.At, from, to) {
			active[click.UserKey] = true
		}
	}
	return len(active), nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
