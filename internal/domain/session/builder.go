package session

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlabs/pulse/internal/domain/dataset"
)

// DefaultGap is the inactivity threshold splitting two clicks into
// separate sessions. The value is configurable; this default should be
// revisited against real sample data.
const DefaultGap = 30 * time.Minute

// ErrInvalidGap indicates a caller bug: the inactivity threshold must be
// positive.
var ErrInvalidGap = errors.New("session: inactivity gap must be positive")

// Build groups a click stream into per-user sessions. Clicks without a
// user key are excluded entirely. Per user, clicks are ordered ascending
// by instant and split whenever the gap between consecutive clicks
// strictly exceeds the threshold; a gap exactly at the threshold stays in
// the same session. Users appear in first-encountered stream order, with
// their sessions in chronological order.
func Build(clicks []dataset.ClickEvent, names map[int]string, gap time.Duration) ([]Session, error) {
	if gap <= 0 {
		return nil, ErrInvalidGap
	}

	byUser := make(map[string][]dataset.ClickEvent)
	var userOrder []string
	for _, click := range clicks {
		if click.UserKey == "" {
			continue
		}
		if _, seen := byUser[click.UserKey]; !seen {
			userOrder = append(userOrder, click.UserKey)
		}
		byUser[click.UserKey] = append(byUser[click.UserKey], click)
	}

	var sessions []Session
	for _, user := range userOrder {
		userClicks := byUser[user]
		sort.SliceStable(userClicks, func(i, j int) bool {
			return userClicks[i].At.Before(userClicks[j].At)
		})

		var current []Step
		flush := func() {
			if len(current) == 0 {
				return
			}
			sessions = append(sessions, Session{
				ID:         uuid.NewString(),
				UserKey:    user,
				StartedAt:  current[0].At,
				Duration:   current[len(current)-1].At.Sub(current[0].At),
				ClickCount: len(current),
				Steps:      current,
			})
			current = nil
		}

		for i, click := range userClicks {
			if i > 0 && click.At.Sub(userClicks[i-1].At) > gap {
				flush()
			}
			current = append(current, Step{
				ObjectID:   click.ObjectID,
				ObjectName: names[click.ObjectID],
				At:         click.At,
			})
		}
		flush()
	}

	return sessions, nil
}
