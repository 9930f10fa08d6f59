// Package session reconstructs per-user browsing sessions from a raw
// click stream and summarizes them into entry, exit, transition, and
// path insights.
package session

import "time"

// Step is one click inside a session, order preserved.
type Step struct {
	ObjectID   int       `json:"object_id"`
	ObjectName string    `json:"object_name"`
	At         time.Time `json:"at"`
}

// Session is a maximal run of one user's clicks with no inter-click gap
// exceeding the inactivity threshold.
type Session struct {
	ID         string        `json:"id"`
	UserKey    string        `json:"user_key"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	ClickCount int           `json:"click_count"`
	Steps      []Step        `json:"steps"`
}

// Entry returns the session's first step.
func (s *Session) Entry() Step { return s.Steps[0] }

// Exit returns the session's last step.
func (s *Session) Exit() Step { return s.Steps[len(s.Steps)-1] }
