package session

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// maxPathSteps bounds a reported path to a displayable length.
const maxPathSteps = 5

// ErrInvalidTopN indicates a caller bug: insight rankings need a positive
// list size.
var ErrInvalidTopN = errors.New("session: top-n must be positive")

// NameCount is a ranked name/count pair.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TransitionCount counts one adjacent object-to-object transition.
type TransitionCount struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// PathCount counts one full session path.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Insights summarizes a full session set.
type Insights struct {
	TotalSessions  int               `json:"total_sessions"`
	MeanDuration   time.Duration     `json:"mean_duration"`
	MedianDuration time.Duration     `json:"median_duration"`
	TopEntries     []NameCount       `json:"top_entries"`
	TopExits       []NameCount       `json:"top_exits"`
	TopTransitions []TransitionCount `json:"top_transitions"`
	TopPaths       []PathCount       `json:"top_paths"`
}

// Summarize computes insight rankings over the session set. Ranking ties
// break by count descending, then first-encountered order.
func Summarize(sessions []Session, topN int) (Insights, error) {
	if topN <= 0 {
		return Insights{}, ErrInvalidTopN
	}

	entries := newCounter()
	exits := newCounter()
	transitions := newCounter()
	paths := newCounter()

	var durations []time.Duration
	var total time.Duration
	for i := range sessions {
		sess := &sessions[i]
		durations = append(durations, sess.Duration)
		total += sess.Duration

		entries.add(sess.Entry().ObjectName)
		exits.add(sess.Exit().ObjectName)
		for j := 1; j < len(sess.Steps); j++ {
			transitions.add(sess.Steps[j-1].ObjectName + "\x00" + sess.Steps[j].ObjectName)
		}
		paths.add(pathKey(sess.Steps))
	}

	insights := Insights{
		TotalSessions: len(sessions),
		TopEntries:    entries.top(topN),
		TopExits:      exits.top(topN),
	}
	for _, pair := range transitions.top(topN) {
		from, to, _ := strings.Cut(pair.Name, "\x00")
		insights.TopTransitions = append(insights.TopTransitions, TransitionCount{
			From: from, To: to, Count: pair.Count,
		})
	}
	for _, p := range paths.top(topN) {
		insights.TopPaths = append(insights.TopPaths, PathCount{Path: p.Name, Count: p.Count})
	}

	if len(durations) > 0 {
		insights.MeanDuration = total / time.Duration(len(durations))
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		mid := len(durations) / 2
		if len(durations)%2 == 1 {
			insights.MedianDuration = durations[mid]
		} else {
			insights.MedianDuration = (durations[mid-1] + durations[mid]) / 2
		}
	}

	return insights, nil
}

// pathKey renders a session as its distinct-in-order object names,
// bounded to maxPathSteps.
func pathKey(steps []Step) string {
	var names []string
	for _, step := range steps {
		if len(names) > 0 && names[len(names)-1] == step.ObjectName {
			continue
		}
		names = append(names, step.ObjectName)
		if len(names) == maxPathSteps {
			break
		}
	}
	return strings.Join(names, " > ")
}

// counter tallies keys while remembering first-encountered order so that
// ranking ties stay deterministic.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []NameCount {
	ranked := make([]NameCount, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, NameCount{Name: key, Count: c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
