// Package timeseries turns event sequences into dense time-bucketed
// series, fixed-window benchmarks, and ranked per-project volume rows.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Granularity selects the bucket width of a volume series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity validates a granularity string from an external caller.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Daily, Weekly, Monthly:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("timeseries: unknown granularity %q", s)
	}
}

// Point is one bucket of a volume series.
type Point struct {
	Date  time.Time `json:"date"`
	Total int       `json:"total"`
}

// ErrInvalidRange indicates a caller bug: the range start is after its end.
var ErrInvalidRange = errors.New("timeseries: range start after end")

// Series buckets the instants falling inside [from, to] into a dense
// volume series: every bucket across the span appears, zero-valued ones
// included, in ascending date order. Bucket keys are start-of-day,
// start-of-week (Monday), or start-of-month in loc.
func Series(instants []time.Time, from, to time.Time, g Granularity, loc *time.Location) ([]Point, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}
	if _, err := ParseGranularity(string(g)); err != nil {
		return nil, err
	}

	counts := make(map[time.Time]int)
	for _, at := range instants {
		if at.Before(from) || at.After(to) {
			continue
		}
		counts[BucketStart(at, g, loc)]++
	}

	var points []Point
	last := BucketStart(to, g, loc)
	for cur := BucketStart(from, g, loc); !cur.After(last); cur = nextBucket(cur, g) {
		points = append(points, Point{Date: cur, Total: counts[cur]})
	}
	return points, nil
}

// BucketStart truncates an instant to the start of its bucket in loc.
func BucketStart(t time.Time, g Granularity, loc *time.Location) time.Time {
	t = t.In(loc)
	switch g {
	case Weekly:
		day := startOfDay(t)
		offset := (int(day.Weekday()) + 6) % 7 // Monday-anchored weeks
		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return startOfDay(t)
	}
}

func nextBucket(t time.Time, g Granularity) time.Time {
	switch g {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Summary condenses a series to its peak bucket and rounded mean.
type Summary struct {
	Peak     int       `json:"peak"`
	PeakDate time.Time `json:"peak_date"`
	Average  int       `json:"average"`
}

// Summarize returns the peak bucket (first occurrence on ties) and the
// arithmetic mean rounded to the nearest integer.
func Summarize(series []Point) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	sum := 0
	peak := series[0]
	for _, p := range series {
		sum += p.Total
		if p.Total > peak.Total {
			peak = p
		}
	}
	return Summary{
		Peak:     peak.Total,
		PeakDate: peak.Date,
		Average:  int(math.Round(float64(sum) / float64(len(series)))),
	}
}
