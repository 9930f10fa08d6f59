package timeseries

import "time"

// Window is a half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the instant falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// CalendarWindows are the fixed benchmark windows anchored on "now" in a
// given location. Calendar windows are non-overlapping; the trailing
// windows end at now.
type CalendarWindows struct {
	Today        Window
	Yesterday    Window
	ThisWeek     Window
	LastWeek     Window
	ThisMonth    Window
	LastMonth    Window
	Last30Days   Window
	Last12Months Window
}

// WindowsAt computes the benchmark windows for now in loc.
func WindowsAt(now time.Time, loc *time.Location) CalendarWindows {
	now = now.In(loc)
	day := startOfDay(now)
	week := BucketStart(now, Weekly, loc)
	month := BucketStart(now, Monthly, loc)
	end := now.Add(time.Nanosecond) // trailing windows include now itself

	return CalendarWindows{
		Today:        Window{From: day, To: day.AddDate(0, 0, 1)},
		Yesterday:    Window{From: day.AddDate(0, 0, -1), To: day},
		ThisWeek:     Window{From: week, To: week.AddDate(0, 0, 7)},
		LastWeek:     Window{From: week.AddDate(0, 0, -7), To: week},
		ThisMonth:    Window{From: month, To: month.AddDate(0, 1, 0)},
		LastMonth:    Window{From: month.AddDate(0, -1, 0), To: month},
		Last30Days:   Window{From: now.AddDate(0, 0, -30), To: end},
		Last12Months: Window{From: now.AddDate(-1, 0, 0), To: end},
	}
}

// Benchmarks are event counts over the fixed benchmark windows.
type Benchmarks struct {
	Today        int `json:"today"`
	Yesterday    int `json:"yesterday"`
	ThisWeek     int `json:"this_week"`
	LastWeek     int `json:"last_week"`
	ThisMonth    int `json:"this_month"`
	LastMonth    int `json:"last_month"`
	Last30Days   int `json:"last_30_days"`
	Last12Months int `json:"last_12_months"`
}

// BenchmarksAt counts the instants falling in each benchmark window.
func BenchmarksAt(instants []time.Time, now time.Time, loc *time.Location) Benchmarks {
	windows := WindowsAt(now, loc)
	var b Benchmarks
	for _, at := range instants {
		if windows.Today.Contains(at) {
			b.Today++
		}
		if windows.Yesterday.Contains(at) {
			b.Yesterday++
		}
		if windows.ThisWeek.Contains(at) {
			b.ThisWeek++
		}
		if windows.LastWeek.Contains(at) {
			b.LastWeek++
		}
		if windows.ThisMonth.Contains(at) {
			b.ThisMonth++
		}
		if windows.LastMonth.Contains(at) {
			b.LastMonth++
		}
		if windows.Last30Days.Contains(at) {
			b.Last30Days++
		}
		if windows.Last12Months.Contains(at) {
			b.Last12Months++
		}
	}
	return b
}
