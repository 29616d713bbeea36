/*
dates.go - Candidate start-date search for appointment intents

PURPOSE:
  For each intent, produce the ordered list of feasible calendar start
  dates. The search only proposes; it never picks, persists, or touches
  the availability map.

RULES:
  - A span of durationDays starting at the candidate must not touch a
    Saturday or Sunday.
  - Mount spans must lie inside [anchor+minDays, anchor+maxDays].
  - Rekl dates must keep the mount->rekl delay inside the configured
    range and stay inside the window extended by the maximum delay.

SEARCH ORDER:
  Mounts try the intent's home week first, then +1, -1, +2, -2; inside a
  week the weekdays are tried in a run-seeded shuffled order. Rekls try
  the exact target date, then day shifts +1, -1, +2, -2.
*/
package plan

import "time"

// DayKeyFormat is the ISO day key used by the availability map and the
// day-occupancy checks.
const DayKeyFormat = "2006-01-02"

var weekOffsets = []int{0, 1, -1, 2, -2}
var dayShifts = []int{0, 1, -1, 2, -2}

// Window is the seeding window relative to an anchor date (normally the
// run's creation day).
type Window struct {
	Anchor  time.Time
	MinDays int
	MaxDays int
}

// Start returns the first day inside the window.
func (w Window) Start() time.Time {
	return midnight(w.Anchor).AddDate(0, 0, w.MinDays)
}

// End returns the last day inside the window.
func (w Window) End() time.Time {
	return midnight(w.Anchor).AddDate(0, 0, w.MaxDays)
}

// Weeks returns the number of week buckets the window spans.
func (w Window) Weeks() int {
	n := (w.MaxDays - w.MinDays) / 7
	if n < 1 {
		n = 1
	}
	return n
}

// weekStart returns the Monday of week bucket i, counted from the Monday
// on or before the window start.
func (w Window) weekStart(i int) time.Time {
	start := w.Start()
	offset := (int(start.Weekday()) + 6) % 7 // days since Monday
	monday := start.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, i*7)
}

// MountCandidates returns the ordered feasible start dates for a mount
// intent. The list may be empty when the window is too tight.
func MountCandidates(w Window, targetWeek, durationDays int, seq *Sequence) []time.Time {
	weekdays := []int{0, 1, 2, 3, 4} // offsets from Monday
	Shuffle(seq, weekdays)

	var out []time.Time
	for _, off := range weekOffsets {
		week := targetWeek + off
		if week < 0 || week >= w.Weeks()+1 {
			continue
		}
		monday := w.weekStart(week)
		for _, wd := range weekdays {
			start := monday.AddDate(0, 0, wd)
			if fitsWindow(w, start, durationDays) && !SpanTouchesWeekend(start, durationDays) {
				out = append(out, start)
			}
		}
	}
	return out
}

// ReklCandidates returns the ordered feasible dates for a one-day rekl
// appointment derived from a mount starting at base. delayDays is the
// drawn delay; shifted candidates must keep the effective delay inside
// [delayMin, delayMax] and stay inside the window extended by delayMax.
func ReklCandidates(w Window, base time.Time, delayDays, delayMin, delayMax int) []time.Time {
	target := midnight(base).AddDate(0, 0, delayDays)
	extendedEnd := w.End().AddDate(0, 0, delayMax)

	var out []time.Time
	for _, shift := range dayShifts {
		c := target.AddDate(0, 0, shift)
		delay := delayDays + shift
		if delay < delayMin || delay > delayMax {
			continue
		}
		if c.Before(w.Start()) || c.After(extendedEnd) {
			continue
		}
		if isWeekend(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SpanTouchesWeekend reports whether any day of the span falls on a
// Saturday or Sunday.
func SpanTouchesWeekend(start time.Time, durationDays int) bool {
	for i := 0; i < durationDays; i++ {
		if isWeekend(start.AddDate(0, 0, i)) {
			return true
		}
	}
	return false
}

// SpanDayKeys returns the ISO day keys covered by a span.
func SpanDayKeys(start time.Time, durationDays int) []string {
	keys := make([]string, durationDays)
	for i := 0; i < durationDays; i++ {
		keys[i] = start.AddDate(0, 0, i).Format(DayKeyFormat)
	}
	return keys
}

func fitsWindow(w Window, start time.Time, durationDays int) bool {
	end := start.AddDate(0, 0, durationDays-1)
	return !start.Before(w.Start()) && !end.After(w.End())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
