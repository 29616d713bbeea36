package plan

import (
	"testing"
	"time"
)

// anchor is a fixed Monday so week math in tests is easy to follow.
var anchor = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func testWindow() Window {
	return Window{Anchor: anchor, MinDays: 14, MaxDays: 42}
}

func TestMountCandidates_NeverTouchWeekend(t *testing.T) {
	w := testWindow()
	seq := NewSequence(99)

	for duration := 1; duration <= 3; duration++ {
		for week := 0; week < w.Weeks(); week++ {
			for _, c := range MountCandidates(w, week, duration, seq) {
				if SpanTouchesWeekend(c, duration) {
					t.Errorf("duration %d candidate %s spans a weekend", duration, c.Format(DayKeyFormat))
				}
			}
		}
	}
}

func TestMountCandidates_StayInsideWindow(t *testing.T) {
	w := testWindow()
	seq := NewSequence(3)

	for _, c := range MountCandidates(w, 0, 3, seq) {
		end := c.AddDate(0, 0, 2)
		if c.Before(w.Start()) || end.After(w.End()) {
			t.Errorf("span %s..%s leaves window %s..%s",
				c.Format(DayKeyFormat), end.Format(DayKeyFormat),
				w.Start().Format(DayKeyFormat), w.End().Format(DayKeyFormat))
		}
	}
}

func TestMountCandidates_HomeWeekFirst(t *testing.T) {
	// GIVEN: a target week well inside the window
	w := testWindow()
	candidates := MountCandidates(w, 2, 1, NewSequence(5))
	if len(candidates) == 0 {
		t.Fatal("expected candidates for a 1-day intent")
	}

	// THEN: the first candidate lies in the target week itself
	monday := w.weekStart(2)
	first := candidates[0]
	if first.Before(monday) || !first.Before(monday.AddDate(0, 0, 7)) {
		t.Errorf("first candidate %s not in home week starting %s",
			first.Format(DayKeyFormat), monday.Format(DayKeyFormat))
	}
}

func TestReklCandidates_RespectDelayRange(t *testing.T) {
	// GIVEN: a mount on a Wednesday and a delay range of 14..42 days
	w := testWindow()
	base := anchor.AddDate(0, 0, 16) // Wednesday inside the window

	for delay := 14; delay <= 42; delay++ {
		for _, c := range ReklCandidates(w, base, delay, 14, 42) {
			got := int(c.Sub(base).Hours() / 24)
			if got < 14 || got > 42 {
				t.Errorf("delay %d produced candidate with effective delay %d", delay, got)
			}
			if isWeekend(c) {
				t.Errorf("rekl candidate %s on a weekend", c.Format(DayKeyFormat))
			}
		}
	}
}

func TestReklCandidates_EmptyWhenDelayPinnedToWeekend(t *testing.T) {
	// GIVEN: a delay range that pins the rekl to a single day, a Saturday
	w := testWindow()
	base := anchor.AddDate(0, 0, 14) // Monday
	// Monday + 19 = Saturday; shifts +-1/2 all leave the [19,19] range.
	got := ReklCandidates(w, base, 19, 19, 19)
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}

func TestWindow_Weeks(t *testing.T) {
	cases := []struct {
		min, max, want int
	}{
		{14, 42, 4},
		{60, 90, 4},
		{0, 6, 1},
		{10, 10, 1},
	}
	for _, tc := range cases {
		w := Window{Anchor: anchor, MinDays: tc.min, MaxDays: tc.max}
		if got := w.Weeks(); got != tc.want {
			t.Errorf("Weeks(%d..%d) = %d, want %d", tc.min, tc.max, got, tc.want)
		}
	}
}

func TestSpanDayKeys(t *testing.T) {
	keys := SpanDayKeys(anchor, 3)
	want := []string{"2026-03-02", "2026-03-03", "2026-03-04"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %s, want %s", i, keys[i], want[i])
		}
	}
}
