package schedule

import (
	"testing"
	"time"
)

func day(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return time.Date(2026, time.April, 1, 0, 0, 0, 0, loc)
}

func at(d time.Time, hour, min int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, d.Location())
}

func TestOverlapsHalfOpen(t *testing.T) {
	t.Parallel()

	d := day(t)
	cases := []struct {
		name                   string
		aStart, aEnd           time.Time
		bStart, bEnd           time.Time
		want                   bool
	}{
		{"identical", at(d, 10, 0), at(d, 10, 30), at(d, 10, 0), at(d, 10, 30), true},
		{"partial", at(d, 10, 0), at(d, 11, 0), at(d, 10, 30), at(d, 11, 30), true},
		{"contained", at(d, 10, 0), at(d, 12, 0), at(d, 10, 30), at(d, 11, 0), true},
		{"back to back", at(d, 10, 0), at(d, 10, 30), at(d, 10, 30), at(d, 11, 0), false},
		{"disjoint", at(d, 9, 0), at(d, 9, 30), at(d, 15, 0), at(d, 15, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			// the predicate is symmetric
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFreeSlotsExcludesBookedIncludesAdjacent(t *testing.T) {
	t.Parallel()

	d := day(t)
	busy := []Interval{{Start: at(d, 10, 0), End: at(d, 10, 30)}}

	slots := Collect(FreeSlots(d, 30*time.Minute, busy, DefaultHours))

	got := make(map[string]bool, len(slots))
	for _, s := range slots {
		got[s.Format("15:04")] = true
	}
	if got["10:00"] {
		t.Fatal("10:00 must be excluded, it is booked")
	}
	if !got["09:30"] {
		t.Fatal("09:30 must be offered")
	}
	if !got["10:30"] {
		t.Fatal("10:30 must be offered, back-to-back is not a conflict")
	}
	if !got["09:00"] {
		t.Fatal("09:00 must be offered")
	}
	if got["18:00"] {
		t.Fatal("18:00 does not fit inside business hours")
	}
	// 09:00-18:00 on a 30m grid gives 18 starts, one is booked
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
}

func TestFreeSlotsDurationMustFitBusinessHours(t *testing.T) {
	t.Parallel()

	d := day(t)
	slots := Collect(FreeSlots(d, 2*time.Hour, nil, DefaultHours))

	if len(slots) == 0 {
		t.Fatal("expected slots for an empty calendar")
	}
	last := slots[len(slots)-1]
	if want := at(d, 16, 0); !last.Equal(want) {
		t.Fatalf("last 2h slot = %s, want %s", last.Format("15:04"), want.Format("15:04"))
	}
	// the grid stays 30 minutes even for longer meetings
	if !slots[1].Equal(at(d, 9, 30)) {
		t.Fatalf("second slot = %s, want 09:30", slots[1].Format("15:04"))
	}
}

func TestFreeSlotsFullyBookedDay(t *testing.T) {
	t.Parallel()

	d := day(t)
	busy := []Interval{{Start: at(d, 9, 0), End: at(d, 18, 0)}}

	slots := Collect(FreeSlots(d, 30*time.Minute, busy, DefaultHours))
	if len(slots) != 0 {
		t.Fatalf("expected no availability, got %d slots", len(slots))
	}
}

func TestFreeSlotsRestartable(t *testing.T) {
	t.Parallel()

	d := day(t)
	seq := FreeSlots(d, 30*time.Minute, nil, DefaultHours)

	first := Collect(seq)
	second := Collect(seq)
	if len(first) != len(second) {
		t.Fatalf("re-iteration changed length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("slot %d differs between iterations", i)
		}
	}
}

func TestFreeSlotsEarlyStop(t *testing.T) {
	t.Parallel()

	d := day(t)
	var taken []time.Time
	for s := range FreeSlots(d, 30*time.Minute, nil, DefaultHours) {
		taken = append(taken, s)
		if len(taken) == 3 {
			break
		}
	}
	if len(taken) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(taken))
	}
}

func TestAbridge(t *testing.T) {
	t.Parallel()

	d := day(t)
	var slots []time.Time
	for i := 0; i < 18; i++ {
		slots = append(slots, at(d, 9, 0).Add(time.Duration(i)*Grid))
	}

	out := Abridge(slots, 4)
	if len(out) != 4 {
		t.Fatalf("expected 4 representative slots, got %d", len(out))
	}
	if !out[0].Equal(slots[0]) {
		t.Fatal("first slot must be kept")
	}
	if !out[3].Equal(slots[len(slots)-1]) {
		t.Fatal("last slot must be kept")
	}
	// every representative slot must come from the input
	seen := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		seen[s] = true
	}
	for _, s := range out {
		if !seen[s] {
			t.Fatalf("abridged slot %s was not in the input", s.Format("15:04"))
		}
	}

	short := Abridge(slots[:3], 4)
	if len(short) != 3 {
		t.Fatalf("short lists must pass through, got %d", len(short))
	}
}
