package schedule

import (
	"iter"
	"time"
)

// Grid is the fixed step between candidate slot starts. Requested meeting
// durations vary, candidate starts do not.
const Grid = 30 * time.Minute

const DefaultDuration = 30 * time.Minute

// Hours is the daily business-hours window, in whole hours of the day.
type Hours struct {
	Open  int
	Close int
}

var DefaultHours = Hours{Open: 9, Close: 18}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// A meeting ending exactly when another starts is not a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FreeSlots enumerates, in ascending order, every grid-aligned start on the
// given calendar day where a meeting of the given duration fits entirely
// inside business hours without touching any busy interval. The sequence is
// lazy and restartable; iterating twice yields the same slots.
//
// An empty sequence means no availability. That is an ordinary outcome, not
// an error.
func FreeSlots(day time.Time, duration time.Duration, busy []Interval, hours Hours) iter.Seq[time.Time] {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return func(yield func(time.Time) bool) {
		y, m, d := day.Date()
		open := time.Date(y, m, d, hours.Open, 0, 0, 0, day.Location())
		close := time.Date(y, m, d, hours.Close, 0, 0, 0, day.Location())

		for start := open; !start.Add(duration).After(close); start = start.Add(Grid) {
			if conflicts(start, start.Add(duration), busy) {
				continue
			}
			if !yield(start) {
				return
			}
		}
	}
}

func conflicts(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

// Collect drains a slot sequence into a slice.
func Collect(slots iter.Seq[time.Time]) []time.Time {
	var out []time.Time
	for s := range slots {
		out = append(out, s)
	}
	return out
}

// Abridge trims a slot list down to at most max entries for spoken
// delivery: the first, up to max-2 evenly spaced interior ones, and the
// last. It only ever drops slots, never invents them.
func Abridge(slots []time.Time, max int) []time.Time {
	if max <= 0 || len(slots) <= max {
		return slots
	}
	out := make([]time.Time, 0, max)
	last := len(slots) - 1
	prev := -1
	for i := 0; i < max; i++ {
		idx := i * last / (max - 1)
		if idx == prev {
			continue
		}
		out = append(out, slots[idx])
		prev = idx
	}
	return out
}
