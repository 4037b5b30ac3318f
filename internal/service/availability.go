package service

import "time"

// Clinic booking grid: hourly slots between opening and closing, local to UTC.
const (
	OpenHour   = 9
	CloseHour  = 17
	SlotLength = time.Hour
)

// DaySlots returns the slot start times on the given day where a booking of
// SlotLength would not overlap any busy start (busy entries are themselves
// SlotLength long). Slots that start before now are excluded.
func DaySlots(day time.Time, busy []time.Time, now time.Time) []time.Time {
	open := time.Date(day.Year(), day.Month(), day.Day(), OpenHour, 0, 0, 0, time.UTC)
	closing := time.Date(day.Year(), day.Month(), day.Day(), CloseHour, 0, 0, 0, time.UTC)

	var slots []time.Time
	for t := open; !t.Add(SlotLength).After(closing); t = t.Add(SlotLength) {
		if t.Before(now) {
			continue
		}
		if !overlapsAny(t, t.Add(SlotLength), busy) {
			slots = append(slots, t)
		}
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []time.Time) bool {
	for _, b := range busy {
		// Half-open intervals: [start,end) overlaps [b,b+SlotLength) iff
		// start < b+SlotLength && b < end.
		if start.Before(b.Add(SlotLength)) && b.Before(end) {
			return true
		}
	}
	return false
}
