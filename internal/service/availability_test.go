package service

import (
	"testing"
	"time"
)

func day(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func TestDaySlots_FullGrid(t *testing.T) {
	// No busy slots, "now" well before opening: 9..16 inclusive.
	slots := DaySlots(day(0), nil, day(0))
	if len(slots) != CloseHour-OpenHour {
		t.Fatalf("got %d slots, want %d", len(slots), CloseHour-OpenHour)
	}
	if slots[0].Hour() != OpenHour {
		t.Fatalf("first slot at %d, want %d", slots[0].Hour(), OpenHour)
	}
	last := slots[len(slots)-1]
	if !last.Add(SlotLength).Equal(day(CloseHour)) {
		t.Fatalf("last slot %v must end at closing", last)
	}
}

func TestDaySlots_BusyRemoved(t *testing.T) {
	busy := []time.Time{day(10), day(14)}
	slots := DaySlots(day(0), busy, day(0))

	for _, s := range slots {
		if s.Hour() == 10 || s.Hour() == 14 {
			t.Fatalf("busy hour %d still offered", s.Hour())
		}
	}
	if len(slots) != CloseHour-OpenHour-2 {
		t.Fatalf("got %d slots, want %d", len(slots), CloseHour-OpenHour-2)
	}
}

func TestDaySlots_PastExcluded(t *testing.T) {
	// At 12:30, the 9-12 slots are gone and 13+ remain (12:00 started already).
	now := day(12).Add(30 * time.Minute)
	slots := DaySlots(day(0), nil, now)

	if len(slots) == 0 {
		t.Fatal("expected afternoon slots")
	}
	if slots[0].Hour() != 13 {
		t.Fatalf("first slot at %d, want 13", slots[0].Hour())
	}
}

func TestOverlapsAny_HalfOpen(t *testing.T) {
	busy := []time.Time{day(10)}

	// Adjacent slots do not overlap.
	if overlapsAny(day(9), day(10), busy) {
		t.Fatal("[9,10) must not overlap [10,11)")
	}
	if overlapsAny(day(11), day(12), busy) {
		t.Fatal("[11,12) must not overlap [10,11)")
	}
	// The same slot does.
	if !overlapsAny(day(10), day(11), busy) {
		t.Fatal("[10,11) must overlap itself")
	}
	// A partial overlap does too.
	if !overlapsAny(day(10).Add(30*time.Minute), day(11).Add(30*time.Minute), busy) {
		t.Fatal("[10:30,11:30) must overlap [10,11)")
	}
}
