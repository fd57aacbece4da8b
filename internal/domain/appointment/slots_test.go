package appointment

import (
	"testing"
	"time"

	"github.com/smartcutlabs/salon-booking/internal/models"
)

var testHours = map[string]models.DaySchedule{
	"monday":   {Start: "09:00", End: "18:00"},
	"saturday": {Start: "10:00", End: "16:00"},
}

func TestDayWindow(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	start, end, ok := DayWindow(testHours, monday)
	if !ok {
		t.Fatal("expected a window on monday")
	}
	if start.Hour() != 9 || start.Minute() != 0 {
		t.Fatalf("wrong start: %v", start)
	}
	if end.Hour() != 18 || end.Minute() != 0 {
		t.Fatalf("wrong end: %v", end)
	}
	if start.Day() != 5 || end.Day() != 5 {
		t.Fatal("window must fall on the requested date")
	}

	sunday := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	if _, _, ok := DayWindow(testHours, sunday); ok {
		t.Fatal("expected no window on a day off")
	}

	if _, _, ok := DayWindow(nil, monday); ok {
		t.Fatal("expected no window for nil schedule")
	}

	bad := map[string]models.DaySchedule{"monday": {Start: "18:00", End: "09:00"}}
	if _, _, ok := DayWindow(bad, monday); ok {
		t.Fatal("expected no window when start is after end")
	}

	garbled := map[string]models.DaySchedule{"monday": {Start: "9am", End: "6pm"}}
	if _, _, ok := DayWindow(garbled, monday); ok {
		t.Fatal("expected no window for unparseable clock times")
	}
}

func TestFreeSlots_EmptyDay(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	end := day.Add(12 * time.Hour)

	slots := FreeSlots(start, end, time.Hour, nil)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d: %+v", len(slots), slots)
	}
	if slots[0].Start != "09:00" || slots[0].End != "10:00" {
		t.Fatalf("unexpected first slot: %+v", slots[0])
	}
	if slots[2].Start != "11:00" || slots[2].End != "12:00" {
		t.Fatalf("unexpected last slot: %+v", slots[2])
	}
}

func TestFreeSlots_SkipsBusyIntervals(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	end := day.Add(13 * time.Hour)

	// 10:30-11:30 straddles two hourly slots; both must disappear.
	busy := []Interval{
		{Start: day.Add(10*time.Hour + 30*time.Minute), End: day.Add(11*time.Hour + 30*time.Minute)},
	}

	slots := FreeSlots(start, end, time.Hour, busy)
	want := []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "12:00", End: "13:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d: %+v", len(want), len(slots), slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d = %+v, want %+v", i, slots[i], want[i])
		}
	}
}

func TestFreeSlots_BackToBackBookingIsNotAConflict(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	start := day.Add(9 * time.Hour)
	end := day.Add(11 * time.Hour)

	busy := []Interval{
		{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
	}

	slots := FreeSlots(start, end, time.Hour, busy)
	if len(slots) != 1 || slots[0].Start != "10:00" {
		t.Fatalf("expected only the 10:00 slot, got %+v", slots)
	}
}

func TestFreeSlots_DegenerateInputs(t *testing.T) {
	day := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	if got := FreeSlots(day, day, time.Hour, nil); len(got) != 0 {
		t.Fatalf("zero-length window must yield no slots, got %+v", got)
	}
	if got := FreeSlots(day, day.Add(30*time.Minute), time.Hour, nil); len(got) != 0 {
		t.Fatalf("window shorter than duration must yield no slots, got %+v", got)
	}
	if got := FreeSlots(day, day.Add(2*time.Hour), 0, nil); len(got) != 0 {
		t.Fatalf("non-positive duration must yield no slots, got %+v", got)
	}
}
