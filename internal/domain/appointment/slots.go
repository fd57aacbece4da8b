package appointment

import (
	"strings"
	"time"

	"github.com/smartcutlabs/salon-booking/internal/models"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Interval is a booked (busy) period within a day.
type Interval struct {
	Start time.Time
	End   time.Time
}

// DayWindow resolves a barber's working window for the given date from the
// per-weekday schedule. Returns false when the barber does not work that day
// or the schedule entry is malformed.
func DayWindow(hours map[string]models.DaySchedule, date time.Time) (start, end time.Time, ok bool) {
	if hours == nil {
		return time.Time{}, time.Time{}, false
	}

	day := strings.ToLower(date.Weekday().String())
	sched, found := hours[day]
	if !found || sched.Start == "" || sched.End == "" {
		return time.Time{}, time.Time{}, false
	}

	start, okStart := atClock(date, sched.Start)
	end, okEnd := atClock(date, sched.End)
	if !okStart || !okEnd || !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func atClock(date time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), true
}

// FreeSlots sweeps the working window in service-duration steps and drops
// every step that overlaps a busy interval. Busy intervals must be sorted by
// start time.
func FreeSlots(dayStart, dayEnd time.Time, duration time.Duration, busy []Interval) []TimeSlot {
	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	idx := 0

	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(duration) {
		slotStart := cur
		slotEnd := cur.Add(duration)

		for idx < len(busy) && !busy[idx].End.After(slotStart) {
			idx++
		}

		conflict := false
		if idx < len(busy) {
			b := busy[idx]
			if slotStart.Before(b.End) && slotEnd.After(b.Start) {
				conflict = true
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}
