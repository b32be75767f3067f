package entity

import (
	"strings"
	"time"
)

// DaySchedule is one weekday's opening window in the venue's local time.
// EndTime before StartTime means the window runs past midnight.
type DaySchedule struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

// WeeklySchedule maps lower-case English weekday names ("monday") to their window.
type WeeklySchedule map[string]DaySchedule

// For returns the schedule entry of a weekday. Missing days are disabled.
func (s WeeklySchedule) For(day time.Weekday) DaySchedule {
	return s[strings.ToLower(day.String())]
}

// IsOpen reports whether the venue accepts check-ins at now.
func (c *VenueEventConfig) IsOpen(now time.Time) bool {
	_, open := c.openWindowDate(now)

	return open
}

// EventID identifies the event occurrence running at now as "<venueID>_<YYYY-MM-DD>",
// dated by the local day the current window opened. A closed venue uses today's date.
func (c *VenueEventConfig) EventID(now time.Time) string {
	date, open := c.openWindowDate(now)
	if !open {
		date = now.In(c.location())
	}

	return c.VenueID + "_" + date.Format(time.DateOnly)
}

// openWindowDate finds the window containing now and returns the local day it opened on.
func (c *VenueEventConfig) openWindowDate(now time.Time) (time.Time, bool) {
	local := now.In(c.location())
	current := local.Hour()*60 + local.Minute()
	yesterday := local.AddDate(0, 0, -1)

	// Tail of last night's window.
	if prev := c.Schedule.For(yesterday.Weekday()); prev.Enabled {
		start, end, ok := prev.bounds()
		if ok && end < start && current <= end {
			return yesterday, true
		}
	}

	today := c.Schedule.For(local.Weekday())
	if !today.Enabled {
		return time.Time{}, false
	}
	start, end, ok := today.bounds()
	if !ok {
		return time.Time{}, false
	}

	switch {
	case start == end:
		return local, true
	case start < end:
		return local, current >= start && current <= end
	case current >= start:
		return local, true
	case current <= end:
		return yesterday, true
	default:
		return time.Time{}, false
	}
}

func (c *VenueEventConfig) location() *time.Location {
	if c.TimeZone == nil {
		return time.UTC
	}

	return c.TimeZone
}

// bounds converts the window to minutes after midnight.
func (d DaySchedule) bounds() (start, end int, ok bool) {
	start, okStart := parseClock(d.StartTime)
	end, okEnd := parseClock(d.EndTime)

	return start, end, okStart && okEnd
}

func parseClock(value string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}

	return t.Hour()*60 + t.Minute(), true
}
