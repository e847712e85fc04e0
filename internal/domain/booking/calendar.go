package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// TimeOfDay is a local wall-clock offset; 24:00 is the end of the day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts strict two-digit HH:MM.
func ParseTimeOfDay(hm string) (TimeOfDay, error) {
	if len(hm) != 5 || hm[2] != ':' {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: want HH:MM", hm)
	}
	if hm == "24:00" {
		return TimeOfDay{Hour: 24}, nil
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", hm, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// WorkingHours is a local time-of-day range. End <= Start means the range
// crosses midnight.
type WorkingHours struct {
	Start TimeOfDay
	End   TimeOfDay
}

func ParseWorkingHours(start, end string) (WorkingHours, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return WorkingHours{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return WorkingHours{}, err
	}
	if s.Hour == 24 {
		return WorkingHours{}, fmt.Errorf("working hours cannot start at %s", start)
	}
	return WorkingHours{Start: s, End: e}, nil
}

func (wh WorkingHours) CrossesMidnight() bool {
	return wh.End.minutes() <= wh.Start.minutes()
}

// Window converts the hours into absolute instants in loc for the calendar
// date carried by date. time.Date keeps wall-clock semantics across DST.
func (wh WorkingHours) Window(date time.Time, loc *time.Location) Interval {
	y, m, d := date.Date()
	start := time.Date(y, m, d, wh.Start.Hour, wh.Start.Minute, 0, 0, loc)

	endDay := d
	if wh.CrossesMidnight() {
		endDay++
	}
	end := time.Date(y, m, endDay, wh.End.Hour, wh.End.Minute, 0, 0, loc)

	return Interval{Start: start, End: end}
}

// ResourceCalendar is the directory's view of when a resource works.
type ResourceCalendar struct {
	ResourceID string
	Hours      WorkingHours
	Break      *WorkingHours

	// Inclusive calendar dates; nil means unbounded.
	ValidFrom *time.Time
	ValidTo   *time.Time

	Active bool
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// AppliesOn reports whether the resource works on the calendar date of date.
func (c ResourceCalendar) AppliesOn(date time.Time) bool {
	if !c.Active {
		return false
	}
	day := dateKey(date)
	if c.ValidFrom != nil && day < dateKey(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && day > dateKey(*c.ValidTo) {
		return false
	}
	return true
}

func (c ResourceCalendar) Window(date time.Time, loc *time.Location) Interval {
	return c.Hours.Window(date, loc)
}

// BreakWindow places the break inside the working window of date. A break
// after midnight of an overnight shift lands on the next day.
func (c ResourceCalendar) BreakWindow(date time.Time, loc *time.Location) (Interval, bool) {
	if c.Break == nil {
		return Interval{}, false
	}
	window := c.Window(date, loc)
	br := c.Break.Window(date, loc)
	if br.Start.Before(window.Start) {
		br = c.Break.Window(date.AddDate(0, 0, 1), loc)
	}
	if !Overlaps(window, br) {
		return Interval{}, false
	}
	return br, true
}

// CalendarFromModel parses the stored HH:MM columns. An empty break pair
// means no break.
func CalendarFromModel(m *models.ResourceCalendar) (*ResourceCalendar, error) {
	hours, err := ParseWorkingHours(m.StartTime, m.EndTime)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", m.ResourceID, err)
	}

	cal := &ResourceCalendar{
		ResourceID: m.ResourceID,
		Hours:      hours,
		ValidFrom:  m.ValidFrom,
		ValidTo:    m.ValidTo,
		Active:     m.Active,
	}

	if m.BreakStart != "" && m.BreakEnd != "" {
		br, err := ParseWorkingHours(m.BreakStart, m.BreakEnd)
		if err != nil {
			return nil, fmt.Errorf("resource %s break: %w", m.ResourceID, err)
		}
		cal.Break = &br
	}

	return cal, nil
}
