package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

func TestParseTimeOfDay(t *testing.T) {
	good := map[string]TimeOfDay{
		"00:00": {0, 0},
		"09:30": {9, 30},
		"23:59": {23, 59},
		"24:00": {24, 0},
	}
	for in, want := range good {
		got, err := ParseTimeOfDay(in)
		if err != nil || got != want {
			t.Fatalf("ParseTimeOfDay(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "9:30", "09:3", "0930", " 9:30", "09:30:00", "24:30", "25:00", "10:60", "ab:cd"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) should fail", in)
		}
	}
}

func TestWorkingHoursWindow(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, tokyo)

	tests := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"day shift", "10:00", "19:00", at(10, 0), at(19, 0)},
		{"whole day", "00:00", "24:00", at(0, 0), time.Date(2026, 3, 15, 0, 0, 0, 0, tokyo)},
		{"overnight", "22:00", "02:00", at(22, 0), time.Date(2026, 3, 15, 2, 0, 0, 0, tokyo)},
		{"equal bounds is a full day", "06:00", "06:00", at(6, 0), time.Date(2026, 3, 15, 6, 0, 0, 0, tokyo)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wh, err := ParseWorkingHours(tt.start, tt.end)
			if err != nil {
				t.Fatal(err)
			}
			w := wh.Window(date, tokyo)
			if !w.Start.Equal(tt.wantStart) || !w.End.Equal(tt.wantEnd) {
				t.Fatalf("window = %v..%v, want %v..%v", w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
			if !w.Valid() {
				t.Fatal("window must be a valid interval")
			}
		})
	}
}

func TestWorkingHoursWindowAcrossDST(t *testing.T) {
	ny := mustLoad("America/New_York")
	// 2026-03-08 is the spring-forward day in New York.
	date := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)
	wh, _ := ParseWorkingHours("00:00", "24:00")

	w := wh.Window(date, ny)
	if w.Duration() != 23*time.Hour {
		t.Fatalf("spring-forward day should last 23h, got %v", w.Duration())
	}
}

func TestResourceCalendarAppliesOn(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	cal := ResourceCalendar{Active: true, ValidFrom: &from, ValidTo: &to}

	cases := map[int]bool{9: false, 10: true, 14: true, 20: true, 21: false}
	for day, want := range cases {
		date := time.Date(2026, 3, day, 0, 0, 0, 0, tokyo)
		if got := cal.AppliesOn(date); got != want {
			t.Fatalf("AppliesOn(day %d) = %v, want %v", day, got, want)
		}
	}

	cal.Active = false
	if cal.AppliesOn(time.Date(2026, 3, 14, 0, 0, 0, 0, tokyo)) {
		t.Fatal("inactive calendar never applies")
	}
}

func TestBreakWindowOnOvernightShift(t *testing.T) {
	hours, _ := ParseWorkingHours("22:00", "04:00")
	br, _ := ParseWorkingHours("01:00", "01:30")
	cal := ResourceCalendar{Hours: hours, Break: &br, Active: true}

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, tokyo)
	got, ok := cal.BreakWindow(date, tokyo)
	if !ok {
		t.Fatal("break should fall inside the overnight window")
	}
	want := time.Date(2026, 3, 15, 1, 0, 0, 0, tokyo)
	if !got.Start.Equal(want) {
		t.Fatalf("break start = %v, want %v", got.Start, want)
	}
}

func TestCalendarFromModel(t *testing.T) {
	cal, err := CalendarFromModel(&models.ResourceCalendar{
		ResourceID: "cast-1",
		StartTime:  "10:00",
		EndTime:    "19:00",
		BreakStart: "13:00",
		BreakEnd:   "14:00",
		Active:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if cal.Break == nil || cal.Break.Start != (TimeOfDay{Hour: 13}) {
		t.Fatalf("break = %+v", cal.Break)
	}

	if _, err := CalendarFromModel(&models.ResourceCalendar{StartTime: "10", EndTime: "19:00"}); err == nil {
		t.Fatal("malformed hours must be rejected")
	}
}
