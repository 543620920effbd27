package model

import (
	"testing"
	"time"
)

func TestForWeekdayDaySpecificWins(t *testing.T) {
	oh := OperatingHours{
		Monday: &Window{Start: "06:00", End: "12:00"},
		Start:  "09:00",
		End:    "22:00",
	}
	w, open := oh.ForWeekday(time.Monday)
	if !open {
		t.Fatal("expected monday to be open")
	}
	if w.Start != "06:00" || w.End != "12:00" {
		t.Fatalf("expected day-specific window, got %s-%s", w.Start, w.End)
	}
}

func TestForWeekdayGeneralFallback(t *testing.T) {
	oh := OperatingHours{
		Monday: &Window{Start: "06:00", End: "12:00"},
		Start:  "09:00",
		End:    "22:00",
	}
	w, open := oh.ForWeekday(time.Tuesday)
	if !open {
		t.Fatal("expected tuesday to fall back to general hours")
	}
	if w.Start != "09:00" || w.End != "22:00" {
		t.Fatalf("expected general window, got %s-%s", w.Start, w.End)
	}
}

func TestForWeekdayClosed(t *testing.T) {
	cases := []struct {
		name string
		oh   OperatingHours
		day  time.Weekday
	}{
		{"no hours at all", OperatingHours{}, time.Wednesday},
		{"day entry with empty strings", OperatingHours{Sunday: &Window{}}, time.Sunday},
		{"only partial general hours", OperatingHours{Start: "09:00"}, time.Friday},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, open := tc.oh.ForWeekday(tc.day); open {
				t.Fatal("expected closed day")
			}
		})
	}
}
