package schedule

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	weekly := &Weekly{
		Weekday:      time.Monday,
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakStart:   "13:00",
		BreakEnd:     "14:00",
		IsWorkingDay: true,
		SlotDuration: 90,
		BufferTime:   10,
	}

	tests := []struct {
		name       string
		weekly     *Weekly
		exceptions []Exception
		working    bool
		start      string
		end        string
		hasBreak   bool
	}{
		{name: "weekly row", weekly: weekly, working: true, start: "09:00", end: "18:00", hasBreak: true},
		{name: "no row", weekly: nil, working: false},
		{name: "day off in weekly plan", weekly: &Weekly{Weekday: time.Monday, StartTime: "09:00", EndTime: "18:00"}, working: false},
		{
			name:   "vacation range covers date",
			weekly: weekly,
			exceptions: []Exception{{
				Type:     ExceptionVacation,
				DateFrom: day.AddDate(0, 0, -3),
				DateTo:   day.AddDate(0, 0, 2),
			}},
			working: false,
		},
		{
			name:   "special working day overrides hours",
			weekly: nil,
			exceptions: []Exception{{
				Type:      ExceptionSpecial,
				DateFrom:  day,
				IsWorking: true,
				StartTime: "12:00",
				EndTime:   "16:00",
			}},
			working: true, start: "12:00", end: "16:00",
		},
		{
			name:   "exception on another date is ignored",
			weekly: weekly,
			exceptions: []Exception{{
				Type:     ExceptionHoliday,
				DateFrom: day.AddDate(0, 0, 1),
			}},
			working: true, start: "09:00", end: "18:00", hasBreak: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff, err := Resolve(day.Add(15*time.Hour), tt.weekly, tt.exceptions)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if eff.IsWorking != tt.working {
				t.Fatalf("expected working=%v, got %v", tt.working, eff.IsWorking)
			}
			if !tt.working {
				return
			}
			if got := eff.Start.Format("15:04"); got != tt.start {
				t.Errorf("start: expected %s, got %s", tt.start, got)
			}
			if got := eff.End.Format("15:04"); got != tt.end {
				t.Errorf("end: expected %s, got %s", tt.end, got)
			}
			if eff.HasBreak() != tt.hasBreak {
				t.Errorf("break: expected %v, got %v", tt.hasBreak, eff.HasBreak())
			}
		})
	}
}

func TestResolve_CarriesBufferAndSlotDuration(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	eff, err := Resolve(day, &Weekly{
		StartTime: "09:00", EndTime: "18:00", IsWorkingDay: true,
		SlotDuration: 90, BufferTime: 10,
	}, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.Buffer != 10*time.Minute || eff.SlotDuration != 90*time.Minute {
		t.Fatalf("unexpected buffer %s / slot duration %s", eff.Buffer, eff.SlotDuration)
	}
	if eff.WorkingMinutes() != 540 {
		t.Fatalf("expected 540 working minutes, got %d", eff.WorkingMinutes())
	}
}

func TestEffective_Contains(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	eff, _ := Resolve(day, &Weekly{
		StartTime: "09:00", EndTime: "18:00", BreakStart: "13:00", BreakEnd: "14:00", IsWorkingDay: true,
	}, nil)

	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	if !eff.Contains(at(9, 0), at(10, 0)) {
		t.Fatalf("09:00-10:00 should be inside working hours")
	}
	if eff.Contains(at(12, 30), at(13, 30)) {
		t.Fatalf("12:30-13:30 overlaps the break")
	}
	if eff.Contains(at(17, 30), at(18, 30)) {
		t.Fatalf("17:30-18:30 ends after closing")
	}
	if eff.WorkingMinutes() != 480 {
		t.Fatalf("expected 480 working minutes, got %d", eff.WorkingMinutes())
	}
}

func TestWeekly_Validate(t *testing.T) {
	tests := []struct {
		name string
		w    Weekly
		ok   bool
	}{
		{"valid", Weekly{Weekday: time.Monday, StartTime: "09:00", EndTime: "18:00", BreakStart: "13:00", BreakEnd: "14:00", IsWorkingDay: true}, true},
		{"inverted hours", Weekly{Weekday: time.Monday, StartTime: "18:00", EndTime: "09:00", IsWorkingDay: true}, false},
		{"inverted break", Weekly{Weekday: time.Monday, StartTime: "09:00", EndTime: "18:00", BreakStart: "14:00", BreakEnd: "13:00", IsWorkingDay: true}, false},
		{"half break", Weekly{Weekday: time.Monday, StartTime: "09:00", EndTime: "18:00", BreakStart: "13:00", IsWorkingDay: true}, false},
		{"day off skips hours", Weekly{Weekday: time.Sunday}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}
