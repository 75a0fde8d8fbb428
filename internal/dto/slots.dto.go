package dto

import (
	"sort"
	"time"

	"github.com/ilya24037/www.spa.com-sub003/internal/domain/schedule"
)

type SlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DaySlotsDTO struct {
	Date  string    `json:"date"`
	Slots []SlotDTO `json:"slots"`
}

// DaySlots flattens the per-day map into days sorted by date, with times
// rendered as HH:MM in loc.
func DaySlots(byDay map[string][]schedule.Slot, loc *time.Location) []DaySlotsDTO {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]DaySlotsDTO, 0, len(days))
	for _, d := range days {
		slots := make([]SlotDTO, 0, len(byDay[d]))
		for _, s := range byDay[d] {
			slots = append(slots, SlotDTO{
				Start: s.Start.In(loc).Format("15:04"),
				End:   s.End.In(loc).Format("15:04"),
			})
		}
		out = append(out, DaySlotsDTO{Date: d, Slots: slots})
	}
	return out
}
