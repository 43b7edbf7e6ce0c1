package stats

import (
	"time"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/schedule"
)

// Band is the discrete heatmap bucket for a day's completion percentage. The
// background/border pairs are the exact values the calendar view renders, so
// two clients always paint a day the same way.
type Band struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

var (
	Band100     = Band{"full", "rgba(34, 197, 94, 0.8)", "rgba(34, 197, 94, 1)"}
	Band80      = Band{"high", "rgba(34, 197, 94, 0.6)", "rgba(34, 197, 94, 0.8)"}
	Band60      = Band{"good", "rgba(34, 197, 94, 0.4)", "rgba(34, 197, 94, 0.6)"}
	Band40      = Band{"mid", "rgba(132, 204, 22, 0.4)", "rgba(132, 204, 22, 0.6)"}
	Band20      = Band{"low", "rgba(251, 146, 60, 0.4)", "rgba(251, 146, 60, 0.6)"}
	BandLow     = Band{"minimal", "rgba(239, 68, 68, 0.3)", "rgba(239, 68, 68, 0.5)"}
	BandNone    = Band{"none", "rgba(239, 68, 68, 0.5)", "rgba(239, 68, 68, 0.7)"}
	BandNeutral = Band{"neutral", "rgba(255,255,255,0.05)", "rgba(255,255,255,0.1)"}
)

// BandFor maps day stats onto a heatmap band. Thresholds are inclusive lower
// bounds: exactly 80% is "high", 79.999% is "good", and so on.
func BandFor(d DayStats) Band {
	if d.Total == 0 {
		return BandNeutral
	}
	switch p := d.Percent; {
	case p == 100:
		return Band100
	case p >= 80:
		return Band80
	case p >= 60:
		return Band60
	case p >= 40:
		return Band40
	case p >= 20:
		return Band20
	case p > 0:
		return BandLow
	default:
		return BandNone
	}
}

// CalendarCell is one square of the six-week calendar grid.
type CalendarCell struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	InMonth        bool   `json:"in_month"`
	Today          bool   `json:"today"`
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	DisplayPercent int    `json:"percent"`
	Band           Band   `json:"band"`
}

// CalendarGrid builds the 42-cell grid for the month containing ref: six full
// Sunday-to-Saturday weeks starting on the Sunday on or before the 1st,
// mirroring the SPA's calendar layout.
func CalendarGrid(habits []model.Habit, entries []model.Entry, person string, ref, today time.Time) []CalendarCell {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start := first.AddDate(0, 0, -int(first.Weekday()))
	todayKey := schedule.FormatDateKey(today)

	cells := make([]CalendarCell, 0, 42)
	for i := 0; i < 42; i++ {
		d := start.AddDate(0, 0, i)
		ds := Day(habits, entries, person, d)
		cells = append(cells, CalendarCell{
			Date:           ds.Date,
			Day:            d.Day(),
			InMonth:        d.Month() == ref.Month(),
			Today:          ds.Date == todayKey,
			Completed:      ds.Completed,
			Total:          ds.Total,
			DisplayPercent: roundPercent(ds.Percent),
			Band:           BandFor(ds),
		})
	}
	return cells
}
