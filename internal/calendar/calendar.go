// Package calendar aggregates stored log entries into month views.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/workcal/workcal/internal/activity"
	"github.com/workcal/workcal/internal/model"
)

const monthLayout = "2006-01"

// Activity is one classified event as shown in a day cell.
type Activity struct {
	activity.Classification
	Title     string `json:"title"`
	StartTime string `json:"startTime,omitempty"`
}

// Day is the view data for one calendar cell. It is recomputed on every render.
type Day struct {
	Date       string          `json:"date"`
	Day        int             `json:"day"`
	Selected   bool            `json:"selected"`
	Entry      *model.LogEntry `json:"entry,omitempty"`
	Activities []Activity      `json:"activities"`
	Badges     []string        `json:"badges"`
	ItemCount  int             `json:"itemCount"`
	Detail     string          `json:"detail"`
}

// BuildView returns one Day for every date of the given month. The day whose
// date equals selected (YYYY-MM-DD, or "" for none) is marked selected.
// If entries hold more than one entry for a date, the first one wins.
func BuildView(entries []model.LogEntry, year int, month time.Month, selected string) []Day {
	byDate := make(map[string]*model.LogEntry, len(entries))
	for i := range entries {
		if _, dup := byDate[entries[i].EntryDate]; !dup {
			byDate[entries[i].EntryDate] = &entries[i]
		}
	}

	n := DaysIn(year, month)
	days := make([]Day, 0, n)
	for d := 1; d <= n; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
		day := Day{
			Date:       date,
			Day:        d,
			Selected:   date == selected,
			Activities: []Activity{},
			Badges:     []string{},
		}
		if entry, ok := byDate[date]; ok {
			fillDay(&day, entry)
		}
		days = append(days, day)
	}
	return days
}

func fillDay(day *Day, entry *model.LogEntry) {
	e := *entry
	e.Parsed.Events = append([]model.Event(nil), entry.Parsed.Events...)
	day.Entry = &e
	day.Activities = Classify(entry)
	day.ItemCount = len(entry.Parsed.Events)

	seen := make(map[string]bool)
	lines := make([]string, 0, len(day.Activities))
	for _, a := range day.Activities {
		if !seen[a.Badge] {
			seen[a.Badge] = true
			day.Badges = append(day.Badges, a.Badge)
		}
		lines = append(lines, a.DetailLine())
	}
	day.Detail = strings.Join(lines, "\n")
}

// Classify tags every event of entry. An entry without events is classified
// as a whole from its raw text.
func Classify(entry *model.LogEntry) []Activity {
	if len(entry.Parsed.Events) == 0 {
		return []Activity{{
			Classification: activity.Classify(entry.RawText),
			Title:          entry.Parsed.Summary,
		}}
	}
	out := make([]Activity, 0, len(entry.Parsed.Events))
	for _, ev := range entry.Parsed.Events {
		out = append(out, Activity{
			Classification: activity.Classify(ev.Title + " " + ev.SourceText),
			Title:          ev.Title,
			StartTime:      ev.StartTime,
		})
	}
	return out
}

// DetailLine renders the tooltip line for a, dropping the time when there is none.
func (a Activity) DetailLine() string {
	if a.StartTime == "" {
		return fmt.Sprintf("%s — %s", a.Badge, a.Title)
	}
	return fmt.Sprintf("%s %s — %s", a.Badge, a.StartTime, a.Title)
}

// DaysIn returns the number of days in month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("month %q: want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// ResolveMonth picks the month to display: an explicit month wins, then the
// month of the selected date, then the month of now.
func ResolveMonth(month, selected string, now time.Time) (int, time.Month, error) {
	if month != "" {
		return ParseMonth(month)
	}
	if selected != "" {
		t, err := time.Parse(model.DateLayout, selected)
		if err != nil {
			return 0, 0, fmt.Errorf("selected %q: want YYYY-MM-DD", selected)
		}
		return t.Year(), t.Month(), nil
	}
	return now.Year(), now.Month(), nil
}
