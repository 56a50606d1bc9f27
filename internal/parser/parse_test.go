package parser

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workcal/workcal/internal/model"
)

func TestSplitLines(t *testing.T) {
	got := SplitLines("  9am standup \n\n\n lunch with Sam\n   \n6:30pm squat session  ")
	assert.Equal(t, []string{"9am standup", "lunch with Sam", "6:30pm squat session"}, got)
	assert.Empty(t, SplitLines(" \n\t\n"))
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"9am", "09:00"},
		{"9:00am", "09:00"},
		{"09:00", "09:00"},
		{"6:30pm", "18:30"},
		{"6:30 PM", "18:30"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"12:15am", "00:15"},
		{"7 am", "07:00"},
		{"17:45", "17:45"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			h, m, ok := NormalizeTime(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.want, formatClock(h, m))
		})
	}
}

func TestNormalizeTime_OutOfRange(t *testing.T) {
	for _, token := range []string{"25:00", "9:75", "24am"} {
		_, _, ok := NormalizeTime(token)
		assert.False(t, ok, token)
	}
}

func TestExtractTime(t *testing.T) {
	m, ok := ExtractTime("Lunch with Sam at 12:30 then 3pm call")
	require.True(t, ok)
	assert.Equal(t, "12:30 ", m.Token)
	assert.Equal(t, "12:30", m.StartTime())

	m, ok = ExtractTime("squat session 6:30pm")
	require.True(t, ok)
	assert.Equal(t, "6:30pm", m.Token)
	assert.Equal(t, 18, m.Hour)

	_, ok = ExtractTime("Deadlift session")
	assert.False(t, ok)

	_, ok = ExtractTime("ran 5k in 25min")
	assert.False(t, ok)

	m, ok = ExtractTime("25:00 call then 9am standup")
	require.True(t, ok)
	assert.Equal(t, "9am", m.Token)
	assert.Equal(t, 16, m.Start)
	assert.Equal(t, 19, m.End)

	_, ok = ExtractTime("shift ends 25:00")
	assert.False(t, ok)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		line, want string
	}{
		{"6:30am Run 5k", "Run 5k"},
		{"- 9am standup", "standup"},
		{"1) Code review", "Code review"},
		{"* 2. write report", "write report"},
		{"10:00", DefaultTitle},
		{"---", DefaultTitle},
		{"call at 3pm with Sam", "call at with Sam"},
		{"25:00 call then 9am standup", "25:00 call then standup"},
		{"5k run", "5k run"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var m *TimeMatch
			if found, ok := ExtractTime(tt.line); ok {
				m = &found
			}
			assert.Equal(t, tt.want, ExtractTitle(tt.line, m))
		})
	}
}

func TestClock(t *testing.T) {
	c := newClock()
	start, c := c.infer()
	assert.Equal(t, "09:00", start)
	assert.Equal(t, 10, c.hour)

	c = c.observe(TimeMatch{Hour: 18, Minute: 30})
	start, c = c.infer()
	assert.Equal(t, "18:00", start)
	assert.Equal(t, 19, c.hour)

	c = c.observe(TimeMatch{Hour: 23})
	start, c = c.infer()
	assert.Equal(t, "23:00", start)
	assert.Equal(t, lastDefaultHour, c.hour)
}

func TestParseEntry(t *testing.T) {
	got, err := ParseEntry("6:30am Run 5k\nDeadlift session", "2024-03-10")
	require.NoError(t, err)

	want := model.ParsedResult{
		Summary: "Parsed 2 item(s) from today's log.",
		Events: []model.Event{
			{Title: "Run 5k", Date: "2024-03-10", StartTime: "06:30", SourceText: "6:30am Run 5k"},
			{Title: "Deadlift session", Date: "2024-03-10", StartTime: "06:00", SourceText: "Deadlift session"},
		},
	}
	assert.Equal(t, want, got)
}

func TestParseEntry_SkipsOutOfRangeTime(t *testing.T) {
	got, err := ParseEntry("25:00 call then 9am standup\nnext\nshift ends 25:00", "2024-03-10")
	require.NoError(t, err)

	want := []model.Event{
		{Title: "25:00 call then standup", Date: "2024-03-10", StartTime: "09:00", SourceText: "25:00 call then 9am standup"},
		{Title: "next", Date: "2024-03-10", StartTime: "09:00", SourceText: "next"},
		{Title: "shift ends 25:00", Date: "2024-03-10", StartTime: "10:00", SourceText: "shift ends 25:00"},
	}
	assert.Equal(t, want, got.Events)
}

func TestParseEntry_InferenceFromNine(t *testing.T) {
	got, err := ParseEntry("standup\nlunch with Sam\n6:30pm squat session\nstretch", "2024-03-11")
	require.NoError(t, err)

	var starts []string
	for _, ev := range got.Events {
		starts = append(starts, ev.StartTime)
	}
	assert.Equal(t, []string{"09:00", "10:00", "18:30", "18:00"}, starts)
	assert.Equal(t, "squat session", got.Events[2].Title)
}

func TestParseEntry_InferenceCap(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = fmt.Sprintf("task %c", 'a'+i)
	}
	got, err := ParseEntry(strings.Join(lines, "\n"), "2024-03-10")
	require.NoError(t, err)
	require.Len(t, got.Events, 20)

	for _, ev := range got.Events {
		assert.LessOrEqual(t, ev.StartTime, "22:00")
	}
	assert.Equal(t, "22:00", got.Events[19].StartTime)
	assert.Equal(t, "22:00", got.Events[13].StartTime)
}

func TestParseEntry_EventCountMatchesLines(t *testing.T) {
	raw := "\n\n- one\n\n  two  \n3.\n\n"
	got, err := ParseEntry(raw, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, got.Events, len(SplitLines(raw)))
	assert.Equal(t, DefaultTitle, got.Events[2].Title)
	assert.Equal(t, Summary(3), got.Summary)
}

func TestParseEntry_Validation(t *testing.T) {
	tests := []struct {
		name, raw, date, field string
	}{
		{"blank body", "   \n  ", "2024-03-10", "rawText"},
		{"empty body", "", "2024-03-10", "rawText"},
		{"missing date", "standup", "", "entryDate"},
		{"bad date", "standup", "2024-02-30", "entryDate"},
		{"not a date", "standup", "yesterday", "entryDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry(tt.raw, tt.date)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseEntry_ConcurrentCallsDoNotShareClock(t *testing.T) {
	want, err := ParseEntry("a\nb\nc\n8pm d\ne", "2024-05-01")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]model.ParsedResult, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ParseEntry("a\nb\nc\n8pm d\ne", "2024-05-01")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
