// Package parser turns a free-text daily log into timed calendar events.
//
// Every function here is pure: the same text and date always produce the same
// result, and calls for different entries can run in parallel.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/workcal/workcal/internal/model"
)

// ParseDate validates an ISO calendar date and returns it in canonical YYYY-MM-DD form.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "entryDate", Reason: "missing"}
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return "", &ValidationError{Field: "entryDate", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return t.Format(model.DateLayout), nil
}

// ParseEntry parses rawText logged on entryDate into one event per non-empty line.
func ParseEntry(rawText, entryDate string) (model.ParsedResult, error) {
	date, err := ParseDate(entryDate)
	if err != nil {
		return model.ParsedResult{}, err
	}
	lines := SplitLines(rawText)
	if len(lines) == 0 {
		return model.ParsedResult{}, &ValidationError{Field: "rawText", Reason: "log body is empty"}
	}

	events := make([]model.Event, 0, len(lines))
	c := newClock()
	for _, line := range lines {
		var ev model.Event
		ev, c = parseLine(line, date, c)
		events = append(events, ev)
	}

	return model.ParsedResult{
		Summary: Summary(len(events)),
		Events:  events,
	}, nil
}

func parseLine(line, date string, c clock) (model.Event, clock) {
	var (
		start string
		title string
	)
	if m, ok := ExtractTime(line); ok {
		start, title = m.StartTime(), ExtractTitle(line, &m)
		c = c.observe(m)
	} else {
		title = ExtractTitle(line, nil)
		start, c = c.infer()
	}
	return model.Event{
		Title:      title,
		Date:       date,
		StartTime:  start,
		SourceText: line,
	}, c
}

// Summary is the one-line description stored with a parsed entry.
func Summary(n int) string {
	return fmt.Sprintf("Parsed %d item(s) from today's log.", n)
}
