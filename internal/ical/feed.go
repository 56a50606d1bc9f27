// Package ical renders stored log entries as an iCalendar feed.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/workcal/workcal/internal/activity"
	"github.com/workcal/workcal/internal/model"
)

const (
	productID     = "-//WorkCal//Daily Log//EN"
	eventDuration = time.Hour
	clockLayout   = model.DateLayout + " 15:04"
)

// uidSpace namespaces event UIDs so the same event keeps its UID across exports.
var uidSpace = uuid.MustParse("8f6a4c9e-2b7d-4e0a-9c31-6d5f0b8e7a12")

// Feed builds a calendar with one VEVENT per parsed event. Times are
// floating: they carry no zone and are shown as written.
func Feed(owner uuid.UUID, entries []model.LogEntry, stamp time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, entry := range entries {
		for i, ev := range entry.Parsed.Events {
			start, err := time.Parse(clockLayout, ev.Date+" "+ev.StartTime)
			if err != nil {
				continue
			}
			class := activity.Classify(ev.Title + " " + ev.SourceText)

			vev := cal.AddEvent(EventUID(owner, ev.Date, i))
			vev.SetDtStampTime(stamp)
			vev.SetProperty(ics.ComponentPropertyDtStart, start.Format("20060102T150405"))
			vev.SetProperty(ics.ComponentPropertyDtEnd, start.Add(eventDuration).Format("20060102T150405"))
			vev.SetSummary(fmt.Sprintf("[%s] %s", class.Badge, ev.Title))
			vev.SetDescription(ev.SourceText)
			vev.AddProperty(ics.ComponentPropertyCategories, class.Label)
		}
	}
	return cal
}

// EventUID is stable for the i-th event of an owner's entry on date.
func EventUID(owner uuid.UUID, date string, i int) string {
	return uuid.NewSHA1(uidSpace, []byte(fmt.Sprintf("%s/%s/%d", owner, date, i))).String() + "@workcal"
}
