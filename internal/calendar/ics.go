package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"haven-planner/internal/activity"

	ics "github.com/arran4/golang-ical"
)

// ContentType is the media type of an exported calendar.
const ContentType = "text/calendar"

const (
	productID      = "-//Haven//AI Nanny//EN"
	defaultSummary = "Haven Activity"

	dateTimeLayout = "2006-01-02 15:04"
	localLayout    = "20060102T150405"
	// uidLayout is the form the start time takes in the UID hash input.
	uidLayout = "2006-01-02 15:04:05"
)

// ErrInvalidTime is returned when the date or a block time does not parse.
var ErrInvalidTime = errors.New("invalid date or time")

// Bare carriage returns become line feeds so TEXT escaping sees a single form.
var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Exporter renders day schedules as iCalendar documents.
type Exporter struct {
	now func() time.Time
}

// NewExporter returns an Exporter stamping events with the current time.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// WithClock returns a copy of the exporter reading time from now.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	return &Exporter{now: now}
}

// Export builds a VCALENDAR with one VEVENT per block that has both a start and an end.
// date is YYYY-MM-DD; block times are HH:MM and written as floating local times.
func (e *Exporter) Export(childName, date string, blocks []activity.Block) (string, error) {
	stamp := e.now()

	cal := ics.NewCalendarFor("Haven")
	cal.SetProductId(productID)

	for _, b := range blocks {
		if b.Start == "" || b.End == "" {
			continue
		}
		start, err := time.Parse(dateTimeLayout, date+" "+b.Start)
		if err != nil {
			return "", fmt.Errorf("%w: %s %s", ErrInvalidTime, date, b.Start)
		}
		end, err := time.Parse(dateTimeLayout, date+" "+b.End)
		if err != nil {
			return "", fmt.Errorf("%w: %s %s", ErrInvalidTime, date, b.End)
		}

		summary := defaultSummary
		if b.Plan != nil && b.Plan.Activity != "" {
			summary = newlineNormalizer.Replace(b.Plan.Activity)
		}

		event := cal.AddEvent(EventUID(childName, start))
		event.SetDtStampTime(stamp)
		// Floating times carry no zone, so they are written as is.
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(localLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localLayout))
		event.SetSummary(summary)
	}

	return cal.Serialize(), nil
}

// EventUID is stable for a child and start time.
func EventUID(childName string, start time.Time) string {
	sum := sha1.Sum([]byte(childName + start.Format(uidLayout)))
	return hex.EncodeToString(sum[:]) + "@haven"
}
