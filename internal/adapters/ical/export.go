// Package ical renders calendars in iCalendar (RFC 5545) format.
package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"tempus/internal/domain"
)

const (
	productID = "-//tempus//calendar//EN"
	uidDomain = "tempus"
)

// WriteMeetings encodes meetings as a VCALENDAR with one VEVENT each.
func WriteMeetings(w io.Writer, name string, meetings []*domain.Meeting, stamp time.Time) error {
	if len(meetings) == 0 {
		// The encoder refuses calendars without components.
		_, err := fmt.Fprintf(w, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:%s\r\nEND:VCALENDAR\r\n", productID)
		return err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if name != "" {
		cal.Props.SetText("X-WR-CALNAME", name)
	}
	for _, m := range meetings {
		cal.Children = append(cal.Children, meetingEvent(m, stamp))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// MeetingUID is the stable iCalendar UID of a meeting.
func MeetingUID(id int64) string {
	return fmt.Sprintf("meeting-%d@%s", id, uidDomain)
}

func meetingEvent(m *domain.Meeting, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, MeetingUID(m.ID))
	ve.Props.SetText(ical.PropSummary, m.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, m.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, m.EndTime.UTC())
	ve.Props.SetText(ical.PropStatus, "CONFIRMED")
	if m.Description != "" {
		ve.Props.SetText(ical.PropDescription, m.Description)
	}
	if m.EventID != nil {
		ve.Props.SetText(ical.PropCategories, "event")
	}
	return ve
}
