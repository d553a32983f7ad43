package gtfsmanager

import (
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// calendarRowReader implements gtfsRowReader interface for gtfs.Calendar
type calendarRowReader struct {
	calendars []*gtfs.Calendar
}

func (c *calendarRowReader) addRow(parser *gtfsFileParser, _ *sqlx.Tx) error {
	calendar, err := buildCalendar(parser)
	if err != nil {
		return err
	}
	c.calendars = append(c.calendars, calendar)
	return nil
}

func (c *calendarRowReader) flush(tx *sqlx.Tx) error {
	err := gtfs.RecordCalendars(tx, c.calendars)
	if err != nil {
		return err
	}
	c.calendars = nil
	return nil
}

func buildCalendar(parser *gtfsFileParser) (*gtfs.Calendar, error) {
	calendar := gtfs.Calendar{}
	calendar.ServiceId = parser.getString("service_id", false)
	calendar.Monday = parser.getInt("monday", false)
	calendar.Tuesday = parser.getInt("tuesday", false)
	calendar.Wednesday = parser.getInt("wednesday", false)
	calendar.Thursday = parser.getInt("thursday", false)
	calendar.Friday = parser.getInt("friday", false)
	calendar.Saturday = parser.getInt("saturday", false)
	calendar.Sunday = parser.getInt("sunday", false)
	calendar.StartDate = parser.getServiceDate("start_date", false)
	calendar.EndDate = parser.getServiceDate("end_date", false)
	return &calendar, parser.getError()
}
