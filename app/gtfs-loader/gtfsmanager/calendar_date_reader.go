package gtfsmanager

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// calendarDateRowReader implements gtfsRowReader interface for gtfs.CalendarDate
type calendarDateRowReader struct {
	calendarDates []*gtfs.CalendarDate
}

func (c *calendarDateRowReader) addRow(parser *gtfsFileParser, _ *sqlx.Tx) error {
	calendarDate, err := buildCalendarDate(parser)
	if err != nil {
		return err
	}
	c.calendarDates = append(c.calendarDates, calendarDate)
	return nil
}

func (c *calendarDateRowReader) flush(tx *sqlx.Tx) error {
	err := gtfs.RecordCalendarDates(tx, c.calendarDates)
	if err != nil {
		return err
	}
	c.calendarDates = nil
	return nil
}

func buildCalendarDate(parser *gtfsFileParser) (*gtfs.CalendarDate, error) {
	calendarDate := gtfs.CalendarDate{}
	calendarDate.ServiceId = parser.getString("service_id", false)
	calendarDate.Date = parser.getServiceDate("date", false)
	calendarDate.ExceptionType = parser.getInt("exception_type", false)
	if calendarDate.ExceptionType != gtfs.ExceptionServiceAdded &&
		calendarDate.ExceptionType != gtfs.ExceptionServiceRemoved {
		parser.addParseError(fmt.Errorf("unexpected exception_type %d", calendarDate.ExceptionType))
	}
	return &calendarDate, parser.getError()
}
