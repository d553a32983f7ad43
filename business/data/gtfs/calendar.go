package gtfs

import (
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

// Calendar exception types from a gtfs calendar_dates.txt file
const (
	// ExceptionServiceAdded marks a service as running on a date outside its normal rules
	ExceptionServiceAdded = 1
	// ExceptionServiceRemoved marks a service as not running on a date its normal rules cover
	ExceptionServiceRemoved = 2
)

// Calendar contains data from a record in a gtfs calendar.txt file.
// StartDate and EndDate are service dates in YYYYMMDD form, so the range check
// is a simple string comparison.
type Calendar struct {
	ServiceId string `db:"service_id"`
	Monday    int    `db:"monday"`
	Tuesday   int    `db:"tuesday"`
	Wednesday int    `db:"wednesday"`
	Thursday  int    `db:"thursday"`
	Friday    int    `db:"friday"`
	Saturday  int    `db:"saturday"`
	Sunday    int    `db:"sunday"`
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
}

// WeekdayFlag returns the calendar's availability flag for weekday.
// The mapping follows time.Weekday numbering, Sunday=0 through Saturday=6,
// which matches the convention the delay analysis uses everywhere.
func (c *Calendar) WeekdayFlag(weekday time.Weekday) int {
	switch weekday {
	case time.Sunday:
		return c.Sunday
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	}
	return 0
}

// CalendarDate contains data from a record in a gtfs calendar_dates.txt file
type CalendarDate struct {
	ServiceId     string `db:"service_id"`
	Date          string `db:"date"`
	ExceptionType int    `db:"exception_type"`
}

// RecordCalendars saves calendars to database in batch
func RecordCalendars(tx *sqlx.Tx, calendars []*Calendar) error {
	if len(calendars) == 0 {
		return nil
	}
	statementString := "insert into gtfs_calendar ( " +
		"service_id, " +
		"monday, " +
		"tuesday, " +
		"wednesday, " +
		"thursday, " +
		"friday, " +
		"saturday, " +
		"sunday, " +
		"start_date, " +
		"end_date) " +
		"values (" +
		":service_id, " +
		":monday, " +
		":tuesday, " +
		":wednesday, " +
		":thursday, " +
		":friday, " +
		":saturday, " +
		":sunday, " +
		":start_date, " +
		":end_date)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, calendars)
	return err
}

// RecordCalendarDates saves calendarDates to database in batch
func RecordCalendarDates(tx *sqlx.Tx, calendarDates []*CalendarDate) error {
	if len(calendarDates) == 0 {
		return nil
	}
	statementString := "insert into gtfs_calendar_dates ( " +
		"service_id, " +
		"date, " +
		"exception_type) " +
		"values (" +
		":service_id, " +
		":date, " +
		":exception_type)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, calendarDates)
	return err
}

// GetCalendars retrieves all calendar rows in the current schedule
func GetCalendars(db *sqlx.DB) ([]*Calendar, error) {
	var results []*Calendar
	err := db.Select(&results, "select * from gtfs_calendar")
	return results, err
}

// GetCalendarDates retrieves the calendar exception rows for serviceDate
func GetCalendarDates(db *sqlx.DB, serviceDate string) ([]*CalendarDate, error) {
	var results []*CalendarDate
	err := db.Select(&results, db.Rebind("select * from gtfs_calendar_dates where date = ?"), serviceDate)
	return results, err
}

// ActiveServiceIds resolves the set of service ids active on serviceDate.
// A service is active when the date falls inside its calendar range and the
// weekday flag is set, then exceptions are applied on top: type 1 activates a
// service for the date and type 2 deactivates it. When duplicate exception rows
// conflict for the same service, the added exception wins, so the outcome does
// not depend on row order. The result is sorted.
// A date no calendar row covers yields an empty set, not an error.
func ActiveServiceIds(calendars []*Calendar,
	exceptions []*CalendarDate,
	serviceDate time.Time) []string {

	date := FormatServiceDate(serviceDate)
	weekday := serviceDate.Weekday()

	serviceIdMap := make(map[string]bool)
	for _, calendar := range calendars {
		if date >= calendar.StartDate && date <= calendar.EndDate && calendar.WeekdayFlag(weekday) == 1 {
			serviceIdMap[calendar.ServiceId] = true
		}
	}

	added := make(map[string]bool)
	removed := make(map[string]bool)
	for _, exception := range exceptions {
		if exception.Date != date {
			continue
		}
		switch exception.ExceptionType {
		case ExceptionServiceAdded:
			added[exception.ServiceId] = true
		case ExceptionServiceRemoved:
			removed[exception.ServiceId] = true
		}
	}
	for serviceId := range removed {
		if !added[serviceId] {
			delete(serviceIdMap, serviceId)
		}
	}
	for serviceId := range added {
		serviceIdMap[serviceId] = true
	}

	results := make([]string, 0, len(serviceIdMap))
	for serviceId := range serviceIdMap {
		results = append(results, serviceId)
	}
	sort.Strings(results)
	return results
}
