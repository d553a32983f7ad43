package gtfs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ServiceDateLayout is the gtfs YYYYMMDD service day format
const ServiceDateLayout = "20060102"

// ParseServiceDate parses a YYYYMMDD service date into midnight of that day in loc
func ParseServiceDate(serviceDate string, loc *time.Location) (time.Time, error) {
	result, err := time.ParseInLocation(ServiceDateLayout, serviceDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid service date %q: %w", serviceDate, err)
	}
	return result, nil
}

// FormatServiceDate formats date as a YYYYMMDD service date
func FormatServiceDate(date time.Time) string {
	return date.Format(ServiceDateLayout)
}

// SecondsFromScheduleTime parses seconds of the schedule day from string defined in gtfs as:
// Time in the HH:MM:SS format (H:MM:SS is also accepted). The time is measured from
// "noon minus 12h" of the service day. For times occurring after midnight the value
// is greater than 24:00:00.
// Example: 14:30:00 for 2:30PM or 25:35:00 for 1:35AM on the next day.
func SecondsFromScheduleTime(scheduleTime string) (int, error) {
	parts := strings.Split(strings.TrimSpace(scheduleTime), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS schedule time format: %s", scheduleTime)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, err
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("schedule time out of range: %s", scheduleTime)
	}
	return (hours * 60 * 60) + (minutes * 60) + seconds, nil
}

// getDLSTransitionSeconds provides the number of seconds offset for a 12am date later in the day
// after day light saving time is done
func getDLSTransitionSeconds(timeAt12 time.Time) int {
	before := time.Date(timeAt12.Year(), timeAt12.Month(), timeAt12.Day(), 0, 0, 0, 0, timeAt12.Location())
	after := time.Date(timeAt12.Year(), timeAt12.Month(), timeAt12.Day(), 5, 0, 0, 0, timeAt12.Location())
	_, beforeOffset := before.Zone()
	_, afterOffset := after.Zone()
	return afterOffset - beforeOffset
}

// MakeScheduleTime produces a time by adding schedule seconds to a 12am date.
// Takes into account day light saving time
func MakeScheduleTime(timeAt12 time.Time, scheduleSeconds int) time.Time {
	offset := getDLSTransitionSeconds(timeAt12)
	scheduleSeconds = scheduleSeconds + (0 - offset)
	return timeAt12.Add(time.Duration(scheduleSeconds) * time.Second)
}
