package gtfs

import (
	"reflect"
	"testing"
	"time"
)

func TestActiveServiceIds(t *testing.T) {
	weekdayService := &Calendar{
		ServiceId: "weekday",
		Monday:    1,
		Tuesday:   1,
		Wednesday: 1,
		Thursday:  1,
		Friday:    1,
		StartDate: "20260101",
		EndDate:   "20261231",
	}
	saturdayService := &Calendar{
		ServiceId: "saturday",
		Saturday:  1,
		StartDate: "20260101",
		EndDate:   "20261231",
	}
	expiredService := &Calendar{
		ServiceId: "expired",
		Monday:    1,
		StartDate: "20250101",
		EndDate:   "20251231",
	}
	calendars := []*Calendar{weekdayService, saturdayService, expiredService}

	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	type args struct {
		calendars   []*Calendar
		exceptions  []*CalendarDate
		serviceDate time.Time
	}
	tests := []struct {
		name string
		args args
		want []string
	}{
		{
			name: "weekday flag set on a monday",
			args: args{
				calendars:   calendars,
				serviceDate: monday,
			},
			want: []string{"weekday"},
		},
		{
			name: "saturday flag set on a saturday",
			args: args{
				calendars:   calendars,
				serviceDate: saturday,
			},
			want: []string{"saturday"},
		},
		{
			name: "first day of range is included",
			args: args{
				calendars: []*Calendar{{
					ServiceId: "new-year",
					Thursday:  1,
					StartDate: "20260101",
					EndDate:   "20260630",
				}},
				serviceDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			want: []string{"new-year"},
		},
		{
			name: "removed exception deactivates service",
			args: args{
				calendars: calendars,
				exceptions: []*CalendarDate{
					{ServiceId: "weekday", Date: "20260105", ExceptionType: ExceptionServiceRemoved},
				},
				serviceDate: monday,
			},
			want: []string{},
		},
		{
			name: "removed exception for another date is ignored",
			args: args{
				calendars: calendars,
				exceptions: []*CalendarDate{
					{ServiceId: "weekday", Date: "20260106", ExceptionType: ExceptionServiceRemoved},
				},
				serviceDate: monday,
			},
			want: []string{"weekday"},
		},
		{
			name: "added exception activates service with no weekday flag",
			args: args{
				calendars: calendars,
				exceptions: []*CalendarDate{
					{ServiceId: "saturday", Date: "20260105", ExceptionType: ExceptionServiceAdded},
				},
				serviceDate: monday,
			},
			want: []string{"saturday", "weekday"},
		},
		{
			name: "added exception activates service with no calendar row",
			args: args{
				calendars: calendars,
				exceptions: []*CalendarDate{
					{ServiceId: "special-event", Date: "20260105", ExceptionType: ExceptionServiceAdded},
				},
				serviceDate: monday,
			},
			want: []string{"special-event", "weekday"},
		},
		{
			name: "added wins over removed regardless of row order",
			args: args{
				calendars: calendars,
				exceptions: []*CalendarDate{
					{ServiceId: "weekday", Date: "20260105", ExceptionType: ExceptionServiceRemoved},
					{ServiceId: "weekday", Date: "20260105", ExceptionType: ExceptionServiceAdded},
				},
				serviceDate: monday,
			},
			want: []string{"weekday"},
		},
		{
			name: "added wins over removed, reversed row order",
			args: args{
				calendars: calendars,
				exceptions: []*CalendarDate{
					{ServiceId: "weekday", Date: "20260105", ExceptionType: ExceptionServiceAdded},
					{ServiceId: "weekday", Date: "20260105", ExceptionType: ExceptionServiceRemoved},
				},
				serviceDate: monday,
			},
			want: []string{"weekday"},
		},
		{
			name: "no calendar coverage yields empty set",
			args: args{
				calendars:   calendars,
				serviceDate: time.Date(2027, 6, 7, 0, 0, 0, 0, time.UTC),
			},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveServiceIds(tt.args.calendars, tt.args.exceptions, tt.args.serviceDate)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ActiveServiceIds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendar_WeekdayFlag(t *testing.T) {
	calendar := &Calendar{
		ServiceId: "test",
		Monday:    1,
		Sunday:    1,
	}
	tests := []struct {
		weekday time.Weekday
		want    int
	}{
		{time.Sunday, 1},
		{time.Monday, 1},
		{time.Tuesday, 0},
		{time.Saturday, 0},
	}
	for _, tt := range tests {
		t.Run(tt.weekday.String(), func(t *testing.T) {
			if got := calendar.WeekdayFlag(tt.weekday); got != tt.want {
				t.Errorf("WeekdayFlag(%v) = %v, want %v", tt.weekday, got, tt.want)
			}
		})
	}
}
