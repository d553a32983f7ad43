package gtfsmanager

import (
	"reflect"
	"strings"
	"testing"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

func Test_buildCalendar(t *testing.T) {
	tests := []struct {
		name       string
		csvContent string
		wantErr    bool
		want       *gtfs.Calendar
	}{
		{
			name: "calendar.txt no errors",
			csvContent: "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
				"WKDY,1,1,1,1,1,0,0,20260101,20261231\n",
			wantErr: false,
			want: &gtfs.Calendar{
				ServiceId: "WKDY",
				Monday:    1,
				Tuesday:   1,
				Wednesday: 1,
				Thursday:  1,
				Friday:    1,
				Saturday:  0,
				Sunday:    0,
				StartDate: "20260101",
				EndDate:   "20261231",
			},
		},
		{
			name: "calendar.txt error, missing monday value",
			csvContent: "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
				"WKDY,,1,1,1,1,0,0,20260101,20261231\n",
			wantErr: true,
		},
		{
			name: "calendar.txt error, malformed start date",
			csvContent: "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
				"WKDY,1,1,1,1,1,0,0,2026-01-01,20261231\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := makeGTFSFileParser(strings.NewReader(tt.csvContent), "test.txt")
			if err != nil {
				t.Errorf("Unable to make gtfsFileParser %s", err)
			}
			err = parser.nextLine()
			if err != nil {
				t.Errorf("Unable to move gtfsFileParser to first line %s", err)
			}
			got, err := buildCalendar(parser)
			if tt.wantErr {
				if err == nil {
					t.Errorf("%v: buildCalendar() produced no error, but we want one", tt.name)
				}
				return
			} else if err != nil {
				t.Errorf("%v: buildCalendar() error = %v, wantErr %v", tt.name, err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildCalendar() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}
