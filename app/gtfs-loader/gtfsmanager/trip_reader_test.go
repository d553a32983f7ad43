package gtfsmanager

import (
	"reflect"
	"strings"
	"testing"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

func testStrPtr(s string) *string { return &s }

func Test_buildTrip(t *testing.T) {
	tests := []struct {
		name       string
		csvContent string
		wantErr    bool
		want       *gtfs.Trip
	}{
		{
			name: "trips.txt no errors",
			csvContent: "route_id,service_id,trip_id,trip_headsign,direction_id,block_id,shape_id\n" +
				"100,WKDY,trip-1,Downtown Seattle,0,block-9,shape-4\n",
			want: &gtfs.Trip{
				TripId:       "trip-1",
				RouteId:      "100",
				ServiceId:    "WKDY",
				TripHeadsign: testStrPtr("Downtown Seattle"),
				DirectionId:  0,
				BlockId:      "block-9",
				ShapeId:      "shape-4",
			},
		},
		{
			name: "optional columns absent",
			csvContent: "route_id,service_id,trip_id\n" +
				"100,WKDY,trip-1\n",
			want: &gtfs.Trip{
				TripId:    "trip-1",
				RouteId:   "100",
				ServiceId: "WKDY",
			},
		},
		{
			name: "missing service id",
			csvContent: "route_id,service_id,trip_id\n" +
				"100,,trip-1\n",
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
			got, err := buildTrip(parser)
			if tt.wantErr {
				if err == nil {
					t.Errorf("%v: buildTrip() produced no error, but we want one", tt.name)
				}
				return
			} else if err != nil {
				t.Errorf("%v: buildTrip() error = %v, wantErr %v", tt.name, err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildTrip() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}
