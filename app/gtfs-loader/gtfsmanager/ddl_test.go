package gtfsmanager

import (
	"strings"
	"testing"
)

func findTableDDL(t *testing.T, name string) string {
	t.Helper()
	for _, table := range scheduleTables {
		if table.name == name {
			return table.createDDL
		}
	}
	t.Fatalf("no create ddl defined for table %s", name)
	return ""
}

func TestScheduleTablesCoverEveryLoadedFile(t *testing.T) {
	tableForFile := map[string]string{
		"routes.txt":         "gtfs_routes",
		"stops.txt":          "gtfs_stops",
		"trips.txt":          "gtfs_trips",
		"stop_times.txt":     "gtfs_stop_times",
		"calendar.txt":       "gtfs_calendar",
		"calendar_dates.txt": "gtfs_calendar_dates",
	}
	if len(scheduleFiles()) != len(tableForFile) {
		t.Errorf("scheduleFiles() lists %d files, want %d", len(scheduleFiles()), len(tableForFile))
	}
	for _, file := range scheduleFiles() {
		tableName, present := tableForFile[file.filename]
		if !present {
			t.Errorf("no table expected for loaded file %s", file.filename)
			continue
		}
		findTableDDL(t, tableName)
	}
}

func TestScheduleTablesEnforceUniqueness(t *testing.T) {
	tests := []struct {
		table      string
		primaryKey string
	}{
		// a trip visits each sequence position exactly once
		{table: "gtfs_stop_times", primaryKey: "primary key (trip_id, stop_sequence)"},
		// at most one exception per service per date
		{table: "gtfs_calendar_dates", primaryKey: "primary key (service_id, date)"},
		{table: "gtfs_routes", primaryKey: "route_id text primary key"},
		{table: "gtfs_stops", primaryKey: "stop_id text primary key"},
		{table: "gtfs_trips", primaryKey: "trip_id text primary key"},
		{table: "gtfs_calendar", primaryKey: "service_id text primary key"},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			ddl := findTableDDL(t, tt.table)
			if !strings.Contains(ddl, tt.primaryKey) {
				t.Errorf("%s ddl does not declare %q", tt.table, tt.primaryKey)
			}
		})
	}
}

func TestStopTimesDDLRequiresTimes(t *testing.T) {
	// blank times on non timepoint rows load as empty strings, which still
	// satisfy these constraints; only a genuinely absent value is rejected
	ddl := findTableDDL(t, "gtfs_stop_times")
	for _, column := range []string{"arrival_time text not null", "departure_time text not null"} {
		if !strings.Contains(ddl, column) {
			t.Errorf("gtfs_stop_times ddl does not declare %q", column)
		}
	}
}
