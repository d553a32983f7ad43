package gtfsmanager

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// scheduleTables lists the gtfs tables in the order they are rebuilt.
// Times and service dates are kept as text: gtfs times can pass 24:00:00 so
// they don't fit a sql time column, and YYYYMMDD strings compare correctly.
var scheduleTables = []struct {
	name      string
	createDDL string
}{
	{
		name: "gtfs_routes",
		createDDL: `create table gtfs_routes (
			route_id text primary key,
			agency_id text,
			route_short_name text,
			route_long_name text,
			route_desc text,
			route_type integer,
			route_url text,
			route_color text,
			route_text_color text
		)`,
	},
	{
		name: "gtfs_stops",
		createDDL: `create table gtfs_stops (
			stop_id text primary key,
			stop_code text,
			stop_name text,
			stop_lat double precision,
			stop_lon double precision,
			location_type integer,
			parent_station text,
			wheelchair_boarding integer
		)`,
	},
	{
		name: "gtfs_trips",
		createDDL: `create table gtfs_trips (
			trip_id text primary key,
			route_id text,
			service_id text,
			trip_headsign text,
			direction_id integer,
			block_id text,
			shape_id text
		);
		create index gtfs_trips_route_id_idx on gtfs_trips (route_id);
		create index gtfs_trips_service_id_idx on gtfs_trips (service_id)`,
	},
	{
		name: "gtfs_stop_times",
		createDDL: `create table gtfs_stop_times (
			trip_id text not null,
			arrival_time text not null,
			departure_time text not null,
			stop_id text not null,
			stop_sequence integer not null,
			pickup_type integer,
			drop_off_type integer,
			timepoint integer,
			primary key (trip_id, stop_sequence)
		);
		create index gtfs_stop_times_trip_stop_idx on gtfs_stop_times (trip_id, stop_id)`,
	},
	{
		name: "gtfs_calendar",
		createDDL: `create table gtfs_calendar (
			service_id text primary key,
			monday integer not null,
			tuesday integer not null,
			wednesday integer not null,
			thursday integer not null,
			friday integer not null,
			saturday integer not null,
			sunday integer not null,
			start_date text not null,
			end_date text not null
		)`,
	},
	{
		name: "gtfs_calendar_dates",
		createDDL: `create table gtfs_calendar_dates (
			service_id text not null,
			date text not null,
			exception_type integer not null,
			primary key (service_id, date)
		);
		create index gtfs_calendar_dates_date_idx on gtfs_calendar_dates (date)`,
	},
}

// rebuildScheduleTables drops and recreates every gtfs table inside tx so a
// failed load leaves the previous schedule in place
func rebuildScheduleTables(tx *sqlx.Tx) error {
	for _, table := range scheduleTables {
		if _, err := tx.Exec(fmt.Sprintf("drop table if exists %s", table.name)); err != nil {
			return fmt.Errorf("dropping table %s: %w", table.name, err)
		}
		if _, err := tx.Exec(table.createDDL); err != nil {
			return fmt.Errorf("creating table %s: %w", table.name, err)
		}
	}
	return nil
}
