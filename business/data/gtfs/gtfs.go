// Package gtfs provides the static schedule data model and CRUD functionality
// for the gtfs_* tables. The schedule is rebuilt wholesale on each load, so all
// record functions run inside the loader's transaction and all queries read the
// single current schedule.
package gtfs

import (
	"github.com/jmoiron/sqlx"
)

// Route contains data from a record in a gtfs routes.txt file
type Route struct {
	RouteId        string `db:"route_id"`
	AgencyId       string `db:"agency_id"`
	RouteShortName string `db:"route_short_name"`
	RouteLongName  string `db:"route_long_name"`
	RouteDesc      string `db:"route_desc"`
	RouteType      int    `db:"route_type"`
	RouteURL       string `db:"route_url"`
	RouteColor     string `db:"route_color"`
	RouteTextColor string `db:"route_text_color"`
}

// DisplayName returns the rider facing name for the route, preferring the short name
func (r *Route) DisplayName() string {
	if len(r.RouteShortName) > 0 {
		return r.RouteShortName
	}
	return r.RouteId
}

// RecordRoutes saves routes to database in batch
func RecordRoutes(tx *sqlx.Tx, routes []*Route) error {
	if len(routes) == 0 {
		return nil
	}
	statementString := "insert into gtfs_routes ( " +
		"route_id, " +
		"agency_id, " +
		"route_short_name, " +
		"route_long_name, " +
		"route_desc, " +
		"route_type, " +
		"route_url, " +
		"route_color, " +
		"route_text_color) " +
		"values (" +
		":route_id, " +
		":agency_id, " +
		":route_short_name, " +
		":route_long_name, " +
		":route_desc, " +
		":route_type, " +
		":route_url, " +
		":route_color, " +
		":route_text_color)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, routes)
	return err
}

// GetRoutes retrieves all routes keyed by route_id
func GetRoutes(db *sqlx.DB) (map[string]*Route, error) {
	var routes []*Route
	err := db.Select(&routes, "select * from gtfs_routes")
	if err != nil {
		return nil, err
	}
	results := make(map[string]*Route)
	for _, route := range routes {
		results[route.RouteId] = route
	}
	return results, nil
}

// Stop contains data from a record in a gtfs stops.txt file
type Stop struct {
	StopId             string   `db:"stop_id"`
	StopCode           string   `db:"stop_code"`
	StopName           string   `db:"stop_name"`
	StopLat            *float64 `db:"stop_lat"`
	StopLon            *float64 `db:"stop_lon"`
	LocationType       int      `db:"location_type"`
	ParentStation      string   `db:"parent_station"`
	WheelchairBoarding int      `db:"wheelchair_boarding"`
}

// RecordStops saves stops to database in batch
func RecordStops(tx *sqlx.Tx, stops []*Stop) error {
	if len(stops) == 0 {
		return nil
	}
	statementString := "insert into gtfs_stops ( " +
		"stop_id, " +
		"stop_code, " +
		"stop_name, " +
		"stop_lat, " +
		"stop_lon, " +
		"location_type, " +
		"parent_station, " +
		"wheelchair_boarding) " +
		"values (" +
		":stop_id, " +
		":stop_code, " +
		":stop_name, " +
		":stop_lat, " +
		":stop_lon, " +
		":location_type, " +
		":parent_station, " +
		":wheelchair_boarding)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, stops)
	return err
}
