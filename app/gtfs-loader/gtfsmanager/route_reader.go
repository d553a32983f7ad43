package gtfsmanager

import (
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// routeRowReader implements gtfsRowReader interface for gtfs.Route
type routeRowReader struct {
	routes []*gtfs.Route
}

func (r *routeRowReader) addRow(parser *gtfsFileParser, _ *sqlx.Tx) error {
	route, err := buildRoute(parser)
	if err != nil {
		return err
	}
	r.routes = append(r.routes, route)
	return nil
}

func (r *routeRowReader) flush(tx *sqlx.Tx) error {
	err := gtfs.RecordRoutes(tx, r.routes)
	if err != nil {
		return err
	}
	r.routes = nil
	return nil
}

func buildRoute(parser *gtfsFileParser) (*gtfs.Route, error) {
	route := gtfs.Route{}
	route.RouteId = parser.getString("route_id", false)
	route.AgencyId = parser.getString("agency_id", true)
	route.RouteShortName = parser.getString("route_short_name", true)
	route.RouteLongName = parser.getString("route_long_name", true)
	route.RouteDesc = parser.getString("route_desc", true)
	route.RouteType = parser.getInt("route_type", false)
	route.RouteURL = parser.getString("route_url", true)
	route.RouteColor = parser.getString("route_color", true)
	route.RouteTextColor = parser.getString("route_text_color", true)
	return &route, parser.getError()
}
