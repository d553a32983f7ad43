package gtfsmanager

import (
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

const batchedTripCount = 500

// tripRowReader implements gtfsRowReader interface for gtfs.Trip
// batches inserts
type tripRowReader struct {
	batchedTrips []*gtfs.Trip
}

func (t *tripRowReader) addRow(parser *gtfsFileParser, tx *sqlx.Tx) error {
	trip, err := buildTrip(parser)
	if err != nil {
		return err
	}
	t.batchedTrips = append(t.batchedTrips, trip)

	//check if its time to save the batch
	if len(t.batchedTrips) == batchedTripCount {
		return t.flush(tx)
	}
	return nil
}

func (t *tripRowReader) flush(tx *sqlx.Tx) error {
	if len(t.batchedTrips) == 0 {
		return nil
	}

	err := gtfs.RecordTrips(tx, t.batchedTrips)
	if err != nil {
		return err
	}

	// truncate the batch
	t.batchedTrips = make([]*gtfs.Trip, 0)
	return nil
}

func buildTrip(parser *gtfsFileParser) (*gtfs.Trip, error) {
	trip := gtfs.Trip{}
	trip.TripId = parser.getString("trip_id", false)
	trip.RouteId = parser.getString("route_id", false)
	trip.ServiceId = parser.getString("service_id", false)
	trip.TripHeadsign = parser.getStringPointer("trip_headsign", true)
	trip.DirectionId = parser.getInt("direction_id", true)
	trip.BlockId = parser.getString("block_id", true)
	trip.ShapeId = parser.getString("shape_id", true)
	return &trip, parser.getError()
}
