// Package busposition provides the vehicle position event data model and access
// to the append-only bus_positions log. Rows are written once per collector
// cycle per vehicle and never updated or deleted by the analysis path.
package busposition

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// Canonical current_status values reported by a gtfs-rt vehicle feed.
// Feeds that report something else pass through unchanged; the delay analysis
// only ever matches on StatusStoppedAt.
const (
	StatusIncomingAt  = "INCOMING_AT"
	StatusStoppedAt   = "STOPPED_AT"
	StatusInTransitTo = "IN_TRANSIT_TO"
)

// VehiclePosition is one observation of one vehicle at one instant.
// Optional feed fields are pointers and nil when the feed did not report them.
type VehiclePosition struct {
	Id                  int64     `db:"id"`
	RecordedAt          time.Time `db:"recorded_at"`
	FeedTimestamp       int64     `db:"feed_timestamp"`
	VehicleId           string    `db:"vehicle_id"`
	RouteId             *string   `db:"route_id"`
	TripId              *string   `db:"trip_id"`
	DirectionId         *int      `db:"direction_id"`
	Latitude            float64   `db:"latitude"`
	Longitude           float64   `db:"longitude"`
	CurrentStopSequence *int      `db:"current_stop_sequence"`
	StopId              *string   `db:"stop_id"`
	CurrentStatus       *string   `db:"current_status"`
	VehicleTimestamp    *int64    `db:"vehicle_timestamp"`
	StartDate           *string   `db:"start_date"`
	BlockId             *string   `db:"block_id"`
}

// RecordVehiclePositions appends positions to the bus_positions log in a single batch.
// An empty batch is a no-op.
func RecordVehiclePositions(db *sqlx.DB, positions []*VehiclePosition) error {
	if len(positions) == 0 {
		return nil
	}
	statementString := "insert into bus_positions ( " +
		"recorded_at, " +
		"feed_timestamp, " +
		"vehicle_id, " +
		"route_id, " +
		"trip_id, " +
		"direction_id, " +
		"latitude, " +
		"longitude, " +
		"current_stop_sequence, " +
		"stop_id, " +
		"current_status, " +
		"vehicle_timestamp, " +
		"start_date, " +
		"block_id) " +
		"values (" +
		":recorded_at, " +
		":feed_timestamp, " +
		":vehicle_id, " +
		":route_id, " +
		":trip_id, " +
		":direction_id, " +
		":latitude, " +
		":longitude, " +
		":current_stop_sequence, " +
		":stop_id, " +
		":current_status, " +
		":vehicle_timestamp, " +
		":start_date, " +
		":block_id)"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, positions)
	return err
}

// StoppedEvent is a bus_positions row that qualifies as evidence of a physical
// arrival: the vehicle reported STOPPED_AT with a trip, a stop and its own timestamp.
// The route is not carried here; delay analysis always takes it from the trip so
// observations land on the scheduled route even when the feed misreports one.
type StoppedEvent struct {
	TripId           string `db:"trip_id"`
	StopId           string `db:"stop_id"`
	VehicleId        string `db:"vehicle_id"`
	VehicleTimestamp int64  `db:"vehicle_timestamp"`
}

// CountStoppedEvents returns how many qualifying STOPPED_AT rows exist for serviceDate
func CountStoppedEvents(db *sqlx.DB, serviceDate string) (int, error) {
	query := "select count(*) from bus_positions " +
		"where current_status = ? " +
		"and start_date = ? " +
		"and trip_id is not null"
	var count int
	err := db.Get(&count, db.Rebind(query), StatusStoppedAt, serviceDate)
	return count, err
}

// GetStoppedEvents retrieves every qualifying STOPPED_AT row for serviceDate.
// Row order carries no meaning; the matcher selects on vehicle_timestamp alone.
func GetStoppedEvents(db *sqlx.DB, serviceDate string) ([]*StoppedEvent, error) {
	query := "select trip_id, stop_id, vehicle_id, vehicle_timestamp " +
		"from bus_positions " +
		"where current_status = ? " +
		"and start_date = ? " +
		"and trip_id is not null " +
		"and stop_id is not null " +
		"and vehicle_timestamp is not null"
	var results []*StoppedEvent
	err := db.Select(&results, db.Rebind(query), StatusStoppedAt, serviceDate)
	return results, err
}
