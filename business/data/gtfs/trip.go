package gtfs

import (
	"fmt"
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/database"
)

// Trip contains data from a gtfs trip definition in a trips.txt file
type Trip struct {
	TripId       string  `db:"trip_id"`
	RouteId      string  `db:"route_id"`
	ServiceId    string  `db:"service_id"`
	TripHeadsign *string `db:"trip_headsign"`
	DirectionId  int     `db:"direction_id"`
	BlockId      string  `db:"block_id"`
	ShapeId      string  `db:"shape_id"`
}

// RecordTrips saves trips to database in batch
func RecordTrips(tx *sqlx.Tx, trips []*Trip) error {
	if len(trips) == 0 {
		return nil
	}
	statementString := "insert into gtfs_trips ( " +
		"trip_id, " +
		"route_id, " +
		"service_id, " +
		"trip_headsign, " +
		"direction_id, " +
		"block_id, " +
		"shape_id) " +
		"values (" +
		":trip_id, " +
		":route_id, " +
		":service_id, " +
		":trip_headsign, " +
		":direction_id, " +
		":block_id, " +
		":shape_id)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, trips)
	return err
}

// GetTrips retrieves trips with tripIds keyed by trip_id.
// tripIds absent from the schedule are simply absent from the result
func GetTrips(db *sqlx.DB, tripIds []string) (map[string]*Trip, error) {
	results := make(map[string]*Trip)
	if len(tripIds) == 0 {
		return results, nil
	}
	statementString := "select * from gtfs_trips where trip_id in (:trip_ids)"
	rows, err := database.PrepareNamedQueryRowsFromMap(statementString, db, map[string]interface{}{
		"trip_ids": tripIds,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve trips from gtfs_trips table. error: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		trip := Trip{}
		err = rows.StructScan(&trip)
		if err != nil {
			return nil, err
		}
		results[trip.TripId] = &trip
	}
	return results, rows.Err()
}
