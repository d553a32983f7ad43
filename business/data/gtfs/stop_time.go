package gtfs

import (
	"fmt"
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/database"
)

// StopTime contains a record from a gtfs stop_times.txt file
// represents a scheduled arrival and departure at a stop.
// ArrivalTime and DepartureTime hold the raw gtfs HH:MM:SS strings, which can
// exceed 24:00:00 for trips that cross midnight, and are always relative to the
// trip's service day.
type StopTime struct {
	TripId        string `db:"trip_id"`
	ArrivalTime   string `db:"arrival_time"`
	DepartureTime string `db:"departure_time"`
	StopId        string `db:"stop_id"`
	StopSequence  int    `db:"stop_sequence"`
	PickupType    int    `db:"pickup_type"`
	DropOffType   int    `db:"drop_off_type"`
	Timepoint     int    `db:"timepoint"`
}

// RecordStopTimes saves stopTimes to database in batch
func RecordStopTimes(tx *sqlx.Tx, stopTimes []*StopTime) error {
	if len(stopTimes) == 0 {
		return nil
	}
	statementString := "insert into gtfs_stop_times ( " +
		"trip_id, " +
		"arrival_time, " +
		"departure_time, " +
		"stop_id, " +
		"stop_sequence, " +
		"pickup_type, " +
		"drop_off_type, " +
		"timepoint) " +
		"values (" +
		":trip_id, " +
		":arrival_time, " +
		":departure_time, " +
		":stop_id, " +
		":stop_sequence, " +
		":pickup_type, " +
		":drop_off_type, " +
		":timepoint)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, stopTimes)
	return err
}

// GetStopTimes retrieves the scheduled stop times for tripIds,
// keyed by trip_id and then stop_id.
// A trip can visit the same stop twice on a loop route; the row with the lowest
// stop_sequence wins so the matched arrival compares against the first scheduled visit.
func GetStopTimes(db *sqlx.DB, tripIds []string) (map[string]map[string]*StopTime, error) {
	results := make(map[string]map[string]*StopTime)
	if len(tripIds) == 0 {
		return results, nil
	}
	statementString := "select * from gtfs_stop_times where trip_id in (:trip_ids) " +
		"order by trip_id, stop_sequence"
	rows, err := database.PrepareNamedQueryRowsFromMap(statementString, db, map[string]interface{}{
		"trip_ids": tripIds,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stop times from gtfs_stop_times table. error: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		stopTime := StopTime{}
		err = rows.StructScan(&stopTime)
		if err != nil {
			return nil, err
		}
		byStop, present := results[stopTime.TripId]
		if !present {
			byStop = make(map[string]*StopTime)
			results[stopTime.TripId] = byStop
		}
		if _, present = byStop[stopTime.StopId]; !present {
			byStop[stopTime.StopId] = &stopTime
		}
	}
	return results, rows.Err()
}
