package gtfsmanager

import (
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

const batchedStopTimeCount = 250

// stopTimeRowReader implements gtfsRowReader interface for gtfs.StopTime
// batches inserts
type stopTimeRowReader struct {
	batchedStopTimes []*gtfs.StopTime
}

func (s *stopTimeRowReader) addRow(parser *gtfsFileParser, tx *sqlx.Tx) error {
	stopTime, err := buildStopTime(parser)
	if err != nil {
		return err
	}
	s.batchedStopTimes = append(s.batchedStopTimes, stopTime)

	//check if its time to save the batch
	if len(s.batchedStopTimes) == batchedStopTimeCount {
		return s.flush(tx)
	}
	return nil
}

func (s *stopTimeRowReader) flush(tx *sqlx.Tx) error {
	if len(s.batchedStopTimes) == 0 {
		return nil
	}

	err := gtfs.RecordStopTimes(tx, s.batchedStopTimes)
	if err != nil {
		return err
	}

	// truncate the batch
	s.batchedStopTimes = make([]*gtfs.StopTime, 0)
	return nil
}

func buildStopTime(parser *gtfsFileParser) (*gtfs.StopTime, error) {
	stopTime := gtfs.StopTime{}
	stopTime.TripId = parser.getString("trip_id", false)
	stopTime.StopId = parser.getString("stop_id", false)
	stopTime.StopSequence = parser.getInt("stop_sequence", false)
	// arrival and departure may be blank on non timepoint rows
	stopTime.ArrivalTime = parser.getScheduleTime("arrival_time", true)
	stopTime.DepartureTime = parser.getScheduleTime("departure_time", true)
	stopTime.PickupType = parser.getInt("pickup_type", true)
	stopTime.DropOffType = parser.getInt("drop_off_type", true)
	stopTime.Timepoint = parser.getInt("timepoint", true)
	return &stopTime, parser.getError()
}
