package gtfsmanager

import (
	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

const batchedStopCount = 500

// stopRowReader implements gtfsRowReader interface for gtfs.Stop
// batches inserts
type stopRowReader struct {
	batchedStops []*gtfs.Stop
}

func (s *stopRowReader) addRow(parser *gtfsFileParser, tx *sqlx.Tx) error {
	stop, err := buildStop(parser)
	if err != nil {
		return err
	}
	s.batchedStops = append(s.batchedStops, stop)

	//check if its time to save the batch
	if len(s.batchedStops) == batchedStopCount {
		return s.flush(tx)
	}
	return nil
}

func (s *stopRowReader) flush(tx *sqlx.Tx) error {
	if len(s.batchedStops) == 0 {
		return nil
	}

	err := gtfs.RecordStops(tx, s.batchedStops)
	if err != nil {
		return err
	}

	// truncate the batch
	s.batchedStops = make([]*gtfs.Stop, 0)
	return nil
}

func buildStop(parser *gtfsFileParser) (*gtfs.Stop, error) {
	stop := gtfs.Stop{}
	stop.StopId = parser.getString("stop_id", false)
	stop.StopCode = parser.getString("stop_code", true)
	stop.StopName = parser.getString("stop_name", true)
	stop.StopLat = parser.getFloat64Pointer("stop_lat", true)
	stop.StopLon = parser.getFloat64Pointer("stop_lon", true)
	stop.LocationType = parser.getInt("location_type", true)
	stop.ParentStation = parser.getString("parent_station", true)
	stop.WheelchairBoarding = parser.getInt("wheelchair_boarding", true)
	return &stop, parser.getError()
}
