package collector

import (
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
)

// parseProtobufFeed normalizes a standard gtfs-rt protocol buffer feed into
// vehicle position events, applying the same drop rules as the json feed.
// The wire enum for current_status is converted to its canonical string form so
// both feed formats produce identical rows.
func parseProtobufFeed(body []byte, recordedAt time.Time) ([]*busposition.VehiclePosition, int, error) {
	feedMessage := gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(body, &feedMessage); err != nil {
		return nil, 0, err
	}

	var feedTimestamp int64
	if feedMessage.Header != nil && feedMessage.Header.Timestamp != nil {
		feedTimestamp = int64(*feedMessage.Header.Timestamp)
	}

	var positions []*busposition.VehiclePosition
	dropped := 0
	for _, entity := range feedMessage.Entity {
		vehicle := entity.Vehicle
		if vehicle == nil {
			dropped++
			continue
		}
		if vehicle.Vehicle == nil || vehicle.Vehicle.Id == nil || len(*vehicle.Vehicle.Id) == 0 {
			dropped++
			continue
		}
		if vehicle.Position == nil || vehicle.Position.Latitude == nil || vehicle.Position.Longitude == nil {
			dropped++
			continue
		}

		position := busposition.VehiclePosition{
			RecordedAt:    recordedAt,
			FeedTimestamp: feedTimestamp,
			VehicleId:     *vehicle.Vehicle.Id,
			Latitude:      float64(*vehicle.Position.Latitude),
			Longitude:     float64(*vehicle.Position.Longitude),
			StopId:        vehicle.StopId,
			CurrentStatus: statusString(vehicle.CurrentStatus),
		}
		if vehicle.CurrentStopSequence != nil {
			sequence := int(*vehicle.CurrentStopSequence)
			position.CurrentStopSequence = &sequence
		}
		if vehicle.Timestamp != nil {
			timestamp := int64(*vehicle.Timestamp)
			position.VehicleTimestamp = &timestamp
		}
		if trip := vehicle.Trip; trip != nil {
			position.TripId = trip.TripId
			position.RouteId = trip.RouteId
			position.StartDate = trip.StartDate
			if trip.DirectionId != nil {
				direction := int(*trip.DirectionId)
				position.DirectionId = &direction
			}
		}
		positions = append(positions, &position)
	}
	return positions, dropped, nil
}

// statusString converts the gtfs-rt stop status enum to its canonical string,
// or nil when the feed did not report one
func statusString(status *gtfsrtpb.VehiclePosition_VehicleStopStatus) *string {
	if status == nil {
		return nil
	}
	var result string
	switch *status {
	case gtfsrtpb.VehiclePosition_INCOMING_AT:
		result = busposition.StatusIncomingAt
	case gtfsrtpb.VehiclePosition_STOPPED_AT:
		result = busposition.StatusStoppedAt
	case gtfsrtpb.VehiclePosition_IN_TRANSIT_TO:
		result = busposition.StatusInTransitTo
	default:
		return nil
	}
	return &result
}
