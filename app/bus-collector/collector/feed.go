package collector

import (
	"encoding/json"
	"time"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
)

// Feed formats the collector understands
const (
	// FeedFormatJSON is the enhanced vehicle positions feed, gtfs-rt rendered as json
	FeedFormatJSON = "json"
	// FeedFormatProtobuf is a standard gtfs-rt protocol buffer vehicle positions feed
	FeedFormatProtobuf = "pb"
)

// enhancedFeed mirrors the json document shape of an enhanced gtfs-rt vehicle
// positions feed. Optional fields are pointers so absence survives normalization.
type enhancedFeed struct {
	Header struct {
		Timestamp int64 `json:"timestamp"`
	} `json:"header"`
	Entity []enhancedFeedEntity `json:"entity"`
}

type enhancedFeedEntity struct {
	Id      string               `json:"id"`
	Vehicle *enhancedFeedVehicle `json:"vehicle"`
}

type enhancedFeedVehicle struct {
	Trip                *enhancedFeedTrip     `json:"trip"`
	Vehicle             *enhancedFeedVehRef   `json:"vehicle"`
	Position            *enhancedFeedPosition `json:"position"`
	CurrentStopSequence *int                  `json:"current_stop_sequence"`
	StopId              *string               `json:"stop_id"`
	CurrentStatus       *string               `json:"current_status"`
	Timestamp           *int64                `json:"timestamp"`
	BlockId             *string               `json:"block_id"`
}

type enhancedFeedTrip struct {
	TripId      *string `json:"trip_id"`
	RouteId     *string `json:"route_id"`
	DirectionId *int    `json:"direction_id"`
	StartDate   *string `json:"start_date"`
}

type enhancedFeedVehRef struct {
	Id *string `json:"id"`
}

type enhancedFeedPosition struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// parseEnhancedJSONFeed normalizes an enhanced json feed document into vehicle
// position events. Entities without a vehicle id or coordinates are dropped and
// counted; every other field passes through as reported, nulls included.
func parseEnhancedJSONFeed(body []byte, recordedAt time.Time) ([]*busposition.VehiclePosition, int, error) {
	feed := enhancedFeed{}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, 0, err
	}

	var positions []*busposition.VehiclePosition
	dropped := 0
	for _, entity := range feed.Entity {
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
			RecordedAt:          recordedAt,
			FeedTimestamp:       feed.Header.Timestamp,
			VehicleId:           *vehicle.Vehicle.Id,
			Latitude:            *vehicle.Position.Latitude,
			Longitude:           *vehicle.Position.Longitude,
			CurrentStopSequence: vehicle.CurrentStopSequence,
			StopId:              vehicle.StopId,
			CurrentStatus:       vehicle.CurrentStatus,
			VehicleTimestamp:    vehicle.Timestamp,
			BlockId:             vehicle.BlockId,
		}
		if trip := vehicle.Trip; trip != nil {
			position.TripId = trip.TripId
			position.RouteId = trip.RouteId
			position.DirectionId = trip.DirectionId
			position.StartDate = trip.StartDate
		}
		positions = append(positions, &position)
	}
	return positions, dropped, nil
}
