package delays

import (
	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
)

// arrivalKey identifies a single scheduled visit of a trip to a stop
type arrivalKey struct {
	tripId string
	stopId string
}

// matchArrivals reduces raw stopped events to one observed arrival per trip
// and stop: the event with the smallest vehicle timestamp. A bus that sits at
// a stop over several collection cycles produces several events, and the
// earliest one is the arrival. The result does not depend on input order.
func matchArrivals(events []*busposition.StoppedEvent) map[arrivalKey]*busposition.StoppedEvent {
	arrivals := make(map[arrivalKey]*busposition.StoppedEvent)
	for _, event := range events {
		key := arrivalKey{tripId: event.TripId, stopId: event.StopId}
		existing, present := arrivals[key]
		if !present || event.VehicleTimestamp < existing.VehicleTimestamp {
			arrivals[key] = event
		}
	}
	return arrivals
}

// tripIdsFromArrivals collects the distinct trip ids observed in arrivals
func tripIdsFromArrivals(arrivals map[arrivalKey]*busposition.StoppedEvent) []string {
	seen := make(map[string]bool)
	tripIds := make([]string, 0)
	for key := range arrivals {
		if !seen[key.tripId] {
			seen[key.tripId] = true
			tripIds = append(tripIds, key.tripId)
		}
	}
	return tripIds
}
