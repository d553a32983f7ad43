package delays

import (
	"sort"
	"time"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// onTimeThresholdSeconds is how far off schedule an arrival can be, in either
// direction, and still count as on time
const onTimeThresholdSeconds = 300

// delayObservation is one observed arrival compared against the schedule.
// DelaySeconds is positive when the bus is late, negative when early.
type delayObservation struct {
	RouteId      string
	TripId       string
	StopId       string
	DelaySeconds int64
}

// RouteDelaySummary aggregates the delay observations for one route
type RouteDelaySummary struct {
	RouteId            string
	Observations       int
	MeanDelayMinutes   float64
	MedianDelayMinutes float64
	OnTimePercent      float64
}

// computeDelays turns observed arrivals into delay observations. serviceDay is
// midnight of the service date in the agency timezone. An arrival only
// produces an observation when its trip is known, the trip's service ran on
// the service day, and a schedule arrival time exists for the stop.
func computeDelays(serviceDay time.Time,
	arrivals map[arrivalKey]*busposition.StoppedEvent,
	trips map[string]*gtfs.Trip,
	activeServiceIds map[string]bool,
	stopTimes map[string]map[string]*gtfs.StopTime) []delayObservation {

	observations := make([]delayObservation, 0, len(arrivals))
	for key, event := range arrivals {
		trip, present := trips[key.tripId]
		if !present {
			continue
		}
		if !activeServiceIds[trip.ServiceId] {
			continue
		}
		stopTime := stopTimes[key.tripId][key.stopId]
		if stopTime == nil || len(stopTime.ArrivalTime) == 0 {
			continue
		}
		scheduleSeconds, err := gtfs.SecondsFromScheduleTime(stopTime.ArrivalTime)
		if err != nil {
			continue
		}
		scheduledAt := gtfs.MakeScheduleTime(serviceDay, scheduleSeconds)
		observations = append(observations, delayObservation{
			RouteId:      trip.RouteId,
			TripId:       key.tripId,
			StopId:       key.stopId,
			DelaySeconds: event.VehicleTimestamp - scheduledAt.Unix(),
		})
	}
	return observations
}

// summarizeRoutes groups observations by route and produces per route delay
// statistics, dropping routes with fewer than minObservations observations.
// Results are ordered by descending mean delay, ties broken by route id.
// The second return value is the observation weighted mean delay in minutes
// across the included routes, the third the observation count behind it.
func summarizeRoutes(observations []delayObservation, minObservations int) ([]RouteDelaySummary, float64, int) {
	byRoute := make(map[string][]int64)
	for _, obs := range observations {
		byRoute[obs.RouteId] = append(byRoute[obs.RouteId], obs.DelaySeconds)
	}

	summaries := make([]RouteDelaySummary, 0, len(byRoute))
	totalDelaySeconds := int64(0)
	totalObservations := 0
	for routeId, delays := range byRoute {
		if len(delays) < minObservations {
			continue
		}
		onTime := 0
		sum := int64(0)
		for _, delay := range delays {
			sum += delay
			if delay >= -onTimeThresholdSeconds && delay <= onTimeThresholdSeconds {
				onTime++
			}
		}
		summaries = append(summaries, RouteDelaySummary{
			RouteId:            routeId,
			Observations:       len(delays),
			MeanDelayMinutes:   float64(sum) / float64(len(delays)) / 60.0,
			MedianDelayMinutes: medianSeconds(delays) / 60.0,
			OnTimePercent:      float64(onTime) / float64(len(delays)) * 100.0,
		})
		totalDelaySeconds += sum
		totalObservations += len(delays)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].MeanDelayMinutes != summaries[j].MeanDelayMinutes {
			return summaries[i].MeanDelayMinutes > summaries[j].MeanDelayMinutes
		}
		return summaries[i].RouteId < summaries[j].RouteId
	})

	overallMean := 0.0
	if totalObservations > 0 {
		overallMean = float64(totalDelaySeconds) / float64(totalObservations) / 60.0
	}
	return summaries, overallMean, totalObservations
}

// medianSeconds returns the median of delays in seconds, interpolating between
// the two middle values for even sized inputs. delays is sorted in place.
func medianSeconds(delays []int64) float64 {
	sort.Slice(delays, func(i, j int) bool { return delays[i] < delays[j] })
	middle := len(delays) / 2
	if len(delays)%2 == 1 {
		return float64(delays[middle])
	}
	return (float64(delays[middle-1]) + float64(delays[middle])) / 2.0
}
