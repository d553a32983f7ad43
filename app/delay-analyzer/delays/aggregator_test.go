package delays

import (
	"math"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

func TestComputeDelays(t *testing.T) {
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	serviceDay := time.Date(2026, 1, 5, 0, 0, 0, 0, location)
	// scheduled arrival at 10:00:00 on the service day
	scheduledAt := gtfs.MakeScheduleTime(serviceDay, 10*60*60)

	trips := map[string]*gtfs.Trip{
		"trip-1": {TripId: "trip-1", RouteId: "100", ServiceId: "weekday"},
		"trip-9": {TripId: "trip-9", RouteId: "100", ServiceId: "sunday"},
	}
	activeServiceIds := map[string]bool{"weekday": true}
	stopTimes := map[string]map[string]*gtfs.StopTime{
		"trip-1": {
			"stop-1": {TripId: "trip-1", StopId: "stop-1", ArrivalTime: "10:00:00", StopSequence: 5},
			"stop-2": {TripId: "trip-1", StopId: "stop-2", ArrivalTime: "", StopSequence: 6},
		},
		"trip-9": {
			"stop-1": {TripId: "trip-9", StopId: "stop-1", ArrivalTime: "10:00:00", StopSequence: 5},
		},
	}

	tests := []struct {
		name     string
		arrivals map[arrivalKey]*busposition.StoppedEvent
		want     []delayObservation
	}{
		{
			name: "late arrival produces positive delay",
			arrivals: map[arrivalKey]*busposition.StoppedEvent{
				{tripId: "trip-1", stopId: "stop-1"}: makeStoppedEvent("trip-1", "stop-1", "7001", scheduledAt.Unix()+90),
			},
			want: []delayObservation{
				{RouteId: "100", TripId: "trip-1", StopId: "stop-1", DelaySeconds: 90},
			},
		},
		{
			name: "early arrival produces negative delay",
			arrivals: map[arrivalKey]*busposition.StoppedEvent{
				{tripId: "trip-1", stopId: "stop-1"}: makeStoppedEvent("trip-1", "stop-1", "7001", scheduledAt.Unix()-120),
			},
			want: []delayObservation{
				{RouteId: "100", TripId: "trip-1", StopId: "stop-1", DelaySeconds: -120},
			},
		},
		{
			name: "inactive service is excluded",
			arrivals: map[arrivalKey]*busposition.StoppedEvent{
				{tripId: "trip-9", stopId: "stop-1"}: makeStoppedEvent("trip-9", "stop-1", "7001", scheduledAt.Unix()),
			},
			want: []delayObservation{},
		},
		{
			name: "unknown trip is excluded",
			arrivals: map[arrivalKey]*busposition.StoppedEvent{
				{tripId: "trip-404", stopId: "stop-1"}: makeStoppedEvent("trip-404", "stop-1", "7001", scheduledAt.Unix()),
			},
			want: []delayObservation{},
		},
		{
			name: "stop with no schedule row is excluded",
			arrivals: map[arrivalKey]*busposition.StoppedEvent{
				{tripId: "trip-1", stopId: "stop-404"}: makeStoppedEvent("trip-1", "stop-404", "7001", scheduledAt.Unix()),
			},
			want: []delayObservation{},
		},
		{
			name: "blank schedule arrival time is excluded",
			arrivals: map[arrivalKey]*busposition.StoppedEvent{
				{tripId: "trip-1", stopId: "stop-2"}: makeStoppedEvent("trip-1", "stop-2", "7001", scheduledAt.Unix()),
			},
			want: []delayObservation{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got := computeDelays(serviceDay, tt.arrivals, trips, activeServiceIds, stopTimes)
			is.Equal(len(tt.want), len(got))
			for i, want := range tt.want {
				is.Equal(want, got[i])
			}
		})
	}
}

func TestComputeDelaysPastMidnight(t *testing.T) {
	is := is.New(t)
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Errorf("Unable to get testing time zone location")
		return
	}
	serviceDay := time.Date(2026, 1, 5, 0, 0, 0, 0, location)

	trips := map[string]*gtfs.Trip{
		"owl-trip": {TripId: "owl-trip", RouteId: "82", ServiceId: "weekday"},
	}
	stopTimes := map[string]map[string]*gtfs.StopTime{
		"owl-trip": {
			"stop-1": {TripId: "owl-trip", StopId: "stop-1", ArrivalTime: "25:15:00", StopSequence: 2},
		},
	}
	// 1:15am on January 6th belongs to the January 5th service day
	scheduledAt := time.Date(2026, 1, 6, 1, 15, 0, 0, location)
	arrivals := map[arrivalKey]*busposition.StoppedEvent{
		{tripId: "owl-trip", stopId: "stop-1"}: makeStoppedEvent("owl-trip", "stop-1", "7001", scheduledAt.Unix()+60),
	}

	got := computeDelays(serviceDay, arrivals, trips, map[string]bool{"weekday": true}, stopTimes)
	is.Equal(1, len(got))
	is.Equal(int64(60), got[0].DelaySeconds)
}

func delaysOfMinutes(minutes ...float64) []int64 {
	result := make([]int64, 0, len(minutes))
	for _, m := range minutes {
		result = append(result, int64(m*60))
	}
	return result
}

func repeatedObservations(routeId string, delaysSeconds []int64) []delayObservation {
	observations := make([]delayObservation, 0, len(delaysSeconds))
	for _, delay := range delaysSeconds {
		observations = append(observations, delayObservation{RouteId: routeId, DelaySeconds: delay})
	}
	return observations
}

func repeatSeconds(delay int64, count int) []int64 {
	result := make([]int64, count)
	for i := range result {
		result[i] = delay
	}
	return result
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

func TestSummarizeRoutes(t *testing.T) {
	is := is.New(t)

	observations := repeatedObservations("late-route", repeatSeconds(120, 10))
	observations = append(observations, repeatedObservations("on-time-route", repeatSeconds(0, 90))...)
	observations = append(observations, repeatedObservations("sparse-route", repeatSeconds(600, 9))...)

	summaries, overallMean, totalObservations := summarizeRoutes(observations, 10)

	// sparse-route has 9 observations, below the threshold of 10
	is.Equal(2, len(summaries))
	is.Equal("late-route", summaries[0].RouteId) // descending mean delay
	is.Equal("on-time-route", summaries[1].RouteId)

	is.Equal(10, summaries[0].Observations)
	is.True(almostEqual(2.0, summaries[0].MeanDelayMinutes))
	is.True(almostEqual(2.0, summaries[0].MedianDelayMinutes))
	is.True(almostEqual(100.0, summaries[0].OnTimePercent))

	// 10 observations at +2.0 and 90 at +0.0 average to +0.2 weighted
	is.Equal(100, totalObservations)
	is.True(almostEqual(0.2, overallMean))
}

func TestSummarizeRoutesOnTimeThreshold(t *testing.T) {
	is := is.New(t)

	// exactly 300 seconds off in either direction is still on time, 301 is not
	delays := []int64{300, -300, 301, -301}
	summaries, _, _ := summarizeRoutes(repeatedObservations("1-line", delays), 1)

	is.Equal(1, len(summaries))
	is.True(almostEqual(50.0, summaries[0].OnTimePercent))
}

func TestSummarizeRoutesMedianInterpolation(t *testing.T) {
	is := is.New(t)

	// even count interpolates between the two middle values
	summaries, _, _ := summarizeRoutes(repeatedObservations("40-line", delaysOfMinutes(1, 2, 4, 8)), 1)
	is.Equal(1, len(summaries))
	is.True(almostEqual(3.0, summaries[0].MedianDelayMinutes))

	// odd count takes the middle value
	summaries, _, _ = summarizeRoutes(repeatedObservations("40-line", delaysOfMinutes(1, 2, 8)), 1)
	is.Equal(1, len(summaries))
	is.True(almostEqual(2.0, summaries[0].MedianDelayMinutes))
}

func TestSummarizeRoutesEmpty(t *testing.T) {
	is := is.New(t)
	summaries, overallMean, totalObservations := summarizeRoutes(nil, 10)
	is.Equal(0, len(summaries))
	is.True(almostEqual(0.0, overallMean))
	is.Equal(0, totalObservations)
}
