// Package delays produces the per route delay report for one service date by
// reconciling observed stop arrivals against the loaded gtfs schedule.
package delays

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// Config holds the delay report parameters
type Config struct {
	ServiceDate     string // YYYYMMDD
	MinObservations int
	Timezone        string
}

// RunDelayReport loads the observed arrivals and schedule for the configured
// service date, computes per route delay statistics and writes the report to
// out. A date with no position data produces an informative message, not an
// error.
func RunDelayReport(log *log.Logger, db *sqlx.DB, out io.Writer, cfg Config) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("loading agency timezone %q: %w", cfg.Timezone, err)
	}
	serviceDay, err := gtfs.ParseServiceDate(cfg.ServiceDate, loc)
	if err != nil {
		return err
	}

	eventCount, err := busposition.CountStoppedEvents(db, cfg.ServiceDate)
	if err != nil {
		return fmt.Errorf("counting stopped events: %w", err)
	}
	if eventCount == 0 {
		fmt.Fprintf(out, "No position data recorded for service date %s\n", cfg.ServiceDate)
		return nil
	}
	log.Printf("found %d stopped events for service date %s", eventCount, cfg.ServiceDate)

	events, err := busposition.GetStoppedEvents(db, cfg.ServiceDate)
	if err != nil {
		return fmt.Errorf("loading stopped events: %w", err)
	}
	arrivals := matchArrivals(events)
	tripIds := tripIdsFromArrivals(arrivals)
	log.Printf("matched %d arrivals over %d trips", len(arrivals), len(tripIds))

	trips, err := gtfs.GetTrips(db, tripIds)
	if err != nil {
		return fmt.Errorf("loading trips: %w", err)
	}

	calendars, err := gtfs.GetCalendars(db)
	if err != nil {
		return fmt.Errorf("loading calendars: %w", err)
	}
	exceptions, err := gtfs.GetCalendarDates(db, cfg.ServiceDate)
	if err != nil {
		return fmt.Errorf("loading calendar exceptions: %w", err)
	}
	activeServiceIds := make(map[string]bool)
	for _, serviceId := range gtfs.ActiveServiceIds(calendars, exceptions, serviceDay) {
		activeServiceIds[serviceId] = true
	}
	log.Printf("%d services active on %s", len(activeServiceIds), cfg.ServiceDate)

	stopTimes, err := gtfs.GetStopTimes(db, tripIds)
	if err != nil {
		return fmt.Errorf("loading stop times: %w", err)
	}

	observations := computeDelays(serviceDay, arrivals, trips, activeServiceIds, stopTimes)
	summaries, overallMean, totalObservations := summarizeRoutes(observations, cfg.MinObservations)
	if len(summaries) == 0 {
		fmt.Fprintf(out, "No route reached %d schedule matched observations on service date %s\n",
			cfg.MinObservations, cfg.ServiceDate)
		return nil
	}

	routes, err := gtfs.GetRoutes(db)
	if err != nil {
		return fmt.Errorf("loading routes: %w", err)
	}

	renderReport(out, serviceDay, summaries, routes, overallMean, totalObservations)
	return nil
}
