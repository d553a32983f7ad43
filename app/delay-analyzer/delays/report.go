package delays

import (
	"fmt"
	"io"
	"time"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// renderReport writes the per route delay table to w. routes supplies display
// names and descriptions and may be missing entries for routes that appear in
// the position log but not the schedule.
func renderReport(w io.Writer,
	serviceDay time.Time,
	summaries []RouteDelaySummary,
	routes map[string]*gtfs.Route,
	overallMeanMinutes float64,
	totalObservations int) {

	fmt.Fprintf(w, "Delay report for service date %s (%s)%s\n",
		gtfs.FormatServiceDate(serviceDay),
		serviceDay.Format("Monday"),
		holidayNote(serviceDay))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-8s %-40s %6s %10s %10s %9s\n",
		"Route", "Description", "Obs", "Avg", "Median", "On-time")
	for _, summary := range summaries {
		name := summary.RouteId
		description := ""
		if route, present := routes[summary.RouteId]; present {
			name = route.DisplayName()
			description = routeDescription(route)
		}
		fmt.Fprintf(w, "%-8s %-40s %6d %10s %10s %8.1f%%\n",
			name,
			truncate(description, 40),
			summary.Observations,
			formatDelayMinutes(summary.MeanDelayMinutes),
			formatDelayMinutes(summary.MedianDelayMinutes),
			summary.OnTimePercent)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall: %s average delay across %d observations on %d routes\n",
		formatDelayMinutes(overallMeanMinutes), totalObservations, len(summaries))
}

// formatDelayMinutes renders a delay in minutes with an explicit sign, so
// early arrivals are obviously distinct from late ones
func formatDelayMinutes(minutes float64) string {
	return fmt.Sprintf("%+.1f min", minutes)
}

func routeDescription(route *gtfs.Route) string {
	if len(route.RouteDesc) > 0 {
		return route.RouteDesc
	}
	return route.RouteLongName
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// holidayNote annotates the report header when the service day is an observed
// agency holiday, since holiday schedules skew delay statistics
func holidayNote(serviceDay time.Time) string {
	if makeTransitHolidayCalendar().isHoliday(serviceDay) {
		return " [holiday schedule in effect]"
	}
	return ""
}
