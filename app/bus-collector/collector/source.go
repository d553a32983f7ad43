package collector

import (
	"fmt"
	"log"
	"time"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/httpclient"
)

// positionSource produces one snapshot of normalized vehicle positions per call
type positionSource interface {
	Fetch() ([]*busposition.VehiclePosition, error)
}

// feedSource fetches a vehicle positions feed over http and normalizes it
type feedSource struct {
	log     *log.Logger
	url     string
	format  string
	metrics *Metrics
}

func newFeedSource(logger *log.Logger, url string, format string, metrics *Metrics) (*feedSource, error) {
	if format != FeedFormatJSON && format != FeedFormatProtobuf {
		return nil, fmt.Errorf("unknown feed format %q, expected %q or %q",
			format, FeedFormatJSON, FeedFormatProtobuf)
	}
	return &feedSource{
		log:     logger,
		url:     url,
		format:  format,
		metrics: metrics,
	}, nil
}

// Fetch retrieves and parses the configured feed. A malformed response is a
// fetch failure; individual invalid entities are dropped and counted, never
// failing the snapshot.
func (s *feedSource) Fetch() ([]*busposition.VehiclePosition, error) {
	body, err := httpclient.GetBytes(s.url)
	if err != nil {
		return nil, err
	}

	recordedAt := time.Now().UTC()
	var positions []*busposition.VehiclePosition
	var dropped int
	if s.format == FeedFormatProtobuf {
		positions, dropped, err = parseProtobufFeed(body, recordedAt)
	} else {
		positions, dropped, err = parseEnhancedJSONFeed(body, recordedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s feed: %w", s.format, err)
	}
	if dropped > 0 {
		s.log.Printf("dropped %d feed entities missing vehicle id or coordinates", dropped)
		s.metrics.EntitiesDropped.Add(float64(dropped))
	}
	return positions, nil
}
