// Package collector continuously polls a vehicle positions feed and appends
// each snapshot to the bus_positions log. The loop is built to outlive any
// transient failure: fetch errors retry on the next cycle, storage errors drop
// the in-flight batch and reconnect, and only an operator shutdown signal ends it.
package collector

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/database"
)

// Config carries the collector's runtime settings
type Config struct {
	FeedURL             string
	FeedFormat          string
	IntervalSeconds     int
	FailureThreshold    int
	StorageRetrySeconds int
	NatsURL             string
	NatsSubject         string
	OpsAddr             string
}

// RunCollectorLoop wires the production feed source, position store, optional
// nats publisher and ops listener, then runs the collection loop until shutdown.
func RunCollectorLoop(logger *log.Logger,
	dbCfg database.Config,
	cfg Config,
	shutdown chan os.Signal) error {

	metrics := NewMetrics()
	if len(cfg.OpsAddr) > 0 {
		server := metrics.Serve(logger, cfg.OpsAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
	}

	var publisher *batchPublisher
	if len(cfg.NatsURL) > 0 {
		natsConnection, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			return err
		}
		defer natsConnection.Close()
		publisher = makeBatchPublisher(logger, natsConnection, cfg.NatsSubject)
	}

	source, err := newFeedSource(logger, cfg.FeedURL, cfg.FeedFormat, metrics)
	if err != nil {
		return err
	}

	store, err := openPositionStore(logger, dbCfg, publisher)
	if err != nil {
		return err
	}
	defer store.Close()

	c := collector{
		log:               logger,
		source:            source,
		store:             store,
		interval:          time.Duration(cfg.IntervalSeconds) * time.Second,
		failureThreshold:  cfg.FailureThreshold,
		storageRetryDelay: time.Duration(cfg.StorageRetrySeconds) * time.Second,
		metrics:           metrics,
	}
	logger.Printf("starting collector, fetching %s every %s", cfg.FeedURL, c.interval)
	return c.run(shutdown)
}

type collector struct {
	log               *log.Logger
	source            positionSource
	store             positionStore
	interval          time.Duration
	failureThreshold  int
	storageRetryDelay time.Duration
	metrics           *Metrics
}

// run executes fetch-normalize-store cycles on the configured cadence.
// If a cycle took T the next sleep is interval-T, never negative, so the
// average cadence holds under slow responses. Returns nil only on shutdown.
func (c *collector) run(shutdown chan os.Signal) error {
	sleepChan := make(chan bool)
	sleep := time.Duration(0) //run the first cycle immediately

	consecutiveFailures := 0

	for {
		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdown:
			c.log.Printf("Exiting on shutdown signal")
			return nil
		case <-sleepChan:
		}

		//default sleep for the next loop in the event of an error before the cycle completes
		sleep = c.interval

		start := time.Now()

		positions, err := c.source.Fetch()
		if err != nil {
			consecutiveFailures++
			c.metrics.FetchFailures.Inc()
			c.metrics.ConsecutiveFetchFailures.Set(float64(consecutiveFailures))
			c.log.Printf("error fetching vehicle positions (%d/%d). error:%v",
				consecutiveFailures, c.failureThreshold, err)

			//transport failures this persistent may really be storage trouble in
			//disguise, so reacquire the connection. A no-op if storage was healthy.
			if consecutiveFailures >= c.failureThreshold {
				c.log.Printf("%d consecutive fetch failures, forcing storage reconnect", consecutiveFailures)
				if !c.forceReconnect(shutdown) {
					return nil
				}
				consecutiveFailures = 0
				c.metrics.ConsecutiveFetchFailures.Set(0)
			}
			continue
		}
		consecutiveFailures = 0
		c.metrics.ConsecutiveFetchFailures.Set(0)

		if err = c.store.Record(positions); err != nil {
			//the in-flight batch is lost, bounded to this one cycle
			c.log.Printf("storage error recording batch of %d positions, batch dropped. error:%v",
				len(positions), err)
			if !c.recoverStorage(shutdown) {
				return nil
			}
			continue
		}
		c.log.Printf("stored %d bus positions", len(positions))
		c.metrics.PositionsStored.Add(float64(len(positions)))

		workTook := time.Since(start)
		c.metrics.CycleDuration.Observe(workTook.Seconds())
		if workTook >= c.interval {
			sleep = time.Duration(0)
		} else {
			sleep = c.interval - workTook
		}
	}
}

// forceReconnect reacquires the storage connection immediately, falling back to
// the delayed recovery loop when the reacquisition itself fails.
// Returns false when shutdown was requested.
func (c *collector) forceReconnect(shutdown chan os.Signal) bool {
	err := c.store.Reconnect()
	if err == nil {
		c.metrics.StoreReconnects.Inc()
		return true
	}
	c.log.Printf("forced storage reconnect failed. error:%v", err)
	return c.recoverStorage(shutdown)
}

// recoverStorage waits the fixed retry delay and reacquires the storage
// connection, repeating until it succeeds. Returns false when shutdown was
// requested during a wait.
func (c *collector) recoverStorage(shutdown chan os.Signal) bool {
	for {
		select {
		case <-shutdown:
			c.log.Printf("Exiting on shutdown signal during storage recovery")
			return false
		case <-time.After(c.storageRetryDelay):
		}
		err := c.store.Reconnect()
		if err == nil {
			c.metrics.StoreReconnects.Inc()
			return true
		}
		c.log.Printf("storage reconnect failed, retrying in %s. error:%v", c.storageRetryDelay, err)
	}
}
