package collector

import (
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/database"
)

// positionStore appends position batches to durable storage.
// Reconnect releases and reacquires the underlying connection so the loop can
// recover from storage failures without restarting the process.
type positionStore interface {
	Record(positions []*busposition.VehiclePosition) error
	Reconnect() error
	Close()
}

// dbPositionStore owns the postgres connection for the collector. The handle is
// scoped to this struct: acquire on open, release and reacquire on Reconnect.
type dbPositionStore struct {
	log       *log.Logger
	cfg       database.Config
	db        *sqlx.DB
	publisher *batchPublisher
}

// openPositionStore connects to postgres and ensures the bus_positions schema exists
func openPositionStore(logger *log.Logger, cfg database.Config, publisher *batchPublisher) (*dbPositionStore, error) {
	store := &dbPositionStore{
		log:       logger,
		cfg:       cfg,
		publisher: publisher,
	}
	if err := store.Reconnect(); err != nil {
		return nil, err
	}
	return store, nil
}

// Record appends positions as one batch. When nats publishing is configured the
// stored batch is also published, best effort, after the insert commits.
func (s *dbPositionStore) Record(positions []*busposition.VehiclePosition) error {
	if err := busposition.RecordVehiclePositions(s.db, positions); err != nil {
		return err
	}
	if s.publisher != nil && len(positions) > 0 {
		s.publisher.publish(positions)
	}
	return nil
}

// Reconnect releases any current connection and acquires a fresh one,
// re-running schema init since the reconnect may follow a server restart
func (s *dbPositionStore) Reconnect() error {
	s.release()
	db, err := database.Open(s.cfg)
	if err != nil {
		return err
	}
	if err = busposition.InitSchema(s.log, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *dbPositionStore) release() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.log.Printf("error closing database connection: %v", err)
	}
	s.db = nil
}

func (s *dbPositionStore) Close() {
	s.release()
}
