package busposition

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

var createTableStatements = []string{
	`create table if not exists bus_positions (
		id bigserial,
		recorded_at timestamptz not null,
		feed_timestamp bigint not null,
		vehicle_id text not null,
		route_id text,
		trip_id text,
		direction_id integer,
		latitude double precision not null,
		longitude double precision not null,
		current_stop_sequence integer,
		stop_id text,
		current_status text,
		vehicle_timestamp bigint,
		start_date text,
		block_id text,
		primary key (id, recorded_at)
	)`,
	`create index if not exists idx_bus_positions_vehicle_time
		on bus_positions (vehicle_id, recorded_at desc)`,
	`create index if not exists idx_bus_positions_route_time
		on bus_positions (route_id, recorded_at desc)`,
	`create index if not exists idx_bus_positions_recorded_at
		on bus_positions (recorded_at desc)`,
}

// InitSchema creates the bus_positions table and indexes if they don't exist.
// When the TimescaleDB extension is installed the table is converted to a
// hypertable with a seven day compression policy; on plain postgres the table
// is left as-is. The extension is detected with an explicit probe rather than
// by attempting the conversion and inspecting the failure.
func InitSchema(logger *log.Logger, db *sqlx.DB) error {
	for _, statement := range createTableStatements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("creating bus_positions schema: %w", err)
		}
	}

	timescaleAvailable, err := hasTimescaleExtension(db)
	if err != nil {
		return fmt.Errorf("probing for timescaledb extension: %w", err)
	}
	if !timescaleAvailable {
		logger.Printf("TimescaleDB not available, using regular postgres table")
		return nil
	}

	if err = enableHypertable(db); err != nil {
		return fmt.Errorf("enabling timescaledb hypertable: %w", err)
	}
	logger.Printf("TimescaleDB hypertable and compression policy enabled")
	return nil
}

// hasTimescaleExtension probes pg_extension for an installed timescaledb extension
func hasTimescaleExtension(db *sqlx.DB) (bool, error) {
	var count int
	err := db.Get(&count, "select count(*) from pg_extension where extname = 'timescaledb'")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func enableHypertable(db *sqlx.DB) error {
	statements := []string{
		`select create_hypertable('bus_positions', 'recorded_at',
			if_not_exists => true,
			migrate_data => true)`,
		`alter table bus_positions set (
			timescaledb.compress,
			timescaledb.compress_segmentby = 'vehicle_id, route_id')`,
		`select add_compression_policy('bus_positions', interval '7 days', if_not_exists => true)`,
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}
