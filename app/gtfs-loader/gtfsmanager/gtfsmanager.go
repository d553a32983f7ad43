// Package gtfsmanager provides support for reading, parsing and saving gtfs schedules to a database
package gtfsmanager

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
)

// scheduleFiles maps each gtfs flat file to the rowReader that records it.
// The order matters: trips reference routes and calendars, stop times reference trips.
func scheduleFiles() []struct {
	filename string
	reader   gtfsRowReader
} {
	return []struct {
		filename string
		reader   gtfsRowReader
	}{
		{"routes.txt", &routeRowReader{}},
		{"stops.txt", &stopRowReader{}},
		{"calendar.txt", &calendarRowReader{}},
		{"calendar_dates.txt", &calendarDateRowReader{}},
		{"trips.txt", &tripRowReader{}},
		{"stop_times.txt", &stopTimeRowReader{}},
	}
}

// RebuildGTFSSchedule replaces the gtfs tables with the contents of the flat
// files found in gtfsDir, all inside a single transaction. A missing file is
// logged and its table is left empty. A malformed row aborts the load and the
// previous schedule remains in place.
func RebuildGTFSSchedule(log *log.Logger, db *sqlx.DB, gtfsDir string) error {
	if _, err := os.Stat(gtfsDir); err != nil {
		return fmt.Errorf("unable to read gtfs directory %s: %w", gtfsDir, err)
	}

	err := transact(log, db, func(tx *sqlx.Tx) error {
		if err := rebuildScheduleTables(tx); err != nil {
			return err
		}
		for _, file := range scheduleFiles() {
			if err := loadGTFSFile(log, tx, filepath.Join(gtfsDir, file.filename), file.reader); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ListTableCounts(db)
}

// loadGTFSFile reads the gtfs file at path with rowReader.
// a missing file is a warning, not an error
func loadGTFSFile(log *log.Logger, tx *sqlx.Tx, path string, rowReader gtfsRowReader) error {
	start := time.Now()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Printf("gtfs file %s not present, loading no rows", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Printf("unable to close gtfs file %s, error: %v", path, closeErr)
		}
	}()

	parser, err := makeGTFSFileParser(f, filepath.Base(path))
	if err != nil {
		return err
	}
	log.Printf("Loading %s\n", parser.Filename)
	err = loadGTFSRows(tx, parser, rowReader)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d rows in file %s in %d seconds\n", parser.line-1, parser.Filename,
		time.Now().Unix()-start.Unix())
	return nil
}

// ListTableCounts displays current row counts for every gtfs table
func ListTableCounts(db *sqlx.DB) error {
	fmt.Println("Loaded gtfs tables:")
	for _, table := range scheduleTables {
		var count int
		if err := db.Get(&count, fmt.Sprintf("select count(*) from %s", table.name)); err != nil {
			return fmt.Errorf("counting rows in %s: %w", table.name, err)
		}
		fmt.Printf("%-20s %d rows\n", table.name, count)
	}
	return nil
}

/*
transact starts a Transaction on sqlx.DB, calls txFunc and commits or rolls back the transaction depending on the
return code of the txFunc result
*/
func transact(log *log.Logger, db *sqlx.DB, txFunc func(*sqlx.Tx) error) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback() // err is non-nil; don't change it
			if rollbackErr != nil {
				log.Printf("Received error while attempting to rollback transaction. error:%v", rollbackErr)
			}
			return
		}
		err = tx.Commit() // err is nil; if Commit returns error update err
	}()
	err = txFunc(tx)
	return err
}
