package gtfsmanager

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
)

// gtfsRowReader interface defines methods used to read rows from a gtfs csv file and record them to a database
type gtfsRowReader interface {

	// addRow should read the current line from gtfsFileParser and record the resulting record with tx
	// or store the record to be recorded in a batch later via flush
	addRow(parser *gtfsFileParser, tx *sqlx.Tx) error

	// flush should record any pending records with tx, if any
	flush(tx *sqlx.Tx) error
}

// gtfsFileParser holds information about a csv file. Methods to read columns for records. Errors while extracting data types
// are stored in errors array which record the line number the error happened.
type gtfsFileParser struct {
	Filename       string
	line           int
	csvReader      *csv.Reader
	headers        []string
	currentRecords []string
	errors         []error
}

// makeGTFSFileParser creates new gtfsFileParser from io.Reader
func makeGTFSFileParser(r io.Reader, filename string) (*gtfsFileParser, error) {
	csvReader := csv.NewReader(r)

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to load header in %s file: %v", filename, err)
	}
	removeBOMIfPresent(headers)

	return &gtfsFileParser{
		Filename:       filename,
		line:           1,
		csvReader:      csvReader,
		headers:        headers,
		currentRecords: headers,
	}, nil
}

func removeBOMIfPresent(headers []string) {
	if len(headers) < 1 {
		return
	}
	firstHeader := headers[0]
	if len(firstHeader) < 1 {
		return
	}
	runes := []rune(firstHeader)
	if runes[0] == '\uFEFF' { //check for BOM
		headers[0] = string(runes[1:])
	}
}

// getString retrieves string
// returns empty string if missing
func (C *gtfsFileParser) getString(name string, optional bool) string {
	result := C.getStringPointer(name, optional)
	if result == nil {
		return ""
	}
	return *result
}

// getStringPointer retrieves string pointer
// returns nil if missing
func (C *gtfsFileParser) getStringPointer(name string, optional bool) *string {
	result, err := findValue(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
	}
	return result
}

// getInt retrieves int
// returns 0 if missing.
func (C *gtfsFileParser) getInt(name string, optional bool) int {
	result, err := getInt(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
	}
	if result == nil {
		return 0
	}
	return *result
}

// getFloat64Pointer retrieves float64 pointer
// returns nil if missing.
func (C *gtfsFileParser) getFloat64Pointer(name string, optional bool) *float64 {
	result, err := getFloat64(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
	}
	return result
}

// getScheduleTime retrieves a gtfs HH:MM:SS time column, validating the format
// but preserving the original string, times past 24:00:00 included
func (C *gtfsFileParser) getScheduleTime(name string, optional bool) string {
	result, err := findValue(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
		return ""
	}
	if result == nil || len(*result) == 0 {
		return ""
	}
	if _, err = gtfs.SecondsFromScheduleTime(*result); err != nil {
		C.errors = append(C.errors, csvError(name, err))
		return ""
	}
	return *result
}

// getServiceDate retrieves a gtfs YYYYMMDD date column, validating the format
// but preserving the original string
func (C *gtfsFileParser) getServiceDate(name string, optional bool) string {
	result, err := findValue(name, C.currentRecords, C.headers, optional)
	if err != nil {
		C.errors = append(C.errors, err)
		return ""
	}
	if result == nil || len(*result) == 0 {
		return ""
	}
	if _, err = time.Parse(gtfs.ServiceDateLayout, *result); err != nil {
		C.errors = append(C.errors, csvError(name, err))
		return ""
	}
	return *result
}

// getError retrieve last error encountered while parsing csv file
func (C *gtfsFileParser) getError() error {
	if len(C.errors) > 0 {
		return fmt.Errorf("in file %v, line %v: %v", C.Filename, C.line, C.errors)
	}
	return nil
}

// addParseError appends error to list of parsing errors encountered in csv file
func (C *gtfsFileParser) addParseError(err error) {
	C.errors = append(C.errors, err)
}

// nextLine moves csvReader one line forward
func (C *gtfsFileParser) nextLine() error {
	var err error
	C.currentRecords, err = C.csvReader.Read()
	C.line += 1
	return err
}

// find index of elements that matches name string. returns -1 if not found
func indexOf(name string, elements []string) int {
	for i, value := range elements {
		if name == value {
			return i
		}
	}
	return -1
}

// findValue retrieves string value from csv records
// returns nil if record isn't present and optional is true
func findValue(name string, records []string, headers []string, optional bool) (*string, error) {
	index := indexOf(name, headers)
	if index < 0 {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to find header: %s", name)
	}
	if len(records) <= index {
		return nil, fmt.Errorf("records are too short to find header at %v named %s", index, name)
	}
	value := records[index]
	if len(value) == 0 && !optional {
		return nil, fmt.Errorf("missing required value in column %v", name)
	}
	return &value, nil
}

// getInt retrieves int from csv records
// returns nil if record isn't present and optional is true
func getInt(name string, records []string, headers []string, optional bool) (*int, error) {
	value, err := findValue(name, records, headers, optional)
	if err != nil || value == nil {
		return nil, err
	}
	if len(*value) == 0 {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("missing required value in column %v", name)
	}
	result, err := strconv.Atoi(*value)
	if err != nil {
		return nil, csvError(name, err)
	}
	return &result, nil
}

// getFloat64 retrieves float64 from csv records
// returns nil if record isn't present and optional is true
func getFloat64(name string, records []string, headers []string, optional bool) (*float64, error) {
	value, err := findValue(name, records, headers, optional)
	if err != nil || value == nil {
		return nil, err
	}
	if len(*value) == 0 {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("missing required value in column %v", name)
	}
	result, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		return nil, csvError(name, err)
	}
	return &result, nil
}

// csvError convenience method for formatting an error and line number in csv file.
func csvError(name string, err error) error {
	return fmt.Errorf("unable to parse column %s, error: %v ", name, err)
}

// loadGTFSRows iterates over all rows in gtfsFileParser and feeds them into rowReader.
// reading halts if an error occurs and the error is returned
func loadGTFSRows(tx *sqlx.Tx, parser *gtfsFileParser, rowReader gtfsRowReader) error {

	for {
		err := parser.nextLine()

		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = rowReader.addRow(parser, tx)

		if err != nil {
			parser.addParseError(err)
			return parser.getError()
		}
	}
	//flush the remaining items out of the row reader into the database
	return rowReader.flush(tx)
}
