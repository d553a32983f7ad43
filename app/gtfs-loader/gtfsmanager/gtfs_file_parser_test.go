package gtfsmanager

import (
	"strings"
	"testing"
)

func makeTestParser(t *testing.T, csvContent string) *gtfsFileParser {
	t.Helper()
	parser, err := makeGTFSFileParser(strings.NewReader(csvContent), "test.txt")
	if err != nil {
		t.Fatalf("Unable to make gtfsFileParser %s", err)
	}
	err = parser.nextLine()
	if err != nil {
		t.Fatalf("Unable to move gtfsFileParser to first line %s", err)
	}
	return parser
}

func TestGTFSFileParser_getString(t *testing.T) {
	headers := "one,two"
	tests := []struct {
		name         string
		askForColumn string
		optional     bool
		line         string
		want         string
		expectError  bool
	}{
		{
			name:         "missing",
			askForColumn: "three",
			optional:     false,
			line:         "first,second",
			want:         "",
			expectError:  true,
		},
		{
			name:         "missing optional",
			askForColumn: "three",
			optional:     true,
			line:         "first,second",
			want:         "",
			expectError:  false,
		},
		{
			name:         "first",
			askForColumn: "one",
			optional:     false,
			line:         "first,second",
			want:         "first",
			expectError:  false,
		},
		{
			name:         "empty",
			askForColumn: "one",
			optional:     false,
			line:         ",second",
			want:         "",
			expectError:  true,
		},
		{
			name:         "empty optional",
			askForColumn: "one",
			optional:     true,
			line:         ",second",
			want:         "",
			expectError:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := makeTestParser(t, headers+"\n"+tt.line+"\n")
			got := parser.getString(tt.askForColumn, tt.optional)
			err := parser.getError()
			if (err != nil) != tt.expectError {
				t.Errorf("getString() error = %v, expectError %v", err, tt.expectError)
				return
			}
			if got != tt.want {
				t.Errorf("getString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGTFSFileParser_getScheduleTime(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		optional    bool
		want        string
		expectError bool
	}{
		{
			name: "valid time",
			line: "10:30:00",
			want: "10:30:00",
		},
		{
			name: "time past midnight",
			line: "25:35:00",
			want: "25:35:00",
		},
		{
			name:     "empty optional",
			line:     "",
			optional: true,
			want:     "",
		},
		{
			name:        "empty required",
			line:        "",
			expectError: true,
		},
		{
			name:        "malformed",
			line:        "1030",
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := makeTestParser(t, "arrival_time\n"+tt.line+"\n")
			got := parser.getScheduleTime("arrival_time", tt.optional)
			err := parser.getError()
			if (err != nil) != tt.expectError {
				t.Errorf("getScheduleTime() error = %v, expectError %v", err, tt.expectError)
				return
			}
			if got != tt.want {
				t.Errorf("getScheduleTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGTFSFileParser_getServiceDate(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		want        string
		expectError bool
	}{
		{
			name: "valid date",
			line: "20260105",
			want: "20260105",
		},
		{
			name:        "dashed date",
			line:        "2026-01-05",
			expectError: true,
		},
		{
			name:        "not a date",
			line:        "tomorrow",
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := makeTestParser(t, "start_date\n"+tt.line+"\n")
			got := parser.getServiceDate("start_date", false)
			err := parser.getError()
			if (err != nil) != tt.expectError {
				t.Errorf("getServiceDate() error = %v, expectError %v", err, tt.expectError)
				return
			}
			if got != tt.want {
				t.Errorf("getServiceDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGTFSFileParser_removesBOM(t *testing.T) {
	parser := makeTestParser(t, "\uFEFFroute_id,route_type\n100,3\n")
	got := parser.getString("route_id", false)
	if err := parser.getError(); err != nil {
		t.Errorf("unexpected parse error: %v", err)
		return
	}
	if got != "100" {
		t.Errorf("getString() = %v, want 100", got)
	}
}
