package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"msr175-plot/models"
	"msr175-plot/utils"
)

func TestParseMSR175CSV(t *testing.T) {
	csvData := `"Time (msec)","X (g)","Y (g)","Z (g)"
0,0.10,-0.20,1.00
0.5,0.30,-0.10,0.90
1.0,-0.40,0.00,1.10`

	series, err := ParseMSR175CSV(strings.NewReader(csvData), "ID-0.csv")
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	if series.Len() != 3 {
		t.Fatalf("Expected 3 samples, got %d", series.Len())
	}
	if !series.HasTime {
		t.Error("Expected a time column")
	}
	if len(series.Channels) != 3 {
		t.Errorf("Expected 3 channels, got %v", series.Channels)
	}

	wantT := []float64{0, 0.5, 1.0}
	wantZ := []float64{1.00, 0.90, 1.10}
	for i, s := range series.Samples {
		if s.TimeMs != wantT[i] {
			t.Errorf("time[%d]: expected %f, got %f", i, wantT[i], s.TimeMs)
		}
		if s.Value(models.ChannelZ) != wantZ[i] {
			t.Errorf("z[%d]: expected %f, got %f", i, wantZ[i], s.Value(models.ChannelZ))
		}
	}
	if series.Samples[0].Row != 2 {
		t.Errorf("Expected first data row on line 2, got %d", series.Samples[0].Row)
	}
}

func TestParseMSR175CSVPreamble(t *testing.T) {
	csvData := `Event ID:,17,,Start Date:,22-01-31
,,,Start Time:,12:30:00
Sampling Rate:,1600
Time (msec),X (g),Y (g),Z (g)
0,1,2,3
0.625,1,2,3`

	series, err := ParseMSR175CSV(strings.NewReader(csvData), "ev.csv")
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if series.EventID() != "17" {
		t.Errorf("Expected event id 17, got %q", series.EventID())
	}
	if got := series.Metadata[models.MetaStartTime]; got != "12:30:00" {
		t.Errorf("Expected start time 12:30:00, got %q", got)
	}
	if got := series.Metadata[models.MetaSamplingRate]; got != "1600" {
		t.Errorf("Expected sampling rate 1600, got %q", got)
	}
	if series.Len() != 2 {
		t.Errorf("Expected 2 samples, got %d", series.Len())
	}
}

func TestParseMSR175CSVWithoutTimeColumn(t *testing.T) {
	csvData := "X (g),Y (g),Z (g)\n1,5,2\n3,6,4\n"

	series, err := ParseMSR175CSV(strings.NewReader(csvData), "no-time.csv")
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if series.HasTime {
		t.Error("Expected no time column")
	}
	if len(series.Channels) != 3 {
		t.Errorf("Expected 3 channels, got %v", series.Channels)
	}
	if series.Samples[1].HasTime() {
		t.Error("Samples should have no timestamp")
	}
	if series.Samples[1].Value(models.ChannelZ) != 4 {
		t.Errorf("Expected z=4, got %v", series.Samples[1].Value(models.ChannelZ))
	}
}

func TestParseMSR175CSVSkipsBlankRows(t *testing.T) {
	csvData := "Time (msec),X (g),Y (g),Z (g)\n0,1,1,1\n,,,\n1,2,2,2\n"

	series, err := ParseMSR175CSV(strings.NewReader(csvData), "blank.csv")
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("Expected 2 samples, got %d", series.Len())
	}
}

func TestParseMSR175CSVMetadataRowIsNotHeader(t *testing.T) {
	csvData := `Axis:,X
Event ID:,9
Time (msec),X (g),Y (g),Z (g)
0,1,2,3
`

	series, err := ParseMSR175CSV(strings.NewReader(csvData), "axis.csv")
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if got := series.Metadata["axis"]; got != "X" {
		t.Errorf("Expected axis metadata X, got %q", got)
	}
	if series.EventID() != "9" || series.Len() != 1 {
		t.Errorf("Unexpected series: event %q, %d samples", series.EventID(), series.Len())
	}
}

func TestParseMSR175CSVErrors(t *testing.T) {
	cases := []struct {
		name     string
		data     string
		wantLine int
	}{
		{"missing acceleration column", "Time (msec),Temp (C)\n0,21\n", 0},
		{"empty file", "", 0},
		{"missing Y and Z", "Time (msec),X (g)\n0,1\n", 1},
		{"missing Z after preamble", "Event ID:,4\nTime (msec),X (g),Y (g)\n0,1,2\n", 2},
		{"header only", "Time (msec),X (g),Y (g),Z (g)\n", 0},
		{"non-numeric cell", "Time (msec),X (g),Y (g),Z (g)\n0,1,1,1\n0.5,abc,1,1\n", 3},
		{"non-finite cell", "Time (msec),X (g),Y (g),Z (g)\n0,NaN,1,1\n", 2},
		{"short row", "Time (msec),X (g),Y (g),Z (g)\n0,1,2,3\n0.5,1,2\n", 3},
		{"bad quoting", "Time (msec),X (g),Y (g),Z (g)\n0,1,1,\"1\n", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMSR175CSV(strings.NewReader(tc.data), "bad.csv")
			var pe *utils.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected ParseError, got %v", err)
			}
			if tc.wantLine > 0 && pe.Line != tc.wantLine {
				t.Errorf("Expected line %d, got %d (%v)", tc.wantLine, pe.Line, err)
			}
		})
	}
}

func TestReadMSR175CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ID-0.csv")
	if err := os.WriteFile(path, []byte("Time (msec),X (g),Y (g),Z (g)\n0,1,1,1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	series, err := ReadMSR175CSV(path)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if series.Path != path || series.Name() != "ID-0" {
		t.Errorf("Unexpected series identity %q / %q", series.Path, series.Name())
	}

	_, err = ReadMSR175CSV(filepath.Join(dir, "missing.csv"))
	var fe *utils.FileError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FileError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("FileError should wrap ErrNotExist: %v", err)
	}
}
