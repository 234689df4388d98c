package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"msr175-plot/models"
	"msr175-plot/utils"
	"msr175-plot/views"
)

// ReadMSR175CSV opens an MSR175 report export and parses it into a Series.
func ReadMSR175CSV(path string) (*models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &utils.FileError{Path: path, Err: err}
	}
	defer f.Close()

	return ParseMSR175CSV(f, path)
}

// ParseMSR175CSV parses an export from r. path is only used in errors and
// copied into the Series.
//
// Layout:
//
//	Event ID:,17,,Start Date:,22-01-31     optional preamble, Key:,value pairs
//	Time (msec),X (g),Y (g),Z (g)          header, time column optional
//	0,0.01,-0.02,1.00                      data
func ParseMSR175CSV(r io.Reader, path string) (*models.Series, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	meta := map[string]string{}
	var (
		layout views.HeaderLayout
		header []string
	)

	// ── Preamble + header ────────────────────────────────────────────
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, &utils.ParseError{Path: path, Msg: "no header row (expected Time (msec), X (g), Y (g), Z (g))"}
		}
		if err != nil {
			return nil, readError(path, err)
		}
		if l, ok := views.DetectHeader(rec); ok {
			layout, header = l, rec
			break
		}
		collectMetadata(meta, rec)
	}

	// All three axes are required; the time column may be replaced by a
	// sample rate.
	if missing := layout.Missing(views.ColumnX, views.ColumnY, views.ColumnZ); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, r := range missing {
			names[i] = r.CanonicalHeader()
		}
		line, _ := cr.FieldPos(0)
		return nil, &utils.ParseError{
			Path: path,
			Line: line,
			Msg:  "header is missing acceleration column(s) " + strings.Join(names, ", "),
		}
	}

	timeCol, hasTime := layout[views.ColumnTime]
	channels := layout.Channels()
	width := layout.Width()

	series := &models.Series{
		Path:     path,
		Channels: channels,
		HasTime:  hasTime,
		Metadata: meta,
	}

	// ── Data rows ────────────────────────────────────────────────────
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(path, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) < width {
			return nil, &utils.ParseError{
				Path: path,
				Line: line,
				Msg:  fmt.Sprintf("row has %d fields, need at least %d", len(rec), width),
			}
		}

		smp := models.Sample{Row: line, TimeMs: math.NaN()}
		if hasTime {
			v, err := parseCell(path, line, header[timeCol], rec[timeCol])
			if err != nil {
				return nil, err
			}
			smp.TimeMs = v
		}
		for _, role := range []views.ColumnRole{views.ColumnX, views.ColumnY, views.ColumnZ} {
			col, ok := layout[role]
			if !ok {
				continue
			}
			v, err := parseCell(path, line, header[col], rec[col])
			if err != nil {
				return nil, err
			}
			ch, _ := role.Channel()
			smp.Accel[ch] = v
		}
		series.Samples = append(series.Samples, smp)
	}

	if series.Len() == 0 {
		return nil, &utils.ParseError{Path: path, Msg: "header found but no data rows"}
	}
	return series, nil
}

func parseCell(path string, line int, column, cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &utils.ParseError{
			Path:   path,
			Line:   line,
			Column: column,
			Msg:    fmt.Sprintf("non-numeric value %q", s),
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &utils.ParseError{
			Path:   path,
			Line:   line,
			Column: column,
			Msg:    fmt.Sprintf("non-finite value %q", s),
		}
	}
	return v, nil
}

// collectMetadata stores "Key:" cells with the cell that follows them.
func collectMetadata(meta map[string]string, rec []string) {
	for i := 0; i+1 < len(rec); i++ {
		key := strings.TrimSpace(rec[i])
		if !strings.HasSuffix(key, ":") {
			continue
		}
		key = views.NormalizeHeader(strings.TrimSuffix(key, ":"))
		if key == "" {
			continue
		}
		meta[key] = strings.TrimSpace(rec[i+1])
		i++
	}
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &utils.ParseError{Path: path, Line: pe.Line, Msg: "malformed CSV", Err: pe.Err}
	}
	return &utils.FileError{Path: path, Err: err}
}
