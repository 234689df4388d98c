package views

import (
	"bufio"
	"encoding/csv"
	"os"

	"msr175-plot/models"
	"msr175-plot/utils"
)

// CSVWriter is a buffered CSV writer for per-file run summaries.
// Rows are buffered; write errors surface on Close.
type CSVWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewCSVWriter creates (or truncates) path and writes the header row.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &utils.WriteError{Path: path, Err: err}
	}

	bw := bufio.NewWriter(f)
	cw := csv.NewWriter(bw)

	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			f.Close()
			return nil, &utils.WriteError{Path: path, Err: err}
		}
	}

	return &CSVWriter{path: path, file: f, buf: bw, csv: cw}, nil
}

// WriteRecord appends one model row.
func (w *CSVWriter) WriteRecord(r models.CSVRowWriter) {
	_ = w.csv.Write(r.CSVRow()) // error is buffered; checked on Close
	w.rows++
}

// Close flushes remaining data and closes the file.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	err := w.csv.Error()
	if ferr := w.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &utils.WriteError{Path: w.path, Err: err}
	}
	return nil
}

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 {
	return w.rows
}
