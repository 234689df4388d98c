package models

import (
	"math"
	"path/filepath"
	"strings"
)

// Metadata keys recognised in the preamble above the header row.
const (
	MetaEventID      = "event id"
	MetaStartDate    = "start date"
	MetaStartTime    = "start time"
	MetaSamplingRate = "sampling rate"
)

// Series is everything parsed from one CSV file.
// It is owned by a single file's processing step and never shared.
type Series struct {
	Path     string            `json:"path"`
	Channels []Channel         `json:"channels"` // axes present in the file
	Samples  []Sample          `json:"samples"`
	HasTime  bool              `json:"has_time"` // file carried a time column
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Len returns the number of data rows.
func (s *Series) Len() int { return len(s.Samples) }

// Has reports whether the channel is present in the file.
func (s *Series) Has(c Channel) bool {
	for _, ch := range s.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// Values returns one channel as a flat slice.
func (s *Series) Values(c Channel) []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Value(c)
	}
	return out
}

// Total returns the magnitude over the present channels for every row.
func (s *Series) Total() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		var sum float64
		for _, c := range s.Channels {
			v := smp.Value(c)
			sum += v * v
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

// EventID returns the logger's event id, or "" if the preamble had none.
func (s *Series) EventID() string {
	return s.Metadata[MetaEventID]
}

// Name is the file's base name without extension.
func (s *Series) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
