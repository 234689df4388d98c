package models

// EventSummary describes one processed file.
// It is logged for every file and optionally exported as a CSV row.
type EventSummary struct {
	File             string  `json:"file"`
	EventID          string  `json:"event_id"`
	Samples          int     `json:"samples"`
	SamplingPeriodMs float64 `json:"sampling_period_ms"`
	DurationMs       float64 `json:"duration_ms"`
	MaxTotalG        float64 `json:"max_total_g"`
	PlotPath         string  `json:"plot_path"`
}

// SamplingFrequencyHz is 1000 / period, or 0 when the period is unknown.
func (e *EventSummary) SamplingFrequencyHz() float64 {
	if e.SamplingPeriodMs <= 0 {
		return 0
	}
	return 1000.0 / e.SamplingPeriodMs
}

func (EventSummary) CSVHeader() []string {
	return []string{
		"file", "event_id", "samples", "sampling_period_ms",
		"sampling_frequency_hz", "duration_ms", "max_total_g", "plot_path",
	}
}

func (e *EventSummary) CSVRow() []string {
	return []string{
		e.File,
		e.EventID,
		itoa(e.Samples),
		ftoa(e.SamplingPeriodMs, 6),
		ftoa(e.SamplingFrequencyHz(), 3),
		ftoa(e.DurationMs, 3),
		ftoa(e.MaxTotalG, 3),
		e.PlotPath,
	}
}
