package views

import (
	"strings"

	"msr175-plot/models"
)

// CSVSchema defines the column layout of an MSR175 report export.
// This file is the single source of truth for header recognition.

// ColumnRole identifies what a CSV column carries.
type ColumnRole int

const (
	ColumnUnknown ColumnRole = iota
	ColumnTime
	ColumnX
	ColumnY
	ColumnZ
)

var roleNames = map[ColumnRole]string{
	ColumnUnknown: "unknown",
	ColumnTime:    "time",
	ColumnX:       "x",
	ColumnY:       "y",
	ColumnZ:       "z",
}

func (r ColumnRole) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// CanonicalHeader is the header name the MSR report software writes.
func (r ColumnRole) CanonicalHeader() string {
	switch r {
	case ColumnTime:
		return "Time (msec)"
	case ColumnX:
		return "X (g)"
	case ColumnY:
		return "Y (g)"
	case ColumnZ:
		return "Z (g)"
	}
	return ""
}

// Channel maps an acceleration role to its model channel.
func (r ColumnRole) Channel() (models.Channel, bool) {
	switch r {
	case ColumnX:
		return models.ChannelX, true
	case ColumnY:
		return models.ChannelY, true
	case ColumnZ:
		return models.ChannelZ, true
	}
	return 0, false
}

// SchemaColumns lists the accepted header names per role, compared after
// NormalizeHeader. The first entry is what the MSR report software writes.
var SchemaColumns = map[ColumnRole][]string{
	ColumnTime: {"time (msec)", "time (ms)", "time [ms]", "time", "t"},
	ColumnX:    {"x (g)", "x [g]", "x", "acc x", "x-axis"},
	ColumnY:    {"y (g)", "y [g]", "y", "acc y", "y-axis"},
	ColumnZ:    {"z (g)", "z [g]", "z", "acc z", "z-axis"},
}

// NormalizeHeader lower-cases and collapses whitespace, and strips a UTF-8
// byte order mark that Windows exports put in front of the first cell.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// RoleOf classifies a header cell.
func RoleOf(header string) ColumnRole {
	n := NormalizeHeader(header)
	for role, aliases := range SchemaColumns {
		for _, a := range aliases {
			if n == a {
				return role
			}
		}
	}
	return ColumnUnknown
}

// HeaderLayout is the column index for each role found in a header row.
type HeaderLayout map[ColumnRole]int

// ParseHeader records the first column of each known role.
func ParseHeader(cells []string) HeaderLayout {
	layout := HeaderLayout{}
	for i, c := range cells {
		role := RoleOf(c)
		if role == ColumnUnknown {
			continue
		}
		if _, seen := layout[role]; !seen {
			layout[role] = i
		}
	}
	return layout
}

// DetectHeader decides whether a row is the header row. Rows with a "Key:"
// cell are preamble metadata, and a single recognised column only counts
// when it is spelled out (X (g)), not a bare one-letter name.
func DetectHeader(cells []string) (HeaderLayout, bool) {
	for _, c := range cells {
		if strings.HasSuffix(strings.TrimSpace(c), ":") {
			return nil, false
		}
	}
	layout := ParseHeader(cells)
	if !layout.HasAcceleration() {
		return nil, false
	}
	if len(layout) == 1 {
		for _, i := range layout {
			if len(NormalizeHeader(cells[i])) <= 1 {
				return nil, false
			}
		}
	}
	return layout, true
}

// Missing returns the required roles absent from the header.
func (h HeaderLayout) Missing(required ...ColumnRole) []ColumnRole {
	var out []ColumnRole
	for _, r := range required {
		if _, ok := h[r]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// HasAcceleration reports whether at least one axis column is present.
func (h HeaderLayout) HasAcceleration() bool {
	for _, r := range []ColumnRole{ColumnX, ColumnY, ColumnZ} {
		if _, ok := h[r]; ok {
			return true
		}
	}
	return false
}

// Channels returns the present axes in X, Y, Z order.
func (h HeaderLayout) Channels() []models.Channel {
	var out []models.Channel
	for _, r := range []ColumnRole{ColumnX, ColumnY, ColumnZ} {
		if _, ok := h[r]; ok {
			ch, _ := r.Channel()
			out = append(out, ch)
		}
	}
	return out
}

// Width is the minimum number of cells a data row needs.
func (h HeaderLayout) Width() int {
	w := 0
	for _, i := range h {
		if i+1 > w {
			w = i + 1
		}
	}
	return w
}
