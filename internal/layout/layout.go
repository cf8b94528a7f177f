// Package layout computes side-by-side placement for overlapping bookings on
// a day timeline. Overlapping bookings share the horizontal space of their
// cluster; bookings that never overlap each other keep the full width.
package layout

import "sort"

// Geometry bounds the rendered width of a single booking and the gap between
// columns, in pixels.
type Geometry struct {
	MinEventWidth int
	MaxEventWidth int
	Gap           int
}

// DefaultGeometry matches the timeline renderer defaults.
var DefaultGeometry = Geometry{MinEventWidth: 150, MaxEventWidth: 320, Gap: 5}

// Interval is one booking's vertical extent in minutes since midnight, with
// Start inclusive and End exclusive.
type Interval struct {
	ID    string
	Start int
	End   int
}

// Placement is the computed position of one interval: its column index, the
// total column count of its cluster, and the pixel offset and width within
// the container.
type Placement struct {
	ID      string `json:"id"`
	Column  int    `json:"column"`
	Columns int    `json:"columns"`
	Left    int    `json:"left"`
	Width   int    `json:"width"`
}

// Engine lays out intervals inside a container of a given pixel width.
type Engine struct {
	geom Geometry
}

// NewEngine creates a layout engine. Non-positive geometry fields fall back
// to the defaults.
func NewEngine(geom Geometry) *Engine {
	if geom.MinEventWidth <= 0 {
		geom.MinEventWidth = DefaultGeometry.MinEventWidth
	}
	if geom.MaxEventWidth <= 0 {
		geom.MaxEventWidth = DefaultGeometry.MaxEventWidth
	}
	if geom.Gap <= 0 {
		geom.Gap = DefaultGeometry.Gap
	}
	return &Engine{geom: geom}
}

// Result carries the placements plus the width the container would need to
// render every cluster at the minimum event width. RequiredWidth never falls
// below containerWidth.
type Result struct {
	Placements    []Placement `json:"placements"`
	RequiredWidth int         `json:"required_width"`
}

// Layout assigns every interval a column within its overlap cluster and
// converts columns to pixel geometry. Input order does not matter; the
// returned placements are ordered by start ascending, longer first on ties.
func (e *Engine) Layout(intervals []Interval, containerWidth int) Result {
	if containerWidth <= 0 {
		containerWidth = e.geom.MaxEventWidth
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	result := Result{
		Placements:    make([]Placement, 0, len(sorted)),
		RequiredWidth: containerWidth,
	}

	// With intervals sorted by start, a cluster ends exactly where the next
	// interval starts at or after the maximum end seen so far. Every pair of
	// transitively-overlapping intervals lands in the same group.
	for lo := 0; lo < len(sorted); {
		hi := lo + 1
		maxEnd := sorted[lo].End
		for hi < len(sorted) && sorted[hi].Start < maxEnd {
			if sorted[hi].End > maxEnd {
				maxEnd = sorted[hi].End
			}
			hi++
		}
		e.placeCluster(sorted[lo:hi], containerWidth, &result)
		lo = hi
	}

	return result
}

// placeCluster runs greedy first-fit column assignment over one overlap
// cluster and appends the pixel placements.
func (e *Engine) placeCluster(cluster []Interval, containerWidth int, result *Result) {
	// columnEnds[c] is the end of the last interval placed in column c.
	var columnEnds []int
	columns := make([]int, len(cluster))

	for i, iv := range cluster {
		placed := false
		for c, end := range columnEnds {
			if end <= iv.Start {
				columnEnds[c] = iv.End
				columns[i] = c
				placed = true
				break
			}
		}
		if !placed {
			columns[i] = len(columnEnds)
			columnEnds = append(columnEnds, iv.End)
		}
	}

	numCols := len(columnEnds)
	gap := e.geom.Gap

	width := (containerWidth - (numCols-1)*gap) / numCols
	if width > e.geom.MaxEventWidth {
		width = e.geom.MaxEventWidth
	}
	if width < e.geom.MinEventWidth {
		width = e.geom.MinEventWidth
		required := numCols*e.geom.MinEventWidth + (numCols-1)*gap
		if required > result.RequiredWidth {
			result.RequiredWidth = required
		}
	}

	for i, iv := range cluster {
		result.Placements = append(result.Placements, Placement{
			ID:      iv.ID,
			Column:  columns[i],
			Columns: numCols,
			Left:    columns[i] * (width + gap),
			Width:   width,
		})
	}
}
