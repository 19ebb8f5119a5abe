// Package export writes computed series as JSON, CSV and text tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-retrograde/internal/bodies"
	"github.com/litescript/ls-retrograde/internal/orbit"
	"github.com/litescript/ls-retrograde/internal/retro"
)

// SeriesExport is the JSON-serializable representation of a series.
// Non-finite numbers are written as null.
type SeriesExport struct {
	Observer       BodyExport       `json:"observer"`
	Target         BodyExport       `json:"target"`
	Window         WindowExport     `json:"window"`
	SynodicDays    *float64         `json:"synodic_period_days"`
	RetrogradeDays float64          `json:"retrograde_days"`
	Stations       []StationExport  `json:"stations"`
	Segments       []SegmentExport  `json:"segments"`
	Intervals      []IntervalExport `json:"retrograde_intervals"`
	Samples        []SampleExport   `json:"samples,omitempty"`
}

// BodyExport is a JSON-friendly body with its elements.
type BodyExport struct {
	Name                 string   `json:"name"`
	SemiMajorAxisAU      float64  `json:"semi_major_axis_au"`
	Eccentricity         float64  `json:"eccentricity"`
	LongitudeOfPeriapsis float64  `json:"longitude_of_periapsis_deg"`
	MeanLongitude        float64  `json:"mean_longitude_deg"`
	PeriodDays           *float64 `json:"period_days"`
}

// WindowExport describes the sampled span.
type WindowExport struct {
	StartDay     float64 `json:"start_day"`
	EndDay       float64 `json:"end_day"`
	ReferenceDay float64 `json:"reference_day"`
	StepDays     float64 `json:"step_days"`
	Samples      int     `json:"samples"`
}

// StationExport is one stationary event.
type StationExport struct {
	Day  float64 `json:"day"`
	Kind string  `json:"kind"`
}

// SegmentExport is one motion segment between cut points.
type SegmentExport struct {
	StartDay float64  `json:"start_day"`
	EndDay   float64  `json:"end_day"`
	Motion   string   `json:"motion"`
	MidRate  *float64 `json:"mid_rate_deg_per_day"`
}

// IntervalExport is one retrograde interval.
type IntervalExport struct {
	StartDay     float64 `json:"start_day"`
	EndDay       float64 `json:"end_day"`
	DurationDays float64 `json:"duration_days"`
}

// SampleExport is one grid sample.
type SampleExport struct {
	Day       float64  `json:"day"`
	Longitude *float64 `json:"longitude_deg"`
	Unwrapped *float64 `json:"unwrapped_deg"`
	Rate      *float64 `json:"rate_deg_per_day"`
}

// ExportSeries converts a series to an exportable format. Samples are
// included only when withSamples is set.
func ExportSeries(observer, target bodies.Body, s *retro.Series, withSamples bool) *SeriesExport {
	export := &SeriesExport{
		Observer:    exportBody(observer),
		Target:      exportBody(target),
		SynodicDays: num(orbit.SynodicPeriod(observer.Elements, target.Elements)),
		Stations:    []StationExport{},
		Segments:    []SegmentExport{},
		Intervals:   []IntervalExport{},
	}
	if s == nil {
		return export
	}

	export.Window = WindowExport{
		StartDay:     s.Window.StartDay,
		EndDay:       s.Window.EndDay(),
		ReferenceDay: s.Window.ReferenceDay,
		StepDays:     s.StepDays,
		Samples:      s.Len(),
	}
	export.RetrogradeDays = s.RetrogradeDays()

	for _, st := range s.Stations {
		export.Stations = append(export.Stations, StationExport{Day: st.Day, Kind: st.Kind.String()})
	}
	for _, seg := range s.Segments {
		export.Segments = append(export.Segments, SegmentExport{
			StartDay: seg.StartDay,
			EndDay:   seg.EndDay,
			Motion:   seg.Motion.String(),
			MidRate:  num(seg.MidRate),
		})
	}
	for _, iv := range s.Intervals {
		export.Intervals = append(export.Intervals, IntervalExport{
			StartDay:     iv.StartDay,
			EndDay:       iv.EndDay,
			DurationDays: iv.Duration(),
		})
	}

	if withSamples {
		export.Samples = make([]SampleExport, s.Len())
		for i, t := range s.Times {
			export.Samples[i] = SampleExport{
				Day:       t,
				Longitude: num(s.Wrapped[i]),
				Unwrapped: num(s.Unwrapped[i]),
				Rate:      num(s.Rate[i]),
			}
		}
	}

	return export
}

func exportBody(b bodies.Body) BodyExport {
	return BodyExport{
		Name:                 b.Name,
		SemiMajorAxisAU:      b.Elements.SemiMajorAxisAU,
		Eccentricity:         b.Elements.Eccentricity,
		LongitudeOfPeriapsis: b.Elements.LongitudeOfPeriapsisDeg,
		MeanLongitude:        b.Elements.ReferenceMeanLongitudeDeg,
		PeriodDays:           num(b.PeriodDays()),
	}
}

// num returns nil for values JSON cannot carry.
func num(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// WriteJSON writes the export as indented JSON to the given writer.
func (e *SeriesExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"day", "longitude_deg", "unwrapped_deg", "rate_deg_per_day", "motion"}

// WriteCSV writes one row per sample. Non-finite values are left empty.
func WriteCSV(w io.Writer, s *retro.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	seg := 0
	for i, t := range s.Times {
		// Samples are ascending, so the segment cursor only moves forward.
		for seg < len(s.Segments)-1 && t > s.Segments[seg].EndDay {
			seg++
		}
		motion := ""
		if seg < len(s.Segments) {
			motion = s.Segments[seg].Motion.String()
		}

		row := []string{
			formatFloat(t),
			formatFloat(s.Wrapped[i]),
			formatFloat(s.Unwrapped[i]),
			formatFloat(s.Rate[i]),
			motion,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// WriteSummaryTable writes a text report of the series to the given writer.
func WriteSummaryTable(w io.Writer, observer, target bodies.Body, s *retro.Series) {
	fmt.Fprintf(w, "%s from %s, days %.1f to %.1f (%d samples, step %.3f d)\n",
		target.Name, observer.Name, s.Window.StartDay, s.Window.EndDay(), s.Len(), s.StepDays)
	fmt.Fprintln(w, strings.Repeat("─", 64))

	if syn := orbit.SynodicPeriod(observer.Elements, target.Elements); !math.IsInf(syn, 0) && !math.IsNaN(syn) {
		fmt.Fprintf(w, "Synodic period:   %.1f d\n", syn)
	}
	if lo, hi, ok := finiteRange(s.Unwrapped); ok {
		fmt.Fprintf(w, "Longitude span:   %.2f° to %.2f°\n", lo, hi)
	}
	if lo, hi, ok := finiteRange(s.Rate); ok {
		fmt.Fprintf(w, "Rate range:       %+.4f to %+.4f °/d\n", lo, hi)
	}
	if s.HasNaN() {
		fmt.Fprintln(w, "Warning:          series contains undefined samples")
	}

	fmt.Fprintln(w)
	if len(s.Stations) == 0 {
		fmt.Fprintln(w, "No stationary points")
	} else {
		fmt.Fprintf(w, "%-4s %12s  %-10s\n", "#", "Day", "Station")
		for i, st := range s.Stations {
			fmt.Fprintf(w, "%-4d %12.3f  %-10s\n", i+1, st.Day, st.Kind)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%12s %12s %10s  %-13s %12s\n", "Start", "End", "Days", "Motion", "Mid rate")
	fmt.Fprintln(w, strings.Repeat("─", 64))
	for _, seg := range s.Segments {
		fmt.Fprintf(w, "%12.3f %12.3f %10.2f  %-13s %12s\n",
			seg.StartDay, seg.EndDay, seg.Duration(), seg.Motion, formatRate(seg.MidRate))
	}

	fmt.Fprintf(w, "\nTotal: %d retrograde intervals, %.2f days retrograde\n",
		len(s.Intervals), s.RetrogradeDays())
}

// WriteBodyList writes the catalog, innermost body first.
func WriteBodyList(w io.Writer, cat *bodies.Catalog) {
	fmt.Fprintf(w, "Bodies (%s elements)\n", cat.Source())
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "%-10s %-6s %9s %8s %9s %10s\n", "Name", "Code", "a (AU)", "e", "ϖ (°)", "Period (d)")
	for _, name := range cat.Names() {
		b, err := cat.Lookup(name)
		if err != nil {
			continue
		}
		el := b.Elements
		fmt.Fprintf(w, "%-10s %-6s %9.4f %8.5f %9.3f %10.2f\n",
			truncateStr(b.Name, 10), truncateStr(b.Code, 6),
			el.SemiMajorAxisAU, el.Eccentricity, el.LongitudeOfPeriapsisDeg, b.PeriodDays())
	}
}

func formatRate(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return strconv.FormatFloat(r, 'f', 4, 64)
}

// finiteRange returns the min and max of the finite values in xs.
func finiteRange(xs []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
