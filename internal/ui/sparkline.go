package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-retrograde/internal/retro"
)

// SparklineWidth is the default width of the sparklines.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Motion colors.
var (
	directColor       = lipgloss.Color("#3478C0")
	retrogradeColor   = lipgloss.Color("#EC4899")
	undeterminedColor = lipgloss.Color("240")
)

// rateColorLow is the color for the most negative rate (magenta).
var rateColorLow = [3]uint8{0xd9, 0x46, 0xef}

// rateColorMid is the color for a rate near the middle of the range (dark blue).
var rateColorMid = [3]uint8{0x1b, 0x2b, 0x4b}

// rateColorHigh is the color for the most positive rate (cyan).
var rateColorHigh = [3]uint8{0x8b, 0xe9, 0xff}

// bucket is one resampled sparkline cell.
type bucket struct {
	Value float64 // mean of the finite samples, NaN if none
	Day   float64 // middle of the bucket
}

// resample averages samples into a fixed number of buckets. NaN samples are
// skipped; a bucket with no finite sample is NaN.
func resample(times, values []float64, width int) []bucket {
	n := len(values)
	if n == 0 || len(times) != n || width <= 0 {
		return nil
	}

	result := make([]bucket, width)
	samplesPerBucket := float64(n) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * samplesPerBucket)
		endIdx := int(float64(i+1) * samplesPerBucket)
		if endIdx > n {
			endIdx = n
		}
		if startIdx >= n {
			startIdx = n - 1
		}
		// Upsampling leaves some buckets narrower than one sample.
		if endIdx <= startIdx {
			endIdx = startIdx + 1
		}

		sum := 0.0
		count := 0
		for j := startIdx; j < endIdx; j++ {
			if math.IsNaN(values[j]) {
				continue
			}
			sum += values[j]
			count++
		}

		result[i].Day = (times[startIdx] + times[endIdx-1]) / 2
		if count > 0 {
			result[i].Value = sum / float64(count)
		} else {
			result[i].Value = math.NaN()
		}
	}

	return result
}

// bucketRange returns the min and max of the finite bucket values.
func bucketRange(buckets []bucket) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, b := range buckets {
		if math.IsNaN(b.Value) {
			continue
		}
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
		ok = true
	}
	return lo, hi, ok
}

// blockFor maps v within [lo, hi] to a block character.
func blockFor(v, lo, hi float64) rune {
	if math.IsNaN(v) {
		return ' '
	}
	t := 0.5
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	idx := int(t * 7.0)
	if idx < 0 {
		idx = 0
	}
	if idx > 7 {
		idx = 7
	}
	return sparklineBlocks[idx]
}

// motionAt returns the motion of the segment containing day.
func motionAt(segments []retro.Segment, day float64) retro.Motion {
	for _, s := range segments {
		if s.Contains(day) {
			return s.Motion
		}
	}
	return retro.MotionUndetermined
}

func motionColor(m retro.Motion) lipgloss.Color {
	switch m {
	case retro.MotionDirect:
		return directColor
	case retro.MotionRetrograde:
		return retrogradeColor
	default:
		return undeterminedColor
	}
}

// renderLongitudeSparkline renders the unwrapped longitude, colored by motion.
func renderLongitudeSparkline(s *retro.Series, width int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if s == nil || s.Len() == 0 {
		return dimStyle.Render("No samples")
	}

	buckets := resample(s.Times, s.Unwrapped, width)
	lo, hi, ok := bucketRange(buckets)
	if !ok {
		return dimStyle.Render("Longitude undefined over window")
	}

	var sb strings.Builder
	for _, b := range buckets {
		style := lipgloss.NewStyle().Foreground(motionColor(motionAt(s.Segments, b.Day)))
		sb.WriteString(style.Render(string(blockFor(b.Value, lo, hi))))
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	sb.WriteString(labelStyle.Render(fmt.Sprintf(" %.1f° → %.1f°", first(buckets), last(buckets))))
	return sb.String()
}

// renderRateSparkline renders the apparent rate with a color ramp.
func renderRateSparkline(s *retro.Series, width int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if s == nil || s.Len() == 0 {
		return dimStyle.Render("No samples")
	}

	buckets := resample(s.Times, s.Rate, width)
	lo, hi, ok := bucketRange(buckets)
	if !ok {
		return dimStyle.Render("Rate undefined over window")
	}

	var sb strings.Builder
	for _, b := range buckets {
		t := 0.5
		if hi > lo && !math.IsNaN(b.Value) {
			t = (b.Value - lo) / (hi - lo)
		}
		r, g, bl := interpolateRateColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, bl)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(blockFor(b.Value, lo, hi))))
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	sb.WriteString(labelStyle.Render(fmt.Sprintf(" %+.3f … %+.3f °/d", lo, hi)))
	return sb.String()
}

func interpolateRateColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var r, g, b uint8
	if t < 0.5 {
		// Interpolate from low to mid
		s := t * 2 // Scale to 0-1
		r = uint8(float64(rateColorLow[0])*(1-s) + float64(rateColorMid[0])*s)
		g = uint8(float64(rateColorLow[1])*(1-s) + float64(rateColorMid[1])*s)
		b = uint8(float64(rateColorLow[2])*(1-s) + float64(rateColorMid[2])*s)
	} else {
		// Interpolate from mid to high
		s := (t - 0.5) * 2 // Scale to 0-1
		r = uint8(float64(rateColorMid[0])*(1-s) + float64(rateColorHigh[0])*s)
		g = uint8(float64(rateColorMid[1])*(1-s) + float64(rateColorHigh[1])*s)
		b = uint8(float64(rateColorMid[2])*(1-s) + float64(rateColorHigh[2])*s)
	}

	return r, g, b
}

func first(buckets []bucket) float64 {
	for _, b := range buckets {
		if !math.IsNaN(b.Value) {
			return b.Value
		}
	}
	return math.NaN()
}

func last(buckets []bucket) float64 {
	for i := len(buckets) - 1; i >= 0; i-- {
		if !math.IsNaN(buckets[i].Value) {
			return buckets[i].Value
		}
	}
	return math.NaN()
}
