// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-retrograde/internal/bodies"
	"github.com/litescript/ls-retrograde/internal/orbit"
	"github.com/litescript/ls-retrograde/internal/retro"
	"github.com/litescript/ls-retrograde/internal/state"
	"github.com/litescript/ls-retrograde/internal/version"
)

// view holds what the reset key returns to.
type view struct {
	observer int
	target   int
	window   retro.Window
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	catalog *bodies.Catalog

	// Selection
	observer int
	target   int
	window   retro.Window
	home     view

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string

	series *retro.Series
}

// New creates a new root UI model showing target as seen from observer.
func New(stateMgr *state.Manager, cat *bodies.Catalog, observer, target string, w retro.Window) (Model, error) {
	obs := cat.Index(observer)
	if obs < 0 {
		return Model{}, fmt.Errorf("%w: %q", bodies.ErrUnknownBody, observer)
	}
	tgt := cat.Index(target)
	if tgt < 0 {
		return Model{}, fmt.Errorf("%w: %q", bodies.ErrUnknownBody, target)
	}

	m := Model{
		state:    stateMgr,
		catalog:  cat,
		observer: obs,
		target:   tgt,
		window:   w,
		home:     view{observer: obs, target: tgt, window: w},
	}
	m.refresh()
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "]":
			m.target = m.step(m.target, m.observer, 1)
			m.refresh()
		case "[":
			m.target = m.step(m.target, m.observer, -1)
			m.refresh()
		case "}":
			m.observer = m.step(m.observer, m.target, 1)
			m.refresh()
		case "{":
			m.observer = m.step(m.observer, m.target, -1)
			m.refresh()

		case "right", "l":
			m.window.StartDay += m.shiftDays()
			m.refresh()
		case "left", "h":
			m.window.StartDay -= m.shiftDays()
			m.refresh()

		case "r":
			m.observer = m.home.observer
			m.target = m.home.target
			m.window = m.home.window
			m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
	}

	return m, nil
}

// step moves idx by delta through the catalog, skipping the index in use by
// the other side of the pair.
func (m Model) step(idx, skip, delta int) int {
	n := m.catalog.Len()
	if n < 2 {
		return idx
	}
	for i := 0; i < n; i++ {
		idx = ((idx+delta)%n + n) % n
		if idx != skip {
			return idx
		}
	}
	return idx
}

// shiftDays is a quarter synodic period, or a quarter window when the pair
// has no finite synodic period.
func (m Model) shiftDays() float64 {
	syn := orbit.SynodicPeriod(m.Observer().Elements, m.Target().Elements)
	if math.IsNaN(syn) || math.IsInf(syn, 0) {
		return m.window.LengthDays / 4
	}
	return syn / 4
}

func (m *Model) refresh() {
	obs, tgt := m.Observer(), m.Target()
	m.state.Select(obs, tgt, m.window)
	s, err := m.state.Current()
	if err != nil {
		m.series = nil
		m.statusMsg = err.Error()
		return
	}
	m.series = s
	m.statusMsg = ""
	if s.HasNaN() {
		m.statusMsg = "Series contains undefined samples"
	}
}

// Observer returns the observing body.
func (m Model) Observer() bodies.Body {
	return m.catalog.At(m.observer)
}

// Target returns the observed body.
func (m Model) Target() bodies.Body {
	return m.catalog.At(m.target)
}

// Window returns the displayed window.
func (m Model) Window() retro.Window {
	return m.window
}

// Series returns the displayed series.
func (m Model) Series() *retro.Series {
	return m.series
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render(version.Name))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s · apparent planetary motion", version.Version)))
	b.WriteString("\n\n")

	pairStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	b.WriteString("  ")
	b.WriteString(pairStyle.Render(fmt.Sprintf("%s from %s", m.Target().Name, m.Observer().Name)))

	info := fmt.Sprintf("  days %.1f → %.1f", m.window.StartDay, m.window.EndDay())
	if syn := orbit.SynodicPeriod(m.Observer().Elements, m.Target().Elements); !math.IsNaN(syn) && !math.IsInf(syn, 0) {
		info += fmt.Sprintf(" · synodic %.1f d", syn)
	}
	b.WriteString(muted.Render(info))
	b.WriteString("\n")
	return b.String()
}

func (m Model) sparkWidth() int {
	if m.width <= 0 {
		return SparklineWidth
	}
	w := m.width - 40
	if w < 16 {
		w = 16
	}
	if w > 120 {
		w = 120
	}
	return w
}

func (m Model) renderContent() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder
	width := m.sparkWidth()

	b.WriteString("  " + headerStyle.Render("Longitude") + "\n  ")
	b.WriteString(renderLongitudeSparkline(m.series, width))
	b.WriteString("\n\n")
	b.WriteString("  " + headerStyle.Render("Rate") + "\n  ")
	b.WriteString(renderRateSparkline(m.series, width))
	b.WriteString("\n\n")

	b.WriteString("  " + headerStyle.Render("Stations") + "\n")
	if m.series == nil || len(m.series.Stations) == 0 {
		b.WriteString("  " + dimStyle.Render("None in window") + "\n")
	} else {
		for _, st := range m.series.Stations {
			marker, color := "•", undeterminedColor
			switch st.Kind {
			case retro.StationRetrograde:
				marker, color = "▼", retrogradeColor
			case retro.StationDirect:
				marker, color = "▲", directColor
			}
			style := lipgloss.NewStyle().Foreground(color)
			b.WriteString(fmt.Sprintf("  %s day %10.3f  %s\n", style.Render(marker), st.Day, st.Kind))
		}
	}

	b.WriteString("\n  " + headerStyle.Render("Retrograde") + "\n")
	if m.series == nil || len(m.series.Intervals) == 0 {
		b.WriteString("  " + dimStyle.Render("No retrograde motion in window") + "\n")
	} else {
		retroStyle := lipgloss.NewStyle().Foreground(retrogradeColor)
		for _, iv := range m.series.Intervals {
			b.WriteString(fmt.Sprintf("  %s %10.3f → %10.3f  (%.1f d)\n",
				retroStyle.Render("◀"), iv.StartDay, iv.EndDay, iv.Duration()))
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  total %.1f d", m.series.RetrogradeDays())))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	help := dimStyle.Render("[/]: target | {/}: observer | ←/→: shift | r: reset | q: quit")

	stats := m.state.Stats()
	cache := dimStyle.Render(fmt.Sprintf("cache %d (%d hit, %d miss)", stats.Entries, stats.Hits, stats.Misses))

	footer := "  " + cache + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + warnStyle.Render(m.statusMsg)
	}
	return footer
}
