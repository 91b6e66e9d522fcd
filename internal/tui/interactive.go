package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/cisim/internal/config"
	"github.com/san-kum/cisim/internal/experiment"
	"github.com/san-kum/cisim/internal/methods"
	"github.com/san-kum/cisim/internal/sim"
)

type slider struct {
	label     string
	min, max  float64
	step      float64
	value     float64
	precision int
	unit      string
}

func (s *slider) clamp() {
	s.value = math.Max(s.min, math.Min(s.max, s.value))
	s.value = math.Round(s.value/s.step) * s.step
}

func (s *slider) nudge(steps float64) {
	s.value += steps * s.step
	s.clamp()
}

func (s slider) format() string {
	return strconv.FormatFloat(s.value, 'f', s.precision, 64) + s.unit
}

const (
	sliderSampleSize = iota
	sliderMean
	sliderStd
	sliderSims
	sliderConfidence
	numSliders
)

// rowMethod is the cursor position of the method selector, below the sliders.
const rowMethod = numSliders

func defaultSliders() []slider {
	return []slider{
		sliderSampleSize: {label: "Sample Size", min: 2, max: 100, step: 1},
		sliderMean:       {label: "Population Mean", min: 0, max: 100, step: 1},
		sliderStd:        {label: "Population Std", min: 1, max: 100, step: 1},
		sliderSims:       {label: "Simulations", min: 1, max: 1000, step: 1},
		sliderConfidence: {label: "Confidence", min: 50, max: 99, step: 1, unit: "%"},
	}
}

type model struct {
	registry *experiment.Registry
	cfg      *config.Config

	sliders []slider
	methods []string
	method  int
	cursor  int

	editing bool
	editBuf string

	outcome *sim.Outcome
	err     error

	help   help.Model
	width  int
	height int
}

// NewInteractiveApp seeds the sliders from cfg, clamped to their ranges, and
// runs the first simulation.
func NewInteractiveApp(cfg *config.Config) *model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := *cfg

	m := &model{
		registry: experiment.NewRegistry(),
		cfg:      &c,
		sliders:  defaultSliders(),
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.methods = m.registry.ListMethods()
	if k, err := methods.ParseKind(c.Method); err == nil {
		for i, name := range m.methods {
			if name == string(k) {
				m.method = i
			}
		}
	}

	m.sliders[sliderSampleSize].value = float64(c.SampleSize)
	m.sliders[sliderMean].value = c.PopulationMean
	m.sliders[sliderStd].value = c.PopulationStd
	m.sliders[sliderSims].value = float64(c.NumSimulations)
	m.sliders[sliderConfidence].value = c.ConfidenceLevel
	for i := range m.sliders {
		m.sliders[i].clamp()
	}

	m.rerun()
	return m
}

func (m *model) syncConfig() {
	m.cfg.Method = m.methods[m.method]
	m.cfg.SampleSize = int(m.sliders[sliderSampleSize].value)
	m.cfg.PopulationMean = m.sliders[sliderMean].value
	m.cfg.PopulationStd = m.sliders[sliderStd].value
	m.cfg.NumSimulations = int(m.sliders[sliderSims].value)
	m.cfg.ConfidenceLevel = m.sliders[sliderConfidence].value
}

// rerun repeats the whole simulation with the configured seed so identical
// slider positions always draw the same picture.
func (m *model) rerun() {
	m.syncConfig()

	ec, err := m.cfg.Experiment()
	if err != nil {
		m.outcome, m.err = nil, err
		return
	}
	exp, err := experiment.Build(m.registry, ec)
	if err != nil {
		m.outcome, m.err = nil, err
		return
	}
	m.outcome, m.err = exp.Run(context.Background())
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		return m.editKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < rowMethod {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		m.adjust(-1)
	case key.Matches(msg, keys.Right):
		m.adjust(1)
	case key.Matches(msg, keys.BigLeft):
		m.adjust(-10)
	case key.Matches(msg, keys.BigRight):
		m.adjust(10)
	case key.Matches(msg, keys.Edit):
		if m.cursor < numSliders {
			m.editing = true
			m.editBuf = ""
		}
	}
	return m, nil
}

func (m model) editKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
			s := &m.sliders[m.cursor]
			s.value = v
			s.clamp()
			m.rerun()
		}
		m.editing = false
		m.editBuf = ""
	case "esc":
		m.editing = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case "ctrl+c":
		return m, tea.Quit
	default:
		if len(msg.String()) == 1 {
			c := msg.String()[0]
			if (c >= '0' && c <= '9') || c == '.' {
				m.editBuf += string(c)
			}
		}
	}
	return m, nil
}

func (m *model) adjust(steps float64) {
	if m.cursor == rowMethod {
		n := len(m.methods)
		if n == 0 {
			return
		}
		dir := 1
		if steps < 0 {
			dir = -1
		}
		m.method = ((m.method+dir)%n + n) % n
		m.rerun()
		return
	}

	s := &m.sliders[m.cursor]
	before := s.value
	s.nudge(steps)
	if s.value != before {
		m.rerun()
	}
}

const barWidth = 24

func (m model) viewSlider(i int, s slider) string {
	frac := (s.value - s.min) / (s.max - s.min)
	filled := int(math.Round(frac * barWidth))
	done := strings.Repeat("━", filled)
	rest := strings.Repeat("─", barWidth-filled)

	val := fmt.Sprintf("%7s", s.format())
	if m.editing && i == m.cursor {
		val = fmt.Sprintf("%7s", m.editBuf+"▋")
	}

	if i == m.cursor {
		return "  " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", s.label)) +
			cyan.Render(done) + dimmer.Render(rest) + " " + magenta.Render(val) + "\n"
	}
	return "    " + dim.Render(fmt.Sprintf("%-16s", s.label)) + dimmer.Render(done+rest) + " " + dim.Render(val) + "\n"
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("\n  " + cyan.Render("c i s i m") + "  " + dim.Render("confidence interval simulator") + "\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", 40)) + "\n\n")

	var controls strings.Builder
	for i, s := range m.sliders {
		controls.WriteString(m.viewSlider(i, s))
	}
	methodName := ""
	if len(m.methods) > 0 {
		methodName = m.methods[m.method]
	}
	desc := methods.Kind(methodName).Description()
	if m.cursor == rowMethod {
		controls.WriteString("  " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", "Method")) +
			magenta.Render("‹ "+methodName+" ›") + "  " + dim.Render(desc))
	} else {
		controls.WriteString("    " + dim.Render(fmt.Sprintf("%-16s", "Method")) + dim.Render(methodName))
	}
	b.WriteString(panel.Render(controls.String()) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + red.Render(m.err.Error()) + "\n")
	case m.outcome != nil:
		cw := m.width - 14
		if cw < 40 {
			cw = 40
		}
		ch := m.height - 18
		if ch < 8 {
			ch = 8
		}
		b.WriteString(renderStrip(m.outcome, cw, ch))

		summary := green
		if m.outcome.CaptureRate < m.outcome.Params.ConfidenceLevel {
			summary = yellow
		}
		b.WriteString("\n  " + summary.Render(m.outcome.Summary()) + "\n")
		b.WriteString("  " + dim.Render(fmt.Sprintf("z=%.4f  se=%.4f  seed=%d",
			m.outcome.Critical, m.outcome.StdErr, m.outcome.Seed)) + "\n")
		b.WriteString("  " + blue.Render("│") + dim.Render(" captured  ") +
			red.Render("│") + dim.Render(" missed  ") +
			red.Render("┄") + dim.Render(" population mean") + "\n")
	}

	b.WriteString("\n  " + m.help.View(keys) + "\n")
	return b.String()
}

// RunInteractive opens the slider screen seeded from cfg (defaults when nil).
func RunInteractive(cfg *config.Config) error {
	p := tea.NewProgram(NewInteractiveApp(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
