// Package viz renders a running control loop in the terminal.
package viz

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glucosim/internal/loop"
)

const graphWindow = 72

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	suspendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	bolusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type TickMsg time.Time

// Model steps one environment/controller pair per frame and renders the
// trace. It performs the same per-step protocol as the driver but keeps
// the history on screen instead of handing it to a writer.
type Model struct {
	env      loop.Environment
	ctrl     loop.Controller
	st       loop.State
	subject  string
	maxSteps int
	interval time.Duration

	started bool
	done    bool
	running bool
	steps   int
	obs     loop.Observation
	meta    loop.Meta
	last    loop.StepRecord
	history []float64
	err     error
}

// NewModel builds a live view stepping at the given frame rate.
func NewModel(env loop.Environment, ctrl loop.Controller, st loop.State, subject string, maxSteps, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		env:      env,
		ctrl:     ctrl,
		st:       st,
		subject:  subject,
		maxSteps: maxSteps,
		interval: time.Second / time.Duration(fps),
		running:  true,
		history:  make([]float64, 0, graphWindow),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.done && m.err == nil && m.steps < m.maxSteps {
			m = m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) step() Model {
	if !m.started {
		obs, _, done, meta, err := m.env.Reset()
		if err != nil {
			m.err = err
			return m
		}
		m.obs, m.meta, m.done, m.started = obs, meta, done, true
		if m.done {
			return m
		}
	}

	meal := m.meta.Meal
	action, next, err := m.ctrl.Decide(m.obs, meal, m.st)
	if err != nil {
		m.err = err
		return m
	}
	m.st = next

	nextObs, _, nextDone, nextMeta, err := m.env.Step(action)
	if err != nil {
		m.err = err
		return m
	}

	m.last = loop.StepRecord{
		Time:  stepLabel(m.meta, m.steps),
		CGM:   m.obs.CGM,
		Meal:  meal,
		Basal: action.Basal,
		Bolus: action.Bolus,
	}
	m.history = append(m.history, m.obs.CGM)
	if len(m.history) > graphWindow {
		m.history = m.history[len(m.history)-graphWindow:]
	}
	m.steps++
	m.obs, m.meta, m.done = nextObs, nextMeta, nextDone
	return m
}

func (m Model) View() string {
	s := headerStyle.Render(fmt.Sprintf("glucosim live — %s", m.subject)) + "\n"

	if m.err != nil {
		s += errStyle.Render("run aborted: "+m.err.Error()) + "\n"
		s += helpStyle.Render("q: quit")
		return s
	}

	s += row("step", fmt.Sprintf("%d / %d", m.steps, m.maxSteps))
	s += row("time", m.last.Time)
	s += row("cgm", fmt.Sprintf("%.1f mg/dL", m.last.CGM))
	s += row("basal", fmt.Sprintf("%.3f U/min", m.last.Basal))
	s += row("bolus", fmt.Sprintf("%.1f U", m.last.Bolus))

	if m.steps > 0 && m.last.Basal == 0 {
		s += suspendStyle.Render("SUSPENDED") + "\n"
	}
	if m.last.Bolus > 0 {
		s += bolusStyle.Render("BOLUS") + "\n"
	}

	if len(m.history) >= 2 {
		s += graphStyle.Render(asciigraph.Plot(m.history, asciigraph.Height(10), asciigraph.Width(graphWindow)))
		s += "\n"
	}

	status := "running"
	if !m.running {
		status = "paused"
	}
	if m.done || m.steps >= m.maxSteps {
		status = "finished"
	}
	s += helpStyle.Render(fmt.Sprintf("%s · space: pause · q: quit", status))
	return s
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func stepLabel(m loop.Meta, i int) string {
	if m.Time != "" {
		return m.Time
	}
	return strconv.Itoa(i)
}
