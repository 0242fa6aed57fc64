package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sjfleming/ssDNA-MCMC/internal/analysis"
	"github.com/sjfleming/ssDNA-MCMC/internal/mcmc"
)

const (
	canvasWidth  = 64
	canvasHeight = 20
	sparkWidth   = 48
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Live is a bubbletea model that advances a sampler in batches and draws
// the chain's xy projection with an energy sparkline.
type Live struct {
	sampler      *mcmc.Sampler
	stepsPerTick int
	maxSteps     int
	taken        int
	energy       []float64
	paused       bool
}

func NewLive(sampler *mcmc.Sampler, stepsPerTick, maxSteps int) *Live {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return &Live{sampler: sampler, stepsPerTick: stepsPerTick, maxSteps: maxSteps}
}

func (m *Live) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case tickMsg:
		if !m.paused && (m.maxSteps <= 0 || m.taken < m.maxSteps) {
			n := m.stepsPerTick
			if m.maxSteps > 0 && m.taken+n > m.maxSteps {
				n = m.maxSteps - m.taken
			}
			m.sampler.Run(n)
			m.taken += n
			m.energy = append(m.energy, m.sampler.CurrentEnergy())
		}
		return m, tick()
	}
	return m, nil
}

func (m *Live) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("ssDNA chain sampling"))
	b.WriteString("\n")
	b.WriteString(m.renderChain())
	b.WriteString("\n")

	r := m.sampler.AcceptanceRatios()
	rows := []struct{ label, value string }{
		{"steps", fmt.Sprintf("%d", m.taken)},
		{"beads", fmt.Sprintf("%d", m.sampler.Beads())},
		{"energy", fmt.Sprintf("%.3f pN·nm", m.sampler.CurrentEnergy())},
		{"end-to-end", fmt.Sprintf("%.3f nm", analysis.EndToEnd(m.sampler.Current()))},
		{"acceptance", r.String()},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("energy trace"))
	b.WriteString(graphStyle.Render(Sparkline(m.energy, sparkWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause · q quit"))
	return b.String()
}

// renderChain projects the beads onto the xy plane with autoscaling.
func (m *Live) renderChain() string {
	conf := m.sampler.Current()
	canvas := make([][]rune, canvasHeight)
	for i := range canvas {
		canvas[i] = make([]rune, canvasWidth)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	minX, maxX := conf[0].X, conf[0].X
	minY, maxY := conf[0].Y, conf[0].Y
	for _, p := range conf {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	for i, p := range conf {
		x := int((p.X - minX) / spanX * float64(canvasWidth-1))
		y := int((p.Y - minY) / spanY * float64(canvasHeight-1))
		y = canvasHeight - 1 - y
		ch := 'o'
		if i == 0 || i == len(conf)-1 {
			ch = '@'
		}
		canvas[y][x] = ch
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}

// RunLive blocks until the user quits the live view.
func RunLive(sampler *mcmc.Sampler, stepsPerTick, maxSteps int) error {
	_, err := tea.NewProgram(NewLive(sampler, stepsPerTick, maxSteps)).Run()
	return err
}
