package tui

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/wavesurf/internal/anim"
	"github.com/san-kum/wavesurf/internal/viz"
)

const (
	rotStep     = 0.15
	minCanvasW  = 20
	minCanvasH  = 8
	panelWidth  = 34
	graphHeight = 6
)

type tickMsg time.Time

type model struct {
	driver *anim.Driver
	canvas *viz.Canvas
	camera *viz.Camera
	theme  viz.Theme
	paused bool
	err    error

	width  int
	height int
}

func newModel(d *anim.Driver) model {
	m := model{
		driver: d,
		camera: viz.NewCamera(),
		theme:  viz.ThemeOcean,
		width:  100,
		height: 32,
	}
	m.resize()
	return m
}

func (m *model) resize() {
	cw := max(m.width-panelWidth-4, minCanvasW)
	ch := max(m.height-4, minCanvasH)
	m.canvas = viz.NewCanvas(cw, ch)
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.driver.Interval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tickMsg:
		if !m.paused {
			if err := m.driver.Step(); err != nil && !errors.Is(err, anim.ErrDone) {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.driver.Restart()
		if err := m.driver.Step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case "x":
		m.camera.RotateX(rotStep)
	case "X":
		m.camera.RotateX(-rotStep)
	case "y":
		m.camera.RotateY(rotStep)
	case "Y":
		m.camera.RotateY(-rotStep)
	case "z":
		m.camera.RotateZ(rotStep)
	case "Z":
		m.camera.RotateZ(-rotStep)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
	}
	return m, nil
}

func (m model) View() string {
	primary := lipgloss.NewStyle().Foreground(m.theme.Primary)
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	text := lipgloss.NewStyle().Foreground(m.theme.Text)
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	m.canvas.Clear()
	s := m.driver.Surface()
	if s != nil {
		viz.DrawSurface(m.canvas, s, m.camera)
	}
	plot := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Muted).
		Render(primary.Render(m.canvas.String()))

	var b strings.Builder
	b.WriteString(accent.Render("wavesurf") + "\n\n")
	state := m.driver.State().String()
	if m.paused {
		state = "paused"
	}
	fmt.Fprintf(&b, "%s %s\n", muted.Render("frame"), text.Render(fmt.Sprintf("%d/%d", m.driver.Index()+1, m.driver.Total())))
	fmt.Fprintf(&b, "%s %s\n", muted.Render("state"), text.Render(state))
	if f := m.driver.Frame(); f != nil {
		st := f.Stats()
		fmt.Fprintf(&b, "%s  %s\n", muted.Render("file"), text.Render(filepath.Base(f.Path)))
		fmt.Fprintf(&b, "%s  %s\n", muted.Render("grid"), text.Render(f.Shape().String()))
		fmt.Fprintf(&b, "%s   %s\n", muted.Render("min"), text.Render(fmt.Sprintf("%.4f", st.Min)))
		fmt.Fprintf(&b, "%s   %s\n", muted.Render("max"), text.Render(fmt.Sprintf("%.4f", st.Max)))
		fmt.Fprintf(&b, "%s  %s\n", muted.Render("mean"), text.Render(fmt.Sprintf("%.4f", st.Mean)))
		if s != nil {
			p := s.Peak()
			fmt.Fprintf(&b, "%s  %s\n", muted.Render("peak"), text.Render(fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)))
		}
		b.WriteString("\n" + primary.Render(crossSection(f.Heights, panelWidth-14)) + "\n")
	}
	b.WriteString("\n" + muted.Render("space pause  r restart\nx/y/z rotate  +/- zoom\nt theme  q quit") + "\n")
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.err.Error()) + "\n")
	}

	panel := lipgloss.NewStyle().Width(panelWidth).PaddingLeft(2).Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, plot, panel)
}

// crossSection plots the middle row of a height grid.
func crossSection(heights [][]float64, width int) string {
	if len(heights) == 0 {
		return ""
	}
	mid := len(heights) / 2
	row := make([]float64, 0, len(heights[mid]))
	for _, v := range heights[mid] {
		if !math.IsNaN(v) {
			row = append(row, v)
		}
	}
	if len(row) == 0 {
		return ""
	}
	if len(row) == 1 {
		row = append(row, row[0])
	}
	return asciigraph.Plot(row,
		asciigraph.Height(graphHeight),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("row %d", mid)),
	)
}

// Run plays d in the terminal until the user quits.
func Run(d *anim.Driver) error {
	if err := d.Step(); err != nil {
		return err
	}
	p := tea.NewProgram(newModel(d), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
