package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yolcu/mindmap/pkg/mindmap"
	"github.com/yolcu/mindmap/pkg/mindmap/interact"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/render/term"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

// Terminal rows reserved below the diagram: status line and help line.
const chromeRows = 2

// Button zoom, reset and fit animate over animSteps frames.
const (
	animSteps    = 8
	animInterval = 16 * time.Millisecond
)

// panStep is the arrow-key pan distance in pixels.
const panStep = 40

var (
	statusStyle   = lipgloss.NewStyle().Foreground(colorGray)
	activeStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	pathStyle     = lipgloss.NewStyle().Foreground(colorBlue)
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// =============================================================================
// Key Bindings
// =============================================================================

type viewKeyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Fit     key.Binding
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Stages  key.Binding
	Select  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultViewKeys() viewKeyMap {
	return viewKeyMap{
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Fit:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		Next:    key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next stage")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("shift+tab", "prev stage")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		Stages:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stage list")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "select")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Fit, k.Next, k.Stages, k.Help, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Fit},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Stages, k.Select},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// viewModel - Interactive diagram
// =============================================================================

// animation blends the transform from one state to another over animSteps ticks.
type animation struct {
	from, to viewport.Transform
	step     int
}

type animTickMsg struct{}

func animTick() tea.Cmd {
	return tea.Tick(animInterval, func(time.Time) tea.Msg { return animTickMsg{} })
}

// viewModel draws a mindmap.View on the terminal and feeds it mouse and
// keyboard input. Cells map to pixels through term.CellCenter, so hit-testing
// matches what is on screen.
type viewModel struct {
	view  *mindmap.View
	title string

	cols, rows int
	keys       viewKeyMap
	help       help.Model

	anim      *animation
	activated string // path of the last activated topic

	picking bool // stage list open
	cursor  int
}

func newViewModel(content roadmap.Content, opts mindmap.Options) *viewModel {
	m := &viewModel{
		title: content.Title,
		keys:  defaultViewKeys(),
		help:  help.New(),
	}
	next := opts.OnActivate
	opts.OnActivate = func(nodeID, path string) {
		m.activated = path
		if next != nil {
			next(nodeID, path)
		}
	}
	m.view = mindmap.New(content, opts)
	return m
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.view.Resize(term.PixelSize(m.cols, m.canvasRows()))
		return m, nil

	case animTickMsg:
		return m, m.stepAnimation()

	case tea.MouseMsg:
		if m.picking {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m, m.updatePicker(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *viewModel) canvasRows() int {
	return max(1, m.rows-chromeRows)
}

// handleMouse maps terminal mouse events onto pointer and wheel events.
func (m *viewModel) handleMouse(msg tea.MouseMsg) {
	x, y := term.CellCenter(msg.X, msg.Y)
	var e interact.Event
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		e = interact.Event{Type: interact.Wheel, X: x, Y: y, DeltaY: -100}
	case msg.Button == tea.MouseButtonWheelDown:
		e = interact.Event{Type: interact.Wheel, X: x, Y: y, DeltaY: 100}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y >= m.canvasRows() {
			return
		}
		e = interact.Event{Type: interact.PointerDown, X: x, Y: y}
	case msg.Action == tea.MouseActionMotion:
		e = interact.Event{Type: interact.PointerMove, X: x, Y: y}
	case msg.Action == tea.MouseActionRelease:
		e = interact.Event{Type: interact.PointerUp, X: x, Y: y}
	default:
		return
	}
	m.anim = nil
	m.view.Handle(e)
}

func (m *viewModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ZoomIn):
		return m.animate(m.view.ZoomIn)
	case key.Matches(msg, m.keys.ZoomOut):
		return m.animate(m.view.ZoomOut)
	case key.Matches(msg, m.keys.Reset):
		return m.animate(m.view.ResetView)
	case key.Matches(msg, m.keys.Fit):
		return m.animate(func() { m.view.Fit(mindmap.DefaultFitPadding) })
	case key.Matches(msg, m.keys.Next):
		return m.stepStage(1)
	case key.Matches(msg, m.keys.Prev):
		return m.stepStage(-1)
	case key.Matches(msg, m.keys.Up):
		m.pan(0, panStep)
	case key.Matches(msg, m.keys.Down):
		m.pan(0, -panStep)
	case key.Matches(msg, m.keys.Left):
		m.pan(panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.pan(-panStep, 0)
	case key.Matches(msg, m.keys.Stages):
		m.picking = true
		if i := m.view.Content().StageIndex(m.view.Selected()); i >= 0 {
			m.cursor = i
		}
	}
	return nil
}

func (m *viewModel) pan(dx, dy float64) {
	m.anim = nil
	t := m.view.Transform()
	t.X += dx
	t.Y += dy
	m.view.SetTransform(t)
}

// stepStage expands the stage delta positions away and centres on it.
func (m *viewModel) stepStage(delta int) tea.Cmd {
	c := m.view.Content()
	n := len(c.Stages)
	if n == 0 {
		return nil
	}
	i := c.StageIndex(m.view.Selected())
	if i < 0 && delta < 0 {
		i = 0
	}
	return m.selectStage(((i+delta)%n + n) % n)
}

func (m *viewModel) selectStage(i int) tea.Cmd {
	id := roadmap.StageID(i)
	if err := m.view.Select(id); err != nil {
		return nil
	}
	return m.animate(func() { m.view.Focus(id) })
}

// animate runs apply to find the target transform, then eases towards it.
func (m *viewModel) animate(apply func()) tea.Cmd {
	from := m.view.Transform()
	if m.anim != nil {
		from = m.anim.to
		m.view.SetTransform(from)
	}
	apply()
	to := m.view.Transform()
	if from == to {
		m.anim = nil
		return nil
	}
	m.view.SetTransform(from)
	pending := m.anim != nil
	m.anim = &animation{from: from, to: to}
	if pending {
		return nil
	}
	return animTick()
}

func (m *viewModel) stepAnimation() tea.Cmd {
	a := m.anim
	if a == nil {
		return nil
	}
	a.step++
	if a.step >= animSteps {
		m.view.SetTransform(a.to)
		m.anim = nil
		return nil
	}
	m.view.SetTransform(viewport.Interpolate(a.from, a.to, float64(a.step)/animSteps))
	return animTick()
}

// =============================================================================
// Stage list
// =============================================================================

func (m *viewModel) updatePicker(msg tea.KeyMsg) tea.Cmd {
	n := len(m.view.Content().Stages)
	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == "esc", key.Matches(msg, m.keys.Stages):
		m.picking = false
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.picking = false
		if n > 0 {
			return m.selectStage(m.cursor)
		}
	}
	return nil
}

func (m *viewModel) stageTable() string {
	c := m.view.Content()
	selected := c.StageIndex(m.view.Selected())

	rows := make([][]string, 0, len(c.Stages))
	for i, s := range c.Stages {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, roadmap.StageID(i), s.Name, strconv.Itoa(s.ItemCount())})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Stage", "Name", "Topics").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.cursor:
				return selectedStyle
			case row == selected:
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return listDimStyle
			}
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Stages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  esc close"))
	b.WriteString("\n\n")
	b.WriteString(t.Render())
	return b.String()
}

// =============================================================================
// Rendering
// =============================================================================

func (m *viewModel) View() string {
	if m.cols == 0 {
		return "loading..."
	}
	if m.picking {
		return m.stageTable()
	}

	f := m.view.Frame()
	canvas := term.Render(f.Scene, f.Transform, m.cols, m.canvasRows())

	var b strings.Builder
	b.WriteString(canvas.Styled())
	b.WriteString("\n")
	b.WriteString(m.statusLine(f))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *viewModel) statusLine(f mindmap.Frame) string {
	parts := []string{StyleTitle.Render(m.title)}
	c := m.view.Content()
	if i := c.StageIndex(f.Selected); i >= 0 {
		parts = append(parts, activeStyle.Render(c.Stages[i].Name))
	}
	parts = append(parts, statusStyle.Render(fmt.Sprintf("%d%%", f.Zoom)))
	if f.Dragging {
		parts = append(parts, statusStyle.Render("dragging"))
	}
	if m.activated != "" {
		parts = append(parts, pathStyle.Render(m.activated))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// =============================================================================
// view command
// =============================================================================

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags sceneFlags
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "view [roadmap.json]",
		Short: "Explore a roadmap mind map in the terminal",
		Long: `Explore a roadmap mind map in the terminal.

Click a stage to expand or collapse it, click a topic to activate it, drag the
background to pan and scroll to zoom at the cursor. The keyboard offers the
same controls; press ? for the full list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args, flags, mode)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "", "topic activation: navigate or summary (default: navigation.mode)")

	return cmd
}

func (c *CLI) runView(ctx context.Context, args []string, flags sceneFlags, modeName string) error {
	m := c.cfg.Mode()
	if modeName != "" {
		var err error
		if m, err = interact.ParseMode(modeName); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	r, _, err := c.loadRoadmap(ctx, runner, args, flags)
	if err != nil {
		return err
	}

	popts := c.pipelineOptions(flags)
	model := newViewModel(r.Content, mindmap.Options{
		Layout:           popts.Layout,
		Viewport:         c.cfg.ViewportOptions(0, 0),
		InitialSelection: popts.Selected,
		Collapsed:        popts.Collapsed,
		RoadmapID:        r.ID,
		Mode:             m,
		OnActivate: func(nodeID, path string) {
			c.Logger.Debug("topic activated", "node", nodeID, "path", path)
		},
	})

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)}
	if len(args) > 0 && args[0] == stdinArg {
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	_, err = tea.NewProgram(model, programOpts...).Run()
	return err
}
