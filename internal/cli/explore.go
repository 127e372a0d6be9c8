package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/orakul/orakul/pkg/interaction"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/scene"
	"github.com/orakul/orakul/pkg/views"
)

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags   viewFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore [system.json|yaml|toml|mongodb://...]",
		Short: "Explore a system interactively in the terminal",
		Long: `Explore a system interactively in the terminal.

Move through the nodes of the active level, switch levels, drill into a
node, sketch planned elements and connect them. Sketches live only for the
session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], flags, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, src string, flags viewFlags, noCache bool) error {
	opts := c.pipelineOptions(src, flags)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	raw, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	m := newExploreModel(raw, opts.SceneLevel(), opts.SceneDirection(), opts.Layout, c)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

type exploreMode int

const (
	modeBrowse exploreMode = iota
	modeName               // typing a planned node name
	modeConnect            // picking a connection target
)

// exploreState is shared between the model copies bubbletea passes around
// and the host callbacks of the controller.
type exploreState struct {
	ctrl     *interaction.Controller
	selector views.Selector
	status   string
}

// exploreModel is the bubbletea model of the explorer.
type exploreModel struct {
	st     *exploreState
	cursor int
	mode   exploreMode
	source string // connection source in modeConnect
	input  textinput.Model
	height int
}

func newExploreModel(raw projection.RawData, level scene.Level, dir scene.Direction, lo layout.Options, c *CLI) exploreModel {
	st := &exploreState{}
	st.ctrl = interaction.New(interaction.Config{
		Raw:       raw,
		Level:     level,
		Direction: dir,
		Layout:    lo,
		Logger:    c.Logger,
		Host: interaction.HostFuncs{
			OnEnterNode: func(id string) {
				if st.ctrl.Level() == scene.Components {
					st.status = "entered " + id
					return
				}
				st.selector.Next()
				st.status = "entered " + id + ", now at " + st.ctrl.Level().Label()
			},
			OnLevelChanged: func(l scene.Level) {
				st.status = "level " + l.Label()
			},
		},
	})
	st.selector = views.Selector{
		Current:  st.ctrl.Level,
		OnChange: func(l scene.Level) { st.ctrl.Dispatch(interaction.LevelChange{Level: l}) },
	}

	ti := textinput.New()
	ti.Placeholder = "planned element name"
	ti.CharLimit = 256
	ti.Prompt = "name: "

	return exploreModel{st: st, input: ti, height: 20}
}

func (m exploreModel) Init() tea.Cmd { return nil }

// nodes returns the snapshot nodes in reading order: layer by layer, then
// across.
func (m exploreModel) nodes() []scene.Node {
	snap := m.st.ctrl.Snapshot()
	nodes := snap.Nodes
	horizontal := snap.Direction.Horizontal()
	slices.SortStableFunc(nodes, func(a, b scene.Node) int {
		if horizontal {
			return cmp.Or(cmp.Compare(a.Position.X, b.Position.X), cmp.Compare(a.Position.Y, b.Position.Y))
		}
		return cmp.Or(cmp.Compare(a.Position.Y, b.Position.Y), cmp.Compare(a.Position.X, b.Position.X))
	})
	return nodes
}

func (m exploreModel) current() (scene.Node, bool) {
	nodes := m.nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return scene.Node{}, false
	}
	return nodes[m.cursor], true
}

// focus moves the cursor and makes the node under it the selection.
func (m *exploreModel) focus(i int) {
	nodes := m.nodes()
	if len(nodes) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(i, len(nodes)-1))
	m.st.ctrl.Dispatch(interaction.SelectionChange{IDs: []string{nodes[m.cursor].ID}})
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-8)
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeName {
			return m.updateName(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m exploreModel) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := m.input.Value()
		m.mode = modeBrowse
		m.input.Reset()
		m.input.Blur()
		if m.st.ctrl.Dispatch(interaction.AddNode{Name: name}) {
			m.st.status = "planned " + strings.TrimSpace(name)
		} else {
			m.st.status = "name rejected"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m exploreModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.st.ctrl
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.focus(m.cursor - 1)
	case "down", "j":
		m.focus(m.cursor + 1)
	case "tab":
		if m.st.selector.Next() {
			m.cursor = 0
		}
	case "shift+tab":
		if m.st.selector.Prev() {
			m.cursor = 0
		}
	case "1", "2", "3":
		if m.st.selector.Request(scene.Levels[msg.String()[0]-'1']) {
			m.cursor = 0
		}
	case "enter":
		n, ok := m.current()
		if !ok {
			break
		}
		if m.mode == modeConnect {
			if ctrl.Dispatch(interaction.Connect{Source: m.source, Target: n.ID}) {
				src, _ := ctrl.Session().Node(m.source)
				m.st.status = "connected " + src.Label() + " → " + n.Label()
			} else {
				m.st.status = "connection rejected"
			}
			m.mode = modeBrowse
			break
		}
		if !scene.CapabilitiesOf(n.Kind).DrillDown {
			m.st.status = n.Label() + " cannot be entered"
			break
		}
		level := ctrl.Level()
		ctrl.Dispatch(interaction.NodeActivate{ID: n.ID})
		if ctrl.Level() != level {
			m.cursor = 0
		}
	case "a":
		m.mode = modeName
		m.input.Focus()
		return m, textinput.Blink
	case "c":
		if n, ok := m.current(); ok {
			m.mode = modeConnect
			m.source = n.ID
			m.st.status = "connect " + n.Label() + " to…"
		}
	case "r":
		ctrl.Dispatch(interaction.Relayout{})
		m.st.status = "laid out again"
	case "esc":
		m.mode = modeBrowse
		ctrl.Dispatch(interaction.SelectionChange{})
		m.st.status = ""
	}
	return m, nil
}

var (
	exploreTabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorGray)
	exploreActiveTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorCyan).Underline(true)
	exploreCursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	explorePlannedStyle   = lipgloss.NewStyle().Foreground(colorGreen).Italic(true)
	exploreEdgeStyle      = lipgloss.NewStyle().Foreground(colorYellow)
)

func (m exploreModel) View() string {
	var b strings.Builder

	var tabs []string
	for i, opt := range m.st.selector.Options() {
		label := fmt.Sprintf("%d %s", i+1, opt.Label)
		if opt.Active {
			tabs = append(tabs, exploreActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, exploreTabStyle.Render(label))
		}
	}
	b.WriteString(StyleTitle.Render(appName) + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	nodes := m.nodes()
	if len(nodes) == 0 {
		b.WriteString(StyleDim.Render("  nothing to show at this level"))
		b.WriteString("\n")
	}
	start := max(0, m.cursor-m.height+1)
	end := min(len(nodes), start+m.height)
	for i := start; i < end; i++ {
		b.WriteString(m.nodeLine(nodes[i], i == m.cursor))
		b.WriteString("\n")
	}

	if n, ok := m.current(); ok && n.Selected {
		b.WriteString("\n")
		b.WriteString(m.edgeLines(n.ID))
	}

	b.WriteString("\n")
	if m.mode == modeName {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.st.status != "" {
		b.WriteString(StyleHighlight.Render(m.st.status))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("↑/↓ select  ⏎ enter  tab level  a add  c connect  r relayout  esc clear  q quit"))
	return b.String()
}

func (m exploreModel) nodeLine(n scene.Node, atCursor bool) string {
	cursor := "  "
	if atCursor {
		cursor = "▸ "
	}
	label := n.Label()
	kind := StyleDim.Render("[" + n.Kind.String() + "]")
	switch {
	case atCursor:
		label = exploreCursorStyle.Render(label)
	case n.Kind == scene.Planned:
		label = explorePlannedStyle.Render(label)
	default:
		label = StyleValue.Render(label)
	}
	pos := StyleDim.Render(fmt.Sprintf("(%.0f,%.0f)", n.Position.X, n.Position.Y))
	return cursor + label + " " + kind + " " + pos
}

// edgeLines lists the highlighted edges of the selected node.
func (m exploreModel) edgeLines(id string) string {
	snap := m.st.ctrl.Snapshot()
	labels := make(map[string]string, len(snap.Nodes))
	for _, n := range snap.Nodes {
		labels[n.ID] = n.Label()
	}
	var b strings.Builder
	for _, e := range snap.Edges {
		if !e.Highlighted {
			continue
		}
		if e.Source == id {
			b.WriteString(exploreEdgeStyle.Render("  → " + labels[e.Target]))
		} else {
			b.WriteString(exploreEdgeStyle.Render("  ← " + labels[e.Source]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
