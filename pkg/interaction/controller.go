// Package interaction owns the live state of a diagram and applies user and
// host events to it.
//
// A [Controller] holds one [Session] for the active level. Changing the
// level projects the raw data again, lays the result out and replaces the
// session wholesale. Selection, planned nodes and new connections mutate the
// session in place. After every change the controller hands a full
// [Snapshot] to the [Surface].
//
// All operations are synchronous and silent about rejected edits: an empty
// planned-node name, a self-loop, a duplicate connection or an unknown id
// simply leave the scene unchanged and make the operation return false.
//
// A Controller is not safe for concurrent use; hosts serialise access.
package interaction

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/observability"
	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/scene"
)

// Config configures a [Controller].
type Config struct {
	// Raw is the document projected on every level change.
	Raw projection.RawData
	// Level is the initial level.
	Level scene.Level
	// Direction is the layout flow. Defaults to top-to-bottom.
	Direction scene.Direction
	// Layout is the layout geometry.
	Layout layout.Options

	Host    Host
	Surface Surface

	// Builder creates planned nodes and connections. Defaults to random
	// UUIDs.
	Builder *scene.Builder
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Controller applies events to the active session.
type Controller struct {
	raw     projection.RawData
	dir     scene.Direction
	opts    layout.Options
	host    Host
	surface Surface
	builder *scene.Builder
	logger  *log.Logger

	session *Session
}

// New creates a controller and activates cfg.Level. The host is not told
// about the initial level; it chose it.
func New(cfg Config) *Controller {
	c := &Controller{
		raw:     cfg.Raw,
		dir:     cfg.Direction,
		opts:    cfg.Layout.WithDefaults(),
		host:    cfg.Host,
		surface: cfg.Surface,
		builder: cfg.Builder,
		logger:  cfg.Logger,
	}
	if !c.dir.Valid() {
		c.dir = scene.TopToBottom
	}
	if c.host == nil {
		c.host = HostFuncs{}
	}
	if c.builder == nil {
		c.builder = &scene.Builder{}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}

	level := cfg.Level
	if !level.Valid() {
		level = scene.Abstract
	}
	c.activate(level)
	c.draw()
	return c
}

// Session returns the active session. It is replaced on every level change.
func (c *Controller) Session() *Session { return c.session }

// Level returns the active level.
func (c *Controller) Level() scene.Level { return c.session.level }

// Direction returns the layout direction.
func (c *Controller) Direction() scene.Direction { return c.dir }

// Snapshot returns a deep copy of the visible state.
func (c *Controller) Snapshot() Snapshot { return c.session.snapshot(c.dir) }

// SetLevel projects and lays out level, replacing the session and clearing
// the selection. Invalid levels are ignored.
func (c *Controller) SetLevel(level scene.Level) bool {
	if !level.Valid() {
		return false
	}
	c.activate(level)
	c.host.LevelChanged(level)
	c.draw()
	return true
}

func (c *Controller) activate(level scene.Level) {
	start := time.Now()
	nodes, edges := projection.Project(level, c.raw)
	res := layout.Layout(nodes, edges, c.dir, c.opts)

	s := newSession(level, res.Nodes, res.Edges)
	s.width, s.height = res.Width, res.Height
	s.backEdges = res.BackEdges
	c.session = s

	elapsed := time.Since(start)
	c.logger.Debug("level activated", "level", level, "nodes", len(res.Nodes), "edges", len(res.Edges),
		"crossings", res.Crossings, "elapsed", elapsed)
	observability.Scene().OnLevelChange(level.String(), len(res.Nodes), len(res.Edges), elapsed)
}

// Relayout lays out the current session again, planned nodes and new
// connections included. Selection is kept.
func (c *Controller) Relayout() bool {
	s := c.session
	res := layout.Layout(s.nodes, s.edges, c.dir, c.opts)
	s.replace(res.Nodes, res.Edges)
	s.width, s.height = res.Width, res.Height
	s.backEdges = res.BackEdges
	s.pending = 0
	c.draw()
	return true
}

// AddPlannedNode appends a Planned node named name. Surrounding whitespace
// is trimmed; empty names and names [errors.ValidateNodeName] refuses are
// rejected. The layout is not re-run: the
// node is placed in a row below the current drawing, next to earlier
// planned nodes that have not been laid out yet.
func (c *Controller) AddPlannedNode(name string) (scene.Node, bool) {
	name = strings.TrimSpace(name)
	if errors.ValidateNodeName(name) != nil {
		return scene.Node{}, false
	}

	s := c.session
	n := c.builder.PlannedNode(name)
	n.Position = c.plannedPosition()
	n.Placed = true
	s.appendNode(n)
	s.pending++

	c.logger.Debug("planned node added", "id", n.ID, "name", name)
	c.draw()
	return n.Clone(), true
}

func (c *Controller) plannedPosition() scene.Position {
	s := c.session
	var below float64
	if len(s.nodes) > s.pending {
		below = s.height + c.opts.RankSep
	}
	step := c.opts.NodeWidth + c.opts.NodeSep
	if c.dir.Horizontal() {
		if len(s.nodes) > s.pending {
			below = s.width + c.opts.RankSep
		}
		step = c.opts.NodeHeight + c.opts.NodeSep
		return scene.Position{X: below, Y: float64(s.pending) * step}
	}
	return scene.Position{X: float64(s.pending) * step, Y: below}
}

// TryConnect adds an edge from source to target. Both nodes must exist in
// the session, and the builder must accept the pair (no self-loop, no
// duplicate). The new edge gets a straight route and a highlight derived
// from the current selection.
func (c *Controller) TryConnect(source, target string) (scene.Edge, bool) {
	s := c.session
	if !s.has(source) || !s.has(target) {
		return scene.Edge{}, false
	}
	e, ok := c.builder.Edge(source, target, s.edges)
	if !ok {
		return scene.Edge{}, false
	}
	e.Points = []scene.Point{c.centre(source), c.centre(target)}
	s.edges = append(s.edges, e)
	s.applySelection(s.selected)

	c.logger.Debug("connected", "source", source, "target", target)
	c.draw()
	return s.edges[len(s.edges)-1].Clone(), true
}

func (c *Controller) centre(id string) scene.Point {
	n := c.session.nodes[c.session.index[id]]
	return scene.Point{X: n.Position.X + c.opts.NodeWidth/2, Y: n.Position.Y + c.opts.NodeHeight/2}
}

// OnSelectionChange makes the first id the active node and recomputes every
// highlight: an edge is highlighted exactly when it touches the active node.
// An empty selection, or a first id not in the session, clears everything.
// The host is told about a newly active node.
func (c *Controller) OnSelectionChange(ids []string) bool {
	s := c.session
	var active string
	if len(ids) > 0 && s.has(ids[0]) {
		active = ids[0]
	}
	previous := s.selected
	changed := s.applySelection(active)

	if active != "" && active != previous {
		c.host.NodeSelected(active)
	}
	if changed {
		c.draw()
	}
	return changed
}

// OnNodeActivate asks the host to drill into id when the node exists and
// its kind allows it. The session is not changed.
func (c *Controller) OnNodeActivate(id string) bool {
	n, ok := c.session.Node(id)
	if !ok || !scene.CapabilitiesOf(n.Kind).DrillDown {
		return false
	}
	c.host.EnterNode(id)
	return true
}

// Dispatch applies ev and reports whether the visible state changed.
func (c *Controller) Dispatch(ev Event) bool {
	var changed bool
	switch ev := ev.(type) {
	case LevelChange:
		changed = c.SetLevel(ev.Level)
	case NodeActivate:
		c.OnNodeActivate(ev.ID)
	case SelectionChange:
		changed = c.OnSelectionChange(ev.IDs)
	case AddNode:
		_, changed = c.AddPlannedNode(ev.Name)
	case Connect:
		_, changed = c.TryConnect(ev.Source, ev.Target)
	case Relayout:
		changed = c.Relayout()
	default:
		return false
	}
	observability.Scene().OnEvent(ev.Type(), changed)
	return changed
}

func (c *Controller) draw() {
	if c.surface != nil {
		c.surface.Draw(c.Snapshot())
	}
}
