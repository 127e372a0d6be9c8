package interaction

import "github.com/orakul/orakul/pkg/scene"

// Host is the application shell around the controller. It decides what
// navigation means; the controller only reports intent.
type Host interface {
	// EnterNode asks the host to drill down into a node.
	EnterNode(id string)
	// LevelChanged reports that a new level is active.
	LevelChanged(level scene.Level)
	// NodeSelected reports the node that became active.
	NodeSelected(id string)
}

// Surface draws snapshots. It receives a full snapshot after every change.
type Surface interface {
	Draw(Snapshot)
}

// HostFuncs adapts optional functions to [Host]. Nil fields are ignored.
type HostFuncs struct {
	OnEnterNode    func(id string)
	OnLevelChanged func(level scene.Level)
	OnNodeSelected func(id string)
}

func (h HostFuncs) EnterNode(id string) {
	if h.OnEnterNode != nil {
		h.OnEnterNode(id)
	}
}

func (h HostFuncs) LevelChanged(level scene.Level) {
	if h.OnLevelChanged != nil {
		h.OnLevelChanged(level)
	}
}

func (h HostFuncs) NodeSelected(id string) {
	if h.OnNodeSelected != nil {
		h.OnNodeSelected(id)
	}
}

// SurfaceFunc adapts a function to [Surface].
type SurfaceFunc func(Snapshot)

// Draw implements [Surface].
func (f SurfaceFunc) Draw(s Snapshot) { f(s) }
