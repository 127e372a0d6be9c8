package layout

// Default geometry, in drawing units.
const (
	DefaultNodeWidth  = 172.0
	DefaultNodeHeight = 36.0
	DefaultNodeSep    = 40.0
	DefaultRankSep    = 80.0
	DefaultPasses     = 8
)

// Options controls the geometry of a layout. Zero or negative fields take
// their defaults.
type Options struct {
	NodeWidth  float64 `toml:"node_width" json:"nodeWidth"`
	NodeHeight float64 `toml:"node_height" json:"nodeHeight"`

	// NodeSep is the gap between neighbours in the same layer.
	NodeSep float64 `toml:"node_sep" json:"nodeSep"`
	// RankSep is the gap between consecutive layers.
	RankSep float64 `toml:"rank_sep" json:"rankSep"`

	// Passes is the number of crossing-reduction sweeps.
	Passes int `toml:"passes" json:"passes"`
}

// DefaultOptions returns the default geometry.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		NodeSep:    DefaultNodeSep,
		RankSep:    DefaultRankSep,
		Passes:     DefaultPasses,
	}
}

// WithDefaults returns o with unset fields filled in.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.NodeWidth <= 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.NodeSep <= 0 {
		o.NodeSep = d.NodeSep
	}
	if o.RankSep <= 0 {
		o.RankSep = d.RankSep
	}
	if o.Passes <= 0 {
		o.Passes = d.Passes
	}
	return o
}
