// Package pipeline runs the load → project/layout → render sequence that
// the CLI and the HTTP host share.
//
// # Stages
//
//  1. Load: read the raw document from a file or MongoDB (pkg/source)
//  2. Scene: project one level, lay it out and export it as a graph.Scene
//  3. Render: produce artifacts (svg, png, pdf, dot, json) from the scene
//
// Each stage is cached through a [cache.Cache]; keys hash everything that
// influences the result, so a changed option or document misses.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "system.yaml",
//	    Level:   "modules",
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/orakul/orakul/pkg/cache"
	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/render/nodelink"
	"github.com/orakul/orakul/pkg/scene"
	"github.com/orakul/orakul/pkg/source"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists every output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// Defaults.
const (
	DefaultLevel     = "abstract"
	DefaultDirection = "TB"
	DefaultEngine    = string(nodelink.EngineDot)
)

// Options configures a pipeline run. It is JSON-serialisable for the HTTP
// host.
type Options struct {
	// Source is a file path or MongoDB URI.
	Source string `json:"source" validate:"required"`
	// Mongo selects the document when Source is a MongoDB URI.
	Mongo source.MongoOptions `json:"-"`

	Level     string         `json:"level,omitempty"`
	Direction string         `json:"direction,omitempty"`
	Layout    layout.Options `json:"layout,omitempty"`

	Formats  []string `json:"formats,omitempty" validate:"dive,oneof=svg png pdf dot json"`
	Engine   string   `json:"engine,omitempty" validate:"omitempty,oneof=dot pinned neato"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh bypasses cached results (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	o.Engine = strings.ToLower(o.Engine)
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	if err := o.setSceneDefaults(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) setSceneDefaults() error {
	if o.Level == "" {
		o.Level = DefaultLevel
	}
	level, err := scene.ParseLevel(o.Level)
	if err != nil {
		return err
	}
	o.Level = level.String()

	dir, err := scene.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = dir.String()
	o.Layout = o.Layout.WithDefaults()
	return nil
}

// SceneLevel returns the parsed level. Call after ValidateAndSetDefaults.
func (o *Options) SceneLevel() scene.Level {
	l, _ := scene.ParseLevel(o.Level)
	return l
}

// SceneDirection returns the parsed direction.
func (o *Options) SceneDirection() scene.Direction {
	d, _ := scene.ParseDirection(o.Direction)
	return d
}

// SceneKeyOpts returns the cache key options of the scene stage.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Level:      o.Level,
		Direction:  o.Direction,
		NodeWidth:  o.Layout.NodeWidth,
		NodeHeight: o.Layout.NodeHeight,
		NodeSep:    o.Layout.NodeSep,
		RankSep:    o.Layout.RankSep,
		Passes:     o.Layout.Passes,
	}
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Engine:   o.Engine,
		Detailed: o.Detailed,
	}
}

// Result holds the outputs of a run.
type Result struct {
	Raw     projection.RawData
	RawHash string

	Scene     graph.Scene
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	SceneTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	LoadHit   bool
	SceneHit  bool
	RenderHit bool
}
