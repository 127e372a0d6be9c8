// Package cli implements the orakul command-line interface.
//
// Commands:
//   - layout: project one level of a raw document and write the scene JSON
//   - visualize: render a scene JSON file to SVG, PNG, PDF or DOT
//   - render: layout and visualize in one step
//   - explore: interactive terminal explorer
//   - serve: HTTP host for browser front ends, with Prometheus metrics
//   - cache: inspect and clear the result cache
//
// Every command accepts --verbose (-v) for debug logging and --config to
// point at a config file other than $XDG_CONFIG_HOME/orakul/config.toml.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Loaded 42 nodes (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
