package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color has a light- and a dark-terminal variant.
var (
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "36"}   // selection, titles
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "35"}   // success, planned elements
	colorYellow = lipgloss.AdaptiveColor{Light: "172", Dark: "220"} // warnings, highlighted edges
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "167"} // errors
	colorBlue   = lipgloss.AdaptiveColor{Light: "25", Dark: "75"}   // commands
	colorText   = lipgloss.AdaptiveColor{Light: "235", Dark: "255"} // values
	colorGray   = lipgloss.AdaptiveColor{Light: "243", Dark: "245"} // secondary text
	colorDim    = lipgloss.AdaptiveColor{Light: "248", Dark: "240"} // muted text
)

// Styles shared by the one-shot commands and the explorer.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// stdout receives command output; tests swap it.
var stdout io.Writer = os.Stdout

type status int

const (
	statusSuccess status = iota
	statusError
	statusWarning
	statusInfo
)

var statusMarks = [...]struct {
	icon  string
	style lipgloss.Style
	body  *lipgloss.Style // nil leaves the message unstyled
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen), nil},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed), nil},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow), &StyleWarning},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray), nil},
}

func printStatus(s status, format string, args ...any) {
	m := statusMarks[s]
	msg := fmt.Sprintf(format, args...)
	if m.body != nil {
		msg = m.body.Render(msg)
	}
	fmt.Fprintln(stdout, m.style.Render(m.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(statusError, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printStats prints scene size and whether it came from the cache, e.g.
// "12 nodes · 14 edges · cached".
func printStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", nodeCount))
	}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edgeCount))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }
