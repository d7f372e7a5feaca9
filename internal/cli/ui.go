package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colours (ANSI 256). Bark and leaf tones for arbor's own output;
// the tree itself is coloured by the render palette.
var (
	colorLeaf  = lipgloss.Color("71")  // green: success, finished trees
	colorBud   = lipgloss.Color("179") // amber: warnings, paused growth
	colorBerry = lipgloss.Color("167") // red: errors
	colorSky   = lipgloss.Color("74")  // blue: commands, spinner
	colorBark  = lipgloss.Color("246") // grey: labels
	colorMoss  = lipgloss.Color("240") // dim: secondary text
	colorChalk = lipgloss.Color("254") // values
)

// Styles shared by the commands and the grow view.
var (
	StyleDim     = lipgloss.NewStyle().Foreground(colorMoss)
	StyleValue   = lipgloss.NewStyle().Foreground(colorChalk)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorLeaf)
	StyleWarning = lipgloss.NewStyle().Foreground(colorBud)

	styleError       = lipgloss.NewStyle().Foreground(colorBerry)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorSky)
	styleCommand     = lipgloss.NewStyle().Foreground(colorSky)
	styleLabel       = lipgloss.NewStyle().Foreground(colorBark).Width(12)
)

// status writes "<icon> <msg>" to w.
func status(w io.Writer, icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(w, style.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	status(os.Stdout, "✓", StyleSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(os.Stdout, "!", StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printError goes to stderr so piped output stays clean.
func printError(format string, args ...any) {
	status(os.Stderr, "✗", styleError, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	status(os.Stdout, "›", StyleDim, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarises a layout run, e.g. "6 nodes · 5 edges · cached".
func printStats(nodes, edges int, cached bool) {
	var parts []string
	if nodes > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodes)))
	}
	if edges > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", edges)))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
