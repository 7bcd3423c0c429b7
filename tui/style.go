package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrigger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleDebug = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))

	styleVerdict = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleUserInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindTrigger lineKind = iota
	kindDebug
	kindVerdict
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[error:"):
		return kindError
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case line == "same" || line == "different":
		return kindVerdict
	case strings.Contains(line, "(0x") || strings.Contains(line, " && ") || strings.Contains(line, "always_true()"):
		return kindDebug
	default:
		return kindTrigger
	}
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindDebug:
		return styleDebug.Render(line)
	case kindVerdict:
		return styleVerdict.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleTrigger.Render(line)
	}
}
