package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func flag(name string, on bool) string {
	if on {
		return name + ":on"
	}
	return name + ":off"
}

// renderStatusBar produces a full-width inverted status line with the
// session toggles on the left and the last compilation on the right.
func (m Model) renderStatusBar() string {
	opts := m.session.Engine.Options()
	left := fmt.Sprintf(" %s %s %s | output:%s",
		flag("opt", opts.Optimize), flag("strict", opts.Strict), flag("trace", m.session.Trace), m.session.Output)

	right := fmt.Sprintf("#%d ", m.session.Compiled)
	if m.session.Compiled > 0 {
		last := m.session.Last
		candidate := fmt.Sprintf("core:%d alts:%d  %d->%d | #%d ",
			last.Core, last.Alts, last.Report.Before, last.Report.After, m.session.Compiled)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
