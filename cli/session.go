package cli

import (
	"fmt"
	"strings"

	"github.com/nathoo/triggercore/config"
	"github.com/nathoo/triggercore/engine"
)

// Session holds the interactive state shared by the line REPL and the TUI:
// the engine, display toggles and the last trigger compiled.
type Session struct {
	Engine *engine.Engine
	Output config.Output
	Trace  bool

	Last     engine.Result
	Compiled int

	lastInput string
}

// NewSession creates a session around eng.
func NewSession(eng *engine.Engine, output config.Output) *Session {
	if output == "" {
		output = config.OutputTrigger
	}
	return &Session{Engine: eng, Output: output}
}

// Exec runs one input line: a meta-command, "again", or a trigger to
// compile. It returns the lines to show and whether the user asked to quit.
// System messages are wrapped in brackets.
func (s *Session) Exec(input string) ([]string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, false
	}

	if strings.HasPrefix(input, "/") {
		return s.handleMeta(input)
	}

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if s.lastInput == "" {
			return []string{system("Nothing to repeat.")}, false
		}
		input = s.lastInput
	} else {
		s.lastInput = input
	}

	return s.compile(input), false
}

func (s *Session) compile(input string) []string {
	res, err := s.Engine.CompileTrigger(input)
	if err != nil {
		return []string{system(fmt.Sprintf("error: %v", err))}
	}
	s.Last = res
	s.Compiled++

	trigger := res.Output
	if trigger == "" {
		trigger = "(empty trigger)"
	}

	var lines []string
	switch s.Output {
	case config.OutputDebug:
		lines = append(lines, res.Debug)
	case config.OutputBoth:
		lines = append(lines, trigger, res.Debug)
	default:
		lines = append(lines, trigger)
	}

	if s.Trace {
		lines = append(lines, formatTrace(res)...)
	}
	return lines
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (s *Session) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit":
		return []string{system("Goodbye.")}, true

	case "/help":
		return helpLines(), false

	case "/optimize":
		opts := s.Engine.Options()
		opts.Optimize = !opts.Optimize
		s.Engine = s.Engine.WithOptions(opts)
		return []string{system("Optimization " + onOff(opts.Optimize) + ".")}, false

	case "/strict":
		opts := s.Engine.Options()
		opts.Strict = !opts.Strict
		s.Engine = s.Engine.WithOptions(opts)
		return []string{system("Strict parsing " + onOff(opts.Strict) + ".")}, false

	case "/debug":
		if s.Output == config.OutputTrigger {
			s.Output = config.OutputBoth
		} else {
			s.Output = config.OutputTrigger
		}
		return []string{system("Debug rendering " + onOff(s.Output == config.OutputBoth) + ".")}, false

	case "/trace":
		s.Trace = !s.Trace
		return []string{system("Trace output " + onOff(s.Trace) + ".")}, false

	case "/same":
		return s.cmdSame(args), false

	default:
		return []string{system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))}, false
	}
}

// cmdSame compares two triggers group by group, after optimizing both when
// optimization is on.
func (s *Session) cmdSame(args []string) []string {
	if len(args) != 2 {
		return []string{system("usage: /same <trigger> <trigger>")}
	}

	a, err := s.Engine.ParseTrigger(args[0])
	if err != nil {
		return []string{system(fmt.Sprintf("error: first trigger: %v", err))}
	}
	b, err := s.Engine.ParseTrigger(args[1])
	if err != nil {
		return []string{system(fmt.Sprintf("error: second trigger: %v", err))}
	}
	if s.Engine.Options().Optimize {
		a.Optimize()
		b.Optimize()
	}

	if a.AreRequirementsSame(b) {
		return []string{"same"}
	}
	return []string{"different"}
}

func formatTrace(res engine.Result) []string {
	lines := []string{fmt.Sprintf("[trace] %d round(s), %d -> %d requirements",
		res.Report.Rounds, res.Report.Before, res.Report.After)}
	for _, p := range res.Report.Passes {
		if p.Before == p.After {
			continue
		}
		lines = append(lines, fmt.Sprintf("[trace]   round %d %s: %d -> %d", p.Round, p.Name, p.Before, p.After))
	}
	return lines
}

func helpLines() []string {
	return []string{
		"Type a trigger to compile it, e.g. 0xH001234=1_0xH001235>=3",
		"",
		"Commands:",
		"  /optimize        Toggle the optimizer",
		"  /strict          Toggle strict parsing",
		"  /debug           Toggle the readable rendering",
		"  /trace           Toggle per-pass optimizer output",
		"  /same <a> <b>    Compare two triggers (write words as 0x1234, not 0x 1234)",
		"  /help            Show this help",
		"  /quit            Exit",
		"  again (g)        Recompile the last trigger",
	}
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func system(text string) string {
	return "[" + text + "]"
}
