// Package cli provides the line-oriented REPL for compiling triggers.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/triggercore/config"
	"github.com/nathoo/triggercore/engine"
)

// CLI reads triggers line by line and prints their compiled form.
type CLI struct {
	Session   *Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
	Prompt    string
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, output config.Output) *CLI {
	return &CLI{
		Session: NewSession(eng, output),
		In:      os.Stdin,
		Out:     os.Stdout,
		Prompt:  "> ",
	}
}

// Run loops: prompt, input, dispatch, output. It returns when input ends
// or on /quit.
func (c *CLI) Run() error {
	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.Prompt)
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		lines, quit := c.Session.Exec(input)
		for _, line := range lines {
			c.printLine(line)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}
