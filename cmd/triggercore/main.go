// Command triggercore parses, optimizes and serializes achievement triggers.
//
//	triggercore optimize "0xH001234=1_0xH001234=1"
//	triggercore parse "R:0xH000010=0_0xM000020=1"
//	triggercore compile ./sets/mygame
//	triggercore repl [--plain] [--script file]
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/triggercore/cli"
	"github.com/nathoo/triggercore/config"
	"github.com/nathoo/triggercore/engine"
	"github.com/nathoo/triggercore/engine/codec"
	"github.com/nathoo/triggercore/engine/format"
	"github.com/nathoo/triggercore/loader"
	"github.com/nathoo/triggercore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the state shared by all subcommands once the persistent
// flags have been processed.
type app struct {
	cfgPath string
	verbose bool
	lenient bool

	cfg config.Config
	log *zap.Logger
}

func (a *app) engine() *engine.Engine {
	return engine.New(a.log, engine.Options{
		Optimize: a.cfg.Optimize,
		Strict:   a.cfg.Strict && !a.lenient,
	})
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "triggercore",
		Short:         "Compile and optimize achievement trigger conditions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())
			if a.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.log, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&a.lenient, "lenient", false, "Accept triggers with trailing or malformed input")

	rootCmd.AddCommand(
		newOptimizeCmd(a),
		newParseCmd(a),
		newCompileCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func newOptimizeCmd(a *app) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "optimize [trigger...]",
		Short: "Optimize triggers given as arguments, or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := a.cfg.Output
			if debug {
				output = config.OutputBoth
			}
			eng := a.engine()
			return eachTrigger(cmd.InOrStdin(), args, func(s string) error {
				res, err := eng.CompileTrigger(s)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res, output)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Also print the readable rendering")
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [trigger...]",
		Short: "Show how triggers parse, without optimizing",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := a.engine()
			out := cmd.OutOrStdout()
			return eachTrigger(cmd.InOrStdin(), args, func(s string) error {
				b, err := eng.ParseTrigger(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", codec.SerializeBuilder(b))
				fmt.Fprintf(out, "  core: %d requirement(s), alts: %d\n", len(b.Core()), len(b.Alts()))
				fmt.Fprintf(out, "  %s\n", format.Builder(b))
				return nil
			})
		},
	}
}

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <set_directory>",
		Short: "Compile a Lua achievement set and print its triggers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loader.Load(args[0], a.log)
			if err != nil {
				return fmt.Errorf("loading achievement set: %w", err)
			}
			compiled, err := a.engine().CompileSet(*set)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s (game %d)\n", compiled.Title, compiled.GameID)
			for _, ach := range compiled.Achievements {
				fmt.Fprintf(out, "%d\t%s\t%d\t%s\n", ach.ID, ach.Title, ach.Points, codec.SerializeAchievement(ach))
				if a.cfg.Output != config.OutputTrigger {
					fmt.Fprintf(out, "\t%s\n", format.Achievement(ach))
				}
			}
			for _, lb := range compiled.Leaderboards {
				fmt.Fprintf(out, "L%d\t%s\tSTA:%s::CAN:%s::SUB:%s::VAL:%s\n",
					lb.ID, lb.Title, lb.Start, lb.Cancel, lb.Submit, lb.Value)
			}
			return nil
		},
	}
}

func newReplCmd(a *app) *cobra.Command {
	var plain bool
	var scriptFile string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Compile triggers interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := cli.NewSession(a.engine(), a.cfg.Output)

			// Script mode: read from file, force plain, echo lines.
			if scriptFile != "" {
				f, err := os.Open(scriptFile)
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				c := &cli.CLI{Session: session, In: f, Out: cmd.OutOrStdout(), EchoInput: true, Prompt: "> "}
				return c.Run()
			}

			// Use plain CLI if --plain flag or stdout is not a terminal.
			if plain || !isTerminal() {
				c := &cli.CLI{Session: session, In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Prompt: "> "}
				return c.Run()
			}
			return tui.Run(session)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line REPL instead of the TUI")
	cmd.Flags().StringVar(&scriptFile, "script", "", "Read input lines from a file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "triggercore %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// eachTrigger calls fn for every argument, or for every non-blank line of
// in when there are no arguments.
func eachTrigger(in io.Reader, args []string, fn func(string) error) error {
	if len(args) > 0 {
		for _, s := range args {
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printResult(out io.Writer, res engine.Result, output config.Output) {
	switch output {
	case config.OutputDebug:
		fmt.Fprintln(out, res.Debug)
	case config.OutputBoth:
		fmt.Fprintln(out, res.Output)
		fmt.Fprintln(out, res.Debug)
	default:
		fmt.Fprintln(out, res.Output)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
