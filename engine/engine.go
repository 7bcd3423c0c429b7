// Package engine wires the codec, builder and optimizer together into a
// single compile step for triggers, achievements and leaderboards.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/triggercore/engine/builder"
	"github.com/nathoo/triggercore/engine/codec"
	"github.com/nathoo/triggercore/engine/format"
	"github.com/nathoo/triggercore/engine/optimize"
	"github.com/nathoo/triggercore/types"
)

var (
	// ErrTrailingInput is returned in strict mode when parsing stopped
	// before the end of the trigger.
	ErrTrailingInput = errors.New("unparsed trailing input")
	// ErrMalformedRequirement is returned in strict mode for clauses the
	// codec could not read an operator for.
	ErrMalformedRequirement = errors.New("malformed requirement")
)

// Options controls a compilation.
type Options struct {
	Optimize bool
	Strict   bool
}

// DefaultOptions optimizes and rejects malformed input.
func DefaultOptions() Options {
	return Options{Optimize: true, Strict: true}
}

// Engine compiles triggers. It holds no per-compilation state and may be
// shared between goroutines.
type Engine struct {
	log  *zap.Logger
	opts Options
}

// New creates an engine. A nil logger disables logging.
func New(log *zap.Logger, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, opts: opts}
}

// Options returns the engine's options.
func (e *Engine) Options() Options {
	return e.opts
}

// WithOptions returns a copy of the engine using opts.
func (e *Engine) WithOptions(opts Options) *Engine {
	return &Engine{log: e.log, opts: opts}
}

// Result is the outcome of compiling one trigger.
type Result struct {
	Input  string
	Output string
	Debug  string
	Core   int
	Alts   int
	Report optimize.Report
}

// ParseTrigger parses s into a builder, applying strict checks if enabled.
func (e *Engine) ParseTrigger(s string) (*builder.Builder, error) {
	b, n := codec.ParseString(s)
	if !e.opts.Strict {
		return b, nil
	}

	if n < len(s) {
		return nil, fmt.Errorf("%w at offset %d: %q", ErrTrailingInput, n, s[n:])
	}
	if err := checkGroups(b.Core(), b.Alts()); err != nil {
		return nil, err
	}
	return b, nil
}

// CompileTrigger parses s, optimizes it if enabled, and re-serializes it.
func (e *Engine) CompileTrigger(s string) (Result, error) {
	b, err := e.ParseTrigger(s)
	if err != nil {
		return Result{}, err
	}

	res := Result{Input: s}
	if e.opts.Optimize {
		res.Report = b.Optimize()
	}
	res.Output = codec.SerializeBuilder(b)
	res.Debug = format.Builder(b)
	res.Core = len(b.Core())
	res.Alts = len(b.Alts())

	e.log.Debug("compiled trigger",
		zap.String("input", s),
		zap.String("output", res.Output),
		zap.Int("rounds", res.Report.Rounds),
		zap.Int("before", res.Report.Before),
		zap.Int("after", res.Report.After),
	)
	return res, nil
}

// CompileAchievement returns an optimized copy of a.
func (e *Engine) CompileAchievement(a types.Achievement) (types.Achievement, error) {
	if e.opts.Strict {
		if err := checkGroups(a.Core, a.Alts); err != nil {
			return types.Achievement{}, fmt.Errorf("achievement %d %q: %w", a.ID, a.Title, err)
		}
	}

	b := builder.FromAchievement(a)
	if e.opts.Optimize {
		report := b.Optimize()
		e.log.Debug("optimized achievement",
			zap.Int("id", a.ID),
			zap.String("title", a.Title),
			zap.Int("before", report.Before),
			zap.Int("after", report.After),
		)
	}
	return b.ToAchievement(), nil
}

// CompileLeaderboard compiles the start, cancel and submit triggers of lb.
func (e *Engine) CompileLeaderboard(lb types.Leaderboard) (types.Leaderboard, error) {
	out := lb
	for _, part := range []struct {
		name string
		src  string
		dst  *string
	}{
		{"start", lb.Start, &out.Start},
		{"cancel", lb.Cancel, &out.Cancel},
		{"submit", lb.Submit, &out.Submit},
	} {
		if part.src == "" {
			continue
		}
		res, err := e.CompileTrigger(part.src)
		if err != nil {
			return types.Leaderboard{}, fmt.Errorf("leaderboard %d %q %s: %w", lb.ID, lb.Title, part.name, err)
		}
		*part.dst = res.Output
	}
	return out, nil
}

// CompileSet compiles every achievement and leaderboard in set.
func (e *Engine) CompileSet(set types.AchievementSet) (types.AchievementSet, error) {
	out := types.AchievementSet{Title: set.Title, GameID: set.GameID}
	for _, a := range set.Achievements {
		compiled, err := e.CompileAchievement(a)
		if err != nil {
			return types.AchievementSet{}, err
		}
		out.Achievements = append(out.Achievements, compiled)
	}
	for _, lb := range set.Leaderboards {
		compiled, err := e.CompileLeaderboard(lb)
		if err != nil {
			return types.AchievementSet{}, err
		}
		out.Leaderboards = append(out.Leaderboards, compiled)
	}

	e.log.Info("compiled achievement set",
		zap.String("title", set.Title),
		zap.Int("game_id", set.GameID),
		zap.Int("achievements", len(out.Achievements)),
		zap.Int("leaderboards", len(out.Leaderboards)),
	)
	return out, nil
}

// checkGroups rejects clauses that no evaluator could make sense of.
func checkGroups(core []types.Requirement, alts [][]types.Requirement) error {
	check := func(group string, reqs []types.Requirement) error {
		for i, r := range reqs {
			if r.Operator == types.OpNone {
				return fmt.Errorf("%w: %s requirement %d has no operator", ErrMalformedRequirement, group, i+1)
			}
		}
		return nil
	}

	if err := check("core", core); err != nil {
		return err
	}
	for i, alt := range alts {
		if err := check(fmt.Sprintf("alt %d", i+1), alt); err != nil {
			return err
		}
	}
	return nil
}
