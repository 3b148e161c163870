// Package translate implements the translation fallback chain used for JSON
// string fields: a sequence of remote services (MyMemory, Google Translate,
// LibreTranslate) followed by a local phrase dictionary. The chain never
// fails; when every strategy gives up the original text is returned.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minios-linux/jsonlate/langmeta"
)

// ---------------------------------------------------------------------------
// Strategy IDs
// ---------------------------------------------------------------------------

const (
	StrategyMyMemory   = "mymemory"
	StrategyGoogle     = "google"
	StrategyLibre      = "libre"
	StrategyDictionary = "dictionary"
)

// DefaultOrder is the order strategies are tried in.
var DefaultOrder = []string{StrategyMyMemory, StrategyGoogle, StrategyLibre, StrategyDictionary}

// ---------------------------------------------------------------------------
// Stage results
// ---------------------------------------------------------------------------

// Result is the tagged outcome of a single strategy.
type Result struct {
	Text   string
	OK     bool
	Reason string
}

// Succeeded returns a successful Result.
func Succeeded(text string) Result { return Result{Text: text, OK: true} }

// Failed returns a failed Result with a formatted reason.
func Failed(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Strategy is one link of the fallback chain.
type Strategy interface {
	// ID is the stable identifier used in configuration.
	ID() string
	// Name is the display name.
	Name() string
	// Translate translates text from source to target.
	Translate(ctx context.Context, text, source, target string) Result
}

// Translator translates a single string into a target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// Stage pairs a strategy with an optional per-call timeout. When Timeout
// elapses the pipeline moves on whether or not the strategy has returned.
type Stage struct {
	Strategy Strategy
	Timeout  time.Duration
}

// Attempt records one strategy call made for a text.
type Attempt struct {
	Strategy string        `json:"strategy"`
	OK       bool          `json:"ok"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Outcome is the detailed result of a pipeline run.
type Outcome struct {
	Text string `json:"text"`
	// Source is the detected source language.
	Source string `json:"source"`
	// Strategy is the ID of the strategy that produced Text; empty when the
	// text was skipped or passed through.
	Strategy string    `json:"strategy,omitempty"`
	Skipped  bool      `json:"skipped,omitempty"`
	Attempts []Attempt `json:"attempts,omitempty"`
}

// Translated reports whether a strategy produced the text.
func (o Outcome) Translated() bool { return o.Strategy != "" }

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls how the default pipeline is built.
type Options struct {
	// Providers overrides the remote provider settings by ID. Missing
	// entries use DefaultProviders.
	Providers map[string]Provider
	// Order lists strategy IDs in the order they are tried. Default:
	// DefaultOrder.
	Order []string
	// Dictionary is the local phrase table. Default: BuiltinDictionary.
	Dictionary *Dictionary
	// Proxy is an optional HTTP/HTTPS proxy URL for all remote providers.
	Proxy string
	// Verbose logs every failed attempt through OnLog.
	Verbose bool
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits error messages during translation.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) provider(id string) Provider {
	p := DefaultProviders()[id]
	if o.Providers != nil {
		if override, ok := o.Providers[id]; ok {
			p = mergeProvider(p, override)
		}
	}
	if p.Proxy == "" {
		p.Proxy = o.Proxy
	}
	return p
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

// Pipeline runs strategies in order until one succeeds.
type Pipeline struct {
	Stages []Stage
	opts   Options
}

// ErrUnknownStrategy is returned for strategy IDs NewPipeline cannot build.
var ErrUnknownStrategy = errors.New("unknown translation strategy")

// NewPipeline builds the strategy chain described by opts.
func NewPipeline(opts Options) (*Pipeline, error) {
	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	p := &Pipeline{opts: opts}
	for _, id := range order {
		var s Strategy
		prov := opts.provider(id)
		switch id {
		case StrategyMyMemory:
			s = NewMyMemory(prov)
		case StrategyGoogle:
			s = NewGoogle(prov)
		case StrategyLibre:
			s = NewLibre(prov)
		case StrategyDictionary:
			dict := opts.Dictionary
			if dict == nil {
				dict = BuiltinDictionary()
			}
			s = dict
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
		}
		p.Stages = append(p.Stages, Stage{Strategy: s, Timeout: prov.Timeout})
	}
	return p, nil
}

// NewPipelineWith builds a pipeline from explicit stages.
func NewPipelineWith(opts Options, stages ...Stage) *Pipeline {
	return &Pipeline{Stages: stages, opts: opts}
}

// Translate returns text translated into target, or text unchanged when it
// is blank, already in the target language, or no strategy succeeds.
func (p *Pipeline) Translate(ctx context.Context, text, target string) string {
	return p.TranslateDetailed(ctx, text, target).Text
}

// TranslateDetailed is Translate with a record of every attempt.
func (p *Pipeline) TranslateDetailed(ctx context.Context, text, target string) Outcome {
	out := Outcome{Text: text}
	if strings.TrimSpace(text) == "" {
		out.Skipped = true
		return out
	}

	target = langmeta.Normalize(target)
	out.Source = DetectLanguage(text)
	if out.Source == target {
		out.Skipped = true
		return out
	}

	for _, stage := range p.Stages {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		res := runStage(ctx, stage, text, out.Source, target)
		if res.OK && res.Text == text {
			res = Failed("result is identical to the input")
		}
		att := Attempt{
			Strategy: stage.Strategy.ID(),
			OK:       res.OK,
			Reason:   res.Reason,
			Duration: time.Since(start),
		}
		out.Attempts = append(out.Attempts, att)

		if res.OK {
			out.Text = res.Text
			out.Strategy = att.Strategy
			if p.opts.Verbose {
				p.opts.log("%s: %q -> %q", stage.Strategy.Name(), truncate(text, 60), truncate(res.Text, 60))
			}
			return out
		}
		if p.opts.Verbose {
			p.opts.logError("%s failed for %q: %s", stage.Strategy.Name(), truncate(text, 60), res.Reason)
		}
	}

	if p.opts.Verbose {
		p.opts.logError("all strategies failed for %q, keeping original text", truncate(text, 60))
	}
	return out
}

// runStage calls a strategy under its timeout. The strategy runs in its own
// goroutine, so one that ignores ctx is abandoned once ctx is done; its
// late result is discarded. Panics become failures so a broken strategy
// cannot abort the chain.
func runStage(ctx context.Context, stage Stage, text, source, target string) Result {
	if stage.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, stage.Timeout)
		defer cancel()
	}

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Failed("panic: %v", r)
			}
		}()
		done <- stage.Strategy.Translate(ctx, text, source, target)
	}()

	var res Result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = Failed("%v", ctx.Err())
	}

	if !res.OK && stage.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res = Failed("timed out after %v", stage.Timeout)
	}
	if res.OK && res.Text == "" {
		res = Failed("empty translation")
	}
	return res
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
