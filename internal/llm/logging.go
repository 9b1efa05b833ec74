package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type purposeKeyType struct{}

var purposeKey purposeKeyType

// WithPurpose tags the context with what a call is for ("chat", "hint").
// The logging decorator reads the tag back for its trace line.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey).(string); ok {
		return p
	}
	return "unknown"
}

// UsageRecorder receives the token counts of every model call. The store's
// chat repository implements this.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, model string, inputTokens, outputTokens int) error
}

// LoggingProvider is a decorator that traces every request and records its
// token usage.
type LoggingProvider struct {
	inner Provider
	usage UsageRecorder
	log   zerolog.Logger
}

// WithLogging wraps a Provider with tracing and usage recording. usage may
// be nil when nothing should be persisted.
func WithLogging(p Provider, usage UsageRecorder, log zerolog.Logger) Provider {
	return &LoggingProvider{
		inner: p,
		usage: usage,
		log:   log.With().Str("component", "llm").Logger(),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	evt := l.log.Debug().
		Str("purpose", purpose).
		Str("model", l.inner.ModelID()).
		Dur("elapsed", time.Since(start))
	if resp != nil {
		evt = evt.
			Int("input_tokens", resp.Usage.InputTokens).
			Int("output_tokens", resp.Usage.OutputTokens).
			Str("stop_reason", resp.StopReason)
	}
	if err != nil {
		evt = evt.AnErr("error", err)
	}
	evt.Msg("llm request")

	// Record usage, but never fail the request over bookkeeping.
	if resp != nil && l.usage != nil {
		if recErr := l.usage.RecordUsage(ctx, resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens); recErr != nil {
			l.log.Warn().Err(recErr).Msg("record llm usage")
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
