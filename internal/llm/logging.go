package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/revise/internal/store"
)

// LoggingProvider writes an audit event for every call, successful or not,
// and a debug log line.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   *slog.Logger
}

// WithLogging wraps p. A nil events repo only logs; a nil logger uses
// slog.Default.
func WithLogging(p Provider, provider string, events store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, provider: provider, events: events, logger: logger.With("provider", provider)}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(started)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	switch {
	case err != nil:
		ev.ErrorMessage = err.Error()
		l.logger.DebugContext(ctx, "llm call failed", "purpose", ev.Purpose, "elapsed", elapsed, "error", err)
	default:
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		l.logger.DebugContext(ctx, "llm call",
			"purpose", ev.Purpose,
			"model", ev.Model,
			"elapsed", elapsed,
			"tokens", resp.Usage.InputTokens+resp.Usage.OutputTokens)
	}

	if l.events != nil {
		if aerr := l.events.AppendLLMRequest(ctx, ev); aerr != nil {
			l.logger.WarnContext(ctx, "llm audit write failed", "error", aerr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// transcript renders a request as the "[role]" blocks shown by `llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
