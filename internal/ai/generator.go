package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/nudge/internal/metrics"
	"go.uber.org/zap"
)

const (
	nudgeMaxTokens     = 150
	nudgeTemperature   = 0.8
	summaryMaxTokens   = 300
	summaryTemperature = 0.7
)

type WeeklySummary struct {
	Achievements string `json:"achievements"`
	Patterns     string `json:"patterns"`
	Themes       string `json:"themes"`
}

// EntryLine is the slice of an entry the summary prompt needs.
type EntryLine struct {
	Date      time.Time
	Task      string
	Completed bool
}

// Generator never returns an error: every failure degrades to canned text.
type Generator struct {
	completer Completer
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewGenerator accepts a nil completer, in which case every call uses the fallbacks.
func NewGenerator(completer Completer, logger *zap.Logger, m *metrics.Metrics) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Generator{
		completer: completer,
		logger:    logger.Named("ai"),
		metrics:   m,
	}
}

func (g *Generator) Nudge(ctx context.Context, task string, tone string) string {
	if g.completer == nil {
		g.metrics.AIFallbacksTotal.WithLabelValues(metrics.OperationNudge).Inc()
		return FallbackNudge(tone)
	}

	systemPrompt := coachSystemPrompt + ToneInstructions(tone)
	userPrompt := fmt.Sprintf("My top goal today is: \"%s\"", task)

	content, err := g.completer.Complete(ctx, systemPrompt, userPrompt, CompletionOptions{
		MaxTokens:   nudgeMaxTokens,
		Temperature: nudgeTemperature,
	})
	if err == nil {
		content = strings.TrimSpace(content)
		if content != "" {
			return content
		}
		err = ErrEmptyCompletion
	}

	g.fallback(metrics.OperationNudge, err)
	return FallbackNudge(tone)
}

func (g *Generator) WeeklySummary(ctx context.Context, entries []EntryLine) WeeklySummary {
	if len(entries) == 0 {
		return DefaultWeeklySummary()
	}
	if g.completer == nil {
		g.metrics.AIFallbacksTotal.WithLabelValues(metrics.OperationSummary).Inc()
		return DefaultWeeklySummary()
	}

	content, err := g.completer.Complete(ctx, summarySystemPrompt, SummaryUserPrompt(entries), CompletionOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
		JSON:        true,
	})
	if err != nil {
		g.fallback(metrics.OperationSummary, err)
		return DefaultWeeklySummary()
	}

	summary, err := parseWeeklySummary(content)
	if err != nil {
		g.fallback(metrics.OperationSummary, err)
		return DefaultWeeklySummary()
	}
	return summary
}

// SummaryUserPrompt renders one "- Date: ..., Task: ..., Completed: ..." line per entry.
func SummaryUserPrompt(entries []EntryLine) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		completed := "No"
		if entry.Completed {
			completed = "Yes"
		}
		lines = append(lines, fmt.Sprintf(
			"- Date: %s, Task: \"%s\", Completed: %s",
			entry.Date.UTC().Format("2006-01-02"),
			entry.Task,
			completed,
		))
	}
	return "Here are my tasks from the past week:\n" + strings.Join(lines, "\n")
}

func parseWeeklySummary(content string) (WeeklySummary, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		trimmed = "{}"
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return WeeklySummary{}, fmt.Errorf("decode summary json: %w", err)
	}

	return WeeklySummary{
		Achievements: summaryField(raw, "achievements"),
		Patterns:     summaryField(raw, "patterns"),
		Themes:       summaryField(raw, "themes"),
	}, nil
}

func summaryField(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fmt.Sprintf("No %s data available.", key)
}

func (g *Generator) fallback(operation string, err error) {
	upstream := &UpstreamError{Operation: operation, Err: err}
	g.logger.Warn("falling back to canned response", zap.String("operation", operation), zap.Error(upstream))
	g.metrics.AIFallbacksTotal.WithLabelValues(operation).Inc()
}
