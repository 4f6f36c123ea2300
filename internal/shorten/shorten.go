// Package shorten rewrites over-long record fields with a chat model so
// they fit their slide placeholders. It is strictly best-effort: the
// pipeline works unchanged when shortening is disabled or failing.
package shorten

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vabstudio/vabgen/internal/abstract"
	"github.com/vabstudio/vabgen/internal/llm"
)

// DefaultMaxFieldChars is the per-field length above which a rewrite is
// requested. It tracks the renderer's shrink threshold.
const DefaultMaxFieldChars = 700

const systemPrompt = "You shorten passages from medical research abstracts. " +
	"Rewrite the user's passage to fit the requested length. Keep every number, " +
	"percentage, p-value, and group name intact. Do not add information. " +
	"Reply with the shortened passage only."

// Shortener condenses the long prose fields of a record.
type Shortener struct {
	Client llm.Client
	Model  string
	// MaxFieldChars is the per-field length target. Zero means the default.
	MaxFieldChars int
}

// Apply returns a copy of rec with over-long fields rewritten. On any
// model failure the input record is returned unchanged alongside the
// error; callers log and continue with the full-length text.
func (s *Shortener) Apply(ctx context.Context, rec abstract.Record) (abstract.Record, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return rec, errors.New("shortener not configured")
	}
	limit := s.MaxFieldChars
	if limit <= 0 {
		limit = DefaultMaxFieldChars
	}

	fields := []*string{
		&rec.TheStudy.Participants,
		&rec.TheStudy.Intervention,
		&rec.TheStudy.PrimaryOutcome,
		&rec.TheStudy.SettingsLocations,
		&rec.Findings.Summary,
		&rec.ResearchInContext.Before,
		&rec.ResearchInContext.Implications,
	}
	for _, f := range fields {
		if len(*f) <= limit {
			continue
		}
		out, err := s.rewrite(ctx, *f, limit)
		if err != nil {
			return rec, err
		}
		if out != "" {
			*f = out
		}
	}
	return rec, nil
}

func (s *Shortener) rewrite(ctx context.Context, text string, limit int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Shorten to at most %d characters:\n\n%s", limit, text)},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		// one short-backoff retry for transient failures
		time.Sleep(100 * time.Millisecond)
		resp, err = s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("shorten call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("shorten: empty response")
	}
	return abstract.Clean(resp.Choices[0].Message.Content), nil
}
