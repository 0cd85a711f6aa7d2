// Package mentor asks an LLM for child-friendly advice on weekly goal
// progress, degrading to canned localized text whenever that fails.
package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/kidtimer/internal/goals"
	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/llm"
	"github.com/abhisek/kidtimer/internal/logger"
)

// Advice is the mentor's reply. Fallback is set when the text is canned
// rather than generated.
type Advice struct {
	Summary       string `json:"summary"`
	Suggestion    string `json:"suggestion"`
	Encouragement string `json:"encouragement"`
	Fallback      bool   `json:"fallback"`
}

// Narration joins the advice into one text for speech.
func (a Advice) Narration() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{a.Summary, a.Suggestion, a.Encouragement} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Input is the context the advice is generated for.
type Input struct {
	Now      time.Time
	Language string
	DaysLeft int
	Progress []goals.Progress
}

// InputFromReport builds an Input from the current week's report.
func InputFromReport(r goals.Report, now time.Time, lang string) Input {
	return Input{Now: now, Language: lang, DaysLeft: r.DaysLeft, Progress: r.Goals}
}

// Service generates advice. A nil provider is allowed and always yields
// the offline fallback.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a mentor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Advise returns advice for in. It never fails: provider errors yield the
// offline text and unusable replies yield the retry text.
func (s *Service) Advise(ctx context.Context, in Input) Advice {
	lang := i18n.Match(in.Language)

	if len(in.Progress) == 0 {
		adv := offline(lang)
		adv.Summary = i18n.T(lang, i18n.KeyMentorNoGoals)
		return adv
	}
	if s == nil || s.provider == nil {
		logger.Warn("mentor: no LLM provider configured")
		return offline(lang)
	}

	adv, err := s.generate(ctx, in)
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			logger.Warn("mentor: unusable reply", "error", err)
			return retry(lang)
		}
		logger.Warn("mentor: generation failed", "error", err)
		return offline(lang)
	}
	return adv
}

func (s *Service) generate(ctx context.Context, in Input) (Advice, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeMentor)

	req := llm.SingleTurn(systemPrompt, buildUserMessage(in), AdviceSchema)
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Advice{}, fmt.Errorf("mentor advice: %w", err)
	}

	var out Advice
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Advice{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("parse advice: %w", err)}
	}
	if strings.TrimSpace(out.Summary) == "" && strings.TrimSpace(out.Suggestion) == "" && strings.TrimSpace(out.Encouragement) == "" {
		return Advice{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: errors.New("empty advice")}
	}
	out.Fallback = false
	return out, nil
}

func offline(lang string) Advice {
	return Advice{
		Summary:       i18n.T(lang, i18n.KeyOfflineSummary),
		Suggestion:    i18n.T(lang, i18n.KeyOfflineSuggestion),
		Encouragement: i18n.T(lang, i18n.KeyOfflineEncourage),
		Fallback:      true,
	}
}

func retry(lang string) Advice {
	return Advice{
		Summary:       i18n.T(lang, i18n.KeyRetrySummary),
		Suggestion:    i18n.T(lang, i18n.KeyRetrySuggestion),
		Encouragement: i18n.T(lang, i18n.KeyRetryEncourage),
		Fallback:      true,
	}
}
