package speech

import (
	"context"

	"github.com/abhisek/kidtimer/internal/config"
	"github.com/abhisek/kidtimer/internal/logger"
)

// New builds the fallback chain from cfg.Speech.Providers. Providers that
// cannot be constructed (usually a missing API key) are skipped.
func New(ctx context.Context, cfg config.Config) *Fallback {
	sc := cfg.Speech
	var synths []Synthesizer
	for _, name := range sc.Providers {
		var (
			s   Synthesizer
			err error
		)
		switch name {
		case "openai":
			s, err = NewOpenAISynthesizer(cfg.LLM.OpenAI, sc.OpenAIModel, sc.OpenAIVoice, sc.Speed)
		case "gemini":
			s, err = NewGeminiSynthesizer(ctx, cfg.LLM.Gemini, sc.GeminiModel, sc.GeminiVoice)
		case "command":
			s, err = NewCommandSynthesizer(sc.Command)
		default:
			logger.Warn("speech: unknown provider", "provider", name)
			continue
		}
		if err != nil {
			logger.Debug("speech: provider skipped", "provider", name, "reason", err)
			continue
		}
		synths = append(synths, s)
	}
	return NewFallback(sc.Timeout, synths...)
}
