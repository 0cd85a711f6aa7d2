package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/kidtimer/internal/llm"
)

// OpenAISynthesizer uses the OpenAI speech endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	voice  string
	speed  float64
}

// NewOpenAISynthesizer creates an OpenAI TTS synthesizer using the same
// key and endpoint as the OpenAI LLM provider.
func NewOpenAISynthesizer(cfg llm.OpenAIConfig, model, voice string, speed float64) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(config),
		model:  model,
		voice:  voice,
		speed:  speed,
	}, nil
}

func (s *OpenAISynthesizer) Name() string { return "openai" }

// Synthesize returns MP3 audio. The voice is multilingual, so lang is
// not sent.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, _ string) (*Audio, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          s.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai speech: %w", err)
	}
	return &Audio{Data: data, MIME: "audio/mpeg"}, nil
}
