package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/llm"
)

// Gemini TTS returns 16-bit mono PCM at this rate unless the MIME type
// says otherwise.
const geminiSampleRate = 24000

// GeminiSynthesizer uses a Gemini TTS model.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates a Gemini TTS synthesizer.
func NewGeminiSynthesizer(ctx context.Context, cfg llm.GeminiConfig, model, voice string) (*GeminiSynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiSynthesizer{client: client, model: model, voice: voice}, nil
}

func (s *GeminiSynthesizer) Name() string { return "gemini" }

// Synthesize returns WAV audio. Raw PCM replies are wrapped in a WAV
// header so any player can handle them.
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text, lang string) (*Audio, error) {
	config := &genai.GenerateContentConfig{
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}
	config.ResponseModalities = append(config.ResponseModalities, "AUDIO")

	prompt := fmt.Sprintf("Read aloud warmly and slowly for a child, in %s: %s", i18n.Lookup(i18n.Match(lang)).Tag, text)
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini speech: %w", err)
	}

	for _, c := range result.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return toWAV(p.InlineData.Data, p.InlineData.MIMEType), nil
			}
		}
	}
	return nil, errors.New("gemini speech: no audio in response")
}

// toWAV wraps L16 PCM in a WAV container. Other MIME types pass through.
func toWAV(data []byte, mimeType string) *Audio {
	mt, params, err := mime.ParseMediaType(mimeType)
	if err == nil && !strings.EqualFold(mt, "audio/L16") && !strings.HasPrefix(strings.ToLower(mt), "audio/pcm") {
		return &Audio{Data: data, MIME: mt}
	}
	rate := geminiSampleRate
	if r, err := strconv.Atoi(params["rate"]); err == nil && r > 0 {
		rate = r
	}
	return &Audio{Data: wavHeader(len(data), rate, 1, 16, data), MIME: "audio/wav"}
}

func wavHeader(size, rate, channels, bits int, pcm []byte) []byte {
	var b bytes.Buffer
	blockAlign := channels * bits / 8
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+size))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(bits))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(size))
	b.Write(pcm)
	return b.Bytes()
}
