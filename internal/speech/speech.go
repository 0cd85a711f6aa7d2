// Package speech turns mentor advice into audio. Synthesizers are tried in
// order and the chain gives up silently when none of them can speak.
package speech

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abhisek/kidtimer/internal/logger"
)

// ErrEmptyText is returned for blank input.
var ErrEmptyText = errors.New("speech: empty text")

// Audio is a synthesized clip.
type Audio struct {
	Data []byte
	MIME string // e.g. "audio/mpeg", "audio/wav"
}

// Synthesizer converts text in lang (a UI language code) into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (*Audio, error)
	Name() string
}

// Fallback tries each synthesizer in order.
type Fallback struct {
	synths  []Synthesizer
	timeout time.Duration
}

// NewFallback creates a chain. timeout bounds each attempt; zero means
// no per-attempt limit beyond ctx.
func NewFallback(timeout time.Duration, synths ...Synthesizer) *Fallback {
	return &Fallback{synths: synths, timeout: timeout}
}

// Names lists the chain's synthesizers in order.
func (f *Fallback) Names() []string {
	names := make([]string, len(f.synths))
	for i, s := range f.synths {
		names[i] = s.Name()
	}
	return names
}

// Synthesize returns the first successful clip. When every synthesizer
// fails it returns nil audio and a nil error.
func (f *Fallback) Synthesize(ctx context.Context, text, lang string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	for _, s := range f.synths {
		audio, err := f.attempt(ctx, s, text, lang)
		if err == nil && audio != nil && len(audio.Data) > 0 {
			logger.Debug("speech: synthesized", "provider", s.Name(), "bytes", len(audio.Data), "mime", audio.MIME)
			return audio, nil
		}
		if err == nil {
			err = errors.New("no audio returned")
		}
		logger.Warn("speech: synthesizer failed", "provider", s.Name(), "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, nil
}

// Name implements Synthesizer so chains can nest.
func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) attempt(ctx context.Context, s Synthesizer, text, lang string) (*Audio, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	return s.Synthesize(ctx, text, lang)
}
