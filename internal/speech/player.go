package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Speaker synthesizes text and plays it with a local audio player.
type Speaker struct {
	synth  Synthesizer
	player []string
}

// NewSpeaker creates a Speaker. player is an argv where "{file}" is
// replaced by the path of the clip; an empty player disables playback.
func NewSpeaker(synth Synthesizer, player []string) *Speaker {
	return &Speaker{synth: synth, player: player}
}

// Speak synthesizes text and blocks until playback finishes. It returns
// false when nothing could be synthesized.
func (s *Speaker) Speak(ctx context.Context, text, lang string) (bool, error) {
	audio, err := s.synth.Synthesize(ctx, text, lang)
	if err != nil || audio == nil {
		return false, err
	}
	return true, Play(ctx, audio, s.player)
}

// Play writes audio to a temporary file and runs the player on it.
func Play(ctx context.Context, audio *Audio, player []string) error {
	if len(player) == 0 || player[0] == "" {
		return errors.New("no audio player configured")
	}
	f, err := os.CreateTemp("", "kidtimer-*"+extension(audio.MIME))
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}

	args := make([]string, len(player)-1)
	for i, a := range player[1:] {
		args[i] = strings.ReplaceAll(a, "{file}", f.Name())
	}
	if out, err := exec.CommandContext(ctx, player[0], args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", player[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func extension(mime string) string {
	switch mime {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	}
	return ".bin"
}
