package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// espeakVoices maps UI language codes to espeak-ng voice names where they
// differ.
var espeakVoices = map[string]string{
	"zh": "cmn",
	"no": "nb",
}

// CommandSynthesizer runs a local TTS program that reads text on stdin and
// writes WAV to stdout. "{lang}" in the argv is replaced with the voice.
type CommandSynthesizer struct {
	argv []string
}

// NewCommandSynthesizer creates a local command synthesizer.
func NewCommandSynthesizer(argv []string) (*CommandSynthesizer, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("speech command is empty")
	}
	return &CommandSynthesizer{argv: argv}, nil
}

func (s *CommandSynthesizer) Name() string { return "command" }

func (s *CommandSynthesizer) Synthesize(ctx context.Context, text, lang string) (*Audio, error) {
	voice := lang
	if v, ok := espeakVoices[lang]; ok {
		voice = v
	}
	args := make([]string, len(s.argv)-1)
	for i, a := range s.argv[1:] {
		args[i] = strings.ReplaceAll(a, "{lang}", voice)
	}

	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", s.argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", s.argv[0], err)
	}
	return &Audio{Data: stdout.Bytes(), MIME: "audio/wav"}, nil
}
