package speech

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayRunsPlayerOnTempFile(t *testing.T) {
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skip("cp not available")
	}
	dst := filepath.Join(t.TempDir(), "out.wav")

	err := Play(t.Context(), &Audio{Data: []byte("RIFF"), MIME: "audio/wav"}, []string{"cp", "{file}", dst})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(got))
}

func TestPlayFailure(t *testing.T) {
	err := Play(t.Context(), &Audio{Data: []byte("x"), MIME: "audio/mpeg"}, []string{"kidtimer-no-such-player", "{file}"})
	assert.Error(t, err)
}

func TestSpeakerSilentWhenNothingSynthesized(t *testing.T) {
	s := NewSpeaker(NewFallback(0, &fakeSynth{name: "a", audio: nil}), []string{"true"})
	spoke, err := s.Speak(t.Context(), "hi", "en")
	assert.NoError(t, err)
	assert.False(t, spoke)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".mp3", extension("audio/mpeg"))
	assert.Equal(t, ".wav", extension("audio/wav"))
	assert.Equal(t, ".bin", extension("audio/unknown"))
}
