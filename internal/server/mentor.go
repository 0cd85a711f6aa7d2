package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abhisek/kidtimer/internal/goals"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/speech"
	"github.com/abhisek/kidtimer/internal/store"
)

const maxBackupBytes = 32 << 20

type mentorResponse struct {
	mentor.Advice
	DaysLeft int              `json:"days_left"`
	Progress []goals.Progress `json:"progress"`
}

func (s *Server) handleMentor(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Language string `json:"language"`
	}
	if err := decode(w, r, &in, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	if in.Language == "" {
		settings, err := s.tracker.Settings(r.Context(), userFrom(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		in.Language = settings.Language
	}

	report, err := s.weekly(r, 0)
	if err != nil {
		fail(w, r, err)
		return
	}
	adv := s.mentor.Advise(r.Context(), mentor.InputFromReport(report, s.tracker.Now(), in.Language))
	writeJSON(w, http.StatusOK, mentorResponse{
		Advice:   adv,
		DaysLeft: report.DaysLeft,
		Progress: nonNil(report.Goals),
	})
}

// handleSpeech answers 204 when voice is disabled or nothing could speak.
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
		Lang string `json:"lang"`
	}
	if err := decode(w, r, &in, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	settings, err := s.tracker.Settings(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	if !settings.VoiceEnabled || s.speech == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if in.Lang == "" {
		in.Lang = settings.Language
	}

	audio, err := s.speech.Synthesize(r.Context(), in.Text, in.Lang)
	switch {
	case errors.Is(err, speech.ErrEmptyText):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		fail(w, r, err)
		return
	case audio == nil:
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", audio.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(audio.Data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.tracker.Export(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="kidtimer-backup.json"`)
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var data store.SnapshotData
	if err := decodeRequired(w, r, &data, maxBackupBytes); err != nil {
		fail(w, r, err)
		return
	}
	if err := s.tracker.Import(r.Context(), userFrom(r.Context()), &data); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

