package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// handleGenerateAudio synthesizes speech for arbitrary text. One
// request owns one freshly named artifact file for its whole lifetime;
// the deferred cleanup removes it on every exit path.
func (s *Server) handleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req generateAudioReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No text provided"})
		return
	}

	username, _ := UserFromContext(r.Context())
	s.log.Info("generating audio", "user", username, "chars", len(req.Text))

	path := filepath.Join(s.mediaDir, uuid.NewString()+".wav")
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	defer func() {
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				s.log.Error("remove audio artifact", "path", path, "err", err)
			}
		}
	}()

	// A client disconnect must not interrupt an in-progress synthesis,
	// so the request's cancellation is detached here.
	data, err := s.synth.Synthesize(context.WithoutCancel(r.Context()), req.Text, path)
	if err != nil {
		s.log.Error("TTS generation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Audio file could not be generated.",
		})
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
