package daemon

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleFrame serves one extracted frame image.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	info, ok := s.loader.Video(videoID)
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	frame, err := strconv.Atoi(chi.URLParam(r, "frame"))
	if err != nil || frame < 0 || frame >= info.FrameCount {
		writeError(w, http.StatusNotFound, "frame out of range")
		return
	}
	http.ServeFile(w, r, s.locator.Locate(videoID, frame))
}
