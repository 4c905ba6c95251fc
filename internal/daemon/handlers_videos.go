package daemon

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleVideos godoc
// @Summary List videos
// @Description Lists corpus videos with their frame counts at the target frame rate.
// @Tags videos
// @Produce json
// @Success 200 {array} annotation.VideoInfo
// @Router /videos [get]
func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loader.Videos())
}

// handleGetVideo godoc
// @Summary Get video details
// @Description Returns a video's annotations and background intervals.
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} VideoDetail
// @Failure 404 {object} ErrorResponse
// @Router /videos/{videoID} [get]
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	info, ok := s.loader.Video(videoID)
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	bg, _ := s.loader.Background(videoID)
	writeJSON(w, http.StatusOK, VideoDetail{
		VideoInfo:   info,
		Annotations: s.loader.Annotations(videoID),
		Background:  bg.Intervals(),
	})
}

// handleExtract godoc
// @Summary Start extraction job
// @Description Extracts frames for the video at the target frame rate.
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} StartJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /videos/{videoID}/extract [post]
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	job, err := s.startJob(videoID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		if errors.Is(err, errJobRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StartJobResponse{Status: "started", JobID: job.ID})
}

// handleCancel godoc
// @Summary Cancel extraction job
// @Description Attempts to cancel an active job for the given video.
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /videos/{videoID}/cancel [post]
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if err := s.cancelJob(videoID); err != nil {
		if errors.Is(err, errNotFound) {
			writeError(w, http.StatusNotFound, "video not found or no active job")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "cancelling"})
}
