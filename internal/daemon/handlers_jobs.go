package daemon

import (
	"net/http"
	"sort"
)

// handleJobs godoc
// @Summary List jobs
// @Description Returns frame extraction jobs with progress, newest first.
// @Tags jobs
// @Produce json
// @Param video query string false "Only jobs for this video"
// @Success 200 {array} Job
// @Router /jobs [get]
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	video := r.URL.Query().Get("video")
	s.mu.RLock()
	list := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if video != "" && j.VideoID != video {
			continue
		}
		list = append(list, *j)
	}
	s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	writeJSON(w, http.StatusOK, list)
}
