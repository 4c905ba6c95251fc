package daemon

import (
	"net/http"
)

// handleHealth godoc
// @Summary Health check
// @Description Returns service health and version.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// handleConfig godoc
// @Summary Get configuration
// @Description Returns the settings the corpus was loaded with.
// @Tags system
// @Produce json
// @Success 200 {object} Settings
// @Router /config [get]
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings)
}

// handleLabels godoc
// @Summary List label vocabulary
// @Description Returns the categories ordered by id.
// @Tags labels
// @Produce json
// @Success 200 {array} vocab.Category
// @Router /labels [get]
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loader.Labels().Categories())
}
