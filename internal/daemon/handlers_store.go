package daemon

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"framelabel/internal/labelstore"
)

// handleGetLabel godoc
// @Summary Get stored label
// @Description Returns the latest label recorded for a sample key.
// @Tags store
// @Produce json
// @Param key path string true "Sample key (video/frame)"
// @Success 200 {object} labelstore.Entry
// @Failure 404 {object} ErrorResponse
// @Router /store/labels/{key} [get]
func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	s.writeEntry(w, s.store.Get, chi.URLParam(r, "*"))
}

// handleGetInitialLabel returns the initial label offered for a key.
func (s *Server) handleGetInitialLabel(w http.ResponseWriter, r *http.Request) {
	s.writeEntry(w, s.store.Initial, chi.URLParam(r, "*"))
}

func (s *Server) writeEntry(w http.ResponseWriter, get func(string) (labelstore.Entry, error), key string) {
	entry, err := get(key)
	if err != nil {
		if errors.Is(err, labelstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no label for key")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleUpdateLabels godoc
// @Summary Submit labels
// @Description Appends labels for sampled keys and persists the store.
// @Tags store
// @Accept json
// @Produce json
// @Param request body LabelUpdateRequest true "Labels keyed by sample key"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /store/labels [post]
func (s *Server) handleUpdateLabels(w http.ResponseWriter, r *http.Request) {
	s.applyUpdates(w, r, s.store.Update)
}

// handleUpdateInitialLabels records initial labels offered in later sessions.
func (s *Server) handleUpdateInitialLabels(w http.ResponseWriter, r *http.Request) {
	s.applyUpdates(w, r, s.store.UpdateInitial)
}

func (s *Server) applyUpdates(w http.ResponseWriter, r *http.Request, apply func(map[string]labelstore.Update) error) {
	var req LabelUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if len(req.Labels) == 0 {
		writeError(w, http.StatusBadRequest, "labels are required")
		return
	}
	updates := make(map[string]labelstore.Update, len(req.Labels))
	for key, u := range req.Labels {
		updates[key] = labelstore.Update{Labels: u.Labels, Extra: u.Extra}
	}
	if err := apply(updates); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleUnlabeled godoc
// @Summary List unlabelled keys
// @Tags store
// @Produce json
// @Param n query int false "Maximum number of keys"
// @Success 200 {object} UnlabeledResponse
// @Failure 400 {object} ErrorResponse
// @Router /store/unlabeled [get]
func (s *Server) handleUnlabeled(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, UnlabeledResponse{Keys: s.store.Unlabeled(n)})
}

// handleProgress godoc
// @Summary Labelling progress
// @Tags store
// @Produce json
// @Success 200 {object} ProgressResponse
// @Router /store/progress [get]
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProgressResponse{
		Completed: s.store.NumCompleted(),
		Total:     s.store.NumTotal(),
	})
}
