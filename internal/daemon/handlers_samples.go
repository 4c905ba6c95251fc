package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"framelabel/internal/sampler"
	"framelabel/internal/vocab"
)

// sampleKey names a frame in the label store.
func sampleKey(videoID string, frame int) string {
	return fmt.Sprintf("%s/%d", videoID, frame)
}

func frameURL(videoID string, frame int) string {
	return fmt.Sprintf("/frames/%s/%d", url.PathEscape(videoID), frame)
}

// handleSampleBalanced godoc
// @Summary Balanced sample
// @Description Draws a fixed number of frames per category plus background frames.
// @Tags samples
// @Accept json
// @Produce json
// @Param request body sampler.BalancedRequest true "Sampling parameters"
// @Success 200 {object} Batch
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /samples/balanced [post]
func (s *Server) handleSampleBalanced(w http.ResponseWriter, r *http.Request) {
	var req sampler.BalancedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	s.sampleMu.Lock()
	samples, err := s.loader.SampleBalanced(req)
	s.sampleMu.Unlock()
	if err != nil {
		s.writeSampleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.saveBatch("balanced", samples))
}

// handleSampleRandom godoc
// @Summary Random sample
// @Description Draws distinct frames uniformly until the total and per-category minimum are met.
// @Description Unreachable minimums run until every candidate is drawn or the request is cancelled.
// @Tags samples
// @Accept json
// @Produce json
// @Param request body sampler.RandomRequest true "Sampling parameters"
// @Success 200 {object} Batch
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /samples/random [post]
func (s *Server) handleSampleRandom(w http.ResponseWriter, r *http.Request) {
	var req sampler.RandomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	s.sampleMu.Lock()
	samples, err := s.loader.SampleRandom(r.Context(), req)
	s.sampleMu.Unlock()
	if err != nil {
		s.writeSampleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.saveBatch("random", samples))
}

func (s *Server) writeSampleError(w http.ResponseWriter, err error) {
	var shortfall *sampler.ShortfallError
	var unknown *vocab.UnknownCategoryError
	switch {
	case errors.As(err, &unknown), errors.Is(err, sampler.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &shortfall), errors.Is(err, sampler.ErrPopulationExhausted):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("sampling failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// saveBatch wraps samples with keys and URLs, registers the keys with the
// label store and remembers the batch.
func (s *Server) saveBatch(mode string, samples []sampler.FrameSample) *Batch {
	batch := &Batch{
		ID:        newID("bat_"),
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
		Samples:   make([]Sample, len(samples)),
	}
	keys := make([]string, len(samples))
	for i, fs := range samples {
		ctx := make([]string, 0, len(fs.PreContext)+len(fs.PostContext))
		for _, f := range fs.PreContext {
			ctx = append(ctx, frameURL(fs.VideoID, f))
		}
		for _, f := range fs.PostContext {
			ctx = append(ctx, frameURL(fs.VideoID, f))
		}
		keys[i] = sampleKey(fs.VideoID, fs.Frame)
		batch.Samples[i] = Sample{
			FrameSample: fs,
			Key:         keys[i],
			FrameURL:    frameURL(fs.VideoID, fs.Frame),
			ContextURLs: ctx,
		}
	}
	s.store.AddKeys(keys...)

	s.mu.Lock()
	s.batches[batch.ID] = batch
	s.batchList = append(s.batchList, batch.ID)
	s.mu.Unlock()

	s.log.Info("sampled batch", zap.String("batch", batch.ID), zap.String("mode", mode), zap.Int("count", len(samples)))
	return batch
}

// handleListBatches godoc
// @Summary List sample batches
// @Tags samples
// @Produce json
// @Success 200 {array} BatchSummary
// @Router /samples [get]
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	list := make([]BatchSummary, 0, len(s.batchList))
	for _, id := range s.batchList {
		b := s.batches[id]
		list = append(list, BatchSummary{ID: b.ID, Mode: b.Mode, CreatedAt: b.CreatedAt, Count: len(b.Samples)})
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, list)
}

// handleGetBatch godoc
// @Summary Get sample batch
// @Tags samples
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} Batch
// @Failure 404 {object} ErrorResponse
// @Router /samples/{batchID} [get]
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	s.mu.RLock()
	batch, ok := s.batches[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}
