package daemon

import (
	"encoding/json"
	"errors"
	"time"

	"framelabel/internal/annotation"
	"framelabel/internal/interval"
	"framelabel/internal/sampler"
)

// Settings is the read-only view of the daemon configuration.
type Settings struct {
	FrameRate       float64 `json:"frame_rate" example:"10"`
	FramesRoot      string  `json:"frames_root" example:"frames"`
	FramePattern    string  `json:"frame_pattern" example:"frame_%05d.jpg"`
	VideoDir        string  `json:"video_dir" example:"videos"`
	DropEmptyVideos bool    `json:"drop_empty_videos" example:"false"`
	LabelsOutput    string  `json:"labels_output" example:"labels.json"`
}

// VideoDetail describes one corpus video.
type VideoDetail struct {
	annotation.VideoInfo
	Annotations []annotation.Annotation `json:"annotations"`
	Background  []interval.Interval     `json:"background"`
}

// Sample is a sampled frame with its label-store key and image URLs.
type Sample struct {
	sampler.FrameSample
	Key         string   `json:"key" example:"video_validation_0000051/42"`
	FrameURL    string   `json:"frame_url" example:"/frames/video_validation_0000051/42"`
	ContextURLs []string `json:"context_urls"`
}

// Batch is the result of one sampling request.
type Batch struct {
	ID        string    `json:"batch_id" example:"bat_abcd1234"`
	Mode      string    `json:"mode" example:"balanced"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	Samples   []Sample  `json:"samples"`
}

// BatchSummary lists a batch without its samples.
type BatchSummary struct {
	ID        string    `json:"batch_id" example:"bat_abcd1234"`
	Mode      string    `json:"mode" example:"random"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	Count     int       `json:"count" example:"40"`
}

// Job represents a frame extraction job.
type Job struct {
	ID        string    `json:"job_id" example:"job_abcd1234"`
	VideoID   string    `json:"video_id" example:"video_validation_0000051"`
	Type      string    `json:"type" example:"extract_frames"`
	Status    string    `json:"status" example:"running"`
	Progress  float64   `json:"progress" example:"0.42"`
	Frames    int       `json:"frames" example:"714"`
	Expected  int       `json:"expected" example:"1700"`
	Error     *string   `json:"error,omitempty" example:"ffmpeg: exit status 1"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-01T12:05:00Z"`
}

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"description of the error"`
}

// HealthResponse describes the health endpoint payload.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}

// StatusResponse is a generic status wrapper.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// StartJobResponse provides the started job ID.
type StartJobResponse struct {
	Status string `json:"status" example:"started"`
	JobID  string `json:"job_id" example:"job_abcd1234"`
}

// LabelUpdateRequest submits labels keyed by sample key. Label ids index the
// store's label list.
type LabelUpdateRequest struct {
	Labels map[string]LabelUpdate `json:"labels"`
}

type LabelUpdate struct {
	Labels []int                      `json:"labels" swaggertype:"array,integer" example:"0,2"`
	Extra  map[string]json.RawMessage `json:"extra,omitempty" swaggertype:"object"`
}

// ProgressResponse reports labelling progress.
type ProgressResponse struct {
	Completed int `json:"completed" example:"12"`
	Total     int `json:"total" example:"40"`
}

// UnlabeledResponse lists keys still waiting for a label.
type UnlabeledResponse struct {
	Keys []string `json:"keys"`
}

var errNotFound = errors.New("not found")
