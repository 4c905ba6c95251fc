// Package sampler selects representative frames from temporally annotated
// videos, either balanced per category or by rejection sampling until every
// category reaches a minimum count.
package sampler

import (
	"fmt"

	"go.uber.org/zap"

	"framelabel/internal/annotation"
	"framelabel/internal/interval"
	"framelabel/internal/vocab"
)

// FrameSample is one selected frame with its temporal context and ground truth.
type FrameSample struct {
	VideoID     string   `json:"video_id" example:"video_validation_0000051"`
	Frame       int      `json:"frame" example:"42"`
	PreContext  []int    `json:"pre_context" swaggertype:"array,integer" example:"40,41"`
	PostContext []int    `json:"post_context" swaggertype:"array,integer" example:"43,44"`
	Labels      []string `json:"labels" example:"BaseballPitch"`
}

// Options configures New.
type Options struct {
	// FrameRate is the target rate annotations and frame counts are rescaled to.
	FrameRate float64
	// DropEmptyVideos removes videos left without annotations after
	// unknown categories are discarded.
	DropEmptyVideos bool
	// Seed initializes the loader's stream.
	Seed   uint64
	Logger *zap.Logger
}

// Loader holds the rescaled annotations, frame counts and background index of
// a corpus. It is built once and only read afterwards, except for its Stream.
type Loader struct {
	frameRate   float64
	vocab       vocab.Vocabulary
	annotations map[string][]annotation.Annotation
	videos      map[string]annotation.VideoInfo
	videoIDs    []string
	background  map[string]interval.Set
	stream      *Stream
	log         *zap.Logger
}

// New rescales raw annotations and frame counts to opts.FrameRate and builds the
// background index. Only videos present in both sources are kept.
func New(raw map[string][]annotation.RawAnnotation, frames map[string]annotation.RawFrameInfo, v vocab.Vocabulary, opts Options) (*Loader, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if v.Len() == 0 {
		return nil, fmt.Errorf("empty label vocabulary")
	}

	rescaled, err := annotation.Rescale(raw, opts.FrameRate, v)
	if err != nil {
		return nil, fmt.Errorf("rescale annotations: %w", err)
	}
	for category, n := range rescaled.Dropped {
		log.Warn("dropped annotations with unknown category",
			zap.String("category", category), zap.Int("count", n))
	}
	infos, err := annotation.RescaleFrameInfo(frames, opts.FrameRate)
	if err != nil {
		return nil, fmt.Errorf("rescale frame info: %w", err)
	}

	l := &Loader{
		frameRate:   opts.FrameRate,
		vocab:       v,
		annotations: make(map[string][]annotation.Annotation),
		videos:      make(map[string]annotation.VideoInfo),
		stream:      NewStream(opts.Seed),
		log:         log,
	}
	for videoID, list := range rescaled.Annotations {
		info, ok := infos[videoID]
		if !ok {
			log.Debug("dropped video without frame info", zap.String("video", videoID))
			continue
		}
		if opts.DropEmptyVideos && len(list) == 0 {
			log.Debug("dropped video without annotations", zap.String("video", videoID))
			continue
		}
		l.annotations[videoID] = list
		l.videos[videoID] = info
	}
	if missing := len(infos) - len(l.videos); missing > 0 {
		log.Info("videos dropped during load", zap.Int("count", missing), zap.Int("kept", len(l.videos)))
	}
	l.videoIDs = annotation.VideoIDs(l.videos)
	l.background = BuildBackground(l.annotations, l.videos)

	log.Info("loaded corpus",
		zap.Int("videos", len(l.videos)),
		zap.Int("categories", v.Len()),
		zap.Float64("frame_rate", opts.FrameRate))
	return l, nil
}

// BuildBackground returns, per video, [0, FrameCount) minus every annotation span.
func BuildBackground(annotations map[string][]annotation.Annotation, videos map[string]annotation.VideoInfo) map[string]interval.Set {
	out := make(map[string]interval.Set, len(videos))
	for videoID, info := range videos {
		set := interval.Span(0, info.FrameCount)
		for _, a := range annotations[videoID] {
			set = set.Chop(a.StartFrame, a.EndFrame+1)
		}
		out[videoID] = set
	}
	return out
}

// Labels returns the active vocabulary.
func (l *Loader) Labels() vocab.Vocabulary { return l.vocab }

// FrameRate is the target frame rate every index refers to.
func (l *Loader) FrameRate() float64 { return l.frameRate }

// Stream returns the loader's random stream.
func (l *Loader) Stream() *Stream { return l.stream }

// Videos lists the surviving videos ordered by id.
func (l *Loader) Videos() []annotation.VideoInfo {
	out := make([]annotation.VideoInfo, len(l.videoIDs))
	for i, id := range l.videoIDs {
		out[i] = l.videos[id]
	}
	return out
}

// Video returns the frame info of one video.
func (l *Loader) Video(videoID string) (annotation.VideoInfo, bool) {
	info, ok := l.videos[videoID]
	return info, ok
}

// Annotations returns a copy of a video's annotations.
func (l *Loader) Annotations(videoID string) []annotation.Annotation {
	list := l.annotations[videoID]
	out := make([]annotation.Annotation, len(list))
	copy(out, list)
	return out
}

// Background returns the background intervals of a video.
func (l *Loader) Background(videoID string) (interval.Set, bool) {
	set, ok := l.background[videoID]
	return set.Clone(), ok
}

// LabelsAt returns the distinct categories whose span covers frame, ordered by id.
func (l *Loader) LabelsAt(videoID string, frame int) []string {
	seen := make(map[string]struct{})
	labels := []string{}
	for _, a := range l.annotations[videoID] {
		if !a.Covers(frame) {
			continue
		}
		if _, dup := seen[a.Category]; dup {
			continue
		}
		seen[a.Category] = struct{}{}
		labels = append(labels, a.Category)
	}
	l.vocab.SortByID(labels)
	return labels
}

func (l *Loader) frameSample(videoID string, frame, pre, post int) FrameSample {
	s := FrameSample{
		VideoID:     videoID,
		Frame:       frame,
		PreContext:  make([]int, pre),
		PostContext: make([]int, post),
		Labels:      l.LabelsAt(videoID, frame),
	}
	for i := range pre {
		s.PreContext[i] = frame - pre + i
	}
	for i := range post {
		s.PostContext[i] = frame + i + 1
	}
	return s
}

func (l *Loader) shuffle(stream *Stream, samples []FrameSample) {
	stream.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })
}

func validateContext(pre, post int) error {
	if pre < 0 {
		return fmt.Errorf("%w: pre_context must be non-negative, got %d", ErrInvalidRequest, pre)
	}
	if post < 0 {
		return fmt.Errorf("%w: post_context must be non-negative, got %d", ErrInvalidRequest, post)
	}
	return nil
}
