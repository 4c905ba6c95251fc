package sampler

import (
	"fmt"

	"go.uber.org/zap"

	"framelabel/internal/annotation"
	"framelabel/internal/interval"
)

// BalancedRequest parameterizes SampleBalanced.
type BalancedRequest struct {
	// SamplesPerCategory applies to every category when CategoryQuota is nil.
	SamplesPerCategory int `json:"samples_per_category" example:"5"`
	// CategoryQuota, when set, lists the only categories to sample and how many each.
	CategoryQuota map[string]int `json:"category_quota,omitempty"`
	NumBackground int            `json:"num_background" example:"10"`
	// Seed reseeds the loader's stream before sampling. Without it the
	// stream continues from its current state.
	Seed        *uint64 `json:"seed,omitempty" example:"42"`
	PreContext  int     `json:"pre_context" example:"2"`
	PostContext int     `json:"post_context" example:"2"`
}

// SampleBalanced draws a fixed number of annotated frames per category plus
// NumBackground unannotated frames, and returns them shuffled.
func (l *Loader) SampleBalanced(req BalancedRequest) ([]FrameSample, error) {
	return l.sampleBalanced(l.stream, req)
}

func (l *Loader) sampleBalanced(stream *Stream, req BalancedRequest) ([]FrameSample, error) {
	if err := validateContext(req.PreContext, req.PostContext); err != nil {
		return nil, err
	}
	if req.NumBackground < 0 {
		return nil, fmt.Errorf("%w: num_background must be non-negative, got %d", ErrInvalidRequest, req.NumBackground)
	}
	quotas, err := l.quotas(req)
	if err != nil {
		return nil, err
	}
	if req.Seed != nil {
		stream.Seed(*req.Seed)
	}

	eligible := l.eligibleByCategory(req.PreContext, req.PostContext)
	var samples []FrameSample
	for _, c := range l.vocab.Categories() {
		want := quotas[c.Name]
		if want == 0 {
			continue
		}
		pool := eligible[c.Name]
		if len(pool) < want {
			return nil, &ShortfallError{Category: c.Name, Wanted: want, Available: len(pool)}
		}
		for _, idx := range stream.Choose(want, len(pool)) {
			a := pool[idx]
			frame := stream.Between(a.StartFrame, a.EndFrame)
			samples = append(samples, l.frameSample(a.VideoID, frame, req.PreContext, req.PostContext))
		}
	}

	background, err := l.sampleBackground(stream, req.NumBackground, req.PreContext, req.PostContext)
	if err != nil {
		return nil, err
	}
	samples = append(samples, background...)
	l.shuffle(stream, samples)

	l.log.Debug("balanced sample",
		zap.Int("samples", len(samples)),
		zap.Int("background", len(background)),
		zap.Int("pre_context", req.PreContext),
		zap.Int("post_context", req.PostContext))
	return samples, nil
}

func (l *Loader) quotas(req BalancedRequest) (map[string]int, error) {
	out := make(map[string]int, l.vocab.Len())
	if req.CategoryQuota == nil {
		if req.SamplesPerCategory < 0 {
			return nil, fmt.Errorf("%w: samples_per_category must be non-negative, got %d", ErrInvalidRequest, req.SamplesPerCategory)
		}
		for _, name := range l.vocab.Names() {
			out[name] = req.SamplesPerCategory
		}
		return out, nil
	}
	for name, n := range req.CategoryQuota {
		if err := l.vocab.Validate(name); err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: quota for %q must be non-negative, got %d", ErrInvalidRequest, name, n)
		}
		out[name] = n
	}
	return out, nil
}

// eligibleByCategory groups the annotations whose whole span has room for the
// context windows inside the video. Empty spans are never eligible.
func (l *Loader) eligibleByCategory(pre, post int) map[string][]annotation.Annotation {
	out := make(map[string][]annotation.Annotation)
	for _, videoID := range l.videoIDs {
		frameCount := l.videos[videoID].FrameCount
		for _, a := range l.annotations[videoID] {
			if a.Empty() || a.StartFrame-pre < 0 || a.EndFrame+post >= frameCount {
				continue
			}
			out[a.Category] = append(out[a.Category], a)
		}
	}
	return out
}

type backgroundSlot struct {
	videoID string
	iv      interval.Interval
}

func (l *Loader) sampleBackground(stream *Stream, n, pre, post int) ([]FrameSample, error) {
	if n == 0 {
		return nil, nil
	}
	var slots []backgroundSlot
	for _, videoID := range l.videoIDs {
		trimmed := l.background[videoID].Trim(pre, post, l.videos[videoID].FrameCount)
		for _, iv := range trimmed.Intervals() {
			slots = append(slots, backgroundSlot{videoID: videoID, iv: iv})
		}
	}
	if len(slots) < n {
		return nil, &ShortfallError{Background: true, Wanted: n, Available: len(slots)}
	}
	out := make([]FrameSample, 0, n)
	for _, idx := range stream.Choose(n, len(slots)) {
		slot := slots[idx]
		frame := stream.Between(slot.iv.Start, slot.iv.End-1)
		out = append(out, l.frameSample(slot.videoID, frame, pre, post))
	}
	return out, nil
}
