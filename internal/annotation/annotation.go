// Package annotation loads temporal annotations and per-video frame counts and
// rescales both to a common target frame rate.
package annotation

import (
	"fmt"
	"math"
	"sort"

	"framelabel/internal/vocab"
)

// RawAnnotation is a labelled time span as recorded by the annotation source.
type RawAnnotation struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Category     string  `json:"category"`
}

// Annotation is a labelled span expressed in frames at FrameRate.
// StartFrame > EndFrame is possible for very short spans and marks an empty span.
type Annotation struct {
	VideoID      string  `json:"video_id"`
	StartFrame   int     `json:"start_frame"`
	EndFrame     int     `json:"end_frame"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	FrameRate    float64 `json:"frame_rate"`
	Category     string  `json:"category"`
}

// Empty reports whether rounding left the span without any frame.
func (a Annotation) Empty() bool { return a.StartFrame > a.EndFrame }

// Covers reports whether frame lies in [StartFrame, EndFrame].
func (a Annotation) Covers(frame int) bool {
	return a.StartFrame <= frame && frame <= a.EndFrame
}

// StartFrame converts a start time to the first frame fully inside the span.
func StartFrame(seconds, frameRate float64) int {
	return int(math.Ceil(seconds * frameRate))
}

// EndFrame converts an end time to the last frame inside the span.
func EndFrame(seconds, frameRate float64) int {
	return int(math.Floor(seconds * frameRate))
}

// RescaleResult is the output of Rescale.
type RescaleResult struct {
	// Annotations has an entry for every input video, possibly empty.
	Annotations map[string][]Annotation
	// Dropped counts discarded annotations per unknown category.
	Dropped map[string]int
}

// Rescale converts raw annotations to frames at targetRate, discarding any
// annotation whose category is not in v. Per-video order is preserved.
func Rescale(raw map[string][]RawAnnotation, targetRate float64, v vocab.Vocabulary) (RescaleResult, error) {
	if targetRate <= 0 {
		return RescaleResult{}, fmt.Errorf("target frame rate must be positive, got %v", targetRate)
	}
	res := RescaleResult{
		Annotations: make(map[string][]Annotation, len(raw)),
		Dropped:     make(map[string]int),
	}
	for videoID, list := range raw {
		out := make([]Annotation, 0, len(list))
		for _, r := range list {
			if !v.Contains(r.Category) {
				res.Dropped[r.Category]++
				continue
			}
			out = append(out, Annotation{
				VideoID:      videoID,
				StartFrame:   StartFrame(r.StartSeconds, targetRate),
				EndFrame:     EndFrame(r.EndSeconds, targetRate),
				StartSeconds: r.StartSeconds,
				EndSeconds:   r.EndSeconds,
				FrameRate:    targetRate,
				Category:     r.Category,
			})
		}
		res.Annotations[videoID] = out
	}
	return res, nil
}

// RawFrameInfo is the frame count of a video at its native frame rate.
type RawFrameInfo struct {
	FrameRate  float64
	FrameCount int
}

// VideoInfo is the frame count of a video at the target frame rate.
type VideoInfo struct {
	VideoID    string  `json:"video_id" example:"video_validation_0000051"`
	FrameRate  float64 `json:"frame_rate" example:"10"`
	FrameCount int     `json:"frame_count" example:"1700"`
}

// RescaleFrameInfo converts native frame counts to targetRate, rounding down.
func RescaleFrameInfo(raw map[string]RawFrameInfo, targetRate float64) (map[string]VideoInfo, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("target frame rate must be positive, got %v", targetRate)
	}
	out := make(map[string]VideoInfo, len(raw))
	for videoID, info := range raw {
		if info.FrameRate <= 0 {
			return nil, fmt.Errorf("video %s: source frame rate must be positive, got %v", videoID, info.FrameRate)
		}
		if info.FrameCount < 0 {
			return nil, fmt.Errorf("video %s: negative frame count %d", videoID, info.FrameCount)
		}
		out[videoID] = VideoInfo{
			VideoID:    videoID,
			FrameRate:  targetRate,
			FrameCount: int(math.Floor(float64(info.FrameCount) * targetRate / info.FrameRate)),
		}
	}
	return out, nil
}

// VideoIDs returns the keys of m in sorted order.
func VideoIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
