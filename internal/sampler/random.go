package sampler

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ctxCheckEvery is how many draws pass between context checks.
const ctxCheckEvery = 4096

// RandomRequest parameterizes SampleRandom.
type RandomRequest struct {
	NumSamples            int     `json:"num_samples" example:"100"`
	MinSamplesPerCategory int     `json:"min_samples_per_category" example:"3"`
	Seed                  *uint64 `json:"seed,omitempty" example:"7"`
	PreContext            int     `json:"pre_context" example:"0"`
	PostContext           int     `json:"post_context" example:"0"`
}

// candidates enumerates every (video, frame) pair with room for context
// without materializing them: index i maps into the video whose range holds it.
type candidates struct {
	videoIDs []string
	offsets  []int // offsets[k] is the first candidate index of videoIDs[k]
	firsts   []int // first frame of videoIDs[k]
	total    int
}

func (c *candidates) at(i int) (string, int) {
	k := sort.Search(len(c.offsets), func(k int) bool { return c.offsets[k] > i }) - 1
	return c.videoIDs[k], c.firsts[k] + i - c.offsets[k]
}

func (l *Loader) candidates(pre, post int) *candidates {
	c := &candidates{}
	for _, videoID := range l.videoIDs {
		lo, hi := pre, l.videos[videoID].FrameCount-post
		if hi <= lo {
			continue
		}
		c.videoIDs = append(c.videoIDs, videoID)
		c.offsets = append(c.offsets, c.total)
		c.firsts = append(c.firsts, lo)
		c.total += hi - lo
	}
	return c
}

// SampleRandom draws distinct frames uniformly from the whole corpus until at
// least NumSamples are accepted and every category is carried by at least
// MinSamplesPerCategory of them. The result is shuffled.
//
// There is no iteration cap: a minimum that the corpus cannot satisfy only
// ends when every candidate has been drawn (ErrPopulationExhausted) or ctx is
// cancelled.
func (l *Loader) SampleRandom(ctx context.Context, req RandomRequest) ([]FrameSample, error) {
	return l.sampleRandom(ctx, l.stream, req)
}

func (l *Loader) sampleRandom(ctx context.Context, stream *Stream, req RandomRequest) ([]FrameSample, error) {
	if err := validateContext(req.PreContext, req.PostContext); err != nil {
		return nil, err
	}
	if req.NumSamples < 0 || req.MinSamplesPerCategory < 0 {
		return nil, fmt.Errorf("%w: num_samples and min_samples_per_category must be non-negative", ErrInvalidRequest)
	}
	if req.Seed != nil {
		stream.Seed(*req.Seed)
	}

	cands := l.candidates(req.PreContext, req.PostContext)
	drawn := make(map[int]struct{})
	counts := make(map[string]int, l.vocab.Len())
	names := l.vocab.Names()
	var samples []FrameSample

	for draws := 0; !covered(len(samples), counts, names, req); draws++ {
		if draws%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("random sample after %d accepted: %w", len(samples), err)
			}
		}
		if len(drawn) == cands.total {
			return nil, fmt.Errorf("%w: drew all %d candidate frames, coverage %v", ErrPopulationExhausted, cands.total, counts)
		}
		idx := stream.IntN(cands.total)
		if _, seen := drawn[idx]; seen {
			continue
		}
		drawn[idx] = struct{}{}

		videoID, frame := cands.at(idx)
		s := l.frameSample(videoID, frame, req.PreContext, req.PostContext)
		for _, label := range s.Labels {
			counts[label]++
		}
		samples = append(samples, s)
	}
	l.shuffle(stream, samples)

	l.log.Debug("random sample",
		zap.Int("samples", len(samples)),
		zap.Int("candidates", cands.total),
		zap.Any("coverage", counts))
	return samples, nil
}

func covered(accepted int, counts map[string]int, names []string, req RandomRequest) bool {
	if accepted < req.NumSamples {
		return false
	}
	for _, name := range names {
		if counts[name] < req.MinSamplesPerCategory {
			return false
		}
	}
	return true
}
