package sampler

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"framelabel/internal/annotation"
	"framelabel/internal/interval"
	"framelabel/internal/vocab"
)

func seed(v uint64) *uint64 { return &v }

func span(start, end float64, category string) annotation.RawAnnotation {
	return annotation.RawAnnotation{StartSeconds: start, EndSeconds: end, Category: category}
}

func newLoader(t *testing.T, raw map[string][]annotation.RawAnnotation, frames map[string]annotation.RawFrameInfo, names ...string) *Loader {
	t.Helper()
	v, err := vocab.New(names...)
	require.NoError(t, err)
	l, err := New(raw, frames, v, Options{FrameRate: 1})
	require.NoError(t, err)
	return l
}

// corpus is recorded at 1 fps so seconds and frame indices coincide.
func corpus(t *testing.T) *Loader {
	return newLoader(t,
		map[string][]annotation.RawAnnotation{
			"v1": {span(10, 30, "A"), span(20, 40, "B"), span(100, 100, "C"), span(150, 160, "A"), span(60, 70, "Z")},
			"v2": {span(5, 15, "B"), span(50, 60, "C"), span(0, 3, "A"), span(80, 90, "A")},
			"v3": {span(40, 49, "C"), span(10, 12, "B")},
		},
		map[string]annotation.RawFrameInfo{
			"v1": {FrameRate: 1, FrameCount: 200},
			"v2": {FrameRate: 1, FrameCount: 120},
			"v3": {FrameRate: 1, FrameCount: 50},
		},
		"A", "B", "C")
}

func expectedLabels(l *Loader, videoID string, frame int) []string {
	set := map[string]bool{}
	for _, a := range l.Annotations(videoID) {
		if a.StartFrame <= frame && frame <= a.EndFrame {
			set[a.Category] = true
		}
	}
	out := []string{}
	for _, c := range l.Labels().Categories() {
		if set[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}

func TestBackgroundIndexSingleAnnotation(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{"V": {span(10, 20, "A")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 100}},
		"A")
	bg, ok := l.Background("V")
	require.True(t, ok)
	require.Equal(t, []interval.Interval{{Start: 0, End: 10}, {Start: 21, End: 100}}, bg.Intervals())
}

func TestBackgroundPartitionsVideo(t *testing.T) {
	l := corpus(t)
	for _, info := range l.Videos() {
		bg, ok := l.Background(info.VideoID)
		require.True(t, ok)

		ivs := bg.Intervals()
		for i := 1; i < len(ivs); i++ {
			require.Less(t, ivs[i-1].End, ivs[i].Start, "intervals must be sorted and disjoint")
		}

		for frame := 0; frame < info.FrameCount; frame++ {
			annotated := len(expectedLabels(l, info.VideoID, frame)) > 0
			require.NotEqual(t, annotated, bg.Contains(frame), "video %s frame %d", info.VideoID, frame)
		}
		require.False(t, bg.Contains(-1))
		require.False(t, bg.Contains(info.FrameCount))
	}
}

func TestNewDropsUnmatchedVideos(t *testing.T) {
	v, err := vocab.New("A")
	require.NoError(t, err)
	raw := map[string][]annotation.RawAnnotation{
		"both":     {span(1, 2, "A")},
		"no_info":  {span(1, 2, "A")},
		"filtered": {span(1, 2, "ghost")},
	}
	frames := map[string]annotation.RawFrameInfo{
		"both":     {FrameRate: 1, FrameCount: 10},
		"filtered": {FrameRate: 1, FrameCount: 10},
		"no_ann":   {FrameRate: 1, FrameCount: 10},
	}

	l, err := New(raw, frames, v, Options{FrameRate: 1})
	require.NoError(t, err)
	require.Equal(t, []annotation.VideoInfo{
		{VideoID: "both", FrameRate: 1, FrameCount: 10},
		{VideoID: "filtered", FrameRate: 1, FrameCount: 10},
	}, l.Videos())

	l, err = New(raw, frames, v, Options{FrameRate: 1, DropEmptyVideos: true})
	require.NoError(t, err)
	require.Equal(t, []annotation.VideoInfo{{VideoID: "both", FrameRate: 1, FrameCount: 10}}, l.Videos())
	_, ok := l.Background("filtered")
	require.False(t, ok)
}

func TestSampleBalancedSingleAnnotation(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{"V": {span(10, 20, "A")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 100}},
		"A")
	samples, err := l.SampleBalanced(BalancedRequest{
		CategoryQuota: map[string]int{"A": 1},
		Seed:          seed(42),
		PreContext:    2,
		PostContext:   2,
	})
	require.NoError(t, err)
	require.Len(t, samples, 1)

	s := samples[0]
	require.Equal(t, "V", s.VideoID)
	require.GreaterOrEqual(t, s.Frame, 10)
	require.LessOrEqual(t, s.Frame, 20)
	require.Equal(t, []string{"A"}, s.Labels)
	require.Equal(t, []int{s.Frame - 2, s.Frame - 1}, s.PreContext)
	require.Equal(t, []int{s.Frame + 1, s.Frame + 2}, s.PostContext)
}

func TestSampleBalancedDeterministic(t *testing.T) {
	req := BalancedRequest{SamplesPerCategory: 2, NumBackground: 4, Seed: seed(7), PreContext: 3, PostContext: 1}

	l := corpus(t)
	first, err := l.SampleBalanced(req)
	require.NoError(t, err)
	second, err := l.SampleBalanced(req)
	require.NoError(t, err)
	require.Equal(t, first, second)

	third, err := corpus(t).SampleBalanced(req)
	require.NoError(t, err)
	require.Equal(t, first, third)
}

func TestSampleBalancedUnseededContinuesStream(t *testing.T) {
	req := BalancedRequest{SamplesPerCategory: 1, NumBackground: 2}
	l := corpus(t)

	l.Stream().Seed(99)
	unseeded, err := l.SampleBalanced(req)
	require.NoError(t, err)

	req.Seed = seed(99)
	seeded, err := l.SampleBalanced(req)
	require.NoError(t, err)
	require.Equal(t, unseeded, seeded)
}

func TestSampleBalancedProperties(t *testing.T) {
	l := corpus(t)
	for s := uint64(0); s < 25; s++ {
		const pre, post = 3, 2
		samples, err := l.SampleBalanced(BalancedRequest{
			SamplesPerCategory: 2,
			NumBackground:      5,
			Seed:               seed(s),
			PreContext:         pre,
			PostContext:        post,
		})
		require.NoError(t, err)
		require.Len(t, samples, 3*2+5)

		counts := map[string]int{}
		background := 0
		for _, fs := range samples {
			info, ok := l.Video(fs.VideoID)
			require.True(t, ok)
			require.Equal(t, expectedLabels(l, fs.VideoID, fs.Frame), fs.Labels)
			require.Len(t, fs.PreContext, pre)
			require.Len(t, fs.PostContext, post)
			for _, f := range append(append([]int{}, fs.PreContext...), fs.PostContext...) {
				require.GreaterOrEqual(t, f, 0)
				require.Less(t, f, info.FrameCount)
			}
			if len(fs.Labels) == 0 {
				background++
			}
			for _, label := range fs.Labels {
				counts[label]++
			}
		}
		require.Equal(t, 5, background)
		for _, name := range []string{"A", "B", "C"} {
			require.GreaterOrEqual(t, counts[name], 2, name)
		}
	}
}

func TestSampleBalancedMultiLabel(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{"V": {span(10, 30, "A"), span(20, 30, "B")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 100}},
		"A", "B")
	samples, err := l.SampleBalanced(BalancedRequest{CategoryQuota: map[string]int{"B": 1}, Seed: seed(1)})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, []string{"A", "B"}, samples[0].Labels)
}

func TestSampleBalancedSingleFrameSpan(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{"V": {span(5, 5, "A")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 10}},
		"A")
	for s := uint64(0); s < 10; s++ {
		samples, err := l.SampleBalanced(BalancedRequest{SamplesPerCategory: 1, Seed: seed(s)})
		require.NoError(t, err)
		require.Len(t, samples, 1)
		require.Equal(t, 5, samples[0].Frame)
	}
}

func TestSampleBalancedSkipsInvertedSpan(t *testing.T) {
	v, err := vocab.New("A")
	require.NoError(t, err)
	l, err := New(
		map[string][]annotation.RawAnnotation{"V": {span(1.001, 1.001, "A")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 10}},
		v, Options{FrameRate: 2})
	require.NoError(t, err)

	a := l.Annotations("V")[0]
	require.Equal(t, 3, a.StartFrame)
	require.Equal(t, 2, a.EndFrame)

	_, err = l.SampleBalanced(BalancedRequest{SamplesPerCategory: 1, Seed: seed(1)})
	var shortfall *ShortfallError
	require.True(t, errors.As(err, &shortfall))
	require.Equal(t, "A", shortfall.Category)
	require.Equal(t, 0, shortfall.Available)

	bg, _ := l.Background("V")
	require.Equal(t, 20, bg.Size())
}

func TestSampleBalancedContextEligibility(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{"V": {span(1, 4, "A"), span(95, 98, "A"), span(40, 50, "A")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 100}},
		"A")

	_, err := l.SampleBalanced(BalancedRequest{SamplesPerCategory: 2, Seed: seed(1), PreContext: 2, PostContext: 2})
	var shortfall *ShortfallError
	require.True(t, errors.As(err, &shortfall))
	require.Equal(t, 2, shortfall.Wanted)
	require.Equal(t, 1, shortfall.Available)
	require.Contains(t, err.Error(), "short by 1")

	samples, err := l.SampleBalanced(BalancedRequest{SamplesPerCategory: 3, Seed: seed(1), PreContext: 1, PostContext: 1})
	require.NoError(t, err)
	require.Len(t, samples, 3)
}

func TestSampleBalancedBackground(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{
			"V": {span(10, 20, "A")},
			"W": {span(0, 49, "A")},
		},
		map[string]annotation.RawFrameInfo{
			"V": {FrameRate: 1, FrameCount: 100},
			"W": {FrameRate: 1, FrameCount: 50},
		},
		"A")
	before, _ := l.Background("V")

	samples, err := l.SampleBalanced(BalancedRequest{NumBackground: 2, Seed: seed(3), PreContext: 5, PostContext: 5})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	for _, s := range samples {
		require.Equal(t, "V", s.VideoID)
		require.Empty(t, s.Labels)
		require.NotNil(t, s.Labels)
		require.True(t, (s.Frame >= 5 && s.Frame < 10) || (s.Frame >= 21 && s.Frame < 95), s.Frame)
	}

	_, err = l.SampleBalanced(BalancedRequest{NumBackground: 3, Seed: seed(3), PreContext: 5, PostContext: 5})
	var shortfall *ShortfallError
	require.True(t, errors.As(err, &shortfall))
	require.True(t, shortfall.Background)
	require.Equal(t, 2, shortfall.Available)

	after, _ := l.Background("V")
	require.Equal(t, before.Intervals(), after.Intervals())
}

func TestSampleBalancedRejectsBadRequests(t *testing.T) {
	l := corpus(t)

	_, err := l.SampleBalanced(BalancedRequest{CategoryQuota: map[string]int{"Z": 1}})
	var unknown *vocab.UnknownCategoryError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "Z", unknown.Category)

	for _, req := range []BalancedRequest{
		{PreContext: -1},
		{PostContext: -1},
		{NumBackground: -1},
		{SamplesPerCategory: -1},
		{CategoryQuota: map[string]int{"A": -1}},
	} {
		_, err := l.SampleBalanced(req)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestSampleRandomCoverage(t *testing.T) {
	l := corpus(t)
	req := RandomRequest{NumSamples: 40, MinSamplesPerCategory: 3, Seed: seed(11), PreContext: 2, PostContext: 2}
	samples, err := l.SampleRandom(context.Background(), req)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(samples), 40)

	counts := map[string]int{}
	seen := map[string]map[int]bool{}
	for _, s := range samples {
		info, _ := l.Video(s.VideoID)
		require.GreaterOrEqual(t, s.Frame, 2)
		require.Less(t, s.Frame, info.FrameCount-2)
		require.Equal(t, expectedLabels(l, s.VideoID, s.Frame), s.Labels)
		if seen[s.VideoID] == nil {
			seen[s.VideoID] = map[int]bool{}
		}
		require.False(t, seen[s.VideoID][s.Frame], "duplicate frame")
		seen[s.VideoID][s.Frame] = true
		for _, label := range s.Labels {
			counts[label]++
		}
	}
	for _, name := range []string{"A", "B", "C"} {
		require.GreaterOrEqual(t, counts[name], 3, name)
	}

	again, err := l.SampleRandom(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, samples, again)
}

func TestSampleRandomExhaustsPopulation(t *testing.T) {
	l := newLoader(t,
		map[string][]annotation.RawAnnotation{"V": {span(2, 3, "A")}},
		map[string]annotation.RawFrameInfo{"V": {FrameRate: 1, FrameCount: 10}},
		"A", "B")

	_, err := l.SampleRandom(context.Background(), RandomRequest{MinSamplesPerCategory: 1, Seed: seed(1)})
	require.ErrorIs(t, err, ErrPopulationExhausted)

	samples, err := l.SampleRandom(context.Background(), RandomRequest{NumSamples: 10, Seed: seed(1)})
	require.NoError(t, err)
	frames := make([]int, 0, len(samples))
	for _, s := range samples {
		frames = append(frames, s.Frame)
	}
	sort.Ints(frames)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, frames)
}

func TestSampleRandomHonoursContext(t *testing.T) {
	l := corpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.SampleRandom(ctx, RandomRequest{NumSamples: 5, Seed: seed(1)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSampleRandomZeroRequest(t *testing.T) {
	samples, err := corpus(t).SampleRandom(context.Background(), RandomRequest{})
	require.NoError(t, err)
	require.Empty(t, samples)
}

func TestDirLocator(t *testing.T) {
	loc := DirLocator{Root: "/frames"}
	require.Equal(t, "/frames/v1/frame_00042.jpg", loc.Locate("v1", 42))
	loc.Pattern = "frame%04d.png"
	require.Equal(t, "/frames/v1/frame0007.png", loc.Locate("v1", 7))
}

func TestAccessors(t *testing.T) {
	l := corpus(t)
	require.Equal(t, 1.0, l.FrameRate())
	require.Equal(t, []string{"A", "B", "C"}, l.Labels().Names())
	require.Len(t, l.Videos(), 3)
	require.Equal(t, "v1", l.Videos()[0].VideoID)

	require.Equal(t, []string{"A", "B"}, l.LabelsAt("v1", 25))
	require.Equal(t, []string{}, l.LabelsAt("v1", 5))
	require.Empty(t, l.Annotations("missing"))

	_, ok := l.Video("missing")
	require.False(t, ok)
}
