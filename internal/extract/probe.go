package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"framelabel/internal/annotation"
)

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeFrameInfo reads the native frame rate and frame count of a video with ffprobe.
func ProbeFrameInfo(inputPath string) (annotation.RawFrameInfo, error) {
	out, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return annotation.RawFrameInfo{}, fmt.Errorf("probe %s: %w", inputPath, err)
	}
	return parseProbe([]byte(out))
}

func parseProbe(b []byte) (annotation.RawFrameInfo, error) {
	var p probeOutput
	if err := json.Unmarshal(b, &p); err != nil {
		return annotation.RawFrameInfo{}, fmt.Errorf("decode probe output: %w", err)
	}
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		fps, err := parseRate(s.AvgFrameRate)
		if err != nil || fps <= 0 {
			fps, err = parseRate(s.RFrameRate)
		}
		if err != nil {
			return annotation.RawFrameInfo{}, err
		}
		if fps <= 0 {
			return annotation.RawFrameInfo{}, fmt.Errorf("video stream has no frame rate")
		}
		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			return annotation.RawFrameInfo{FrameRate: fps, FrameCount: n}, nil
		}
		duration := s.Duration
		if duration == "" {
			duration = p.Format.Duration
		}
		secs, err := strconv.ParseFloat(duration, 64)
		if err != nil {
			return annotation.RawFrameInfo{}, fmt.Errorf("video stream has neither nb_frames nor duration")
		}
		return annotation.RawFrameInfo{FrameRate: fps, FrameCount: int(math.Floor(secs * fps))}, nil
	}
	return annotation.RawFrameInfo{}, fmt.Errorf("no video stream")
}

// parseRate parses ffprobe rationals such as "30000/1001".
func parseRate(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}
