// Package extract decodes videos into per-frame images at the target frame rate
// and probes native frame counts for the frame-info registry.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultPattern matches sampler.DefaultFramePattern.
const DefaultPattern = "frame_%05d.jpg"

type Config struct {
	FrameRate float64 `json:"frame_rate"`
	FrameSize [2]int  `json:"frame_size"`
	// Pattern is the printf-style file name of each frame, numbered from 0.
	Pattern string `json:"pattern"`
}

// VideoID derives the id frames are stored under from a video path.
func VideoID(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (cfg Config) stream(inputPath, videoDir string) *ffmpeg.Stream {
	fpsStr := strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64)
	w, h := cfg.FrameSize[0], cfg.FrameSize[1]
	if w <= 0 {
		w = 384
	}
	if h <= 0 {
		h = w
	}
	scaleStr := fmt.Sprintf("%d:%d", w, h)
	// Fit inside the target box, then pad to it
	padStr := fmt.Sprintf("%d:%d:(%d-iw)/2:(%d-ih)/2", w, h, w, h)
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	return ffmpeg.
		Input(inputPath).
		Filter("fps", ffmpeg.Args{fpsStr}).
		Filter("scale", ffmpeg.Args{scaleStr}, ffmpeg.KwArgs{"force_original_aspect_ratio": "decrease"}).
		Filter("pad", ffmpeg.Args{padStr}, ffmpeg.KwArgs{"color": "black"}).
		// Frame files are numbered like sampler frame indices
		Output(filepath.Join(videoDir, pattern), ffmpeg.KwArgs{"qscale:v": 1, "start_number": 0}).
		OverWriteOutput()
}

// ExtractFramesForVideo writes <framesRoot>/<video id>/<pattern> for every frame
// at cfg.FrameRate. Cancelling ctx kills ffmpeg.
func ExtractFramesForVideo(ctx context.Context, inputPath, framesRoot string, cfg Config) error {
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be greater than zero, got %v", cfg.FrameRate)
	}
	videoDir := filepath.Join(framesRoot, VideoID(inputPath))
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		return fmt.Errorf("create frames dir: %w", err)
	}

	cmd := cfg.stream(inputPath, videoDir).Compile()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return nil
	}
}

// CountFrames counts files in dir whose names carry the pattern's prefix and extension.
func CountFrames(dir, pattern string) (int, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	prefix := pattern
	if i := strings.Index(pattern, "%"); i >= 0 {
		prefix = pattern[:i]
	}
	ext := filepath.Ext(pattern)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			count++
		}
	}
	return count, nil
}

// IsVideoFile reports whether name has a container extension ffmpeg can decode.
func IsVideoFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mov", ".mkv", ".avi", ".m4v", ".webm":
		return true
	default:
		return false
	}
}
