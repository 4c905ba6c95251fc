package daemon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"framelabel/internal/extract"
)

var errJobRunning = errors.New("extraction already running for video")

// findVideoFile returns the file in the video directory named after videoID.
func (s *Server) findVideoFile(videoID string) (string, error) {
	entries, err := os.ReadDir(s.settings.VideoDir)
	if err != nil {
		return "", fmt.Errorf("read video dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !extract.IsVideoFile(entry.Name()) {
			continue
		}
		if extract.VideoID(entry.Name()) == videoID {
			return filepath.Join(s.settings.VideoDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no video file for %s in %s", videoID, s.settings.VideoDir)
}

// startJob schedules frame extraction for a corpus video.
func (s *Server) startJob(videoID string) (*Job, error) {
	info, ok := s.loader.Video(videoID)
	if !ok {
		return nil, errNotFound
	}
	path, err := s.findVideoFile(videoID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, job := range s.jobs {
		if job.VideoID == videoID && (job.Status == "running" || job.Status == "queued") {
			s.mu.Unlock()
			return nil, errJobRunning
		}
	}
	now := time.Now().UTC()
	job := &Job{
		ID:        newID("job_"),
		VideoID:   videoID,
		Type:      "extract_frames",
		Status:    "queued",
		Expected:  info.FrameCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.jobs[job.ID] = job
	s.jobCancel[job.ID] = cancel
	snapshot := *job
	s.mu.Unlock()

	go s.runJob(ctx, job.ID, path)
	return &snapshot, nil
}

// cancelJob stops the active job for a video.
func (s *Server) cancelJob(videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if job.VideoID != videoID || (job.Status != "running" && job.Status != "queued") {
			continue
		}
		if cancel, ok := s.jobCancel[id]; ok {
			cancel()
			delete(s.jobCancel, id)
		}
		return nil
	}
	return errNotFound
}

// runJob runs ffmpeg and polls the frames directory until extraction ends.
func (s *Server) runJob(ctx context.Context, jobID, videoPath string) {
	defer func() {
		s.mu.Lock()
		if cancel, ok := s.jobCancel[jobID]; ok {
			cancel()
			delete(s.jobCancel, jobID)
		}
		s.mu.Unlock()
	}()

	framesDir := filepath.Join(s.settings.FramesRoot, extract.VideoID(videoPath))
	cfg := extract.Config{
		FrameRate: s.settings.FrameRate,
		Pattern:   s.settings.FramePattern,
	}

	s.mu.Lock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = "running"
		job.UpdatedAt = time.Now().UTC()
	}
	s.mu.Unlock()
	s.log.Info("extraction started", zap.String("job", jobID), zap.String("video", videoPath))

	errCh := make(chan error, 1)
	go func() {
		errCh <- extract.ExtractFramesForVideo(ctx, videoPath, s.settings.FramesRoot, cfg)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			switch {
			case errors.Is(err, context.Canceled):
				s.failJob(jobID, errors.New("cancelled"))
			case err != nil:
				s.failJob(jobID, fmt.Errorf("extract frames: %w", err))
			default:
				s.completeJob(jobID, framesDir)
			}
			return
		case <-ticker.C:
			if err := s.refreshJobProgress(jobID, framesDir); err != nil {
				s.log.Warn("monitor frames", zap.String("job", jobID), zap.Error(err))
			}
		}
	}
}

func (s *Server) refreshJobProgress(jobID, framesDir string) error {
	frames, err := extract.CountFrames(framesDir, s.settings.FramePattern)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	job.Frames = frames
	expected := max(job.Expected, 1)
	progress := float64(frames) / float64(expected)
	if progress >= 1 {
		progress = math.Nextafter(1, 0)
	}
	if progress > job.Progress {
		job.Progress = progress
	}
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Server) completeJob(jobID, framesDir string) {
	frames, err := extract.CountFrames(framesDir, s.settings.FramePattern)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("finalize frames: %w", err))
		return
	}
	expected := frames
	s.mu.Lock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = "done"
		job.Progress = 1
		job.Frames = frames
		job.UpdatedAt = time.Now().UTC()
		expected = job.Expected
	}
	s.mu.Unlock()
	if frames != expected {
		s.log.Warn("extracted frame count differs from registry",
			zap.String("job", jobID), zap.Int("frames", frames), zap.Int("expected", expected))
	}
	s.log.Info("extraction finished", zap.String("job", jobID), zap.Int("frames", frames))
}

func (s *Server) failJob(jobID string, err error) {
	msg := err.Error()
	s.mu.Lock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = "failed"
		job.Progress = 0
		job.Error = &msg
		job.UpdatedAt = time.Now().UTC()
	}
	s.mu.Unlock()
	s.log.Error("extraction failed", zap.String("job", jobID), zap.Error(err))
}
