package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"framelabel/internal/extract"
	"framelabel/internal/logging"
	"framelabel/internal/sampler"
)

func main() {
	app := &cli.Command{
		Name:  "framelabel-extract",
		Usage: "Extract frames for every video in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "video-dir",
				Aliases: []string{"i"},
				Usage:   "Directory containing source videos",
				Value:   "videos",
			},
			&cli.StringFlag{
				Name:    "frames-dir",
				Aliases: []string{"o"},
				Usage:   "Directory where extracted frames will be written",
				Value:   "frames",
			},
			&cli.Float64Flag{
				Name:    "frame-rate",
				Aliases: []string{"r"},
				Usage:   "Target frame rate in frames per second",
				Value:   10,
			},
			&cli.IntFlag{
				Name:  "frame-width",
				Usage: "Output frame width in pixels",
				Value: 384,
			},
			&cli.IntFlag{
				Name:  "frame-height",
				Usage: "Output frame height in pixels",
				Value: 384,
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "File name pattern of each frame, numbered from 0",
				Value: sampler.DefaultFramePattern,
			},
			&cli.StringFlag{
				Name:  "frame-info",
				Usage: "Write native frame rate and count of every video to this CSV",
			},
			&cli.BoolFlag{
				Name:  "probe-only",
				Usage: "Only write the frame-info CSV, do not extract frames",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			frameRate := cmd.Float64("frame-rate")
			if frameRate <= 0 {
				return cli.Exit("frame-rate must be greater than zero", 2)
			}

			frameWidth := cmd.Int("frame-width")
			if frameWidth <= 0 {
				return cli.Exit("frame-width must be greater than zero", 2)
			}

			frameHeight := cmd.Int("frame-height")
			if frameHeight <= 0 {
				return cli.Exit("frame-height must be greater than zero", 2)
			}
			if cmd.Bool("probe-only") && cmd.String("frame-info") == "" {
				return cli.Exit("probe-only requires frame-info", 2)
			}

			logger, err := logging.NewConsole(cmd.String("log-level"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer func() { _ = logger.Sync() }()

			cfg := extract.Config{
				FrameRate: frameRate,
				FrameSize: [2]int{frameWidth, frameHeight},
				Pattern:   cmd.String("pattern"),
			}
			p := processor{
				videoDir:  cmd.String("video-dir"),
				framesDir: cmd.String("frames-dir"),
				frameInfo: cmd.String("frame-info"),
				probeOnly: cmd.Bool("probe-only"),
				cfg:       cfg,
				log:       logger,
			}
			return p.run(ctx)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type processor struct {
	videoDir  string
	framesDir string
	frameInfo string
	probeOnly bool
	cfg       extract.Config
	log       *zap.Logger
}

func (p processor) run(ctx context.Context) error {
	entries, err := os.ReadDir(p.videoDir)
	if err != nil {
		return fmt.Errorf("read video directory: %w", err)
	}

	var rows [][]string
	var processed int
	for _, entry := range entries {
		if entry.IsDir() || !extract.IsVideoFile(entry.Name()) {
			continue
		}
		inputPath := filepath.Join(p.videoDir, entry.Name())

		if p.frameInfo != "" {
			info, err := extract.ProbeFrameInfo(inputPath)
			if err != nil {
				return fmt.Errorf("probe %s: %w", entry.Name(), err)
			}
			rows = append(rows, []string{
				extract.VideoID(inputPath),
				strconv.FormatFloat(info.FrameRate, 'f', -1, 64),
				strconv.Itoa(info.FrameCount),
			})
		}

		if !p.probeOnly {
			p.log.Info("extracting frames", zap.String("video", inputPath))
			if err := extract.ExtractFramesForVideo(ctx, inputPath, p.framesDir, p.cfg); err != nil {
				return fmt.Errorf("extract frames for %s: %w", entry.Name(), err)
			}
			n, err := extract.CountFrames(filepath.Join(p.framesDir, extract.VideoID(inputPath)), p.cfg.Pattern)
			if err != nil {
				return fmt.Errorf("count frames for %s: %w", entry.Name(), err)
			}
			p.log.Info("extracted frames", zap.String("video", inputPath), zap.Int("frames", n))
		}

		processed++
	}

	if processed == 0 {
		return fmt.Errorf("no video files found in %s", p.videoDir)
	}
	if p.frameInfo != "" {
		return writeFrameInfo(p.frameInfo, rows)
	}
	return nil
}

func writeFrameInfo(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame info: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"video", "fps", "num_frames"}); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write frame info: %w", err)
	}
	return f.Close()
}
