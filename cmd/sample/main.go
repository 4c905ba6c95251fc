package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"framelabel/internal/annotation"
	"framelabel/internal/logging"
	"framelabel/internal/sampler"
	"framelabel/internal/vocab"
)

// output is one sampled frame as written by this tool.
type output struct {
	sampler.FrameSample
	Path        string   `json:"path,omitempty"`
	ContextPath []string `json:"context_paths,omitempty"`
}

func main() {
	common := []cli.Flag{
		&cli.StringFlag{Name: "annotations", Usage: "Annotation JSON keyed by video", Required: true},
		&cli.StringFlag{Name: "frame-info", Usage: "CSV of video,fps,num_frames", Required: true},
		&cli.StringFlag{Name: "class-list", Usage: "Class list with one \"<id> <name>\" per line", Required: true},
		&cli.Float64Flag{Name: "frame-rate", Aliases: []string{"r"}, Usage: "Target frame rate", Value: 10},
		&cli.BoolFlag{Name: "drop-empty", Usage: "Drop videos without annotations"},
		&cli.Uint64Flag{Name: "seed", Usage: "Seed for the sampling stream"},
		&cli.IntFlag{Name: "pre", Usage: "Frames of context before each sample"},
		&cli.IntFlag{Name: "post", Usage: "Frames of context after each sample"},
		&cli.StringFlag{Name: "frames-root", Usage: "Add frame file paths under this directory"},
		&cli.StringFlag{Name: "pattern", Usage: "Frame file name pattern", Value: sampler.DefaultFramePattern},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
		&cli.StringFlag{Name: "log-level", Value: "info"},
	}

	app := &cli.Command{
		Name:  "framelabel-sample",
		Usage: "Sample frames from an annotated video corpus",
		Commands: []*cli.Command{
			{
				Name:  "balanced",
				Usage: "Fixed number of frames per category plus background frames",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "per-category", Aliases: []string{"n"}, Usage: "Samples per category", Value: 1},
					&cli.StringSliceFlag{Name: "quota", Usage: "Per-category quota as name=count; only listed categories are sampled"},
					&cli.IntFlag{Name: "background", Aliases: []string{"b"}, Usage: "Number of background samples"},
				}, common...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					quota, err := parseQuota(cmd.StringSlice("quota"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					seed := cmd.Uint64("seed")
					req := sampler.BalancedRequest{
						SamplesPerCategory: cmd.Int("per-category"),
						CategoryQuota:      quota,
						NumBackground:      cmd.Int("background"),
						Seed:               &seed,
						PreContext:         cmd.Int("pre"),
						PostContext:        cmd.Int("post"),
					}
					return run(ctx, cmd, func(l *sampler.Loader) ([]sampler.FrameSample, error) {
						return l.SampleBalanced(req)
					})
				},
			},
			{
				Name:  "random",
				Usage: "Uniform frames until the total and per-category minimum are met",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "num", Aliases: []string{"n"}, Usage: "Minimum number of samples", Value: 1},
					&cli.IntFlag{Name: "min-per-category", Usage: "Minimum samples carrying each category"},
				}, common...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					seed := cmd.Uint64("seed")
					req := sampler.RandomRequest{
						NumSamples:            cmd.Int("num"),
						MinSamplesPerCategory: cmd.Int("min-per-category"),
						Seed:                  &seed,
						PreContext:            cmd.Int("pre"),
						PostContext:           cmd.Int("post"),
					}
					return run(ctx, cmd, func(l *sampler.Loader) ([]sampler.FrameSample, error) {
						return l.SampleRandom(ctx, req)
					})
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseQuota(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		name, count, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("quota %q: want name=count", p)
		}
		n, err := strconv.Atoi(count)
		if err != nil {
			return nil, fmt.Errorf("quota %q: %w", p, err)
		}
		out[name] = n
	}
	return out, nil
}

func run(ctx context.Context, cmd *cli.Command, sample func(*sampler.Loader) ([]sampler.FrameSample, error)) error {
	logger, err := logging.NewConsole(cmd.String("log-level"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer func() { _ = logger.Sync() }()

	labels, err := vocab.LoadFile(cmd.String("class-list"))
	if err != nil {
		return err
	}
	raw, err := annotation.LoadJSONFile(cmd.String("annotations"))
	if err != nil {
		return err
	}
	frames, err := annotation.LoadFrameInfoFile(cmd.String("frame-info"))
	if err != nil {
		return err
	}
	loader, err := sampler.New(raw, frames, labels, sampler.Options{
		FrameRate:       cmd.Float64("frame-rate"),
		DropEmptyVideos: cmd.Bool("drop-empty"),
		Seed:            cmd.Uint64("seed"),
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	samples, err := sample(loader)
	if err != nil {
		return err
	}
	logger.Info("sampled frames", zap.Int("count", len(samples)))

	var locator sampler.FrameLocator
	if root := cmd.String("frames-root"); root != "" {
		locator = sampler.DirLocator{Root: root, Pattern: cmd.String("pattern")}
	}
	out := make([]output, len(samples))
	for i, s := range samples {
		out[i] = output{FrameSample: s}
		if locator == nil {
			continue
		}
		out[i].Path = locator.Locate(s.VideoID, s.Frame)
		for _, f := range append(append([]int{}, s.PreContext...), s.PostContext...) {
			out[i].ContextPath = append(out[i].ContextPath, locator.Locate(s.VideoID, f))
		}
	}

	var w io.Writer = os.Stdout
	if path := cmd.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
