package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"framelabel/internal/labelfilter"
	"framelabel/internal/labelstore"
	"framelabel/internal/logging"
)

func main() {
	app := &cli.Command{
		Name:      "framelabel-filter",
		Usage:     "Select labelled frames by the categories they must, must not, or may carry",
		ArgsUsage: "LABELS.json [LABELS.json...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "must-have", Usage: "Labels every selected frame carries"},
			&cli.BoolFlag{Name: "must-have-one-of", Usage: "Require any one of the must-have labels instead of all"},
			&cli.StringSliceFlag{Name: "must-not-have", Usage: "Labels no selected frame carries"},
			&cli.StringSliceFlag{Name: "can-have", Usage: "Labels selected frames may carry"},
			&cli.StringFlag{
				Name:  "unspecified",
				Usage: "Policy for labels in no list: error, can-have, must-have or must-not-have",
				Value: string(labelfilter.PolicyError),
			},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file for matching labels", Required: true},
			&cli.StringFlag{Name: "rest", Usage: "Output file for labels that do not match"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return cli.Exit("at least one label file is required", 2)
			}
			policy, err := labelfilter.ParsePolicy(cmd.String("unspecified"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			logger, err := logging.NewConsole(cmd.String("log-level"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer func() { _ = logger.Sync() }()

			rows, labels, err := labelfilter.Merge(logger, cmd.Args().Slice()...)
			if err != nil {
				return err
			}
			matching, rest, err := labelfilter.Filter(logger, rows, labels, labelfilter.Criteria{
				MustHave:      cmd.StringSlice("must-have"),
				MustNotHave:   cmd.StringSlice("must-not-have"),
				CanHave:       cmd.StringSlice("can-have"),
				MustHaveOneOf: cmd.Bool("must-have-one-of"),
				Unspecified:   policy,
			})
			if err != nil {
				return err
			}
			logger.Info("filtered labels",
				zap.Int("rows", len(rows)),
				zap.Int("matching", len(matching)),
				zap.Int("rest", len(rest)))

			if err := writeFile(cmd.String("out"), matching, labels); err != nil {
				return err
			}
			if path := cmd.String("rest"); path != "" {
				return writeFile(path, rest, labels)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func writeFile(path string, rows []labelstore.Entry, labels []string) error {
	if rows == nil {
		rows = []labelstore.Entry{}
	}
	b, err := json.Marshal(labelstore.File{Annotations: rows, Labels: labels})
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
