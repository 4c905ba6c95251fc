// Package config reads daemon settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr            string   `env:"FRAMELABEL_ADDR" envDefault:":8080"`
	FramesRoot      string   `env:"FRAMES_ROOT" envDefault:"frames"`
	FramePattern    string   `env:"FRAME_PATTERN" envDefault:"frame_%05d.jpg"`
	VideoDir        string   `env:"VIDEO_DIR" envDefault:"videos"`
	AnnotationsJSON string   `env:"ANNOTATIONS_JSON,required"`
	FrameInfoCSV    string   `env:"FRAME_INFO_CSV,required"`
	ClassList       string   `env:"CLASS_LIST,required"`
	FrameRate       float64  `env:"FRAME_RATE" envDefault:"10"`
	DropEmptyVideos bool     `env:"DROP_EMPTY_VIDEOS" envDefault:"false"`
	LabelsOutput    string   `env:"LABELS_OUTPUT" envDefault:"labels.json"`
	InitialLabels   string   `env:"INITIAL_LABELS"`
	ExtraFields     []string `env:"EXTRA_FIELDS" envSeparator:","`
	StoreSeed       uint64   `env:"STORE_SEED" envDefault:"0"`
	LoaderSeed      uint64   `env:"LOADER_SEED" envDefault:"0"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("FRAME_RATE must be greater than zero, got %v", c.FrameRate)
	}
	return nil
}
