package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ANNOTATIONS_JSON", "annotations.json")
	t.Setenv("FRAME_INFO_CSV", "frames.csv")
	t.Setenv("CLASS_LIST", "classes.txt")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "frames", cfg.FramesRoot)
	require.Equal(t, 10.0, cfg.FrameRate)
	require.False(t, cfg.DropEmptyVideos)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FRAME_RATE", "2.5")
	t.Setenv("DROP_EMPTY_VIDEOS", "true")
	t.Setenv("EXTRA_FIELDS", "notes,confidence")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2.5, cfg.FrameRate)
	require.True(t, cfg.DropEmptyVideos)
	require.Equal(t, []string{"notes", "confidence"}, cfg.ExtraFields)
}

func TestLoadRejectsInvalid(t *testing.T) {
	setRequired(t)
	t.Setenv("FRAME_RATE", "0")
	_, err := Load()
	require.Error(t, err)
}
