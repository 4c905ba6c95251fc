package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"framelabel/internal/annotation"
)

func TestVideoID(t *testing.T) {
	require.Equal(t, "video_validation_0000051", VideoID("/data/videos/video_validation_0000051.mp4"))
	require.True(t, IsVideoFile("clip.MKV"))
	require.False(t, IsVideoFile("notes.txt"))
}

func TestStreamArgs(t *testing.T) {
	cfg := Config{FrameRate: 2.5, FrameSize: [2]int{224, 224}}
	args := strings.Join(cfg.stream("in.mp4", "out/in").GetArgs(), " ")
	require.Contains(t, args, "-start_number 0")
	require.Contains(t, args, "fps=2.5")
	require.Contains(t, args, filepath.Join("out/in", DefaultPattern))
}

func TestCountFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame_00000.jpg", "frame_00001.jpg", "thumb.jpg", "frame_00002.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	n, err := CountFrames(dir, "")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = CountFrames(dir, "frame_%05d.png")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = CountFrames(filepath.Join(dir, "missing"), "")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestParseProbe(t *testing.T) {
	testCases := []struct {
		name    string
		json    string
		want    annotation.RawFrameInfo
		wantErr bool
	}{
		{
			name: "nb_frames",
			json: `{"streams": [{"codec_type": "audio"}, {"codec_type": "video", "avg_frame_rate": "30000/1001", "nb_frames": "300"}]}`,
			want: annotation.RawFrameInfo{FrameRate: 30000.0 / 1001.0, FrameCount: 300},
		},
		{
			name: "duration_fallback",
			json: `{"streams": [{"codec_type": "video", "avg_frame_rate": "0/0", "r_frame_rate": "25/1"}], "format": {"duration": "10.5"}}`,
			want: annotation.RawFrameInfo{FrameRate: 25, FrameCount: 262},
		},
		{
			name:    "no_video",
			json:    `{"streams": [{"codec_type": "audio"}]}`,
			wantErr: true,
		},
		{
			name:    "no_duration",
			json:    `{"streams": [{"codec_type": "video", "avg_frame_rate": "25/1"}]}`,
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseProbe([]byte(tc.json))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
