package annotation

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadJSON decodes annotations keyed by video id:
//
//	{"video_1": [{"start_seconds": 1.2, "end_seconds": 3.4, "category": "Jump"}]}
func LoadJSON(r io.Reader) (map[string][]RawAnnotation, error) {
	var out map[string][]RawAnnotation
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	for videoID, list := range out {
		for i, a := range list {
			if a.EndSeconds < a.StartSeconds {
				return nil, fmt.Errorf("video %s annotation %d: end %v before start %v", videoID, i, a.EndSeconds, a.StartSeconds)
			}
		}
	}
	return out, nil
}

// LoadJSONFile reads annotations from disk.
func LoadJSONFile(path string) (map[string][]RawAnnotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// LoadFrameInfoCSV reads "video,fps,num_frames" rows. A leading header row is skipped.
func LoadFrameInfoCSV(r io.Reader) (map[string]RawFrameInfo, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	out := make(map[string]RawFrameInfo)
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frame info: %w", err)
		}
		fps, ferr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		count, cerr := strconv.Atoi(strings.TrimSpace(rec[2]))
		if row == 0 && (ferr != nil || cerr != nil) {
			continue
		}
		if ferr != nil {
			return nil, fmt.Errorf("frame info row %d: parse fps: %w", row+1, ferr)
		}
		if cerr != nil {
			return nil, fmt.Errorf("frame info row %d: parse frame count: %w", row+1, cerr)
		}
		videoID := strings.TrimSpace(rec[0])
		if _, dup := out[videoID]; dup {
			return nil, fmt.Errorf("frame info row %d: duplicate video %s", row+1, videoID)
		}
		out[videoID] = RawFrameInfo{FrameRate: fps, FrameCount: count}
	}
	return out, nil
}

// LoadFrameInfoFile reads frame info from disk.
func LoadFrameInfoFile(path string) (map[string]RawFrameInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame info: %w", err)
	}
	defer f.Close()
	return LoadFrameInfoCSV(f)
}
