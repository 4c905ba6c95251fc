package sampler

import (
	"fmt"
	"path/filepath"
)

// DefaultFramePattern names extracted frames; indices start at 0.
const DefaultFramePattern = "frame_%05d.jpg"

// FrameLocator resolves a frame index to where its image can be read from.
type FrameLocator interface {
	Locate(videoID string, frame int) string
}

// DirLocator finds frames laid out as <Root>/<videoID>/<Pattern>.
type DirLocator struct {
	Root    string
	Pattern string
}

func (d DirLocator) Locate(videoID string, frame int) string {
	pattern := d.Pattern
	if pattern == "" {
		pattern = DefaultFramePattern
	}
	return filepath.Join(d.Root, videoID, fmt.Sprintf(pattern, frame))
}
