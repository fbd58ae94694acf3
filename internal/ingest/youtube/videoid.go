package youtube

import (
	"fmt"
	"regexp"
)

var videoIDPatterns = []*regexp.Regexp{
	// matches: https://www.youtube.com/watch?v=dQw4w9WgXcQ, ...watch?feature=share&v=dQw4w9WgXcQ
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=)([A-Za-z0-9_-]{11})`),
	// matches: https://youtu.be/dQw4w9WgXcQ
	regexp.MustCompile(`(?:youtu\.be/)([A-Za-z0-9_-]{11})`),
	// matches: https://www.youtube.com/shorts/dQw4w9WgXcQ
	regexp.MustCompile(`(?:youtube\.com/shorts/)([A-Za-z0-9_-]{11})`),
	// matches: https://www.youtube.com/embed/dQw4w9WgXcQ
	regexp.MustCompile(`(?:youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
}

// VideoID extracts the 11-character video id from a YouTube URL.
func VideoID(rawURL string) (string, error) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSourceURL, rawURL)
}

// CanonicalURL returns the watch URL for a video id.
func CanonicalURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ThumbnailURL returns the predictable high-quality thumbnail URL for a video id.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}
