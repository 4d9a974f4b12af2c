package platform

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// youtubeURLPattern accepts youtube.com and youtu.be links with or without scheme
var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

// videoIDPattern matches the 11-character YouTube video ID alphabet
var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// IsValidYouTubeURL reports whether the string looks like a YouTube video URL
func IsValidYouTubeURL(rawURL string) bool {
	return youtubeURLPattern.MatchString(strings.TrimSpace(rawURL))
}

// ExtractVideoID pulls the video ID out of the common YouTube URL forms:
// watch?v=, youtu.be/, shorts/ and embed/.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	var id string
	switch {
	case strings.HasSuffix(u.Host, "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case strings.HasPrefix(u.Path, "/watch"):
		id = u.Query().Get("v")
	case strings.HasPrefix(u.Path, "/shorts/"):
		id = strings.TrimPrefix(u.Path, "/shorts/")
	case strings.HasPrefix(u.Path, "/embed/"):
		id = strings.TrimPrefix(u.Path, "/embed/")
	}

	id = strings.Trim(id, "/")
	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("no video ID found in URL: %s", rawURL)
	}
	return id, nil
}
