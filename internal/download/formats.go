package download

import (
	"strings"

	"github.com/amathers/10-hour-video/internal/config"
)

// yt-dlp format selectors per quality preset. mp4 is preferred so the
// looper can stream-copy the result without remuxing surprises.
const (
	formatBest   = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	formatMedium = "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best"
	formatWorst  = "worstvideo[ext=mp4]+worstaudio[ext=m4a]/worst[ext=mp4]/worst"
	formatHeight = "bestvideo[height<=HEIGHT][ext=mp4]+bestaudio[ext=m4a]/best[height<=HEIGHT][ext=mp4]/best"
)

// FormatSelector maps a quality preset to a yt-dlp format selector string
func FormatSelector(quality config.QualityPreset) string {
	switch quality {
	case config.QualityBest:
		return formatBest
	case config.QualityMedium:
		return formatMedium
	case config.QualityWorst:
		return formatWorst
	case config.Quality360p, config.Quality480p, config.Quality720p, config.Quality1080p:
		height := strings.TrimSuffix(string(quality), "p")
		return strings.ReplaceAll(formatHeight, "HEIGHT", height)
	default:
		return formatBest
	}
}

// NativeFormat maps a quality preset to the native client's selector and
// desired extension pair.
func NativeFormat(quality config.QualityPreset) (selector, ext string) {
	switch quality {
	case config.QualityBest:
		return "best", "mp4"
	case config.QualityMedium:
		return "height<=720", "mp4"
	case config.QualityWorst:
		return "worst", "mp4"
	case config.Quality360p, config.Quality480p, config.Quality720p, config.Quality1080p:
		return "height<=" + strings.TrimSuffix(string(quality), "p"), "mp4"
	default:
		return "best", "mp4"
	}
}
