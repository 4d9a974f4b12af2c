package extend

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpeg settings for the re-encode path
const (
	VideoCodec   = "libx264"
	VideoPreset  = "medium"
	VideoCRF     = "23"
	AudioCodec   = "aac"
	AudioBitrate = "128k"

	FastStartFlag = "+faststart"
)

// Executable and I/O constants
const (
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	OutputExtensionMP4  = ".mp4"
)

// ProbeDuration returns the duration of a media file in seconds using ffprobe
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, FFprobeCommand,
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", durationStr, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("ffprobe reported non-positive duration: %v", duration)
	}

	return duration, nil
}

// BuildStreamCopyArgs builds ffmpeg arguments for the concat demuxer with
// stream copy. No re-encoding happens, which is what makes this fast.
func BuildStreamCopyArgs(listPath, outputPath string, targetSeconds float64) []string {
	return []string{
		"-y",            // Overwrite output file
		"-f", "concat",  // Concat demuxer over the manifest
		"-safe", "0",    // Allow absolute paths in the manifest
		"-i", listPath,  // Input manifest
		"-t", formatFloat(targetSeconds), // Trim to the target duration
		"-c", "copy",    // Stream copy
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// BuildReencodeArgs builds ffmpeg arguments for the re-encoding path
func BuildReencodeArgs(listPath, outputPath string, targetSeconds float64) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-t", formatFloat(targetSeconds),
		"-c:v", VideoCodec,
		"-preset", VideoPreset,
		"-crf", VideoCRF,
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-movflags", FastStartFlag,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// OutputFileName builds the output filename: <hours>h_<input base>.mp4
func OutputFileName(inputPath string, durationHours float64) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return formatFloat(durationHours) + "h_" + name + OutputExtensionMP4
}

// ParseProgressLine extracts the output position in seconds from an ffmpeg
// -progress line. Only out_time_us lines are meaningful.
func ParseProgressLine(line string) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}

	timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
	micros, err := strconv.ParseInt(timeStr, 10, 64)
	if err != nil {
		return 0, false
	}

	return float64(micros) / 1e6, true
}

// formatFloat renders a float without trailing zeros
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
