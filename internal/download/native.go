package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	ytnative "github.com/ytget/ytdlp/v2"

	"github.com/amathers/10-hour-video/internal/model"
)

// downloadNative downloads with the pure-Go client. Used when the yt-dlp
// binary is unavailable or when the engine is forced to native.
func (s *Service) downloadNative(ctx context.Context, task *model.DownloadTask) error {
	selector, ext := NativeFormat(s.quality)
	dl := ytnative.New().WithFormat(selector, ext)

	// Resolve first so the output path is known up front
	_, info, err := dl.ResolveURL(ctx, task.URL)
	if err != nil {
		return fmt.Errorf("failed to resolve video URL: %w", err)
	}
	if task.Title == "" {
		task.Title = info.Title
	}

	outputPath := filepath.Join(s.downloadDir, SafeFilename(info.Title, ext))
	log.Debugf("Native download target: %s", outputPath)

	dl = dl.WithOutputPath(outputPath).WithProgress(func(p ytnative.Progress) {
		s.tasksMutex.Lock()
		if p.TotalSize > 0 {
			task.Progress = float64(p.DownloadedSize) / float64(p.TotalSize)
			task.Percent = int(task.Progress * 100)
		}
		s.tasksMutex.Unlock()
		s.notifyUpdate(task)
	})

	if _, err := dl.Download(ctx, task.URL); err != nil {
		return fmt.Errorf("native download failed: %w", err)
	}

	task.OutputPath = outputPath
	return nil
}

// SafeFilename derives a filesystem-safe filename from a video title
func SafeFilename(title, ext string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "video"
	}

	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name := strings.Trim(b.String(), "._")
	if name == "" {
		name = "video"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
