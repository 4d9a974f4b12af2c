package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
	log "github.com/sirupsen/logrus"

	"github.com/amathers/10-hour-video/internal/config"
	"github.com/amathers/10-hour-video/internal/model"
)

const (
	// OutputTemplate is the yt-dlp output filename template
	OutputTemplate = "%(title)s.%(ext)s"

	// ProgressInterval is how often yt-dlp progress updates are delivered
	ProgressInterval = 500 * time.Millisecond

	// MaxRetries is the number of retries after a failed download attempt
	MaxRetries = 1

	// RetryBackoff is the delay before a retry attempt
	RetryBackoff = 2 * time.Second

	// TaskIDPrefix prefixes generated download task IDs
	TaskIDPrefix = "download-"
)

// Service handles download operations
type Service struct {
	tasks       map[string]*model.DownloadTask
	tasksMutex  sync.RWMutex
	downloadDir string
	quality     config.QualityPreset
	engine      config.Engine
	onUpdate    func(*model.DownloadTask) // callback for progress reporting
}

// NewService creates a new download service
func NewService(downloadDir string, quality config.QualityPreset, engine config.Engine) *Service {
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		downloadDir: downloadDir,
		quality:     quality,
		engine:      engine,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// AddTask registers a new download task
func (s *Service) AddTask(url string) (*model.DownloadTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	// Check for duplicate URLs
	for _, task := range s.tasks {
		if task.URL == url && !task.Status.IsFinished() {
			return nil, fmt.Errorf("task already exists for URL: %s", url)
		}
	}

	task := &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       url,
		Status:    model.TaskStatusPending,
		ETASec:    -1,
		StartedAt: time.Now(),
	}

	s.tasks[task.ID] = task
	return task, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// StopTask requests cancellation of a running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}

	if !task.Status.IsActive() {
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	task.Status = model.TaskStatusStopping
	s.notifyUpdate(task)
	return nil
}

// Download runs the task to completion. It blocks until the download
// finishes, fails, or ctx is cancelled.
func (s *Service) Download(ctx context.Context, task *model.DownloadTask) error {
	s.setStatus(task, model.TaskStatusStarting)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Map a Stopping status set via StopTask onto context cancellation
	go func() {
		for {
			s.tasksMutex.RLock()
			status := task.Status
			s.tasksMutex.RUnlock()

			if status == model.TaskStatusStopping {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(100 * time.Millisecond)
		}
	}()

	s.setStatus(task, model.TaskStatusDownloading)

	var err error
	switch s.engine {
	case config.EngineNative:
		err = s.downloadNative(ctx, task)
	case config.EngineYTDLP:
		err = s.downloadYTDLP(ctx, task)
	default:
		// auto: prefer the yt-dlp binary, fall back to the native client
		if _, installErr := ytdlp.Install(ctx, nil); installErr != nil {
			log.Warnf("yt-dlp binary unavailable (%v), falling back to native client", installErr)
			err = s.downloadNative(ctx, task)
		} else {
			err = s.downloadYTDLP(ctx, task)
		}
	}

	s.tasksMutex.Lock()
	if err != nil {
		if ctx.Err() == context.Canceled {
			task.Status = model.TaskStatusStopped
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
		if info, statErr := os.Stat(task.OutputPath); statErr == nil {
			task.FileSize = info.Size()
		}
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	return err
}

// downloadYTDLP drives the yt-dlp binary through go-ytdlp
func (s *Service) downloadYTDLP(ctx context.Context, task *model.DownloadTask) error {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist().
		Format(FormatSelector(s.quality)).
		Output(filepath.Join(s.downloadDir, OutputTemplate))

	dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		s.updateTaskProgress(task, &update)
	})

	result, err := s.runWithRetry(ctx, dl, task)
	if err != nil {
		return err
	}

	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return fmt.Errorf("download finished but no file information returned: %v", err)
	}
	if info[0].Filename != nil {
		task.OutputPath = *info[0].Filename
	}
	if info[0].Title != nil && task.Title == "" {
		task.Title = *info[0].Title
	}

	if task.OutputPath == "" {
		return fmt.Errorf("download finished but output path is unknown")
	}
	if _, err := os.Stat(task.OutputPath); err != nil {
		return fmt.Errorf("downloaded file not found at %s: %w", task.OutputPath, err)
	}
	return nil
}

// runWithRetry attempts the yt-dlp run with retry and backoff
func (s *Service) runWithRetry(ctx context.Context, dl *ytdlp.Command, task *model.DownloadTask) (*ytdlp.Result, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			log.Infof("Retrying download for task %s, attempt %d", task.ID, attempt+1)
		}

		result, err := dl.Run(ctx, task.URL)
		if err == nil {
			return result, nil
		}

		lastErr = err
		log.Warnf("Download attempt %d failed for task %s: %v", attempt+1, task.ID, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// updateTaskProgress updates task fields from a yt-dlp progress update
func (s *Service) updateTaskProgress(task *model.DownloadTask, update *ytdlp.ProgressUpdate) {
	s.tasksMutex.Lock()

	if update.TotalBytes > 0 {
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		task.Percent = int(percent)
		task.Progress = percent / 100.0
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			task.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	if eta := update.ETA(); eta > 0 {
		task.ETASec = int(eta.Seconds())
	}

	if update.Info != nil && update.Info.Title != nil && *update.Info.Title != "" && task.Title == "" {
		task.Title = *update.Info.Title
	}

	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

func (s *Service) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
