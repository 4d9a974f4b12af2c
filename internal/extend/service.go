package extend

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/amathers/10-hour-video/internal/model"
	"github.com/amathers/10-hour-video/internal/platform"
)

const (
	// SecondsPerHour converts the duration flag to ffmpeg seconds
	SecondsPerHour = 3600

	// TaskIDPrefix prefixes generated loop task IDs
	TaskIDPrefix = "loop-"
)

// Service produces extended-duration videos by looping an input file
type Service struct {
	tasks      map[string]*model.LoopTask
	tasksMutex sync.RWMutex
	outputDir  string
	reencode   bool
	onUpdate   func(*model.LoopTask) // callback for progress reporting
}

// NewService creates a new looper service
func NewService(outputDir string, reencode bool) *Service {
	return &Service{
		tasks:     make(map[string]*model.LoopTask),
		outputDir: outputDir,
		reencode:  reencode,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.LoopTask)) {
	s.onUpdate = callback
}

// GetTask returns a loop task by ID
func (s *Service) GetTask(taskID string) (*model.LoopTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	return task, exists
}

// StopTask requests cancellation of a running loop task
func (s *Service) StopTask(taskID string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("loop task not found: %s", taskID)
	}

	if !task.Status.IsActive() {
		return fmt.Errorf("loop task is not active: %s", task.Status)
	}

	task.Status = model.TaskStatusStopping
	s.notifyUpdate(task)
	return nil
}

// Extend loops inputPath until it covers durationHours and writes the
// result into the output directory. It blocks until ffmpeg finishes,
// fails, or ctx is cancelled, and returns the task either way.
func (s *Service) Extend(ctx context.Context, inputPath string, durationHours float64) (*model.LoopTask, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}
	if durationHours <= 0 {
		return nil, fmt.Errorf("duration must be positive, got: %v", durationHours)
	}

	s.tasksMutex.Lock()
	for _, existing := range s.tasks {
		if existing.InputPath == inputPath && existing.Status.IsActive() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("loop already in progress for file: %s", inputPath)
		}
	}

	task := &model.LoopTask{
		ID:            generateTaskID(),
		InputPath:     inputPath,
		OutputPath:    filepath.Join(s.outputDir, OutputFileName(inputPath, durationHours)),
		Status:        model.TaskStatusStarting,
		TargetSeconds: durationHours * SecondsPerHour,
		StartedAt:     time.Now(),
	}
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	err := s.run(ctx, task)
	if err != nil {
		return task, err
	}
	return task, nil
}

// run probes the input, writes the manifest and drives ffmpeg
func (s *Service) run(ctx context.Context, task *model.LoopTask) error {
	duration, err := ProbeDuration(ctx, task.InputPath)
	if err != nil {
		s.setTaskError(task, err)
		return err
	}

	loops, err := LoopCount(duration, task.TargetSeconds)
	if err != nil {
		s.setTaskError(task, err)
		return err
	}

	s.tasksMutex.Lock()
	task.SourceSeconds = duration
	task.Loops = loops
	s.tasksMutex.Unlock()

	log.Infof("Original video duration: %.2f seconds", duration)
	log.Infof("Target duration: %.2f seconds", task.TargetSeconds)
	log.Infof("Number of loops required: %d", loops)

	listPath := filepath.Join(s.outputDir, ConcatListName)
	if err := WriteConcatList(listPath, task.InputPath, loops); err != nil {
		s.setTaskError(task, err)
		return err
	}
	defer platform.CleanupFile(listPath)

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

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusProcessing
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	var args []string
	if s.reencode {
		args = BuildReencodeArgs(listPath, task.OutputPath, task.TargetSeconds)
	} else {
		args = BuildStreamCopyArgs(listPath, task.OutputPath, task.TargetSeconds)
	}

	log.Infof("Running: %s", shellescape.QuoteCommand(append([]string{FFmpegCommand}, args...)))

	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.setTaskError(task, fmt.Errorf("failed to create stderr pipe: %w", err))
		return err
	}

	if err := cmd.Start(); err != nil {
		err = fmt.Errorf("failed to start ffmpeg: %w", err)
		s.setTaskError(task, err)
		return err
	}

	go s.monitorProgress(stderr, task)

	err = cmd.Wait()

	s.tasksMutex.Lock()
	if ctx.Err() == context.Canceled {
		task.Status = model.TaskStatusStopped
		os.Remove(task.OutputPath)
		err = ctx.Err()
	} else if err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		os.Remove(task.OutputPath)
		err = fmt.Errorf("ffmpeg failed: %w", err)
	} else {
		task.Status = model.TaskStatusCompleted
		task.Progress = 1.0
		task.Percent = 100
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	if err == nil {
		if size := platform.FileSizeGB(task.OutputPath); size > 0 {
			log.Infof("Output file size: %.2f GB", size)
		}
	}
	return err
}

// monitorProgress reads ffmpeg -progress output and updates the task
func (s *Service) monitorProgress(stderr io.ReadCloser, task *model.LoopTask) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		seconds, ok := ParseProgressLine(scanner.Text())
		if !ok {
			continue
		}

		s.tasksMutex.Lock()
		if task.TargetSeconds > 0 {
			progress := seconds / task.TargetSeconds
			if progress > 1.0 {
				progress = 1.0
			}
			task.Progress = progress
			task.Percent = int(progress * 100)
		}
		s.tasksMutex.Unlock()

		s.notifyUpdate(task)
	}
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.LoopTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.LoopTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
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
