package extend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amathers/10-hour-video/internal/model"
)

func TestNewService(t *testing.T) {
	service := NewService("output", false)

	if service.outputDir != "output" {
		t.Errorf("Expected outputDir 'output', got '%s'", service.outputDir)
	}
	if service.reencode {
		t.Error("Expected reencode to be false")
	}
	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
}

func TestExtend_MissingInput(t *testing.T) {
	service := NewService(t.TempDir(), false)

	_, err := service.Extend(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), 10)
	if err == nil {
		t.Error("Expected error for missing input file, got nil")
	}
}

func TestExtend_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "clip.mp4")
	service := NewService(dir, false)

	if _, err := service.Extend(context.Background(), input, 0); err == nil {
		t.Error("Expected error for zero duration, got nil")
	}
	if _, err := service.Extend(context.Background(), input, -2); err == nil {
		t.Error("Expected error for negative duration, got nil")
	}
}

func TestStopTask_Unknown(t *testing.T) {
	service := NewService("output", false)

	if err := service.StopTask("missing"); err == nil {
		t.Error("Expected error for unknown task, got nil")
	}
}

func TestStopTask_Inactive(t *testing.T) {
	service := NewService("output", false)
	task := &model.LoopTask{ID: "loop-1", Status: model.TaskStatusCompleted}
	service.tasks[task.ID] = task

	if err := service.StopTask(task.ID); err == nil {
		t.Error("Expected error stopping a finished task, got nil")
	}

	task.Status = model.TaskStatusProcessing
	if err := service.StopTask(task.ID); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if task.Status != model.TaskStatusStopping {
		t.Errorf("Expected status Stopping, got %s", task.Status)
	}
}

func TestMonitorProgress(t *testing.T) {
	service := NewService("output", false)
	task := &model.LoopTask{
		ID:            "loop-progress",
		Status:        model.TaskStatusProcessing,
		TargetSeconds: 100,
	}
	service.tasks[task.ID] = task

	var mu sync.Mutex
	var percents []int
	service.SetUpdateCallback(func(lt *model.LoopTask) {
		mu.Lock()
		percents = append(percents, lt.Percent)
		mu.Unlock()
	})

	stderr := io.NopCloser(strings.NewReader(strings.Join([]string{
		"frame=100",
		"out_time_us=25000000",
		"speed=30x",
		"out_time_us=50000000",
		"out_time_us=200000000", // past the target, must clamp
	}, "\n")))

	service.monitorProgress(stderr, task)

	if task.Percent != 100 {
		t.Errorf("Expected final percent 100, got %d", task.Percent)
	}
	if task.Progress != 1.0 {
		t.Errorf("Expected progress clamped to 1.0, got %v", task.Progress)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(percents) != 3 {
		t.Fatalf("Expected 3 callback invocations, got %d", len(percents))
	}
	if percents[0] != 25 || percents[1] != 50 {
		t.Errorf("Expected percents [25 50 ...], got %v", percents)
	}
}

func TestSetTaskError(t *testing.T) {
	service := NewService("output", false)
	task := &model.LoopTask{ID: "loop-err", Status: model.TaskStatusProcessing}
	service.tasks[task.ID] = task

	service.setTaskError(task, context.DeadlineExceeded)

	if task.Status != model.TaskStatusError {
		t.Errorf("Expected status Error, got %s", task.Status)
	}
	if task.LastError == "" {
		t.Error("Expected LastError to be set")
	}
	if task.FinishedAt.IsZero() {
		t.Error("Expected FinishedAt to be set")
	}
}

func writeTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
