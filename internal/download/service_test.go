package download

import (
	"strings"
	"testing"

	"github.com/amathers/10-hour-video/internal/config"
	"github.com/amathers/10-hour-video/internal/model"
)

func TestNewService(t *testing.T) {
	service := NewService("/tmp", config.QualityBest, config.EngineAuto)

	if service.downloadDir != "/tmp" {
		t.Errorf("Expected downloadDir to be '/tmp', got '%s'", service.downloadDir)
	}

	if service.quality != config.QualityBest {
		t.Errorf("Expected quality to be best, got %s", service.quality)
	}

	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
}

func TestAddTask(t *testing.T) {
	service := NewService("/tmp", config.QualityBest, config.EngineAuto)

	task1, err := service.AddTask("https://youtube.com/watch?v=test1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task1.Status != model.TaskStatusPending {
		t.Errorf("Expected status Pending, got %s", task1.Status)
	}

	if !strings.HasPrefix(task1.ID, TaskIDPrefix) {
		t.Errorf("Expected task ID to start with %q, got %q", TaskIDPrefix, task1.ID)
	}

	if task1.ETASec != -1 {
		t.Errorf("Expected ETASec to be -1, got %d", task1.ETASec)
	}

	// Duplicate of a non-finished task must be rejected
	_, err = service.AddTask("https://youtube.com/watch?v=test1")
	if err == nil {
		t.Error("Expected error for duplicate URL, got nil")
	}

	// A different URL is fine
	if _, err := service.AddTask("https://youtube.com/watch?v=test2"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Once the first task is finished the URL may be downloaded again
	task1.Status = model.TaskStatusCompleted
	if _, err := service.AddTask("https://youtube.com/watch?v=test1"); err != nil {
		t.Errorf("Expected no error after completion, got %v", err)
	}
}

func TestGetTask(t *testing.T) {
	service := NewService("/tmp", config.QualityBest, config.EngineAuto)

	task, err := service.AddTask("https://youtube.com/watch?v=test")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	retrieved, exists := service.GetTask(task.ID)
	if !exists {
		t.Fatal("Expected task to exist")
	}
	if retrieved.ID != task.ID {
		t.Errorf("Expected task ID '%s', got '%s'", task.ID, retrieved.ID)
	}

	if _, exists := service.GetTask("non-existing-id"); exists {
		t.Error("Expected task to not exist")
	}
}

func TestStopTask(t *testing.T) {
	service := NewService("/tmp", config.QualityBest, config.EngineAuto)

	task, err := service.AddTask("https://youtube.com/watch?v=test")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Pending tasks are not active and cannot be stopped
	if err := service.StopTask(task.ID); err == nil {
		t.Error("Expected error stopping a pending task, got nil")
	}

	task.Status = model.TaskStatusDownloading
	if err := service.StopTask(task.ID); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if task.Status != model.TaskStatusStopping {
		t.Errorf("Expected status Stopping, got %s", task.Status)
	}

	if err := service.StopTask("missing"); err == nil {
		t.Error("Expected error for unknown task, got nil")
	}
}

func TestFormatSelector(t *testing.T) {
	tests := []struct {
		quality  config.QualityPreset
		contains string
	}{
		{config.QualityBest, "bestvideo[ext=mp4]"},
		{config.QualityMedium, "height<=720"},
		{config.QualityWorst, "worstvideo[ext=mp4]"},
		{config.Quality360p, "height<=360"},
		{config.Quality480p, "height<=480"},
		{config.Quality720p, "height<=720"},
		{config.Quality1080p, "height<=1080"},
		{config.QualityPreset("bogus"), "bestvideo[ext=mp4]"},
	}

	for _, test := range tests {
		sel := FormatSelector(test.quality)
		if !strings.Contains(sel, test.contains) {
			t.Errorf("FormatSelector(%s) = %q, expected to contain %q", test.quality, sel, test.contains)
		}
	}
}

func TestNativeFormat(t *testing.T) {
	tests := []struct {
		quality  config.QualityPreset
		selector string
		ext      string
	}{
		{config.QualityBest, "best", "mp4"},
		{config.QualityWorst, "worst", "mp4"},
		{config.Quality480p, "height<=480", "mp4"},
		{config.Quality1080p, "height<=1080", "mp4"},
	}

	for _, test := range tests {
		sel, ext := NativeFormat(test.quality)
		if sel != test.selector || ext != test.ext {
			t.Errorf("NativeFormat(%s) = (%q, %q), expected (%q, %q)",
				test.quality, sel, ext, test.selector, test.ext)
		}
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		title    string
		ext      string
		expected string
	}{
		{"Simple Title", "mp4", "Simple_Title.mp4"},
		{"a/b\\c:d", "mp4", "a_b_c_d.mp4"},
		{"", "mp4", "video.mp4"},
		{"   ", "webm", "video.webm"},
		{"dots.are.kept", ".mp4", "dots.are.kept.mp4"},
		{"___", "mp4", "video.mp4"},
	}

	for _, test := range tests {
		if result := SafeFilename(test.title, test.ext); result != test.expected {
			t.Errorf("SafeFilename(%q, %q) = %q, expected %q", test.title, test.ext, result, test.expected)
		}
	}
}
