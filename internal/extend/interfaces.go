package extend

import (
	"context"

	"github.com/amathers/10-hour-video/internal/model"
)

// Extender defines the interface for the looper service.
type Extender interface {
	SetUpdateCallback(func(*model.LoopTask))
	Extend(ctx context.Context, inputPath string, durationHours float64) (*model.LoopTask, error)
	GetTask(taskID string) (*model.LoopTask, bool)
	StopTask(taskID string) error
}
