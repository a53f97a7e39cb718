package interfaces

import (
	"context"
	"time"
)

type SchedulerInterface interface {
	Init()
	Stop()
	// RunOnce executes one full refresh cycle over every watched product.
	RunOnce(ctx context.Context) error
	IsRunning() bool
	Restore() error
	Persist() error
	LastRefresh() time.Time
	NextRefresh() time.Time
}
