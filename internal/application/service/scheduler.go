package service

import (
	"context"
	"fitreminder/internal/domain/entity"
	"time"
)

// SchedulerService polls the reminder store and dispatches due reminders.
type SchedulerService interface {
	// Start registers the periodic tick and starts the background loop.
	Start() error
	// Stop stops scheduling new ticks and waits for an in-flight tick to finish.
	Stop()
	// Tick runs one poll-and-dispatch pass. Concurrent calls are skipped.
	Tick(ctx context.Context) TickResult
}

// Dispatcher delivers a reminder to an external notification channel.
// Retrying is the scheduler's job; implementations attempt delivery once.
type Dispatcher interface {
	Deliver(ctx context.Context, reminder *entity.Reminder) error
}

// TickLocker serializes ticks across processes. release must be called when
// ok is true.
type TickLocker interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

// SchedulerConfig tunes the scheduler loop.
type SchedulerConfig struct {
	// Interval between ticks. Defaults to one minute.
	Interval time.Duration
	// TickTimeout bounds one tick started by the loop.
	TickTimeout time.Duration
	// Concurrency is the number of reminders dispatched in parallel within a tick.
	Concurrency int
	// MaxAttempts stops re-polling a reminder after that many failed deliveries.
	// Zero retries forever.
	MaxAttempts int
	// Locker is optional.
	Locker TickLocker
	// Now defaults to time.Now.
	Now func() time.Time
}

// TickResult summarizes one tick.
type TickResult struct {
	Due        int
	Sent       int
	Failed     int
	Duplicates int // Delivered, but another tick had already marked the reminder sent
	Skipped    bool
	Err        error
}
