package service

import (
	"context"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/domain/repository"
	"fitreminder/internal/infrastructure/scheduler"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPollInterval = time.Minute
	defaultTickTimeout  = 50 * time.Second
)

type outcome int

const (
	outcomeSent outcome = iota
	outcomeFailed
	outcomeDuplicate
)

type schedulerService struct {
	cronScheduler *scheduler.Scheduler
	reminderRepo  repository.ReminderRepository
	dispatcher    Dispatcher
	cfg           SchedulerConfig
	log           logger.Logger

	running atomic.Bool // Set while a tick is in progress

	mu      sync.Mutex // Protects entryID and started
	entryID cron.EntryID
	started bool
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	cronScheduler *scheduler.Scheduler,
	reminderRepo repository.ReminderRepository,
	dispatcher Dispatcher,
	cfg SchedulerConfig,
	log logger.Logger,
) SchedulerService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = defaultTickTimeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &schedulerService{
		cronScheduler: cronScheduler,
		reminderRepo:  reminderRepo,
		dispatcher:    dispatcher,
		cfg:           cfg,
		log:           log.With("component", "scheduler"),
	}
}

// Start registers the tick job on the cron scheduler and starts it.
func (s *schedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.cfg.Interval)
	entryID, err := s.cronScheduler.AddJob(spec, func() {
		// Use background context for cron job execution
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TickTimeout)
		defer cancel()
		s.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.entryID = entryID
	s.started = true
	s.cronScheduler.Start()
	s.log.Info(fmt.Sprintf("Reminder scheduler started, polling every %s (Job ID: %d)", s.cfg.Interval, entryID))
	return nil
}

// Stop removes the tick job and waits for a running tick to complete.
func (s *schedulerService) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cronScheduler.RemoveJob(s.entryID)
	s.started = false
	s.mu.Unlock()

	s.cronScheduler.Stop()
	s.log.Info("Reminder scheduler stopped.")
}

// Tick polls for due reminders and dispatches them. A reminder is marked sent
// only after its delivery succeeded; failed ones stay unsent for the next tick.
func (s *schedulerService) Tick(ctx context.Context) TickResult {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("Previous tick still running, skipping this one")
		return TickResult{Skipped: true}
	}
	defer s.running.Store(false)

	if s.cfg.Locker != nil {
		release, ok, err := s.cfg.Locker.TryLock(ctx)
		if err != nil {
			s.log.Error("Failed to acquire tick lock, skipping tick", err)
			return TickResult{Skipped: true, Err: err}
		}
		if !ok {
			s.log.Debug("Tick lock held by another instance, skipping tick")
			return TickResult{Skipped: true}
		}
		defer release()
	}

	now := s.cfg.Now()
	due, err := s.reminderRepo.FindDue(ctx, now, s.cfg.MaxAttempts)
	if err != nil {
		s.log.Error("Failed to query due reminders, skipping tick", err)
		return TickResult{Err: err}
	}

	result := TickResult{Due: len(due)}
	if len(due) == 0 {
		s.log.Debug("No due reminders")
		return result
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.Concurrency)
	for _, reminder := range due {
		reminder := reminder
		g.Go(func() error {
			o := s.process(ctx, reminder)
			mu.Lock()
			defer mu.Unlock()
			switch o {
			case outcomeSent:
				result.Sent++
			case outcomeDuplicate:
				result.Duplicates++
			default:
				result.Failed++
			}
			// Per-reminder failures never abort the tick.
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info(fmt.Sprintf("Tick complete. Due: %d, Sent: %d, Failed: %d, Duplicates: %d",
		result.Due, result.Sent, result.Failed, result.Duplicates))
	return result
}

// process delivers one reminder and records the result.
func (s *schedulerService) process(ctx context.Context, reminder *entity.Reminder) outcome {
	if err := s.dispatcher.Deliver(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to deliver reminder %d to user %s (attempt %d)", reminder.ID, reminder.UserID, reminder.Attempts+1), err)
		if recErr := s.reminderRepo.RecordFailure(ctx, reminder.ID, err.Error(), s.cfg.Now()); recErr != nil {
			s.log.Error(fmt.Sprintf("Failed to record delivery failure for reminder %d", reminder.ID), recErr)
		}
		return outcomeFailed
	}

	claimed, err := s.reminderRepo.MarkSent(ctx, reminder.ID, s.cfg.Now())
	if err != nil {
		// Delivered but not marked: the next tick delivers it again (at-least-once).
		s.log.Error(fmt.Sprintf("Failed to mark reminder %d as sent", reminder.ID), err)
		return outcomeFailed
	}
	if !claimed {
		s.log.Warn(fmt.Sprintf("Reminder %d was already marked sent by another tick; duplicate delivery", reminder.ID))
		return outcomeDuplicate
	}

	s.log.Info(fmt.Sprintf("Reminder %d sent to user %s", reminder.ID, reminder.UserID))
	return outcomeSent
}
