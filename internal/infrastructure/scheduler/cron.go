package scheduler

import (
	"fitreminder/internal/pkg/logger"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	log     logger.Logger
	mu      sync.Mutex // To protect access to job management
	started bool
}

// NewScheduler creates a cron scheduler. Jobs never overlap with themselves:
// a run that is still in progress when the next one is due causes that next
// run to be skipped.
func NewScheduler(log logger.Logger) *Scheduler {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithSeconds(), // Use seconds precision
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{cron: c, log: log}
}

// AddJob adds a new job to the scheduler.
// spec follows the cron format (e.g., "0 30 * * * *") or a descriptor such as "@every 1m".
// Returns the EntryID of the added job and an error if any.
func (s *Scheduler) AddJob(spec string, cmd func()) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, cmd)
	if err != nil {
		s.log.Error("🔴 ERROR: Failed to add cron job", err)
		return 0, fmt.Errorf("failed to add cron job: %w", err)
	}
	s.log.Info(fmt.Sprintf("Added cron job with ID %d, spec: %s", id, spec))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Info(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Start begins running jobs in a background goroutine. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
	s.log.Info("Cron scheduler started.")
}

// Stop stops the cron scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	ctx := s.cron.Stop()
	s.mu.Unlock()

	<-ctx.Done() // Wait for running jobs to complete
	s.log.Info("Cron scheduler stopped.")
}

// GetEntries returns the list of scheduled entries. Useful for debugging.
func (s *Scheduler) GetEntries() []cron.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entries()
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(formatKV("cron: "+msg, keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(formatKV("cron: "+msg, keysAndValues), err)
}

func formatKV(msg string, keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
