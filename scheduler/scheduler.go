// Package scheduler drives the recurring pipeline jobs off cron specs and
// exposes the same jobs for manual triggering, with a single-instance
// guarantee per job across both paths.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"blogpilot/logger"
)

// ErrAlreadyRunning is returned when a manual trigger hits a job that is
// still busy with a previous run.
var ErrAlreadyRunning = errors.New("job is already running")

// ErrUnknownJob is returned for trigger requests naming no registered job.
var ErrUnknownJob = errors.New("unknown job")

// JobInfo describes one registered job for the management API.
type JobInfo struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	NextRun time.Time `json:"next_run"`
}

type entry struct {
	id   string
	name string
	spec string
	run  func(ctx context.Context) error

	// busy is shared between the cron path and manual triggers so the two
	// can never run the same job concurrently.
	busy    sync.Mutex
	entryID cron.EntryID
}

// Scheduler wraps a cron runner with a job registry.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{}),
			cron.Recover(cronLogger{}),
		)),
		entries: make(map[string]*entry),
	}
}

// Register adds a job under a stable id with a cron spec.
func (s *Scheduler) Register(id, name, spec string, run func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("job %q registered twice", id)
	}
	e := &entry{id: id, name: name, spec: spec, run: run}

	entryID, err := s.cron.AddFunc(spec, func() { s.execute(e) })
	if err != nil {
		return fmt.Errorf("registering job %q: %w", id, err)
	}
	e.entryID = entryID
	s.entries[id] = e
	s.order = append(s.order, id)
	logger.InfoWithFields("job registered", logger.Fields{"job": id, "spec": spec})
	return nil
}

func (s *Scheduler) execute(e *entry) {
	if !e.busy.TryLock() {
		logger.WarnWithFields("job still running, skipping", logger.Fields{"job": e.id})
		return
	}
	defer e.busy.Unlock()

	if err := e.run(context.Background()); err != nil {
		logger.ErrorWithFields("scheduled run failed", logger.Fields{
			"job":   e.id,
			"error": err.Error(),
		})
	}
}

// RunNow triggers a job manually. The run happens in the background; the
// caller only learns whether it could start.
func (s *Scheduler) RunNow(id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownJob
	}

	if !e.busy.TryLock() {
		return ErrAlreadyRunning
	}
	go func() {
		defer e.busy.Unlock()
		logger.InfoWithFields("manual trigger", logger.Fields{"job": e.id})
		if err := e.run(context.Background()); err != nil {
			logger.ErrorWithFields("manual run failed", logger.Fields{
				"job":   e.id,
				"error": err.Error(),
			})
		}
	}()
	return nil
}

// Jobs lists registered jobs in registration order.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		infos = append(infos, JobInfo{
			ID:      e.id,
			Name:    e.name,
			Spec:    e.spec,
			NextRun: s.cron.Entry(e.entryID).Next,
		})
	}
	return infos
}

// Start begins dispatching scheduled runs.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Log.Info("scheduler started")
}

// Stop halts dispatching and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Log.Info("scheduler stopped")
}

// cronLogger adapts the structured logger to the cron.Logger interface.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.InfoWithFields("cron: "+msg, kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvFields(keysAndValues)
	fields["error"] = err.Error()
	logger.ErrorWithFields("cron: "+msg, fields)
}

func kvFields(keysAndValues []interface{}) logger.Fields {
	fields := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
