package ecs

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

// SchedulerStats summarises how often and how long each system has run.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats holds the timings of one registered system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// binder is implemented by the Query and Singleton fields of a system.
type binder interface {
	Init(storage *Storage)
}

// executor is implemented by Query fields, which are refreshed before the
// owning system runs.
type executor interface {
	Execute()
}

type timing struct {
	runs        int64
	min, max    time.Duration
	last, total time.Duration
}

func (t *timing) record(d time.Duration) {
	if t.runs == 0 || d < t.min {
		t.min = d
	}
	t.max = max(t.max, d)
	t.last = d
	t.total += d
	t.runs++
}

type registration struct {
	system  System
	name    string
	queries []executor
	timing  timing
}

// Scheduler runs its systems in registration order, one frame at a time.
type Scheduler struct {
	storage *Storage
	systems []*registration
	logger  *slog.Logger

	frame        uint64
	compactEvery uint64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger used for registration and run loop events.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = logger }
}

// WithCompaction calls ShrinkToFit on the storage after every n frames.
func WithCompaction(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.compactEvery = uint64(n)
		}
	}
}

func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{storage: storage, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends system and binds its exported Query and Singleton
// fields to the scheduler's storage.
func (s *Scheduler) Register(system System) {
	reg := &registration{system: system, name: systemName(system)}
	reg.queries = s.bind(system)
	s.systems = append(s.systems, reg)
	s.logger.Debug("registered system", "system", reg.name, "queries", len(reg.queries))
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// bind initialises every settable field implementing binder and returns
// the ones that need refreshing each frame.
func (s *Scheduler) bind(system System) []executor {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var queries []executor
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		b, ok := field.Addr().Interface().(binder)
		if !ok {
			continue
		}
		b.Init(s.storage)
		if q, ok := b.(executor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Once runs every system for one frame of dt seconds, then applies the
// commands they queued. A system's queries are refreshed just before it
// runs, so they see the work of earlier systems in the same frame.
func (s *Scheduler) Once(dt float64) {
	s.frame++
	frame := newUpdateFrame(dt, s.frame, s.storage)

	for _, reg := range s.systems {
		start := time.Now()
		for _, q := range reg.queries {
			q.Execute()
		}
		reg.system.Execute(frame)
		reg.timing.record(time.Since(start))
	}

	frame.Commands.Flush(s.storage)
	if s.compactEvery > 0 && s.frame%s.compactEvery == 0 {
		s.storage.ShrinkToFit()
	}
}

// Frame returns the number of frames run so far.
func (s *Scheduler) Frame() uint64 { return s.frame }

// Run calls Once every interval, passing the measured wall time, until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "systems", len(s.systems), "interval", interval)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "frames", s.frame, "reason", context.Cause(ctx))
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// GetStats snapshots the timings of every system.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, 0, len(s.systems)),
	}
	for _, reg := range s.systems {
		t := reg.timing
		sys := SystemStats{
			Name:           reg.name,
			ExecutionCount: t.runs,
			MinDuration:    t.min,
			MaxDuration:    t.max,
			LastDuration:   t.last,
			TotalDuration:  t.total,
		}
		if t.runs > 0 {
			sys.AvgDuration = t.total / time.Duration(t.runs)
		}
		stats.Systems = append(stats.Systems, sys)
		stats.TotalExecutions += t.runs
	}
	return stats
}
