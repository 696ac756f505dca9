package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
)

// DueCounter reports which learners have words due.
type DueCounter interface {
	CountDueByLearner(ctx context.Context, now time.Time) ([]database.DueLearner, error)
}

// Notifier delivers a reminder to one learner.
type Notifier interface {
	SendReminder(ctx context.Context, learnerID int64, dueCount int) error
}

// Scheduler runs the periodic due-word reminder job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	due       DueCounter
	notifier  Notifier
	cfg       config.Reminders
	logger    *zap.Logger
	clock     func() time.Time
}

// New creates a new scheduler instance
func New(due DueCounter, notifier Notifier, cfg config.Reminders, logger *zap.Logger) *Scheduler {
	loc := cfg.Location()
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		due:       due,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		clock:     func() time.Time { return time.Now().In(loc) },
	}
}

// Start schedules the reminder job and returns immediately. The job stops
// delivering once ctx is cancelled; call Stop to release the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.cfg.Every).Do(func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("reminder scheduler started",
		zap.Duration("every", s.cfg.Every),
		zap.Int("start_hour", s.cfg.StartHour),
		zap.Int("end_hour", s.cfg.EndHour),
	)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce sends one reminder to every learner with due words, if the current
// hour is inside the reminder window. It returns the number of reminders sent.
// Delivery failures are logged and skipped.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.clock()
	if !withinHours(now.Hour(), s.cfg.StartHour, s.cfg.EndHour) {
		s.logger.Debug("outside reminder hours, skipping",
			zap.Int("hour", now.Hour()),
			zap.Int("start_hour", s.cfg.StartHour),
			zap.Int("end_hour", s.cfg.EndHour),
		)
		return 0, nil
	}

	learners, err := s.due.CountDueByLearner(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, l := range learners {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		count := min(l.DueCount, s.cfg.MaxWords)
		if err := s.notifier.SendReminder(ctx, l.LearnerID, count); err != nil {
			s.logger.Warn("reminder failed", zap.Int64("learner_id", l.LearnerID), zap.Error(err))
			continue
		}
		sent++
	}
	s.logger.Info("reminders sent", zap.Int("sent", sent), zap.Int("learners", len(learners)))
	return sent, nil
}

// withinHours reports whether hour lies in [start, end]. A window with
// start > end wraps around midnight.
func withinHours(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour <= end
	}
	return hour >= start || hour <= end
}
