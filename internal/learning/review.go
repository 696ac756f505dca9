package learning

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

// Review is a single review outcome submitted by a learner.
type Review struct {
	LearnerID  int64
	WordID     int64
	Difficulty int // 1-5, self-rated
	// Correct is the answer check made by the client. When nil the review counts
	// as correct iff the difficulty is a pass.
	Correct    *bool
	ReviewedAt time.Time // zero means now
}

// ReviewOutcome is what the learner sees after submitting a review.
type ReviewOutcome struct {
	Status             models.Status `json:"status"`
	NextReviewAt       time.Time     `json:"next_review_at"`
	IntervalDays       int           `json:"interval_days"`
	Repetitions        int           `json:"repetitions"`
	EaseFactor         float64       `json:"ease_factor"`
	CorrectRatePercent int           `json:"correct_rate_percent"`
}

func (r Review) validate() error {
	if err := validateID("learner id", r.LearnerID); err != nil {
		return err
	}
	if err := validateID("word id", r.WordID); err != nil {
		return err
	}
	return spaced_repetition.ValidateDifficulty(r.Difficulty)
}

func (r Review) correct() bool {
	if r.Correct != nil {
		return *r.Correct
	}
	return spaced_repetition.Passed(r.Difficulty)
}

// SubmitReview records a review outcome: one record read, one atomic write.
// A stale concurrent write surfaces as models.ErrConflict and nothing is applied.
func (e *Engine) SubmitReview(ctx context.Context, review Review) (*ReviewOutcome, error) {
	if err := review.validate(); err != nil {
		return nil, err
	}

	now := review.ReviewedAt
	if now.IsZero() {
		now = e.clock()
	}

	word, err := e.catalog.GetWord(ctx, review.WordID)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, fmt.Errorf("%w: word %d", models.ErrNotFound, review.WordID)
	}

	current, err := e.records.GetRecord(ctx, review.LearnerID, review.WordID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = models.NewReviewRecord(review.LearnerID, review.WordID, now)
	}

	next := applyReview(*current, review.Difficulty, review.correct(), now)
	if err := e.records.UpsertRecord(ctx, &next); err != nil {
		e.logger.Warn("review not stored",
			zap.Int64("learner_id", review.LearnerID),
			zap.Int64("word_id", review.WordID),
			zap.Error(err),
		)
		return nil, err
	}

	status := spaced_repetition.StatusOf(&next)
	e.logger.Debug("review stored",
		zap.Int64("learner_id", next.LearnerID),
		zap.Int64("word_id", next.WordID),
		zap.Int("difficulty", review.Difficulty),
		zap.String("status", string(status)),
		zap.Int("interval_days", next.IntervalDays),
	)

	return &ReviewOutcome{
		Status:             status,
		NextReviewAt:       next.NextReviewAt,
		IntervalDays:       next.IntervalDays,
		Repetitions:        next.Repetitions,
		EaseFactor:         next.EaseFactor,
		CorrectRatePercent: int(math.Round(next.CorrectRate() * 100)),
	}, nil
}

// applyReview returns the record after one review. rec is a copy, so a failed
// write leaves the caller's state untouched.
func applyReview(rec models.ReviewRecord, difficulty int, correct bool, now time.Time) models.ReviewRecord {
	rec.TotalReviews++
	if correct {
		rec.CorrectCount++
	} else {
		rec.IncorrectCount++
	}
	reviewedAt := now
	rec.LastReviewAt = &reviewedAt
	rec.LastDifficulty = difficulty
	if rec.FirstLearnedAt.IsZero() {
		rec.FirstLearnedAt = now
	}

	res := spaced_repetition.Update(difficulty, rec.EaseFactor, rec.IntervalDays, rec.Repetitions, now)
	rec.EaseFactor = res.EaseFactor
	rec.IntervalDays = res.IntervalDays
	rec.Repetitions = res.Repetitions
	rec.NextReviewAt = res.NextReviewAt
	return rec
}
