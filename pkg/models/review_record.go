package models

import "time"

// Defaults applied to a review record that has never been reviewed.
const (
	DefaultEaseFactor   = 2.5
	DefaultIntervalDays = 1
	MinEaseFactor       = 1.3
)

// ReviewRecord tracks a learner's progress with a single word using the SM-2 variant.
// There is exactly one record per (LearnerID, WordID).
type ReviewRecord struct {
	LearnerID      int64      `json:"learner_id" db:"learner_id"`
	WordID         int64      `json:"word_id" db:"word_id"`
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`
	IntervalDays   int        `json:"interval_days" db:"interval_days"`
	Repetitions    int        `json:"repetitions" db:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at" db:"next_review_at"`
	LastReviewAt   *time.Time `json:"last_review_at" db:"last_review_at"`
	CorrectCount   int        `json:"correct_count" db:"correct_count"`
	IncorrectCount int        `json:"incorrect_count" db:"incorrect_count"`
	TotalReviews   int        `json:"total_reviews" db:"total_reviews"`
	LastDifficulty int        `json:"last_difficulty" db:"last_difficulty"` // 1-5 self-rated recall difficulty
	FirstLearnedAt time.Time  `json:"first_learned_at" db:"first_learned_at"`
	Version        int64      `json:"version" db:"version"` // 0 until the record is first persisted
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// NewReviewRecord returns the initial state used when a word is reviewed for the first time.
func NewReviewRecord(learnerID, wordID int64, now time.Time) *ReviewRecord {
	return &ReviewRecord{
		LearnerID:      learnerID,
		WordID:         wordID,
		EaseFactor:     DefaultEaseFactor,
		IntervalDays:   DefaultIntervalDays,
		Repetitions:    0,
		NextReviewAt:   now,
		FirstLearnedAt: now,
	}
}

// CorrectRate returns correct/total, or 0 when the word was never reviewed.
func (r *ReviewRecord) CorrectRate() float64 {
	if r.TotalReviews == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalReviews)
}

// DueWord is a review record joined with its catalog entry.
type DueWord struct {
	Record ReviewRecord `json:"record"`
	Word   WordSummary  `json:"word"`
}
