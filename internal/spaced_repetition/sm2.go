package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// Learner self-rated difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// PassThreshold is the lowest quality counted as a successful recall.
const PassThreshold = QualityCorrectDifficult

// Result is the scheduling state produced by a single review.
type Result struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReviewAt time.Time
}

// ValidateDifficulty rejects ratings outside 1..5.
func ValidateDifficulty(difficulty int) error {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return fmt.Errorf("%w: difficulty %d out of range %d-%d", models.ErrInvalidInput, difficulty, MinDifficulty, MaxDifficulty)
	}
	return nil
}

// QualityFromDifficulty maps a 1-5 difficulty to an SM-2 quality.
// Ratings below the pass threshold all collapse to a blackout, so 1 and 2 are
// penalised the same way.
func QualityFromDifficulty(difficulty int) QualityResponse {
	if q := QualityResponse(difficulty); q >= PassThreshold {
		return q
	}
	return QualityBlackout
}

// Passed reports whether a difficulty rating counts as a successful recall.
func Passed(difficulty int) bool {
	return QualityFromDifficulty(difficulty) >= PassThreshold
}

// Update computes the next scheduling state. It has no side effects and the
// same inputs always give the same result.
func Update(difficulty int, priorEaseFactor float64, priorIntervalDays, priorRepetitions int, now time.Time) Result {
	quality := QualityFromDifficulty(difficulty)

	var interval, repetitions int
	if quality >= PassThreshold {
		switch priorRepetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(math.Round(float64(priorIntervalDays) * priorEaseFactor))
		}
		repetitions = priorRepetitions + 1
	} else {
		repetitions = 0
		interval = 1
	}
	if interval < 1 {
		interval = 1
	}

	// The ease factor moves on every review, pass or fail.
	q := float64(quality)
	ef := priorEaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < models.MinEaseFactor {
		ef = models.MinEaseFactor
	}

	return Result{
		EaseFactor:   roundEase(ef),
		IntervalDays: interval,
		Repetitions:  repetitions,
		NextReviewAt: now.AddDate(0, 0, interval),
	}
}

// roundEase keeps two decimals for storage
func roundEase(ef float64) float64 {
	return math.Round(ef*100) / 100
}
