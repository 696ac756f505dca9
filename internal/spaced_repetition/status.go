package spaced_repetition

import "github.com/example/vocabsrs/pkg/models"

// Thresholds for the retention status.
const (
	LearningRepetitions = 3
	MasteryRepetitions  = 8
	MasteryCorrectRate  = 0.9
)

// Classify derives the retention status from a record's counters.
// The repetition checks come first: mastery also requires a high repetition count.
func Classify(repetitions, correctCount, totalReviews int) models.Status {
	switch {
	case repetitions == 0:
		return models.StatusNew
	case repetitions < LearningRepetitions:
		return models.StatusLearning
	case repetitions >= MasteryRepetitions && correctRate(correctCount, totalReviews) >= MasteryCorrectRate:
		return models.StatusMastered
	default:
		return models.StatusReview
	}
}

// StatusOf classifies a stored record.
func StatusOf(r *models.ReviewRecord) models.Status {
	return Classify(r.Repetitions, r.CorrectCount, r.TotalReviews)
}

func correctRate(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
