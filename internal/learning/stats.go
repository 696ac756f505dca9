package learning

import (
	"context"
	"math"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// StatsQuery narrows statistics to one language. LanguageID 0 means every language.
type StatsQuery struct {
	LanguageID int64
}

// GetStats returns the learner's records per status plus today's activity.
func (e *Engine) GetStats(ctx context.Context, learnerID int64, q StatsQuery) (*models.Statistics, error) {
	if err := validateID("learner id", learnerID); err != nil {
		return nil, err
	}
	if err := validateOptionalID("language id", q.LanguageID); err != nil {
		return nil, err
	}

	filter := models.WordFilter{LanguageID: q.LanguageID}
	now := e.clock()

	byStatus, err := e.records.CountByStatus(ctx, learnerID, filter)
	if err != nil {
		return nil, err
	}
	due, err := e.records.CountDueToday(ctx, learnerID, now, filter)
	if err != nil {
		return nil, err
	}
	today := startOfDay(now)
	reviewed, err := e.records.CountReviewedBetween(ctx, learnerID, today, today.AddDate(0, 0, 1), filter)
	if err != nil {
		return nil, err
	}

	return &models.Statistics{
		ByStatus:           withAllStatuses(byStatus),
		DueTodayCount:      due,
		ReviewedTodayCount: reviewed,
	}, nil
}

// GetTopicProgress summarises how much of a topic the learner has started and
// mastered. New counts words without a record; a record reset to zero
// repetitions is neither new nor learned.
func (e *Engine) GetTopicProgress(ctx context.Context, learnerID, topicID int64) (*models.TopicProgress, error) {
	if err := validateID("learner id", learnerID); err != nil {
		return nil, err
	}
	if err := validateID("topic id", topicID); err != nil {
		return nil, err
	}
	if _, err := e.requireTopic(ctx, topicID); err != nil {
		return nil, err
	}

	total, err := e.catalog.CountByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	counts, err := e.records.CountByStatus(ctx, learnerID, models.WordFilter{TopicID: topicID})
	if err != nil {
		return nil, err
	}

	learned := counts[models.StatusLearning].Count + counts[models.StatusReview].Count + counts[models.StatusMastered].Count
	progress := &models.TopicProgress{
		TopicID:  topicID,
		Total:    total,
		New:      max(total-counts.Total(), 0),
		Learned:  learned,
		Mastered: counts[models.StatusMastered].Count,
	}
	if total > 0 {
		progress.ProgressPercent = int(math.Round(float64(learned) / float64(total) * 100))
	}
	return progress, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func withAllStatuses(counts models.StatusCounts) models.StatusCounts {
	out := make(models.StatusCounts, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		out[s] = counts[s]
	}
	return out
}
