package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/example/vocabsrs/pkg/models"
)

// GetSessionWords composes a learning session for one topic.
// A mode without candidates yields an empty list; there is no fallback to another mode.
func (e *Engine) GetSessionWords(ctx context.Context, learnerID, topicID int64, mode models.Mode, limit int) ([]models.WordSummary, error) {
	if err := validateID("learner id", learnerID); err != nil {
		return nil, err
	}
	if err := validateID("topic id", topicID); err != nil {
		return nil, err
	}
	if _, err := models.ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	if _, err := e.requireTopic(ctx, topicID); err != nil {
		return nil, err
	}

	now := e.clock()
	switch mode {
	case models.ModeNew:
		fresh, err := e.newWords(ctx, learnerID, topicID, limit)
		if err != nil {
			return nil, err
		}
		return composeSession(nil, fresh, limit), nil

	case models.ModeReview:
		review, err := e.reviewWords(ctx, learnerID, topicID, now, limit)
		if err != nil {
			return nil, err
		}
		return composeSession(review, nil, limit), nil

	case models.ModeMixed:
		review, err := e.reviewWords(ctx, learnerID, topicID, now, limit/2)
		if err != nil {
			return nil, err
		}
		fresh, err := e.newWords(ctx, learnerID, topicID, limit-len(review))
		if err != nil {
			return nil, err
		}
		return composeSession(review, fresh, limit), nil
	}

	return nil, fmt.Errorf("%w: unknown session mode %q", models.ErrInvalidInput, mode)
}

// reviewWords returns due words of the topic, most overdue first.
func (e *Engine) reviewWords(ctx context.Context, learnerID, topicID int64, now time.Time, limit int) ([]models.WordSummary, error) {
	if limit <= 0 {
		return nil, nil
	}
	due, err := e.records.QueryDue(ctx, learnerID, now, models.WordFilter{TopicID: topicID}, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(due, func(d models.DueWord, _ int) models.WordSummary { return d.Word }), nil
}

// newWords returns topic words the learner has never reviewed, most common
// first. Due words always have a record, so they never show up here.
func (e *Engine) newWords(ctx context.Context, learnerID, topicID int64, limit int) ([]models.WordSummary, error) {
	if limit <= 0 {
		return nil, nil
	}
	return e.records.FindNewWords(ctx, learnerID, topicID, limit)
}

// composeSession puts review words before new words, drops repeated ids and
// truncates to limit. The result is never nil.
func composeSession(review, fresh []models.WordSummary, limit int) []models.WordSummary {
	words := make([]models.WordSummary, 0, len(review)+len(fresh))
	words = append(words, review...)
	words = append(words, fresh...)
	words = lo.UniqBy(words, func(w models.WordSummary) int64 { return w.ID })
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
