package database

import (
	"context"
	"time"

	"github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

// counterGroup is one distinct combination of the counters status depends on.
type counterGroup struct {
	Repetitions  int `db:"repetitions"`
	CorrectCount int `db:"correct_count"`
	TotalReviews int `db:"total_reviews"`
	Records      int `db:"records"`
}

// CountByStatus counts the learner's records per derived status, with the
// average correct rate of each status.
func (r *ReviewRecordRepository) CountByStatus(ctx context.Context, learnerID int64, filter models.WordFilter) (models.StatusCounts, error) {
	query := `
		SELECT r.repetitions, r.correct_count, r.total_reviews, COUNT(*) AS records
		FROM review_records r
		JOIN words w ON w.id = r.word_id
		JOIN topics t ON t.id = w.topic_id
		WHERE r.learner_id = ?`
	query, args := appendWordFilter(query, []interface{}{learnerID}, filter)
	query += ` GROUP BY r.repetitions, r.correct_count, r.total_reviews`

	var groups []counterGroup
	if err := r.db.SelectContext(ctx, &groups, r.db.Rebind(query), args...); err != nil {
		return nil, storeError("count records by status", err)
	}
	return aggregateStatuses(groups), nil
}

func aggregateStatuses(groups []counterGroup) models.StatusCounts {
	counts := make(models.StatusCounts, len(models.AllStatuses))
	rateSums := make(map[models.Status]float64, len(models.AllStatuses))
	for _, g := range groups {
		status := spaced_repetition.Classify(g.Repetitions, g.CorrectCount, g.TotalReviews)
		stat := counts[status]
		stat.Count += g.Records
		counts[status] = stat
		if g.TotalReviews > 0 {
			rateSums[status] += float64(g.Records) * float64(g.CorrectCount) / float64(g.TotalReviews)
		}
	}
	for status, stat := range counts {
		if stat.Count > 0 {
			stat.AvgCorrectRate = rateSums[status] / float64(stat.Count)
			counts[status] = stat
		}
	}
	return counts
}

// CountDueToday counts records due at now, overdue ones included. It matches
// the rows QueryDue selects from.
func (r *ReviewRecordRepository) CountDueToday(ctx context.Context, learnerID int64, now time.Time, filter models.WordFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_records r
		JOIN words w ON w.id = r.word_id
		JOIN topics t ON t.id = w.topic_id
		WHERE r.learner_id = ? AND r.next_review_at <= ?`
	query, args := appendWordFilter(query, []interface{}{learnerID, now.UTC()}, filter)

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, storeError("count due today", err)
	}
	return count, nil
}

// CountReviewedBetween counts records last reviewed in [from, to).
func (r *ReviewRecordRepository) CountReviewedBetween(ctx context.Context, learnerID int64, from, to time.Time, filter models.WordFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_records r
		JOIN words w ON w.id = r.word_id
		JOIN topics t ON t.id = w.topic_id
		WHERE r.learner_id = ? AND r.last_review_at >= ? AND r.last_review_at < ?`
	query, args := appendWordFilter(query, []interface{}{learnerID, from.UTC(), to.UTC()}, filter)

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, storeError("count reviewed records", err)
	}
	return count, nil
}
