package learning

import (
	"context"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// RecordStore persists review records. GetRecord returns nil, nil when the
// learner has never reviewed the word. UpsertRecord must write the record as a
// whole and fail with models.ErrConflict when rec.Version is stale.
type RecordStore interface {
	GetRecord(ctx context.Context, learnerID, wordID int64) (*models.ReviewRecord, error)
	UpsertRecord(ctx context.Context, rec *models.ReviewRecord) error
	QueryDue(ctx context.Context, learnerID int64, now time.Time, filter models.WordFilter, limit int) ([]models.DueWord, error)
	// FindNewWords returns topic words without a record for the learner,
	// most frequent first.
	FindNewWords(ctx context.Context, learnerID, topicID int64, limit int) ([]models.WordSummary, error)

	CountByStatus(ctx context.Context, learnerID int64, filter models.WordFilter) (models.StatusCounts, error)
	CountDueToday(ctx context.Context, learnerID int64, now time.Time, filter models.WordFilter) (int, error)
	CountReviewedBetween(ctx context.Context, learnerID int64, from, to time.Time, filter models.WordFilter) (int, error)
}

// Catalog is the read-only vocabulary catalog. Lookups return nil, nil for unknown ids.
type Catalog interface {
	GetWord(ctx context.Context, id int64) (*models.WordSummary, error)
	GetTopic(ctx context.Context, id int64) (*models.Topic, error)
	CountByTopic(ctx context.Context, topicID int64) (int, error)
}
