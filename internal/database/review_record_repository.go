package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/example/vocabsrs/pkg/models"
)

// ReviewRecordRepository stores per-learner review records.
type ReviewRecordRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewReviewRecordRepository creates a new repository instance
func NewReviewRecordRepository(db *sqlx.DB) *ReviewRecordRepository {
	return &ReviewRecordRepository{db: db, now: time.Now}
}

// recordWrite carries the version a conditional update expects to find.
type recordWrite struct {
	models.ReviewRecord
	ExpectedVersion int64 `db:"expected_version"`
}

// dueRow is a review record joined with its word. Word columns are prefixed.
type dueRow struct {
	models.ReviewRecord
	WordTopicID       int64  `db:"word_topic_id"`
	WordLanguageID    int64  `db:"word_language_id"`
	WordText          string `db:"word_text"`
	WordTranslation   string `db:"word_translation"`
	WordPronunciation string `db:"word_pronunciation"`
	WordPartOfSpeech  string `db:"word_part_of_speech"`
	WordLevel         string `db:"word_level"`
	WordFrequency     int    `db:"word_frequency"`
}

func (r dueRow) dueWord() models.DueWord {
	return models.DueWord{
		Record: normalizeRecord(r.ReviewRecord),
		Word: models.WordSummary{
			ID:            r.WordID,
			TopicID:       r.WordTopicID,
			LanguageID:    r.WordLanguageID,
			Word:          r.WordText,
			Translation:   r.WordTranslation,
			Pronunciation: r.WordPronunciation,
			PartOfSpeech:  r.WordPartOfSpeech,
			Level:         r.WordLevel,
			Frequency:     r.WordFrequency,
		},
	}
}

// GetRecord returns the learner's record for a word, or nil when there is none.
func (r *ReviewRecordRepository) GetRecord(ctx context.Context, learnerID, wordID int64) (*models.ReviewRecord, error) {
	var rec models.ReviewRecord
	query := r.db.Rebind(`SELECT * FROM review_records WHERE learner_id = ? AND word_id = ?`)
	err := r.db.GetContext(ctx, &rec, query, learnerID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get review record", err)
	}
	rec = normalizeRecord(rec)
	return &rec, nil
}

// UpsertRecord writes the whole record in one statement. A record with Version 0
// is inserted; otherwise the row is updated only if its version still matches.
// On success rec carries the new version.
func (r *ReviewRecordRepository) UpsertRecord(ctx context.Context, rec *models.ReviewRecord) error {
	now := r.now().UTC()
	w := recordWrite{ReviewRecord: normalizeRecord(*rec), ExpectedVersion: rec.Version}
	w.UpdatedAt = now

	if rec.Version == 0 {
		w.Version = 1
		w.CreatedAt = now
		_, err := r.db.NamedExecContext(ctx, `
			INSERT INTO review_records (
				learner_id, word_id, ease_factor, interval_days, repetitions,
				next_review_at, last_review_at, correct_count, incorrect_count,
				total_reviews, last_difficulty, first_learned_at, version,
				created_at, updated_at
			) VALUES (
				:learner_id, :word_id, :ease_factor, :interval_days, :repetitions,
				:next_review_at, :last_review_at, :correct_count, :incorrect_count,
				:total_reviews, :last_difficulty, :first_learned_at, :version,
				:created_at, :updated_at
			)`, w)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: review record for learner %d word %d was created concurrently",
				models.ErrConflict, rec.LearnerID, rec.WordID)
		}
		if err != nil {
			return storeError("insert review record", err)
		}
		rec.Version, rec.CreatedAt, rec.UpdatedAt = w.Version, w.CreatedAt, w.UpdatedAt
		return nil
	}

	w.Version = rec.Version + 1
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE review_records SET
			ease_factor = :ease_factor,
			interval_days = :interval_days,
			repetitions = :repetitions,
			next_review_at = :next_review_at,
			last_review_at = :last_review_at,
			correct_count = :correct_count,
			incorrect_count = :incorrect_count,
			total_reviews = :total_reviews,
			last_difficulty = :last_difficulty,
			version = :version,
			updated_at = :updated_at
		WHERE learner_id = :learner_id AND word_id = :word_id AND version = :expected_version`, w)
	if err != nil {
		return storeError("update review record", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return storeError("update review record", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: review record for learner %d word %d changed since version %d",
			models.ErrConflict, rec.LearnerID, rec.WordID, rec.Version)
	}
	rec.Version, rec.UpdatedAt = w.Version, w.UpdatedAt
	return nil
}

// QueryDue returns records with next_review_at <= now, oldest first, ties by word id.
func (r *ReviewRecordRepository) QueryDue(ctx context.Context, learnerID int64, now time.Time, filter models.WordFilter, limit int) ([]models.DueWord, error) {
	query := `
		SELECT r.*,
			w.topic_id AS word_topic_id,
			t.language_id AS word_language_id,
			w.word AS word_text,
			w.translation AS word_translation,
			w.pronunciation AS word_pronunciation,
			w.part_of_speech AS word_part_of_speech,
			w.level AS word_level,
			w.frequency AS word_frequency
		FROM review_records r
		JOIN words w ON w.id = r.word_id
		JOIN topics t ON t.id = w.topic_id
		WHERE r.learner_id = ? AND r.next_review_at <= ?`
	args := []interface{}{learnerID, now.UTC()}
	query, args = appendWordFilter(query, args, filter)
	query += ` ORDER BY r.next_review_at ASC, r.word_id ASC LIMIT ?`
	args = append(args, limit)

	var rows []dueRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, storeError("query due words", err)
	}
	return lo.Map(rows, func(row dueRow, _ int) models.DueWord { return row.dueWord() }), nil
}

// FindNewWords returns topic words the learner has no record for, most
// frequent first, ties by id.
func (r *ReviewRecordRepository) FindNewWords(ctx context.Context, learnerID, topicID int64, limit int) ([]models.WordSummary, error) {
	query := wordSelect + `
		WHERE w.topic_id = ?
		AND NOT EXISTS (
			SELECT 1 FROM review_records r
			WHERE r.learner_id = ? AND r.word_id = w.id
		)
		ORDER BY w.frequency DESC, w.id ASC
		LIMIT ?`
	words := []models.WordSummary{}
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), topicID, learnerID, limit); err != nil {
		return nil, storeError("find new words", err)
	}
	return words, nil
}

// DueLearner is a learner with at least one due word.
type DueLearner struct {
	LearnerID int64 `db:"learner_id"`
	DueCount  int   `db:"due_count"`
}

// CountDueByLearner returns every learner with due records and how many are due.
func (r *ReviewRecordRepository) CountDueByLearner(ctx context.Context, now time.Time) ([]DueLearner, error) {
	var learners []DueLearner
	query := r.db.Rebind(`
		SELECT learner_id, COUNT(*) AS due_count
		FROM review_records
		WHERE next_review_at <= ?
		GROUP BY learner_id
		ORDER BY learner_id`)
	if err := r.db.SelectContext(ctx, &learners, query, now.UTC()); err != nil {
		return nil, storeError("count due words by learner", err)
	}
	return learners, nil
}

// appendWordFilter narrows a query that joins words as w and topics as t.
func appendWordFilter(query string, args []interface{}, filter models.WordFilter) (string, []interface{}) {
	if filter.LanguageID > 0 {
		query += ` AND t.language_id = ?`
		args = append(args, filter.LanguageID)
	}
	if filter.TopicID > 0 {
		query += ` AND w.topic_id = ?`
		args = append(args, filter.TopicID)
	}
	return query, args
}

func normalizeRecord(rec models.ReviewRecord) models.ReviewRecord {
	rec.NextReviewAt = rec.NextReviewAt.UTC()
	rec.FirstLearnedAt = rec.FirstLearnedAt.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	if rec.LastReviewAt != nil {
		last := rec.LastReviewAt.UTC()
		rec.LastReviewAt = &last
	}
	return rec
}
