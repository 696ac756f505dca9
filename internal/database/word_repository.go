package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

const wordSelect = `
	SELECT w.id, w.topic_id, t.language_id, w.word, w.translation,
		w.pronunciation, w.part_of_speech, w.level, w.frequency
	FROM words w
	JOIN topics t ON t.id = w.topic_id`

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetWord returns a word by id, or nil when it does not exist.
func (r *WordRepository) GetWord(ctx context.Context, id int64) (*models.WordSummary, error) {
	var word models.WordSummary
	err := r.db.GetContext(ctx, &word, r.db.Rebind(wordSelect+` WHERE w.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get word", err)
	}
	return &word, nil
}

// FindByTopic returns topic words, most frequent first, ties by id.
func (r *WordRepository) FindByTopic(ctx context.Context, topicID int64, limit int) ([]models.WordSummary, error) {
	query := wordSelect + ` WHERE w.topic_id = ? ORDER BY w.frequency DESC, w.id ASC LIMIT ?`
	words := []models.WordSummary{}
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), topicID, limit); err != nil {
		return nil, storeError("find topic words", err)
	}
	return words, nil
}

// CountByTopic returns the number of words in a topic.
func (r *WordRepository) CountByTopic(ctx context.Context, topicID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM words WHERE topic_id = ?`), topicID); err != nil {
		return 0, storeError("count topic words", err)
	}
	return count, nil
}

// Upsert inserts a word or updates the existing word with the same text in the
// same topic. word.ID is set from the stored row.
func (r *WordRepository) Upsert(ctx context.Context, word *models.WordSummary) error {
	query := r.db.Rebind(`
		INSERT INTO words (topic_id, word, translation, pronunciation, part_of_speech, level, frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (word, topic_id) DO UPDATE SET
			translation = excluded.translation,
			pronunciation = excluded.pronunciation,
			part_of_speech = excluded.part_of_speech,
			level = excluded.level,
			frequency = excluded.frequency
		RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		word.TopicID,
		word.Word,
		word.Translation,
		word.Pronunciation,
		word.PartOfSpeech,
		word.Level,
		word.Frequency,
	).Scan(&word.ID)
	if err != nil {
		return storeError("upsert word", err)
	}
	return nil
}
