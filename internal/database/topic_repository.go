package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

// TopicRepository handles database operations for topics
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new repository instance
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// GetTopic returns a topic by id, or nil when it does not exist.
func (r *TopicRepository) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.GetContext(ctx, &topic, r.db.Rebind(`SELECT * FROM topics WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get topic", err)
	}
	return &topic, nil
}

// ListByLanguage returns the topics of a language in display order.
// languageID 0 lists every topic.
func (r *TopicRepository) ListByLanguage(ctx context.Context, languageID int64) ([]models.Topic, error) {
	topics := []models.Topic{}
	query := `SELECT * FROM topics`
	var args []interface{}
	if languageID > 0 {
		query += ` WHERE language_id = ?`
		args = append(args, languageID)
	}
	query += ` ORDER BY language_id, sort_order, id`
	if err := r.db.SelectContext(ctx, &topics, r.db.Rebind(query), args...); err != nil {
		return nil, storeError("list topics", err)
	}
	return topics, nil
}

// Upsert creates a topic or updates the one with the same name in the language.
// An existing topic keeps its sort order. topic.ID and topic.SortOrder are set
// from the stored row.
func (r *TopicRepository) Upsert(ctx context.Context, topic *models.Topic) error {
	query := r.db.Rebind(`
		INSERT INTO topics (language_id, name, description, level, sort_order)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (language_id, name) DO UPDATE SET
			description = excluded.description,
			level = excluded.level
		RETURNING id, sort_order`)
	err := r.db.QueryRowxContext(ctx, query,
		topic.LanguageID,
		topic.Name,
		topic.Description,
		topic.Level,
		topic.SortOrder,
	).Scan(&topic.ID, &topic.SortOrder)
	if err != nil {
		return storeError("upsert topic", err)
	}
	return nil
}
