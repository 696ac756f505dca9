package learning

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/vocabsrs/pkg/models"
)

// Engine schedules vocabulary reviews for learners. It owns no goroutines and is
// safe for concurrent use as long as its stores are.
type Engine struct {
	records RecordStore
	catalog Catalog
	logger  *zap.Logger
	clock   func() time.Time
}

// NewEngine wires the engine with its collaborators.
func NewEngine(records RecordStore, catalog Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		records: records,
		catalog: catalog,
		logger:  logger,
		clock:   time.Now,
	}
}

func validateID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", models.ErrInvalidInput, name, id)
	}
	return nil
}

func validateOptionalID(name string, id int64) error {
	if id < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", models.ErrInvalidInput, name, id)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", models.ErrInvalidInput, limit)
	}
	return nil
}

func (e *Engine) requireTopic(ctx context.Context, topicID int64) (*models.Topic, error) {
	topic, err := e.catalog.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: topic %d", models.ErrNotFound, topicID)
	}
	return topic, nil
}
