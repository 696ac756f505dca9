package learning

import (
	"context"

	"github.com/example/vocabsrs/pkg/models"
)

// DueQuery selects due words. LanguageID 0 means every language.
type DueQuery struct {
	LanguageID int64
	Limit      int
}

// GetDueWords returns the learner's due words, most overdue first. The engine
// enforces no upper bound on the limit.
func (e *Engine) GetDueWords(ctx context.Context, learnerID int64, q DueQuery) ([]models.DueWord, error) {
	if err := validateID("learner id", learnerID); err != nil {
		return nil, err
	}
	if err := validateOptionalID("language id", q.LanguageID); err != nil {
		return nil, err
	}
	if err := validateLimit(q.Limit); err != nil {
		return nil, err
	}
	return e.records.QueryDue(ctx, learnerID, e.clock(), models.WordFilter{LanguageID: q.LanguageID}, q.Limit)
}
