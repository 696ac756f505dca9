package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

// LanguageRepository handles database operations for languages
type LanguageRepository struct {
	db *sqlx.DB
}

// NewLanguageRepository creates a new repository instance
func NewLanguageRepository(db *sqlx.DB) *LanguageRepository {
	return &LanguageRepository{db: db}
}

// GetByCode returns the language with the code, or nil. Codes are case-insensitive.
func (r *LanguageRepository) GetByCode(ctx context.Context, code string) (*models.Language, error) {
	var lang models.Language
	query := r.db.Rebind(`SELECT * FROM languages WHERE code = ?`)
	err := r.db.GetContext(ctx, &lang, query, strings.ToUpper(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get language", err)
	}
	return &lang, nil
}

// Upsert creates the language or renames the existing one with the same code.
func (r *LanguageRepository) Upsert(ctx context.Context, lang *models.Language) error {
	lang.Code = strings.ToUpper(lang.Code)
	query := r.db.Rebind(`
		INSERT INTO languages (code, name) VALUES (?, ?)
		ON CONFLICT (code) DO UPDATE SET name = excluded.name
		RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, lang.Code, lang.Name).Scan(&lang.ID); err != nil {
		return storeError("upsert language", err)
	}
	return nil
}
