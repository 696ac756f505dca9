package database

import "github.com/jmoiron/sqlx"

// Catalog is the read side of the vocabulary catalog used by the learning engine.
type Catalog struct {
	*WordRepository
	*TopicRepository
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{
		WordRepository:  NewWordRepository(db),
		TopicRepository: NewTopicRepository(db),
	}
}
