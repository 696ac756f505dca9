package models

// Topic groups catalog words of one language
type Topic struct {
	ID          int64  `json:"id" db:"id"`
	LanguageID  int64  `json:"language_id" db:"language_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Level       string `json:"level" db:"level"`
	SortOrder   int    `json:"sort_order" db:"sort_order"`
}

// Language is a learnable language identified by a two-letter upper-case code.
type Language struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// Word levels used by the catalog.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)
