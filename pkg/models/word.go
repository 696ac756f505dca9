package models

// WordSummary is the catalog view of a word. Scheduling only depends on the ids and Frequency.
type WordSummary struct {
	ID            int64  `json:"id" db:"id"`
	TopicID       int64  `json:"topic_id" db:"topic_id"`
	LanguageID    int64  `json:"language_id" db:"language_id"`
	Word          string `json:"word" db:"word"`
	Translation   string `json:"translation" db:"translation"`
	Pronunciation string `json:"pronunciation" db:"pronunciation"`
	PartOfSpeech  string `json:"part_of_speech" db:"part_of_speech"`
	Level         string `json:"level" db:"level"`
	Frequency     int    `json:"frequency" db:"frequency"` // higher = more common, 1-10
}

// WordFilter restricts record and catalog queries. Zero fields are ignored.
type WordFilter struct {
	LanguageID int64
	TopicID    int64
}
