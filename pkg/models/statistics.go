package models

// StatusStat aggregates the records that currently classify as one status.
type StatusStat struct {
	Count          int     `json:"count"`
	AvgCorrectRate float64 `json:"avg_correct_rate"`
}

// StatusCounts maps every status to its aggregate. Missing statuses have zero values.
type StatusCounts map[Status]StatusStat

// Total returns the number of records across all statuses.
func (c StatusCounts) Total() int {
	total := 0
	for _, s := range c {
		total += s.Count
	}
	return total
}

// Statistics is the learner overview returned by the engine.
type Statistics struct {
	ByStatus           StatusCounts `json:"by_status"`
	DueTodayCount      int          `json:"due_today_count"`
	ReviewedTodayCount int          `json:"reviewed_today_count"`
}

// TopicProgress summarises a learner's progress inside one topic.
type TopicProgress struct {
	TopicID         int64 `json:"topic_id"`
	Total           int   `json:"total"`
	New             int   `json:"new"`
	Learned         int   `json:"learned"` // learning + review + mastered
	Mastered        int   `json:"mastered"`
	ProgressPercent int   `json:"progress_percent"`
}
