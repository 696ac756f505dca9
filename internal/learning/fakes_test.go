package learning

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	mu     sync.RWMutex
	words  map[int64]models.WordSummary
	topics map[int64]models.Topic
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		words:  make(map[int64]models.WordSummary),
		topics: make(map[int64]models.Topic),
	}
}

func (c *fakeCatalog) addTopic(id, languageID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[id] = models.Topic{ID: id, LanguageID: languageID, Name: "topic"}
}

func (c *fakeCatalog) addWord(id, topicID int64, frequency int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.words[id] = models.WordSummary{
		ID:         id,
		TopicID:    topicID,
		LanguageID: c.topics[topicID].LanguageID,
		Frequency:  frequency,
	}
}

func (c *fakeCatalog) word(id int64) (models.WordSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.words[id]
	return w, ok
}

func (c *fakeCatalog) GetWord(ctx context.Context, id int64) (*models.WordSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, ok := c.word(id)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (c *fakeCatalog) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.topics[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// topicWords returns the words of a topic, most frequent first, ties by id.
func (c *fakeCatalog) topicWords(topicID int64) []models.WordSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	words := []models.WordSummary{}
	for _, w := range c.words {
		if w.TopicID == topicID {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Frequency == words[j].Frequency {
			return words[i].ID < words[j].ID
		}
		return words[i].Frequency > words[j].Frequency
	})
	return words
}

func (c *fakeCatalog) CountByTopic(ctx context.Context, topicID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(c.topicWords(topicID)), nil
}

type recordKey struct {
	learnerID, wordID int64
}

type fakeRecordStore struct {
	mu      sync.RWMutex
	catalog *fakeCatalog
	records map[recordKey]models.ReviewRecord

	gets, upserts int
	upsertErr     error
	// beforeUpsert runs without the lock held, right before a write is applied.
	beforeUpsert func()
}

func newFakeRecordStore(catalog *fakeCatalog) *fakeRecordStore {
	return &fakeRecordStore{catalog: catalog, records: make(map[recordKey]models.ReviewRecord)}
}

func (s *fakeRecordStore) put(rec models.ReviewRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Version == 0 {
		rec.Version = 1
	}
	s.records[recordKey{rec.LearnerID, rec.WordID}] = rec
}

func (s *fakeRecordStore) get(learnerID, wordID int64) (models.ReviewRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[recordKey{learnerID, wordID}]
	return rec, ok
}

func (s *fakeRecordStore) GetRecord(ctx context.Context, learnerID, wordID int64) (*models.ReviewRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	rec, ok := s.get(learnerID, wordID)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeRecordStore) UpsertRecord(ctx context.Context, rec *models.ReviewRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.beforeUpsert != nil {
		s.beforeUpsert()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	key := recordKey{rec.LearnerID, rec.WordID}
	current, exists := s.records[key]
	switch {
	case rec.Version == 0 && exists:
		return models.ErrConflict
	case rec.Version != 0 && (!exists || current.Version != rec.Version):
		return models.ErrConflict
	}
	rec.Version++
	s.records[key] = *rec
	return nil
}

func (s *fakeRecordStore) matches(rec models.ReviewRecord, learnerID int64, filter models.WordFilter) (models.WordSummary, bool) {
	if rec.LearnerID != learnerID {
		return models.WordSummary{}, false
	}
	w, ok := s.catalog.word(rec.WordID)
	if !ok {
		return w, false
	}
	if filter.LanguageID > 0 && w.LanguageID != filter.LanguageID {
		return w, false
	}
	if filter.TopicID > 0 && w.TopicID != filter.TopicID {
		return w, false
	}
	return w, true
}

func (s *fakeRecordStore) QueryDue(ctx context.Context, learnerID int64, now time.Time, filter models.WordFilter, limit int) ([]models.DueWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []models.DueWord
	for _, rec := range s.records {
		w, ok := s.matches(rec, learnerID, filter)
		if !ok || rec.NextReviewAt.After(now) {
			continue
		}
		due = append(due, models.DueWord{Record: rec, Word: w})
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].Record, due[j].Record
		if a.NextReviewAt.Equal(b.NextReviewAt) {
			return a.WordID < b.WordID
		}
		return a.NextReviewAt.Before(b.NextReviewAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *fakeRecordStore) FindNewWords(ctx context.Context, learnerID, topicID int64, limit int) ([]models.WordSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates := s.catalog.topicWords(topicID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	words := []models.WordSummary{}
	for _, w := range candidates {
		if _, reviewed := s.records[recordKey{learnerID, w.ID}]; !reviewed {
			words = append(words, w)
		}
	}
	if len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

func (s *fakeRecordStore) CountByStatus(ctx context.Context, learnerID int64, filter models.WordFilter) (models.StatusCounts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := models.StatusCounts{}
	sums := map[models.Status]float64{}
	for _, rec := range s.records {
		if _, ok := s.matches(rec, learnerID, filter); !ok {
			continue
		}
		status := spaced_repetition.StatusOf(&rec)
		stat := counts[status]
		stat.Count++
		counts[status] = stat
		sums[status] += rec.CorrectRate()
	}
	for status, stat := range counts {
		stat.AvgCorrectRate = sums[status] / float64(stat.Count)
		counts[status] = stat
	}
	return counts, nil
}

func (s *fakeRecordStore) CountDueToday(ctx context.Context, learnerID int64, now time.Time, filter models.WordFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, rec := range s.records {
		if _, ok := s.matches(rec, learnerID, filter); ok && !rec.NextReviewAt.After(now) {
			n++
		}
	}
	return n, nil
}

func (s *fakeRecordStore) CountReviewedBetween(ctx context.Context, learnerID int64, from, to time.Time, filter models.WordFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, rec := range s.records {
		if _, ok := s.matches(rec, learnerID, filter); !ok || rec.LastReviewAt == nil {
			continue
		}
		if !rec.LastReviewAt.Before(from) && rec.LastReviewAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// newTestEngine returns an engine over fresh fakes with the clock fixed at t0.
func newTestEngine() (*Engine, *fakeRecordStore, *fakeCatalog) {
	catalog := newFakeCatalog()
	store := newFakeRecordStore(catalog)
	e := NewEngine(store, catalog, nil)
	e.clock = func() time.Time { return t0 }
	return e, store, catalog
}

// dueRecord is a reviewed record for word due at due.
func dueRecord(learnerID, wordID int64, due time.Time, reps int) models.ReviewRecord {
	rec := *models.NewReviewRecord(learnerID, wordID, t0.AddDate(0, 0, -30))
	rec.Repetitions = reps
	rec.CorrectCount = reps
	rec.TotalReviews = reps
	rec.NextReviewAt = due
	return rec
}
