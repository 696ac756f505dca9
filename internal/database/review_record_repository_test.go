package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

const learner = int64(42)

func newRecordRepo(f fixture) *ReviewRecordRepository {
	repo := NewReviewRecordRepository(f.db)
	repo.now = func() time.Time { return t0 }
	return repo
}

// storeRecord inserts a record due at due with the given counters.
func storeRecord(t *testing.T, repo *ReviewRecordRepository, wordID int64, due time.Time, reps, correct, total int) *models.ReviewRecord {
	t.Helper()
	rec := models.NewReviewRecord(learner, wordID, t0)
	rec.NextReviewAt = due
	rec.Repetitions = reps
	rec.CorrectCount = correct
	rec.IncorrectCount = total - correct
	rec.TotalReviews = total
	last := t0
	rec.LastReviewAt = &last
	rec.LastDifficulty = 4
	if err := repo.UpsertRecord(context.Background(), rec); err != nil {
		t.Fatalf("store record: %v", err)
	}
	return rec
}

func TestReviewRecordRepository_GetMissing(t *testing.T) {
	f := seedCatalog(t)
	rec, err := newRecordRepo(f).GetRecord(context.Background(), learner, f.words[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestReviewRecordRepository_InsertThenGet(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	berlin := time.FixedZone("CEST", 2*60*60)
	rec := models.NewReviewRecord(learner, f.words[0], t0.In(berlin))
	rec.EaseFactor = 2.6
	rec.IntervalDays = 6
	rec.Repetitions = 2
	rec.NextReviewAt = t0.AddDate(0, 0, 6)
	last := t0
	rec.LastReviewAt = &last
	rec.CorrectCount, rec.TotalReviews, rec.LastDifficulty = 2, 2, 5

	if err := repo.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.Version != 1 {
		t.Fatalf("version = %d, want 1", rec.Version)
	}

	got, err := repo.GetRecord(ctx, learner, f.words[0])
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.EaseFactor != 2.6 || got.IntervalDays != 6 || got.Repetitions != 2 || got.Version != 1 {
		t.Fatalf("unexpected record %+v", got)
	}
	if !got.NextReviewAt.Equal(rec.NextReviewAt) || !got.FirstLearnedAt.Equal(t0) {
		t.Fatalf("times not preserved: next=%v first=%v", got.NextReviewAt, got.FirstLearnedAt)
	}
	if got.LastReviewAt == nil || !got.LastReviewAt.Equal(t0) {
		t.Fatalf("last review = %v", got.LastReviewAt)
	}
	if got.FirstLearnedAt.Location() != time.UTC {
		t.Fatalf("times should come back in UTC, got %v", got.FirstLearnedAt.Location())
	}
}

func TestReviewRecordRepository_UpdateBumpsVersion(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	rec := storeRecord(t, repo, f.words[0], t0, 1, 1, 1)
	rec.Repetitions = 2
	rec.IntervalDays = 6
	if err := repo.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Version != 2 {
		t.Fatalf("version = %d, want 2", rec.Version)
	}
	got, _ := repo.GetRecord(ctx, learner, f.words[0])
	if got.Repetitions != 2 || got.IntervalDays != 6 || got.Version != 2 {
		t.Fatalf("update not stored: %+v", got)
	}
}

func TestReviewRecordRepository_Conflicts(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	storeRecord(t, repo, f.words[0], t0, 1, 1, 1)

	// a second first-review of the same word loses the race
	dup := models.NewReviewRecord(learner, f.words[0], t0)
	if err := repo.UpsertRecord(ctx, dup); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("duplicate insert err = %v, want ErrConflict", err)
	}

	a, _ := repo.GetRecord(ctx, learner, f.words[0])
	b, _ := repo.GetRecord(ctx, learner, f.words[0])
	a.Repetitions = 2
	if err := repo.UpsertRecord(ctx, a); err != nil {
		t.Fatalf("first writer: %v", err)
	}
	b.Repetitions = 0
	if err := repo.UpsertRecord(ctx, b); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("stale update err = %v, want ErrConflict", err)
	}

	got, _ := repo.GetRecord(ctx, learner, f.words[0])
	if got.Repetitions != 2 {
		t.Fatalf("stale write applied: %+v", got)
	}
}

func TestReviewRecordRepository_QueryDue(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	storeRecord(t, repo, f.words[0], t0.Add(-1*time.Hour), 1, 1, 1)
	storeRecord(t, repo, f.words[1], t0.Add(-48*time.Hour), 2, 2, 2)
	storeRecord(t, repo, f.words[2], t0.Add(-1*time.Hour), 1, 0, 1)
	storeRecord(t, repo, f.words[3], t0.Add(time.Minute), 1, 1, 1)
	storeRecord(t, repo, f.foreignWord, t0, 1, 1, 1)

	due, err := repo.QueryDue(ctx, learner, t0, models.WordFilter{}, 10)
	if err != nil {
		t.Fatalf("query due: %v", err)
	}
	var got []int64
	for i, d := range due {
		if d.Record.NextReviewAt.After(t0) {
			t.Fatalf("word %d not due yet", d.Word.ID)
		}
		if i > 0 && d.Record.NextReviewAt.Before(due[i-1].Record.NextReviewAt) {
			t.Fatalf("not ordered by due time: %v", due)
		}
		if d.Word.ID != d.Record.WordID {
			t.Fatalf("word join mismatch: %+v", d)
		}
		got = append(got, d.Word.ID)
	}
	want := []int64{f.words[1], f.words[0], f.words[2], f.foreignWord}
	if !equalIDs(got, want) {
		t.Fatalf("due ids = %v, want %v", got, want)
	}
	if due[0].Word.Word != "water" || due[0].Word.LanguageID != f.languageID {
		t.Fatalf("word not joined: %+v", due[0].Word)
	}

	due, err = repo.QueryDue(ctx, learner, t0, models.WordFilter{LanguageID: f.otherLang}, 10)
	if err != nil || len(due) != 1 || due[0].Word.ID != f.foreignWord {
		t.Fatalf("language filter: %+v %v", due, err)
	}

	due, err = repo.QueryDue(ctx, learner, t0, models.WordFilter{TopicID: f.topicID}, 2)
	if err != nil || len(due) != 2 || due[0].Word.ID != f.words[1] || due[1].Word.ID != f.words[0] {
		t.Fatalf("topic filter with limit: %+v %v", due, err)
	}

	due, err = repo.QueryDue(ctx, learner+1, t0, models.WordFilter{}, 10)
	if err != nil || len(due) != 0 {
		t.Fatalf("other learner: %+v %v", due, err)
	}
}

func TestReviewRecordRepository_FindNewWords(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	storeRecord(t, repo, f.words[1], t0, 1, 1, 1)
	storeRecord(t, repo, f.foreignWord, t0, 1, 1, 1)

	got, err := repo.FindNewWords(ctx, learner, f.topicID, 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []int64{f.words[2], f.words[0]}
	if !equalIDs(wordIDs(got), want) {
		t.Fatalf("ids = %v, want %v", wordIDs(got), want)
	}

	// another learner has no records
	got, err = repo.FindNewWords(ctx, learner+1, f.topicID, 10)
	if err != nil || len(got) != 4 {
		t.Fatalf("other learner: %v %v", wordIDs(got), err)
	}

	for _, id := range []int64{f.words[0], f.words[2], f.words[3]} {
		storeRecord(t, repo, id, t0, 1, 1, 1)
	}
	got, err = repo.FindNewWords(ctx, learner, f.topicID, 5)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReviewRecordRepository_FindNewWordsWithLargeHistory(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	// more reviewed words than SQLite accepts as bound variables
	const history = 40000
	if _, err := f.db.ExecContext(ctx, `
		WITH RECURSIVE seq(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM seq WHERE n < ?)
		INSERT INTO words (topic_id, word, translation)
		SELECT ?, 'word' || n, 'translation' || n FROM seq`, history, f.otherTopic); err != nil {
		t.Fatalf("seed words: %v", err)
	}
	if _, err := f.db.ExecContext(ctx, `
		INSERT INTO review_records (learner_id, word_id, next_review_at, first_learned_at, created_at, updated_at)
		SELECT ?, id, '2025-06-16 10:00:00+00:00', '2025-06-15 10:00:00+00:00',
			'2025-06-15 10:00:00+00:00', '2025-06-15 10:00:00+00:00'
		FROM words WHERE topic_id = ?`, learner, f.otherTopic); err != nil {
		t.Fatalf("seed records: %v", err)
	}
	storeRecord(t, repo, f.words[1], t0, 1, 1, 1)

	got, err := repo.FindNewWords(ctx, learner, f.topicID, 5)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []int64{f.words[2], f.words[0], f.words[3]}
	if !equalIDs(wordIDs(got), want) {
		t.Fatalf("ids = %v, want %v", wordIDs(got), want)
	}
}

func TestReviewRecordRepository_CountDueByLearner(t *testing.T) {
	f := seedCatalog(t)
	repo := newRecordRepo(f)
	ctx := context.Background()

	storeRecord(t, repo, f.words[2], t0.Add(-time.Hour), 1, 1, 1)
	storeRecord(t, repo, f.words[0], t0.AddDate(0, 0, 3), 1, 1, 1)

	learners, err := repo.CountDueByLearner(ctx, t0)
	if err != nil {
		t.Fatalf("due learners: %v", err)
	}
	if len(learners) != 1 || learners[0].LearnerID != learner || learners[0].DueCount != 1 {
		t.Fatalf("due learners = %+v", learners)
	}
}
