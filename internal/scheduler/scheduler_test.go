package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
)

type fakeDueCounter struct {
	learners []database.DueLearner
	err      error
	calls    int
}

func (f *fakeDueCounter) CountDueByLearner(ctx context.Context, now time.Time) ([]database.DueLearner, error) {
	f.calls++
	return f.learners, f.err
}

type reminder struct {
	learnerID int64
	count     int
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []reminder
	failFor int64
}

func (f *fakeNotifier) SendReminder(ctx context.Context, learnerID int64, dueCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if learnerID == f.failFor {
		return errors.New("blocked by user")
	}
	f.sent = append(f.sent, reminder{learnerID, dueCount})
	return nil
}

func testConfig() config.Reminders {
	return config.Reminders{Enabled: true, Every: time.Hour, StartHour: 8, EndHour: 22, MaxWords: 20, Timezone: "UTC"}
}

func newTestScheduler(due DueCounter, n Notifier, at time.Time) *Scheduler {
	s := New(due, n, testConfig(), zap.NewNop())
	s.clock = func() time.Time { return at }
	return s
}

func TestRunOnce_SendsCappedReminders(t *testing.T) {
	due := &fakeDueCounter{learners: []database.DueLearner{
		{LearnerID: 1, DueCount: 3},
		{LearnerID: 2, DueCount: 45},
	}}
	n := &fakeNotifier{}
	s := newTestScheduler(due, n, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	sent, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
	want := []reminder{{1, 3}, {2, 20}}
	for i, r := range want {
		if n.sent[i] != r {
			t.Fatalf("reminder %d = %+v, want %+v", i, n.sent[i], r)
		}
	}
}

func TestRunOnce_SkipsOutsideHours(t *testing.T) {
	due := &fakeDueCounter{learners: []database.DueLearner{{LearnerID: 1, DueCount: 3}}}
	n := &fakeNotifier{}
	s := newTestScheduler(due, n, time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC))

	sent, err := s.RunOnce(context.Background())
	if err != nil || sent != 0 {
		t.Fatalf("sent = %d, err = %v", sent, err)
	}
	if due.calls != 0 {
		t.Fatal("store queried outside reminder hours")
	}
}

func TestRunOnce_ContinuesAfterDeliveryFailure(t *testing.T) {
	due := &fakeDueCounter{learners: []database.DueLearner{
		{LearnerID: 1, DueCount: 3},
		{LearnerID: 2, DueCount: 4},
	}}
	n := &fakeNotifier{failFor: 1}
	s := newTestScheduler(due, n, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	sent, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sent != 1 || len(n.sent) != 1 || n.sent[0].learnerID != 2 {
		t.Fatalf("sent = %d, reminders = %+v", sent, n.sent)
	}
}

func TestRunOnce_StoreError(t *testing.T) {
	storeErr := errors.New("database is locked")
	s := newTestScheduler(&fakeDueCounter{err: storeErr}, &fakeNotifier{}, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	if _, err := s.RunOnce(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want %v", err, storeErr)
	}
}

func TestWithinHours(t *testing.T) {
	tests := []struct {
		hour, start, end int
		want             bool
	}{
		{8, 8, 22, true},
		{22, 8, 22, true},
		{7, 8, 22, false},
		{23, 8, 22, false},
		{23, 20, 2, true},
		{1, 20, 2, true},
		{12, 20, 2, false},
	}
	for _, tt := range tests {
		if got := withinHours(tt.hour, tt.start, tt.end); got != tt.want {
			t.Errorf("withinHours(%d, %d, %d) = %v, want %v", tt.hour, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestStartAndStop(t *testing.T) {
	s := newTestScheduler(&fakeDueCounter{}, &fakeNotifier{}, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}
