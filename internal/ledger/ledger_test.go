package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordedCredit struct {
	sessionID uint
	amount    int
	reason    string
	ref       string
}

type fakeRecorder struct {
	mu      sync.Mutex
	credits []recordedCredit
	err     error
}

func (f *fakeRecorder) RecordCredit(ctx context.Context, sessionID uint, amount int, reason, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.credits = append(f.credits, recordedCredit{sessionID, amount, reason, ref})
	return nil
}

func TestCreditAccumulates(t *testing.T) {
	l, err := New(0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	prev := l.Total()
	for _, amount := range []int{40, 5, 10, 100, 1} {
		total, err := l.Credit(ctx, amount, ReasonTaskCompleted, "")
		if err != nil {
			t.Fatalf("Credit(%d) failed: %v", amount, err)
		}
		if total != prev+amount {
			t.Errorf("Expected total %d, got %d", prev+amount, total)
		}
		if total < prev {
			t.Errorf("Total decreased from %d to %d", prev, total)
		}
		prev = total
	}
	if l.Total() != 156 {
		t.Errorf("Expected 156, got %d", l.Total())
	}
}

func TestCreditRejectsNonPositive(t *testing.T) {
	l, _ := New(100)
	for _, amount := range []int{0, -5} {
		total, err := l.Credit(context.Background(), amount, ReasonChatMessage, "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Credit(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
		if total != 100 {
			t.Errorf("Credit(%d): total should be unchanged, got %d", amount, total)
		}
	}
}

func TestNewRejectsNegativeOpening(t *testing.T) {
	if _, err := New(-1); err == nil {
		t.Fatal("Expected error for negative opening balance")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		total   int
		level   int
		inLevel int
		toNext  int
	}{
		{0, 1, 0, 500},
		{499, 1, 499, 1},
		{500, 2, 0, 500},
		{1250, 3, 250, 250},
		{1999, 4, 499, 1},
	}

	for _, tt := range tests {
		p := ProgressFor(tt.total)
		if p.Level != tt.level || p.InLevel != tt.inLevel || p.PointsToNext != tt.toNext {
			t.Errorf("ProgressFor(%d) = %+v, want level %d, in %d, next %d",
				tt.total, p, tt.level, tt.inLevel, tt.toNext)
		}
	}

	l, _ := New(1250)
	if l.Level() != 3 {
		t.Errorf("Expected level 3, got %d", l.Level())
	}
	if l.Progress().Total != 1250 {
		t.Errorf("Expected progress total 1250, got %d", l.Progress().Total)
	}
}

func TestRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	l, _ := New(0, WithRecorder(7, rec))

	l.Credit(context.Background(), 40, ReasonTaskCompleted, "task-1")
	l.Credit(context.Background(), 0, ReasonChatMessage, "") // rejected, not recorded

	if len(rec.credits) != 1 {
		t.Fatalf("Expected 1 recorded credit, got %d", len(rec.credits))
	}
	got := rec.credits[0]
	if got.sessionID != 7 || got.amount != 40 || got.reason != "task_completed" || got.ref != "task-1" {
		t.Errorf("Unexpected recorded credit: %+v", got)
	}
}

func TestRecorderFailureKeepsCredit(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	l, _ := New(0, WithRecorder(1, rec))

	total, err := l.Credit(context.Background(), 25, ReasonSuggestionAccepted, "s-1")
	if err != nil {
		t.Fatalf("Recorder failure should not fail the credit: %v", err)
	}
	if total != 25 {
		t.Errorf("Expected total 25, got %d", total)
	}
}

func TestConcurrentCredits(t *testing.T) {
	l, _ := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Credit(context.Background(), ChatMessagePoints, ReasonChatMessage, "")
		}()
	}
	wg.Wait()

	if l.Total() != 50*ChatMessagePoints {
		t.Errorf("Expected %d, got %d", 50*ChatMessagePoints, l.Total())
	}
}

// sharedRecorder stores credits in one place, like a database several
// processes write to
type sharedRecorder struct {
	fakeRecorder
	sumErr error
}

func (s *sharedRecorder) SumCredits(ctx context.Context, sessionID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	total := 0
	for _, c := range s.credits {
		if c.sessionID == sessionID {
			total += c.amount
		}
	}
	return total, nil
}

func TestTotalSeesCreditsFromOtherLedgers(t *testing.T) {
	shared := &sharedRecorder{}
	ctx := context.Background()

	serving, _ := New(0, WithRecorder(7, shared))
	cli, _ := New(0, WithRecorder(7, shared))

	if _, err := cli.Credit(ctx, 40, ReasonTaskCompleted, "task-1"); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if serving.Total() != 40 {
		t.Errorf("Expected the other ledger's credit to show, got %d", serving.Total())
	}
	if p := serving.Progress(); p.Total != 40 || p.PointsToNext != PointsPerLevel-40 {
		t.Errorf("Unexpected progress %+v", p)
	}

	total, err := serving.Credit(ctx, 5, ReasonChatMessage, "")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if total != 45 {
		t.Errorf("Expected Credit to return 45, got %d", total)
	}
	if cli.Total() != 45 {
		t.Errorf("Expected 45 on the first ledger, got %d", cli.Total())
	}
}

func TestTotalFallsBackWhenSumFails(t *testing.T) {
	shared := &sharedRecorder{}
	l, _ := New(0, WithRecorder(1, shared))
	if _, err := l.Credit(context.Background(), 10, ReasonTaskCompleted, ""); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	shared.sumErr = errors.New("disk gone")
	if l.Total() != 10 {
		t.Errorf("Expected in-memory total 10, got %d", l.Total())
	}
}
