package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glyphdex/glyphdex/internal/domain"
)

type mockReader struct {
	used     int64
	err      error
	resetsAt time.Time
}

func (m *mockReader) Used(_ context.Context, _ string) (int64, error) { return m.used, m.err }
func (m *mockReader) ResetsAt() time.Time                             { return m.resetsAt }

func TestReport_Success(t *testing.T) {
	resetsAt := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	svc := New(&mockReader{used: 30, resetsAt: resetsAt})

	r, err := svc.Report(context.Background(), &domain.Identity{ID: "acct-1", SearchLimit: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Identity != "acct-1" || r.Limit != 100 || r.Used != 30 || r.Remaining != 70 {
		t.Errorf("unexpected report: %+v", r)
	}
	if !r.ResetsAt.Equal(resetsAt) {
		t.Errorf("expected resetsAt %v, got %v", resetsAt, r.ResetsAt)
	}
}

func TestReport_RemainingClampedAtZero(t *testing.T) {
	svc := New(&mockReader{used: 150})

	r, err := svc.Report(context.Background(), &domain.Identity{ID: "acct-1", SearchLimit: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Remaining != 0 {
		t.Errorf("expected remaining clamped to 0, got %d", r.Remaining)
	}
}

func TestReport_Anonymous(t *testing.T) {
	svc := New(&mockReader{})

	if _, err := svc.Report(context.Background(), nil); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestReport_ReaderError(t *testing.T) {
	svc := New(&mockReader{err: errors.New("db down")})

	if _, err := svc.Report(context.Background(), &domain.Identity{ID: "acct-1", SearchLimit: 100}); err == nil {
		t.Fatal("expected reader error to propagate")
	}
}
