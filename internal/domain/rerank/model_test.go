package rerank

import (
	"testing"
	"time"
)

func userID(v string) *string { return &v }

func TestCurrent_Empty(t *testing.T) {
	t.Parallel()

	if _, ok := Current(nil); ok {
		t.Fatal("expected no current snapshot for empty input")
	}
}

func TestCurrent_LatestAutoWhenNoUserCreated(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got, ok := Current([]Snapshot{
		{ID: 1, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
	})
	if !ok || got.ID != 3 {
		t.Fatalf("expected snapshot 3, got %+v ok=%t", got, ok)
	}
}

func TestCurrent_UserCreatedBeatsNewerAuto(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got, ok := Current([]Snapshot{
		{ID: 1, CreatedBy: userID("42"), CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(24 * time.Hour)},
	})
	if !ok || got.ID != 1 {
		t.Fatalf("expected user snapshot 1 to win, got %+v", got)
	}
	if got.Tier() != TierUserCreated {
		t.Fatalf("expected user tier, got %s", got.Tier())
	}
}

func TestCurrent_LatestUserCreatedAmongSeveral(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got, _ := Current([]Snapshot{
		{ID: 1, CreatedBy: userID("42"), CreatedAt: base},
		{ID: 2, CreatedBy: userID("7"), CreatedAt: base.Add(time.Hour)},
		{ID: 3, CreatedAt: base.Add(48 * time.Hour)},
	})
	if got.ID != 2 {
		t.Fatalf("expected snapshot 2, got %d", got.ID)
	}
}

func TestCurrent_TimestampTieFallsBackToID(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	got, _ := Current([]Snapshot{
		{ID: 5, CreatedAt: at},
		{ID: 9, CreatedAt: at},
	})
	if got.ID != 9 {
		t.Fatalf("expected higher id to win the tie, got %d", got.ID)
	}
}
