package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/recruitboard/recruitboard/internal/domain/rerank"
)

// RerankRepository keeps class snapshots and their line items in process
// memory.
type RerankRepository struct {
	mu        sync.RWMutex
	nextID    int64
	snapshots []rerank.Snapshot
	players   map[int64][]rerank.PlayerRow
}

func NewRerankRepository() *RerankRepository {
	return &RerankRepository{players: make(map[int64][]rerank.PlayerRow)}
}

func (r *RerankRepository) ListByBucket(_ context.Context, year int, team string) ([]rerank.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rerank.Snapshot, 0)
	for _, item := range r.snapshots {
		if item.Year == year && strings.EqualFold(item.Team, team) {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *RerankRepository) ListByYear(_ context.Context, year int) ([]rerank.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rerank.Snapshot, 0)
	for _, item := range r.snapshots {
		if item.Year == year {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *RerankRepository) ListUserCreatedByBucket(_ context.Context, year int, team string) ([]rerank.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rerank.Snapshot, 0)
	for _, item := range r.snapshots {
		if item.Year == year && strings.EqualFold(item.Team, team) && item.CreatedBy != nil {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *RerankRepository) GetByID(_ context.Context, id int64) (rerank.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.snapshots {
		if item.ID == id {
			return item, true, nil
		}
	}

	return rerank.Snapshot{}, false, nil
}

func (r *RerankRepository) ListPlayers(_ context.Context, classID int64) ([]rerank.PlayerRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.players[classID]
	out := make([]rerank.PlayerRow, len(rows))
	copy(out, rows)

	return out, nil
}

func (r *RerankRepository) Insert(_ context.Context, snapshot rerank.Snapshot, rows []rerank.PlayerRow) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	snapshot.ID = r.nextID
	r.snapshots = append(r.snapshots, snapshot)

	stored := make([]rerank.PlayerRow, 0, len(rows))
	for idx, row := range rows {
		row.ID = int64(idx + 1)
		row.ClassID = snapshot.ID
		stored = append(stored, row)
	}
	r.players[snapshot.ID] = stored

	return snapshot.ID, nil
}

func (r *RerankRepository) DeleteAutoGenerated(_ context.Context, year int, team string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.snapshots[:0]
	for _, item := range r.snapshots {
		if item.Year == year && strings.EqualFold(item.Team, team) && item.CreatedBy == nil {
			delete(r.players, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	r.snapshots = kept

	return nil
}
