package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/domain/rerank"
)

type stubRecruitRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []recruit.Recruit
}

func (s *stubRecruitRepository) seed(rows ...recruit.Recruit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.nextID++
		row.ID = s.nextID
		s.rows = append(s.rows, row)
	}
}

func (s *stubRecruitRepository) ListByBucket(_ context.Context, year int, team string) ([]recruit.Recruit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recruit.Recruit, 0)
	for _, row := range s.rows {
		if row.Year == year && strings.EqualFold(row.Team, team) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubRecruitRepository) GetByID(_ context.Context, id int64) (recruit.Recruit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == id {
			return row, true, nil
		}
	}
	return recruit.Recruit{}, false, nil
}

func (s *stubRecruitRepository) ExistsByName(_ context.Context, year int, team, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Year == year && strings.EqualFold(row.Team, team) && strings.EqualFold(row.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRecruitRepository) ReplaceBucket(_ context.Context, year int, team, source string, recruits []recruit.Recruit) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.Year == year && strings.EqualFold(row.Team, team) && row.Source == source {
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	for _, row := range recruits {
		s.nextID++
		row.ID = s.nextID
		s.rows = append(s.rows, row)
	}
	return len(recruits), nil
}

func (s *stubRecruitRepository) Insert(_ context.Context, r recruit.Recruit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.rows = append(s.rows, r)
	return r.ID, nil
}

func (s *stubRecruitRepository) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	return nil
}

func (s *stubRecruitRepository) UpdateOutcome(_ context.Context, id int64, outcome string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.rows {
		if s.rows[idx].ID == id {
			s.rows[idx].Outcome = outcome
			s.rows[idx].Points = points
			return nil
		}
	}
	return nil
}

type stubRerankRepository struct {
	mu          sync.Mutex
	nextID      int64
	snapshots   []rerank.Snapshot
	players     map[int64][]rerank.PlayerRow
	listByYear  int
	insertCalls int
}

func newStubRerankRepository() *stubRerankRepository {
	return &stubRerankRepository{players: make(map[int64][]rerank.PlayerRow)}
}

func (s *stubRerankRepository) seed(snapshot rerank.Snapshot, rows []rerank.PlayerRow) int64 {
	id, _ := s.Insert(context.Background(), snapshot, rows)
	return id
}

func (s *stubRerankRepository) ListByBucket(_ context.Context, year int, team string) ([]rerank.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rerank.Snapshot, 0)
	for _, item := range s.snapshots {
		if item.Year == year && strings.EqualFold(item.Team, team) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRerankRepository) ListByYear(_ context.Context, year int) ([]rerank.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listByYear++
	out := make([]rerank.Snapshot, 0)
	for _, item := range s.snapshots {
		if item.Year == year {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRerankRepository) ListUserCreatedByBucket(_ context.Context, year int, team string) ([]rerank.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rerank.Snapshot, 0)
	for _, item := range s.snapshots {
		if item.Year == year && strings.EqualFold(item.Team, team) && item.CreatedBy != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRerankRepository) GetByID(_ context.Context, id int64) (rerank.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.snapshots {
		if item.ID == id {
			return item, true, nil
		}
	}
	return rerank.Snapshot{}, false, nil
}

func (s *stubRerankRepository) ListPlayers(_ context.Context, classID int64) ([]rerank.PlayerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rerank.PlayerRow, len(s.players[classID]))
	copy(out, s.players[classID])
	return out, nil
}

func (s *stubRerankRepository) Insert(_ context.Context, snapshot rerank.Snapshot, rows []rerank.PlayerRow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	s.nextID++
	snapshot.ID = s.nextID
	s.snapshots = append(s.snapshots, snapshot)
	stored := make([]rerank.PlayerRow, 0, len(rows))
	for idx, row := range rows {
		row.ID = int64(idx + 1)
		row.ClassID = snapshot.ID
		stored = append(stored, row)
	}
	s.players[snapshot.ID] = stored
	return snapshot.ID, nil
}

func (s *stubRerankRepository) DeleteAutoGenerated(_ context.Context, year int, team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.snapshots[:0]
	for _, item := range s.snapshots {
		if item.Year == year && strings.EqualFold(item.Team, team) && item.CreatedBy == nil {
			delete(s.players, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	s.snapshots = kept
	return nil
}

func (s *stubRerankRepository) snapshotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
