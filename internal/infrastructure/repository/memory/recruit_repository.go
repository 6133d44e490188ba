package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
)

// RecruitRepository keeps recruit rows in process memory. It backs local
// development and tests when no database is configured.
type RecruitRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []recruit.Recruit
}

func NewRecruitRepository() *RecruitRepository {
	return &RecruitRepository{}
}

func (r *RecruitRepository) ListByBucket(_ context.Context, year int, team string) ([]recruit.Recruit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]recruit.Recruit, 0)
	for _, row := range r.rows {
		if row.Year == year && strings.EqualFold(row.Team, team) {
			out = append(out, row)
		}
	}

	return out, nil
}

func (r *RecruitRepository) GetByID(_ context.Context, id int64) (recruit.Recruit, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ID == id {
			return row, true, nil
		}
	}

	return recruit.Recruit{}, false, nil
}

func (r *RecruitRepository) ExistsByName(_ context.Context, year int, team, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.Year == year && strings.EqualFold(row.Team, team) && strings.EqualFold(row.Name, name) {
			return true, nil
		}
	}

	return false, nil
}

func (r *RecruitRepository) ReplaceBucket(_ context.Context, year int, team, source string, recruits []recruit.Recruit) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]recruit.Recruit, 0, len(r.rows))
	for _, row := range r.rows {
		if row.Year == year && strings.EqualFold(row.Team, team) && row.Source == source {
			continue
		}
		kept = append(kept, row)
	}
	for _, row := range recruits {
		r.nextID++
		row.ID = r.nextID
		kept = append(kept, row)
	}
	r.rows = kept

	return len(recruits), nil
}

func (r *RecruitRepository) Insert(_ context.Context, row recruit.Recruit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	row.ID = r.nextID
	r.rows = append(r.rows, row)

	return row.ID, nil
}

func (r *RecruitRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	r.rows = kept

	return nil
}

func (r *RecruitRepository) UpdateOutcome(_ context.Context, id int64, outcome string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.rows {
		if r.rows[idx].ID == id {
			r.rows[idx].Outcome = outcome
			r.rows[idx].Points = points
			break
		}
	}

	return nil
}
