package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
)

type RecruitRepository struct {
	db *sqlx.DB
}

func NewRecruitRepository(db *sqlx.DB) *RecruitRepository {
	return &RecruitRepository{db: db}
}

const recruitColumns = `id, year, team, name, position, stars, rank, outcome, points, note, source, created_at, updated_at`

func (r *RecruitRepository) ListByBucket(ctx context.Context, year int, team string) ([]recruit.Recruit, error) {
	query := `SELECT ` + recruitColumns + `
FROM recruits
WHERE year = $1 AND lower(team) = lower($2)
ORDER BY id`

	var rows []recruitTableModel
	if err := r.db.SelectContext(ctx, &rows, query, year, team); err != nil {
		return nil, fmt.Errorf("select recruits by bucket: %w", err)
	}

	out := make([]recruit.Recruit, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RecruitRepository) GetByID(ctx context.Context, id int64) (recruit.Recruit, bool, error) {
	query := `SELECT ` + recruitColumns + `
FROM recruits
WHERE id = $1`

	var row recruitTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return recruit.Recruit{}, false, nil
		}
		return recruit.Recruit{}, false, fmt.Errorf("select recruit by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RecruitRepository) ExistsByName(ctx context.Context, year int, team, name string) (bool, error) {
	query := `SELECT EXISTS (
SELECT 1 FROM recruits
WHERE year = $1 AND lower(team) = lower($2) AND lower(name) = lower($3)
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, year, team, name); err != nil {
		return false, fmt.Errorf("check recruit exists by name: %w", err)
	}

	return exists, nil
}

func (r *RecruitRepository) ReplaceBucket(ctx context.Context, year int, team, source string, recruits []recruit.Recruit) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx replace recruits: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery := `DELETE FROM recruits
WHERE year = $1 AND lower(team) = lower($2) AND source = $3`
	if _, err := tx.ExecContext(ctx, deleteQuery, year, team, source); err != nil {
		return 0, fmt.Errorf("clear recruits bucket: %w", err)
	}

	insertQuery := `INSERT INTO recruits (year, team, name, position, stars, rank, outcome, points, note, source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, row := range recruits {
		if _, err := tx.ExecContext(ctx, insertQuery,
			year, team, row.Name, row.Position, row.Stars, row.Rank,
			row.Outcome, row.Points, row.Note, source,
		); err != nil {
			return 0, fmt.Errorf("insert recruit %q: %w", row.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace recruits tx: %w", err)
	}

	return len(recruits), nil
}

func (r *RecruitRepository) Insert(ctx context.Context, row recruit.Recruit) (int64, error) {
	query := `INSERT INTO recruits (year, team, name, position, stars, rank, outcome, points, note, source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query,
		row.Year, row.Team, row.Name, row.Position, row.Stars, row.Rank,
		row.Outcome, row.Points, row.Note, row.Source,
	); err != nil {
		return 0, fmt.Errorf("insert recruit: %w", err)
	}

	return id, nil
}

func (r *RecruitRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recruits WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete recruit: %w", err)
	}
	return nil
}

func (r *RecruitRepository) UpdateOutcome(ctx context.Context, id int64, outcome string, points int) error {
	query := `UPDATE recruits
SET outcome = $2, points = $3, updated_at = NOW()
WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, outcome, points); err != nil {
		return fmt.Errorf("update recruit outcome: %w", err)
	}
	return nil
}
