package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/recruitboard/recruitboard/internal/domain/rerank"
)

type RerankRepository struct {
	db *sqlx.DB
}

func NewRerankRepository(db *sqlx.DB) *RerankRepository {
	return &RerankRepository{db: db}
}

const rerankClassColumns = `id, year, team, total_points, avg_points, created_by, created_at, player_count`

func (r *RerankRepository) ListByBucket(ctx context.Context, year int, team string) ([]rerank.Snapshot, error) {
	query := `SELECT ` + rerankClassColumns + `
FROM rerank_classes
WHERE year = $1 AND lower(team) = lower($2)
ORDER BY id`

	return r.list(ctx, query, year, team)
}

func (r *RerankRepository) ListByYear(ctx context.Context, year int) ([]rerank.Snapshot, error) {
	query := `SELECT ` + rerankClassColumns + `
FROM rerank_classes
WHERE year = $1
ORDER BY id`

	return r.list(ctx, query, year)
}

func (r *RerankRepository) ListUserCreatedByBucket(ctx context.Context, year int, team string) ([]rerank.Snapshot, error) {
	query := `SELECT ` + rerankClassColumns + `
FROM rerank_classes
WHERE year = $1 AND lower(team) = lower($2) AND created_by IS NOT NULL
ORDER BY id`

	return r.list(ctx, query, year, team)
}

func (r *RerankRepository) GetByID(ctx context.Context, id int64) (rerank.Snapshot, bool, error) {
	query := `SELECT ` + rerankClassColumns + `
FROM rerank_classes
WHERE id = $1`

	var row rerankClassTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return rerank.Snapshot{}, false, nil
		}
		return rerank.Snapshot{}, false, fmt.Errorf("select rerank class by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RerankRepository) ListPlayers(ctx context.Context, classID int64) ([]rerank.PlayerRow, error) {
	query := `SELECT id, class_id, name, points, note
FROM rerank_players
WHERE class_id = $1
ORDER BY id`

	var rows []rerankPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("select rerank players: %w", err)
	}

	out := make([]rerank.PlayerRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RerankRepository) Insert(ctx context.Context, snapshot rerank.Snapshot, rows []rerank.PlayerRow) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx insert rerank class: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	classQuery := `INSERT INTO rerank_classes (year, team, total_points, avg_points, created_by, created_at, player_count)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	var classID int64
	if err := tx.GetContext(ctx, &classID, classQuery,
		snapshot.Year, snapshot.Team, snapshot.TotalPoints, snapshot.AvgPoints,
		ptrToNullString(snapshot.CreatedBy), snapshot.CreatedAt, snapshot.PlayerCount,
	); err != nil {
		return 0, fmt.Errorf("insert rerank class: %w", err)
	}

	playerQuery := `INSERT INTO rerank_players (class_id, name, points, note)
VALUES ($1, $2, $3, $4)`
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, playerQuery, classID, row.Name, row.Points, row.Note); err != nil {
			return 0, fmt.Errorf("insert rerank player %q: %w", row.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert rerank class tx: %w", err)
	}

	return classID, nil
}

func (r *RerankRepository) DeleteAutoGenerated(ctx context.Context, year int, team string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete auto rerank classes: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	playersQuery := `DELETE FROM rerank_players
WHERE class_id IN (
SELECT id FROM rerank_classes
WHERE year = $1 AND lower(team) = lower($2) AND created_by IS NULL
)`
	if _, err := tx.ExecContext(ctx, playersQuery, year, team); err != nil {
		return fmt.Errorf("delete auto rerank players: %w", err)
	}

	classesQuery := `DELETE FROM rerank_classes
WHERE year = $1 AND lower(team) = lower($2) AND created_by IS NULL`
	if _, err := tx.ExecContext(ctx, classesQuery, year, team); err != nil {
		return fmt.Errorf("delete auto rerank classes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete auto rerank classes tx: %w", err)
	}

	return nil
}

func (r *RerankRepository) list(ctx context.Context, query string, args ...any) ([]rerank.Snapshot, error) {
	var rows []rerankClassTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rerank classes: %w", err)
	}

	out := make([]rerank.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
