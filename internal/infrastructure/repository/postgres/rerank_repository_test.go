package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recruitboard/recruitboard/internal/domain/rerank"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func rerankClassRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "year", "team", "total_points", "avg_points", "created_by", "created_at", "player_count"})
}

func TestRerankRepository_ListByBucket(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRerankRepository(db)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := rerankClassRows().
		AddRow(int64(1), 2025, "Oklahoma State", 9, 3.0, sql.NullString{}, createdAt, 3).
		AddRow(int64(2), 2025, "Oklahoma State", 11, 2.75, sql.NullString{String: "user-1", Valid: true}, createdAt, 4)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rerank_classes")).
		WithArgs(2025, "Oklahoma State").
		WillReturnRows(rows)

	items, err := repo.ListByBucket(context.Background(), 2025, "Oklahoma State")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].CreatedBy)
	assert.Equal(t, rerank.TierAutoGenerated, items[0].Tier())
	require.NotNil(t, items[1].CreatedBy)
	assert.Equal(t, "user-1", *items[1].CreatedBy)
	assert.Equal(t, rerank.TierUserCreated, items[1].Tier())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRerankRepository_GetByID_NotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRerankRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rerank_classes")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, exists, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRerankRepository_Insert_WritesClassAndPlayersInOneTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRerankRepository(db)

	owner := "user-1"
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := rerank.Snapshot{
		Year: 2025, Team: "Texas", TotalPoints: 7, AvgPoints: 3.5,
		CreatedBy: &owner, CreatedAt: createdAt, PlayerCount: 2,
	}
	players := []rerank.PlayerRow{
		{Name: "A", Points: 6, Note: "NFL Drafted"},
		{Name: "B", Points: 1, Note: ""},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rerank_classes")).
		WithArgs(2025, "Texas", 7, 3.5, sql.NullString{String: owner, Valid: true}, createdAt, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rerank_players")).
		WithArgs(int64(42), "A", 6, "NFL Drafted").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rerank_players")).
		WithArgs(int64(42), "B", 1, "").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), snapshot, players)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRerankRepository_Insert_RollsBackOnPlayerFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRerankRepository(db)

	snapshot := rerank.Snapshot{Year: 2025, Team: "Texas", TotalPoints: 6, AvgPoints: 6, PlayerCount: 1}
	players := []rerank.PlayerRow{{Name: "A", Points: 6}}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rerank_classes")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rerank_players")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), snapshot, players)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRerankRepository_DeleteAutoGenerated(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRerankRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rerank_players")).
		WithArgs(2025, "Texas").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rerank_classes")).
		WithArgs(2025, "Texas").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteAutoGenerated(context.Background(), 2025, "Texas"))
	require.NoError(t, mock.ExpectationsWereMet())
}
