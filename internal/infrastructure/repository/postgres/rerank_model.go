package postgres

import (
	"database/sql"
	"time"

	"github.com/recruitboard/recruitboard/internal/domain/rerank"
)

type rerankClassTableModel struct {
	ID          int64          `db:"id"`
	Year        int            `db:"year"`
	Team        string         `db:"team"`
	TotalPoints int            `db:"total_points"`
	AvgPoints   float64        `db:"avg_points"`
	CreatedBy   sql.NullString `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	PlayerCount int            `db:"player_count"`
}

func (m rerankClassTableModel) toDomain() rerank.Snapshot {
	return rerank.Snapshot{
		ID:          m.ID,
		Year:        m.Year,
		Team:        m.Team,
		TotalPoints: m.TotalPoints,
		AvgPoints:   m.AvgPoints,
		CreatedBy:   nullStringToPtr(m.CreatedBy),
		CreatedAt:   m.CreatedAt,
		PlayerCount: m.PlayerCount,
	}
}

type rerankPlayerTableModel struct {
	ID      int64  `db:"id"`
	ClassID int64  `db:"class_id"`
	Name    string `db:"name"`
	Points  int    `db:"points"`
	Note    string `db:"note"`
}

func (m rerankPlayerTableModel) toDomain() rerank.PlayerRow {
	return rerank.PlayerRow{
		ID:      m.ID,
		ClassID: m.ClassID,
		Name:    m.Name,
		Points:  m.Points,
		Note:    m.Note,
	}
}
