package postgres

import (
	"time"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
)

type recruitTableModel struct {
	ID        int64     `db:"id"`
	Year      int       `db:"year"`
	Team      string    `db:"team"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	Stars     int       `db:"stars"`
	Rank      int       `db:"rank"`
	Outcome   string    `db:"outcome"`
	Points    int       `db:"points"`
	Note      string    `db:"note"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m recruitTableModel) toDomain() recruit.Recruit {
	return recruit.Recruit{
		ID:       m.ID,
		Year:     m.Year,
		Team:     m.Team,
		Name:     m.Name,
		Position: m.Position,
		Stars:    m.Stars,
		Rank:     m.Rank,
		Outcome:  m.Outcome,
		Points:   m.Points,
		Note:     m.Note,
		Source:   m.Source,
	}
}
