package httpapi

import (
	"context"
	"time"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/domain/rerank"
	"github.com/recruitboard/recruitboard/internal/usecase"
)

type addRecruitRequest struct {
	Year     int    `json:"year" validate:"required,gt=0"`
	Team     string `json:"team" validate:"required,max=80"`
	Name     string `json:"name" validate:"required,max=120"`
	Position string `json:"position" validate:"omitempty,max=10"`
	Stars    int    `json:"stars" validate:"gte=0,lte=5"`
	Rank     int    `json:"rank" validate:"gte=0"`
	Outcome  string `json:"outcome" validate:"omitempty,max=80"`
	Note     string `json:"note" validate:"omitempty,max=200"`
}

type updateOutcomesRequest struct {
	Updates []outcomeUpdateRecord `json:"updates" validate:"required,min=1,dive"`
}

type outcomeUpdateRecord struct {
	RecruitID int64  `json:"recruitId" validate:"required,gt=0"`
	Outcome   string `json:"outcome" validate:"required,max=80"`
}

type saveRerankClassRequest struct {
	Year    int                 `json:"year" validate:"required,gt=0"`
	Team    string              `json:"team" validate:"required,max=80"`
	Players []savedPlayerRecord `json:"players" validate:"required,min=1,dive"`
}

type savedPlayerRecord struct {
	Name   string `json:"name" validate:"required,max=120"`
	Points int    `json:"points" validate:"gte=0"`
	Note   string `json:"note" validate:"omitempty,max=200"`
}

type seasonImportRequest struct {
	Year int `json:"year" validate:"required,gt=0"`
}

type outcomeDTO struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type recruitDTO struct {
	ID       int64  `json:"id"`
	Year     int    `json:"year"`
	Team     string `json:"team"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Stars    int    `json:"stars"`
	Rank     int    `json:"rank"`
	Outcome  string `json:"outcome,omitempty"`
	Points   int    `json:"points"`
	Note     string `json:"note,omitempty"`
	Source   string `json:"source"`
}

type rerankClassDTO struct {
	ID          int64           `json:"id"`
	Year        int             `json:"year"`
	Team        string          `json:"team"`
	Tier        string          `json:"tier"`
	TotalPoints int             `json:"totalPoints"`
	AvgPoints   float64         `json:"avgPoints"`
	PlayerCount int             `json:"playerCount"`
	ScoredCount int             `json:"scoredCount,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   string          `json:"createdAtUtc"`
	Players     []playerLineDTO `json:"players"`
}

type playerLineDTO struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Note   string `json:"note,omitempty"`
}

type protectionDTO struct {
	Year          int    `json:"year"`
	Team          string `json:"team"`
	Protected     bool   `json:"protected"`
	UserSnapshots int    `json:"userSnapshots"`
	LatestUserAt  string `json:"latestUserRerankAtUtc,omitempty"`
}

type leaderboardRowDTO struct {
	Position    int     `json:"position"`
	Team        string  `json:"team"`
	Slug        string  `json:"slug"`
	HasData     bool    `json:"hasData"`
	ClassID     int64   `json:"classId,omitempty"`
	Tier        string  `json:"tier,omitempty"`
	TotalPoints int     `json:"totalPoints"`
	AvgPoints   float64 `json:"avgPoints"`
	PlayerCount int     `json:"playerCount"`
	UpdatedAt   string  `json:"updatedAtUtc,omitempty"`
}

type importClassResultDTO struct {
	Year     int    `json:"year"`
	Team     string `json:"team"`
	Imported int    `json:"imported"`
}

type outcomeUpdateResultDTO struct {
	Year    int    `json:"year"`
	Team    string `json:"team"`
	Applied int    `json:"applied"`
}

type seasonImportResultDTO struct {
	RunID        string          `json:"runId"`
	Year         int             `json:"year"`
	TeamCount    int             `json:"teamCount"`
	SuccessCount int             `json:"successCount"`
	SkippedCount int             `json:"skippedCount"`
	FailedCount  int             `json:"failedCount"`
	RecruitCount int             `json:"recruitCount"`
	StartedAt    string          `json:"startedAtUtc"`
	DurationMs   int64           `json:"durationMs"`
	Teams        []teamImportDTO `json:"teams"`
}

type teamImportDTO struct {
	Team       string `json:"team"`
	Slug       string `json:"slug"`
	Recruits   int    `json:"recruits"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Recalced   bool   `json:"recalced"`
	DurationMs int64  `json:"durationMs"`
}

func recruitToDTO(ctx context.Context, v recruit.Recruit) recruitDTO {
	ctx, span := startSpan(ctx, "httpapi.recruitToDTO")
	defer span.End()

	return recruitDTO{
		ID:       v.ID,
		Year:     v.Year,
		Team:     v.Team,
		Name:     v.Name,
		Position: v.Position,
		Stars:    v.Stars,
		Rank:     v.Rank,
		Outcome:  v.Outcome,
		Points:   v.Points,
		Note:     v.Note,
		Source:   v.Source,
	}
}

func rerankClassToDTO(ctx context.Context, snapshot rerank.Snapshot, players []rerank.PlayerRow) rerankClassDTO {
	ctx, span := startSpan(ctx, "httpapi.rerankClassToDTO")
	defer span.End()

	lines := make([]playerLineDTO, 0, len(players))
	for _, row := range players {
		lines = append(lines, playerLineDTO{
			Name:   row.Name,
			Points: row.Points,
			Note:   row.Note,
		})
	}

	createdBy := ""
	if snapshot.CreatedBy != nil {
		createdBy = *snapshot.CreatedBy
	}

	return rerankClassDTO{
		ID:          snapshot.ID,
		Year:        snapshot.Year,
		Team:        snapshot.Team,
		Tier:        string(snapshot.Tier()),
		TotalPoints: snapshot.TotalPoints,
		AvgPoints:   snapshot.AvgPoints,
		PlayerCount: snapshot.PlayerCount,
		CreatedBy:   createdBy,
		CreatedAt:   snapshot.CreatedAt.UTC().Format(time.RFC3339),
		Players:     lines,
	}
}

func leaderboardRowToDTO(ctx context.Context, row usecase.LeaderboardRow) leaderboardRowDTO {
	ctx, span := startSpan(ctx, "httpapi.leaderboardRowToDTO")
	defer span.End()

	dto := leaderboardRowDTO{
		Position:    row.Position,
		Team:        row.Team,
		Slug:        row.Slug,
		HasData:     row.HasData,
		ClassID:     row.ClassID,
		TotalPoints: row.TotalPoints,
		AvgPoints:   row.AvgPoints,
		PlayerCount: row.PlayerCount,
	}
	if row.HasData {
		dto.Tier = string(row.Tier)
	}
	if row.UpdatedAt != nil && !row.UpdatedAt.IsZero() {
		dto.UpdatedAt = row.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func seasonImportToDTO(ctx context.Context, v usecase.SeasonImportResult) seasonImportResultDTO {
	ctx, span := startSpan(ctx, "httpapi.seasonImportToDTO")
	defer span.End()

	teams := make([]teamImportDTO, 0, len(v.Teams))
	for _, row := range v.Teams {
		teams = append(teams, teamImportDTO{
			Team:       row.Team,
			Slug:       row.Slug,
			Recruits:   row.Recruits,
			Status:     row.Status,
			Message:    row.Message,
			Recalced:   row.Recalced,
			DurationMs: row.DurationMs,
		})
	}

	return seasonImportResultDTO{
		RunID:        v.RunID,
		Year:         v.Year,
		TeamCount:    v.TeamCount,
		SuccessCount: v.SuccessCount,
		SkippedCount: v.SkippedCount,
		FailedCount:  v.FailedCount,
		RecruitCount: v.RecruitCount,
		StartedAt:    v.StartedAt.UTC().Format(time.RFC3339),
		DurationMs:   v.DurationMs,
		Teams:        teams,
	}
}
