package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/recruitboard/recruitboard/internal/domain/rerank"
	"github.com/recruitboard/recruitboard/internal/domain/roster"
	"github.com/recruitboard/recruitboard/internal/platform/cache"
)

// LeaderboardService ranks the configured roster for a season by each
// team's current snapshot. The leaderboard is closed-world: every roster
// team appears exactly once whether or not it has data, and no team outside
// the roster ever appears.
type LeaderboardService struct {
	rerankRepo rerank.Repository
	teams      *roster.Roster
	store      *cache.Store
}

func NewLeaderboardService(rerankRepo rerank.Repository, teams *roster.Roster, store *cache.Store) *LeaderboardService {
	return &LeaderboardService{
		rerankRepo: rerankRepo,
		teams:      teams,
		store:      store,
	}
}

// LeaderboardRow is one roster team's standing for a season. Rows without
// data carry zero values and trail every row that has a snapshot.
type LeaderboardRow struct {
	Position    int
	Team        string
	Slug        string
	HasData     bool
	ClassID     int64
	Tier        rerank.Tier
	TotalPoints int
	AvgPoints   float64
	PlayerCount int
	UpdatedAt   *time.Time
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, year int) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}

	if s.store == nil {
		return s.buildLeaderboard(ctx, year)
	}

	value, err := s.store.GetOrLoad(ctx, leaderboardCachePrefix(year), func(ctx context.Context) (any, error) {
		return s.buildLeaderboard(ctx, year)
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]LeaderboardRow)
	if !ok {
		return s.buildLeaderboard(ctx, year)
	}
	return rows, nil
}

// ClassMeta resolves one roster team's leaderboard standing. Teams outside
// the roster, and roster teams with no snapshot yet, report not found.
func (s *LeaderboardService) ClassMeta(ctx context.Context, year int, team string) (LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ClassMeta")
	defer span.End()

	if !s.teams.Contains(team) {
		return LeaderboardRow{}, fmt.Errorf("%w: team %q is not on the leaderboard roster", ErrNotFound, team)
	}
	team = s.teams.Canonical(team)

	rows, err := s.Leaderboard(ctx, year)
	if err != nil {
		return LeaderboardRow{}, err
	}
	for _, row := range rows {
		if row.Team != team {
			continue
		}
		if !row.HasData {
			return LeaderboardRow{}, fmt.Errorf("%w: no re-rank class for %d %s", ErrNotFound, year, team)
		}
		return row, nil
	}

	return LeaderboardRow{}, fmt.Errorf("%w: team %q is not on the leaderboard roster", ErrNotFound, team)
}

func (s *LeaderboardService) buildLeaderboard(ctx context.Context, year int) ([]LeaderboardRow, error) {
	snapshots, err := s.rerankRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list snapshots for leaderboard: %w", err)
	}

	byTeam := make(map[string][]rerank.Snapshot, len(snapshots))
	for _, snapshot := range snapshots {
		key := roster.Normalize(snapshot.Team)
		byTeam[key] = append(byTeam[key], snapshot)
	}

	teams := s.teams.Teams()
	rows := make([]LeaderboardRow, 0, len(teams))
	for _, team := range teams {
		row := LeaderboardRow{
			Team: team,
			Slug: roster.Slug(team),
		}
		if current, ok := rerank.Current(byTeam[roster.Normalize(team)]); ok {
			updatedAt := current.CreatedAt
			row.HasData = true
			row.ClassID = current.ID
			row.Tier = current.Tier()
			row.TotalPoints = current.TotalPoints
			row.AvgPoints = current.AvgPoints
			row.PlayerCount = current.PlayerCount
			row.UpdatedAt = &updatedAt
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].HasData != rows[j].HasData {
			return rows[i].HasData
		}
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].Team < rows[j].Team
	})

	// Positional ranks: strictly increasing from 1, ties do not share.
	for idx := range rows {
		rows[idx].Position = idx + 1
	}

	return rows, nil
}

func leaderboardCachePrefix(year int) string {
	return "leaderboard:" + strconv.Itoa(year)
}
