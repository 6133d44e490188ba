package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/domain/rerank"
	"github.com/recruitboard/recruitboard/internal/domain/roster"
	"github.com/recruitboard/recruitboard/internal/platform/cache"
	"github.com/recruitboard/recruitboard/internal/platform/export"
	"github.com/recruitboard/recruitboard/internal/platform/logging"
)

// RerankService computes and stores re-rank class snapshots. Auto-generated
// snapshots are derived from the recruit rows of a bucket; user-created
// snapshots are saved verbatim and shield the bucket from recomputation.
type RerankService struct {
	recruitRepo recruit.Repository
	rerankRepo  rerank.Repository
	teams       *roster.Roster
	exporter    *export.Writer
	store       *cache.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewRerankService(
	recruitRepo recruit.Repository,
	rerankRepo rerank.Repository,
	teams *roster.Roster,
	exporter *export.Writer,
	store *cache.Store,
	logger *logging.Logger,
) *RerankService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RerankService{
		recruitRepo: recruitRepo,
		rerankRepo:  rerankRepo,
		teams:       teams,
		exporter:    exporter,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// SavedPlayer is one line item of a user-created snapshot, kept in the
// order the user arranged it.
type SavedPlayer struct {
	Name   string
	Points int
	Note   string
}

// Protection reports whether user-created snapshots shield a bucket.
type Protection struct {
	Year          int
	Team          string
	Protected     bool
	UserSnapshots int
	LatestUserAt  *time.Time
}

// RecalcResult is the outcome of one recomputation: the stored snapshot,
// its line items, and how many recruits carried a scored outcome.
type RecalcResult struct {
	Snapshot    rerank.Snapshot
	Players     []rerank.PlayerRow
	ScoredCount int
}

// RecalcFromRecruits derives a fresh auto-generated snapshot for the bucket
// from its recruit rows. The computation refuses to run over an empty class,
// a class with no scored outcome, or a bucket any user has saved a class
// for; in every refusal case nothing is written.
func (s *RerankService) RecalcFromRecruits(ctx context.Context, year int, team string) (RecalcResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RerankService.RecalcFromRecruits")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return RecalcResult{}, err
	}

	recruits, err := s.recruitRepo.ListByBucket(ctx, year, team)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("list recruits for recalc: %w", err)
	}
	if len(recruits) == 0 {
		return RecalcResult{}, fmt.Errorf("%w: %d %s", rerank.ErrNoRecruits, year, team)
	}

	total := 0
	scoredCount := 0
	for _, row := range recruits {
		total += row.Points
		if row.Scored() {
			scoredCount++
		}
	}
	if scoredCount == 0 {
		return RecalcResult{}, fmt.Errorf("%w: %d %s", rerank.ErrNoScoredOutcomes, year, team)
	}

	userSnapshots, err := s.rerankRepo.ListUserCreatedByBucket(ctx, year, team)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("check user snapshots for recalc: %w", err)
	}
	if len(userSnapshots) > 0 {
		return RecalcResult{}, fmt.Errorf("%w: %d %s", rerank.ErrUserDataProtected, year, team)
	}

	snapshot := rerank.Snapshot{
		Year:        year,
		Team:        team,
		TotalPoints: total,
		AvgPoints:   roundAverage(total, len(recruits)),
		CreatedAt:   s.now().UTC(),
		PlayerCount: len(recruits),
	}
	rows := make([]rerank.PlayerRow, 0, len(recruits))
	for _, row := range recruits {
		rows = append(rows, rerank.PlayerRow{
			Name:   row.Name,
			Points: row.Points,
			Note:   row.LineNote(),
		})
	}

	if err := s.rerankRepo.DeleteAutoGenerated(ctx, year, team); err != nil {
		return RecalcResult{}, fmt.Errorf("delete stale auto snapshots: %w", err)
	}
	id, err := s.rerankRepo.Insert(ctx, snapshot, rows)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("insert auto snapshot: %w", err)
	}
	snapshot.ID = id
	for idx := range rows {
		rows[idx].ClassID = id
	}

	s.invalidateLeaderboard(ctx, year)

	return RecalcResult{Snapshot: snapshot, Players: rows, ScoredCount: scoredCount}, nil
}

// SaveClass stores a snapshot exactly as arranged by the caller and mirrors
// it to the flat-file export. Identity is optional: an authenticated save is
// user-created and shields the bucket, an anonymous one stays auto-tier.
func (s *RerankService) SaveClass(ctx context.Context, userID string, year int, team string, players []SavedPlayer) (rerank.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RerankService.SaveClass")
	defer span.End()

	userID = strings.TrimSpace(userID)

	year, team, err := s.bucket(year, team)
	if err != nil {
		return rerank.Snapshot{}, err
	}
	if len(players) == 0 {
		return rerank.Snapshot{}, fmt.Errorf("%w: a saved class needs at least one player", ErrInvalidInput)
	}

	// Blank names are dropped and negative points clamped to zero, the same
	// leniency the import path applies to upstream rows.
	total := 0
	rows := make([]rerank.PlayerRow, 0, len(players))
	for _, player := range players {
		name := strings.Join(strings.Fields(player.Name), " ")
		if name == "" {
			continue
		}
		points := player.Points
		if points < 0 {
			points = 0
		}
		total += points
		rows = append(rows, rerank.PlayerRow{
			Name:   name,
			Points: points,
			Note:   strings.TrimSpace(player.Note),
		})
	}
	if len(rows) == 0 {
		return rerank.Snapshot{}, fmt.Errorf("%w: a saved class needs at least one named player", ErrInvalidInput)
	}

	var createdBy *string
	if userID != "" {
		createdBy = &userID
	}

	snapshot := rerank.Snapshot{
		Year:        year,
		Team:        team,
		TotalPoints: total,
		AvgPoints:   roundAverage(total, len(rows)),
		CreatedBy:   createdBy,
		CreatedAt:   s.now().UTC(),
		PlayerCount: len(rows),
	}

	id, err := s.rerankRepo.Insert(ctx, snapshot, rows)
	if err != nil {
		return rerank.Snapshot{}, fmt.Errorf("insert user snapshot: %w", err)
	}
	snapshot.ID = id

	s.exportClass(ctx, year, team, rows)
	s.invalidateLeaderboard(ctx, year)

	return snapshot, nil
}

// CurrentClass resolves the current snapshot for a bucket together with its
// line items.
func (s *RerankService) CurrentClass(ctx context.Context, year int, team string) (rerank.Snapshot, []rerank.PlayerRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RerankService.CurrentClass")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return rerank.Snapshot{}, nil, err
	}

	snapshots, err := s.rerankRepo.ListByBucket(ctx, year, team)
	if err != nil {
		return rerank.Snapshot{}, nil, fmt.Errorf("list snapshots: %w", err)
	}
	current, ok := rerank.Current(snapshots)
	if !ok {
		return rerank.Snapshot{}, nil, fmt.Errorf("%w: no re-rank class for %d %s", ErrNotFound, year, team)
	}

	players, err := s.rerankRepo.ListPlayers(ctx, current.ID)
	if err != nil {
		return rerank.Snapshot{}, nil, fmt.Errorf("list snapshot players: %w", err)
	}

	return current, players, nil
}

// ProtectionStatus reports whether a bucket is shielded from recomputation.
func (s *RerankService) ProtectionStatus(ctx context.Context, year int, team string) (Protection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RerankService.ProtectionStatus")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return Protection{}, err
	}

	userSnapshots, err := s.rerankRepo.ListUserCreatedByBucket(ctx, year, team)
	if err != nil {
		return Protection{}, fmt.Errorf("list user snapshots: %w", err)
	}

	var latest *time.Time
	for _, snapshot := range userSnapshots {
		createdAt := snapshot.CreatedAt
		if latest == nil || createdAt.After(*latest) {
			latest = &createdAt
		}
	}

	return Protection{
		Year:          year,
		Team:          team,
		Protected:     len(userSnapshots) > 0,
		UserSnapshots: len(userSnapshots),
		LatestUserAt:  latest,
	}, nil
}

func (s *RerankService) exportClass(ctx context.Context, year int, team string, rows []rerank.PlayerRow) {
	if s.exporter == nil || !s.exporter.Enabled() {
		return
	}

	lines := make([]export.PlayerLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, export.PlayerLine{
			Name:   row.Name,
			Points: row.Points,
			Note:   row.Note,
		})
	}

	if _, err := s.exporter.WriteClass(year, roster.Slug(team), lines); err != nil {
		s.logger.WarnContext(ctx, "class export failed",
			"year", year,
			"team", team,
			"error", err,
		)
	}
}

func (s *RerankService) invalidateLeaderboard(ctx context.Context, year int) {
	if s.store == nil {
		return
	}
	s.store.DeletePrefix(ctx, leaderboardCachePrefix(year))
}

func (s *RerankService) bucket(year int, team string) (int, string, error) {
	if year <= 0 {
		return 0, "", fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	team = s.teams.Canonical(team)
	if team == "" {
		return 0, "", fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	return year, team, nil
}

// roundAverage computes total/count rounded to two decimal places. A zero
// count yields zero rather than dividing.
func roundAverage(total, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(count)*100) / 100
}
