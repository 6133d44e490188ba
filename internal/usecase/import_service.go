package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/recruitboard/recruitboard/internal/domain/rerank"
	"github.com/recruitboard/recruitboard/internal/domain/roster"
	"github.com/recruitboard/recruitboard/internal/platform/id"
	"github.com/recruitboard/recruitboard/internal/platform/logging"
)

// RecruitImportProvider fetches one team's recruiting class from the
// upstream data source.
type RecruitImportProvider interface {
	FetchTeamClass(ctx context.Context, year int, team string) ([]ImportedRecruit, error)
}

// ImportService pulls a whole season's recruiting classes from the upstream
// provider, one bucket per roster team, and recomputes the snapshots that
// are not user-protected.
type ImportService struct {
	provider   RecruitImportProvider
	recruits   *RecruitService
	reranks    *RerankService
	teams      *roster.Roster
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
	maxWorkers int
}

const defaultImportWorkers = 8

const (
	importStatusSuccess = "success"
	importStatusSkipped = "skipped"
	importStatusFailed  = "failed"
)

func NewImportService(
	provider RecruitImportProvider,
	recruits *RecruitService,
	reranks *RerankService,
	teams *roster.Roster,
	idGen id.Generator,
	logger *logging.Logger,
) *ImportService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ImportService{
		provider:   provider,
		recruits:   recruits,
		reranks:    reranks,
		teams:      teams,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
		maxWorkers: defaultImportWorkers,
	}
}

type TeamImportResult struct {
	Team       string
	Slug       string
	Recruits   int
	Status     string
	Message    string
	Recalced   bool
	DurationMs int64
}

type SeasonImportResult struct {
	RunID        string
	Year         int
	TeamCount    int
	SuccessCount int
	SkippedCount int
	FailedCount  int
	RecruitCount int
	StartedAt    time.Time
	DurationMs   int64
	Teams        []TeamImportResult
}

// ImportSeason fetches every roster team's class for the year and replaces
// the imported rows of each bucket. A team whose fetch fails is reported
// and skipped; the rest of the roster still imports.
func (s *ImportService) ImportSeason(ctx context.Context, year int) (SeasonImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportSeason")
	defer span.End()

	if year <= 0 {
		return SeasonImportResult{}, fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	if s.provider == nil {
		return SeasonImportResult{}, fmt.Errorf("%w: no recruit provider configured", ErrDependencyUnavailable)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return SeasonImportResult{}, fmt.Errorf("generate import run id: %w", err)
	}

	startedAt := s.now().UTC()
	teams := s.teams.Teams()
	result := SeasonImportResult{
		RunID:     runID,
		Year:      year,
		TeamCount: len(teams),
		StartedAt: startedAt,
	}

	s.logger.InfoContext(ctx, "season import started",
		"run_id", runID,
		"year", year,
		"teams", len(teams),
	)

	workers := s.maxWorkers
	if workers <= 0 {
		workers = defaultImportWorkers
	}
	if workers > len(teams) {
		workers = len(teams)
	}

	fetchers := pool.NewWithResults[TeamImportResult]().WithMaxGoroutines(workers)
	for _, team := range teams {
		team := team
		fetchers.Go(func() TeamImportResult {
			return s.importTeam(ctx, year, team)
		})
	}
	rows := fetchers.Wait()

	s.recalcImported(ctx, year, rows, workers)

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Team < rows[j].Team
	})

	for _, row := range rows {
		result.RecruitCount += row.Recruits
		switch row.Status {
		case importStatusSuccess:
			result.SuccessCount++
		case importStatusSkipped:
			result.SkippedCount++
		default:
			result.FailedCount++
		}
	}
	result.Teams = rows
	result.DurationMs = s.now().UTC().Sub(startedAt).Milliseconds()

	s.logger.InfoContext(ctx, "season import finished",
		"run_id", runID,
		"year", year,
		"success", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
		"recruits", result.RecruitCount,
		"duration_ms", result.DurationMs,
	)

	return result, nil
}

// ImportTeam refreshes a single roster team's imported class and, when the
// bucket allows it, its auto snapshot. A fetch or replace failure comes back
// as an error rather than a failed row so the caller can map it.
func (s *ImportService) ImportTeam(ctx context.Context, year int, team string) (TeamImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportTeam")
	defer span.End()

	if year <= 0 {
		return TeamImportResult{}, fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	if s.provider == nil {
		return TeamImportResult{}, fmt.Errorf("%w: no recruit provider configured", ErrDependencyUnavailable)
	}
	if !s.teams.Contains(team) {
		return TeamImportResult{}, fmt.Errorf("%w: team %q is not on the roster", ErrNotFound, team)
	}
	team = s.teams.Canonical(team)

	row := s.importTeam(ctx, year, team)
	if row.Status == importStatusFailed {
		return TeamImportResult{}, fmt.Errorf("import %d %s: %s", year, team, row.Message)
	}
	if row.Status != importStatusSuccess {
		return row, nil
	}

	_, recalcErr := s.reranks.RecalcFromRecruits(ctx, year, team)
	switch {
	case recalcErr == nil:
		row.Recalced = true
	case errors.Is(recalcErr, rerank.ErrUserDataProtected),
		errors.Is(recalcErr, rerank.ErrNoScoredOutcomes),
		errors.Is(recalcErr, rerank.ErrNoRecruits):
		// Expected for protected or unscored buckets.
	default:
		s.logger.WarnContext(ctx, "post-import recalc failed",
			"year", year,
			"team", team,
			"error", recalcErr,
		)
	}

	return row, nil
}

func (s *ImportService) importTeam(ctx context.Context, year int, team string) TeamImportResult {
	start := time.Now()
	row := TeamImportResult{
		Team: team,
		Slug: roster.Slug(team),
	}

	entries, err := s.provider.FetchTeamClass(ctx, year, team)
	if err != nil {
		row.Status = importStatusFailed
		row.Message = err.Error()
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	if len(entries) == 0 {
		row.Status = importStatusSkipped
		row.Message = "no recruits returned for team"
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}

	inserted, err := s.recruits.ImportClass(ctx, year, team, entries)
	if err != nil {
		row.Status = importStatusFailed
		row.Message = err.Error()
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}

	row.Recruits = inserted
	row.Status = importStatusSuccess
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

// recalcImported refreshes the auto snapshot of every bucket that imported
// rows. Protected buckets and buckets without scored outcomes are left as
// they are.
func (s *ImportService) recalcImported(ctx context.Context, year int, rows []TeamImportResult, workers int) {
	targets := make([]int, 0, len(rows))
	for idx, row := range rows {
		if row.Status == importStatusSuccess {
			targets = append(targets, idx)
		}
	}
	if len(targets) == 0 {
		return
	}

	workerPool, err := ants.NewPool(workers)
	if err != nil {
		s.logger.WarnContext(ctx, "recalc pool unavailable, skipping recompute", "error", err)
		return
	}
	defer workerPool.Release()

	var wg sync.WaitGroup
	for _, idx := range targets {
		idx := idx
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()

			team := rows[idx].Team
			_, recalcErr := s.reranks.RecalcFromRecruits(ctx, year, team)
			switch {
			case recalcErr == nil:
				rows[idx].Recalced = true
			case errors.Is(recalcErr, rerank.ErrUserDataProtected),
				errors.Is(recalcErr, rerank.ErrNoScoredOutcomes),
				errors.Is(recalcErr, rerank.ErrNoRecruits):
				// Expected for protected or unscored buckets.
			default:
				s.logger.WarnContext(ctx, "post-import recalc failed",
					"year", year,
					"team", team,
					"error", recalcErr,
				)
			}
		}); err != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "submit recalc task failed", "team", rows[idx].Team, "error", err)
		}
	}
	wg.Wait()
}
