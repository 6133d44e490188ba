package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recruitboard/recruitboard/internal/domain/outcome"
	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/platform/cache"
	"github.com/recruitboard/recruitboard/internal/platform/id"
	"github.com/recruitboard/recruitboard/internal/platform/logging"
)

type stubRecruitProvider struct {
	byTeam map[string][]ImportedRecruit
	errs   map[string]error
}

func (s *stubRecruitProvider) FetchTeamClass(_ context.Context, _ int, team string) ([]ImportedRecruit, error) {
	if err, ok := s.errs[team]; ok {
		return nil, err
	}
	return s.byTeam[team], nil
}

func newImportService(provider RecruitImportProvider, recruitRepo *stubRecruitRepository, rerankRepo *stubRerankRepository) *ImportService {
	teams := testRoster()
	store := cache.NewStore(time.Minute)
	logger := logging.NewNop()
	recruits := NewRecruitService(recruitRepo, teams)
	reranks := NewRerankService(recruitRepo, rerankRepo, teams, nil, store, logger)
	return NewImportService(provider, recruits, reranks, teams, id.NewRandomGenerator(), logger)
}

func TestImportService_ImportSeason_MixedResults(t *testing.T) {
	t.Parallel()

	provider := &stubRecruitProvider{
		byTeam: map[string][]ImportedRecruit{
			"Oklahoma State": {
				{Name: "QB One", Position: "QB", Stars: 4, Rank: 10},
				{Name: "WR Two", Position: "WR", Stars: 3, Rank: 55},
			},
			"Alabama": {},
		},
		errs: map[string]error{
			"Texas": errors.New("upstream timeout"),
		},
	}
	recruitRepo := &stubRecruitRepository{}
	rerankRepo := newStubRerankRepository()
	service := newImportService(provider, recruitRepo, rerankRepo)

	result, err := service.ImportSeason(context.Background(), 2025)
	if err != nil {
		t.Fatalf("ImportSeason error: %v", err)
	}

	if result.RunID == "" {
		t.Fatal("expected a run id")
	}
	if result.TeamCount != 3 || result.SuccessCount != 1 || result.FailedCount != 1 || result.SkippedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.RecruitCount != 2 {
		t.Fatalf("expected 2 recruits imported, got %d", result.RecruitCount)
	}
	if len(result.Teams) != 3 {
		t.Fatalf("expected a row per roster team, got %d", len(result.Teams))
	}

	// Rows come back sorted by team name.
	if result.Teams[0].Team != "Alabama" || result.Teams[0].Status != importStatusSkipped {
		t.Fatalf("unexpected first row: %+v", result.Teams[0])
	}
	if result.Teams[1].Team != "Oklahoma State" || result.Teams[1].Status != importStatusSuccess || result.Teams[1].Recruits != 2 {
		t.Fatalf("unexpected second row: %+v", result.Teams[1])
	}
	if result.Teams[2].Team != "Texas" || result.Teams[2].Status != importStatusFailed || result.Teams[2].Message == "" {
		t.Fatalf("unexpected third row: %+v", result.Teams[2])
	}

	rows, err := recruitRepo.ListByBucket(context.Background(), 2025, "Oklahoma State")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Source != recruit.SourceImported {
		t.Fatalf("unexpected stored rows: %+v", rows)
	}
}

func TestImportService_ImportSeason_RecalcsScoredBuckets(t *testing.T) {
	t.Parallel()

	// A manual scored recruit already lives in the bucket, so the
	// post-import recompute has something to aggregate.
	recruitRepo := &stubRecruitRepository{}
	recruitRepo.seed(recruit.Recruit{
		Year: 2025, Team: "Oklahoma State", Name: "Veteran",
		Outcome: outcome.NFLStarter, Points: 7, Source: recruit.SourceManual,
	})

	provider := &stubRecruitProvider{
		byTeam: map[string][]ImportedRecruit{
			"Oklahoma State": {{Name: "Fresh QB", Position: "QB", Stars: 4}},
		},
	}
	rerankRepo := newStubRerankRepository()
	service := newImportService(provider, recruitRepo, rerankRepo)

	result, err := service.ImportSeason(context.Background(), 2025)
	if err != nil {
		t.Fatal(err)
	}

	var okstate *TeamImportResult
	for idx := range result.Teams {
		if result.Teams[idx].Team == "Oklahoma State" {
			okstate = &result.Teams[idx]
		}
	}
	if okstate == nil || okstate.Status != importStatusSuccess {
		t.Fatalf("expected successful import row, got %+v", okstate)
	}
	if !okstate.Recalced {
		t.Fatal("expected scored bucket to be recomputed")
	}

	snapshots, err := rerankRepo.ListByBucket(context.Background(), 2025, "Oklahoma State")
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 || snapshots[0].TotalPoints != 7 || snapshots[0].PlayerCount != 2 {
		t.Fatalf("unexpected recomputed snapshot: %+v", snapshots)
	}
}

func TestImportService_ImportSeason_UnscoredBucketsNotRecalced(t *testing.T) {
	t.Parallel()

	provider := &stubRecruitProvider{
		byTeam: map[string][]ImportedRecruit{
			"Texas": {{Name: "Fresh QB", Position: "QB"}},
		},
	}
	rerankRepo := newStubRerankRepository()
	service := newImportService(provider, &stubRecruitRepository{}, rerankRepo)

	result, err := service.ImportSeason(context.Background(), 2025)
	if err != nil {
		t.Fatal(err)
	}

	for _, row := range result.Teams {
		if row.Recalced {
			t.Fatalf("bucket without scored outcomes must not recompute: %+v", row)
		}
	}
	if rerankRepo.snapshotCount() != 0 {
		t.Fatalf("expected no snapshots, got %d", rerankRepo.snapshotCount())
	}
}

func TestImportService_ImportSeason_InvalidYear(t *testing.T) {
	t.Parallel()

	service := newImportService(&stubRecruitProvider{}, &stubRecruitRepository{}, newStubRerankRepository())

	if _, err := service.ImportSeason(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
