package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/recruitboard/recruitboard/internal/domain/outcome"
	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/domain/roster"
)

func testRoster() *roster.Roster {
	return roster.New([]string{"Oklahoma State", "Texas", "Alabama"})
}

func TestRecruitService_ImportClass_ReplacesImportedKeepsManual(t *testing.T) {
	t.Parallel()

	repo := &stubRecruitRepository{}
	repo.seed(
		recruit.Recruit{Year: 2025, Team: "Oklahoma State", Name: "Old Import", Source: recruit.SourceImported},
		recruit.Recruit{Year: 2025, Team: "Oklahoma State", Name: "Hand Added", Source: recruit.SourceManual, Outcome: outcome.NFLDrafted, Points: 6},
	)
	service := NewRecruitService(repo, testRoster())

	inserted, err := service.ImportClass(context.Background(), 2025, "oklahoma state", []ImportedRecruit{
		{Name: "Fresh One", Position: "QB", Stars: 4, Rank: 12},
		{Name: "  ", Position: "RB"},
		{Name: "Fresh Two", Position: "WR", Stars: 3, Rank: 88},
	})
	if err != nil {
		t.Fatalf("ImportClass error: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}

	rows, err := service.ListClass(context.Background(), 2025, "Oklahoma State")
	if err != nil {
		t.Fatalf("ListClass error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected manual row plus 2 imports, got %d rows", len(rows))
	}
	for _, row := range rows {
		if row.Name == "Old Import" {
			t.Fatal("stale imported row survived re-import")
		}
		if row.Name == "Hand Added" && row.Points != 6 {
			t.Fatalf("manual row was touched by import: %+v", row)
		}
		if row.Team != "Oklahoma State" {
			t.Fatalf("expected canonical team name, got %q", row.Team)
		}
	}
}

func TestRecruitService_AddRecruit_SetsPointsFromOutcome(t *testing.T) {
	t.Parallel()

	repo := &stubRecruitRepository{}
	service := NewRecruitService(repo, testRoster())

	row, err := service.AddRecruit(context.Background(), 2025, "Texas", recruit.Recruit{
		Name:    "  Jalen  Smith ",
		Outcome: outcome.NFLDrafted,
	})
	if err != nil {
		t.Fatalf("AddRecruit error: %v", err)
	}
	if row.ID == 0 || row.Name != "Jalen Smith" || row.Points != 6 || row.Source != recruit.SourceManual {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestRecruitService_AddRecruit_RejectsUnknownOutcome(t *testing.T) {
	t.Parallel()

	service := NewRecruitService(&stubRecruitRepository{}, testRoster())

	_, err := service.AddRecruit(context.Background(), 2025, "Texas", recruit.Recruit{
		Name:    "Somebody",
		Outcome: "Heisman Winner",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecruitService_AddRecruit_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	repo := &stubRecruitRepository{}
	repo.seed(recruit.Recruit{Year: 2025, Team: "Texas", Name: "Jalen Smith", Source: recruit.SourceImported})
	service := NewRecruitService(repo, testRoster())

	_, err := service.AddRecruit(context.Background(), 2025, "Texas", recruit.Recruit{Name: "jalen smith"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRecruitService_DeleteRecruit(t *testing.T) {
	t.Parallel()

	repo := &stubRecruitRepository{}
	repo.seed(
		recruit.Recruit{Year: 2025, Team: "Texas", Name: "Imported Guy", Source: recruit.SourceImported},
		recruit.Recruit{Year: 2025, Team: "Texas", Name: "Manual Guy", Source: recruit.SourceManual},
	)
	service := NewRecruitService(repo, testRoster())
	ctx := context.Background()

	if err := service.DeleteRecruit(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := service.DeleteRecruit(ctx, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for imported row, got %v", err)
	}
	if err := service.DeleteRecruit(ctx, 2); err != nil {
		t.Fatalf("expected manual delete to succeed, got %v", err)
	}

	rows, err := service.ListClass(ctx, 2025, "Texas")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Name != "Imported Guy" {
		t.Fatalf("unexpected remaining rows: %+v", rows)
	}
}

func TestRecruitService_UpdateOutcomes_StopsAtFirstFailureKeepsApplied(t *testing.T) {
	t.Parallel()

	repo := &stubRecruitRepository{}
	repo.seed(
		recruit.Recruit{Year: 2025, Team: "Alabama", Name: "One", Source: recruit.SourceImported},
		recruit.Recruit{Year: 2025, Team: "Alabama", Name: "Two", Source: recruit.SourceImported},
		recruit.Recruit{Year: 2025, Team: "Alabama", Name: "Three", Source: recruit.SourceImported},
	)
	service := NewRecruitService(repo, testRoster())
	ctx := context.Background()

	applied, err := service.UpdateOutcomes(ctx, 2025, "Alabama", []OutcomeUpdate{
		{RecruitID: 1, Outcome: outcome.AllAmerican},
		{RecruitID: 2, Outcome: "Not A Real Outcome"},
		{RecruitID: 3, Outcome: outcome.NFLProBowl},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 applied before failure, got %d", applied)
	}

	rows, err := service.ListClass(ctx, 2025, "Alabama")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Outcome != outcome.AllAmerican || rows[0].Points != 4 {
		t.Fatalf("first update should have stuck: %+v", rows[0])
	}
	if rows[1].Outcome != "" || rows[1].Points != 0 {
		t.Fatalf("second update should not have applied: %+v", rows[1])
	}
	if rows[2].Outcome != "" || rows[2].Points != 0 {
		t.Fatalf("third update should never run: %+v", rows[2])
	}
}

func TestRecruitService_UpdateOutcomes_SkipsForeignAndMissingRows(t *testing.T) {
	t.Parallel()

	repo := &stubRecruitRepository{}
	repo.seed(
		recruit.Recruit{Year: 2024, Team: "Texas", Name: "Elsewhere", Source: recruit.SourceImported},
		recruit.Recruit{Year: 2025, Team: "Alabama", Name: "One", Source: recruit.SourceImported},
		recruit.Recruit{Year: 2025, Team: "Alabama", Name: "Two", Source: recruit.SourceImported},
	)
	service := NewRecruitService(repo, testRoster())

	applied, err := service.UpdateOutcomes(context.Background(), 2025, "Alabama", []OutcomeUpdate{
		{RecruitID: 1, Outcome: outcome.CollegeStarter},
		{RecruitID: 2, Outcome: outcome.CollegeStarter},
		{RecruitID: 999, Outcome: outcome.CollegeStarter},
		{RecruitID: 3, Outcome: outcome.NFLProBowl},
	})
	if err != nil {
		t.Fatalf("UpdateOutcomes error: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 applied with skips, got %d", applied)
	}

	rows, err := service.ListClass(context.Background(), 2025, "Alabama")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Outcome != outcome.CollegeStarter || rows[1].Outcome != outcome.NFLProBowl {
		t.Fatalf("unexpected outcomes after skips: %+v", rows)
	}

	foreign, err := service.ListClass(context.Background(), 2024, "Texas")
	if err != nil {
		t.Fatal(err)
	}
	if foreign[0].Outcome != "" || foreign[0].Points != 0 {
		t.Fatalf("foreign-bucket row was touched: %+v", foreign[0])
	}
}
