package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/recruitboard/recruitboard/internal/domain/outcome"
	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/domain/roster"
)

// RecruitService manages recruiting-class membership for (year, team)
// buckets: imported rows that are replaced wholesale, and manual rows that
// users add and remove one by one.
type RecruitService struct {
	recruitRepo recruit.Repository
	teams       *roster.Roster
}

func NewRecruitService(recruitRepo recruit.Repository, teams *roster.Roster) *RecruitService {
	return &RecruitService{
		recruitRepo: recruitRepo,
		teams:       teams,
	}
}

// ImportedRecruit is one upstream recruiting-class entry handed to
// ImportClass. Values arrive already coerced by the transport layer.
type ImportedRecruit struct {
	Name     string
	Position string
	Stars    int
	Rank     int
}

// OutcomeUpdate assigns a catalog outcome label to one recruit.
type OutcomeUpdate struct {
	RecruitID int64
	Outcome   string
}

func (s *RecruitService) ListClass(ctx context.Context, year int, team string) ([]recruit.Recruit, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecruitService.ListClass")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return nil, err
	}

	items, err := s.recruitRepo.ListByBucket(ctx, year, team)
	if err != nil {
		return nil, fmt.Errorf("list recruits: %w", err)
	}

	return items, nil
}

// ImportClass replaces every imported row in the bucket with the provided
// entries. Manual rows in the same bucket are untouched. Entries with a
// blank name are dropped rather than rejected, matching how upstream feeds
// ship incomplete rows.
func (s *RecruitService) ImportClass(ctx context.Context, year int, team string, entries []ImportedRecruit) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecruitService.ImportClass")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return 0, err
	}

	rows := make([]recruit.Recruit, 0, len(entries))
	for _, entry := range entries {
		name := strings.Join(strings.Fields(entry.Name), " ")
		if name == "" {
			continue
		}
		rows = append(rows, recruit.Recruit{
			Year:     year,
			Team:     team,
			Name:     name,
			Position: strings.TrimSpace(entry.Position),
			Stars:    entry.Stars,
			Rank:     entry.Rank,
			Source:   recruit.SourceImported,
		})
	}

	inserted, err := s.recruitRepo.ReplaceBucket(ctx, year, team, recruit.SourceImported, rows)
	if err != nil {
		return 0, fmt.Errorf("replace imported recruits: %w", err)
	}

	return inserted, nil
}

// AddRecruit appends a manual row to the bucket. An outcome label, when
// provided, must come from the catalog and fixes the row's points.
func (s *RecruitService) AddRecruit(ctx context.Context, year int, team string, item recruit.Recruit) (recruit.Recruit, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecruitService.AddRecruit")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return recruit.Recruit{}, err
	}

	name := strings.Join(strings.Fields(item.Name), " ")
	if name == "" {
		return recruit.Recruit{}, fmt.Errorf("%w: recruit name is required", ErrInvalidInput)
	}

	points := 0
	label := strings.TrimSpace(item.Outcome)
	if label != "" {
		value, ok := outcome.PointsFor(label)
		if !ok {
			return recruit.Recruit{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, label)
		}
		points = value
	}

	exists, err := s.recruitRepo.ExistsByName(ctx, year, team, name)
	if err != nil {
		return recruit.Recruit{}, fmt.Errorf("check recruit name: %w", err)
	}
	if exists {
		return recruit.Recruit{}, fmt.Errorf("%w: recruit %q already in class", ErrConflict, name)
	}

	row := recruit.Recruit{
		Year:     year,
		Team:     team,
		Name:     name,
		Position: strings.TrimSpace(item.Position),
		Stars:    item.Stars,
		Rank:     item.Rank,
		Outcome:  label,
		Points:   points,
		Note:     strings.TrimSpace(item.Note),
		Source:   recruit.SourceManual,
	}

	id, err := s.recruitRepo.Insert(ctx, row)
	if err != nil {
		return recruit.Recruit{}, fmt.Errorf("insert recruit: %w", err)
	}
	row.ID = id

	return row, nil
}

// DeleteRecruit removes a manual row. Imported rows are owned by the import
// cycle and cannot be deleted individually.
func (s *RecruitService) DeleteRecruit(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecruitService.DeleteRecruit")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: recruit id is required", ErrInvalidInput)
	}

	row, exists, err := s.recruitRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get recruit: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: recruit=%d", ErrNotFound, id)
	}
	if row.Source != recruit.SourceManual {
		return fmt.Errorf("%w: recruit %d is managed by import", ErrForbidden, id)
	}

	if err := s.recruitRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recruit: %w", err)
	}

	return nil
}

// UpdateOutcomes applies the updates in order. Rows that are missing or
// belong to another bucket are skipped; an unknown outcome label stops the
// batch. Updates applied before a stop stay applied and the caller is told
// how many went through.
func (s *RecruitService) UpdateOutcomes(ctx context.Context, year int, team string, updates []OutcomeUpdate) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecruitService.UpdateOutcomes")
	defer span.End()

	year, team, err := s.bucket(year, team)
	if err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, fmt.Errorf("%w: no outcome updates provided", ErrInvalidInput)
	}

	applied := 0
	for _, update := range updates {
		label := strings.TrimSpace(update.Outcome)
		points, ok := outcome.PointsFor(label)
		if !ok {
			return applied, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, update.Outcome)
		}

		row, exists, err := s.recruitRepo.GetByID(ctx, update.RecruitID)
		if err != nil {
			return applied, fmt.Errorf("get recruit for outcome update: %w", err)
		}
		if !exists || row.Year != year || !strings.EqualFold(row.Team, team) {
			continue
		}

		if err := s.recruitRepo.UpdateOutcome(ctx, update.RecruitID, label, points); err != nil {
			return applied, fmt.Errorf("update outcome recruit=%d: %w", update.RecruitID, err)
		}
		applied++
	}

	return applied, nil
}

func (s *RecruitService) bucket(year int, team string) (int, string, error) {
	if year <= 0 {
		return 0, "", fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	team = s.teams.Canonical(team)
	if team == "" {
		return 0, "", fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	return year, team, nil
}
