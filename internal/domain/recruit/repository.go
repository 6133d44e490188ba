package recruit

import "context"

type Repository interface {
	ListByBucket(ctx context.Context, year int, team string) ([]Recruit, error)
	GetByID(ctx context.Context, id int64) (Recruit, bool, error)
	ExistsByName(ctx context.Context, year int, team, name string) (bool, error)

	// ReplaceBucket deletes every row for (year, team) carrying the given
	// source and inserts the provided rows in their place, atomically.
	ReplaceBucket(ctx context.Context, year int, team, source string, recruits []Recruit) (int, error)

	Insert(ctx context.Context, r Recruit) (int64, error)
	Delete(ctx context.Context, id int64) error
	UpdateOutcome(ctx context.Context, id int64, outcome string, points int) error
}
