package rerank

import "context"

type Repository interface {
	ListByBucket(ctx context.Context, year int, team string) ([]Snapshot, error)
	ListByYear(ctx context.Context, year int) ([]Snapshot, error)
	ListUserCreatedByBucket(ctx context.Context, year int, team string) ([]Snapshot, error)
	GetByID(ctx context.Context, id int64) (Snapshot, bool, error)
	ListPlayers(ctx context.Context, classID int64) ([]PlayerRow, error)

	// Insert writes the snapshot and its line items atomically and returns
	// the new snapshot id.
	Insert(ctx context.Context, snapshot Snapshot, rows []PlayerRow) (int64, error)

	// DeleteAutoGenerated removes every auto-generated snapshot for the
	// bucket together with its line items.
	DeleteAutoGenerated(ctx context.Context, year int, team string) error
}
