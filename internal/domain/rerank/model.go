package rerank

import (
	"errors"
	"time"
)

var (
	ErrNoRecruits        = errors.New("no recruits in class")
	ErrNoScoredOutcomes  = errors.New("no recruits with outcomes assigned")
	ErrUserDataProtected = errors.New("user-created re-rank protects this class")
)

// Tier distinguishes how a snapshot came to exist. User-created snapshots
// always take precedence over auto-generated ones when selecting the
// current snapshot for a bucket, regardless of recency.
type Tier string

const (
	TierUserCreated   Tier = "user"
	TierAutoGenerated Tier = "auto"
)

// Snapshot is one immutable-once-written aggregate re-rank computation for a
// (year, team) bucket. CreatedBy is nil for auto-generated snapshots.
type Snapshot struct {
	ID          int64
	Year        int
	Team        string
	TotalPoints int
	AvgPoints   float64
	CreatedBy   *string
	CreatedAt   time.Time
	PlayerCount int
}

func (s Snapshot) Tier() Tier {
	if s.CreatedBy != nil {
		return TierUserCreated
	}
	return TierAutoGenerated
}

// PlayerRow is a line item belonging to exactly one snapshot. Rows live and
// die with their parent.
type PlayerRow struct {
	ID      int64
	ClassID int64
	Name    string
	Points  int
	Note    string
}

// Current selects "the" snapshot for a bucket: the most recently created
// user-created snapshot when any exists, otherwise the most recently created
// auto-generated one. Both the leaderboard and the per-class meta lookup go
// through this function so the two views cannot diverge.
func Current(snapshots []Snapshot) (Snapshot, bool) {
	var best Snapshot
	found := false
	for _, s := range snapshots {
		if !found {
			best = s
			found = true
			continue
		}
		if preferred(s, best) {
			best = s
		}
	}
	return best, found
}

func preferred(candidate, current Snapshot) bool {
	if candidate.Tier() != current.Tier() {
		return candidate.Tier() == TierUserCreated
	}
	if !candidate.CreatedAt.Equal(current.CreatedAt) {
		return candidate.CreatedAt.After(current.CreatedAt)
	}
	return candidate.ID > current.ID
}
