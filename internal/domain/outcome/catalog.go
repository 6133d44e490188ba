package outcome

import "sort"

// Career outcome labels recognized by the re-rank point system.
const (
	Bust            = "Left Team/Little Contribution/Bust"
	FourYear        = "4 Year Contributor"
	CollegeStarter  = "College Starter"
	AllConference   = "All Conference"
	AllAmerican     = "All American"
	UndraftedRoster = "Undrafted but made NFL Roster"
	NFLDrafted      = "NFL Drafted"
	NFLStarter      = "NFL Starter"
	NFLProBowl      = "NFL Pro Bowl"
)

// pointsByLabel is the closed outcome catalog. It is defined once and never
// mutated; unknown labels are rejected by callers, never coerced.
var pointsByLabel = map[string]int{
	Bust:            0,
	FourYear:        1,
	CollegeStarter:  2,
	AllConference:   3,
	AllAmerican:     4,
	UndraftedRoster: 5,
	NFLDrafted:      6,
	NFLStarter:      7,
	NFLProBowl:      8,
}

// PointsFor resolves an outcome label to its fixed point value.
// The second return reports whether the label is part of the catalog.
func PointsFor(label string) (int, bool) {
	points, ok := pointsByLabel[label]
	return points, ok
}

// Known reports whether the label is part of the catalog.
func Known(label string) bool {
	_, ok := pointsByLabel[label]
	return ok
}

// Labels returns every catalog label ordered by ascending point value.
func Labels() []string {
	out := make([]string, 0, len(pointsByLabel))
	for label := range pointsByLabel {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool {
		if pointsByLabel[out[i]] != pointsByLabel[out[j]] {
			return pointsByLabel[out[i]] < pointsByLabel[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
