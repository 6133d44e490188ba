package recruit

// Provenance tags on recruit rows. Imported rows are replaced wholesale on
// re-import and cannot be deleted one by one; manual rows can.
const (
	SourceImported = "cfbd"
	SourceManual   = "manual"
)

// Recruit is one recruiting-class member for a (year, team) bucket.
type Recruit struct {
	ID       int64
	Year     int
	Team     string
	Name     string
	Position string
	Stars    int
	Rank     int
	Outcome  string
	Points   int
	Note     string
	Source   string
}

// Scored reports whether the recruit carries a scored outcome.
func (r Recruit) Scored() bool {
	return r.Points > 0
}

// LineNote is what a re-rank line item records for the recruit: the outcome
// label when one is assigned, otherwise the free-text note.
func (r Recruit) LineNote() string {
	if r.Outcome != "" {
		return r.Outcome
	}
	return r.Note
}
