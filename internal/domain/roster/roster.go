package roster

import (
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Roster is the fixed set of programs the leaderboard reports on. Every
// configured team appears in a season leaderboard whether or not it has data;
// teams outside the roster can still hold recruit data but will not be ranked
// until added.
type Roster struct {
	names      []string
	byNormName map[string]string
}

// New builds a roster from display names. Blank entries are dropped and
// duplicates (case-insensitive) collapse onto the first spelling seen.
func New(names []string) *Roster {
	r := &Roster{
		names:      make([]string, 0, len(names)),
		byNormName: make(map[string]string, len(names)),
	}
	for _, name := range names {
		display := strings.Join(strings.Fields(name), " ")
		if display == "" {
			continue
		}
		key := Normalize(display)
		if _, exists := r.byNormName[key]; exists {
			continue
		}
		r.byNormName[key] = display
		r.names = append(r.names, display)
	}
	return r
}

// Default returns the built-in FBS roster.
func Default() *Roster {
	return New(defaultTeams)
}

// LoadFile reads a JSON array of team names. An empty path yields the
// built-in roster.
func LoadFile(path string) (*Roster, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var names []string
	if err := sonic.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("roster file %s contains no teams", path)
	}

	return New(names), nil
}

// Teams returns the configured display names in roster order.
func (r *Roster) Teams() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Contains reports whether the team is part of the roster.
func (r *Roster) Contains(name string) bool {
	_, ok := r.byNormName[Normalize(name)]
	return ok
}

// Canonical maps any spelling of a roster team onto its display form.
// Teams outside the roster pass through trimmed but otherwise unchanged,
// so off-roster buckets remain addressable.
func (r *Roster) Canonical(name string) string {
	if display, ok := r.byNormName[Normalize(name)]; ok {
		return display
	}
	return strings.Join(strings.Fields(name), " ")
}

// Normalize lowers and collapses whitespace so spellings of the same team
// key the same bucket.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Slug derives the flat-file export key for a team ("Oklahoma State" ->
// "oklahoma_state").
func Slug(name string) string {
	return strings.ReplaceAll(Normalize(name), " ", "_")
}
