package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// PlayerLine is one exported line item, serialized in saved order.
type PlayerLine struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Note   string `json:"note"`
}

// Writer persists a portable flat-file copy of each manually saved re-rank
// class. The files are a portability artifact, not the system of record.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: strings.TrimSpace(dir)}
}

// Enabled reports whether an export directory is configured.
func (w *Writer) Enabled() bool {
	return w != nil && w.dir != ""
}

// WriteClass writes the player list for (year, teamSlug) as a JSON array,
// replacing any previous export for that key. The write goes through a temp
// file and rename so readers never observe a partial file.
func (w *Writer) WriteClass(year int, teamSlug string, players []PlayerLine) (string, error) {
	if !w.Enabled() {
		return "", nil
	}
	teamSlug = strings.TrimSpace(teamSlug)
	if teamSlug == "" {
		return "", fmt.Errorf("team slug is required")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	if players == nil {
		players = []PlayerLine{}
	}

	// Encode straight into the pooled buffer so the payload is built
	// without an intermediate allocation per export.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(players); err != nil {
		return "", fmt.Errorf("marshal export players: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%d_%s.json", year, teamSlug))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize export file: %w", err)
	}

	return path, nil
}

// ReadClass loads a previously exported player list. A missing file yields
// an empty list, mirroring how the export is only advisory.
func (w *Writer) ReadClass(year int, teamSlug string) ([]PlayerLine, error) {
	if !w.Enabled() {
		return []PlayerLine{}, nil
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%d_%s.json", year, strings.TrimSpace(teamSlug)))
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []PlayerLine{}, nil
		}
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var players []PlayerLine
	if err := sonic.Unmarshal(raw, &players); err != nil {
		return nil, fmt.Errorf("parse export file %s: %w", path, err)
	}

	return players, nil
}
