package httpapi

import "net/http"

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.leaderboardService.Leaderboard(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// GetClassMeta reports one roster team's leaderboard standing, reusing the
// full leaderboard computation so rank semantics cannot diverge.
func (h *Handler) GetClassMeta(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClassMeta")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	row, err := h.leaderboardService.ClassMeta(ctx, year, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get class meta failed", "year", year, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardRowToDTO(ctx, row))
}
