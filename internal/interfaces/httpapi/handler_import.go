package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/recruitboard/recruitboard/internal/usecase"
)

// ImportRecruitClass pulls one roster team's class from the upstream feed and
// replaces the bucket's imported rows. Admin only; manual rows survive.
func (h *Handler) ImportRecruitClass(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportRecruitClass")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	result, err := h.importService.ImportTeam(ctx, year, team)
	if err != nil {
		h.logger.WarnContext(ctx, "import recruit class failed", "year", year, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamImportDTO{
		Team:       result.Team,
		Slug:       result.Slug,
		Recruits:   result.Recruits,
		Status:     result.Status,
		Message:    result.Message,
		Recalced:   result.Recalced,
		DurationMs: result.DurationMs,
	})
}

// RunSeasonImportJob imports every roster team's class for the year. Reached
// only through the internal job token, never by end users.
func (h *Handler) RunSeasonImportJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeasonImportJob")
	defer span.End()

	var req seasonImportRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.importService.ImportSeason(ctx, req.Year)
	if err != nil {
		h.logger.WarnContext(ctx, "season import failed", "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonImportToDTO(ctx, result))
}
