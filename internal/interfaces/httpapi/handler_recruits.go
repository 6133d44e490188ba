package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/usecase"
)

func (h *Handler) ListRecruits(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecruits")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	recruits, err := h.recruitService.ListClass(ctx, year, team)
	if err != nil {
		h.logger.WarnContext(ctx, "list recruits failed", "year", year, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]recruitDTO, 0, len(recruits))
	for _, row := range recruits {
		items = append(items, recruitToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddRecruit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRecruit")
	defer span.End()

	var req addRecruitRequest
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

	row, err := h.recruitService.AddRecruit(ctx, req.Year, req.Team, recruit.Recruit{
		Name:     req.Name,
		Position: req.Position,
		Stars:    req.Stars,
		Rank:     req.Rank,
		Outcome:  req.Outcome,
		Note:     req.Note,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add recruit failed", "year", req.Year, "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recruitToDTO(ctx, row))
}

func (h *Handler) DeleteRecruit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRecruit")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue("recruitID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: invalid recruit id %q in path", usecase.ErrInvalidInput, raw))
		return
	}

	if err := h.recruitService.DeleteRecruit(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete recruit failed", "recruit_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) UpdateRecruitOutcomes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRecruitOutcomes")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	var req updateOutcomesRequest
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

	updates := make([]usecase.OutcomeUpdate, 0, len(req.Updates))
	for _, record := range req.Updates {
		updates = append(updates, usecase.OutcomeUpdate{
			RecruitID: record.RecruitID,
			Outcome:   record.Outcome,
		})
	}

	applied, err := h.recruitService.UpdateOutcomes(ctx, year, team, updates)
	if err != nil {
		h.logger.WarnContext(ctx, "update outcomes failed",
			"year", year,
			"team", team,
			"applied", applied,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeUpdateResultDTO{
		Year:    year,
		Team:    team,
		Applied: applied,
	})
}
