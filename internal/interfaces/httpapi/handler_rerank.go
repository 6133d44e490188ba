package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/recruitboard/recruitboard/internal/usecase"
)

func (h *Handler) GetRerankClass(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRerankClass")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	snapshot, players, err := h.rerankService.CurrentClass(ctx, year, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get re-rank class failed", "year", year, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rerankClassToDTO(ctx, snapshot, players))
}

func (h *Handler) GetProtectionStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProtectionStatus")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	status, err := h.rerankService.ProtectionStatus(ctx, year, team)
	if err != nil {
		h.logger.WarnContext(ctx, "get protection status failed", "year", year, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := protectionDTO{
		Year:          status.Year,
		Team:          status.Team,
		Protected:     status.Protected,
		UserSnapshots: status.UserSnapshots,
	}
	if status.LatestUserAt != nil {
		dto.LatestUserAt = status.LatestUserAt.UTC().Format(time.RFC3339)
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) RecalcRerankClass(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalcRerankClass")
	defer span.End()

	year, err := yearFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team := teamFromPath(r)

	result, err := h.rerankService.RecalcFromRecruits(ctx, year, team)
	if err != nil {
		h.logger.WarnContext(ctx, "recalc re-rank class failed", "year", year, "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := rerankClassToDTO(ctx, result.Snapshot, result.Players)
	dto.ScoredCount = result.ScoredCount

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) SaveRerankClass(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveRerankClass")
	defer span.End()

	// Identity is optional here: an authenticated save is user-created, an
	// anonymous one stays auto-tier.
	userID := ""
	if principal, ok := principalFromContext(ctx); ok {
		userID = principal.UserID
	}

	var req saveRerankClassRequest
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

	players := make([]usecase.SavedPlayer, 0, len(req.Players))
	for _, record := range req.Players {
		players = append(players, usecase.SavedPlayer{
			Name:   record.Name,
			Points: record.Points,
			Note:   record.Note,
		})
	}

	snapshot, err := h.rerankService.SaveClass(ctx, userID, req.Year, req.Team, players)
	if err != nil {
		h.logger.WarnContext(ctx, "save re-rank class failed",
			"user_id", userID,
			"year", req.Year,
			"team", req.Team,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	lines := make([]playerLineDTO, 0, len(players))
	for _, player := range players {
		lines = append(lines, playerLineDTO{
			Name:   player.Name,
			Points: player.Points,
			Note:   player.Note,
		})
	}

	dto := rerankClassToDTO(ctx, snapshot, nil)
	dto.Players = lines

	writeSuccess(ctx, w, http.StatusCreated, dto)
}
