package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/recruitboard/recruitboard/internal/domain/outcome"
	"github.com/recruitboard/recruitboard/internal/platform/logging"
	"github.com/recruitboard/recruitboard/internal/usecase"
)

type Handler struct {
	recruitService     *usecase.RecruitService
	rerankService      *usecase.RerankService
	leaderboardService *usecase.LeaderboardService
	importService      *usecase.ImportService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	recruitService *usecase.RecruitService,
	rerankService *usecase.RerankService,
	leaderboardService *usecase.LeaderboardService,
	importService *usecase.ImportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		recruitService:     recruitService,
		rerankService:      rerankService,
		leaderboardService: leaderboardService,
		importService:      importService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListOutcomes serves the fixed outcome catalog ordered by point value.
func (h *Handler) ListOutcomes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOutcomes")
	defer span.End()

	labels := outcome.Labels()
	items := make([]outcomeDTO, 0, len(labels))
	for _, label := range labels {
		points, _ := outcome.PointsFor(label)
		items = append(items, outcomeDTO{
			Label:  label,
			Points: points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func yearFromPath(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("year"))
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("%w: invalid year %q in path", usecase.ErrInvalidInput, raw)
	}
	return year, nil
}

func teamFromPath(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("team"))
}
