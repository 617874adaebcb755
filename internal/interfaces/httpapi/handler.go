package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/usecase"
)

type fixtureReader interface {
	LiveFixtures(ctx context.Context) ([]fixture.Fixture, error)
	UpcomingFixtures(ctx context.Context) ([]fixture.Fixture, error)
	CompletedFixtures(ctx context.Context) ([]fixture.Fixture, error)
	FixturesBySport(ctx context.Context, sport, status string) ([]fixture.Fixture, error)
	FixtureByID(ctx context.Context, id string) (*fixture.Fixture, error)
}

type syncTrigger interface {
	SyncAll(ctx context.Context) (usecase.SyncResult, error)
}

type Handler struct {
	fixtures  fixtureReader
	sync      syncTrigger
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(fixtures fixtureReader, sync syncTrigger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		fixtures:  fixtures,
		sync:      sync,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLiveFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveFixtures")
	defer span.End()

	records, err := h.fixtures.LiveFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(records))
}

func (h *Handler) ListUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingFixtures")
	defer span.End()

	records, err := h.fixtures.UpcomingFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(records))
}

func (h *Handler) ListCompletedFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompletedFixtures")
	defer span.End()

	records, err := h.fixtures.CompletedFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list completed fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(records))
}

type sportFixturesQuery struct {
	Sport  string `validate:"required,alphanum"`
	Status string `validate:"omitempty,oneof=SCHEDULED LIVE COMPLETED POSTPONED CANCELLED"`
}

func (h *Handler) ListFixturesBySport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesBySport")
	defer span.End()

	query := sportFixturesQuery{
		Sport:  strings.TrimSpace(r.PathValue("sport")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	if err := h.validator.StructCtx(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	records, err := h.fixtures.FixturesBySport(ctx, query.Sport, query.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures by sport failed", "sport", query.Sport, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(records))
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	id := strings.TrimSpace(r.PathValue("fixtureID"))
	record, err := h.fixtures.FixtureByID(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(*record))
}

func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSync")
	defer span.End()

	started := time.Now()
	result, err := h.sync.SyncAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "manual sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	// Per-provider partial failures stay in the logs; callers only get a
	// pass/fail summary.
	fetched := 0
	for _, src := range result.Sources {
		fetched += src.Fetched
	}
	h.logger.InfoContext(ctx, "manual sync finished",
		"duration_ms", time.Since(started).Milliseconds(),
		"providers", len(result.Sources),
		"fetched", fetched,
	)
	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		Success: true,
		Message: fmt.Sprintf("synced %d fixtures from %d providers", fetched, len(result.Sources)),
	})
}
