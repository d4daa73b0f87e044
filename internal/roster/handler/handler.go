package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/platform/metrics"
	"daystar/internal/platform/middleware"
	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/httputil"
	"daystar/pkg/requestcontext"
)

// Service defines the interface for roster operations.
type Service interface {
	CreateBabysitter(ctx context.Context, in models.BabysitterInput) (*models.Babysitter, error)
	GetBabysitter(ctx context.Context, sitterID id.BabysitterID) (*models.Babysitter, error)
	ListBabysitters(ctx context.Context) ([]*models.Babysitter, error)
	UpdateBabysitter(ctx context.Context, sitterID id.BabysitterID, in models.BabysitterInput) (*models.Babysitter, error)
	DeleteBabysitter(ctx context.Context, sitterID id.BabysitterID) error

	CreateChild(ctx context.Context, in models.ChildInput) (*models.Child, error)
	GetChild(ctx context.Context, childID id.ChildID) (*models.Child, error)
	ListChildren(ctx context.Context) ([]*models.Child, error)
	UpdateChild(ctx context.Context, childID id.ChildID, in models.ChildInput) (*models.Child, error)
	DeleteChild(ctx context.Context, childID id.ChildID) error
}

// Handler handles babysitter and child roster endpoints.
type Handler struct {
	logger       *slog.Logger
	roster       Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	trl          middleware.RevocationList
}

func New(roster Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator, trl middleware.RevocationList) *Handler {
	return &Handler{
		logger:       logger,
		roster:       roster,
		metrics:      m,
		jwtValidator: jwtValidator,
		trl:          trl,
	}
}

// Register registers the roster routes with the chi router. All routes
// require authentication; babysitter writes additionally require the
// manager role.
func (h *Handler) Register(r chi.Router) {
	r.Mount("/api/babysitters", h.babysitterRouter())
	r.Mount("/api/children", h.childRouter())
}

func (h *Handler) baseRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.trl, h.logger))
	return router
}

func (h *Handler) babysitterRouter() chi.Router {
	router := h.baseRouter()

	router.Get("/", h.handleListBabysitters)
	router.Get("/{id}", h.handleGetBabysitter)

	router.Group(func(mr chi.Router) {
		mr.Use(middleware.RequireRole(h.logger, string(authmodels.RoleManager)))
		mr.Post("/", h.handleCreateBabysitter)
		mr.Put("/{id}", h.handleUpdateBabysitter)
		mr.Delete("/{id}", h.handleDeleteBabysitter)
	})
	return router
}

// Child operations are open to any authenticated role so babysitters can
// maintain enrollment details during the day.
func (h *Handler) childRouter() chi.Router {
	router := h.baseRouter()

	router.Get("/", h.handleListChildren)
	router.Get("/{id}", h.handleGetChild)
	router.Post("/", h.handleCreateChild)
	router.Put("/{id}", h.handleUpdateChild)
	router.Delete("/{id}", h.handleDeleteChild)
	return router
}

func (h *Handler) handleCreateBabysitter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.BabysitterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sitter, err := h.roster.CreateBabysitter(ctx, in)
	if err != nil {
		h.logger.WarnContext(ctx, "babysitter creation rejected",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sitter)
}

func (h *Handler) handleListBabysitters(w http.ResponseWriter, r *http.Request) {
	sitters, err := h.roster.ListBabysitters(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sitters)
}

func (h *Handler) handleGetBabysitter(w http.ResponseWriter, r *http.Request) {
	sitterID, err := id.ParseBabysitterID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sitter, err := h.roster.GetBabysitter(r.Context(), sitterID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sitter)
}

func (h *Handler) handleUpdateBabysitter(w http.ResponseWriter, r *http.Request) {
	sitterID, err := id.ParseBabysitterID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var in models.BabysitterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sitter, err := h.roster.UpdateBabysitter(r.Context(), sitterID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sitter)
}

func (h *Handler) handleDeleteBabysitter(w http.ResponseWriter, r *http.Request) {
	sitterID, err := id.ParseBabysitterID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.roster.DeleteBabysitter(r.Context(), sitterID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "babysitter deleted"})
}

func (h *Handler) handleCreateChild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.ChildInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	child, err := h.roster.CreateChild(ctx, in)
	if err != nil {
		h.logger.WarnContext(ctx, "child enrollment rejected",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, child)
}

func (h *Handler) handleListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.roster.ListChildren(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, children)
}

func (h *Handler) handleGetChild(w http.ResponseWriter, r *http.Request) {
	childID, err := id.ParseChildID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	child, err := h.roster.GetChild(r.Context(), childID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleUpdateChild(w http.ResponseWriter, r *http.Request) {
	childID, err := id.ParseChildID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var in models.ChildInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	child, err := h.roster.UpdateChild(r.Context(), childID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleDeleteChild(w http.ResponseWriter, r *http.Request) {
	childID, err := id.ParseChildID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.roster.DeleteChild(r.Context(), childID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "child deleted"})
}
