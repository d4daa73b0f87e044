package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/incident/models"
	"daystar/internal/platform/metrics"
	"daystar/internal/platform/middleware"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/httputil"
	"daystar/pkg/requestcontext"
)

// Service defines the interface for incident operations.
type Service interface {
	Report(ctx context.Context, in models.ReportInput) (*models.Incident, error)
	Get(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error)
	List(ctx context.Context, status string) ([]*models.Incident, error)
	Update(ctx context.Context, incidentID id.IncidentID, in models.UpdateInput) (*models.Incident, error)
	Resolve(ctx context.Context, incidentID id.IncidentID, followUpNotes string) (*models.Incident, error)
	Delete(ctx context.Context, incidentID id.IncidentID) error
}

// Handler handles incident report endpoints.
type Handler struct {
	logger       *slog.Logger
	incidents    Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	trl          middleware.RevocationList
}

func New(incidents Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator, trl middleware.RevocationList) *Handler {
	return &Handler{
		logger:       logger,
		incidents:    incidents,
		metrics:      m,
		jwtValidator: jwtValidator,
		trl:          trl,
	}
}

// Register registers the incident routes with the chi router. Reporting,
// updating and resolving are open to any authenticated staff member;
// deleting a report requires the manager role.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.trl, h.logger))

	router.Post("/", h.handleReport)
	router.Get("/", h.handleList)
	router.Get("/{id}", h.handleGet)
	router.Put("/{id}", h.handleUpdate)
	router.Put("/{id}/resolve", h.handleResolve)

	router.Group(func(mr chi.Router) {
		mr.Use(middleware.RequireRole(h.logger, string(authmodels.RoleManager)))
		mr.Delete("/{id}", h.handleDelete)
	})

	r.Mount("/api/incidents", router)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	inc, err := h.incidents.Report(ctx, in)
	if err != nil {
		h.logger.WarnContext(ctx, "incident report rejected",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inc)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.incidents.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, incidents)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	incidentID, err := id.ParseIncidentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inc, err := h.incidents.Get(r.Context(), incidentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inc)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	incidentID, err := id.ParseIncidentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var in models.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	inc, err := h.incidents.Update(r.Context(), incidentID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inc)
}

type resolveRequest struct {
	FollowUpNotes string `json:"followUpNotes"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	incidentID, err := id.ParseIncidentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req resolveRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	inc, err := h.incidents.Resolve(r.Context(), incidentID, req.FollowUpNotes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inc)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	incidentID, err := id.ParseIncidentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.incidents.Delete(r.Context(), incidentID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "incident deleted"})
}
