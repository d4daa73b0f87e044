package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"daystar/internal/attendance/models"
	"daystar/internal/attendance/service"
	authmodels "daystar/internal/auth/models"
	"daystar/internal/platform/metrics"
	"daystar/internal/platform/middleware"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/httputil"
	"daystar/pkg/requestcontext"
)

// Service defines the interface for attendance operations.
type Service interface {
	CheckIn(ctx context.Context, req service.CheckInRequest) (*models.Attendance, error)
	CheckOut(ctx context.Context, attendanceID id.AttendanceID, checkOutTime, notes string) (*models.Attendance, error)
	Get(ctx context.Context, attendanceID id.AttendanceID) (*models.Attendance, error)
	List(ctx context.Context, date string) ([]*models.Attendance, error)
	Delete(ctx context.Context, attendanceID id.AttendanceID) error
}

// Handler handles attendance endpoints.
type Handler struct {
	logger       *slog.Logger
	attendance   Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	trl          middleware.RevocationList
}

func New(attendance Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator, trl middleware.RevocationList) *Handler {
	return &Handler{
		logger:       logger,
		attendance:   attendance,
		metrics:      m,
		jwtValidator: jwtValidator,
		trl:          trl,
	}
}

// Register registers the attendance routes with the chi router. Check-in
// and check-out are open to any authenticated staff member; deleting a
// record requires the manager role.
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

	router.Post("/checkin", h.handleCheckIn)
	router.Put("/checkout/{id}", h.handleCheckOut)
	router.Get("/", h.handleList)
	router.Get("/{id}", h.handleGet)

	router.Group(func(mr chi.Router) {
		mr.Use(middleware.RequireRole(h.logger, string(authmodels.RoleManager)))
		mr.Delete("/{id}", h.handleDelete)
	})

	r.Mount("/api/attendance", router)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rec, err := h.attendance.CheckIn(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "check-in rejected",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

type checkOutRequest struct {
	CheckOutTime string `json:"checkOutTime"`
	Notes        string `json:"notes"`
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := id.ParseAttendanceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req checkOutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	rec, err := h.attendance.CheckOut(r.Context(), attendanceID, req.CheckOutTime, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendance.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := id.ParseAttendanceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.attendance.Get(r.Context(), attendanceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := id.ParseAttendanceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.attendance.Delete(r.Context(), attendanceID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "attendance record deleted"})
}
