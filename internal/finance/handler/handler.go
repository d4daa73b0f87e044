package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/finance/models"
	"daystar/internal/finance/service"
	"daystar/internal/platform/metrics"
	"daystar/internal/platform/middleware"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/httputil"
	"daystar/pkg/requestcontext"
)

// Service defines the interface for ledger operations.
type Service interface {
	CreatePayment(ctx context.Context, in models.PaymentInput) (*models.Payment, error)
	GetPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	ListPayments(ctx context.Context, status string, babysitterID id.BabysitterID) ([]*models.Payment, error)
	ListMyPayments(ctx context.Context) ([]*models.Payment, error)
	UpdatePayment(ctx context.Context, paymentID id.PaymentID, in models.PaymentUpdateInput) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID id.PaymentID, status string) (*models.Payment, error)
	DeletePayment(ctx context.Context, paymentID id.PaymentID) error

	CreateExpense(ctx context.Context, in models.ExpenseInput) (*models.Expense, error)
	GetExpense(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error)
	ListExpenses(ctx context.Context, query service.ExpenseQuery) ([]*models.Expense, error)
	ExpenseSummary(ctx context.Context, query service.ExpenseQuery) (*models.Summary, error)
	UpdateExpense(ctx context.Context, expenseID id.ExpenseID, in models.ExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID id.ExpenseID) error
}

// Handler handles payment and expense endpoints.
type Handler struct {
	logger       *slog.Logger
	finance      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	trl          middleware.RevocationList
}

func New(finance Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator, trl middleware.RevocationList) *Handler {
	return &Handler{
		logger:       logger,
		finance:      finance,
		metrics:      m,
		jwtValidator: jwtValidator,
		trl:          trl,
	}
}

// Register registers the ledger routes with the chi router. Expenses and
// payment writes are manager-only; babysitters read their own payments.
func (h *Handler) Register(r chi.Router) {
	r.Mount("/api/payments", h.paymentRouter())
	r.Mount("/api/expenses", h.expenseRouter())
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

func (h *Handler) paymentRouter() chi.Router {
	router := h.baseRouter()

	router.Get("/{id}", h.handleGetPayment)

	router.Group(func(br chi.Router) {
		br.Use(middleware.RequireRole(h.logger, string(authmodels.RoleBabysitter)))
		br.Get("/my", h.handleListMyPayments)
	})

	router.Group(func(mr chi.Router) {
		mr.Use(middleware.RequireRole(h.logger, string(authmodels.RoleManager)))
		mr.Post("/", h.handleCreatePayment)
		mr.Get("/", h.handleListPayments)
		mr.Put("/{id}", h.handleUpdatePayment)
		mr.Put("/{id}/status", h.handleUpdatePaymentStatus)
		mr.Delete("/{id}", h.handleDeletePayment)
	})
	return router
}

func (h *Handler) expenseRouter() chi.Router {
	router := h.baseRouter()
	router.Use(middleware.RequireRole(h.logger, string(authmodels.RoleManager)))

	router.Post("/", h.handleCreateExpense)
	router.Get("/", h.handleListExpenses)
	router.Get("/summary", h.handleExpenseSummary)
	router.Get("/{id}", h.handleGetExpense)
	router.Put("/{id}", h.handleUpdateExpense)
	router.Delete("/{id}", h.handleDeleteExpense)
	return router
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.finance.CreatePayment(ctx, in)
	if err != nil {
		h.logger.WarnContext(ctx, "payment creation rejected",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.finance.GetPayment(r.Context(), paymentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	var babysitterID id.BabysitterID
	if raw := r.URL.Query().Get("babysitterId"); raw != "" {
		parsed, err := id.ParseBabysitterID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		babysitterID = parsed
	}

	payments, err := h.finance.ListPayments(r.Context(), r.URL.Query().Get("status"), babysitterID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payments)
}

func (h *Handler) handleListMyPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.finance.ListMyPayments(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payments)
}

func (h *Handler) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var in models.PaymentUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.finance.UpdatePayment(r.Context(), paymentID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.finance.UpdatePaymentStatus(r.Context(), paymentID, req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.finance.DeletePayment(r.Context(), paymentID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "payment deleted"})
}

func (h *Handler) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	e, err := h.finance.CreateExpense(ctx, in)
	if err != nil {
		h.logger.WarnContext(ctx, "expense creation rejected",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func expenseQuery(r *http.Request) service.ExpenseQuery {
	q := r.URL.Query()
	return service.ExpenseQuery{
		Category: q.Get("category"),
		DateFrom: q.Get("from"),
		DateTo:   q.Get("to"),
	}
}

func (h *Handler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.finance.ListExpenses(r.Context(), expenseQuery(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.finance.ExpenseSummary(r.Context(), expenseQuery(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := id.ParseExpenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.finance.GetExpense(r.Context(), expenseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := id.ParseExpenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var in models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	e, err := h.finance.UpdateExpense(r.Context(), expenseID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := id.ParseExpenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.finance.DeleteExpense(r.Context(), expenseID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "expense deleted"})
}
