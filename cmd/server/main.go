// Command server runs the daycare records API: authentication, rosters,
// attendance, incidents and the financial ledger behind one chi router,
// with Prometheus metrics on a separate listener.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	attendancehandler "daystar/internal/attendance/handler"
	attendanceservice "daystar/internal/attendance/service"
	attendancestore "daystar/internal/attendance/store"
	authhandler "daystar/internal/auth/handler"
	authmodels "daystar/internal/auth/models"
	authservice "daystar/internal/auth/service"
	"daystar/internal/auth/store/revocation"
	userstore "daystar/internal/auth/store/user"
	financehandler "daystar/internal/finance/handler"
	financeservice "daystar/internal/finance/service"
	expensestore "daystar/internal/finance/store/expense"
	paymentstore "daystar/internal/finance/store/payment"
	incidenthandler "daystar/internal/incident/handler"
	incidentservice "daystar/internal/incident/service"
	incidentstore "daystar/internal/incident/store"
	"daystar/internal/jwttoken"
	"daystar/internal/platform/config"
	"daystar/internal/platform/httpserver"
	"daystar/internal/platform/logger"
	"daystar/internal/platform/metrics"
	"daystar/internal/platform/middleware"
	"daystar/internal/platform/postgres"
	platformredis "daystar/internal/platform/redis"
	rosterhandler "daystar/internal/roster/handler"
	rosterservice "daystar/internal/roster/service"
	babysitterstore "daystar/internal/roster/store/babysitter"
	childstore "daystar/internal/roster/store/child"
	id "daystar/pkg/domain"
)

// stores groups the persistence layer under the widest interface each
// entity exposes; services taking narrower views accept these directly.
type stores struct {
	users      authservice.UserStore
	accountOps rosterservice.UserStore
	sitters    rosterservice.BabysitterStore
	children   rosterservice.ChildStore
	attendance attendanceservice.Store
	incidents  incidentservice.Store
	payments   financeservice.PaymentStore
	expenses   financeservice.ExpenseStore
}

// revocationList is the full surface of a token revocation list: the
// auth service revokes on logout, the middleware checks on every request.
type revocationList interface {
	authservice.TokenRevocationList
	middleware.RevocationList
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}

	trl, err := buildRevocationList(ctx, cfg, log)
	if err != nil {
		log.Error("revocation list initialization failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "daystar", cfg.AccessTokenTTL)
	validator := jwttoken.NewJWTServiceAdapter(tokens)

	auth := authservice.New(st.users, tokens,
		authservice.WithLogger(log),
		authservice.WithRevocationList(trl),
	)
	roster := rosterservice.New(st.sitters, st.children, st.accountOps,
		rosterservice.WithLogger(log),
	)
	attendance := attendanceservice.New(st.attendance, st.children, st.sitters,
		attendanceservice.WithLogger(log),
		attendanceservice.WithMetrics(m),
	)
	incidents := incidentservice.New(st.incidents, st.children, st.sitters,
		incidentservice.WithLogger(log),
		incidentservice.WithMetrics(m),
	)
	finance := financeservice.New(st.payments, st.expenses, st.sitters,
		financeservice.WithLogger(log),
		financeservice.WithMetrics(m),
	)

	router := chi.NewRouter()
	authhandler.New(auth, log, m, validator, trl).Register(router)
	rosterhandler.New(roster, log, m, validator, trl).Register(router)
	attendancehandler.New(attendance, log, m, validator, trl).Register(router)
	incidenthandler.New(incidents, log, m, validator, trl).Register(router)
	financehandler.New(finance, log, m, validator, trl).Register(router)

	apiSrv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api server listening", "addr", cfg.Addr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("api server shutdown", "error", err)
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStores selects PostgreSQL when DATABASE_URL is set and falls back
// to in-memory stores, seeded with a bootstrap manager, for development.
func buildStores(ctx context.Context, cfg config.Server) (*stores, error) {
	if cfg.DatabaseURL == "" {
		users := userstore.NewInMemory()
		if err := seedBootstrapManager(ctx, users); err != nil {
			return nil, err
		}
		return &stores{
			users:      users,
			accountOps: users,
			sitters:    babysitterstore.NewInMemory(),
			children:   childstore.NewInMemory(),
			attendance: attendancestore.NewInMemory(),
			incidents:  incidentstore.NewInMemory(),
			payments:   paymentstore.NewInMemory(),
			expenses:   expensestore.NewInMemory(),
		}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	users := userstore.NewPostgres(pool)
	return &stores{
		users:      users,
		accountOps: users,
		sitters:    babysitterstore.NewPostgres(pool),
		children:   childstore.NewPostgres(pool),
		attendance: attendancestore.NewPostgres(pool),
		incidents:  incidentstore.NewPostgres(pool),
		payments:   paymentstore.NewPostgres(pool),
		expenses:   expensestore.NewPostgres(pool),
	}, nil
}

// buildRevocationList prefers Redis so logout survives restarts and is
// shared across replicas; without Redis a per-process list still honors
// logout within this instance.
func buildRevocationList(ctx context.Context, cfg config.Server, log *slog.Logger) (revocationList, error) {
	client, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Info("redis not configured, using in-memory token revocation")
		return revocation.NewInMemoryTRL(), nil
	}
	return revocation.NewRedisTRL(client), nil
}

// seedBootstrapManager gives a fresh in-memory deployment one manager
// account so the dashboard is reachable before any registration.
func seedBootstrapManager(ctx context.Context, users *userstore.InMemory) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	manager, err := authmodels.NewUser(id.NewUserID(), "Daystar", "Admin",
		"admin@daystar.local", string(hash), authmodels.RoleManager, time.Now().UTC())
	if err != nil {
		return err
	}
	return users.CreateIfEmailAvailable(ctx, manager)
}
