package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/balarco/balarco-backend/api/controllers"
	"github.com/balarco/balarco-backend/api/middleware"
	"github.com/balarco/balarco-backend/internal/auth"
	"github.com/balarco/balarco-backend/internal/clients"
	"github.com/balarco/balarco-backend/internal/igualas"
	"github.com/balarco/balarco-backend/internal/notifications"
	"github.com/balarco/balarco-backend/internal/works"
	"github.com/balarco/balarco-backend/pkg/auth/session"
	"github.com/balarco/balarco-backend/pkg/config"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/balarco/balarco-backend/pkg/redis"
)

// uploadRequestFactor bounds a multipart request to this many per-file caps.
const uploadRequestFactor = 8

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	worksService works.Service,
	notificationsService notifications.Service,
	clientsService clients.Service,
	igualasService igualas.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	refreshPolicy := middleware.NewAuthRateLimitPolicy(
		"refresh",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	).WithIdentityField("refresh_token")

	maxBody := cfg.Storage.MaxUploadBytes() * uploadRequestFactor

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	r.Method(http.MethodGet, "/metrics", controllers.Metrics(gatherer))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimitStore(redisClient), logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(refreshPolicy, rateLimitStore(redisClient), logg)).Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/statuses", controllers.StatusCatalog())

		r.Route("/works", func(r chi.Router) {
			r.Post("/", controllers.WorkCreate(worksService, maxBody, logg))
			r.Route("/{workId}", func(r chi.Router) {
				r.Get("/", controllers.WorkDetail(worksService, logg))
				r.Patch("/", controllers.WorkUpdate(worksService, maxBody, logg))
				r.With(middleware.RequireAnyRole(logg,
					enums.RoleDirectorCuentas,
					enums.RoleEjecutivo,
					enums.RoleAdministracion,
				)).Delete("/", controllers.WorkDelete(worksService, logg))
				r.Get("/status-changes", controllers.WorkStatusChanges(worksService, logg))
				r.Get("/possible-status-changes", controllers.WorkPossibleStatusChanges(worksService, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/seen-all", controllers.MarkAllNotificationsSeen(notificationsService, logg))
			r.Post("/{notificationId}/seen", controllers.MarkNotificationSeen(notificationsService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleDirectorCuentas, enums.RoleAdministracion))
			r.Delete("/clients/{clientId}", controllers.ClientDelete(clientsService, logg))
			r.Delete("/contacts/{contactId}", controllers.ContactDelete(clientsService, logg))
			r.Delete("/igualas/{igualaId}", controllers.IgualaDelete(igualasService, logg))
			r.Put("/igualas/{igualaId}/art-igualas", controllers.IgualaArtIgualasUpsert(igualasService, logg))
		})
	})

	return r
}

type counterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// rateLimitStore keeps a nil client from becoming a non-nil interface.
func rateLimitStore(client *redis.Client) counterStore {
	if client == nil {
		return nil
	}
	return client
}
