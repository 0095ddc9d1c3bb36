package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PHRJr/BuritisProject/api/controllers"
	"github.com/PHRJr/BuritisProject/api/middleware"
	"github.com/PHRJr/BuritisProject/internal/auth"
	"github.com/PHRJr/BuritisProject/internal/catalog"
	"github.com/PHRJr/BuritisProject/internal/orders"
	"github.com/PHRJr/BuritisProject/internal/reports"
	"github.com/PHRJr/BuritisProject/internal/users"
	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	pkgredis "github.com/PHRJr/BuritisProject/pkg/redis"
)

// Store is the Redis surface used by the HTTP layer. *redis.Client satisfies it.
type Store interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(context.Context) error
}

// Cookies is satisfied by *session.Cookies.
type Cookies interface {
	SessionID(r *http.Request) (string, error)
	Write(w http.ResponseWriter, now time.Time, sessionID string, role enums.Role) error
	Clear(w http.ResponseWriter)
}

// Sessions is satisfied by *session.Manager.
type Sessions interface {
	Get(ctx context.Context, sessionID string) (identity.Identity, error)
}

type Services struct {
	Auth    auth.Service
	Catalog catalog.Service
	Orders  orders.Service
	Reports reports.Service
	Users   users.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	store Store,
	cookies Cookies,
	sessions Sessions,
	svc Services,
	gatherer prometheus.Gatherer,
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
		cfg.Auth.LoginWindow,
		cfg.Auth.LoginIPLimit,
		cfg.Auth.LoginEmailLimit,
	)
	requireUser := middleware.RequireSession(enums.RoleUser, cookies, sessions, logg)
	requireAdmin := middleware.RequireSession(enums.RoleAdmin, cookies, sessions, logg)
	maxUpload := cfg.Catalog.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    store,
		}, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, store, logg)).Post("/user-login", controllers.UserLogin(svc.Auth, cookies, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, store, logg)).Post("/admin-login", controllers.AdminLogin(svc.Auth, cookies, logg))
		r.With(requireUser).Post("/logout", controllers.Logout(svc.Auth, cookies, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Use(middleware.Idempotency(store, logg))

			r.Get("/redes", controllers.ListNetworks(svc.Catalog, logg))
			r.Get("/lojas", controllers.ListStores(svc.Catalog, logg))
			r.Get("/produtos", controllers.ListProducts(svc.Catalog, logg))
			r.Get("/produtos_por_rede", controllers.ListNetworkProducts(svc.Catalog, logg))
			r.Post("/adicionar_item", controllers.SubmitItems(svc.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Post("/upload-users", controllers.UploadAllowList(svc.Users, maxUpload, logg))
			r.Post("/atualizar-dados", controllers.RefreshCatalog(svc.Catalog, maxUpload, logg))
			r.Get("/exportar-entradas", controllers.ExportEntries(svc.Reports, logg))
		})
	})

	publicDir := cfg.App.PublicDir
	r.Get("/", controllers.RootRedirect())
	r.With(requireUser).Get("/"+controllers.PageIndex, controllers.Page(publicDir, controllers.PageIndex))
	r.With(requireUser).Get("/"+controllers.PageProducts, controllers.Page(publicDir, controllers.PageProducts))
	r.With(requireAdmin).Get("/"+controllers.PageAdmin, controllers.Page(publicDir, controllers.PageAdmin))
	r.Handle("/*", controllers.StaticFiles(publicDir))

	return r
}
