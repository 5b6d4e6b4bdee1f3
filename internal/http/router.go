package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/urbanbyte/desempenho/internal/config"
	httpmiddleware "github.com/urbanbyte/desempenho/internal/http/middleware"
	"github.com/urbanbyte/desempenho/internal/identity"
	"github.com/urbanbyte/desempenho/internal/stats"
	"github.com/urbanbyte/desempenho/internal/worker"
)

// Handler agrega as dependências expostas pelas rotas transversais.
type Handler struct {
	pool          *pgxpool.Pool
	redis         *redis.Client
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve o roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client,
	identityService *identity.Service, workerService *worker.Service, statsService *stats.Service) http.Handler {

	h := &Handler{
		pool:          pool,
		redis:         redisClient,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	identityHandler := identity.NewHandler(identityService)
	workerHandler := worker.NewHandler(workerService)
	statsHandler := stats.NewHandler(statsService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/api", func(api chi.Router) {
			identityHandler.RegisterPublicRoutes(api)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(identityService.JWT()))
		private.Use(httpmiddleware.OrgRateLimit(h.authLimiter))

		private.Route("/api", func(api chi.Router) {
			identityHandler.RegisterProtectedRoutes(api)
			workerHandler.RegisterRoutes(api)
			statsHandler.RegisterRoutes(api)
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e, quando configurado, Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	details := map[string]any{}
	ready := true

	if err := h.pool.Ping(ctx); err != nil {
		ready = false
		details["db"] = err.Error()
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			ready = false
			details["redis"] = err.Error()
		}
	}

	if !ready {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", details)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
