package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func NewRouter(
	hHealth *HealthHandler,
	hConv *ConversationHandler,
	metrics http.Handler,
	adminToken string,
) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	RegisterRoutes(r, hHealth, hConv, metrics, adminToken)
	return r
}

func RegisterRoutes(
	r chi.Router,
	hHealth *HealthHandler,
	hConv *ConversationHandler,
	metrics http.Handler,
	adminToken string,
) {
	// --- health ---
	r.With(httputil.RecoverMiddleware).Get("/ping", hHealth.Ping)
	r.With(httputil.RecoverMiddleware).Get("/healthz", hHealth.Health)
	r.With(httputil.RecoverMiddleware).Method(http.MethodGet, "/metrics", metrics)

	// --- protected ---
	r.Route("/users", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(60, time.Minute),
			AuthMiddleware(adminToken),
		)

		pr.Get("/{telegram_id}/history", hConv.GetHistory)
		pr.Delete("/{telegram_id}/history", hConv.ClearHistory)
		pr.Get("/{telegram_id}/settings", hConv.GetSettings)
	})
}
