package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RouterConfig holds the routing-level settings.
type RouterConfig struct {
	// APIKey guards /convert and /download_last_xlsx when set.
	APIKey string
	// RateLimit caps /convert requests per IP per minute.
	RateLimit int
}

// NewRouter builds the HTTP router. Liveness and version stay open; the
// conversion surface sits behind the optional API key and a rate limit.
func NewRouter(h *Handler, log *zap.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/", h.Home)
	r.Get("/version", h.Version)

	r.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(cfg.APIKey))
		r.With(httprate.LimitByIP(cfg.RateLimit, time.Minute)).Post("/convert", h.Convert)
		r.Get("/download_last_xlsx", h.DownloadLast)
	})

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
