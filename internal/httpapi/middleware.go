package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/auth"
	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

const bearerPrefix = "Bearer "

// observe пишет access log и HTTP-метрики. Маршрут берётся из шаблона chi,
// чтобы кардинальность меток не зависела от ID в пути.
func (h *handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		duration := time.Since(start)
		h.metrics.ObserveHTTPRequest(r.Method, route, status, duration)

		entry := h.logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
		if status >= http.StatusInternalServerError {
			entry.Warn("http request")
			return
		}
		entry.Debug("http request")
	})
}

// authenticate требует заголовок Authorization: Bearer <access token>.
func (h *handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			h.writeError(w, r, domain.ErrUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			h.writeError(w, r, domain.ErrUnauthorized)
			return
		}

		principal, err := h.members.Authenticate(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// requireAdmin пропускает только участников с ролью ADMIN. Ставится после authenticate.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			apiErr := lookupError(domain.ErrUnauthorized)
			writeText(w, apiErr.status, apiErr.message)
			return
		}
		if !principal.IsAdmin() {
			apiErr := lookupError(domain.ErrForbidden)
			writeText(w, apiErr.status, apiErr.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// principal извлекает участника, положенного в контекст authenticate.
func principal(r *http.Request) domain.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}
