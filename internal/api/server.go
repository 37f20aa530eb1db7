package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"eventdesk/internal/config"
	"eventdesk/internal/domain"
	"eventdesk/internal/metrics"
	"eventdesk/internal/models"
	"eventdesk/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer is the JSON API surface: public intake, auth, the per-user
// account area and the admin back office.
type HTTPServer struct {
	cfg           *config.Config
	requests      domain.RequestService
	notifications domain.NotificationService
	auth          domain.AuthService
	settings      domain.SettingsService
	catalog       domain.CatalogService
	sessions      domain.SessionRepository
	validator     *validation.Validator
	logger        *zerolog.Logger
	server        *http.Server
	limiters      sync.Map // map[string]*rate.Limiter
}

type Deps struct {
	Requests      domain.RequestService
	Notifications domain.NotificationService
	Auth          domain.AuthService
	Settings      domain.SettingsService
	Catalog       domain.CatalogService
	Sessions      domain.SessionRepository
}

func NewHTTPServer(cfg *config.Config, deps Deps, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		requests:      deps.Requests,
		notifications: deps.Notifications,
		auth:          deps.Auth,
		settings:      deps.Settings,
		catalog:       deps.Catalog,
		sessions:      deps.Sessions,
		validator:     validation.New(),
		logger:        logger,
	}

	mux := http.NewServeMux()

	// public
	mux.HandleFunc("/api/v1/contact", srv.handleContact)
	mux.HandleFunc("/api/v1/quote", srv.handleQuote)
	mux.HandleFunc("/api/v1/events", srv.handlePublicEvents)
	mux.HandleFunc("/api/v1/services", srv.handlePublicServices)
	mux.HandleFunc("/api/v1/settings", srv.handlePublicSettings)

	// auth
	mux.HandleFunc("/api/v1/auth/register", srv.handleRegister)
	mux.HandleFunc("/api/v1/auth/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/auth/logout", srv.handleLogout)
	mux.HandleFunc("/api/v1/auth/me", srv.requireUser(srv.handleMe))

	// account area
	mux.HandleFunc("/api/v1/notifications", srv.requireUser(srv.handleNotifications))
	mux.HandleFunc("/api/v1/account/requests", srv.requireUser(srv.handleOwnRequests))

	// admin back office
	mux.HandleFunc("/api/v1/admin/requests", srv.requireAdmin(srv.handleAdminRequests))
	mux.HandleFunc("/api/v1/admin/requests/export", srv.requireAdmin(srv.handleAdminExport))
	mux.HandleFunc("/api/v1/admin/requests/", srv.requireAdmin(srv.handleAdminRequestStatus))
	mux.HandleFunc("/api/v1/admin/settings", srv.requireAdmin(srv.handleAdminSettings))
	mux.HandleFunc("/api/v1/admin/users", srv.requireAdmin(srv.handleAdminUsers))
	mux.HandleFunc("/api/v1/admin/users/", srv.requireAdmin(srv.handleAdminUserRole))
	mux.HandleFunc("/api/v1/admin/events", srv.requireAdmin(srv.handleAdminEvents))
	mux.HandleFunc("/api/v1/admin/events/", srv.requireAdmin(srv.handleAdminEvent))
	mux.HandleFunc("/api/v1/admin/services", srv.requireAdmin(srv.handleAdminServices))
	mux.HandleFunc("/api/v1/admin/services/", srv.requireAdmin(srv.handleAdminService))

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler exposes the full middleware chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit.RPS > 0 {
			lim := s.getLimiter(clientIP(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, CodeValidationError, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

// checkIntakeLimit applies the stricter fixed-window limit shared across
// instances through the session store.
func (s *HTTPServer) checkIntakeLimit(r *http.Request) bool {
	allowed, err := s.sessions.CheckRateLimit(r.Context(), "intake:"+clientIP(r),
		models.RateLimitRequests, models.RateLimitWindow*time.Second)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Intake rate limit check failed")
		return true
	}
	return allowed
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

// currentUser resolves the session cookie; nil without error means anonymous.
func (s *HTTPServer) currentUser(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(s.cfg.Session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	user, err := s.auth.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		// an expired token is anonymity, not an error
		return nil, nil
	}
	return user, nil
}

type userHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

func (s *HTTPServer) requireUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.currentUser(r)
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		if user == nil {
			writeUnauthorized(w)
			return
		}
		next(w, r, user)
	}
}

func (s *HTTPServer) requireAdmin(next userHandler) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request, user *models.User) {
		if !user.IsAdmin() {
			writeUnauthorized(w)
			return
		}
		next(w, r, user)
	})
}

func (s *HTTPServer) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cfg.Session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   s.cfg.Session.TTLSeconds,
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
