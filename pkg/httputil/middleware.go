package httputil

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	UserRoleKey  contextKey = "user_role"
)

// RequestID propagates the client's X-Request-ID or assigns a fresh one,
// echoing it on the response so clients can correlate
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger emits one structured access log line per request
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			log.Info().
				Str("request_id", GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Int("bytes", ww.bytes).
				Dur("duration", time.Since(start)).
				Str("user_id", GetUserID(r.Context())).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recoverer turns a handler panic into a 500 in the standard envelope
// instead of killing the connection
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().
						Interface("panic", rec).
						Str("request_id", GetRequestID(r.Context())).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					Error(w, errors.Internal("an unexpected error occurred"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets baseline security response headers
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// statusWriter records status and size for the access log
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func ctxString(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// GetRequestID returns the request ID set by the RequestID middleware,
// or empty outside a request
func GetRequestID(ctx context.Context) string {
	return ctxString(ctx, RequestIDKey)
}

func GetUserID(ctx context.Context) string {
	return ctxString(ctx, UserIDKey)
}

func GetUserEmail(ctx context.Context) string {
	return ctxString(ctx, UserEmailKey)
}

func GetUserRole(ctx context.Context) string {
	return ctxString(ctx, UserRoleKey)
}

// WithUserContext stores the authenticated identity for handlers and the
// access log
func WithUserContext(ctx context.Context, userID, email, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	return context.WithValue(ctx, UserRoleKey, role)
}
