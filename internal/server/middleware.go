// Package server implements the HTTP site for twcfg pages and the live
// descriptor API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/samber/mo"
	"golang.org/x/time/rate"

	"github.com/omarluq/twcfg/internal/auth"
)

const authSucceededMsg = "authentication succeeded"

func handleAuthResult(ctx context.Context, writer http.ResponseWriter, result auth.Result) bool {
	if !result.Valid {
		zerolog.Ctx(ctx).Warn().
			Str("auth_type", string(result.Type)).
			Str("error", result.Error).
			Msg("authentication failed")
		WriteError(writer, http.StatusUnauthorized, ErrTypeAuthentication, result.Error)
		return false
	}

	zerolog.Ctx(ctx).Debug().
		Str("auth_type", string(result.Type)).
		Str("subject", result.Subject).
		Msg(authSucceededMsg)
	return true
}

// AuthMiddleware rejects requests the authenticator does not accept.
// When no authenticator is configured all requests pass through.
func AuthMiddleware(authenticator mo.Option[auth.Authenticator]) func(http.Handler) http.Handler {
	chain, ok := authenticator.Get()
	if !ok {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			result := chain.Validate(request)
			if !handleAuthResult(request.Context(), writer, result) {
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequestIDMiddleware adds X-Request-ID header and logger with request ID to context.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get("X-Request-ID")
			ctx := AddRequestID(request.Context(), requestID)

			if requestID == "" {
				requestID = GetRequestID(ctx)
			}
			writer.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// LoggerMiddleware attaches base to every request context so handlers can
// log through zerolog.Ctx.
func LoggerMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			next.ServeHTTP(writer, request.WithContext(base.WithContext(request.Context())))
		})
	}
}

func withRequestFields(ctx context.Context, r *http.Request, shortID string) zerolog.Context {
	return zerolog.Ctx(ctx).With().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("req_id", shortID)
}

func logRequestCompletion(
	ctx context.Context,
	request *http.Request,
	wrapped *responseWriter,
	duration time.Duration,
	shortID string,
) {
	durationStr := formatDuration(duration)
	completionMsg := formatCompletionMessage(wrapped.statusCode, statusSymbol(wrapped.statusCode), durationStr)

	logger := withRequestFields(ctx, request, shortID).
		Int("status", wrapped.statusCode).
		Int("bytes", wrapped.bytes).
		Str("duration", durationStr).
		Logger()

	switch {
	case wrapped.statusCode >= 500:
		logger.Error().Msg(completionMsg)
	case wrapped.statusCode >= 400:
		logger.Warn().Msg(completionMsg)
	default:
		logger.Info().Msg(completionMsg)
	}
}

func statusSymbol(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "✗"
	case statusCode >= 400:
		return "⚠"
	default:
		return "✓"
	}
}

// LoggingMiddleware logs each request with method, path, status and duration.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: writer, statusCode: http.StatusOK}

			shortID := GetRequestID(request.Context())
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}

			startLogger := withRequestFields(request.Context(), request, shortID).Logger()
			startLogger.Debug().Msgf("%s %s", request.Method, request.URL.Path)

			next.ServeHTTP(wrapped, request)

			logRequestCompletion(request.Context(), request, wrapped, time.Since(start), shortID)
		})
	}
}

// formatDuration formats duration in a human-readable form with microsecond precision.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}

	duration = duration.Round(time.Microsecond)

	switch {
	case duration < time.Millisecond:
		return fmt.Sprintf("%dµs", duration.Microseconds())
	case duration < time.Second:
		return fmt.Sprintf("%.2fms", float64(duration)/float64(time.Millisecond))
	case duration < time.Minute:
		return fmt.Sprintf("%.2fs", duration.Seconds())
	default:
		return duration.Truncate(time.Second).String()
	}
}

// formatCompletionMessage formats the completion message with status.
func formatCompletionMessage(status int, symbol, duration string) string {
	return symbol + " " + http.StatusText(status) + " (" + duration + ")"
}

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(data)
	rw.bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// MaxBodyBytesMiddleware creates middleware that limits request body size.
// The limitProvider is called per-request.
func MaxBodyBytesMiddleware(limitProvider func() int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			limit := limitProvider()
			if limit > 0 && request.Body != nil {
				request.Body = http.MaxBytesReader(writer, request.Body, limit)
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RateLimitMiddleware caps requests per minute per client IP. A
// non-positive rpm disables it.
func RateLimitMiddleware(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		rpm,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			zerolog.Ctx(r.Context()).Warn().Int("rpm", rpm).Msg("request rejected: rate limit reached")
			WriteRateLimitError(w, time.Minute, fmt.Sprintf("rate limit of %d requests per minute exceeded", rpm))
		}),
	)
}

// WriteLimiter is a global token bucket shared by all page writes.
type WriteLimiter struct {
	limiter *rate.Limiter
}

// NewWriteLimiter allows rps writes per second with a burst of at least one.
// A non-positive rps means unlimited.
func NewWriteLimiter(rps float64) *WriteLimiter {
	if rps <= 0 {
		return &WriteLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &WriteLimiter{limiter: rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))}
}

// Middleware rejects writes beyond the limit with 429 and a Retry-After hint.
func (l *WriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reservation := l.limiter.Reserve()
		if !reservation.OK() {
			WriteRateLimitError(writer, time.Second, "write limit exceeded")
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			zerolog.Ctx(request.Context()).Warn().Dur("retry_after", delay).Msg("request rejected: write limit reached")
			WriteRateLimitError(writer, delay, "write limit exceeded")
			return
		}
		next.ServeHTTP(writer, request)
	})
}
