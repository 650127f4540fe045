package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"runtime/debug"
	"slices"
	"strings"
	"time"
)

const timeoutBody = `{"error":"Request timeout"}`

var corsAllowedHeaders = strings.Join([]string{
	"Content-Type",
	"Authorization",
	"X-Line-Signature",
	"X-Monday-Signature",
}, ", ")

func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}

// CorsMiddleware echoes the request origin when it is allowed. An empty list or
// "*" allows every origin.
func CorsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := r.Context()
			slog.ErrorContext(ctx, "panic while serving request", common.ExtractTraceIDFromCtx(ctx),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any(constant.LogFieldErr, fmt.Errorf("%v", rec)),
				slog.String("stack", string(debug.Stack())),
			)
			writeErrorResponse(w, fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
