package middleware

import (
	"net/http"

	"shilajit-be/internal/logger"

	"go.uber.org/zap"
)

// Recoverer turns a handler panic into a logged 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromCtx(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Stack("stack"),
			)
			writeError(w, http.StatusInternalServerError, "Something went wrong!")
		}()

		next.ServeHTTP(w, r)
	})
}
