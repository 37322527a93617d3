package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"biocat/internal/infra/telemetry"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(telemetry.RequestIDHeader)
		if requestID == "" {
			requestID = telemetry.NewRequestID()
		}
		ctx := telemetry.WithRequestID(r.Context(), requestID)
		w.Header().Set(telemetry.RequestIDHeader, requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r.WithContext(ctx))
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, http.StatusText(recorder.status), elapsed)
		}
		telemetry.LoggerWithRequest(ctx, s.logger).Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("elapsed", elapsed),
		)
	})
}
