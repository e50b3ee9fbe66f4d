package server

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.handler())

	mux.HandleFunc("GET /v1/job", s.getJobHandler)
	mux.HandleFunc("POST /v1/job", s.limitBody(s.postJobHandler))
	mux.HandleFunc("GET /v1/candidates", s.listCandidatesHandler)
	mux.HandleFunc("POST /v1/candidates", s.limitBody(s.postCandidateHandler))
	mux.HandleFunc("GET /v1/candidates/{id}", s.getCandidateHandler)
	mux.HandleFunc("PATCH /v1/candidates/{id}", s.limitBody(s.patchCandidateHandler))
	mux.HandleFunc("GET /v1/dashboard", s.dashboardHandler)
	mux.HandleFunc("GET /v1/shortlist", s.shortlistHandler)

	return s.observe(s.rateLimit(mux))
}

// limitBody caps the request body size.
func (s *Server) limitBody(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.MaxRequestBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)
		}
		next(w, r)
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiter.allow(ip) {
			s.metrics.rateLimited.Inc()
			s.logger.Info("rate limit exceeded", zap.String("client_ip", ip), zap.String("path", r.URL.Path))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe writes the access log and request metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("client_ip", clientIP(r)),
		)
	})
}
