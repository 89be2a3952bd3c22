package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chunker/api/internal/auth"
	"chunker/api/internal/util"
)

type HTTPServer struct {
	service      *Service
	corsOrigin   string
	tokenSecret  []byte
	maxBodyBytes int64
	logger       zerolog.Logger
}

func NewHTTPServer(service *Service, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		service:      service,
		corsOrigin:   service.cfg.CORSOrigin,
		tokenSecret:  []byte(service.cfg.TokenSecret),
		maxBodyBytes: service.cfg.MaxBodyBytes,
		logger:       logger,
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"cache": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["cache"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/metrics" {
		s.service.metrics.Handler().ServeHTTP(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/chunks/split" {
		if !s.requireScope(w, r, auth.ScopeChunks) {
			return
		}
		var body SplitInput
		if err := s.decodeBody(w, r, &body); err != nil {
			s.fail(w, r, err)
			return
		}
		chunks, err := s.service.Split(r.Context(), body)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"chunks": chunks, "count": len(chunks)})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/chunks/merge" {
		if !s.requireScope(w, r, auth.ScopeChunks) {
			return
		}
		var body MergeInput
		if err := s.decodeBody(w, r, &body); err != nil {
			s.fail(w, r, err)
			return
		}
		merged, err := s.service.Merge(r.Context(), body)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"html": merged})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/translate" {
		if !s.requireScope(w, r, auth.ScopeTranslate) {
			return
		}
		var body TranslateInput
		if err := s.decodeBody(w, r, &body); err != nil {
			s.fail(w, r, err)
			return
		}
		result, err := s.service.Translate(r.Context(), body)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"content": result.Content,
			"engine":  result.Engine,
			"chunks":  result.Chunks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/languages" {
		if !s.requireScope(w, r, auth.ScopeTranslate) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"engines": s.service.Languages()})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// requireScope checks the bearer token when a token secret is configured.
func (s *HTTPServer) requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	if len(s.tokenSecret) == 0 {
		return true
	}
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return false
	}
	claims, err := auth.ParseToken(s.tokenSecret, token)
	if err == nil {
		err = claims.Require(scope)
	}
	if err != nil {
		s.fail(w, r, err)
		return false
	}
	return true
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("request_id", requestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = util.NewID("req")
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", reqID)

		next.ServeHTTP(writer, r)

		s.logger.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", writer.status).
			Int64("duration_ms", time.Since(started).Milliseconds()).
			Msg("request")
	})
}

type requestIDKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

// decodeBody reads at most maxBodyBytes of JSON into target.
func (s *HTTPServer) decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	if s.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domainError(http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large", map[string]any{"limit": tooLarge.Limit})
		}
		return domainError(http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
