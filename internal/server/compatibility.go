package server

import (
	"canirun/internal/api"
	"canirun/internal/domain"
	"canirun/internal/extract"
	"canirun/internal/middleware"
	"canirun/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type Checker interface {
	Check(ctx context.Context, appID string, tier domain.Tier) (*domain.Report, error)
	Profile(ctx context.Context) (*domain.LocalSystemProfile, error)
}

type CompatibilityServer struct {
	checker Checker
	logger  zerolog.Logger
}

func NewCompatibilityServer(checker Checker, logger zerolog.Logger) *CompatibilityServer {
	return &CompatibilityServer{checker: checker, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Register mounts the API routes on mux.
func (s *CompatibilityServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/compatibility/{appid}", s.handleCheck)
	mux.HandleFunc("GET /v1/profile", s.handleProfile)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *CompatibilityServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	tier, err := domain.ParseTier(r.URL.Query().Get("tier"))
	if err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	report, err := s.checker.Check(r.Context(), r.PathValue("appid"), tier)
	if err != nil {
		s.writeError(r.Context(), w, statusFor(err), err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, report)
}

func (s *CompatibilityServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.checker.Profile(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, profile)
}

func (s *CompatibilityServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	var extractionErr *extract.ExtractionError
	switch {
	case errors.Is(err, service.ErrInvalidAppID):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrInvalidGameIdentifier):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &extractionErr), errors.Is(err, service.ErrExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *CompatibilityServer) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Int("status", status).Msg("request failed")
	s.writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func (s *CompatibilityServer) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Str("request_id", middleware.GetRequestID(ctx)).Msg("failed to write response")
	}
}
