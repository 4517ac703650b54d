// Package chi exposes the recommendation engine over HTTP.
package chi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/propmatch/internal/domain"
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	healthuc "github.com/kailas-cloud/propmatch/internal/usecase/health"
	"github.com/kailas-cloud/propmatch/internal/usecase/recommend"
)

const maxBodyBytes = 1 << 20

// Options tune request defaults and admin access.
type Options struct {
	// DefaultMinScore applies when a recommendation request omits min_score.
	DefaultMinScore float64
	// AdminAPIKeys guard the admin routes. Empty disables auth.
	AdminAPIKeys []string
}

// Server serves the recommendation API.
type Server struct {
	engine   *recommend.Engine
	reloader *recommend.Reloader
	health   *healthuc.Service
	validate *validator.Validate
	logger   *zap.Logger
	opts     Options
}

// NewServer creates an HTTP API server. reloader may be nil when no feed is configured.
func NewServer(
	engine *recommend.Engine,
	reloader *recommend.Reloader,
	health *healthuc.Service,
	logger *zap.Logger,
	opts Options,
) *Server {
	return &Server{
		engine:   engine,
		reloader: reloader,
		health:   health,
		validate: newValidator(),
		logger:   logger,
		opts:     opts,
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/recommendations", s.Recommend)
		r.Post("/properties/{id}/score", s.ScoreProperty)
		r.Get("/pois/nearby", s.NearbyPOIs)
		r.Get("/diagnostics", s.Diagnostics)
		r.With(BearerAuthMiddleware(s.opts.AdminAPIKeys)).Post("/admin/reload", s.Reload)
	})
}

// Recommend handles POST /v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decode(w, r, &req) {
		return
	}

	pr, err := req.Profile.toDomain()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	minScore := s.opts.DefaultMinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	items := s.engine.Recommend(r.Context(), pr, req.Limit, minScore)
	writeJSON(w, http.StatusOK, recommendationListResponse{Items: items, Total: len(items)})
}

// ScoreProperty handles POST /v1/properties/{id}/score.
func (s *Server) ScoreProperty(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decode(w, r, &req) {
		return
	}

	pr, err := req.Profile.toDomain()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	res, err := s.engine.ScoreByID(r.Context(), pr, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// NearbyPOIs handles GET /v1/pois/nearby.
func (s *Server) NearbyPOIs(w http.ResponseWriter, r *http.Request) {
	q, err := parseNearbyQuery(r.URL.Query().Get)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			handleDomainError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if resp := validationResponse(s.validate.Struct(q)); resp != nil {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	center := geo.Point{Lat: q.Lat, Lng: q.Lng}
	hits := s.engine.Nearby(center, q.Categories, q.RadiusKm)
	if hits == nil {
		hits = []poi.Hit{}
	}
	writeJSON(w, http.StatusOK, nearbyResponse{Center: center, RadiusKm: q.RadiusKm, Items: hits, Total: len(hits)})
}

type diagnosticsResponse struct {
	recommend.Diagnostics
	Reload *recommend.ReloadStatus `json:"reload,omitempty"`
}

// Diagnostics handles GET /v1/diagnostics.
func (s *Server) Diagnostics(w http.ResponseWriter, _ *http.Request) {
	resp := diagnosticsResponse{Diagnostics: s.engine.Diagnostics()}
	if s.reloader != nil {
		st := s.reloader.Status()
		resp.Reload = &st
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reload handles POST /v1/admin/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		writeError(w, http.StatusConflict, CodeReloadFailed, "no data source configured")
		return
	}
	if err := s.reloader.Reload(r.Context()); err != nil {
		s.logger.Warn("admin reload failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeReloadFailed, err.Error())
		return
	}
	st := s.reloader.Status()
	writeJSON(w, http.StatusOK, diagnosticsResponse{Diagnostics: s.engine.Diagnostics(), Reload: &st})
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: report.Status, Checks: report.Checks})
}

// decode reads and validates a JSON body. It writes the error response and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if resp := validationResponse(s.validate.Struct(v)); resp != nil {
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}
