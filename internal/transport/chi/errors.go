package chi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/propmatch/internal/domain"
	logpkg "github.com/kailas-cloud/propmatch/internal/logger"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest         = "bad_request"
	CodeValidationFailed   = "validation_failed"
	CodeUnauthorized       = "unauthorized"
	CodeNotFound           = "not_found"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodePropertyNotFound   = "property_not_found"
	CodeUnknownCategory    = "unknown_category"
	CodeInvalidProfile     = "invalid_profile"
	CodeInvalidCoordinates = "invalid_coordinates"
	CodeNotLoaded          = "not_loaded"
	CodeReloadFailed       = "reload_failed"
	CodeInternalError      = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrPropertyNotFound, http.StatusNotFound, CodePropertyNotFound, false),
	sentinelHandler(domain.ErrUnknownCategory, http.StatusBadRequest, CodeUnknownCategory, true),
	sentinelHandler(domain.ErrInvalidProfile, http.StatusBadRequest, CodeInvalidProfile, true),
	sentinelHandler(domain.ErrInvalidCoordinates, http.StatusBadRequest, CodeInvalidCoordinates, true),
	sentinelHandler(domain.ErrNotLoaded, http.StatusServiceUnavailable, CodeNotLoaded, false),
}

// sentinelHandler maps a sentinel to a status and code. Errors caused by client
// input carry the full message; the rest only expose the sentinel text.
func sentinelHandler(sentinel error, status int, code string, clientInput bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if clientInput {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range errorHandlers {
		if h(w, err) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
