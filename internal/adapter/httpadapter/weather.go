package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
)

// RequestIDHeader carries a caller-supplied correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestResolver answers a validated weather request.
type RequestResolver interface {
	ResolveRequest(ctx context.Context, req domain.WeatherRequest) (domain.ResolvedWeather, error)
}

type weatherHandler struct {
	resolver RequestResolver
	logger   *slog.Logger
}

func newWeatherHandler(resolver RequestResolver, logger *slog.Logger) *weatherHandler {
	return &weatherHandler{resolver: resolver, logger: logger}
}

// ServeHTTP handles GET /api/v1/weather?date=YYYY-MM-DD&place=...
func (h *weatherHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			h.logger.Error("generate request id", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		requestID = id.String()
	}
	w.Header().Set(RequestIDHeader, requestID)

	query := r.URL.Query()
	req := domain.WeatherRequest{
		RequestID: requestID,
		Date:      query.Get("date"),
		Place:     query.Get("place"),
	}

	resolved, err := h.resolver.ResolveRequest(r.Context(), req)
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("resolve weather", "error", err, "request_id", requestID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, resolved)
}

func writeError(w http.ResponseWriter, status int, message string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": message})
}
