package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/domain"
	"github.com/kapu/wrestler-profile-api/pkg/errors"
)

// WrestlerService is the subset of the resolver the HTTP layer needs.
type WrestlerService interface {
	Resolve(ctx context.Context, name string) (*domain.WrestlerProfile, error)
	Search(ctx context.Context, name string, filter domain.SearchFilter) ([]domain.SearchCandidate, error)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type WrestlerHandler struct {
	service WrestlerService
	logger  *zap.Logger
}

func NewWrestlerHandler(svc WrestlerService, logger *zap.Logger) *WrestlerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WrestlerHandler{service: svc, logger: logger}
}

// GetWrestler handles GET /api/wrestler/{name}.
func (h *WrestlerHandler) GetWrestler(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}

	h.logger.Info("Fetching wrestler", zap.String("name", name))

	profile, err := h.service.Resolve(r.Context(), name)
	if err != nil {
		h.logger.Warn("Error scraping", zap.String("name", name), zap.Error(err))
		writeError(w, err)
		return
	}

	h.logger.Info("Successfully scraped", zap.String("name", profile.Name))
	writeJSON(w, http.StatusOK, profile)
}

// SearchWrestlers handles GET /api/search/{name}?minVotes=&minRating=&birthplace=.
func (h *WrestlerHandler) SearchWrestlers(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}

	filter, err := searchFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("Searching wrestlers", zap.String("name", name))

	candidates, err := h.service.Search(r.Context(), name, filter)
	if err != nil {
		h.logger.Warn("Search failed", zap.String("name", name), zap.Error(err))
		writeError(w, err)
		return
	}
	if candidates == nil {
		candidates = []domain.SearchCandidate{}
	}

	h.logger.Info("Search completed", zap.String("name", name), zap.Int("results", len(candidates)))
	writeJSON(w, http.StatusOK, candidates)
}

// Health handles GET /health.
func (h *WrestlerHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *WrestlerHandler) nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, errors.NewValidationError("name is required", "name", name))
		return "", false
	}
	return name, true
}

func searchFilter(r *http.Request) (domain.SearchFilter, error) {
	query := r.URL.Query()
	filter := domain.SearchFilter{Birthplace: query.Get("birthplace")}

	if raw := query.Get("minVotes"); raw != "" {
		minVotes, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.NewValidationError("minVotes must be an integer", "minVotes", raw)
		}
		filter.MinVotes = &minVotes
	}

	if raw := query.Get("minRating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(minRating) {
			return filter, errors.NewValidationError("minRating must be a number", "minRating", raw)
		}
		filter.MinRating = &minRating
	}

	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	detail := "Internal server error"
	if appErr, ok := errors.AsAppError(err); ok {
		detail = appErr.Message
	}
	writeJSON(w, errors.StatusCode(err), errorResponse{Detail: detail})
}
