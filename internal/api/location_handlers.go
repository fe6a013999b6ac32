package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kettlevend/sitescout/internal/cache"
	"github.com/kettlevend/sitescout/internal/category"
	"github.com/kettlevend/sitescout/internal/finance"
	"github.com/kettlevend/sitescout/internal/middleware"
	"github.com/kettlevend/sitescout/internal/scoring"
	"github.com/kettlevend/sitescout/internal/site"
)

// Location name and address validation constraints.
const (
	MaxNameLength    = 128
	MaxAddressLength = 256
)

// LocationHandlers holds dependencies for the location HTTP handlers.
// The cache and metrics are optional; a nil cache computes every
// evaluation fresh.
type LocationHandlers struct {
	repo    site.Repository
	policy  *scoring.Policy
	cache   *cache.ScoreCache
	metrics *scoring.Metrics
}

// LocationHandlersConfig configures the location handlers.
type LocationHandlersConfig struct {
	Repo    site.Repository
	Policy  *scoring.Policy
	Cache   *cache.ScoreCache
	Metrics *scoring.Metrics
}

// NewLocationHandlers creates a new LocationHandlers instance.
func NewLocationHandlers(cfg LocationHandlersConfig) *LocationHandlers {
	policy := cfg.Policy
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}
	return &LocationHandlers{
		repo:    cfg.Repo,
		policy:  policy,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
	}
}

// Register attaches the location routes to the mux.
func (h *LocationHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/locations", h.Collection)
	mux.HandleFunc("/locations/", h.Item)
}

// CreateLocationRequest represents the request body for creating a location.
type CreateLocationRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	ModuleType string `json:"module_type"`

	// Optional observed facts.
	FootTrafficDaily   *int     `json:"foot_traffic_daily,omitempty"`
	DemographicText    *string  `json:"demographic_text,omitempty"`
	CompetitionText    *string  `json:"competition_text,omitempty"`
	CommissionFraction *float64 `json:"commission_fraction,omitempty"`
}

// RatingEntry is one manual rating in a batch update.
type RatingEntry struct {
	Dimension string `json:"dimension"`
	Rating    int    `json:"rating"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateGeneralRatingsRequest updates General sub-metric ratings and the
// observed facts they sit beside.
type UpdateGeneralRatingsRequest struct {
	Ratings []RatingEntry `json:"ratings,omitempty"`

	FootTrafficDaily   *int     `json:"foot_traffic_daily,omitempty"`
	DemographicText    *string  `json:"demographic_text,omitempty"`
	CompetitionText    *string  `json:"competition_text,omitempty"`
	CommissionFraction *float64 `json:"commission_fraction,omitempty"`
}

// UpdateModuleRatingsRequest updates module sub-metric ratings. Setting
// ModuleType to a different type replaces the module category wholesale;
// the old ratings carry no residual influence.
type UpdateModuleRatingsRequest struct {
	ModuleType string        `json:"module_type,omitempty"`
	Ratings    []RatingEntry `json:"ratings,omitempty"`
}

// MetricPayload is the wire form of one sub-metric.
type MetricPayload struct {
	Rating   int    `json:"rating"`
	Inferred int    `json:"inferred"`
	Notes    string `json:"notes,omitempty"`
}

// GeneralPayload is the wire form of the General category.
type GeneralPayload struct {
	FootTrafficDaily   int                      `json:"foot_traffic_daily"`
	DemographicText    string                   `json:"demographic_text,omitempty"`
	CompetitionText    string                   `json:"competition_text,omitempty"`
	CommissionFraction float64                  `json:"commission_fraction"`
	Metrics            map[string]MetricPayload `json:"metrics"`
	Average            float64                  `json:"average"`
}

// ModulePayload is the wire form of the module category.
type ModulePayload struct {
	Type    string                   `json:"type"`
	Metrics map[string]MetricPayload `json:"metrics"`
	Average float64                  `json:"average"`
}

// LocationResponse is the full wire form of a location aggregate.
type LocationResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Address    string         `json:"address"`
	ModuleType string         `json:"module_type"`
	General    GeneralPayload `json:"general"`
	Module     ModulePayload  `json:"module"`
	Financials finance.Inputs `json:"financials"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func toLocationResponse(loc *site.Location) LocationResponse {
	resp := LocationResponse{
		ID:         loc.ID,
		Name:       loc.Name,
		Address:    loc.Address,
		ModuleType: string(loc.ModuleType),
		Financials: loc.Financials,
		CreatedAt:  loc.CreatedAt,
		UpdatedAt:  loc.UpdatedAt,
	}

	if g := loc.General; g != nil {
		metrics := make(map[string]MetricPayload, len(category.GeneralDimensions))
		for _, dim := range category.GeneralDimensions {
			metrics[string(dim)] = MetricPayload{
				Rating:   int(g.Rating(dim)),
				Inferred: int(g.Inferred(dim)),
				Notes:    g.Notes(dim),
			}
		}
		resp.General = GeneralPayload{
			FootTrafficDaily:   g.FootTrafficDaily,
			DemographicText:    g.DemographicText,
			CompetitionText:    g.CompetitionText,
			CommissionFraction: g.CommissionFraction,
			Metrics:            metrics,
			Average:            g.Average(),
		}
	}

	if m := loc.Module; m != nil {
		metrics := make(map[string]MetricPayload, len(m.Dimensions()))
		for _, key := range m.Dimensions() {
			metrics[key] = MetricPayload{
				Rating:   int(m.Rating(key)),
				Inferred: int(m.Inferred(key)),
				Notes:    m.Notes(key),
			}
		}
		resp.Module = ModulePayload{
			Type:    string(m.Type()),
			Metrics: metrics,
			Average: m.Average(),
		}
	}

	return resp
}

// Collection handles /locations: POST creates, GET lists.
func (h *LocationHandlers) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	}
}

// Item handles /locations/{id} and its sub-resources.
func (h *LocationHandlers) Item(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/locations/"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Location ID is required")
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
			WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		}
	case len(parts) == 2 && parts[1] == "evaluation" && r.Method == http.MethodGet:
		h.evaluation(w, r, id)
	case len(parts) == 2 && parts[1] == "financials" && r.Method == http.MethodPut:
		h.putFinancials(w, r, id)
	case len(parts) == 3 && parts[1] == "ratings" && parts[2] == "general" && r.Method == http.MethodPut:
		h.putGeneralRatings(w, r, id)
	case len(parts) == 3 && parts[1] == "ratings" && parts[2] == "module" && r.Method == http.MethodPut:
		h.putModuleRatings(w, r, id)
	default:
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "The requested resource was not found")
	}
}

func (h *LocationHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if len(req.Name) > MaxNameLength {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "name must not exceed 128 characters")
		return
	}
	if len(req.Address) > MaxAddressLength {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "address must not exceed 256 characters")
		return
	}
	if !category.ValidModuleType(category.ModuleType(req.ModuleType)) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnknownModuleType)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnknownModuleType, "module_type must be one of: office, hospital, school, residential")
		return
	}

	loc, err := site.New(req.Name, req.Address, category.ModuleType(req.ModuleType))
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	if req.FootTrafficDaily != nil {
		loc.SetFootTraffic(*req.FootTrafficDaily)
	}
	if req.DemographicText != nil {
		loc.General.DemographicText = *req.DemographicText
	}
	if req.CompetitionText != nil {
		loc.General.CompetitionText = *req.CompetitionText
	}
	if req.CommissionFraction != nil {
		loc.General.SetCommissionFraction(*req.CommissionFraction)
	}

	if err := h.repo.Save(r.Context(), loc); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create location")
		return
	}

	h.writeJSON(w, r, http.StatusCreated, toLocationResponse(loc))
}

func (h *LocationHandlers) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.repo.List(r.Context())
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list locations")
		return
	}
	if summaries == nil {
		summaries = []site.Summary{}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"locations": summaries})
}

func (h *LocationHandlers) get(w http.ResponseWriter, r *http.Request, id string) {
	loc, err := h.loadLocation(w, r, id)
	if err != nil {
		return
	}
	h.writeJSON(w, r, http.StatusOK, toLocationResponse(loc))
}

func (h *LocationHandlers) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Location not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete location")
		return
	}

	h.invalidateCache(r, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LocationHandlers) putGeneralRatings(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateGeneralRatingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	// Validate all dimensions before touching the aggregate.
	for _, entry := range req.Ratings {
		if !validGeneralDimension(entry.Dimension) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnknownDimension)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnknownDimension, "unknown General dimension: "+entry.Dimension)
			return
		}
	}

	loc, err := h.loadLocation(w, r, id)
	if err != nil {
		return
	}

	for _, entry := range req.Ratings {
		loc.SetGeneralRating(category.Dimension(entry.Dimension), entry.Rating, entry.Notes)
	}
	if req.FootTrafficDaily != nil {
		loc.SetFootTraffic(*req.FootTrafficDaily)
	}
	if req.DemographicText != nil {
		loc.General.DemographicText = *req.DemographicText
	}
	if req.CompetitionText != nil {
		loc.General.CompetitionText = *req.CompetitionText
	}
	if req.CommissionFraction != nil {
		loc.General.SetCommissionFraction(*req.CommissionFraction)
	}

	h.saveAndRespond(w, r, loc)
}

func (h *LocationHandlers) putModuleRatings(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateModuleRatingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	loc, err := h.loadLocation(w, r, id)
	if err != nil {
		return
	}

	if req.ModuleType != "" && category.ModuleType(req.ModuleType) != loc.ModuleType {
		module, err := category.NewModule(category.ModuleType(req.ModuleType))
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnknownModuleType)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnknownModuleType, "module_type must be one of: office, hospital, school, residential")
			return
		}
		loc.ReplaceModule(module)
	}

	for _, entry := range req.Ratings {
		if err := loc.SetModuleRating(entry.Dimension, entry.Rating, entry.Notes); err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnknownDimension)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnknownDimension, "unknown module dimension: "+entry.Dimension)
			return
		}
	}

	h.saveAndRespond(w, r, loc)
}

func (h *LocationHandlers) putFinancials(w http.ResponseWriter, r *http.Request, id string) {
	var in finance.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	loc, err := h.loadLocation(w, r, id)
	if err != nil {
		return
	}

	// Apply to a copy first so a rejected snapshot never reaches the store.
	trial := loc.Clone()
	trial.SetFinancials(in)
	if result := trial.Validate(); !result.Valid() {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, strings.Join(result.Errors, "; "))
		return
	}

	loc.SetFinancials(in)
	h.saveAndRespond(w, r, loc)
}

func (h *LocationHandlers) evaluation(w http.ResponseWriter, r *http.Request, id string) {
	if h.cache != nil {
		if eval, err := h.cache.Get(r.Context(), id); err == nil {
			if h.metrics != nil {
				h.metrics.IncCacheLookup(scoring.CacheHit)
			}
			h.writeJSON(w, r, http.StatusOK, eval)
			return
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.WarnContext(r.Context(), "evaluation cache read failed", "location_id", id, "error", err)
		}
		if h.metrics != nil {
			h.metrics.IncCacheLookup(scoring.CacheMiss)
		}
	}

	loc, err := h.loadLocation(w, r, id)
	if err != nil {
		return
	}

	start := time.Now()
	eval, err := loc.Evaluate(h.policy)
	if err != nil {
		if errors.Is(err, site.ErrModuleTypeMismatch) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeModuleMismatch)
			WriteError(w, ctx, http.StatusConflict, ErrCodeModuleMismatch, "Module category type does not match the location's declared type")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to evaluate location")
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveEvaluationDuration(time.Since(start).Seconds())
		h.metrics.IncEvaluations(eval.Decision)
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), eval); err != nil {
			slog.WarnContext(r.Context(), "evaluation cache write failed", "location_id", id, "error", err)
		}
	}

	h.writeJSON(w, r, http.StatusOK, eval)
}

// loadLocation fetches the aggregate, writing the error response itself
// when the load fails.
func (h *LocationHandlers) loadLocation(w http.ResponseWriter, r *http.Request, id string) (*site.Location, error) {
	loc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Location not found")
			return nil, err
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load location")
		return nil, err
	}
	return loc, nil
}

// saveAndRespond persists a mutated aggregate, invalidates its cached
// evaluation, and returns the updated wire form.
func (h *LocationHandlers) saveAndRespond(w http.ResponseWriter, r *http.Request, loc *site.Location) {
	if err := h.repo.Save(r.Context(), loc); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to save location")
		return
	}

	h.invalidateCache(r, loc.ID)
	h.writeJSON(w, r, http.StatusOK, toLocationResponse(loc))
}

func (h *LocationHandlers) invalidateCache(r *http.Request, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), id); err != nil {
		slog.WarnContext(r.Context(), "evaluation cache invalidation failed", "location_id", id, "error", err)
	}
}

func (h *LocationHandlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func validGeneralDimension(dim string) bool {
	for _, d := range category.GeneralDimensions {
		if string(d) == dim {
			return true
		}
	}
	return false
}
