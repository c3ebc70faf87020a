package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"course-catalog-service/internal/catalog"
	"course-catalog-service/internal/domain"
	"course-catalog-service/internal/store"
	"course-catalog-service/internal/suggest"
)

// SnapshotProvider yields the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Suggester computes personalized suggestions over a snapshot.
type Suggester interface {
	Suggest(snap *catalog.Snapshot, viewedIDs, favoriteIDs []string, strategy domain.SortStrategy) suggest.Result
}

// HTTPHandler holds dependencies for the HTTP handlers.
type HTTPHandler struct {
	snapshots    SnapshotProvider
	interactions store.InteractionStorer
	suggester    Suggester
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(sp SnapshotProvider, is store.InteractionStorer, sg Suggester, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		snapshots:    sp,
		interactions: is,
		suggester:    sg,
		validate:     validator.New(),
		logger:       logger.With().Str("component", "http").Logger(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.logger.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// snapshot resolves the catalog or writes a 503, returning ok=false.
func (h *HTTPHandler) snapshot(w http.ResponseWriter, r *http.Request) (*catalog.Snapshot, bool) {
	snap, err := h.snapshots.Snapshot(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("catalog snapshot unavailable")
		h.respondWithError(w, http.StatusServiceUnavailable, catalog.ErrUnavailable.Error())
		return nil, false
	}
	return snap, true
}

// history reads a user's interaction lists, degrading to empty history on
// store failure: unreadable history and no history are the same thing on the
// read path.
func (h *HTTPHandler) history(ctx context.Context, userID string) (viewed, favorites []string) {
	viewed, err := h.interactions.GetViewedIDs(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("viewed history unavailable, treating as empty")
		viewed = nil
	}
	favorites, err = h.interactions.GetFavoriteIDs(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("favorites unavailable, treating as empty")
		favorites = nil
	}
	return viewed, favorites
}

// splitList supports both repeated query params and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parsePage(q string) int {
	page, err := strconv.Atoi(q)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parsePageSize(q string) int {
	size, err := strconv.Atoi(q)
	if err != nil || size <= 0 {
		return catalog.DefaultPageSize
	}
	if size > catalog.MaxPageSize {
		return catalog.MaxPageSize
	}
	return size
}

// --- Product Handlers ---

// ProductFilterInput is the validated query-string form of FilterCriteria.
type ProductFilterInput struct {
	Search           string   `validate:"omitempty,max=200"`
	Categories       []string `validate:"omitempty,dive,min=1"`
	Levels           []string `validate:"omitempty,dive,oneof=Beginner Intermediate Advanced"`
	MinPrice         *float64 `validate:"omitempty,gte=0"`
	MaxPrice         *float64 `validate:"omitempty,gte=0"`
	MinRating        float64  `validate:"gte=0,lte=5"`
	ReviewCountRange string   `validate:"omitempty,oneof=all 500+ 100-500 <100"`
	Instructors      []string `validate:"omitempty,dive,min=1"`
}

func (h *HTTPHandler) parseFilterInput(r *http.Request) (ProductFilterInput, error) {
	q := r.URL.Query()
	input := ProductFilterInput{
		Search:           q.Get("search"),
		Categories:       splitList(q["categories"]),
		Levels:           splitList(q["levels"]),
		ReviewCountRange: q.Get("review_count_range"),
		Instructors:      splitList(q["instructors"]),
	}
	if s := q.Get("min_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return input, errors.New("invalid min_price format")
		}
		input.MinPrice = &v
	}
	if s := q.Get("max_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return input, errors.New("invalid max_price format")
		}
		input.MaxPrice = &v
	}
	if s := q.Get("min_rating"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return input, errors.New("invalid min_rating format")
		}
		input.MinRating = v
	}
	if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
		return input, errors.New("min_price cannot exceed max_price")
	}
	return input, nil
}

func (input ProductFilterInput) toCriteria() domain.FilterCriteria {
	c := domain.FilterCriteria{
		Search:           input.Search,
		Categories:       input.Categories,
		MinRating:        input.MinRating,
		ReviewCountRange: domain.ReviewCountRange(input.ReviewCountRange),
		Instructors:      input.Instructors,
	}
	for _, l := range input.Levels {
		c.Levels = append(c.Levels, domain.Level(l))
	}
	if input.MinPrice != nil {
		c.PriceRange.Min = *input.MinPrice
	}
	c.PriceRange.Max = input.MaxPrice
	return c
}

// ListProducts serves both the plain listing and the filtered listing: with
// no filter params it pages through the catalog in natural order.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseFilterInput(r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	page := parsePage(r.URL.Query().Get("page"))
	pageSize := parsePageSize(r.URL.Query().Get("page_size"))

	filtered := snap.Filter(input.toCriteria())
	result := catalog.Paginate(filtered, page, pageSize)
	if result.Items == nil {
		result.Items = []domain.Product{}
	}
	h.respondWithJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	product, found := snap.ByID(productID)
	if !found {
		h.respondWithError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}
	h.respondWithJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	h.respondWithJSON(w, http.StatusOK, snap.FilterOptions())
}

// SuggestionsInput validates the suggestion query parameters.
type SuggestionsInput struct {
	UserID string `validate:"required"`
	Sort   string `validate:"omitempty,oneof=relevance similarity rating price-low price-high"`
}

func (h *HTTPHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	input := SuggestionsInput{
		UserID: r.URL.Query().Get("user_id"),
		Sort:   r.URL.Query().Get("sort"),
	}
	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	strategy := domain.SortStrategy(input.Sort)
	if strategy == "" {
		strategy = domain.SortRelevance
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	viewed, favorites := h.history(r.Context(), input.UserID)
	result := h.suggester.Suggest(snap, viewed, favorites, strategy)
	if result.Products == nil {
		result.Products = []domain.ScoredProduct{}
	}
	h.respondWithJSON(w, http.StatusOK, result)
}

// --- User Interaction Handlers ---

func (h *HTTPHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	ids, err := h.interactions.GetFavoriteIDs(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("GetFavoriteIDs failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve favorites")
		return
	}

	// Favorites are served in catalog order, like the browse grid.
	h.respondWithJSON(w, http.StatusOK, snap.Matching(ids))
}

// RecentlyViewedLimit caps how many recently viewed products are served.
const RecentlyViewedLimit = 6

func (h *HTTPHandler) GetRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	ids, err := h.interactions.GetViewedIDs(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("GetViewedIDs failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve recently viewed")
		return
	}

	products := snap.Resolve(ids)
	if len(products) > RecentlyViewedLimit {
		products = products[:RecentlyViewedLimit]
	}
	h.respondWithJSON(w, http.StatusOK, products)
}

// RecordViewInput is the body for recording a product view.
type RecordViewInput struct {
	ProductID string `json:"productId" validate:"required"`
}

func (h *HTTPHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var input RecordViewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if _, found := snap.ByID(input.ProductID); !found {
		h.respondWithError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}

	if err := h.interactions.RecordView(r.Context(), userID, input.ProductID); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Str("product_id", input.ProductID).Msg("RecordView failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to record view")
		return
	}
	h.respondWithJSON(w, http.StatusNoContent, nil)
}

// FavoriteState reports the favorite flag after a toggle.
type FavoriteState struct {
	Favorite bool `json:"favorite"`
}

func (h *HTTPHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	productID := chi.URLParam(r, "productId")

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if _, found := snap.ByID(productID); !found {
		h.respondWithError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}

	favorite, err := h.interactions.ToggleFavorite(r.Context(), userID, productID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("ToggleFavorite failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}
	h.respondWithJSON(w, http.StatusOK, FavoriteState{Favorite: favorite})
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		// Fixed paths must be registered before {productId}.
		r.Get("/filter-options", h.GetFilterOptions)
		r.Get("/suggestions", h.GetSuggestions)
		r.Get("/{productId}", h.GetProductByID)
	})

	r.Route("/api/v1/users/{userId}", func(r chi.Router) {
		r.Get("/favorites", h.GetFavorites)
		r.Put("/favorites/{productId}", h.ToggleFavorite)
		r.Get("/recently-viewed", h.GetRecentlyViewed)
		r.Post("/views", h.RecordView)
	})
}
