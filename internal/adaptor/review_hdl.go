package adaptor

import (
	"net/http"

	"film-social/internal/dto/request"
	"film-social/internal/dto/response"
	"film-social/internal/usecase"
	"film-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.CreateReview(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// UpdateReview handles PUT /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// ListReviews handles GET /api/reviews?filmId=&count=
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	count, err := utils.ParseOptionalInt(query.Get("count"))
	if err != nil {
		utils.ResponseBadRequest(w, "count must be a number", nil)
		return
	}

	req := &request.ListReviewsRequest{FilmID: query.Get("filmId")}
	if count != nil {
		req.Count = *count
	}

	reviews, err := h.service.ListReviews(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetRating handles GET /api/reviews/{id}/rating/{userId}
func (h *ReviewHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.service.RatingOf(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review rating")
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}

type rateFunc func(r *http.Request, reviewID, userID string) (*response.ReviewResponse, error)

// rate adapts one rating transition to a handler for /api/reviews/{id}/{like|dislike}/{userId}.
func (h *ReviewHandler) rate(operation string, fn rateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, err := fn(r, chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
		if err != nil {
			handleServiceError(w, h.log, err, operation)
			return
		}

		utils.ResponseSuccess(w, "success", review)
	}
}

func (h *ReviewHandler) AddLike() http.HandlerFunc {
	return h.rate("like review", func(r *http.Request, reviewID, userID string) (*response.ReviewResponse, error) {
		return h.service.AddLike(r.Context(), reviewID, userID)
	})
}

func (h *ReviewHandler) AddDislike() http.HandlerFunc {
	return h.rate("dislike review", func(r *http.Request, reviewID, userID string) (*response.ReviewResponse, error) {
		return h.service.AddDislike(r.Context(), reviewID, userID)
	})
}

func (h *ReviewHandler) RemoveLike() http.HandlerFunc {
	return h.rate("remove review like", func(r *http.Request, reviewID, userID string) (*response.ReviewResponse, error) {
		return h.service.RemoveLike(r.Context(), reviewID, userID)
	})
}

func (h *ReviewHandler) RemoveDislike() http.HandlerFunc {
	return h.rate("remove review dislike", func(r *http.Request, reviewID, userID string) (*response.ReviewResponse, error) {
		return h.service.RemoveDislike(r.Context(), reviewID, userID)
	})
}
