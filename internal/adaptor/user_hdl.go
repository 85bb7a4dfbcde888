package adaptor

import (
	"net/http"

	"film-social/internal/usecase"
	"film-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler serves everything under /api/users: friends, recommendations and the feed.
type UserHandler struct {
	users           usecase.UserService
	friends         usecase.FriendService
	recommendations usecase.RecommendationService
	feed            usecase.FeedService
	log             *zap.Logger
}

func NewUserHandler(
	users usecase.UserService,
	friends usecase.FriendService,
	recommendations usecase.RecommendationService,
	feed usecase.FeedService,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{
		users:           users,
		friends:         friends,
		recommendations: recommendations,
		feed:            feed,
		log:             log.With(zap.String("handler", "user")),
	}
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted", nil)
}

// AddFriend handles PUT /api/users/{id}/friends/{friendId}
func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	friendID := chi.URLParam(r, "friendId")

	if err := h.friends.AddFriend(r.Context(), userID, friendID); err != nil {
		handleServiceError(w, h.log, err, "add friend")
		return
	}

	utils.ResponseSuccess(w, "Friend added", nil)
}

// RemoveFriend handles DELETE /api/users/{id}/friends/{friendId}
func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	friendID := chi.URLParam(r, "friendId")

	if err := h.friends.RemoveFriend(r.Context(), userID, friendID); err != nil {
		handleServiceError(w, h.log, err, "remove friend")
		return
	}

	utils.ResponseSuccess(w, "Friend removed", nil)
}

// GetFriends handles GET /api/users/{id}/friends
func (h *UserHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friends.GetFriends(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get friends")
		return
	}

	utils.ResponseSuccess(w, "success", friends)
}

// CommonFriends handles GET /api/users/{id}/friends/common/{otherId}
func (h *UserHandler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	common, err := h.friends.CommonFriends(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "otherId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get common friends")
		return
	}

	utils.ResponseSuccess(w, "success", common)
}

// GetRecommendations handles GET /api/users/{id}/recommendations
func (h *UserHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	films, err := h.recommendations.Recommend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get recommendations")
		return
	}

	utils.ResponseSuccess(w, "success", films)
}

// GetFeed handles GET /api/users/{id}/feed
func (h *UserHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	events, err := h.feed.FeedOf(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get feed")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}
