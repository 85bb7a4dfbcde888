package wire

import (
	"film-social/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Route("/api/users/{id}", func(r chi.Router) {
		r.Get("/", userHandler.GetUser)
		r.Delete("/", userHandler.DeleteUser)

		// Friend graph
		r.Get("/friends", userHandler.GetFriends)
		r.Get("/friends/common/{otherId}", userHandler.CommonFriends)
		r.Put("/friends/{friendId}", userHandler.AddFriend)
		r.Delete("/friends/{friendId}", userHandler.RemoveFriend)

		r.Get("/recommendations", userHandler.GetRecommendations)
		r.Get("/feed", userHandler.GetFeed)
	})
}
