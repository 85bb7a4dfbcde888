package wire

import (
	"film-social/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.ListReviews)
		r.Post("/", reviewHandler.CreateReview)

		r.Get("/{id}", reviewHandler.GetReview)
		r.Put("/{id}", reviewHandler.UpdateReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)

		// Rating ledger
		r.Get("/{id}/rating/{userId}", reviewHandler.GetRating)
		r.Put("/{id}/like/{userId}", reviewHandler.AddLike())
		r.Delete("/{id}/like/{userId}", reviewHandler.RemoveLike())
		r.Put("/{id}/dislike/{userId}", reviewHandler.AddDislike())
		r.Delete("/{id}/dislike/{userId}", reviewHandler.RemoveDislike())
	})
}
