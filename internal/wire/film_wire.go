package wire

import (
	"film-social/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireFilm(r chi.Router, filmHandler *adaptor.FilmHandler) {
	r.Route("/api/films", func(r chi.Router) {
		// static paths first so they are not captured by /{id}
		r.Get("/popular", filmHandler.GetPopularFilms)
		r.Get("/common", filmHandler.GetCommonFilms)
		r.Get("/search", filmHandler.SearchFilms)
		r.Get("/director/{directorId}", filmHandler.GetFilmsByDirector)
		r.Get("/liked/{userId}", filmHandler.GetLikedFilms)

		r.Delete("/{id}", filmHandler.DeleteFilm)

		// PUT and POST both add a like
		r.Put("/{id}/like/{userId}", filmHandler.AddLike)
		r.Post("/{id}/like/{userId}", filmHandler.AddLike)
		r.Delete("/{id}/like/{userId}", filmHandler.RemoveLike)
	})
}
