package adaptor

import (
	"net/http"

	"film-social/internal/dto/request"
	"film-social/internal/usecase"
	"film-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultPopularCount = 10

type FilmHandler struct {
	service usecase.FilmService
	log     *zap.Logger
}

func NewFilmHandler(service usecase.FilmService, log *zap.Logger) *FilmHandler {
	return &FilmHandler{
		service: service,
		log:     log.With(zap.String("handler", "film")),
	}
}

// AddLike handles PUT /api/films/{id}/like/{userId}
func (h *FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	if err := h.service.AddLike(r.Context(), filmID, userID); err != nil {
		handleServiceError(w, h.log, err, "add like")
		return
	}

	utils.ResponseSuccess(w, "Like added", nil)
}

// RemoveLike handles DELETE /api/films/{id}/like/{userId}
func (h *FilmHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	if err := h.service.RemoveLike(r.Context(), filmID, userID); err != nil {
		handleServiceError(w, h.log, err, "remove like")
		return
	}

	utils.ResponseSuccess(w, "Like removed", nil)
}

// GetLikedFilms handles GET /api/films/liked/{userId}
func (h *FilmHandler) GetLikedFilms(w http.ResponseWriter, r *http.Request) {
	filmIDs, err := h.service.LikesOfUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get liked films")
		return
	}

	ids := make([]string, len(filmIDs))
	for i, id := range filmIDs {
		ids[i] = id.String()
	}

	utils.ResponseSuccess(w, "success", ids)
}

// GetPopularFilms handles GET /api/films/popular?count=&genreId=&year=
func (h *FilmHandler) GetPopularFilms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year, err := utils.ParseOptionalInt(query.Get("year"))
	if err != nil {
		utils.ResponseBadRequest(w, "year must be a number", nil)
		return
	}

	count, err := utils.ParseOptionalInt(query.Get("count"))
	if err != nil {
		utils.ResponseBadRequest(w, "count must be a number", nil)
		return
	}

	req := &request.PopularFilmsRequest{
		Count:   defaultPopularCount,
		GenreID: query.Get("genreId"),
		Year:    year,
	}
	if count != nil {
		req.Count = *count
	}

	films, err := h.service.GetPopularFilms(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get popular films")
		return
	}

	utils.ResponseSuccess(w, "success", films)
}

// GetCommonFilms handles GET /api/films/common?userId=&friendId=
func (h *FilmHandler) GetCommonFilms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	films, err := h.service.GetCommonFilms(r.Context(), query.Get("userId"), query.Get("friendId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get common films")
		return
	}

	utils.ResponseSuccess(w, "success", films)
}

// GetFilmsByDirector handles GET /api/films/director/{directorId}?sortBy=year|likes
func (h *FilmHandler) GetFilmsByDirector(w http.ResponseWriter, r *http.Request) {
	req := &request.DirectorFilmsRequest{
		DirectorID: chi.URLParam(r, "directorId"),
		SortBy:     r.URL.Query().Get("sortBy"),
	}

	films, err := h.service.GetFilmsByDirector(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get director films")
		return
	}

	utils.ResponseSuccess(w, "success", films)
}

// SearchFilms handles GET /api/films/search?query=&by=title,director
func (h *FilmHandler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	films, err := h.service.SearchFilms(r.Context(), query.Get("query"), query.Get("by"))
	if err != nil {
		handleServiceError(w, h.log, err, "search films")
		return
	}

	utils.ResponseSuccess(w, "success", films)
}

// DeleteFilm handles DELETE /api/films/{id}
func (h *FilmHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFilm(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete film")
		return
	}

	utils.ResponseSuccess(w, "Film deleted", nil)
}
