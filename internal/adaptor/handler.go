package adaptor

import (
	"film-social/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Film   *FilmHandler
	User   *UserHandler
	Review *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Film:   NewFilmHandler(service.Film, log),
		User:   NewUserHandler(service.User, service.Friend, service.Recommendation, service.Feed, log),
		Review: NewReviewHandler(service.Review, log),
	}
}
