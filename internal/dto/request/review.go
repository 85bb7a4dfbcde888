package request

type CreateReviewRequest struct {
	UserID     string `json:"userId" validate:"required,uuid"`
	FilmID     string `json:"filmId" validate:"required,uuid"`
	Content    string `json:"content" validate:"required,notblank,max=2000"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
}

// UpdateReviewRequest only carries the mutable fields; author and film are fixed at creation.
type UpdateReviewRequest struct {
	Content    string `json:"content" validate:"required,notblank,max=2000"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
}

type ListReviewsRequest struct {
	FilmID string
	Count  int
}
