package request

type PopularFilmsRequest struct {
	Count   int
	GenreID string
	Year    *int
}

type DirectorFilmsRequest struct {
	DirectorID string
	SortBy     string `validate:"required,oneof=year likes"`
}
