package response

import (
	"film-social/internal/data/entity"
)

type FilmResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	ReleaseDate       string   `json:"releaseDate"`
	DurationInMinutes int      `json:"duration"`
	MpaID             *string  `json:"mpaId,omitempty"`
	GenreIDs          []string `json:"genreIds"`
	DirectorIDs       []string `json:"directorIds"`
	Likes             *int     `json:"likes,omitempty"`
}

// Helper converter
func FilmToResponse(film *entity.Film) FilmResponse {
	resp := FilmResponse{
		ID:                film.ID.String(),
		Title:             film.Title,
		Description:       film.Description,
		ReleaseDate:       film.ReleaseDate.Format("2006-01-02"),
		DurationInMinutes: film.DurationInMinutes,
		GenreIDs:          make([]string, 0, len(film.GenreIDs)),
		DirectorIDs:       make([]string, 0, len(film.DirectorIDs)),
	}

	if film.MpaID != nil {
		mpa := film.MpaID.String()
		resp.MpaID = &mpa
	}
	for _, id := range film.GenreIDs {
		resp.GenreIDs = append(resp.GenreIDs, id.String())
	}
	for _, id := range film.DirectorIDs {
		resp.DirectorIDs = append(resp.DirectorIDs, id.String())
	}

	return resp
}

// FilmToRankedResponse attaches the like count used for ordering.
func FilmToRankedResponse(film *entity.Film, likes int) FilmResponse {
	resp := FilmToResponse(film)
	resp.Likes = &likes
	return resp
}
