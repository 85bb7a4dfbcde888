package response

import "film-social/internal/data/entity"

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

func UserToResponse(user *entity.User) UserResponse {
	name := user.Name
	if name == "" {
		name = user.Login
	}

	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Login:    user.Login,
		Name:     name,
		Birthday: user.Birthday.Format("2006-01-02"),
	}
}
