package dto

import "github.com/dreamjournal/dreamjournal/internal/model"

// CredentialsRequest is the body of POST /users, /signup and /login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses. The password hash is never exposed.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ToUserResponse converts a model.User to UserResponse.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToUserListResponse converts users to their response form.
func ToUserListResponse(users []*model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out
}
