package response

import "github.com/adarshamigo11/task-portal/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	Admin bool        `json:"admin"`
}
