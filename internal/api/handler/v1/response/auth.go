package response

import "github.com/minhvu2904/blindbox-api/internal/domain"

type LoginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}
