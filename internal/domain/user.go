package domain

import "time"

type User struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	IsMerchant bool      `json:"is_merchant"`
	CreatedAt  time.Time `json:"created_at"`
}
