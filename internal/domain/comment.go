package domain

import "time"

type Comment struct {
	ID         uint      `json:"id"`
	BlindBoxID uint      `json:"blind_box_id"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
