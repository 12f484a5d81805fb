package domain

import "time"

// Draw is one row of the draw ledger. ShippingAddress == nil means the row
// accumulates undelivered units of one image for a (user, box) pair; a
// non-nil address marks a single shipped unit (always Quantity 1).
type Draw struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	BlindBoxID      uint      `json:"blind_box_id"`
	DrawnImage      string    `json:"drawn_image"`
	Quantity        int       `json:"quantity"`
	ShippingAddress *string   `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
}

func (d Draw) IsShipped() bool {
	return d.ShippingAddress != nil
}

// Order is a shipped draw joined with the buyer, as shown to the merchant.
type Order struct {
	DrawID          uint      `json:"draw_id"`
	Username        string    `json:"username"`
	DrawnImage      string    `json:"drawn_image"`
	Quantity        int       `json:"quantity"`
	ShippingAddress string    `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
}
