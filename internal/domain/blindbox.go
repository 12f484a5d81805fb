package domain

import "time"

// BlindBox is a sealed listing. ContentImages is the ordered reward pool;
// duplicates are allowed and bias the draw towards the repeated image.
type BlindBox struct {
	ID            uint      `json:"id"`
	MerchantID    uint      `json:"merchant_id"`
	Name          string    `json:"name"`
	CoverImage    string    `json:"cover_image"`
	ContentImages []string  `json:"content_images"`
	Price         float64   `json:"price"`
	TotalStock    int       `json:"total_stock"`
	OrderCount    int       `json:"order_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// RemainingStock is the number of units still purchasable.
func (b BlindBox) RemainingStock() int {
	return b.TotalStock - b.OrderCount
}

// UserBlindBox counts the units a user has purchased but not yet drawn.
// A record never persists at quantity 0.
type UserBlindBox struct {
	UserID     uint `json:"user_id"`
	BlindBoxID uint `json:"blind_box_id"`
	Quantity   int  `json:"quantity"`
}

// OwnedBox is a user inventory row joined with its listing.
type OwnedBox struct {
	BlindBox BlindBox `json:"blind_box"`
	Quantity int      `json:"quantity"`
}

type PurchaseResult struct {
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type DelistResult struct {
	Deleted bool `json:"deleted"`
}
