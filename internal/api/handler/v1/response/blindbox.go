package response

type PurchaseResponse struct {
	Message    string  `json:"message"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type DrawResponse struct {
	Message     string   `json:"message"`
	DrawnImages []string `json:"drawn_images"`
}

type ShipResponse struct {
	Message string `json:"message"`
}

type DelistResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

type RelistResponse struct {
	Message string `json:"message"`
}

type OwnedQuantityResponse struct {
	Quantity int `json:"quantity"`
}

type CreateBlindBoxResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}
