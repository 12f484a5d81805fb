package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateBlindBoxRequest struct {
	Name          string   `json:"name" binding:"required"`
	CoverImage    string   `json:"cover_image" binding:"required"`
	ContentImages []string `json:"content_images" binding:"required"`
	Price         float64  `json:"price" binding:"required"`
	TotalStock    int      `json:"total_stock" binding:"required"`
}

func (req *CreateBlindBoxRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.CoverImage, validation.Required),
		validation.Field(&req.ContentImages, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&req.TotalStock, validation.Required, validation.Min(1)),
	)
}

type PurchaseRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (req *PurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type DrawRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (req *DrawRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type ShipRequest struct {
	Address string `json:"address" binding:"required"`
}

func (req *ShipRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Address, validation.Required, validation.Length(1, 500)),
	)
}

type DelistRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (req *DelistRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type RelistRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (req *RelistRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type AddCommentRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

func (req *AddCommentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Length(0, 1000)),
	)
}
