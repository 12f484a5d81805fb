package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateBlindBoxRequest_Validate(t *testing.T) {
	valid := CreateBlindBoxRequest{
		Name:          "Space Series",
		CoverImage:    "cover.png",
		ContentImages: []string{"a.png", "b.png"},
		Price:         9.99,
		TotalStock:    10,
	}

	tests := []struct {
		name    string
		mutate  func(req *CreateBlindBoxRequest)
		wantErr bool
	}{
		{name: "valid"},
		{name: "missing name", mutate: func(r *CreateBlindBoxRequest) { r.Name = "" }, wantErr: true},
		{name: "empty content pool", mutate: func(r *CreateBlindBoxRequest) { r.ContentImages = nil }, wantErr: true},
		{name: "zero price", mutate: func(r *CreateBlindBoxRequest) { r.Price = 0 }, wantErr: true},
		{name: "negative price", mutate: func(r *CreateBlindBoxRequest) { r.Price = -1 }, wantErr: true},
		{name: "zero stock", mutate: func(r *CreateBlindBoxRequest) { r.TotalStock = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuantityRequests_Validate(t *testing.T) {
	assert.NoError(t, (&PurchaseRequest{Quantity: 1}).Validate())
	assert.Error(t, (&PurchaseRequest{Quantity: 0}).Validate())
	assert.Error(t, (&PurchaseRequest{Quantity: -1}).Validate())

	assert.NoError(t, (&DrawRequest{Quantity: 3}).Validate())
	assert.Error(t, (&DrawRequest{Quantity: 0}).Validate())

	assert.NoError(t, (&DelistRequest{Quantity: 2}).Validate())
	assert.Error(t, (&DelistRequest{Quantity: 0}).Validate())

	assert.NoError(t, (&RelistRequest{Quantity: 2}).Validate())
	assert.Error(t, (&RelistRequest{Quantity: 0}).Validate())
}

func TestShipRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ShipRequest{Address: "1 Main St"}).Validate())
	assert.Error(t, (&ShipRequest{}).Validate())
}
