package repository

import (
	"context"
	"fmt"

	"github.com/minhvu2904/blindbox-api/internal/domain"
	"github.com/minhvu2904/blindbox-api/internal/repository/dao"
)

var (
	ErrBlindBoxNotFound       = dao.ErrBlindBoxNotFound
	ErrDrawNotFound           = dao.ErrDrawNotFound
	ErrInsufficientStock      = dao.ErrInsufficientStock
	ErrInsufficientOwnedBoxes = dao.ErrInsufficientOwnedBoxes
	ErrExceedsAvailableStock  = dao.ErrExceedsAvailableStock
)

type BlindBoxDAO interface {
	Insert(ctx context.Context, box dao.BlindBox) (dao.BlindBox, error)
	FindByID(ctx context.Context, id uint) (dao.BlindBox, error)
	FindAll(ctx context.Context) ([]dao.BlindBox, error)
	FindByMerchantID(ctx context.Context, merchantID uint) ([]dao.BlindBox, error)
	Purchase(ctx context.Context, userID, boxID uint, quantity int) (dao.PurchaseResult, error)
	Draw(ctx context.Context, userID, boxID uint, quantity int, pick func(n int) int) ([]string, error)
	Ship(ctx context.Context, userID, drawID uint, address string) error
	Delist(ctx context.Context, boxID uint, quantity int) (bool, error)
	Relist(ctx context.Context, boxID uint, quantity int) error
	FindOwnedQuantity(ctx context.Context, userID, boxID uint) (int, error)
	FindOwnedByUserID(ctx context.Context, userID uint) ([]dao.UserBlindBox, error)
	FindDrawsByUserID(ctx context.Context, userID uint) ([]dao.Draw, error)
	FindOrdersByBoxID(ctx context.Context, boxID uint) ([]dao.Order, error)
}

type BlindBoxRepository struct {
	dao BlindBoxDAO
}

func NewBlindBoxRepository(dao BlindBoxDAO) *BlindBoxRepository {
	return &BlindBoxRepository{
		dao: dao,
	}
}

func (r *BlindBoxRepository) Create(ctx context.Context, box domain.BlindBox) (domain.BlindBox, error) {
	daoBox, err := r.domainToDao(box)
	if err != nil {
		return domain.BlindBox{}, err
	}

	created, err := r.dao.Insert(ctx, daoBox)
	if err != nil {
		return domain.BlindBox{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created)
}

func (r *BlindBoxRepository) FindByID(ctx context.Context, id uint) (domain.BlindBox, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.BlindBox{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *BlindBoxRepository) FindAll(ctx context.Context) ([]domain.BlindBox, error) {
	boxes, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(boxes)
}

func (r *BlindBoxRepository) FindByMerchantID(ctx context.Context, merchantID uint) ([]domain.BlindBox, error) {
	boxes, err := r.dao.FindByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByMerchantID -> %w", err)
	}

	return r.daosToDomain(boxes)
}

func (r *BlindBoxRepository) Purchase(ctx context.Context, userID, boxID uint, quantity int) (domain.PurchaseResult, error) {
	res, err := r.dao.Purchase(ctx, userID, boxID, quantity)
	if err != nil {
		return domain.PurchaseResult{}, fmt.Errorf("r.dao.Purchase -> %w", err)
	}

	return domain.PurchaseResult{
		Quantity:   res.Quantity,
		TotalPrice: res.TotalPrice,
	}, nil
}

func (r *BlindBoxRepository) Draw(ctx context.Context, userID, boxID uint, quantity int, pick func(n int) int) ([]string, error) {
	drawn, err := r.dao.Draw(ctx, userID, boxID, quantity, pick)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Draw -> %w", err)
	}

	return drawn, nil
}

func (r *BlindBoxRepository) Ship(ctx context.Context, userID, drawID uint, address string) error {
	if err := r.dao.Ship(ctx, userID, drawID, address); err != nil {
		return fmt.Errorf("r.dao.Ship -> %w", err)
	}

	return nil
}

func (r *BlindBoxRepository) Delist(ctx context.Context, boxID uint, quantity int) (domain.DelistResult, error) {
	deleted, err := r.dao.Delist(ctx, boxID, quantity)
	if err != nil {
		return domain.DelistResult{}, fmt.Errorf("r.dao.Delist -> %w", err)
	}

	return domain.DelistResult{Deleted: deleted}, nil
}

func (r *BlindBoxRepository) Relist(ctx context.Context, boxID uint, quantity int) error {
	if err := r.dao.Relist(ctx, boxID, quantity); err != nil {
		return fmt.Errorf("r.dao.Relist -> %w", err)
	}

	return nil
}

func (r *BlindBoxRepository) FindOwnedQuantity(ctx context.Context, userID, boxID uint) (int, error) {
	quantity, err := r.dao.FindOwnedQuantity(ctx, userID, boxID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.FindOwnedQuantity -> %w", err)
	}

	return quantity, nil
}

// FindOwnedByUserID joins the user's ownership records with their listings
// for the inventory view.
func (r *BlindBoxRepository) FindOwnedByUserID(ctx context.Context, userID uint) ([]domain.OwnedBox, error) {
	owned, err := r.dao.FindOwnedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOwnedByUserID -> %w", err)
	}

	ownedBoxes := make([]domain.OwnedBox, 0, len(owned))
	for _, record := range owned {
		box, err := r.dao.FindByID(ctx, record.BlindBoxID)
		if err != nil {
			return nil, fmt.Errorf("r.dao.FindByID -> %w", err)
		}

		domainBox, err := r.daoToDomain(box)
		if err != nil {
			return nil, err
		}

		ownedBoxes = append(ownedBoxes, domain.OwnedBox{
			BlindBox: domainBox,
			Quantity: record.Quantity,
		})
	}

	return ownedBoxes, nil
}

func (r *BlindBoxRepository) FindDrawsByUserID(ctx context.Context, userID uint) ([]domain.Draw, error) {
	draws, err := r.dao.FindDrawsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDrawsByUserID -> %w", err)
	}

	domainDraws := make([]domain.Draw, len(draws))
	for i, draw := range draws {
		domainDraws[i] = r.drawDaoToDomain(draw)
	}

	return domainDraws, nil
}

func (r *BlindBoxRepository) FindOrdersByBoxID(ctx context.Context, boxID uint) ([]domain.Order, error) {
	orders, err := r.dao.FindOrdersByBoxID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOrdersByBoxID -> %w", err)
	}

	domainOrders := make([]domain.Order, len(orders))
	for i, order := range orders {
		domainOrders[i] = domain.Order{
			DrawID:          order.DrawID,
			Username:        order.Username,
			DrawnImage:      order.DrawnImage,
			Quantity:        order.Quantity,
			ShippingAddress: order.ShippingAddress,
			CreatedAt:       order.CreatedAt,
		}
	}

	return domainOrders, nil
}

func (r *BlindBoxRepository) domainToDao(box domain.BlindBox) (dao.BlindBox, error) {
	encoded, err := dao.EncodeContentImages(box.ContentImages)
	if err != nil {
		return dao.BlindBox{}, fmt.Errorf("dao.EncodeContentImages -> %w", err)
	}

	return dao.BlindBox{
		ID:            box.ID,
		MerchantID:    box.MerchantID,
		Name:          box.Name,
		CoverImage:    box.CoverImage,
		ContentImages: encoded,
		Price:         box.Price,
		TotalStock:    box.TotalStock,
		OrderCount:    box.OrderCount,
		CreatedAt:     box.CreatedAt,
	}, nil
}

func (r *BlindBoxRepository) daoToDomain(box dao.BlindBox) (domain.BlindBox, error) {
	images, err := dao.DecodeContentImages(box.ContentImages)
	if err != nil {
		return domain.BlindBox{}, fmt.Errorf("dao.DecodeContentImages -> %w", err)
	}

	return domain.BlindBox{
		ID:            box.ID,
		MerchantID:    box.MerchantID,
		Name:          box.Name,
		CoverImage:    box.CoverImage,
		ContentImages: images,
		Price:         box.Price,
		TotalStock:    box.TotalStock,
		OrderCount:    box.OrderCount,
		CreatedAt:     box.CreatedAt,
	}, nil
}

func (r *BlindBoxRepository) daosToDomain(boxes []dao.BlindBox) ([]domain.BlindBox, error) {
	domainBoxes := make([]domain.BlindBox, len(boxes))
	for i, box := range boxes {
		domainBox, err := r.daoToDomain(box)
		if err != nil {
			return nil, err
		}
		domainBoxes[i] = domainBox
	}

	return domainBoxes, nil
}

func (r *BlindBoxRepository) drawDaoToDomain(draw dao.Draw) domain.Draw {
	return domain.Draw{
		ID:              draw.ID,
		UserID:          draw.UserID,
		BlindBoxID:      draw.BlindBoxID,
		DrawnImage:      draw.DrawnImage,
		Quantity:        draw.Quantity,
		ShippingAddress: draw.ShippingAddress,
		CreatedAt:       draw.CreatedAt,
	}
}
