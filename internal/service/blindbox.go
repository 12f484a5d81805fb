package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/minhvu2904/blindbox-api/internal/domain"
	"github.com/minhvu2904/blindbox-api/internal/repository"
)

var (
	ErrBlindBoxNotFound       = repository.ErrBlindBoxNotFound
	ErrDrawNotFound           = repository.ErrDrawNotFound
	ErrInsufficientStock      = repository.ErrInsufficientStock
	ErrInsufficientOwnedBoxes = repository.ErrInsufficientOwnedBoxes
	ErrExceedsAvailableStock  = repository.ErrExceedsAvailableStock

	ErrInvalidBlindBox      = errors.New("blind box requires a name, a cover image, a non-empty content pool, a positive price and positive stock")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrEmptyShippingAddress = errors.New("shipping address must not be empty")
)

// Rand is the random source behind reward draws. Injected so draw outcomes
// are reproducible in tests.
type Rand interface {
	Intn(n int) int
}

type BlindBoxRepository interface {
	Create(ctx context.Context, box domain.BlindBox) (domain.BlindBox, error)
	FindByID(ctx context.Context, id uint) (domain.BlindBox, error)
	FindAll(ctx context.Context) ([]domain.BlindBox, error)
	FindByMerchantID(ctx context.Context, merchantID uint) ([]domain.BlindBox, error)
	Purchase(ctx context.Context, userID, boxID uint, quantity int) (domain.PurchaseResult, error)
	Draw(ctx context.Context, userID, boxID uint, quantity int, pick func(n int) int) ([]string, error)
	Ship(ctx context.Context, userID, drawID uint, address string) error
	Delist(ctx context.Context, boxID uint, quantity int) (domain.DelistResult, error)
	Relist(ctx context.Context, boxID uint, quantity int) error
	FindOwnedQuantity(ctx context.Context, userID, boxID uint) (int, error)
	FindOwnedByUserID(ctx context.Context, userID uint) ([]domain.OwnedBox, error)
	FindDrawsByUserID(ctx context.Context, userID uint) ([]domain.Draw, error)
	FindOrdersByBoxID(ctx context.Context, boxID uint) ([]domain.Order, error)
}

type BlindBoxService struct {
	repo BlindBoxRepository
	rand Rand
}

// NewBlindBoxService wires the service; a nil rnd falls back to a freshly
// seeded math/rand source.
func NewBlindBoxService(repo BlindBoxRepository, rnd Rand) *BlindBoxService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &BlindBoxService{
		repo: repo,
		rand: rnd,
	}
}

func (s *BlindBoxService) CreateBlindBox(ctx context.Context, box domain.BlindBox) (domain.BlindBox, error) {
	if box.Name == "" || box.CoverImage == "" || len(box.ContentImages) == 0 ||
		box.Price <= 0 || box.TotalStock <= 0 {
		return domain.BlindBox{}, ErrInvalidBlindBox
	}

	box.OrderCount = 0

	created, err := s.repo.Create(ctx, box)
	if err != nil {
		return domain.BlindBox{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *BlindBoxService) GetBlindBox(ctx context.Context, boxID uint) (domain.BlindBox, error) {
	box, err := s.repo.FindByID(ctx, boxID)
	if err != nil {
		return domain.BlindBox{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return box, nil
}

func (s *BlindBoxService) GetAllBlindBoxes(ctx context.Context) ([]domain.BlindBox, error) {
	boxes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return boxes, nil
}

func (s *BlindBoxService) GetMerchantBlindBoxes(ctx context.Context, merchantID uint) ([]domain.BlindBox, error) {
	boxes, err := s.repo.FindByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByMerchantID -> %w", err)
	}

	return boxes, nil
}

// Purchase converts available stock into ownership units and returns the
// total price charged.
func (s *BlindBoxService) Purchase(ctx context.Context, userID, boxID uint, quantity int) (domain.PurchaseResult, error) {
	if quantity < 1 {
		return domain.PurchaseResult{}, ErrInvalidQuantity
	}

	res, err := s.repo.Purchase(ctx, userID, boxID, quantity)
	if err != nil {
		return domain.PurchaseResult{}, fmt.Errorf("s.repo.Purchase -> %w", err)
	}

	return res, nil
}

// Draw opens quantity owned units and returns the drawn reward images in
// draw order. A single call may repeat the same image; each unit is drawn
// independently over pool positions.
func (s *BlindBoxService) Draw(ctx context.Context, userID, boxID uint, quantity int) ([]string, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	drawn, err := s.repo.Draw(ctx, userID, boxID, quantity, s.rand.Intn)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Draw -> %w", err)
	}

	return drawn, nil
}

// Ship sends exactly one unit of an unshipped draw record to address.
// Shipping n units takes n calls.
func (s *BlindBoxService) Ship(ctx context.Context, userID, drawID uint, address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrEmptyShippingAddress
	}

	if err := s.repo.Ship(ctx, userID, drawID, address); err != nil {
		return fmt.Errorf("s.repo.Ship -> %w", err)
	}

	return nil
}

func (s *BlindBoxService) Delist(ctx context.Context, boxID uint, quantity int) (domain.DelistResult, error) {
	if quantity < 1 {
		return domain.DelistResult{}, ErrInvalidQuantity
	}

	res, err := s.repo.Delist(ctx, boxID, quantity)
	if err != nil {
		return domain.DelistResult{}, fmt.Errorf("s.repo.Delist -> %w", err)
	}

	return res, nil
}

func (s *BlindBoxService) Relist(ctx context.Context, boxID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.repo.Relist(ctx, boxID, quantity); err != nil {
		return fmt.Errorf("s.repo.Relist -> %w", err)
	}

	return nil
}

func (s *BlindBoxService) GetOwnedQuantity(ctx context.Context, userID, boxID uint) (int, error) {
	quantity, err := s.repo.FindOwnedQuantity(ctx, userID, boxID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindOwnedQuantity -> %w", err)
	}

	return quantity, nil
}

func (s *BlindBoxService) GetOwnedBoxes(ctx context.Context, userID uint) ([]domain.OwnedBox, error) {
	owned, err := s.repo.FindOwnedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindOwnedByUserID -> %w", err)
	}

	return owned, nil
}

func (s *BlindBoxService) GetUserDraws(ctx context.Context, userID uint) ([]domain.Draw, error) {
	draws, err := s.repo.FindDrawsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindDrawsByUserID -> %w", err)
	}

	return draws, nil
}

// GetBoxOrders lists the shipped orders of a listing for its merchant.
func (s *BlindBoxService) GetBoxOrders(ctx context.Context, boxID uint) ([]domain.Order, error) {
	orders, err := s.repo.FindOrdersByBoxID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindOrdersByBoxID -> %w", err)
	}

	return orders, nil
}
