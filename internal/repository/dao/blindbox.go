package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBlindBoxNotFound       = errors.New("blind box not found")
	ErrDrawNotFound           = errors.New("draw record not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInsufficientOwnedBoxes = errors.New("insufficient owned boxes")
	ErrExceedsAvailableStock  = errors.New("delist quantity exceeds available stock")
)

type BlindBox struct {
	ID uint `gorm:"primaryKey"`

	MerchantID uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	CoverImage string `gorm:"not null"`

	// ContentImages holds the JSON-encoded reward pool, in pool order.
	ContentImages string `gorm:"not null"`

	Price      float64 `gorm:"type:decimal(10,2);not null"`
	TotalStock int     `gorm:"not null"`
	OrderCount int     `gorm:"not null;default:0"`

	CreatedAt time.Time
}

type UserBlindBox struct {
	ID uint `gorm:"primaryKey"`

	UserID     uint `gorm:"not null;uniqueIndex:idx_user_blind_boxes_user_box"`
	BlindBoxID uint `gorm:"not null;uniqueIndex:idx_user_blind_boxes_user_box"`
	Quantity   int  `gorm:"not null"`
}

type Draw struct {
	ID uint `gorm:"primaryKey"`

	UserID     uint   `gorm:"not null;index"`
	BlindBoxID uint   `gorm:"not null;index"`
	DrawnImage string `gorm:"not null"`
	Quantity   int    `gorm:"not null"`

	// NULL while the drawn units await shipment. Set on shipped rows only.
	ShippingAddress *string

	CreatedAt time.Time
}

type PurchaseResult struct {
	Quantity   int
	TotalPrice float64
}

type Order struct {
	DrawID          uint
	Username        string
	DrawnImage      string
	Quantity        int
	ShippingAddress string
	CreatedAt       time.Time
}

func EncodeContentImages(images []string) (string, error) {
	encoded, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return string(encoded), nil
}

func DecodeContentImages(encoded string) ([]string, error) {
	var images []string
	if err := json.Unmarshal([]byte(encoded), &images); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return images, nil
}

type BlindBoxDAO struct {
	db *gorm.DB
}

func NewBlindBoxDAO(db *gorm.DB) *BlindBoxDAO {
	return &BlindBoxDAO{
		db: db,
	}
}

func (d *BlindBoxDAO) Insert(ctx context.Context, box BlindBox) (BlindBox, error) {
	result := d.db.WithContext(ctx).Create(&box)
	if result.Error != nil {
		return BlindBox{}, result.Error
	}

	return box, nil
}

func (d *BlindBoxDAO) FindByID(ctx context.Context, id uint) (BlindBox, error) {
	var box BlindBox

	result := d.db.WithContext(ctx).First(&box, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return BlindBox{}, ErrBlindBoxNotFound
		}

		return BlindBox{}, result.Error
	}

	return box, nil
}

// FindAll returns the catalog view, newest listing first.
func (d *BlindBoxDAO) FindAll(ctx context.Context) ([]BlindBox, error) {
	var boxes []BlindBox

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&boxes)
	if result.Error != nil {
		return nil, result.Error
	}

	return boxes, nil
}

// FindByMerchantID returns the merchant view, ordered by id.
func (d *BlindBoxDAO) FindByMerchantID(ctx context.Context, merchantID uint) ([]BlindBox, error) {
	var boxes []BlindBox

	result := d.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("id ASC").
		Find(&boxes)
	if result.Error != nil {
		return nil, result.Error
	}

	return boxes, nil
}

// Purchase moves quantity units from available stock to the user's ownership
// record. The stock check, the ownership upsert and the order_count bump run
// in one transaction holding a lock on the listing row.
func (d *BlindBoxDAO) Purchase(ctx context.Context, userID, boxID uint, quantity int) (PurchaseResult, error) {
	var res PurchaseResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var box BlindBox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&box, boxID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlindBoxNotFound
			}

			return err
		}

		if box.TotalStock-box.OrderCount < quantity {
			return ErrInsufficientStock
		}

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "blind_box_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("user_blind_boxes.quantity + ?", quantity),
			}),
		}).Create(&UserBlindBox{
			UserID:     userID,
			BlindBoxID: boxID,
			Quantity:   quantity,
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&BlindBox{}).
			Where("id = ?", box.ID).
			UpdateColumn("order_count", gorm.Expr("order_count + ?", quantity)).Error
		if err != nil {
			return err
		}

		res = PurchaseResult{
			Quantity:   quantity,
			TotalPrice: box.Price * float64(quantity),
		}

		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	return res, nil
}

// Draw consumes quantity owned units and records the drawn rewards. Each unit
// is selected independently via pick, uniform over pool positions, so an
// image listed twice is twice as likely. The ownership decrement and every
// per-image upsert commit or roll back together; a failed upsert never leaves
// the decrement applied.
func (d *BlindBoxDAO) Draw(ctx context.Context, userID, boxID uint, quantity int, pick func(n int) int) ([]string, error) {
	var drawn []string

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned UserBlindBox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND blind_box_id = ?", userID, boxID).
			First(&owned).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientOwnedBoxes
			}

			return err
		}
		if owned.Quantity < quantity {
			return ErrInsufficientOwnedBoxes
		}

		var box BlindBox
		if err = tx.First(&box, boxID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlindBoxNotFound
			}

			return err
		}

		pool, err := DecodeContentImages(box.ContentImages)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			return fmt.Errorf("blind box %v has an empty content pool", boxID)
		}

		drawn = drawFromPool(pool, quantity, pick)

		if owned.Quantity == quantity {
			if err = tx.Delete(&UserBlindBox{}, owned.ID).Error; err != nil {
				return err
			}
		} else {
			err = tx.Model(&UserBlindBox{}).
				Where("id = ?", owned.ID).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity)).Error
			if err != nil {
				return err
			}
		}

		for _, tally := range tallyDrawn(drawn) {
			if err = upsertUnshippedDraw(tx, userID, boxID, tally.Image, tally.Count); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return drawn, nil
}

// upsertUnshippedDraw adds count units to the single unshipped draw row of
// (user, box, image), creating it when absent. Shipped rows of the same
// triple are never touched.
func upsertUnshippedDraw(tx *gorm.DB, userID, boxID uint, image string, count int) error {
	var existing Draw
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND blind_box_id = ? AND drawn_image = ? AND shipping_address IS NULL",
			userID, boxID, image).
		First(&existing).Error

	switch {
	case err == nil:
		return tx.Model(&Draw{}).
			Where("id = ?", existing.ID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", count)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&Draw{
			UserID:     userID,
			BlindBoxID: boxID,
			DrawnImage: image,
			Quantity:   count,
		}).Error
	default:
		return err
	}
}

// Ship peels exactly one unit off an unshipped draw row into a new shipped
// row carrying the address. The source row is deleted once empty. Calling
// again ships the next unit; the operation is deliberately not idempotent.
func (d *BlindBoxDAO) Ship(ctx context.Context, userID, drawID uint, address string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source Draw
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND shipping_address IS NULL", drawID, userID).
			First(&source).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDrawNotFound
			}

			return err
		}

		shipped := Draw{
			UserID:          userID,
			BlindBoxID:      source.BlindBoxID,
			DrawnImage:      source.DrawnImage,
			Quantity:        1,
			ShippingAddress: &address,
		}
		if err = tx.Create(&shipped).Error; err != nil {
			return err
		}

		if source.Quantity == 1 {
			return tx.Delete(&Draw{}, source.ID).Error
		}

		return tx.Model(&Draw{}).
			Where("id = ?", source.ID).
			UpdateColumn("quantity", gorm.Expr("quantity - 1")).Error
	})
}

// Delist removes quantity units of never-sold stock. Driving total_stock to
// zero deletes the listing; ownership and draw history stay untouched.
func (d *BlindBoxDAO) Delist(ctx context.Context, boxID uint, quantity int) (bool, error) {
	deleted := false

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var box BlindBox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&box, boxID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlindBoxNotFound
			}

			return err
		}

		if quantity > box.TotalStock-box.OrderCount {
			return ErrExceedsAvailableStock
		}

		if box.TotalStock-quantity == 0 {
			deleted = true
			return tx.Delete(&BlindBox{}, box.ID).Error
		}

		return tx.Model(&BlindBox{}).
			Where("id = ?", box.ID).
			UpdateColumn("total_stock", gorm.Expr("total_stock - ?", quantity)).Error
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

func (d *BlindBoxDAO) Relist(ctx context.Context, boxID uint, quantity int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&BlindBox{}).
			Where("id = ?", boxID).
			UpdateColumn("total_stock", gorm.Expr("total_stock + ?", quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBlindBoxNotFound
		}

		return nil
	})
}

// FindOwnedQuantity reports how many undrawn units the user holds; 0 when no
// record exists.
func (d *BlindBoxDAO) FindOwnedQuantity(ctx context.Context, userID, boxID uint) (int, error) {
	var owned UserBlindBox

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND blind_box_id = ?", userID, boxID).
		First(&owned)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, result.Error
	}

	return owned.Quantity, nil
}

func (d *BlindBoxDAO) FindOwnedByUserID(ctx context.Context, userID uint) ([]UserBlindBox, error) {
	var owned []UserBlindBox

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("blind_box_id ASC").
		Find(&owned)
	if result.Error != nil {
		return nil, result.Error
	}

	return owned, nil
}

func (d *BlindBoxDAO) FindDrawsByUserID(ctx context.Context, userID uint) ([]Draw, error) {
	var draws []Draw

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&draws)
	if result.Error != nil {
		return nil, result.Error
	}

	return draws, nil
}

// FindOrdersByBoxID lists the shipped draws of a listing with the buyer's
// username, newest first.
func (d *BlindBoxDAO) FindOrdersByBoxID(ctx context.Context, boxID uint) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Table("draws").
		Select("draws.id AS draw_id, users.username, draws.drawn_image, draws.quantity, draws.shipping_address, draws.created_at").
		Joins("JOIN users ON users.id = draws.user_id").
		Where("draws.blind_box_id = ? AND draws.shipping_address IS NOT NULL", boxID).
		Order("draws.created_at DESC").
		Scan(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

func drawFromPool(pool []string, quantity int, pick func(n int) int) []string {
	drawn := make([]string, quantity)
	for i := range drawn {
		drawn[i] = pool[pick(len(pool))]
	}

	return drawn
}

type drawTally struct {
	Image string
	Count int
}

// tallyDrawn groups a drawn sequence by image, keeping first-appearance order.
func tallyDrawn(drawn []string) []drawTally {
	counts := make(map[string]int, len(drawn))
	var order []string
	for _, image := range drawn {
		if counts[image] == 0 {
			order = append(order, image)
		}
		counts[image]++
	}

	tallies := make([]drawTally, len(order))
	for i, image := range order {
		tallies[i] = drawTally{Image: image, Count: counts[image]}
	}

	return tallies
}
