package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID uint `gorm:"primaryKey"`

	BlindBoxID uint   `gorm:"not null;index"`
	UserID     uint   `gorm:"not null"`
	Content    string `gorm:"not null"`
	Image      string

	CreatedAt time.Time
}

type CommentRow struct {
	ID         uint
	BlindBoxID uint
	UserID     uint
	Username   string
	Content    string
	Image      string
	CreatedAt  time.Time
}

type CommentDAO struct {
	db *gorm.DB
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{
		db: db,
	}
}

func (d *CommentDAO) Insert(ctx context.Context, comment Comment) (CommentRow, error) {
	result := d.db.WithContext(ctx).Create(&comment)
	if result.Error != nil {
		return CommentRow{}, result.Error
	}

	return d.findRowByID(ctx, comment.ID)
}

func (d *CommentDAO) FindByBlindBoxID(ctx context.Context, boxID uint) ([]CommentRow, error) {
	var rows []CommentRow

	result := d.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.blind_box_id, comments.user_id, users.username, comments.content, comments.image, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.blind_box_id = ?", boxID).
		Order("comments.created_at DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *CommentDAO) findRowByID(ctx context.Context, id uint) (CommentRow, error) {
	var row CommentRow

	result := d.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.blind_box_id, comments.user_id, users.username, comments.content, comments.image, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.id = ?", id).
		Scan(&row)
	if result.Error != nil {
		return CommentRow{}, result.Error
	}

	return row, nil
}
