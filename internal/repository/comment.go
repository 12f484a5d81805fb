package repository

import (
	"context"
	"fmt"

	"github.com/minhvu2904/blindbox-api/internal/domain"
	"github.com/minhvu2904/blindbox-api/internal/repository/dao"
)

type CommentDAO interface {
	Insert(ctx context.Context, comment dao.Comment) (dao.CommentRow, error)
	FindByBlindBoxID(ctx context.Context, boxID uint) ([]dao.CommentRow, error)
}

type CommentRepository struct {
	dao CommentDAO
}

func NewCommentRepository(dao CommentDAO) *CommentRepository {
	return &CommentRepository{
		dao: dao,
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	created, err := r.dao.Insert(ctx, dao.Comment{
		BlindBoxID: comment.BlindBoxID,
		UserID:     comment.UserID,
		Content:    comment.Content,
		Image:      comment.Image,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.rowToDomain(created), nil
}

func (r *CommentRepository) FindByBlindBoxID(ctx context.Context, boxID uint) ([]domain.Comment, error) {
	rows, err := r.dao.FindByBlindBoxID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByBlindBoxID -> %w", err)
	}

	comments := make([]domain.Comment, len(rows))
	for i, row := range rows {
		comments[i] = r.rowToDomain(row)
	}

	return comments, nil
}

func (r *CommentRepository) rowToDomain(row dao.CommentRow) domain.Comment {
	return domain.Comment{
		ID:         row.ID,
		BlindBoxID: row.BlindBoxID,
		UserID:     row.UserID,
		Username:   row.Username,
		Content:    row.Content,
		Image:      row.Image,
		CreatedAt:  row.CreatedAt,
	}
}
