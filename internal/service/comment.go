package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhvu2904/blindbox-api/internal/domain"
)

var (
	ErrEmptyComment = errors.New("comment needs text or an image")
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	FindByBlindBoxID(ctx context.Context, boxID uint) ([]domain.Comment, error)
}

type CommentService struct {
	repo    CommentRepository
	boxRepo BlindBoxRepository
}

func NewCommentService(repo CommentRepository, boxRepo BlindBoxRepository) *CommentService {
	return &CommentService{
		repo:    repo,
		boxRepo: boxRepo,
	}
}

func (s *CommentService) AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	if comment.Content == "" && comment.Image == "" {
		return domain.Comment{}, ErrEmptyComment
	}

	if _, err := s.boxRepo.FindByID(ctx, comment.BlindBoxID); err != nil {
		return domain.Comment{}, fmt.Errorf("s.boxRepo.FindByID -> %w", err)
	}

	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CommentService) GetComments(ctx context.Context, boxID uint) ([]domain.Comment, error) {
	comments, err := s.repo.FindByBlindBoxID(ctx, boxID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByBlindBoxID -> %w", err)
	}

	return comments, nil
}
