package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu2904/blindbox-api/internal/domain"
	"github.com/minhvu2904/blindbox-api/internal/repository"
)

type fakeCommentRepo struct {
	comments []domain.Comment
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	comment.ID = uint(len(f.comments) + 1)
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeCommentRepo) FindByBlindBoxID(ctx context.Context, boxID uint) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range f.comments {
		if c.BlindBoxID == boxID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestCommentService_AddComment(t *testing.T) {
	boxRepo := &fakeBlindBoxRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.BlindBox, error) {
			if id != 3 {
				return domain.BlindBox{}, repository.ErrBlindBoxNotFound
			}
			return domain.BlindBox{ID: 3}, nil
		},
	}

	t.Run("text comment", func(t *testing.T) {
		svc := NewCommentService(&fakeCommentRepo{}, boxRepo)

		created, err := svc.AddComment(context.Background(), domain.Comment{
			UserID:     7,
			BlindBoxID: 3,
			Content:    "love this series",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("image-only comment", func(t *testing.T) {
		svc := NewCommentService(&fakeCommentRepo{}, boxRepo)

		_, err := svc.AddComment(context.Background(), domain.Comment{
			UserID:     7,
			BlindBoxID: 3,
			Image:      "unboxing.png",
		})
		assert.NoError(t, err)
	})

	t.Run("empty comment", func(t *testing.T) {
		svc := NewCommentService(&fakeCommentRepo{}, boxRepo)

		_, err := svc.AddComment(context.Background(), domain.Comment{UserID: 7, BlindBoxID: 3})
		assert.ErrorIs(t, err, ErrEmptyComment)
	})

	t.Run("missing blind box", func(t *testing.T) {
		svc := NewCommentService(&fakeCommentRepo{}, boxRepo)

		_, err := svc.AddComment(context.Background(), domain.Comment{
			UserID:     7,
			BlindBoxID: 99,
			Content:    "hello",
		})
		assert.ErrorIs(t, err, ErrBlindBoxNotFound)
	})
}
