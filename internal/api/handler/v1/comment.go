package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhvu2904/blindbox-api/internal/api/handler/v1/request"
	"github.com/minhvu2904/blindbox-api/internal/api/handler/v1/response"
	"github.com/minhvu2904/blindbox-api/internal/domain"
	"github.com/minhvu2904/blindbox-api/internal/service"
)

type CommentService interface {
	AddComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	GetComments(ctx context.Context, boxID uint) ([]domain.Comment, error)
}

type CommentHandler struct {
	svc  CommentService
	uSvc UserService
}

func NewCommentHandler(svc CommentService, uSvc UserService) *CommentHandler {
	return &CommentHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetComments godoc
// @Summary      List comments on a blind box
// @Tags         comments
// @Produce      json
// @Param        boxID  path      int  true  "blind box ID"
// @Success      200  {array}   domain.Comment
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/comments [get]
func (h *CommentHandler) HandleGetComments(ctx *gin.Context) {
	boxID, respErr := parseIDParam(ctx, "boxID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	comments, err := h.svc.GetComments(ctx.Request.Context(), boxID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetComments -> h.svc.GetComments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// HandleAddComment godoc
// @Summary      Comment on a blind box
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        boxID    path      int                        true  "blind box ID"
// @Param        request  body      request.AddCommentRequest  true  "request body"
// @Success      201  {object}  domain.Comment
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/comments [post]
// @Security BearerAuth
func (h *CommentHandler) HandleAddComment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	boxID, respErr := parseIDParam(ctx, "boxID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.AddComment(ctx.Request.Context(), domain.Comment{
		UserID:     user.ID,
		BlindBoxID: boxID,
		Content:    req.Content,
		Image:      req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlindBoxNotFound):
			response.RenderErr(ctx, response.ErrNotFound("blind box", "id", boxID))
		case errors.Is(err, service.ErrEmptyComment):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptyComment))
		default:
			err = fmt.Errorf("v1.HandleAddComment -> h.svc.AddComment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}
