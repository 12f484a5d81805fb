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

type BlindBoxService interface {
	CreateBlindBox(ctx context.Context, box domain.BlindBox) (domain.BlindBox, error)
	GetBlindBox(ctx context.Context, boxID uint) (domain.BlindBox, error)
	GetAllBlindBoxes(ctx context.Context) ([]domain.BlindBox, error)
	GetMerchantBlindBoxes(ctx context.Context, merchantID uint) ([]domain.BlindBox, error)
	Purchase(ctx context.Context, userID, boxID uint, quantity int) (domain.PurchaseResult, error)
	Draw(ctx context.Context, userID, boxID uint, quantity int) ([]string, error)
	Ship(ctx context.Context, userID, drawID uint, address string) error
	Delist(ctx context.Context, boxID uint, quantity int) (domain.DelistResult, error)
	Relist(ctx context.Context, boxID uint, quantity int) error
	GetOwnedQuantity(ctx context.Context, userID, boxID uint) (int, error)
	GetOwnedBoxes(ctx context.Context, userID uint) ([]domain.OwnedBox, error)
	GetUserDraws(ctx context.Context, userID uint) ([]domain.Draw, error)
	GetBoxOrders(ctx context.Context, boxID uint) ([]domain.Order, error)
}

type BlindBoxHandler struct {
	svc  BlindBoxService
	uSvc UserService
}

func NewBlindBoxHandler(svc BlindBoxService, uSvc UserService) *BlindBoxHandler {
	return &BlindBoxHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetBlindBoxes godoc
// @Summary      List all blind boxes
// @Description  Catalog view, newest listing first
// @Tags         blind-boxes
// @Produce      json
// @Success      200  {array}   domain.BlindBox
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes [get]
func (h *BlindBoxHandler) HandleGetBlindBoxes(ctx *gin.Context) {
	boxes, err := h.svc.GetAllBlindBoxes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBlindBoxes -> h.svc.GetAllBlindBoxes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, boxes)
}

// HandleGetMerchantBlindBoxes godoc
// @Summary      List a merchant's blind boxes
// @Tags         blind-boxes
// @Produce      json
// @Param        merchantID  path      int  true  "merchant ID"
// @Success      200  {array}   domain.BlindBox
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/merchant/{merchantID} [get]
func (h *BlindBoxHandler) HandleGetMerchantBlindBoxes(ctx *gin.Context) {
	merchantID, respErr := parseIDParam(ctx, "merchantID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	boxes, err := h.svc.GetMerchantBlindBoxes(ctx.Request.Context(), merchantID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMerchantBlindBoxes -> h.svc.GetMerchantBlindBoxes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, boxes)
}

// HandleGetBlindBox godoc
// @Summary      Get one blind box
// @Tags         blind-boxes
// @Produce      json
// @Param        boxID  path      int  true  "blind box ID"
// @Success      200  {object}  domain.BlindBox
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID} [get]
func (h *BlindBoxHandler) HandleGetBlindBox(ctx *gin.Context) {
	boxID, respErr := parseIDParam(ctx, "boxID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	box, err := h.svc.GetBlindBox(ctx.Request.Context(), boxID)
	if err != nil {
		if errors.Is(err, service.ErrBlindBoxNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("blind box", "id", boxID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBlindBox -> h.svc.GetBlindBox -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, box)
}

// HandleCreateBlindBox godoc
// @Summary      Create a blind box listing
// @Description  Merchants only. Image fields are opaque references supplied by the upload service.
// @Tags         blind-boxes
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateBlindBoxRequest  true  "request body"
// @Success      201  {object}  response.CreateBlindBoxResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes [post]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleCreateBlindBox(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsMerchant {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not a merchant", user.ID)))
		return
	}

	var req request.CreateBlindBoxRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateBlindBox(ctx.Request.Context(), domain.BlindBox{
		MerchantID:    user.ID,
		Name:          req.Name,
		CoverImage:    req.CoverImage,
		ContentImages: req.ContentImages,
		Price:         req.Price,
		TotalStock:    req.TotalStock,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidBlindBox) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidBlindBox))
			return
		}

		err = fmt.Errorf("v1.HandleCreateBlindBox -> h.svc.CreateBlindBox -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.CreateBlindBoxResponse{
		Message: "created",
		ID:      created.ID,
	})
}

// HandlePurchase godoc
// @Summary      Buy units of a blind box
// @Tags         blind-boxes
// @Accept       json
// @Produce      json
// @Param        boxID    path      int                      true  "blind box ID"
// @Param        request  body      request.PurchaseRequest  true  "request body"
// @Success      200  {object}  response.PurchaseResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/purchase [post]
// @Security BearerAuth
func (h *BlindBoxHandler) HandlePurchase(ctx *gin.Context) {
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

	var req request.PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.Purchase(ctx.Request.Context(), user.ID, boxID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlindBoxNotFound):
			response.RenderErr(ctx, response.ErrNotFound("blind box", "id", boxID))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInsufficientStock))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
		default:
			err = fmt.Errorf("v1.HandlePurchase -> h.svc.Purchase -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.PurchaseResponse{
		Message:    "purchase successful",
		Quantity:   res.Quantity,
		TotalPrice: res.TotalPrice,
	})
}

// HandleDraw godoc
// @Summary      Draw rewards from owned units
// @Description  Opens quantity owned units; each unit independently draws one image from the content pool. Mounted as both /draw and /draw-batch.
// @Tags         blind-boxes
// @Accept       json
// @Produce      json
// @Param        boxID    path      int                  true  "blind box ID"
// @Param        request  body      request.DrawRequest  true  "request body"
// @Success      200  {object}  response.DrawResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/draw [post]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleDraw(ctx *gin.Context) {
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

	var req request.DrawRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	drawn, err := h.svc.Draw(ctx.Request.Context(), user.ID, boxID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlindBoxNotFound):
			response.RenderErr(ctx, response.ErrNotFound("blind box", "id", boxID))
		case errors.Is(err, service.ErrInsufficientOwnedBoxes):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInsufficientOwnedBoxes))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
		default:
			err = fmt.Errorf("v1.HandleDraw -> h.svc.Draw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.DrawResponse{
		Message:     "draw successful",
		DrawnImages: drawn,
	})
}

// HandleShip godoc
// @Summary      Ship one drawn unit to an address
// @Description  Splits exactly one unit off an unshipped draw record per call.
// @Tags         blind-boxes
// @Accept       json
// @Produce      json
// @Param        drawID   path      int                  true  "draw record ID"
// @Param        request  body      request.ShipRequest  true  "request body"
// @Success      200  {object}  response.ShipResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/draws/{drawID}/ship [post]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleShip(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	drawID, respErr := parseIDParam(ctx, "drawID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ShipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.Ship(ctx.Request.Context(), user.ID, drawID, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDrawNotFound):
			response.RenderErr(ctx, response.ErrNotFound("draw record", "id", drawID))
		case errors.Is(err, service.ErrEmptyShippingAddress):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptyShippingAddress))
		default:
			err = fmt.Errorf("v1.HandleShip -> h.svc.Ship -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.ShipResponse{Message: "shipment created"})
}

// HandleDelist godoc
// @Summary      Remove unsold stock from a listing
// @Description  Deletes the listing when total stock reaches zero. Merchants only, own listings only.
// @Tags         blind-boxes
// @Accept       json
// @Produce      json
// @Param        boxID    path      int                    true  "blind box ID"
// @Param        request  body      request.DelistRequest  true  "request body"
// @Success      200  {object}  response.DelistResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/delist [post]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleDelist(ctx *gin.Context) {
	_, boxID, respErr := h.requireOwnListing(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DelistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.Delist(ctx.Request.Context(), boxID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlindBoxNotFound):
			response.RenderErr(ctx, response.ErrNotFound("blind box", "id", boxID))
		case errors.Is(err, service.ErrExceedsAvailableStock):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrExceedsAvailableStock))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
		default:
			err = fmt.Errorf("v1.HandleDelist -> h.svc.Delist -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	msg := "delisted"
	if res.Deleted {
		msg = "listing deleted"
	}

	ctx.JSON(http.StatusOK, response.DelistResponse{
		Message: msg,
		Deleted: res.Deleted,
	})
}

// HandleRelist godoc
// @Summary      Add stock back to a listing
// @Tags         blind-boxes
// @Accept       json
// @Produce      json
// @Param        boxID    path      int                    true  "blind box ID"
// @Param        request  body      request.RelistRequest  true  "request body"
// @Success      200  {object}  response.RelistResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/relist [post]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleRelist(ctx *gin.Context) {
	_, boxID, respErr := h.requireOwnListing(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RelistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.Relist(ctx.Request.Context(), boxID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlindBoxNotFound):
			response.RenderErr(ctx, response.ErrNotFound("blind box", "id", boxID))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQuantity))
		default:
			err = fmt.Errorf("v1.HandleRelist -> h.svc.Relist -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.RelistResponse{Message: "relisted"})
}

// HandleGetOrders godoc
// @Summary      List shipped orders of a listing
// @Description  Merchants only, own listings only.
// @Tags         blind-boxes
// @Produce      json
// @Param        boxID  path      int  true  "blind box ID"
// @Success      200  {array}   domain.Order
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/orders [get]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleGetOrders(ctx *gin.Context) {
	_, boxID, respErr := h.requireOwnListing(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orders, err := h.svc.GetBoxOrders(ctx.Request.Context(), boxID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOrders -> h.svc.GetBoxOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleGetOwnedQuantity godoc
// @Summary      Count the caller's undrawn units of a blind box
// @Tags         blind-boxes
// @Produce      json
// @Param        boxID  path      int  true  "blind box ID"
// @Success      200  {object}  response.OwnedQuantityResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blind-boxes/{boxID}/owned [get]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleGetOwnedQuantity(ctx *gin.Context) {
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

	quantity, err := h.svc.GetOwnedQuantity(ctx.Request.Context(), user.ID, boxID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOwnedQuantity -> h.svc.GetOwnedQuantity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OwnedQuantityResponse{Quantity: quantity})
}

// HandleGetOwnedBoxes godoc
// @Summary      List the caller's owned (undrawn) boxes
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.OwnedBox
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me/boxes [get]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleGetOwnedBoxes(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	owned, err := h.svc.GetOwnedBoxes(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOwnedBoxes -> h.svc.GetOwnedBoxes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, owned)
}

// HandleGetUserDraws godoc
// @Summary      List the caller's draw records
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.Draw
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me/draws [get]
// @Security BearerAuth
func (h *BlindBoxHandler) HandleGetUserDraws(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	draws, err := h.svc.GetUserDraws(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUserDraws -> h.svc.GetUserDraws -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, draws)
}

// requireOwnListing resolves the caller and the boxID param, requiring the
// caller to be the listing's merchant.
func (h *BlindBoxHandler) requireOwnListing(ctx *gin.Context) (domain.User, uint, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.User{}, 0, respErr
	}

	boxID, respErr := parseIDParam(ctx, "boxID")
	if respErr != nil {
		return domain.User{}, 0, respErr
	}

	box, err := h.svc.GetBlindBox(ctx.Request.Context(), boxID)
	if err != nil {
		if errors.Is(err, service.ErrBlindBoxNotFound) {
			return domain.User{}, 0, response.ErrNotFound("blind box", "id", boxID)
		}

		err = fmt.Errorf("v1.requireOwnListing -> h.svc.GetBlindBox -> %w", err)
		return domain.User{}, 0, response.ErrInternalServerError(err)
	}

	if !user.IsMerchant || box.MerchantID != user.ID {
		return domain.User{}, 0, response.ErrPermissionDenied(
			fmt.Errorf("user %v does not own blind box %v", user.ID, boxID))
	}

	return user, boxID, nil
}
