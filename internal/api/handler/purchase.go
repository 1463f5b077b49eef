package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/token_go_server/internal/api/middleware"
	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/pkg/response"
	"github.com/qs3c/token_go_server/internal/service"
)

type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Create 发起购买
// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	tx, err := h.purchaseService.Purchase(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientFunds):
			response.Error(c, response.CodeInsufficientFunds, err.Error())
		case errors.Is(err, service.ErrDuplicatePurchase):
			response.Error(c, response.CodeDuplicatePurchase, err.Error())
		case errors.Is(err, service.ErrOutOfStock):
			response.Error(c, response.CodeOutOfStock, err.Error())
		case errors.Is(err, service.ErrInvalidCoupon):
			response.Error(c, response.CodeInvalidCoupon, err.Error())
		case errors.Is(err, service.ErrPriceMismatch):
			response.Error(c, response.CodePriceMismatch, err.Error())
		case errors.Is(err, service.ErrInvalidPurchaseType):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrContentNotFound),
			errors.Is(err, service.ErrPerformerNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, toPurchaseResponse(tx))
}

// Refund 退款
// POST /api/v1/purchases/:id/refund
func (h *PurchaseHandler) Refund(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); !ok {
		response.AuthError(c, "")
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的交易ID")
		return
	}

	tx, err := h.purchaseService.Refund(c.Request.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotRefundable):
			response.Error(c, response.CodeInvalidStatus, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, toPurchaseResponse(tx))
}

func toPurchaseResponse(tx *model.Transaction) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		TransactionID: tx.ID,
		OrderNumber:   tx.OrderNumber,
		OriginalPrice: tx.OriginalPrice,
		TotalPrice:    tx.TotalPrice,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
	}
}
