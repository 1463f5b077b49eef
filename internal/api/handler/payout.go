package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/token_go_server/internal/api/middleware"
	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/pkg/response"
	"github.com/qs3c/token_go_server/internal/service"
)

type PayoutHandler struct {
	payoutService *service.PayoutService
}

func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// Create 表演者发起提现申请
// POST /api/v1/payout-requests
func (h *PayoutHandler) Create(c *gin.Context) {
	performerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PayoutCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payout, err := h.payoutService.RequestPayout(performerID, req.RequestTokens, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExceedsBalance):
			response.Error(c, response.CodeExceedsBalance, err.Error())
		case errors.Is(err, service.ErrBelowMinimum):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, payout)
}

// List 表演者提现记录
// GET /api/v1/payout-requests
func (h *PayoutHandler) List(c *gin.Context) {
	performerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.payoutService.List(performerID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Delete 撤回待审核的提现申请
// DELETE /api/v1/payout-requests/:id
func (h *PayoutHandler) Delete(c *gin.Context) {
	performerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	payoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请ID")
		return
	}

	if err := h.payoutService.Delete(performerID, payoutID); err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidStatusChange):
			response.Error(c, response.CodeInvalidStatus, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, nil)
}

// Balance 可提现余额
// GET /api/v1/payout-requests/balance
func (h *PayoutHandler) Balance(c *gin.Context) {
	performerID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	balance, err := h.payoutService.Balance(performerID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, balance)
}

// UpdateStatus 管理员审核提现申请
// PUT /api/v1/admin/payout-requests/:id/status
func (h *PayoutHandler) UpdateStatus(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); !ok {
		response.AuthError(c, "")
		return
	}

	payoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请ID")
		return
	}

	var req dto.PayoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payout, err := h.payoutService.AdminUpdateStatus(payoutID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidStatusChange):
			response.Error(c, response.CodeInvalidStatus, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, payout)
}
