package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/token_go_server/internal/api/middleware"
	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/pkg/response"
	"github.com/qs3c/token_go_server/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Balance 查询代币余额
// GET /api/v1/account/balance
func (h *AccountHandler) Balance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	balance, err := h.accountService.Balance(userID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, balance)
}

// Credit 支付网关充值回调
// POST /api/v1/gateway/credit
func (h *AccountHandler) Credit(c *gin.Context) {
	var req dto.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	balance, err := h.accountService.Credit(req.UserID, req.Amount, req.Reference)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, balance)
}
