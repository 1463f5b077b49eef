package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/token_go_server/internal/api/middleware"
	"github.com/qs3c/token_go_server/internal/pkg/response"
	"github.com/qs3c/token_go_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Status 查询对某表演者的订阅状态
// GET /api/v1/subscriptions/:performer_id
func (h *SubscriptionHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	performerID, err := strconv.ParseInt(c.Param("performer_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的表演者ID")
		return
	}

	status, err := h.subscriptionService.Status(userID, performerID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, status)
}

// Cancel 取消订阅（保留已付周期, 停止续期）
// POST /api/v1/subscriptions/:performer_id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	performerID, err := strconv.ParseInt(c.Param("performer_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的表演者ID")
		return
	}

	if err := h.subscriptionService.Cancel(userID, performerID); err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, nil)
}

// Reactivate 重新激活已取消的订阅
// POST /api/v1/subscriptions/:performer_id/reactivate
func (h *SubscriptionHandler) Reactivate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	performerID, err := strconv.ParseInt(c.Param("performer_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的表演者ID")
		return
	}

	sub, err := h.subscriptionService.Reactivate(userID, performerID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, sub)
}
