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

type EntitlementHandler struct {
	entitlementService *service.EntitlementService
}

func NewEntitlementHandler(entitlementService *service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
	}
}

// Access 查询对内容的访问权
// GET /api/v1/contents/:id/access
func (h *EntitlementHandler) Access(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	contentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的内容ID")
		return
	}

	canAccess, err := h.entitlementService.CanAccess(userID, contentID)
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, &dto.AccessResponse{
		ContentID: contentID,
		CanAccess: canAccess,
	})
}
