package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/api/handler"
	"github.com/qs3c/token_go_server/internal/api/middleware"
)

type Router struct {
	accountHandler      *handler.AccountHandler
	purchaseHandler     *handler.PurchaseHandler
	entitlementHandler  *handler.EntitlementHandler
	subscriptionHandler *handler.SubscriptionHandler
	payoutHandler       *handler.PayoutHandler
	cfg                 *config.Config
}

func NewRouter(
	accountHandler *handler.AccountHandler,
	purchaseHandler *handler.PurchaseHandler,
	entitlementHandler *handler.EntitlementHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	payoutHandler *handler.PayoutHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		accountHandler:      accountHandler,
		purchaseHandler:     purchaseHandler,
		entitlementHandler:  entitlementHandler,
		subscriptionHandler: subscriptionHandler,
		payoutHandler:       payoutHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 支付网关回调（令牌鉴权, 非用户会话）
		gateway := api.Group("/gateway")
		gateway.Use(middleware.GatewayAuth(r.cfg.Gateway.CallbackToken))
		{
			gateway.POST("/credit", r.accountHandler.Credit)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 账户
			authenticated.GET("/account/balance", r.accountHandler.Balance)

			// 购买
			purchases := authenticated.Group("/purchases")
			{
				purchases.POST("", r.purchaseHandler.Create)
				purchases.POST("/:id/refund", r.purchaseHandler.Refund)
			}

			// 访问权
			authenticated.GET("/contents/:id/access", r.entitlementHandler.Access)

			// 订阅
			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.GET("/:performer_id", r.subscriptionHandler.Status)
				subscriptions.POST("/:performer_id/cancel", r.subscriptionHandler.Cancel)
				subscriptions.POST("/:performer_id/reactivate", r.subscriptionHandler.Reactivate)
			}

			// 提现
			payouts := authenticated.Group("/payout-requests")
			{
				payouts.POST("", r.payoutHandler.Create)
				payouts.GET("", r.payoutHandler.List)
				payouts.GET("/balance", r.payoutHandler.Balance)
				payouts.DELETE("/:id", r.payoutHandler.Delete)
			}

			// 管理端审核
			admin := authenticated.Group("/admin")
			{
				admin.PUT("/payout-requests/:id/status", r.payoutHandler.UpdateStatus)
			}
		}
	}

	return engine
}
