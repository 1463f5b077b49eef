package listener

import (
	"context"

	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/service"
)

// SubscriptionListener 消费订阅类交易事件, 落地订阅周期
type SubscriptionListener struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionListener(subscriptionService *service.SubscriptionService) *SubscriptionListener {
	return &SubscriptionListener{subscriptionService: subscriptionService}
}

func (l *SubscriptionListener) Name() string {
	return "subscription"
}

func (l *SubscriptionListener) Handle(ctx context.Context, event *eventbus.TransactionEvent) error {
	if event.EventName != eventbus.EventCreated {
		return nil
	}
	if !event.Transaction.IsSubscription() {
		return nil
	}
	// HandleTransaction 自身幂等, 重复投递安全
	return l.subscriptionService.HandleTransaction(event.Transaction)
}
