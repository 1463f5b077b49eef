package listener

import (
	"context"
	"errors"

	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
)

// Listener 交易事件消费方。投递语义是 at-least-once，实现必须幂等。
type Listener interface {
	Name() string
	Handle(ctx context.Context, event *eventbus.TransactionEvent) error
}

// Dispatcher 把一条交易事件分发给全部监听器。
// 单个监听器失败只影响重投，不影响已结清的交易。
type Dispatcher struct {
	listeners []Listener
}

func NewDispatcher(listeners ...Listener) *Dispatcher {
	return &Dispatcher{listeners: listeners}
}

// Handle 任一监听器失败则返回错误触发整条事件重投，
// 其余监听器靠自身幂等性吸收重复调用
func (d *Dispatcher) Handle(ctx context.Context, event *eventbus.TransactionEvent) error {
	var errs []error
	for _, l := range d.listeners {
		if err := l.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
