package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/token_go_server/internal/model"
)

// 事件名
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// TransactionEvent 交易事件载荷，携带完整交易
type TransactionEvent struct {
	EventName   string             `json:"event_name"`
	Transaction *model.Transaction `json:"transaction"`
}

// Publisher Redis 队列发布者。每个 topic 是一个 Redis 列表，
// 投递语义为 at-least-once，消费方必须幂等。
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 推入事件
func (p *Publisher) Publish(ctx context.Context, topic string, event *TransactionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.LPush(ctx, topic, data).Err()
}

// Subscriber Redis 队列订阅者
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Pop 阻塞式取出一条事件，超时返回 (nil, nil)
func (s *Subscriber) Pop(ctx context.Context, topic string, timeout time.Duration) (*TransactionEvent, error) {
	result, err := s.client.BRPop(ctx, timeout, topic).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无事件
		}
		return nil, fmt.Errorf("failed to pop from topic %s: %w", topic, err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var event TransactionEvent
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		// 坏消息跳过，不阻塞主题
		log.Printf("eventbus: dropped malformed payload on %s: %v", topic, err)
		return nil, nil
	}

	return &event, nil
}

// Subscribe 循环消费：handler 返回错误时把事件重新入队等待重投
func (s *Subscriber) Subscribe(ctx context.Context, topic string, handler func(*TransactionEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := s.Pop(ctx, topic, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("eventbus: pop failed on %s: %v", topic, err)
			continue
		}
		if event == nil {
			continue
		}

		if err := handler(event); err != nil {
			log.Printf("eventbus: handler failed on %s, requeueing: %v", topic, err)
			s.requeue(ctx, topic, event)
			time.Sleep(time.Second)
		}
	}
}

// Length 主题积压长度
func (s *Subscriber) Length(ctx context.Context, topic string) (int64, error) {
	return s.client.LLen(ctx, topic).Result()
}

func (s *Subscriber) requeue(ctx context.Context, topic string, event *TransactionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.client.RPush(ctx, topic, data).Err(); err != nil {
		log.Printf("eventbus: requeue failed on %s: %v", topic, err)
	}
}
