package listener

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/repository"
)

const statsDedupKey = "listener:stats:done:%d" // transactionID

// StatsListener 维护表演者维度的成交统计
type StatsListener struct {
	statRepo    *repository.StatRepository
	earningRepo *repository.EarningRepository
	redis       *redis.Client
}

func NewStatsListener(statRepo *repository.StatRepository, earningRepo *repository.EarningRepository, rdb *redis.Client) *StatsListener {
	return &StatsListener{
		statRepo:    statRepo,
		earningRepo: earningRepo,
		redis:       rdb,
	}
}

func (l *StatsListener) Name() string {
	return "stats"
}

func (l *StatsListener) Handle(ctx context.Context, event *eventbus.TransactionEvent) error {
	if event.EventName != eventbus.EventCreated {
		return nil
	}
	tx := event.Transaction

	key := fmt.Sprintf(statsDedupKey, tx.ID)
	fresh, err := l.redis.SetNX(ctx, key, 1, 7*24*time.Hour).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	// 查不到分成行时不能拿总价顶替净额，释放幂等键等重投
	earning, err := l.earningRepo.GetByTransactionID(tx.ID)
	if err != nil {
		l.redis.Del(ctx, key)
		return fmt.Errorf("stats: earning for transaction %d: %w", tx.ID, err)
	}

	if err := l.statRepo.AddSale(tx.PerformerID, tx.TotalPrice, earning.NetPrice); err != nil {
		l.redis.Del(ctx, key)
		return err
	}
	return nil
}
