package listener

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/repository"
)

const stockDedupKey = "listener:stock:done:%d" // transactionID

// StockListener 实体商品售出后异步扣减库存。
// 购买编排在扣款前已做过库存预检，这里复检覆盖预检与结算之间的竞态；
// 复检发现不一致属于要记日志排查的 bug，不做静默修正。
type StockListener struct {
	catalogRepo *repository.CatalogRepository
	redis       *redis.Client
}

func NewStockListener(catalogRepo *repository.CatalogRepository, rdb *redis.Client) *StockListener {
	return &StockListener{
		catalogRepo: catalogRepo,
		redis:       rdb,
	}
}

func (l *StockListener) Name() string {
	return "stock"
}

func (l *StockListener) Handle(ctx context.Context, event *eventbus.TransactionEvent) error {
	tx := event.Transaction
	if event.EventName != eventbus.EventCreated || tx.Type != model.TypeProduct {
		return nil
	}

	// 重复投递去重：同一交易只扣一次库存
	key := fmt.Sprintf(stockDedupKey, tx.ID)
	fresh, err := l.redis.SetNX(ctx, key, 1, 7*24*time.Hour).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	quantity := 0
	for _, item := range tx.Products {
		if item.ProductType == model.ProductPhysical {
			quantity += item.Quantity
		}
	}
	if quantity == 0 {
		return nil
	}

	ok, err := l.catalogRepo.DecrementStock(tx.TargetID, quantity)
	if err != nil {
		// 扣减未执行，释放去重标记等待重投
		l.redis.Del(ctx, key)
		return err
	}
	if !ok {
		log.Printf("stock: BUG - transaction %d sold %d units of content %d beyond stock",
			tx.ID, quantity, tx.TargetID)
	}
	return nil
}
