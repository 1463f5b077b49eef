package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/repository"
)

var (
	ErrInsufficientFunds   = errors.New("余额不足")
	ErrDuplicatePurchase   = errors.New("该内容已购买")
	ErrOutOfStock          = errors.New("商品库存不足")
	ErrInvalidCoupon       = errors.New("优惠码无效或已过期")
	ErrInvalidPurchaseType = errors.New("不支持的购买类型")
	ErrContentNotFound     = errors.New("内容不存在")
	ErrPriceMismatch       = errors.New("申报价格与目录定价不符")
	ErrPerformerNotFound   = errors.New("表演者不存在")
	ErrTransactionNotFound = errors.New("交易不存在")
	ErrNotRefundable       = errors.New("交易不可退款")
	// 扣款成功但交易落库失败，引擎已自动冲正退回代币
	ErrInconsistentState = errors.New("交易落库失败，代币已退回")
)

// PurchaseService 购买编排：校验 → 扣款 → 交易落库 → 分成 → 发布事件。
// 扣款是唯一的串行化点（账户行上的条件更新），其余写入都以幂等键兜底。
type PurchaseService struct {
	db             *gorm.DB
	accountRepo    *repository.AccountRepository
	txRepo         *repository.TransactionRepository
	catalogRepo    *repository.CatalogRepository
	couponRepo     *repository.CouponRepository
	earningService *EarningService
	publisher      *eventbus.Publisher
	cfg            *config.Config
}

func NewPurchaseService(
	db *gorm.DB,
	accountRepo *repository.AccountRepository,
	txRepo *repository.TransactionRepository,
	catalogRepo *repository.CatalogRepository,
	couponRepo *repository.CouponRepository,
	earningService *EarningService,
	publisher *eventbus.Publisher,
	cfg *config.Config,
) *PurchaseService {
	return &PurchaseService{
		db:             db,
		accountRepo:    accountRepo,
		txRepo:         txRepo,
		catalogRepo:    catalogRepo,
		couponRepo:     couponRepo,
		earningService: earningService,
		publisher:      publisher,
		cfg:            cfg,
	}
}

// Purchase 处理一次购买请求，成功返回已落库的交易
func (s *PurchaseService) Purchase(ctx context.Context, buyerID int64, req *dto.PurchaseRequest) (*model.Transaction, error) {
	if !validPurchaseType(req.Type) {
		return nil, ErrInvalidPurchaseType
	}

	originalPrice := sumLineItems(req.Products)

	if err := s.validateTarget(req, originalPrice); err != nil {
		return nil, err
	}

	// 优惠码校验：失败直接拒绝购买，而不是静默按原价成交
	discount := 0.0
	couponCode := ""
	if req.CouponCode != "" && couponApplies(req.Type) {
		coupon, err := s.couponRepo.GetByCode(req.CouponCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCoupon
			}
			return nil, err
		}
		if !coupon.Usable(nowFunc()) || coupon.PerformerID != req.PerformerID {
			return nil, ErrInvalidCoupon
		}
		discount = coupon.Discount
		couponCode = coupon.Code
	}

	totalPrice := applyDiscount(originalPrice, discount)

	// 重复购买校验：一次性内容不允许二次购买；打赏永不去重，订阅走续费
	if !isTipType(req.Type) && !isSubscriptionType(req.Type) {
		exists, err := s.txRepo.ExistsSuccessfulPurchase(buyerID, req.TargetID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicatePurchase
		}
	}

	transaction := &model.Transaction{
		OrderNumber:    uuid.New().String(),
		BuyerID:        buyerID,
		PerformerID:    req.PerformerID,
		Type:           req.Type,
		TargetID:       req.TargetID,
		OriginalPrice:  originalPrice,
		CouponCode:     couponCode,
		CouponDiscount: discount,
		TotalPrice:     totalPrice,
		Status:         model.StatusSuccess,
	}
	for _, item := range req.Products {
		transaction.Products = append(transaction.Products, model.TransactionProduct{
			Name:        item.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			ProductType: item.ProductType,
		})
	}

	// 扣款：单条条件更新，余额不足时无任何副作用
	if totalPrice > 0 {
		ok, err := s.accountRepo.Debit(buyerID, totalPrice)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInsufficientFunds
		}
	}

	// 交易与分成在同一数据库事务内落库
	err := s.db.Transaction(func(txDB *gorm.DB) error {
		if err := repository.NewTransactionRepository(txDB).Create(transaction); err != nil {
			return err
		}
		if _, err := s.earningService.RecordTx(txDB, transaction); err != nil {
			return err
		}
		if couponCode != "" {
			ok, err := repository.NewCouponRepository(txDB).IncrementUsed(couponCode)
			if err != nil {
				return err
			}
			if !ok {
				// 校验和成交之间优惠码被用尽
				return ErrInvalidCoupon
			}
		}
		return nil
	})
	if err != nil {
		// 扣款已生效但交易未落库：自动冲正，引擎不允许留下无交易的扣款
		if totalPrice > 0 {
			if creditErr := s.accountRepo.Credit(buyerID, totalPrice); creditErr != nil {
				log.Printf("purchase: reversal credit failed for user %d amount %.2f: %v", buyerID, totalPrice, creditErr)
			}
		}
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Join(ErrInconsistentState, err)
	}

	// 发布事件：相对调用方是 fire-and-forget，失败只记日志
	if err := s.publisher.Publish(ctx, s.cfg.Bus.TransactionTopic, &eventbus.TransactionEvent{
		EventName:   eventbus.EventCreated,
		Transaction: transaction,
	}); err != nil {
		log.Printf("purchase: failed to publish event for transaction %d: %v", transaction.ID, err)
	}

	return transaction, nil
}

// Refund 结清交易不可回滚，退款是独立的 refunded 状态迁移加反向入账
func (s *PurchaseService) Refund(ctx context.Context, transactionID int64) (*model.Transaction, error) {
	transaction, err := s.txRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	ok, err := s.txRepo.MarkRefunded(transactionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotRefundable
	}
	transaction.Status = model.StatusRefunded

	if transaction.TotalPrice > 0 {
		if err := s.accountRepo.Credit(transaction.BuyerID, transaction.TotalPrice); err != nil {
			log.Printf("refund: credit failed for transaction %d: %v", transactionID, err)
			return nil, err
		}
	}

	if err := s.publisher.Publish(ctx, s.cfg.Bus.TransactionTopic, &eventbus.TransactionEvent{
		EventName:   eventbus.EventDeleted,
		Transaction: transaction,
	}); err != nil {
		log.Printf("refund: failed to publish event for transaction %d: %v", transactionID, err)
	}

	return transaction, nil
}

// validateTarget 按购买类型做差异化校验：商品查库存，点播内容查 is_sale，订阅查表演者。
// 申报价以目录定价为准：成交价永远不信客户端报价，打赏金额由打赏者自定。
func (s *PurchaseService) validateTarget(req *dto.PurchaseRequest, declaredPrice float64) error {
	if isSubscriptionType(req.Type) || isTipType(req.Type) {
		performer, err := s.catalogRepo.GetPerformer(req.PerformerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPerformerNotFound
			}
			return err
		}
		if isTipType(req.Type) {
			return nil
		}
		return checkCatalogPrice(declaredPrice, subscriptionPrice(performer, req.Type))
	}

	content, err := s.catalogRepo.GetContent(req.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	if !content.IsSale {
		return ErrContentNotFound
	}

	expected := decimal.NewFromFloat(content.Price)
	if req.Type == model.TypeProduct {
		quantity := 0
		for _, item := range req.Products {
			quantity += item.Quantity
		}
		if content.ProductType == model.ProductPhysical && quantity > content.Stock {
			return ErrOutOfStock
		}
		expected = expected.Mul(decimal.NewFromInt(int64(quantity)))
	}

	price, _ := expected.Round(2).Float64()
	return checkCatalogPrice(declaredPrice, price)
}

func subscriptionPrice(performer *model.Performer, purchaseType string) float64 {
	switch purchaseType {
	case model.TypeMonthlySubscription:
		return performer.MonthlySubscriptionPrice
	case model.TypeYearlySubscription:
		return performer.YearlySubscriptionPrice
	}
	// 免费订阅只能以 0 价成交
	return 0
}

func checkCatalogPrice(declared, expected float64) error {
	if !decimal.NewFromFloat(declared).Equal(decimal.NewFromFloat(expected)) {
		return ErrPriceMismatch
	}
	return nil
}

func validPurchaseType(t string) bool {
	switch t {
	case model.TypeMonthlySubscription, model.TypeYearlySubscription, model.TypeFreeSubscription,
		model.TypeVideo, model.TypeGallery, model.TypeProduct, model.TypeFeed,
		model.TypeTip, model.TypeStream, model.TypeStreamTip:
		return true
	}
	return false
}

func isSubscriptionType(t string) bool {
	switch t {
	case model.TypeMonthlySubscription, model.TypeYearlySubscription, model.TypeFreeSubscription:
		return true
	}
	return false
}

func isTipType(t string) bool {
	return t == model.TypeTip || t == model.TypeStreamTip
}

// couponApplies 打赏和免费订阅不参与折扣
func couponApplies(t string) bool {
	return !isTipType(t) && t != model.TypeFreeSubscription
}

func sumLineItems(items []dto.LineItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	result, _ := total.Round(2).Float64()
	return result
}

func applyDiscount(originalPrice, discount float64) float64 {
	if discount <= 0 {
		return originalPrice
	}
	total := decimal.NewFromFloat(originalPrice).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount))).
		Round(2)
	result, _ := total.Float64()
	return result
}
