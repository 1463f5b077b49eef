package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
)

var (
	idBase = time.Now().UnixNano() % 1_000_000_000
	seq    int64
)

func nextID() int64 {
	seq++
	return idBase + seq
}

// TestAccount 创建测试账户
func TestAccount(t *testing.T, db *gorm.DB, opts ...func(*model.Account)) *model.Account {
	t.Helper()

	account := &model.Account{
		UserID:       nextID(),
		Email:        fmt.Sprintf("buyer_%d@example.com", nextID()),
		TokenBalance: 1000,
	}

	for _, opt := range opts {
		opt(account)
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return account
}

// WithBalance 设置初始余额
func WithBalance(balance float64) func(*model.Account) {
	return func(a *model.Account) {
		a.TokenBalance = balance
	}
}

// WithUserID 设置用户 ID
func WithUserID(userID int64) func(*model.Account) {
	return func(a *model.Account) {
		a.UserID = userID
	}
}

// TestPerformer 创建测试表演者
func TestPerformer(t *testing.T, db *gorm.DB, opts ...func(*model.Performer)) *model.Performer {
	t.Helper()

	performer := &model.Performer{
		Username:                 fmt.Sprintf("performer_%d", nextID()),
		Email:                    fmt.Sprintf("performer_%d@example.com", nextID()),
		MonthlySubscriptionPrice: 10,
		YearlySubscriptionPrice:  100,
	}

	for _, opt := range opts {
		opt(performer)
	}

	if err := db.Create(performer).Error; err != nil {
		t.Fatalf("Failed to create test performer: %v", err)
	}

	return performer
}

// WithFreeDays 设置免费订阅时长
func WithFreeDays(days int) func(*model.Performer) {
	return func(p *model.Performer) {
		p.DurationFreeSubscriptionDays = days
	}
}

// WithSubscriptionPrices 设置订阅定价
func WithSubscriptionPrices(monthly, yearly float64) func(*model.Performer) {
	return func(p *model.Performer) {
		p.MonthlySubscriptionPrice = monthly
		p.YearlySubscriptionPrice = yearly
	}
}

// TestContent 创建测试内容
func TestContent(t *testing.T, db *gorm.DB, performerID int64, opts ...func(*model.Content)) *model.Content {
	t.Helper()

	content := &model.Content{
		PerformerID: performerID,
		Type:        model.ContentVideo,
		Name:        fmt.Sprintf("Test Content %d", nextID()),
		Price:       50,
		IsSale:      true,
	}

	for _, opt := range opts {
		opt(content)
	}

	if err := db.Create(content).Error; err != nil {
		t.Fatalf("Failed to create test content: %v", err)
	}

	return content
}

// WithContentType 设置内容类型
func WithContentType(contentType string) func(*model.Content) {
	return func(c *model.Content) {
		c.Type = contentType
	}
}

// WithPrice 设置价格
func WithPrice(price float64) func(*model.Content) {
	return func(c *model.Content) {
		c.Price = price
	}
}

// WithGated 设置订阅专享
func WithGated(gated bool) func(*model.Content) {
	return func(c *model.Content) {
		c.SubscriptionGated = gated
	}
}

// WithSale 设置是否单卖
func WithSale(sale bool) func(*model.Content) {
	return func(c *model.Content) {
		c.IsSale = sale
	}
}

// WithStock 设置实体商品库存
func WithStock(productType string, stock int) func(*model.Content) {
	return func(c *model.Content) {
		c.Type = model.ContentProduct
		c.ProductType = productType
		c.Stock = stock
	}
}

// WithDownloadURL 设置数字商品下载链接
func WithDownloadURL(url string) func(*model.Content) {
	return func(c *model.Content) {
		c.ProductType = model.ProductDigital
		c.DownloadURL = url
	}
}

// TestCoupon 创建测试优惠码
func TestCoupon(t *testing.T, db *gorm.DB, performerID int64, opts ...func(*model.Coupon)) *model.Coupon {
	t.Helper()

	coupon := &model.Coupon{
		Code:        fmt.Sprintf("CODE%d", nextID()),
		PerformerID: performerID,
		Discount:    0.10,
		ExpiredDate: time.Now().Add(30 * 24 * time.Hour),
		Active:      true,
	}

	for _, opt := range opts {
		opt(coupon)
	}

	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("Failed to create test coupon: %v", err)
	}

	return coupon
}

// WithDiscount 设置折扣率
func WithDiscount(discount float64) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.Discount = discount
	}
}

// WithExpiredDate 设置过期时间
func WithExpiredDate(expiredDate time.Time) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.ExpiredDate = expiredDate
	}
}

// WithMaxUses 设置最大使用次数
func WithMaxUses(maxUses int) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.MaxUses = maxUses
	}
}

// TestCommissionSetting 创建表演者级抽成覆盖
func TestCommissionSetting(t *testing.T, db *gorm.DB, performerID int64, opts ...func(*model.CommissionSetting)) *model.CommissionSetting {
	t.Helper()

	setting := &model.CommissionSetting{
		PerformerID: performerID,
	}

	for _, opt := range opts {
		opt(setting)
	}

	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("Failed to create test commission setting: %v", err)
	}

	return setting
}

// WithVideoRate 设置视频抽成覆盖
func WithVideoRate(rate float64) func(*model.CommissionSetting) {
	return func(s *model.CommissionSetting) {
		s.VideoRate = &rate
	}
}

// WithMonthlyRate 设置月订阅抽成覆盖
func WithMonthlyRate(rate float64) func(*model.CommissionSetting) {
	return func(s *model.CommissionSetting) {
		s.MonthlySubscriptionRate = &rate
	}
}

// TestTransaction 创建测试交易
func TestTransaction(t *testing.T, db *gorm.DB, buyerID, performerID int64, opts ...func(*model.Transaction)) *model.Transaction {
	t.Helper()

	tx := &model.Transaction{
		OrderNumber:   uuid.NewString(),
		BuyerID:       buyerID,
		PerformerID:   performerID,
		Type:          model.TypeVideo,
		OriginalPrice: 50,
		TotalPrice:    50,
		Status:        model.StatusSuccess,
	}

	for _, opt := range opts {
		opt(tx)
	}

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return tx
}

// WithType 设置交易类型
func WithType(txType string) func(*model.Transaction) {
	return func(tx *model.Transaction) {
		tx.Type = txType
	}
}

// WithTarget 设置交易目标
func WithTarget(targetID int64) func(*model.Transaction) {
	return func(tx *model.Transaction) {
		tx.TargetID = targetID
	}
}

// WithTotalPrice 设置成交价
func WithTotalPrice(price float64) func(*model.Transaction) {
	return func(tx *model.Transaction) {
		tx.OriginalPrice = price
		tx.TotalPrice = price
	}
}

// WithProducts 设置商品行
func WithProducts(products ...model.TransactionProduct) func(*model.Transaction) {
	return func(tx *model.Transaction) {
		tx.Products = products
	}
}

// TestEarning 创建测试分成记录
func TestEarning(t *testing.T, db *gorm.DB, transactionID, performerID, userID int64, opts ...func(*model.Earning)) *model.Earning {
	t.Helper()

	earning := &model.Earning{
		TransactionID:        transactionID,
		PerformerID:          performerID,
		UserID:               userID,
		Type:                 model.TypeVideo,
		GrossPrice:           50,
		SiteCommissionRate:   0.20,
		SiteCommissionAmount: 10,
		NetPrice:             40,
	}

	for _, opt := range opts {
		opt(earning)
	}

	if err := db.Create(earning).Error; err != nil {
		t.Fatalf("Failed to create test earning: %v", err)
	}

	return earning
}

// WithNet 设置分成金额
func WithNet(gross, commission, net float64) func(*model.Earning) {
	return func(e *model.Earning) {
		e.GrossPrice = gross
		e.SiteCommissionAmount = commission
		e.NetPrice = net
	}
}

// WithPaid 标记已结算
func WithPaid(paidAt time.Time) func(*model.Earning) {
	return func(e *model.Earning) {
		e.IsPaid = true
		e.PaidAt = &paidAt
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID, performerID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	sub := &model.Subscription{
		UserID:             userID,
		PerformerID:        performerID,
		SubscriptionType:   model.SubscriptionMonthly,
		Status:             model.SubscriptionActive,
		StartRecurringDate: now,
		NextRecurringDate:  now.Add(30 * 24 * time.Hour),
		ExpiredAt:          now.Add(30 * 24 * time.Hour),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithExpiredAt 设置到期时间
func WithExpiredAt(expiredAt time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.ExpiredAt = expiredAt
		s.NextRecurringDate = expiredAt
	}
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// TestPayoutRequest 创建测试提现申请
func TestPayoutRequest(t *testing.T, db *gorm.DB, performerID int64, opts ...func(*model.PayoutRequest)) *model.PayoutRequest {
	t.Helper()

	payout := &model.PayoutRequest{
		RequestCode:         uuid.NewString(),
		PerformerID:         performerID,
		RequestTokens:       100,
		TokenConversionRate: 0.05,
		Status:              model.PayoutPending,
	}

	for _, opt := range opts {
		opt(payout)
	}

	if err := db.Create(payout).Error; err != nil {
		t.Fatalf("Failed to create test payout request: %v", err)
	}

	return payout
}

// WithPayoutStatus 设置提现状态
func WithPayoutStatus(status string) func(*model.PayoutRequest) {
	return func(p *model.PayoutRequest) {
		p.Status = status
	}
}

// WithRequestTokens 设置申请代币数
func WithRequestTokens(tokens float64) func(*model.PayoutRequest) {
	return func(p *model.PayoutRequest) {
		p.RequestTokens = tokens
	}
}
