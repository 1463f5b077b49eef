package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/repository"
	"github.com/qs3c/token_go_server/internal/testutil"
)

func setupSubscriptionService(t *testing.T) (*SubscriptionService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	svc := NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewAccountRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewStatRepository(db),
		testConfig(),
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return svc, db, cleanup
}

func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func monthlyTx(id, buyerID, performerID int64) *model.Transaction {
	return &model.Transaction{
		ID:          id,
		BuyerID:     buyerID,
		PerformerID: performerID,
		Type:        model.TypeMonthlySubscription,
		TotalPrice:  30,
		Status:      model.StatusSuccess,
	}
}

func TestSubscriptionService_HandleTransaction_Create(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)

	require.NoError(t, svc.HandleTransaction(monthlyTx(1, buyer.UserID, performer.ID)))

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ? AND performer_id = ?", buyer.UserID, performer.ID).First(&sub).Error)
	assert.Equal(t, model.SubscriptionMonthly, sub.SubscriptionType)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), sub.ExpiredAt, time.Second)

	// 0→1 激活计数
	var account model.Account
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&account).Error)
	assert.Equal(t, 1, account.SubscriptionCount)

	var stat model.PerformerStat
	require.NoError(t, db.Where("performer_id = ?", performer.ID).First(&stat).Error)
	assert.Equal(t, 1, stat.SubscriberCount)
}

func TestSubscriptionService_HandleTransaction_RenewMidTerm(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)

	require.NoError(t, svc.HandleTransaction(monthlyTx(1, buyer.UserID, performer.ID)))

	// 有效期过半时续费，从旧到期时间顺延
	withFixedNow(t, now.Add(15*24*time.Hour))
	require.NoError(t, svc.HandleTransaction(monthlyTx(2, buyer.UserID, performer.ID)))

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ? AND performer_id = ?", buyer.UserID, performer.ID).First(&sub).Error)
	assert.WithinDuration(t, now.Add(60*24*time.Hour), sub.ExpiredAt, time.Second)

	// 仍然有效期内续费，计数不重复增加
	var account model.Account
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&account).Error)
	assert.Equal(t, 1, account.SubscriptionCount)
}

func TestSubscriptionService_HandleTransaction_RenewAfterExpiry(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)

	require.NoError(t, svc.HandleTransaction(monthlyTx(1, buyer.UserID, performer.ID)))

	// 过期 10 天后再续费，从当前时刻起算
	later := now.Add(40 * 24 * time.Hour)
	withFixedNow(t, later)
	require.NoError(t, svc.HandleTransaction(monthlyTx(2, buyer.UserID, performer.ID)))

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ? AND performer_id = ?", buyer.UserID, performer.ID).First(&sub).Error)
	assert.WithinDuration(t, later.Add(30*24*time.Hour), sub.ExpiredAt, time.Second)

	// 曾失效的订阅重新生效，计数再次增加
	var account model.Account
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&account).Error)
	assert.Equal(t, 2, account.SubscriptionCount)
}

func TestSubscriptionService_HandleTransaction_DuplicateDelivery(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)

	tx := monthlyTx(1, buyer.UserID, performer.ID)
	require.NoError(t, svc.HandleTransaction(tx))
	require.NoError(t, svc.HandleTransaction(tx))
	require.NoError(t, svc.HandleTransaction(tx))

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ? AND performer_id = ?", buyer.UserID, performer.ID).First(&sub).Error)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), sub.ExpiredAt, time.Second)

	var account model.Account
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&account).Error)
	assert.Equal(t, 1, account.SubscriptionCount)
}

func TestSubscriptionService_HandleTransaction_FreeUsesPerformerDays(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db, testutil.WithFreeDays(14))

	tx := monthlyTx(1, buyer.UserID, performer.ID)
	tx.Type = model.TypeFreeSubscription
	tx.TotalPrice = 0
	require.NoError(t, svc.HandleTransaction(tx))

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ? AND performer_id = ?", buyer.UserID, performer.ID).First(&sub).Error)
	assert.Equal(t, model.SubscriptionFree, sub.SubscriptionType)
	assert.WithinDuration(t, now.Add(14*24*time.Hour), sub.ExpiredAt, time.Second)
}

func TestSubscriptionService_HandleTransaction_RejectNonSubscription(t *testing.T) {
	svc, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	tx := &model.Transaction{ID: 1, BuyerID: 1, PerformerID: 2, Type: model.TypeVideo}
	assert.ErrorIs(t, svc.HandleTransaction(tx), ErrNotSubscriptionType)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)
	sub := testutil.TestSubscription(t, db, buyer.UserID, performer.ID)

	require.NoError(t, svc.Cancel(buyer.UserID, performer.ID))

	active, err := svc.IsActive(buyer.UserID, performer.ID)
	require.NoError(t, err)
	assert.False(t, active)

	// 已付周期的到期时间保持不变
	var updated model.Subscription
	require.NoError(t, db.First(&updated, sub.ID).Error)
	assert.Equal(t, model.SubscriptionDeactivated, updated.Status)
	assert.WithinDuration(t, sub.ExpiredAt, updated.ExpiredAt, time.Second)
}

func TestSubscriptionService_Cancel_NotFound(t *testing.T) {
	svc, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	assert.ErrorIs(t, svc.Cancel(1, 2), ErrSubscriptionNotFound)
}

func TestSubscriptionService_Reactivate(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, now)

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)
	testutil.TestSubscription(t, db, buyer.UserID, performer.ID,
		testutil.WithStatus(model.SubscriptionDeactivated),
		testutil.WithExpiredAt(now.Add(-time.Hour)))

	sub, err := svc.Reactivate(buyer.UserID, performer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), sub.ExpiredAt, time.Second)

	// 失效→有效，计数增加
	var account model.Account
	require.NoError(t, db.Where("user_id = ?", buyer.UserID).First(&account).Error)
	assert.Equal(t, 1, account.SubscriptionCount)
}

func TestSubscriptionService_Status(t *testing.T) {
	svc, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	buyer := testutil.TestAccount(t, db)
	performer := testutil.TestPerformer(t, db)
	testutil.TestSubscription(t, db, buyer.UserID, performer.ID)

	status, err := svc.Status(buyer.UserID, performer.ID)
	require.NoError(t, err)
	assert.Equal(t, performer.ID, status.PerformerID)
	assert.Equal(t, model.SubscriptionMonthly, status.SubscriptionType)
	assert.True(t, status.Effective)

	_, err = svc.Status(buyer.UserID, performer.ID+1)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}
