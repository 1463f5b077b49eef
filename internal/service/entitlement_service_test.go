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

func setupEntitlementService(t *testing.T) (*EntitlementService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	svc := NewEntitlementService(
		repository.NewCatalogRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewSubscriptionRepository(db),
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return svc, db, cleanup
}

func TestEntitlementService_CanAccess_Public(t *testing.T) {
	svc, db, cleanup := setupEntitlementService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	content := testutil.TestContent(t, db, performer.ID,
		testutil.WithSale(false), testutil.WithGated(false))

	ok, err := svc.CanAccess(12345, content.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntitlementService_CanAccess_Owner(t *testing.T) {
	svc, db, cleanup := setupEntitlementService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	content := testutil.TestContent(t, db, performer.ID,
		testutil.WithSale(true), testutil.WithGated(true))

	ok, err := svc.CanAccess(performer.ID, content.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntitlementService_CanAccess_Subscription(t *testing.T) {
	svc, db, cleanup := setupEntitlementService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	content := testutil.TestContent(t, db, performer.ID,
		testutil.WithSale(false), testutil.WithGated(true))
	buyer := testutil.TestAccount(t, db)

	t.Run("no subscription denied", func(t *testing.T) {
		ok, err := svc.CanAccess(buyer.UserID, content.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("effective subscription grants", func(t *testing.T) {
		sub := testutil.TestSubscription(t, db, buyer.UserID, performer.ID)

		ok, err := svc.CanAccess(buyer.UserID, content.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, db.Delete(sub).Error)
	})

	t.Run("expired subscription denied", func(t *testing.T) {
		other := testutil.TestAccount(t, db)
		testutil.TestSubscription(t, db, other.UserID, performer.ID,
			testutil.WithExpiredAt(time.Now().Add(-time.Hour)))

		ok, err := svc.CanAccess(other.UserID, content.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deactivated subscription denied", func(t *testing.T) {
		other := testutil.TestAccount(t, db)
		testutil.TestSubscription(t, db, other.UserID, performer.ID,
			testutil.WithStatus(model.SubscriptionDeactivated))

		ok, err := svc.CanAccess(other.UserID, content.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEntitlementService_CanAccess_Purchase(t *testing.T) {
	svc, db, cleanup := setupEntitlementService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	content := testutil.TestContent(t, db, performer.ID,
		testutil.WithSale(true), testutil.WithGated(false))
	buyer := testutil.TestAccount(t, db)

	t.Run("no purchase denied", func(t *testing.T) {
		ok, err := svc.CanAccess(buyer.UserID, content.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("successful purchase grants", func(t *testing.T) {
		testutil.TestTransaction(t, db, buyer.UserID, performer.ID,
			testutil.WithTarget(content.ID))

		ok, err := svc.CanAccess(buyer.UserID, content.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("refunded purchase denied", func(t *testing.T) {
		other := testutil.TestAccount(t, db)
		tx := testutil.TestTransaction(t, db, other.UserID, performer.ID,
			testutil.WithTarget(content.ID))
		require.NoError(t, db.Model(tx).Update("status", model.StatusRefunded).Error)

		ok, err := svc.CanAccess(other.UserID, content.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEntitlementService_CanAccess_EitherChannel(t *testing.T) {
	svc, db, cleanup := setupEntitlementService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	// 同时开放订阅和单卖，任一通道满足即可访问
	content := testutil.TestContent(t, db, performer.ID,
		testutil.WithSale(true), testutil.WithGated(true))

	subscriber := testutil.TestAccount(t, db)
	testutil.TestSubscription(t, db, subscriber.UserID, performer.ID)

	purchaser := testutil.TestAccount(t, db)
	testutil.TestTransaction(t, db, purchaser.UserID, performer.ID,
		testutil.WithTarget(content.ID))

	ok, err := svc.CanAccess(subscriber.UserID, content.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccess(purchaser.UserID, content.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntitlementService_CanAccess_UnknownContent(t *testing.T) {
	svc, _, cleanup := setupEntitlementService(t)
	defer cleanup()

	_, err := svc.CanAccess(1, 99999)
	assert.ErrorIs(t, err, ErrContentNotFound)
}
