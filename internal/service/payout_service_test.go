package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/repository"
	"github.com/qs3c/token_go_server/internal/testutil"
)

func setupPayoutService(t *testing.T) (*PayoutService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	svc := NewPayoutService(
		db,
		repository.NewPayoutRepository(db),
		repository.NewEarningRepository(db),
		repository.NewCatalogRepository(db),
		nil,
		testConfig(),
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return svc, db, cleanup
}

// seedEarnings 为表演者铺若干条未结算分成，每条净收益 net
func seedEarnings(t *testing.T, db *gorm.DB, performerID int64, nets ...float64) []int64 {
	t.Helper()

	ids := make([]int64, len(nets))
	for i, net := range nets {
		earning := testutil.TestEarning(t, db, int64(1000+i)+performerID*100, performerID, 1,
			testutil.WithNet(net, 0, net))
		ids[i] = earning.ID
	}
	return ids
}

func TestPayoutService_RequestPayout(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 200, 300)

	req, err := svc.RequestPayout(performer.ID, 400, "first payout")
	require.NoError(t, err)
	assert.Equal(t, model.PayoutPending, req.Status)
	assert.Equal(t, 400.0, req.RequestTokens)
	assert.Equal(t, 0.05, req.TokenConversionRate)
	assert.NotEmpty(t, req.RequestCode)
}

func TestPayoutService_RequestPayout_BelowMinimum(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 500)

	_, err := svc.RequestPayout(performer.ID, 10, "")
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestPayoutService_RequestPayout_ExceedsBalance(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 100, 100)

	_, err := svc.RequestPayout(performer.ID, 300, "")
	assert.ErrorIs(t, err, ErrExceedsBalance)

	// 超额申请整体回滚，不留下任何行
	var count int64
	require.NoError(t, db.Model(&model.PayoutRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPayoutService_RequestPayout_PendingReserves(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 500)

	_, err := svc.RequestPayout(performer.ID, 200, "")
	require.NoError(t, err)

	// pending 占用额度，超出剩余部分被拒
	_, err = svc.RequestPayout(performer.ID, 350, "")
	assert.ErrorIs(t, err, ErrExceedsBalance)

	// 剩余额度内的申请通过
	_, err = svc.RequestPayout(performer.ID, 300, "")
	require.NoError(t, err)
}

func TestPayoutService_RejectedReleasesQuota(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 500)

	req, err := svc.RequestPayout(performer.ID, 500, "")
	require.NoError(t, err)

	_, err = svc.RequestPayout(performer.ID, 100, "")
	assert.ErrorIs(t, err, ErrExceedsBalance)

	_, err = svc.AdminUpdateStatus(req.ID, model.PayoutRejected)
	require.NoError(t, err)

	// 驳回即释放
	_, err = svc.RequestPayout(performer.ID, 500, "")
	require.NoError(t, err)
}

func TestPayoutService_AdminUpdateStatus_Lifecycle(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	ids := seedEarnings(t, db, performer.ID, 100, 100, 100)

	req, err := svc.RequestPayout(performer.ID, 150, "")
	require.NoError(t, err)

	approved, err := svc.AdminUpdateStatus(req.ID, model.PayoutApproved)
	require.NoError(t, err)
	assert.Equal(t, model.PayoutApproved, approved.Status)

	done, err := svc.AdminUpdateStatus(req.ID, model.PayoutDone)
	require.NoError(t, err)
	assert.Equal(t, model.PayoutDone, done.Status)

	// 从最旧分成开始标记，只标记被额度完整覆盖的行，边界行保留
	var paid []model.Earning
	require.NoError(t, db.Where("is_paid = ?", true).Order("id ASC").Find(&paid).Error)
	require.Len(t, paid, 1)
	assert.Equal(t, ids[0], paid[0].ID)
	assert.NotNil(t, paid[0].PaidAt)

	// done 持续占用额度：剩余 = 累计净收益 300 − 已申请 150
	balance, err := svc.Balance(performer.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, balance.TotalNet)
	assert.Equal(t, 100.0, balance.PaidTokens)
	assert.Equal(t, 150.0, balance.RequestedTokens)
	assert.Equal(t, 150.0, balance.RemainingTokens)
}

func TestPayoutService_DoneKeepsUncoveredRemainder(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 100)

	req, err := svc.RequestPayout(performer.ID, 50, "")
	require.NoError(t, err)

	_, err = svc.AdminUpdateStatus(req.ID, model.PayoutApproved)
	require.NoError(t, err)
	_, err = svc.AdminUpdateStatus(req.ID, model.PayoutDone)
	require.NoError(t, err)

	// 100 的分成行仅被 50 覆盖，不得整行吞掉
	var earning model.Earning
	require.NoError(t, db.First(&earning).Error)
	assert.False(t, earning.IsPaid)

	balance, err := svc.Balance(performer.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, balance.RequestedTokens)
	assert.Equal(t, 50.0, balance.RemainingTokens)

	// 剩余 50 仍可申请，超出则拒
	_, err = svc.RequestPayout(performer.ID, 60, "")
	assert.ErrorIs(t, err, ErrExceedsBalance)

	_, err = svc.RequestPayout(performer.ID, 50, "")
	require.NoError(t, err)
}

func TestPayoutService_AdminUpdateStatus_InvalidTransitions(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 500)

	req, err := svc.RequestPayout(performer.ID, 100, "")
	require.NoError(t, err)

	// pending 不能直达 done
	_, err = svc.AdminUpdateStatus(req.ID, model.PayoutDone)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	_, err = svc.AdminUpdateStatus(req.ID, model.PayoutRejected)
	require.NoError(t, err)

	// rejected 是终态
	_, err = svc.AdminUpdateStatus(req.ID, model.PayoutApproved)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	_, err = svc.AdminUpdateStatus(99999, model.PayoutApproved)
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestPayoutService_Delete(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 500)

	req, err := svc.RequestPayout(performer.ID, 100, "")
	require.NoError(t, err)

	t.Run("other performer cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(performer.ID+1, req.ID), ErrPayoutNotFound)
	})

	t.Run("pending deletable", func(t *testing.T) {
		require.NoError(t, svc.Delete(performer.ID, req.ID))
	})

	t.Run("approved not deletable", func(t *testing.T) {
		another, err := svc.RequestPayout(performer.ID, 100, "")
		require.NoError(t, err)
		_, err = svc.AdminUpdateStatus(another.ID, model.PayoutApproved)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(performer.ID, another.ID), ErrPayoutNotFound)
	})
}

func TestPayoutService_Balance_View(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 200, 300)

	_, err := svc.RequestPayout(performer.ID, 100, "")
	require.NoError(t, err)

	balance, err := svc.Balance(performer.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, balance.TotalNet)
	assert.Equal(t, 0.0, balance.PaidTokens)
	assert.Equal(t, 100.0, balance.RequestedTokens)
	assert.Equal(t, 400.0, balance.RemainingTokens)
}

func TestPayoutService_List(t *testing.T) {
	svc, db, cleanup := setupPayoutService(t)
	defer cleanup()

	performer := testutil.TestPerformer(t, db)
	seedEarnings(t, db, performer.ID, 1000)

	for i := 0; i < 3; i++ {
		_, err := svc.RequestPayout(performer.ID, 100, "")
		require.NoError(t, err)
	}

	items, total, err := svc.List(performer.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)
}
