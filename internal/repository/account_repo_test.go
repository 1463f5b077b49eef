package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/token_go_server/internal/testutil"
)

func TestAccountRepository_Debit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAccountRepository(db)
	account := testutil.TestAccount(t, db, testutil.WithBalance(100))

	t.Run("sufficient balance", func(t *testing.T) {
		ok, err := repo.Debit(account.UserID, 60)
		require.NoError(t, err)
		assert.True(t, ok)

		updated, err := repo.GetByUserID(account.UserID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, updated.TokenBalance)
	})

	t.Run("insufficient balance rejected", func(t *testing.T) {
		ok, err := repo.Debit(account.UserID, 50)
		require.NoError(t, err)
		assert.False(t, ok)

		// 拒绝时余额不变
		updated, err := repo.GetByUserID(account.UserID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, updated.TokenBalance)
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		ok, err := repo.Debit(account.UserID, 40)
		require.NoError(t, err)
		assert.True(t, ok)

		updated, err := repo.GetByUserID(account.UserID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, updated.TokenBalance)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		ok, err := repo.Debit(99999, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAccountRepository_Credit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAccountRepository(db)

	t.Run("existing account", func(t *testing.T) {
		account := testutil.TestAccount(t, db, testutil.WithBalance(10))

		require.NoError(t, repo.Credit(account.UserID, 25))

		updated, err := repo.GetByUserID(account.UserID)
		require.NoError(t, err)
		assert.Equal(t, 35.0, updated.TokenBalance)
	})

	t.Run("unknown user gets a fresh account", func(t *testing.T) {
		require.NoError(t, repo.Credit(424242, 15))

		created, err := repo.GetByUserID(424242)
		require.NoError(t, err)
		assert.Equal(t, 15.0, created.TokenBalance)
	})
}
