package service

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/repository"
)

var ErrAccountNotFound = errors.New("账户不存在")

// AccountService 余额入账与查询。入账来自支付网关回调：
// 法币扣款成功后由网关换算成代币调用 Credit。
type AccountService struct {
	accountRepo *repository.AccountRepository
}

func NewAccountService(accountRepo *repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Credit 入账，账户不存在时创建
func (s *AccountService) Credit(userID int64, amount float64, reference string) (*dto.BalanceResponse, error) {
	if err := s.accountRepo.Credit(userID, amount); err != nil {
		return nil, err
	}
	log.Printf("account: credited %.2f tokens to user %d (ref=%s)", amount, userID, reference)
	return s.Balance(userID)
}

// Balance 查询余额
func (s *AccountService) Balance(userID int64) (*dto.BalanceResponse, error) {
	acc, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &dto.BalanceResponse{
		UserID:       acc.UserID,
		TokenBalance: acc.TokenBalance,
	}, nil
}
