package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/config"
	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/model/dto"
	"github.com/qs3c/token_go_server/internal/pkg/email"
	"github.com/qs3c/token_go_server/internal/repository"
)

var (
	ErrExceedsBalance      = errors.New("申请代币超过可提现余额")
	ErrBelowMinimum        = errors.New("低于最小提现额度")
	ErrPayoutNotFound      = errors.New("提现申请不存在")
	ErrInvalidStatusChange = errors.New("不允许的状态变更")
)

// PayoutService 提现台账：表演者不能申请超过 "累计净收益 − 未被驳回的已申请额度"。
// 额度每次都从当前数据重新推导，不维护一个可漂移的余额字段。
type PayoutService struct {
	db          *gorm.DB
	payoutRepo  *repository.PayoutRepository
	earningRepo *repository.EarningRepository
	catalogRepo *repository.CatalogRepository
	mailer      *email.Service
	cfg         *config.Config
}

// mailer 和 catalogRepo 允许为 nil，此时跳过审核结果通知
func NewPayoutService(
	db *gorm.DB,
	payoutRepo *repository.PayoutRepository,
	earningRepo *repository.EarningRepository,
	catalogRepo *repository.CatalogRepository,
	mailer *email.Service,
	cfg *config.Config,
) *PayoutService {
	return &PayoutService{
		db:          db,
		payoutRepo:  payoutRepo,
		earningRepo: earningRepo,
		catalogRepo: catalogRepo,
		mailer:      mailer,
		cfg:         cfg,
	}
}

// 占用额度的状态集合：rejected 被排除，驳回即释放。
// done 仍然占用：结算只标记被完整覆盖的分成行，边界行的差额靠 done 的
// 申请额继续扣减，额度核算始终以累计净收益为基数。
var reservingStatuses = []string{model.PayoutPending, model.PayoutApproved, model.PayoutDone}

// RequestPayout 创建提现申请。先独占表演者行再插入复核，
// 并发申请在行锁上排队，不会都以过期快照通过校验。
func (s *PayoutService) RequestPayout(performerID int64, requestTokens float64, note string) (*model.PayoutRequest, error) {
	if requestTokens < s.cfg.Payout.MinRequestTokens {
		return nil, ErrBelowMinimum
	}

	req := &model.PayoutRequest{
		RequestCode:         uuid.New().String(),
		PerformerID:         performerID,
		RequestTokens:       requestTokens,
		TokenConversionRate: s.cfg.Payout.TokenConversionRate,
		Note:                note,
		Status:              model.PayoutPending,
	}

	err := s.db.Transaction(func(txDB *gorm.DB) error {
		payoutRepo := repository.NewPayoutRepository(txDB)
		earningRepo := repository.NewEarningRepository(txDB)

		// 串行化点：锁住表演者行，后续求和才不会读到并发申请的过期快照
		if err := repository.NewCatalogRepository(txDB).LockPerformer(performerID); err != nil {
			return err
		}

		if err := payoutRepo.Create(req); err != nil {
			return err
		}

		// 提交时复核：含本次申请在内的占用额度不得超过累计净收益
		total, err := sumTotalNet(earningRepo, performerID)
		if err != nil {
			return err
		}
		reserved, err := payoutRepo.SumRequestedTokens(performerID, reservingStatuses)
		if err != nil {
			return err
		}
		if decimal.NewFromFloat(reserved).GreaterThan(total) {
			return ErrExceedsBalance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

// AdminUpdateStatus 状态机：pending→approved|rejected，approved→done。
// 进入 done 时按成交时间从旧到新把被本次提现覆盖的分成标记为已结算。
func (s *PayoutService) AdminUpdateStatus(id int64, status string) (*model.PayoutRequest, error) {
	req, err := s.payoutRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}

	switch {
	case req.Status == model.PayoutPending && (status == model.PayoutApproved || status == model.PayoutRejected):
		ok, err := s.payoutRepo.UpdateStatus(id, model.PayoutPending, status)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidStatusChange
		}

	case req.Status == model.PayoutApproved && status == model.PayoutDone:
		err := s.db.Transaction(func(txDB *gorm.DB) error {
			payoutRepo := repository.NewPayoutRepository(txDB)
			earningRepo := repository.NewEarningRepository(txDB)

			if err := repository.NewCatalogRepository(txDB).LockPerformer(req.PerformerID); err != nil {
				return err
			}

			ok, err := payoutRepo.UpdateStatus(id, model.PayoutApproved, model.PayoutDone)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInvalidStatusChange
			}
			return s.settleEarnings(earningRepo, req.PerformerID, req.RequestTokens)
		})
		if err != nil {
			return nil, err
		}

	default:
		return nil, ErrInvalidStatusChange
	}

	s.notifyStatusChanged(req, status)

	return s.payoutRepo.GetByID(id)
}

// notifyStatusChanged 审核结果邮件通知，失败只记日志
func (s *PayoutService) notifyStatusChanged(req *model.PayoutRequest, status string) {
	if s.mailer == nil || s.catalogRepo == nil {
		return
	}
	performer, err := s.catalogRepo.GetPerformer(req.PerformerID)
	if err != nil || performer.Email == "" {
		return
	}
	if err := s.mailer.SendPayoutStatusChanged(performer.Email, req.RequestCode, status, req.RequestTokens); err != nil {
		log.Printf("payout: status notification for request %s failed: %v", req.RequestCode, err)
	}
}

// settleEarnings 从最旧的未结算分成开始标记，只标记被申请额度完整覆盖的行。
// 边界行不标记：整行标记会吞掉表演者未被本次提现覆盖的净额，
// 差额通过 done 申请继续占用额度体现，留给后续提现结算。
func (s *PayoutService) settleEarnings(earningRepo *repository.EarningRepository, performerID int64, requestTokens float64) error {
	unpaid, err := earningRepo.ListUnpaidOldestFirst(performerID)
	if err != nil {
		return err
	}

	budget := decimal.NewFromFloat(requestTokens)
	covered := decimal.Zero
	var ids []int64
	for _, earning := range unpaid {
		next := covered.Add(decimal.NewFromFloat(earning.NetPrice))
		if next.GreaterThan(budget) {
			break
		}
		covered = next
		ids = append(ids, earning.ID)
	}

	return earningRepo.MarkPaid(ids, time.Now())
}

// sumTotalNet 累计净收益（已结算 + 未结算），提现额度的核算基数
func sumTotalNet(earningRepo *repository.EarningRepository, performerID int64) (decimal.Decimal, error) {
	unpaid, err := earningRepo.SumUnpaidNet(performerID)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := earningRepo.SumPaidNet(performerID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(unpaid).Add(decimal.NewFromFloat(paid)), nil
}

// Delete 只允许本人删除 pending 状态的申请
func (s *PayoutService) Delete(performerID, id int64) error {
	ok, err := s.payoutRepo.DeletePending(performerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPayoutNotFound
	}
	return nil
}

// List 按时间倒序分页
func (s *PayoutService) List(performerID int64, page, pageSize int) ([]*dto.PayoutItem, int64, error) {
	requests, total, err := s.payoutRepo.ListByPerformer(performerID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PayoutItem, len(requests))
	for i, r := range requests {
		items[i] = &dto.PayoutItem{
			ID:                  r.ID,
			RequestCode:         r.RequestCode,
			RequestTokens:       r.RequestTokens,
			TokenConversionRate: r.TokenConversionRate,
			Status:              r.Status,
			Note:                r.Note,
			CreatedAt:           r.CreatedAt.Format(time.RFC3339),
			UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
		}
	}
	return items, total, nil
}

// Balance 可提现余额视图：剩余额度 = 累计净收益 − 未被驳回的已申请额度
func (s *PayoutService) Balance(performerID int64) (*dto.PayoutBalance, error) {
	paid, err := s.earningRepo.SumPaidNet(performerID)
	if err != nil {
		return nil, err
	}
	total, err := sumTotalNet(s.earningRepo, performerID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.payoutRepo.SumRequestedTokens(performerID, reservingStatuses)
	if err != nil {
		return nil, err
	}

	remaining, _ := total.Sub(decimal.NewFromFloat(reserved)).Float64()
	if remaining < 0 {
		remaining = 0
	}

	totalNet, _ := total.Float64()
	return &dto.PayoutBalance{
		PerformerID:     performerID,
		TotalNet:        totalNet,
		PaidTokens:      paid,
		RequestedTokens: reserved,
		RemainingTokens: remaining,
	}, nil
}
