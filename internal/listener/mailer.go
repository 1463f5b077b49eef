package listener

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/qs3c/token_go_server/internal/model"
	"github.com/qs3c/token_go_server/internal/pkg/email"
	"github.com/qs3c/token_go_server/internal/pkg/eventbus"
	"github.com/qs3c/token_go_server/internal/repository"
)

// MailerListener 成交后的邮件通知：买家的数字商品解锁邮件、表演者的售出通知。
// 邮件失败只记日志，不触发整条事件重投（重投会重复扣库存之外的代价很小，
// 但重复营销邮件比漏发更扰民）。
type MailerListener struct {
	catalogRepo *repository.CatalogRepository
	accountRepo *repository.AccountRepository
	earningRepo *repository.EarningRepository
	mailer      *email.Service
}

func NewMailerListener(
	catalogRepo *repository.CatalogRepository,
	accountRepo *repository.AccountRepository,
	earningRepo *repository.EarningRepository,
	mailer *email.Service,
) *MailerListener {
	return &MailerListener{
		catalogRepo: catalogRepo,
		accountRepo: accountRepo,
		earningRepo: earningRepo,
		mailer:      mailer,
	}
}

func (l *MailerListener) Name() string {
	return "mailer"
}

func (l *MailerListener) Handle(ctx context.Context, event *eventbus.TransactionEvent) error {
	if l.mailer == nil || event.EventName != eventbus.EventCreated {
		return nil
	}
	tx := event.Transaction

	l.notifyPerformer(tx)
	l.unlockDigitalDownload(tx)
	return nil
}

func (l *MailerListener) notifyPerformer(tx *model.Transaction) {
	performer, err := l.catalogRepo.GetPerformer(tx.PerformerID)
	if err != nil || performer.Email == "" {
		return
	}

	// 通知里的净额以分成行为准，查不到时宁可不发也不用总价充数
	earning, err := l.earningRepo.GetByTransactionID(tx.ID)
	if err != nil {
		log.Printf("mailer: earning lookup for transaction %d failed: %v", tx.ID, err)
		return
	}

	if err := l.mailer.SendSaleNotification(performer.Email, tx.Type, tx.TotalPrice, earning.NetPrice); err != nil {
		log.Printf("mailer: sale notification for transaction %d failed: %v", tx.ID, err)
	}
}

func (l *MailerListener) unlockDigitalDownload(tx *model.Transaction) {
	if tx.Type != model.TypeProduct {
		return
	}

	hasDigital := false
	for _, item := range tx.Products {
		if item.ProductType == model.ProductDigital {
			hasDigital = true
			break
		}
	}
	if !hasDigital {
		return
	}

	content, err := l.catalogRepo.GetContent(tx.TargetID)
	if err != nil || content.DownloadURL == "" {
		return
	}

	buyer, err := l.accountRepo.GetByUserID(tx.BuyerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("mailer: buyer lookup for transaction %d failed: %v", tx.ID, err)
		}
		return
	}
	if buyer.Email == "" {
		return
	}

	if err := l.mailer.SendDigitalDownload(buyer.Email, content.Name, content.DownloadURL); err != nil {
		log.Printf("mailer: download unlock mail for transaction %d failed: %v", tx.ID, err)
	}
}
