package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/token_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendDigitalDownload 数字商品解锁邮件
func (s *Service) SendDigitalDownload(to, productName, downloadURL string) error {
	subject := "购买成功 - 下载已解锁"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">购买成功</h2>
        <p>您好，</p>
        <p>您购买的数字商品 <strong>%s</strong> 已解锁，点击下方链接下载：</p>
        <p><a href="%s" style="display: inline-block; background-color: #2563eb; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">立即下载</a></p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, productName, downloadURL)

	return s.sendHTML(to, subject, body)
}

// SendSaleNotification 表演者售出通知
func (s *Service) SendSaleNotification(to, purchaseType string, grossPrice, netPrice float64) error {
	subject := "新的售出通知"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">售出通知</h2>
        <p>您好，</p>
        <p>您有一笔新的 <strong>%s</strong> 成交：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            <p>成交金额：%.2f 代币</p>
            <p>净收益：%.2f 代币</p>
        </div>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, purchaseType, grossPrice, netPrice)

	return s.sendHTML(to, subject, body)
}

// SendPayoutStatusChanged 提现状态变更通知
func (s *Service) SendPayoutStatusChanged(to, requestCode, status string, requestTokens float64) error {
	subject := "提现申请状态更新"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">提现申请状态更新</h2>
        <p>您好，</p>
        <p>您的提现申请 <strong>%s</strong>（%.2f 代币）状态已更新为：<strong>%s</strong></p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, requestCode, requestTokens, status)

	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}
