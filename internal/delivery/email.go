// Package delivery gửi thông báo ra ngoài hệ thống (email xác nhận đơn hàng).
package delivery

import (
	"fmt"
	"strings"

	shopmodels "epicerie_commerce/internal/api/shop/models"
	"epicerie_commerce/internal/global"

	"gopkg.in/gomail.v2"
)

// EmailSender gửi email qua SMTP với cấu hình từ env
type EmailSender struct {
	host     string
	port     int
	username string
	password string
	from     string

	shopName    string
	currency    string
	frontendURL string
}

// NewEmailSenderFromConfig tạo EmailSender từ cấu hình server đã nạp
func NewEmailSenderFromConfig() *EmailSender {
	cfg := global.MongoDB_ServerConfig
	return &EmailSender{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		from:        cfg.SMTPFrom,
		shopName:    cfg.ShopName,
		currency:    cfg.ShopCurrency,
		frontendURL: strings.TrimSuffix(cfg.FrontendURL, "/"),
	}
}

// Enabled cho biết SMTP đã được cấu hình chưa.
// Không cấu hình SMTP thì đơn vẫn tạo được, chỉ bỏ qua email.
func (s *EmailSender) Enabled() bool {
	return s.host != ""
}

// formatAmount đổi số tiền từ cent sang dạng hiển thị: 12345 -> "123.45 MAD"
func (s *EmailSender) formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, s.currency)
}

// confirmLink dựng URL xác nhận đơn hàng trên frontend từ confirmation token
func (s *EmailSender) confirmLink(token string) string {
	return fmt.Sprintf("%s/order/confirm/%s", s.frontendURL, token)
}

// SendOrderConfirmation gửi email xác nhận đơn hàng với link chứa confirmation token
func (s *EmailSender) SendOrderConfirmation(order *shopmodels.Order) error {
	if !s.Enabled() {
		return nil
	}

	confirmURL := s.confirmLink(order.ConfirmationToken)

	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:6px 12px;">%s</td><td style="padding:6px 12px;text-align:center;">%d</td><td style="padding:6px 12px;text-align:right;">%s</td></tr>`,
			item.Name, item.Quantity, s.formatAmount(item.TotalPrice)))
	}

	htmlContent := fmt.Sprintf(`
<h2>%s</h2>
<p>Bonjour %s,</p>
<p>Merci pour votre commande <strong>%s</strong>. Veuillez la confirmer en cliquant sur le bouton ci-dessous.</p>
<table style="border-collapse:collapse;width:100%%;">%s</table>
<p style="text-align:right;"><strong>Total: %s</strong></p>
<a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Confirmer ma commande</a>
<p style="color:#888;font-size:12px;">Si vous n'êtes pas à l'origine de cette commande, ignorez cet email.</p>`,
		s.shopName, order.Customer.Name, order.OrderNumber, rows.String(), s.formatAmount(order.Total), confirmURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", s.shopName, s.from))
	msg.SetHeader("To", order.Customer.Email)
	msg.SetHeader("Subject", fmt.Sprintf("%s - Confirmez votre commande %s", s.shopName, order.OrderNumber))
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return dialer.DialAndSend(msg)
}
