package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"hediye.link/configs/configsapp"
)

// Mailer giden e-postaları soyutlar; testlerde sahte implementasyon kullanılır.
type Mailer interface {
	SendInvitationMail(to, eventTitle, inviteURL, message string) error
	SendContributionMail(to, eventTitle, contributorName string, amountCents int64) error
}

// SMTPMailer Mailer arayüzünün gomail implementasyonudur.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer ortam ayarlarından bir SMTP mailer kurar.
func NewSMTPMailer() *SMTPMailer {
	cfg := configsapp.Get()
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// SendInvitationMail davetliye etkinlik daveti gönderir.
func (m *SMTPMailer) SendInvitationMail(to, eventTitle, inviteURL, message string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Davetlisiniz: "+eventTitle)
	note := ""
	if message != "" {
		note = `<p style="color:#555;">` + message + `</p>`
	}
	msg.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
			<h2 style="color: #333; text-align: center;">`+eventTitle+`</h2>
			<p>Merhaba,</p>
			<p>Bir hediye etkinliğine davet edildiniz. Daveti görüntülemek ve yanıtlamak için aşağıdaki bağlantıyı kullanın:</p>
			`+note+`
			<p style="text-align: center;"><a href="`+inviteURL+`" style="display: inline-block; padding: 10px 20px; background-color: #28a745; color: #fff; text-decoration: none; border-radius: 5px;">Daveti Görüntüle</a></p>
			<p>Sevgiler,<br>hediye.link ekibi</p>
		</div>
	`)
	return m.dialer.DialAndSend(msg)
}

// SendContributionMail planlayıcıya yeni katkı bildirimi gönderir.
func (m *SMTPMailer) SendContributionMail(to, eventTitle, contributorName string, amountCents int64) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Yeni katkı: "+eventTitle)
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
			<h2 style="color: #333; text-align: center;">Yeni Katkı</h2>
			<p>%s, "%s" etkinliğinizdeki bir hediyeye %.2f TL katkıda bulundu.</p>
			<p>Sevgiler,<br>hediye.link ekibi</p>
		</div>
	`, contributorName, eventTitle, float64(amountCents)/100))
	return m.dialer.DialAndSend(msg)
}

var _ Mailer = (*SMTPMailer)(nil)
