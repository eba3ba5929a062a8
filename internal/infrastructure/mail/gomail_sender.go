package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Facturacion-api/pkg/config"
)

// GomailSender transporte SMTP de recibos usando gomail.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender construye el transporte con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía un correo de texto plano. Abre y cierra la conexión por mensaje:
// el volumen de recibos no justifica mantener el canal SMTP abierto.
func (s *GomailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
