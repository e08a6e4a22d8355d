package services

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/rizoma-bar/rizoma-app/config"
	"github.com/rizoma-bar/rizoma-app/models"
	"github.com/rizoma-bar/rizoma-app/utils"
)

// Mailer sends the courtesy emails. Mail is best-effort plumbing: a failed
// send gets logged and the request that triggered it still succeeds.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

// Enabled reports whether SMTP is configured; without it every send is a no-op.
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}

func (m *Mailer) sendAsync(to, subject, body string) {
	if !m.Enabled() {
		return
	}
	go func() {
		if err := m.send(to, subject, body); err != nil {
			utils.ErrorLogger.Printf("error enviando email a %s: %v", to, err)
			return
		}
		utils.InfoLogger.Printf("email enviado a %s", to)
	}()
}

// SendWelcome greets a freshly registered user.
func (m *Mailer) SendWelcome(name, email string) {
	m.sendAsync(email,
		"Bienvenido a Rizoma 🍸",
		fmt.Sprintf("Hola %s, tu cuenta fue creada con éxito.", name))
}

// SendReservationConfirmation confirms a stored booking.
func (m *Mailer) SendReservationConfirmation(res *models.Reservation) {
	m.sendAsync(res.Email,
		"Tu reserva en Rizoma",
		fmt.Sprintf("Hola %s, reservamos una mesa para %d en %s el %s a las %s hs. ¡Te esperamos!",
			res.Name, res.PartySize, res.Sector, res.Date, res.Time))
}
