package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/examin-app/examin-backend/internal/config"
)

// Mailer delivers credential emails over SMTP. When no SMTP user is
// configured the mailer is disabled and sends become no-ops, so local
// development works without a mail server.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
	log  zerolog.Logger
}

// New creates a Mailer from the application config.
func New(cfg *config.Config, log zerolog.Logger) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
		log:  log.With().Str("component", "mailer").Logger(),
	}
}

// Enabled reports whether the mailer has SMTP credentials.
func (m *Mailer) Enabled() bool {
	return m.user != ""
}

// SendStudentCredentials emails a newly registered student their generated
// student ID alongside the email they signed up with.
func (m *Mailer) SendStudentCredentials(to, name, studentID string) error {
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your student account is ready. Use either credential below to log in:</p>
		<div class="info-box">
			<p><strong>Email:</strong> %s</p>
			<p><strong>Student ID:</strong> %s</p>
		</div>
		<p>Keep your student ID safe. You will need it for every exam.</p>`,
		name, to, studentID)
	return m.send([]string{to}, "Your Examin Student Credentials", template("Welcome to Examin", body))
}

// SendAdminCredentials emails a newly added admin their initial login details.
func (m *Mailer) SendAdminCredentials(to, name, adminID, password string) error {
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>You have been added as an exam administrator. Your initial credentials:</p>
		<div class="info-box">
			<p><strong>Admin ID:</strong> %s</p>
			<p><strong>Email:</strong> %s</p>
			<p><strong>Password:</strong> %s</p>
		</div>
		<p>Please change your credentials after your first login.</p>`,
		name, adminID, to, password)
	return m.send([]string{to}, "Your Examin Admin Account", template("Administrator Access", body))
}

func (m *Mailer) send(to []string, subject, htmlBody string) error {
	if !m.Enabled() {
		m.log.Debug().Str("subject", subject).Msg("mailer disabled, skipping email")
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Examin <%s>\r\n", m.from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func template(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #212121; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #1A237E; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>EXAMIN</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message. Please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
