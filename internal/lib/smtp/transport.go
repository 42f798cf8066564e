package smtp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
)

// Transport отправляет письма от имени SMTPUser.
type Transport struct {
	cfg     config.SMTP
	log     *slog.Logger
	timeout time.Duration
	dial    func() (session, error)
	now     func() time.Time
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	t := &Transport{cfg: cfg, log: log, timeout: 10 * time.Second, now: time.Now}
	t.dial = t.open
	return t
}

// Send открывает сессию, передаёт письмо всем адресатам и закрывает сессию.
func (t *Transport) Send(letter Letter) error {
	const op = "smtp.Send"

	to := letter.recipients()
	if len(to) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRecipients)
	}
	letter.To = to
	log := t.log.With(slog.String("op", op), slog.Any("to", to))

	s, err := t.dial()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = s.Close()
	}()

	from := t.cfg.SMTPUser
	if err := s.Mail(from); err != nil {
		log.Error("MAIL FROM rejected", slog.String("from", from), sl.Err(err))
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	for _, addr := range to {
		if err := s.Rcpt(addr); err != nil {
			log.Error("RCPT TO rejected", slog.String("recipient", addr), sl.Err(err))
			return fmt.Errorf("%s: rcpt %s: %w", op, addr, err)
		}
	}

	wc, err := s.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := wc.Write(letter.Compose(from, t.now())); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: data close: %w", op, err)
	}
	if err := s.Quit(); err != nil {
		log.Warn("QUIT failed after delivery", sl.Err(err))
	}
	log.Info("letter sent", slog.String("subject", letter.Subject))
	return nil
}

// open подключается к серверу, включает STARTTLS и проходит PLAIN-аутентификацию.
func (t *Transport) open() (session, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := net.DialTimeout("tcp", addr, t.timeout)
	if err != nil {
		t.log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	fail := func(msg string, err error) (session, error) {
		t.log.Error(msg, sl.Err(err))
		if closeErr := client.Close(); closeErr != nil {
			t.log.Error("failed to close client", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fail("smtp server rejected session", errStartTLSUnsupported)
	}
	tlsConfig := &tls.Config{ServerName: t.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fail("failed to start TLS", err)
	}
	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fail("smtp auth failed", err)
	}
	return client, nil
}

var errStartTLSUnsupported = fmt.Errorf("server does not support STARTTLS")
