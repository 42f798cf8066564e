// Package sender рассылает письма по уведомлениям из очередей.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/smtp"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// Service отправляет письма через SMTP.
type Service struct {
	mailer smtp.Mailer
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, mailer smtp.Mailer) *Service {
	return &Service{
		mailer: mailer,
		log:    log,
	}
}

// SendExpiringSubscription сообщает, что подписка заканчивается завтра.
func (s *Service) SendExpiringSubscription(body []byte) error {
	var n models.SubscriptionNotice
	if err := s.decode(body, &n); err != nil {
		return err
	}
	subject := "Your premium subscription ends tomorrow"
	text := fmt.Sprintf("Hello, %s!\n\nYour premium subscription ends on %s.\n"+
		"Renew it to keep macro targets and premium features.",
		displayName(n.Username, n.Email), n.EndDate.Format("2006-01-02"))
	return s.sendEmail([]string{n.Email}, subject, text)
}

// SendExpiredSubscription сообщает, что подписка закончилась и аккаунт переведён на бесплатный уровень.
func (s *Service) SendExpiredSubscription(body []byte) error {
	var n models.SubscriptionNotice
	if err := s.decode(body, &n); err != nil {
		return err
	}
	subject := "Your premium subscription has ended"
	text := fmt.Sprintf("Hello, %s!\n\nYour premium subscription ended on %s and your account is now on the free plan.\n"+
		"You can activate premium again at any time.",
		displayName(n.Username, n.Email), n.EndDate.Format("2006-01-02"))
	return s.sendEmail([]string{n.Email}, subject, text)
}

// SendPurchaseReceipt отправляет квитанцию о покупке пожизненного доступа.
func (s *Service) SendPurchaseReceipt(body []byte) error {
	var r models.PurchaseReceipt
	if err := s.decode(body, &r); err != nil {
		return err
	}
	subject := "Receipt: lifetime premium access"
	var b strings.Builder
	fmt.Fprintf(&b, "Hello, %s!\n\nThank you for your purchase.\n\n", displayName(r.Username, r.Email))
	fmt.Fprintf(&b, "Transaction: %s\n", r.TransactionID)
	fmt.Fprintf(&b, "Amount: %d.%02d %s\n", r.Amount/100, r.Amount%100, r.Currency)
	fmt.Fprintf(&b, "Date: %s\n\nUnlocked features:\n", r.PurchasedAt.Format("2006-01-02 15:04 MST"))
	for _, f := range r.Features {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	return s.sendEmail([]string{r.Email}, subject, b.String())
}

func (s *Service) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	return nil
}

func displayName(username, email string) string {
	if username != "" {
		return username
	}
	return email
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	letter := smtp.Letter{To: to, Subject: subject, Body: bodyText}
	if err := s.mailer.Send(letter); err != nil {
		s.log.Error("failed to send email", slog.Any("to", to), sl.Err(err))
		return err
	}
	return nil
}
