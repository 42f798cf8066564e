// Package smtp доставляет письма уведомлений через SMTP-сервер с обязательным STARTTLS.
package smtp

import (
	"errors"
	"io"
	"mime"
	"strings"
	"time"
)

// ErrNoRecipients возвращается, когда у письма нет ни одного адресата.
var ErrNoRecipients = errors.New("letter has no recipients")

// Letter письмо уведомления: тема и текст без заголовков.
type Letter struct {
	To      []string
	Subject string
	Body    string
}

// Mailer доставляет письма уведомлений.
type Mailer interface {
	Send(letter Letter) error
}

// session команды SMTP-сессии, которые нужны Transport.
type session interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Compose собирает письмо в формате RFC 5322.
// Тема кодируется как encoded-word, строки тела приводятся к CRLF.
func (l Letter) Compose(from string, date time.Time) []byte {
	var b strings.Builder
	header := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	header("From", from)
	header("To", strings.Join(l.To, ", "))
	header("Subject", mime.QEncoding.Encode("UTF-8", l.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(l.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

func (l Letter) recipients() []string {
	out := make([]string, 0, len(l.To))
	for _, addr := range l.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
