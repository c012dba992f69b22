package mailer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/santhosharam/kottravai-backend/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// Category selects the Reply-To alias for an outbound message. The From
// address is always the same system mailbox.
type Category string

const (
	CategoryOrder     Category = "order"
	CategoryB2B       Category = "b2b"
	CategoryContact   Category = "contact"
	CategorySubscribe Category = "subscribe"
	CategoryCustom    Category = "custom"
)

var replyToAliases = map[Category]string{
	CategoryOrder:     "sales@kottravai.in",
	CategoryB2B:       "b2b@kottravai.in",
	CategoryContact:   "support@kottravai.in",
	CategorySubscribe: "info@kottravai.in",
	CategoryCustom:    "sales@kottravai.in",
}

const defaultReplyTo = "support@kottravai.in"

// ReplyTo returns the alias for a category, defaulting to support.
func ReplyTo(c Category) string {
	if alias, ok := replyToAliases[c]; ok {
		return alias
	}
	return defaultReplyTo
}

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Category    Category
	Attachments []Attachment
}

type Mailer struct {
	logger *slog.Logger
	dialer *gomail.Dialer
	from   string
}

func New(logger *slog.Logger, cfg config.SMTP) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.SSL = cfg.Port == 465

	return &Mailer{
		logger: logger.With(slog.String("client", "mailer")),
		dialer: dialer,
		from:   cfg.User,
	}
}

// Send delivers one transactional email. Callers on the order path must
// treat a failure as non-fatal: persistence is the source of truth,
// notification is best-effort.
func (m *Mailer) Send(msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Reply-To", ReplyTo(msg.Category))
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.HTML)

	for _, att := range msg.Attachments {
		content := att.Content
		mail.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}
