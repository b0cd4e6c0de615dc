// Package notify sends operator alerts when records exhaust their retry
// allowance. Notification is best-effort: a mail failure is logged and
// never fails the job that triggered it.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	mail "github.com/wneessen/go-mail"

	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/pkg/config"
	"multi-unit-enrichment/pkg/logging"
)

// Notifier receives the records that newly ran out of retries in a job run.
type Notifier interface {
	NotifyExhausted(ctx context.Context, records []models.UnitRecord)
}

// NopNotifier is used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) NotifyExhausted(context.Context, []models.UnitRecord) {}

// EmailNotifier mails the exhausted-record list over SMTP.
type EmailNotifier struct {
	client *mail.Client
	from   string
	to     string
	log    *logging.Logger
}

// NewEmailNotifier returns a NopNotifier when the SMTP host or recipient
// is missing, so callers never need to branch on configuration.
func NewEmailNotifier(cfg *config.Config, log *logging.Logger) Notifier {
	nlog := log.WithComponent("notify")

	if cfg.SMTPHost == "" || cfg.NotifyTo == "" {
		nlog.Info("notification mail not configured, alerts disabled")
		return NopNotifier{}
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		nlog.Error("smtp client init failed, alerts disabled", err)
		return NopNotifier{}
	}

	return &EmailNotifier{
		client: client,
		from:   cfg.SMTPUser,
		to:     cfg.NotifyTo,
		log:    nlog,
	}
}

func (n *EmailNotifier) NotifyExhausted(ctx context.Context, records []models.UnitRecord) {
	if len(records) == 0 {
		return
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		n.log.Error("invalid sender address", err)
		return
	}
	if err := msg.To(n.to); err != nil {
		n.log.Error("invalid recipient address", err)
		return
	}

	msg.Subject(fmt.Sprintf("[집합건물 서비스] %d개 레코드 처리 실패", len(records)))
	msg.SetBodyString(mail.TypeTextPlain, textBody(records))
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody(records))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		n.log.Error("failure notification mail not sent", err,
			logging.Int("records", len(records)))
		return
	}
	n.log.Info("failure notification sent", logging.Int("records", len(records)))
}

func textBody(records []models.UnitRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "다음 %d개 레코드가 최대 재시도 횟수를 초과했습니다.\n\n", len(records))
	for _, r := range records {
		fmt.Fprintf(&b, "- %s (동: %s, 호: %s) [%s]\n",
			orDash(r.Address), orDash(r.Dong), orDash(r.Ho), r.ID)
	}
	b.WriteString("\n재시도 창이 지나면 자동으로 다시 처리됩니다.\n")
	return b.String()
}

func htmlBody(records []models.UnitRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>다음 <strong>%d개</strong> 레코드가 최대 재시도 횟수를 초과했습니다.</p>", len(records))
	b.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	b.WriteString("<tr><th>주소</th><th>동</th><th>호</th><th>레코드 ID</th></tr>")
	for _, r := range records {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(orDash(r.Address)),
			html.EscapeString(orDash(r.Dong)),
			html.EscapeString(orDash(r.Ho)),
			html.EscapeString(r.ID))
	}
	b.WriteString("</table>")
	b.WriteString("<p>재시도 창이 지나면 자동으로 다시 처리됩니다.</p>")
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
